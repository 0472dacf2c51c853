package journal

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Creova-Group/Creova-sub000/pool"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestAppendAndByCampaign(t *testing.T) {
	j := openTestJournal(t)
	actor := common.HexToAddress("0x00000000000000000000000000000000000000d1")

	require.NoError(t, j.Append(pool.Event{
		Seq: 1, Kind: pool.EventCampaignCreated, CampaignID: 1,
		MilestoneIndex: -1, Actor: actor, Amount: pool.Ether(1), Time: 1700000000,
	}))
	require.NoError(t, j.Append(pool.Event{
		Seq: 2, Kind: pool.EventCampaignFunded, CampaignID: 1,
		MilestoneIndex: -1, Actor: actor,
		Amount: pool.Ether(2), Fee: pool.Ether(1), Time: 1700000100,
	}))
	require.NoError(t, j.Append(pool.Event{
		Seq: 3, Kind: pool.EventCampaignCreated, CampaignID: 2,
		MilestoneIndex: -1, Actor: actor, Time: 1700000200,
	}))

	evs, err := j.ByCampaign(1)
	require.NoError(t, err)
	require.Len(t, evs, 2)

	assert.Equal(t, uint64(1), evs[0].Seq)
	assert.Equal(t, pool.EventCampaignFunded, evs[1].Kind)
	assert.Equal(t, actor, evs[1].Actor)
	assert.Equal(t, pool.Ether(2).Dec(), evs[1].Amount.Dec())
	assert.Equal(t, pool.Ether(1).Dec(), evs[1].Fee.Dec())
	assert.Nil(t, evs[0].Fee)
}

func TestReplayOrder(t *testing.T) {
	j := openTestJournal(t)
	actor := common.HexToAddress("0x00000000000000000000000000000000000000d1")

	for seq := uint64(1); seq <= 5; seq++ {
		require.NoError(t, j.Append(pool.Event{
			Seq: seq, Kind: pool.EventCampaignFunded, CampaignID: 1,
			MilestoneIndex: -1, Actor: actor, Time: int64(seq),
		}))
	}

	var seen []uint64
	require.NoError(t, j.Replay(func(ev pool.Event) error {
		seen = append(seen, ev.Seq)
		return nil
	}))
	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, seen)
}

func TestHistoryServesAcrossRestart(t *testing.T) {
	dir := t.TempDir()
	j, err := Open(dir)
	require.NoError(t, err)

	owner := common.HexToAddress("0x00000000000000000000000000000000000000a1")
	p := pool.New(owner, nil, pool.WithSink(j))
	require.NoError(t, p.GrantVoter(owner, owner))
	require.NoError(t, p.GrantVerifiedCreator(owner, owner))

	id, err := p.CreateCampaign(owner, pool.CreateCampaignArgs{
		Name:        "persistent",
		FundingType: pool.FundingTypeCrowdfunding,
		FundingGoal: pool.Ether(1),
	})
	require.NoError(t, err)
	require.NoError(t, p.VoteCampaign(owner, id))
	require.NoError(t, p.FundProject(owner, id, pool.Ether(1)))
	require.NoError(t, j.Close())

	// Reboot: fresh handle, fresh pool seeded from the replayed stream.
	j2, err := Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { j2.Close() })

	var history []pool.Event
	require.NoError(t, j2.Replay(func(ev pool.Event) error {
		history = append(history, ev)
		return nil
	}))
	require.NotEmpty(t, history)

	restarted := pool.New(owner, nil, pool.WithSink(j2), pool.WithEventHistory(history))
	evs := restarted.Events(id)
	require.NotEmpty(t, evs)
	assert.Equal(t, pool.EventCampaignFunded, evs[len(evs)-1].Kind)

	// New events continue the journaled sequence, so appends after the
	// restart cannot collide with persisted rows.
	require.NoError(t, restarted.GrantVoter(owner, owner))
	all := restarted.Events(0)
	assert.Equal(t, history[len(history)-1].Seq+1, all[len(all)-1].Seq)
}

func TestJournalAsPoolSink(t *testing.T) {
	j := openTestJournal(t)

	owner := common.HexToAddress("0x00000000000000000000000000000000000000a1")
	p := pool.New(owner, nil, pool.WithSink(j))
	require.NoError(t, p.GrantVoter(owner, owner))
	require.NoError(t, p.GrantVerifiedCreator(owner, owner))

	id, err := p.CreateCampaign(owner, pool.CreateCampaignArgs{
		Name:        "journaled",
		FundingType: pool.FundingTypeCrowdfunding,
		FundingGoal: pool.Ether(1),
	})
	require.NoError(t, err)

	evs, err := j.ByCampaign(id)
	require.NoError(t, err)
	require.NotEmpty(t, evs)
	assert.Equal(t, pool.EventCampaignCreated, evs[0].Kind)
}
