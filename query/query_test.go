package query

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Creova-Group/Creova-sub000/pool"
)

var (
	owner   = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	voter   = common.HexToAddress("0x00000000000000000000000000000000000000b1")
	creator = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	alice   = common.HexToAddress("0x00000000000000000000000000000000000000d1")
	bob     = common.HexToAddress("0x00000000000000000000000000000000000000d2")
)

type allVerified struct{}

func (allVerified) IsKYCVerified(common.Address) bool { return true }

type tickingClock struct{ now time.Time }

func (c *tickingClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func setup(t *testing.T) (*pool.FundingPool, *Service, uint64) {
	t.Helper()
	clk := &tickingClock{now: time.Date(2025, 9, 3, 0, 0, 0, 0, time.UTC)}
	p := pool.New(owner, allVerified{}, pool.WithClock(clk))
	require.NoError(t, p.GrantVoter(owner, voter))
	require.NoError(t, p.GrantVerifiedCreator(owner, creator))

	id, err := p.CreateCampaign(creator, pool.CreateCampaignArgs{
		Name:        "river cleanup",
		FundingType: pool.FundingTypeCrowdfunding,
		FundingGoal: pool.Ether(10),
	})
	require.NoError(t, err)
	require.NoError(t, p.VoteCampaign(voter, id))
	return p, New(p), id
}

func TestCampaignsSkipsDeleted(t *testing.T) {
	p, svc, id := setup(t)

	id2, err := p.CreateCampaign(creator, pool.CreateCampaignArgs{
		Name:        "second",
		FundingType: pool.FundingTypeCrowdfunding,
		FundingGoal: pool.Ether(1),
	})
	require.NoError(t, err)
	require.NoError(t, p.DeleteCampaign(owner, id2))

	list := svc.Campaigns()
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
	assert.Equal(t, "river cleanup", list[0].Name)
}

func TestFundingTimelineOrder(t *testing.T) {
	p, svc, id := setup(t)

	require.NoError(t, p.FundProject(alice, id, pool.Ether(1)))
	require.NoError(t, p.FundProject(bob, id, pool.Ether(2)))
	require.NoError(t, p.FundProject(alice, id, pool.Ether(3)))

	timeline, err := svc.FundingTimeline(id)
	require.NoError(t, err)
	require.Len(t, timeline, 3)
	assert.Equal(t, alice, timeline[0].Funder)
	assert.Equal(t, bob, timeline[1].Funder)
	assert.LessOrEqual(t, timeline[0].Time, timeline[2].Time)
	for _, pt := range timeline {
		assert.NotNil(t, pt.Net)
		assert.NotNil(t, pt.Fee)
	}
}

func TestTopContributors(t *testing.T) {
	p, svc, id := setup(t)

	require.NoError(t, p.FundProject(alice, id, pool.Ether(1)))
	require.NoError(t, p.FundProject(bob, id, pool.Ether(2)))
	require.NoError(t, p.FundProject(alice, id, pool.Ether(3)))

	top, err := svc.TopContributors(id, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)

	// Alice's two contributions outweigh Bob's single one.
	assert.Equal(t, alice, top[0].Address)
	assert.Equal(t, bob, top[1].Address)
	assert.True(t, top[0].Total.Gt(top[1].Total))

	// Truncation.
	top, err = svc.TopContributors(id, 1)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}

func TestTimelineServedFromRestoredHistory(t *testing.T) {
	p, _, id := setup(t)
	require.NoError(t, p.FundProject(alice, id, pool.Ether(1)))
	require.NoError(t, p.FundProject(bob, id, pool.Ether(2)))

	// A rebooted node has the journaled stream but no live records yet.
	restarted := pool.New(owner, allVerified{}, pool.WithEventHistory(p.Events(0)))
	svc := New(restarted)

	_, err := restarted.Snapshot(id)
	require.ErrorIs(t, err, pool.ErrNotFound)

	timeline, err := svc.FundingTimeline(id)
	require.NoError(t, err)
	require.Len(t, timeline, 2)
	assert.Equal(t, alice, timeline[0].Funder)

	top, err := svc.TopContributors(id, 5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, bob, top[0].Address)
}

func TestQueriesOnUnknownCampaign(t *testing.T) {
	_, svc, _ := setup(t)

	_, err := svc.FundingTimeline(99)
	assert.ErrorIs(t, err, pool.ErrNotFound)
	_, err = svc.TopContributors(99, 5)
	assert.ErrorIs(t, err, pool.ErrNotFound)
}
