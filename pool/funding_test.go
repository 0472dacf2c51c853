package pool

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFundProjectTwoContributors(t *testing.T) {
	p := newTestPool(newManualClock(), nil)
	id := newCrowdfunding(p, Ether(1))
	require.NoError(t, p.VoteCampaign(voter, id))

	// 0.5 and 0.6 from two addresses, 5% fee each.
	require.NoError(t, p.FundProject(funder1, id, milliEther(500)))
	require.NoError(t, p.FundProject(funder2, id, milliEther(600)))

	c, err := p.Snapshot(id)
	require.NoError(t, err)

	// net = 1.1 - 5% = 1.045 ETH
	assert.Equal(t, milliEther(1045).Dec(), c.AmountRaised.Dec())

	require.Len(t, c.Contributions, 2)
	assert.Equal(t, milliEther(475).Dec(), c.Contributions[funder1].Dec())
	assert.Equal(t, milliEther(570).Dec(), c.Contributions[funder2].Dec())

	// Half of the 0.055 ETH total fee goes to the treasury.
	assert.Equal(t, new(uint256.Int).Div(milliEther(55), uint256.NewInt(2)).Dec(), p.TreasuryBalance().Dec())
	assert.Equal(t, milliEther(1100).Dec(), p.Balance().Dec())
}

func TestFundProjectAccumulatesPerContributor(t *testing.T) {
	p := newTestPool(newManualClock(), nil)
	id := newCrowdfunding(p, Ether(1))
	require.NoError(t, p.VoteCampaign(voter, id))

	require.NoError(t, p.FundProject(funder1, id, milliEther(100)))
	require.NoError(t, p.FundProject(funder1, id, milliEther(100)))

	c, _ := p.Snapshot(id)
	require.Len(t, c.Contributions, 1)
	assert.Equal(t, milliEther(190).Dec(), c.Contributions[funder1].Dec())
}

func TestFundProjectRequiresApproved(t *testing.T) {
	p := newTestPool(newManualClock(), nil)
	id := newCrowdfunding(p, Ether(1))

	err := p.FundProject(funder1, id, milliEther(100))
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestFundProjectRejectsZeroValue(t *testing.T) {
	p := newTestPool(newManualClock(), nil)
	id := newCrowdfunding(p, Ether(1))
	require.NoError(t, p.VoteCampaign(voter, id))

	assert.ErrorIs(t, p.FundProject(funder1, id, new(uint256.Int)), ErrInvalidArgument)
	assert.ErrorIs(t, p.FundProject(funder1, id, nil), ErrInvalidArgument)
}

func TestFundProjectKYCThresholdBoundary(t *testing.T) {
	// Nobody is verified in this pool.
	p := newTestPool(newManualClock(), stubKYC{})
	id := newCrowdfunding(p, Ether(100))
	require.NoError(t, p.VoteCampaign(voter, id))

	// Exactly 5 ETH passes without KYC.
	require.NoError(t, p.FundProject(funder1, id, Ether(5)))

	// One wei above requires it.
	over := new(uint256.Int).Add(Ether(5), uint256.NewInt(1))
	err := p.FundProject(funder1, id, over)
	assert.ErrorIs(t, err, ErrKYCRequired)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestFundProjectKYCVerifiedAboveThreshold(t *testing.T) {
	p := newTestPool(newManualClock(), stubKYC{funder1: true})
	id := newCrowdfunding(p, Ether(100))
	require.NoError(t, p.VoteCampaign(voter, id))

	require.NoError(t, p.FundProject(funder1, id, Ether(6)))
}

func TestFundProjectOverrideAboveThreshold(t *testing.T) {
	p := newTestPool(newManualClock(), stubKYC{})
	id := newCrowdfunding(p, Ether(100))
	require.NoError(t, p.VoteCampaign(voter, id))

	require.NoError(t, p.SetEmergencyOverride(owner, funder1, id, true))
	require.NoError(t, p.FundProject(funder1, id, Ether(6)))

	require.NoError(t, p.SetEmergencyOverride(owner, funder1, id, false))
	assert.ErrorIs(t, p.FundProject(funder1, id, Ether(6)), ErrKYCRequired)
}

func TestFundTreasuryGrantCreditsCrowdfundedSide(t *testing.T) {
	p := newTestPool(newManualClock(), nil)
	id := newGrant(p, Ether(10), nil, nil)
	require.NoError(t, p.VoteCampaign(voter, id))

	require.NoError(t, p.FundProject(funder1, id, Ether(1)))

	c, _ := p.Snapshot(id)
	assert.True(t, c.AmountRaised.IsZero())
	assert.Equal(t, milliEther(950).Dec(), c.CrowdfundedAmount.Dec())
}

func TestFundedEventCarriesNetAndFee(t *testing.T) {
	p := newTestPool(newManualClock(), nil)
	id := newCrowdfunding(p, Ether(1))
	require.NoError(t, p.VoteCampaign(voter, id))
	require.NoError(t, p.FundProject(funder1, id, Ether(1)))

	var found bool
	for _, ev := range p.Events(id) {
		if ev.Kind != EventCampaignFunded {
			continue
		}
		found = true
		assert.Equal(t, funder1, ev.Actor)
		assert.Equal(t, milliEther(950).Dec(), ev.Amount.Dec())
		assert.Equal(t, milliEther(50).Dec(), ev.Fee.Dec())
		assert.NotZero(t, ev.Time)
	}
	assert.True(t, found, "expected a funded event")
}
