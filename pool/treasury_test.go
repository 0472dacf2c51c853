package pool

import (
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuarterlyLimitEnforced(t *testing.T) {
	clk := newManualClock()
	p := newTestPool(clk, nil)

	// 20 ETH treasury, forced limit = 10% of balance = 2 ETH.
	require.NoError(t, p.AddTreasuryFunds(owner, Ether(20)))
	require.NoError(t, p.UpdateTreasuryLimit(owner, true))

	id := newGrant(p, Ether(3),
		[]string{"one", "two"},
		[]*uint256.Int{Ether(2), Ether(1)})
	require.NoError(t, p.VoteCampaign(voter, id))

	require.NoError(t, p.SubmitMilestoneProof(creator, id, 0, "p0"))
	require.NoError(t, p.ApproveMilestone(voter, id, 0))
	require.NoError(t, p.SubmitMilestoneProof(creator, id, 1, "p1"))
	require.NoError(t, p.ApproveMilestone(voter, id, 1))

	// First tranche fits the 2 ETH limit exactly.
	paid, err := p.WithdrawMilestoneFunds(creator, id, 0)
	require.NoError(t, err)
	assert.Equal(t, Ether(2).Dec(), paid.Dec())

	ts := p.Treasury()
	assert.Equal(t, Ether(2).Dec(), ts.Used.Dec())
	assert.False(t, ts.Used.Gt(ts.Limit))

	// Second tranche would blow the quarter; approval already happened,
	// only the disbursement is deferred.
	_, err = p.WithdrawMilestoneFunds(creator, id, 1)
	assert.ErrorIs(t, err, ErrQuarterlyLimitExceeded)
	assert.ErrorIs(t, err, ErrResourceExhausted)

	// Next quarter: usage resets, limit recomputes against the remaining
	// balance, and the deferred payout clears.
	clk.Advance(DefaultQuarterLength)
	paid, err = p.WithdrawMilestoneFunds(creator, id, 1)
	require.NoError(t, err)
	assert.Equal(t, Ether(1).Dec(), paid.Dec())
}

func TestUpdateTreasuryLimitOwnerOnly(t *testing.T) {
	p := newTestPool(newManualClock(), nil)
	assert.ErrorIs(t, p.UpdateTreasuryLimit(voter, true), ErrNotOwner)
}

func TestUpdateTreasuryLimitNoopWithinQuarter(t *testing.T) {
	p := newTestPool(newManualClock(), nil)
	require.NoError(t, p.AddTreasuryFunds(owner, Ether(20)))

	// Not forced, quarter still running: limit untouched.
	require.NoError(t, p.UpdateTreasuryLimit(owner, false))
	assert.True(t, p.Treasury().Limit.IsZero())

	require.NoError(t, p.UpdateTreasuryLimit(owner, true))
	assert.Equal(t, Ether(2).Dec(), p.Treasury().Limit.Dec())
}

func TestQuarterRollRecomputesLimit(t *testing.T) {
	clk := newManualClock()
	p := newTestPool(clk, nil)
	require.NoError(t, p.AddTreasuryFunds(owner, Ether(50)))

	clk.Advance(DefaultQuarterLength)
	require.NoError(t, p.UpdateTreasuryLimit(owner, false))

	ts := p.Treasury()
	assert.Equal(t, Ether(5).Dec(), ts.Limit.Dec())
	assert.True(t, ts.Used.IsZero())
}

func TestMilestoneWithdrawKYCBoundary(t *testing.T) {
	p := newTestPool(newManualClock(), stubKYC{})
	require.NoError(t, p.AddTreasuryFunds(owner, Ether(300)))
	require.NoError(t, p.UpdateTreasuryLimit(owner, true))

	id := newGrant(p, Ether(11),
		[]string{"exact", "over"},
		[]*uint256.Int{Ether(10), Ether(1)})
	require.NoError(t, p.VoteCampaign(voter, id))
	require.NoError(t, p.SubmitMilestoneProof(creator, id, 0, "p0"))
	require.NoError(t, p.ApproveMilestone(voter, id, 0))

	// Exactly 10 ETH needs no KYC.
	_, err := p.WithdrawMilestoneFunds(creator, id, 0)
	require.NoError(t, err)

	// A tranche one wei above the threshold gates on KYC, then clears
	// via the per-(creator,campaign) emergency override.
	over := new(uint256.Int).Add(Ether(10), uint256.NewInt(1))
	id2 := newGrant(p, over, []string{"big"}, []*uint256.Int{over})
	require.NoError(t, p.VoteCampaign(voter, id2))
	require.NoError(t, p.SubmitMilestoneProof(creator, id2, 0, "p0"))
	require.NoError(t, p.ApproveMilestone(voter, id2, 0))

	_, err = p.WithdrawMilestoneFunds(creator, id2, 0)
	assert.ErrorIs(t, err, ErrKYCRequired)

	require.NoError(t, p.SetEmergencyOverride(owner, creator, id2, true))
	_, err = p.WithdrawMilestoneFunds(creator, id2, 0)
	require.NoError(t, err)
}

func TestMilestoneWithdrawPreconditions(t *testing.T) {
	p := newTestPool(newManualClock(), nil)
	require.NoError(t, p.AddTreasuryFunds(owner, Ether(100)))
	require.NoError(t, p.UpdateTreasuryLimit(owner, true))

	id := newGrant(p, Ether(10), nil, nil)
	require.NoError(t, p.VoteCampaign(voter, id))

	// Not completed yet.
	_, err := p.WithdrawMilestoneFunds(creator, id, 0)
	assert.ErrorIs(t, err, ErrInvalidState)

	require.NoError(t, p.SubmitMilestoneProof(creator, id, 0, "p0"))
	require.NoError(t, p.ApproveMilestone(voter, id, 0))

	// Creator only.
	_, err = p.WithdrawMilestoneFunds(voter, id, 0)
	assert.ErrorIs(t, err, ErrNotCampaignCreator)

	_, err = p.WithdrawMilestoneFunds(creator, id, 0)
	require.NoError(t, err)

	// Double withdrawal of the same tranche fails.
	_, err = p.WithdrawMilestoneFunds(creator, id, 0)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestWithdrawnNeverExceedsRaised(t *testing.T) {
	clk := newManualClock()
	p := newTestPool(clk, nil)
	id := newCrowdfunding(p, Ether(1))
	require.NoError(t, p.VoteCampaign(voter, id))
	require.NoError(t, p.FundProject(funder1, id, milliEther(500)))
	require.NoError(t, p.FundProject(funder2, id, milliEther(600)))

	_, err := p.WithdrawFunds(creator, id)
	require.NoError(t, err)

	c, _ := p.Snapshot(id)
	assert.False(t, c.WithdrawnAmount.Gt(c.AmountRaised))

	// Nothing left: a second withdrawal fails.
	_, err = p.WithdrawFunds(creator, id)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestWithdrawFundsRequiresGoalOrDeadline(t *testing.T) {
	clk := newManualClock()
	p := newTestPool(clk, nil)
	id := newCrowdfunding(p, Ether(1))
	require.NoError(t, p.VoteCampaign(voter, id))
	require.NoError(t, p.FundProject(funder1, id, milliEther(500)))

	// Goal unmet, deadline in the future.
	_, err := p.WithdrawFunds(creator, id)
	assert.ErrorIs(t, err, ErrInvalidState)

	// Past the deadline the partial amount unlocks.
	clk.Advance(DefaultCrowdfundingDeadline + time.Second)
	paid, err := p.WithdrawFunds(creator, id)
	require.NoError(t, err)

	// 0.475 raised minus the 2.5% withdrawal fee.
	net := new(uint256.Int).Sub(milliEther(475), feeCut(milliEther(475), DefaultWithdrawFeeBps))
	assert.Equal(t, net.Dec(), paid.Dec())
}

func TestWithdrawFundsCreatorOnly(t *testing.T) {
	p := newTestPool(newManualClock(), nil)
	id := newCrowdfunding(p, Ether(1))
	require.NoError(t, p.VoteCampaign(voter, id))
	require.NoError(t, p.FundProject(funder1, id, Ether(1)))

	_, err := p.WithdrawFunds(funder1, id)
	assert.ErrorIs(t, err, ErrNotCampaignCreator)
}

func TestGrantCrowdfundedWithdrawAfterAllMilestones(t *testing.T) {
	p := newTestPool(newManualClock(), nil)
	require.NoError(t, p.AddTreasuryFunds(owner, Ether(100)))
	require.NoError(t, p.UpdateTreasuryLimit(owner, true))

	id := newGrant(p, Ether(5), []string{"all"}, []*uint256.Int{Ether(5)})
	require.NoError(t, p.VoteCampaign(voter, id))
	require.NoError(t, p.FundProject(funder1, id, Ether(2)))

	// Milestones outstanding: community side stays locked.
	_, err := p.WithdrawFunds(creator, id)
	assert.ErrorIs(t, err, ErrInvalidState)

	require.NoError(t, p.SubmitMilestoneProof(creator, id, 0, "p0"))
	require.NoError(t, p.ApproveMilestone(voter, id, 0))

	_, err = p.WithdrawFunds(creator, id)
	require.NoError(t, err)

	c, _ := p.Snapshot(id)
	assert.False(t, c.CrowdfundedWithdrawn.Gt(c.CrowdfundedAmount))
	assert.Equal(t, c.CrowdfundedAmount.Dec(), c.CrowdfundedWithdrawn.Dec())
}

func TestOwnerWithdraw(t *testing.T) {
	p := newTestPool(newManualClock(), nil)
	require.NoError(t, p.AddTreasuryFunds(owner, Ether(10)))

	assert.ErrorIs(t, p.OwnerWithdraw(voter, Ether(1)), ErrNotOwner)
	assert.ErrorIs(t, p.OwnerWithdraw(owner, Ether(11)), ErrInsufficientBalance)

	require.NoError(t, p.OwnerWithdraw(owner, Ether(4)))
	assert.Equal(t, Ether(6).Dec(), p.Balance().Dec())
}
