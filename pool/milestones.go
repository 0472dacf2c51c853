package pool

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// SubmitMilestoneProof records the creator's proof CID for a milestone.
// After a rejection the resubmission window (7 days) must elapse before
// a new proof is accepted; a successful resubmission clears the
// rejection marker.
func (p *FundingPool) SubmitMilestoneProof(caller common.Address, id uint64, idx int, proofCID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	c, m, err := p.milestone(id, idx)
	if err != nil {
		return err
	}
	if caller != c.Creator {
		return ErrNotCampaignCreator
	}
	if strings.TrimSpace(proofCID) == "" {
		return argErrf("proof cid required")
	}
	if c.Status != StatusApproved {
		return stateErrf("campaign %d is %s, proofs require approved", id, c.Status)
	}
	if c.Refunded {
		return stateErrf("campaign %d funds were refunded to treasury", id)
	}
	if m.Completed {
		return stateErrf("milestone %d of campaign %d already completed", idx, id)
	}
	if m.RejectedAt > 0 && !elapsed(m.RejectedAt, p.params.ResubmitWindow, p.now()) {
		return stateErrf("resubmission window for milestone %d of campaign %d still open", idx, id)
	}

	m.ProofCID = proofCID
	m.RejectedAt = 0
	p.emit(EventProofSubmitted, id, idx, caller, nil, nil, proofCID)
	return nil
}

// ApproveMilestone marks a proven milestone completed. Completion is
// terminal and never moves funds; disbursement happens in
// WithdrawMilestoneFunds under the quarterly treasury limit. Voter role
// required.
func (p *FundingPool) ApproveMilestone(caller common.Address, id uint64, idx int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.voters[caller] {
		return ErrNotVoter
	}
	c, m, err := p.milestone(id, idx)
	if err != nil {
		return err
	}
	if c.Refunded {
		return stateErrf("campaign %d funds were refunded to treasury", id)
	}
	if m.ProofCID == "" {
		return stateErrf("milestone %d of campaign %d has no proof", idx, id)
	}
	if m.Completed {
		return stateErrf("milestone %d of campaign %d already completed", idx, id)
	}
	if m.RejectedAt > 0 {
		return stateErrf("milestone %d of campaign %d is rejected, needs resubmission", idx, id)
	}

	m.Completed = true
	m.CompletedAt = p.now()
	p.emit(EventMilestoneApproved, id, idx, caller, m.Amount, nil, "")
	return nil
}

// RejectMilestone marks a submitted proof as rejected and starts the
// resubmission window. Completed milestones cannot be rejected. Voter
// role required.
func (p *FundingPool) RejectMilestone(caller common.Address, id uint64, idx int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.voters[caller] {
		return ErrNotVoter
	}
	c, m, err := p.milestone(id, idx)
	if err != nil {
		return err
	}
	if c.Refunded {
		return stateErrf("campaign %d funds were refunded to treasury", id)
	}
	if m.Completed {
		return stateErrf("milestone %d of campaign %d already completed", idx, id)
	}
	if m.ProofCID == "" {
		return stateErrf("milestone %d of campaign %d has no proof to reject", idx, id)
	}
	if m.RejectedAt > 0 {
		return stateErrf("milestone %d of campaign %d is already rejected", idx, id)
	}

	m.RejectedAt = p.now()
	p.emit(EventMilestoneRejected, id, idx, caller, nil, nil, "")
	return nil
}

// RefundUnspentFunds returns a grant's uncommitted funds to the platform
// treasury once the creator abandoned a rejected milestone (window
// lapsed, no resubmission) or the campaign closed. Callable by anyone.
// Completed-but-unwithdrawn tranches stay committed to the creator;
// already-withdrawn totals are never clawed back.
func (p *FundingPool) RefundUnspentFunds(caller common.Address, id uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	c, err := p.campaign(id)
	if err != nil {
		return err
	}
	if c.FundingType != FundingTypeTreasuryGrant {
		return stateErrf("campaign %d is not a treasury grant", id)
	}
	if c.Status != StatusApproved {
		return stateErrf("campaign %d is %s, refund requires approved", id, c.Status)
	}
	if c.Refunded {
		return stateErrf("campaign %d funds were already refunded", id)
	}
	if !p.refundEligible(c) {
		return stateErrf("campaign %d has no lapsed rejection and is not closed", id)
	}

	// Uncommitted tranches: everything not completed. Completed tranches
	// remain withdrawable by the creator.
	uncommitted := new(uint256.Int)
	for _, m := range c.Milestones {
		if !m.Completed {
			uncommitted.Add(uncommitted, m.Amount)
		}
	}
	crowdUnspent := new(uint256.Int).Sub(c.CrowdfundedAmount, c.CrowdfundedWithdrawn)
	if !crowdUnspent.IsZero() {
		p.treasuryBalance.Add(p.treasuryBalance, crowdUnspent)
		c.CrowdfundedWithdrawn.Add(c.CrowdfundedWithdrawn, crowdUnspent)
	}

	c.Refunded = true
	total := new(uint256.Int).Add(uncommitted, crowdUnspent)
	p.emit(EventUnspentRefunded, id, -1, caller, total, nil, "")
	return nil
}

// refundEligible: an abandoned rejection (window lapsed without a new
// proof) or a fully settled milestone set. Callers hold the mutex.
func (p *FundingPool) refundEligible(c *Campaign) bool {
	now := p.now()
	allTerminal := len(c.Milestones) > 0
	for _, m := range c.Milestones {
		if m.RejectedAt > 0 && elapsed(m.RejectedAt, p.params.ResubmitWindow, now) {
			return true
		}
		if !m.Completed {
			allTerminal = false
		}
	}
	return allTerminal
}
