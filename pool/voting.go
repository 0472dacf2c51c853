package pool

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// VoteCampaign approves a pending campaign. Voter role required; a
// second vote on the same campaign fails because the status already
// left Pending. Approving a treasury grant without custom milestones
// installs the predefined 30/30/40 split.
func (p *FundingPool) VoteCampaign(caller common.Address, id uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.voters[caller] {
		return ErrNotVoter
	}
	c, err := p.campaign(id)
	if err != nil {
		return err
	}
	if c.Status != StatusPending {
		return stateErrf("campaign %d is %s, voting requires pending", id, c.Status)
	}

	c.Status = StatusApproved
	if c.FundingType == FundingTypeTreasuryGrant && len(c.Milestones) == 0 {
		c.Milestones = predefinedGrantMilestones(c.FundingGoal)
	}
	p.emit(EventCampaignVoted, id, -1, caller, nil, nil, "")
	return nil
}

// predefinedGrantMilestones builds the default tranche set. The last
// tranche takes the integer-division remainder so the sum equals the
// goal exactly.
func predefinedGrantMilestones(goal *uint256.Int) []*Milestone {
	out := make([]*Milestone, 0, len(grantMilestoneSplitBps))
	rest := goal.Clone()
	for i, bps := range grantMilestoneSplitBps {
		var amount *uint256.Int
		if i == len(grantMilestoneSplitBps)-1 {
			amount = rest.Clone()
		} else {
			amount = feeCut(goal, bps)
			rest.Sub(rest, amount)
		}
		out = append(out, &Milestone{
			Description: grantMilestoneDescriptions[i],
			Amount:      amount,
		})
	}
	return out
}

// AutoRejectUnreviewedTreasuryGrants rejects a grant application that
// sat unreviewed past its expiry. Callable by anyone; calling it again
// once the campaign left Pending fails instead of silently repeating.
func (p *FundingPool) AutoRejectUnreviewedTreasuryGrants(caller common.Address, id uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	c, err := p.campaign(id)
	if err != nil {
		return err
	}
	if c.FundingType != FundingTypeTreasuryGrant {
		return stateErrf("campaign %d is not a treasury grant", id)
	}
	if c.Status != StatusPending {
		return stateErrf("campaign %d is %s, auto-reject requires pending", id, c.Status)
	}
	if p.now() < c.ApplicationExpiry {
		return stateErrf("application window for campaign %d has not expired", id)
	}

	c.Status = StatusRejected
	p.emit(EventCampaignRejected, id, -1, caller, nil, nil, "expired")
	return nil
}

// OverrideAutoRejection resets a rejected treasury grant back to Pending
// so voters can still review it. Voter role required.
func (p *FundingPool) OverrideAutoRejection(caller common.Address, id uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.voters[caller] {
		return ErrNotVoter
	}
	c, err := p.campaign(id)
	if err != nil {
		return err
	}
	if c.FundingType != FundingTypeTreasuryGrant {
		return stateErrf("campaign %d is not a treasury grant", id)
	}
	if c.Status != StatusRejected {
		return stateErrf("campaign %d is %s, override requires rejected", id, c.Status)
	}

	c.Status = StatusPending
	p.emit(EventCampaignReinstated, id, -1, caller, nil, nil, "")
	return nil
}

// ApproveCustomMilestones replaces the predefined tranches of a pending
// treasury grant. Voter role required; the amounts must sum to the goal
// exactly so no funds are left dangling.
func (p *FundingPool) ApproveCustomMilestones(caller common.Address, id uint64, descriptions []string, amounts []*uint256.Int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.voters[caller] {
		return ErrNotVoter
	}
	c, err := p.campaign(id)
	if err != nil {
		return err
	}
	if c.FundingType != FundingTypeTreasuryGrant {
		return stateErrf("campaign %d is not a treasury grant", id)
	}
	if c.Status != StatusPending {
		return stateErrf("campaign %d is %s, custom milestones require pending", id, c.Status)
	}
	if len(descriptions) == 0 || len(descriptions) != len(amounts) {
		return argErrf("milestone arrays length mismatch: %d descriptions, %d amounts",
			len(descriptions), len(amounts))
	}
	for i, amt := range amounts {
		if amt == nil || amt.IsZero() {
			return argErrf("milestone %d amount must be > 0", i)
		}
	}
	if sumAmounts(amounts).Cmp(c.FundingGoal) != 0 {
		return argErrf("milestone amounts must sum to the funding goal")
	}

	milestones := make([]*Milestone, len(descriptions))
	for i, desc := range descriptions {
		milestones[i] = &Milestone{Description: desc, Amount: amounts[i].Clone()}
	}
	c.Milestones = milestones
	p.emit(EventMilestonesReplaced, id, -1, caller, nil, nil, "")
	return nil
}
