package pool

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// WithdrawFunds pays the creator everything raised and not yet withdrawn,
// minus the 2.5% withdrawal fee (split treasury/platform). Crowdfunding
// campaigns unlock once the goal is met or the deadline passed; for a
// treasury grant this withdraws the community-funded side once every
// milestone completed. Payouts above 10 ETH require KYC or an emergency
// override. Returns the net amount paid out.
func (p *FundingPool) WithdrawFunds(caller common.Address, id uint64) (*uint256.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	c, err := p.campaign(id)
	if err != nil {
		return nil, err
	}
	if caller != c.Creator {
		return nil, ErrNotCampaignCreator
	}
	if c.Status != StatusApproved {
		return nil, stateErrf("campaign %d is %s, withdrawal requires approved", id, c.Status)
	}

	var available *uint256.Int
	switch c.FundingType {
	case FundingTypeCrowdfunding:
		goalMet := !c.AmountRaised.Lt(c.FundingGoal)
		if !goalMet && p.now() <= c.Deadline {
			return nil, stateErrf("campaign %d: goal not met and deadline not passed", id)
		}
		available = new(uint256.Int).Sub(c.AmountRaised, c.WithdrawnAmount)
	case FundingTypeTreasuryGrant:
		if c.Refunded {
			return nil, stateErrf("campaign %d funds were refunded to treasury", id)
		}
		for i, m := range c.Milestones {
			if !m.Completed {
				return nil, stateErrf("campaign %d: milestone %d not completed", id, i)
			}
		}
		available = new(uint256.Int).Sub(c.CrowdfundedAmount, c.CrowdfundedWithdrawn)
	}
	if available.IsZero() {
		return nil, stateErrf("campaign %d has nothing to withdraw", id)
	}
	if !p.kycCleared(caller, id, available, p.params.KYCWithdrawThreshold) {
		return nil, ErrKYCRequired
	}
	if p.balance.Lt(available) {
		return nil, ErrInsufficientBalance
	}

	fee := feeCut(available, p.params.WithdrawFeeBps)
	treasuryCut, platformCut := splitFee(fee)
	net := new(uint256.Int).Sub(available, fee)

	if c.FundingType == FundingTypeTreasuryGrant {
		c.CrowdfundedWithdrawn.Add(c.CrowdfundedWithdrawn, available)
	} else {
		c.WithdrawnAmount.Add(c.WithdrawnAmount, available)
	}
	p.balance.Sub(p.balance, net)
	p.treasuryBalance.Add(p.treasuryBalance, treasuryCut)
	p.platformFees.Add(p.platformFees, platformCut)

	p.emit(EventFundsWithdrawn, id, -1, caller, net, fee, "")
	return net, nil
}

// WithdrawMilestoneFunds disburses one completed, unwithdrawn tranche of
// a treasury grant from the platform treasury. The disbursement counts
// against the quarterly limit and fails if it would exceed it; amounts
// above 10 ETH require KYC or an emergency override. Returns the amount
// paid out.
func (p *FundingPool) WithdrawMilestoneFunds(caller common.Address, id uint64, idx int) (*uint256.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	c, m, err := p.milestone(id, idx)
	if err != nil {
		return nil, err
	}
	if caller != c.Creator {
		return nil, ErrNotCampaignCreator
	}
	if c.FundingType != FundingTypeTreasuryGrant {
		return nil, stateErrf("campaign %d is not a treasury grant", id)
	}
	if !m.Completed {
		return nil, stateErrf("milestone %d of campaign %d not completed", idx, id)
	}
	if m.Withdrawn {
		return nil, stateErrf("milestone %d of campaign %d already withdrawn", idx, id)
	}
	if !p.kycCleared(caller, id, m.Amount, p.params.KYCWithdrawThreshold) {
		return nil, ErrKYCRequired
	}

	p.rollQuarterIfDue()
	spent := new(uint256.Int).Add(p.quarterlyUsed, m.Amount)
	if spent.Gt(p.quarterlyLimit) {
		return nil, ErrQuarterlyLimitExceeded
	}
	if p.treasuryBalance.Lt(m.Amount) {
		return nil, ErrInsufficientBalance
	}

	m.Withdrawn = true
	p.quarterlyUsed.Set(spent)
	p.treasuryBalance.Sub(p.treasuryBalance, m.Amount)
	p.balance.Sub(p.balance, m.Amount)

	p.emit(EventMilestoneWithdrawn, id, idx, caller, m.Amount, nil, "")
	return m.Amount.Clone(), nil
}

// OwnerWithdraw is the privileged maintenance path: the owner pulls an
// arbitrary amount bounded only by the available balance.
func (p *FundingPool) OwnerWithdraw(caller common.Address, amount *uint256.Int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if caller != p.owner {
		return ErrNotOwner
	}
	if amount == nil || amount.IsZero() {
		return argErrf("withdrawal must be > 0")
	}
	if p.balance.Lt(amount) {
		return ErrInsufficientBalance
	}

	p.balance.Sub(p.balance, amount)
	// Drain the platform fee bucket first, then the treasury.
	if !p.platformFees.Lt(amount) {
		p.platformFees.Sub(p.platformFees, amount)
	} else {
		rest := new(uint256.Int).Sub(amount, p.platformFees)
		p.platformFees.Clear()
		if p.treasuryBalance.Lt(rest) {
			p.treasuryBalance.Clear()
		} else {
			p.treasuryBalance.Sub(p.treasuryBalance, rest)
		}
	}

	p.emit(EventOwnerWithdrawn, 0, -1, caller, amount, nil, "")
	return nil
}
