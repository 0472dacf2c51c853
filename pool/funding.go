package pool

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// FundProject credits a contribution to an approved campaign. A 5% fee
// comes off the top (half treasury, half platform); the net amount lands
// on amountRaised, or on crowdfundedAmount when the community funds a
// treasury grant. Contributions above the 5 ETH threshold require the
// funder to be KYC verified (or carry an emergency override).
func (p *FundingPool) FundProject(funder common.Address, id uint64, value *uint256.Int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	c, err := p.campaign(id)
	if err != nil {
		return err
	}
	if value == nil || value.IsZero() {
		return argErrf("contribution must be > 0")
	}
	if c.Status != StatusApproved {
		return stateErrf("campaign %d is %s, funding requires approved", id, c.Status)
	}
	if !p.kycCleared(funder, id, value, p.params.KYCFundingThreshold) {
		return ErrKYCRequired
	}

	fee := feeCut(value, p.params.FundingFeeBps)
	treasuryCut, platformCut := splitFee(fee)
	net := new(uint256.Int).Sub(value, fee)

	p.balance.Add(p.balance, value)
	p.treasuryBalance.Add(p.treasuryBalance, treasuryCut)
	p.platformFees.Add(p.platformFees, platformCut)

	if c.FundingType == FundingTypeTreasuryGrant {
		c.CrowdfundedAmount.Add(c.CrowdfundedAmount, net)
	} else {
		c.AmountRaised.Add(c.AmountRaised, net)
	}
	if prev, ok := c.Contributions[funder]; ok {
		prev.Add(prev, net)
	} else {
		c.Contributions[funder] = net.Clone()
	}

	p.emit(EventCampaignFunded, id, -1, funder, net, fee, "")
	return nil
}

// AddTreasuryFunds is a plain deposit into the platform treasury; it
// backs treasury grant disbursements and the quarterly limit base.
func (p *FundingPool) AddTreasuryFunds(from common.Address, value *uint256.Int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if value == nil || value.IsZero() {
		return argErrf("deposit must be > 0")
	}
	p.balance.Add(p.balance, value)
	p.treasuryBalance.Add(p.treasuryBalance, value)
	p.emit(EventTreasuryDeposit, 0, -1, from, value, nil, "")
	return nil
}
