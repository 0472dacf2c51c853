package pool

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// CreateCampaign allocates the next sequential id and stores the record
// in Pending status. Only verified creators may call it; the milestone
// arrays must be parallel and their amounts may not exceed the goal.
func (p *FundingPool) CreateCampaign(caller common.Address, args CreateCampaignArgs) (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.verifiedCreators[caller] {
		return 0, ErrNotVerifiedCreator
	}
	if strings.TrimSpace(args.Name) == "" {
		return 0, argErrf("campaign name required")
	}
	if !args.FundingType.Valid() {
		return 0, argErrf("unknown funding type")
	}
	if args.FundingGoal == nil || args.FundingGoal.IsZero() {
		return 0, argErrf("funding goal must be > 0")
	}
	if len(args.MilestoneDescriptions) != len(args.MilestoneAmounts) {
		return 0, argErrf("milestone arrays length mismatch: %d descriptions, %d amounts",
			len(args.MilestoneDescriptions), len(args.MilestoneAmounts))
	}
	for i, amt := range args.MilestoneAmounts {
		if amt == nil || amt.IsZero() {
			return 0, argErrf("milestone %d amount must be > 0", i)
		}
	}
	if sumAmounts(args.MilestoneAmounts).Gt(args.FundingGoal) {
		return 0, argErrf("milestone amounts exceed funding goal")
	}

	now := p.now()
	c := &Campaign{
		ID:                   uint64(len(p.campaigns)) + 1,
		Creator:              caller,
		Name:                 args.Name,
		Description:          args.Description,
		FundingType:          args.FundingType,
		FundingGoal:          args.FundingGoal.Clone(),
		AmountRaised:         new(uint256.Int),
		WithdrawnAmount:      new(uint256.Int),
		CrowdfundedAmount:    new(uint256.Int),
		CrowdfundedWithdrawn: new(uint256.Int),
		Status:               StatusPending,
		CreatedAt:            now,
		ProjectCID:           args.ProjectCID,
		HeroMediaCID:         args.HeroMediaCID,
		Contributions:        map[common.Address]*uint256.Int{},
	}
	switch args.FundingType {
	case FundingTypeCrowdfunding:
		c.Deadline = now + int64(p.params.CrowdfundingDeadline.Seconds())
	case FundingTypeTreasuryGrant:
		c.ApplicationExpiry = now + int64(p.params.GrantReviewWindow.Seconds())
	}
	for i, desc := range args.MilestoneDescriptions {
		c.Milestones = append(c.Milestones, &Milestone{
			Description: desc,
			Amount:      args.MilestoneAmounts[i].Clone(),
		})
	}

	p.campaigns = append(p.campaigns, c)
	p.emit(EventCampaignCreated, c.ID, -1, caller, c.FundingGoal, nil, c.FundingType.String())
	return c.ID, nil
}

// DeleteCampaign irreversibly clears a record. Any unspent balance moves
// to the platform treasury first, then the creator is zeroed so
// collection scans skip the slot. Completed-but-unwithdrawn milestone
// tranches are forfeited: their claim on the treasury lapses with the
// record, so creators must withdraw before the owner deletes. Owner only.
func (p *FundingPool) DeleteCampaign(caller common.Address, id uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if caller != p.owner {
		return ErrNotOwner
	}
	c, err := p.campaign(id)
	if err != nil {
		return err
	}

	unspent := new(uint256.Int).Sub(c.AmountRaised, c.WithdrawnAmount)
	crowdUnspent := new(uint256.Int).Sub(c.CrowdfundedAmount, c.CrowdfundedWithdrawn)
	unspent.Add(unspent, crowdUnspent)
	if !unspent.IsZero() {
		p.treasuryBalance.Add(p.treasuryBalance, unspent)
	}

	c.Creator = common.Address{}
	p.emit(EventCampaignDeleted, id, -1, caller, unspent, nil, "")
	return nil
}
