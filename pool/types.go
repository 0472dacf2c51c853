package pool

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// FundingType distinguishes community-funded campaigns from treasury grants.
type FundingType uint8

const (
	FundingTypeCrowdfunding  FundingType = 0
	FundingTypeTreasuryGrant FundingType = 1
)

// String prints the funding type as lower-case text for events and logs.
func (ft FundingType) String() string {
	switch ft {
	case FundingTypeCrowdfunding:
		return "crowdfunding"
	case FundingTypeTreasuryGrant:
		return "treasury-grant"
	default:
		return "unknown"
	}
}

// Valid reports whether the value is one of the two known funding types.
func (ft FundingType) Valid() bool {
	return ft == FundingTypeCrowdfunding || ft == FundingTypeTreasuryGrant
}

// CampaignStatus captures a campaign's review lifecycle.
type CampaignStatus uint8

const (
	StatusPending  CampaignStatus = 0
	StatusApproved CampaignStatus = 1
	StatusRejected CampaignStatus = 2
)

// String prints the campaign status as lower-case text for events and logs.
func (cs CampaignStatus) String() string {
	switch cs {
	case StatusPending:
		return "pending"
	case StatusApproved:
		return "approved"
	case StatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// MilestoneState is derived from the milestone record, never stored.
type MilestoneState uint8

const (
	MilestoneNotSubmitted  MilestoneState = 0
	MilestoneProofPending  MilestoneState = 1
	MilestoneApprovedState MilestoneState = 2
	MilestoneRejectedState MilestoneState = 3
)

// String prints the derived milestone state for events and API responses.
func (ms MilestoneState) String() string {
	switch ms {
	case MilestoneProofPending:
		return "proof-submitted"
	case MilestoneApprovedState:
		return "approved"
	case MilestoneRejectedState:
		return "rejected"
	default:
		return "not-submitted"
	}
}

// Milestone is one tranche of a treasury grant's funding goal.
// Completed is terminal; a rejection is re-enterable once the
// resubmission window has elapsed and a fresh proof arrives.
type Milestone struct {
	Description string
	Amount      *uint256.Int
	Completed   bool
	ProofCID    string
	CompletedAt int64
	RejectedAt  int64
	Withdrawn   bool
}

// State folds the record's flags into the tagged milestone state.
func (m *Milestone) State() MilestoneState {
	switch {
	case m.Completed:
		return MilestoneApprovedState
	case m.RejectedAt > 0:
		return MilestoneRejectedState
	case m.ProofCID != "":
		return MilestoneProofPending
	default:
		return MilestoneNotSubmitted
	}
}

// Campaign is a funding request, either crowdfunding or treasury grant.
// Deleted campaigns keep their slot with a zeroed creator so historic
// ids stay stable and scans can skip them.
type Campaign struct {
	ID          uint64
	Creator     common.Address
	Name        string
	Description string
	FundingType FundingType

	FundingGoal          *uint256.Int
	AmountRaised         *uint256.Int
	WithdrawnAmount      *uint256.Int
	CrowdfundedAmount    *uint256.Int
	CrowdfundedWithdrawn *uint256.Int

	Status            CampaignStatus
	Deadline          int64 // crowdfunding only
	ApplicationExpiry int64 // treasury grant only
	CreatedAt         int64

	ProjectCID   string
	HeroMediaCID string

	Milestones    []*Milestone
	Contributions map[common.Address]*uint256.Int

	Refunded bool
}

// Deleted reports whether the slot was cleared via DeleteCampaign.
func (c *Campaign) Deleted() bool {
	return c.Creator == (common.Address{})
}

// CreateCampaignArgs carries everything CreateCampaign needs; milestone
// slices must have equal length and their amounts may not exceed the goal.
type CreateCampaignArgs struct {
	Name                  string
	Description           string
	FundingType           FundingType
	FundingGoal           *uint256.Int
	MilestoneDescriptions []string
	MilestoneAmounts      []*uint256.Int
	ProjectCID            string
	HeroMediaCID          string
}
