package pool

import (
	"time"

	"github.com/holiman/uint256"
)

// -----------------------------------------------------------------------------
// Fee & Treasury Rates (basis points)
// -----------------------------------------------------------------------------

const (
	// bpsDenominator is the divisor for all basis-point math.
	bpsDenominator = 10_000
	// DefaultFundingFeeBps is the total cut taken from every contribution (5%).
	DefaultFundingFeeBps = 500
	// DefaultWithdrawFeeBps is the cut taken from crowdfunding withdrawals (2.5%).
	DefaultWithdrawFeeBps = 250
	// DefaultTreasuryFractionBps sizes the quarterly limit against pool balance (10%).
	DefaultTreasuryFractionBps = 1_000
)

// -----------------------------------------------------------------------------
// Time Windows
// -----------------------------------------------------------------------------

const (
	// DefaultQuarterLength bounds treasury spending in 90-day windows.
	DefaultQuarterLength = 90 * 24 * time.Hour
	// DefaultCrowdfundingDeadline is added to createdAt for crowdfunding campaigns.
	DefaultCrowdfundingDeadline = 30 * 24 * time.Hour
	// DefaultGrantReviewWindow is added to createdAt for treasury grant applications.
	DefaultGrantReviewWindow = 14 * 24 * time.Hour
	// DefaultResubmitWindow must elapse after a rejection before a new proof is accepted.
	DefaultResubmitWindow = 7 * 24 * time.Hour
)

// -----------------------------------------------------------------------------
// Predefined Grant Milestones
// -----------------------------------------------------------------------------

// grantMilestoneSplitBps is the 30/30/40 split installed when a treasury
// grant is approved without custom milestones.
var grantMilestoneSplitBps = []uint64{3_000, 3_000, 4_000}

// grantMilestoneDescriptions pairs with the split above, index for index.
var grantMilestoneDescriptions = []string{
	"Initial disbursement",
	"Progress report",
	"Final delivery",
}

// -----------------------------------------------------------------------------
// Params
// -----------------------------------------------------------------------------

// Params collects every tunable the pool consults. Zero values are not
// usable; construct via DefaultParams and override selectively.
type Params struct {
	FundingFeeBps       uint64
	WithdrawFeeBps      uint64
	TreasuryFractionBps uint64

	QuarterLength        time.Duration
	CrowdfundingDeadline time.Duration
	GrantReviewWindow    time.Duration
	ResubmitWindow       time.Duration

	// KYCFundingThreshold gates contributions; exactly at the threshold
	// passes, one wei above requires verification.
	KYCFundingThreshold *uint256.Int
	// KYCWithdrawThreshold gates payouts the same way.
	KYCWithdrawThreshold *uint256.Int
}

// DefaultParams returns the production constants of the funding pool.
func DefaultParams() Params {
	return Params{
		FundingFeeBps:        DefaultFundingFeeBps,
		WithdrawFeeBps:       DefaultWithdrawFeeBps,
		TreasuryFractionBps:  DefaultTreasuryFractionBps,
		QuarterLength:        DefaultQuarterLength,
		CrowdfundingDeadline: DefaultCrowdfundingDeadline,
		GrantReviewWindow:    DefaultGrantReviewWindow,
		ResubmitWindow:       DefaultResubmitWindow,
		KYCFundingThreshold:  Ether(5),
		KYCWithdrawThreshold: Ether(10),
	}
}
