package pool

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// TreasuryStatus is a read-only snapshot of the quarterly accounting.
type TreasuryStatus struct {
	Limit        *uint256.Int
	Used         *uint256.Int
	QuarterStart int64
	Balance      *uint256.Int
	PlatformFees *uint256.Int
}

// Treasury returns the current quarterly accounting snapshot.
func (p *FundingPool) Treasury() TreasuryStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return TreasuryStatus{
		Limit:        p.quarterlyLimit.Clone(),
		Used:         p.quarterlyUsed.Clone(),
		QuarterStart: p.quarterStart,
		Balance:      p.treasuryBalance.Clone(),
		PlatformFees: p.platformFees.Clone(),
	}
}

// rollQuarterIfDue starts a fresh 90-day window when the current one has
// elapsed: usage resets and the limit is recomputed as 10% of the pool
// balance at the boundary. Callers hold the mutex.
func (p *FundingPool) rollQuarterIfDue() {
	now := p.now()
	if !elapsed(p.quarterStart, p.params.QuarterLength, now) {
		return
	}
	// Skip whole missed quarters, anchoring the window to the schedule
	// rather than the call time.
	quarter := int64(p.params.QuarterLength.Seconds())
	for now >= p.quarterStart+quarter {
		p.quarterStart += quarter
	}
	p.quarterlyUsed.Clear()
	p.quarterlyLimit = feeCut(p.balance, p.params.TreasuryFractionBps)
	p.emit(EventTreasuryLimitUpdate, 0, -1, common.Address{}, p.quarterlyLimit, nil, "quarter")
}

// UpdateTreasuryLimit recomputes the quarterly limit. On a new quarter it
// rolls the window; otherwise it is a no-op unless force is set, which
// recomputes the limit against the current balance without resetting
// usage. Owner only.
func (p *FundingPool) UpdateTreasuryLimit(caller common.Address, force bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if caller != p.owner {
		return ErrNotOwner
	}
	if elapsed(p.quarterStart, p.params.QuarterLength, p.now()) {
		p.rollQuarterIfDue()
		return nil
	}
	if !force {
		return nil
	}
	p.quarterlyLimit = feeCut(p.balance, p.params.TreasuryFractionBps)
	p.emit(EventTreasuryLimitUpdate, 0, -1, caller, p.quarterlyLimit, nil, "forced")
	return nil
}
