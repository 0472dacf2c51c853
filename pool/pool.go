package pool

import (
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.uber.org/zap"
)

// KYCRegistry is the external verification flag the protocol only reads.
type KYCRegistry interface {
	IsKYCVerified(common.Address) bool
}

// FundingPool is the campaign lifecycle state machine. A single mutex
// serializes every mutating operation, standing in for the ledger's
// per-transaction total ordering; each operation validates all of its
// preconditions before the first write so a failure leaves no partial
// state.
type FundingPool struct {
	mu     sync.Mutex
	params Params
	clock  Clock
	log    *zap.Logger

	owner            common.Address
	voters           map[common.Address]bool
	verifiedCreators map[common.Address]bool
	kyc              KYCRegistry
	overrides        map[overrideKey]bool

	campaigns []*Campaign // slot index = id-1, deleted slots stay

	balance         *uint256.Int // everything the pool holds
	treasuryBalance *uint256.Int // platform treasury share of balance
	platformFees    *uint256.Int // accrued platform cut of balance

	quarterlyLimit *uint256.Int
	quarterlyUsed  *uint256.Int
	quarterStart   int64

	events []Event
	seq    uint64
	sink   EventSink
}

// Option tweaks pool construction.
type Option func(*FundingPool)

// WithClock swaps the wall clock, used by tests to drive time windows.
func WithClock(c Clock) Option { return func(p *FundingPool) { p.clock = c } }

// WithLogger attaches a zap logger; default is a nop logger.
func WithLogger(l *zap.Logger) Option { return func(p *FundingPool) { p.log = l } }

// WithSink forwards every committed event to an external sink (journal).
func WithSink(s EventSink) Option { return func(p *FundingPool) { p.sink = s } }

// WithParams overrides the default protocol constants.
func WithParams(params Params) Option { return func(p *FundingPool) { p.params = params } }

// WithEventHistory seeds the in-memory event log with a previously
// journaled stream, typically replayed at boot. New events continue
// the restored sequence, so timelines and leaderboards survive a
// restart.
func WithEventHistory(evs []Event) Option {
	return func(p *FundingPool) {
		p.events = make([]Event, 0, len(evs))
		for _, ev := range evs {
			ev.Amount = cloneIfSet(ev.Amount)
			ev.Fee = cloneIfSet(ev.Fee)
			p.events = append(p.events, ev)
			if ev.Seq > p.seq {
				p.seq = ev.Seq
			}
		}
	}
}

// New builds an empty pool owned by owner. The registry answers the KYC
// flag reads; pass a permissive stub when KYC is not in play.
func New(owner common.Address, registry KYCRegistry, opts ...Option) *FundingPool {
	p := &FundingPool{
		params:           DefaultParams(),
		clock:            SystemClock(),
		log:              zap.NewNop(),
		owner:            owner,
		voters:           map[common.Address]bool{},
		verifiedCreators: map[common.Address]bool{},
		kyc:              registry,
		overrides:        map[overrideKey]bool{},
		balance:          new(uint256.Int),
		treasuryBalance:  new(uint256.Int),
		platformFees:     new(uint256.Int),
		quarterlyLimit:   new(uint256.Int),
		quarterlyUsed:    new(uint256.Int),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.quarterStart = p.now()
	return p
}

// now is the single place unix time enters the state machine.
func (p *FundingPool) now() int64 {
	return p.clock.Now().Unix()
}

// campaign resolves a live record; deleted slots count as not found.
// Callers hold the mutex.
func (p *FundingPool) campaign(id uint64) (*Campaign, error) {
	if id == 0 || id > uint64(len(p.campaigns)) {
		return nil, ErrNotFound
	}
	c := p.campaigns[id-1]
	if c.Deleted() {
		return nil, ErrNotFound
	}
	return c, nil
}

// milestone resolves a campaign plus one of its milestones by index.
func (p *FundingPool) milestone(id uint64, idx int) (*Campaign, *Milestone, error) {
	c, err := p.campaign(id)
	if err != nil {
		return nil, nil, err
	}
	if idx < 0 || idx >= len(c.Milestones) {
		return nil, nil, argErrf("milestone index %d out of range", idx)
	}
	return c, c.Milestones[idx], nil
}

// Balance returns a copy of everything the pool currently holds.
func (p *FundingPool) Balance() *uint256.Int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.balance.Clone()
}

// TreasuryBalance returns a copy of the platform treasury share.
func (p *FundingPool) TreasuryBalance() *uint256.Int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.treasuryBalance.Clone()
}

// PlatformFeeBalance returns a copy of the accrued platform fee cut.
func (p *FundingPool) PlatformFeeBalance() *uint256.Int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.platformFees.Clone()
}

// Snapshot deep-copies one campaign for read-only consumers.
func (p *FundingPool) Snapshot(id uint64) (*Campaign, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, err := p.campaign(id)
	if err != nil {
		return nil, err
	}
	return copyCampaign(c), nil
}

// Snapshots deep-copies every live campaign in id order, skipping
// deleted slots the same way the on-chain collection scans do.
func (p *FundingPool) Snapshots() []*Campaign {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Campaign, 0, len(p.campaigns))
	for _, c := range p.campaigns {
		if c.Deleted() {
			continue
		}
		out = append(out, copyCampaign(c))
	}
	return out
}

func copyCampaign(c *Campaign) *Campaign {
	cp := *c
	cp.FundingGoal = cloneAmount(c.FundingGoal)
	cp.AmountRaised = cloneAmount(c.AmountRaised)
	cp.WithdrawnAmount = cloneAmount(c.WithdrawnAmount)
	cp.CrowdfundedAmount = cloneAmount(c.CrowdfundedAmount)
	cp.CrowdfundedWithdrawn = cloneAmount(c.CrowdfundedWithdrawn)
	cp.Milestones = make([]*Milestone, len(c.Milestones))
	for i, m := range c.Milestones {
		mc := *m
		mc.Amount = cloneAmount(m.Amount)
		cp.Milestones[i] = &mc
	}
	cp.Contributions = make(map[common.Address]*uint256.Int, len(c.Contributions))
	for addr, amt := range c.Contributions {
		cp.Contributions[addr] = cloneAmount(amt)
	}
	return &cp
}

// elapsed reports whether the duration d has passed since the unix
// timestamp from.
func elapsed(from int64, d time.Duration, now int64) bool {
	return now >= from+int64(d/time.Second)
}
