package pool

import (
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Shared cast for the lifecycle tests.
var (
	owner    = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	voter    = common.HexToAddress("0x00000000000000000000000000000000000000b1")
	creator  = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	funder1  = common.HexToAddress("0x00000000000000000000000000000000000000d1")
	funder2  = common.HexToAddress("0x00000000000000000000000000000000000000d2")
	stranger = common.HexToAddress("0x00000000000000000000000000000000000000e1")
)

// manualClock lets tests jump over the resubmission and quarter windows.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2025, 9, 3, 0, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// stubKYC is a fixed verification table.
type stubKYC map[common.Address]bool

func (s stubKYC) IsKYCVerified(addr common.Address) bool { return s[addr] }

// newTestPool wires a pool with one voter and one verified creator, all
// test addresses KYC-verified unless the test says otherwise.
func newTestPool(clk Clock, kyc KYCRegistry) *FundingPool {
	if kyc == nil {
		kyc = stubKYC{creator: true, funder1: true, funder2: true}
	}
	p := New(owner, kyc, WithClock(clk))
	_ = p.GrantVoter(owner, voter)
	_ = p.GrantVerifiedCreator(owner, creator)
	return p
}

// milliEther scales fractional test amounts, e.g. milliEther(500) = 0.5 ETH.
func milliEther(n uint64) *uint256.Int {
	milli := new(uint256.Int).Div(weiPerEther, uint256.NewInt(1000))
	return milli.Mul(milli, uint256.NewInt(n))
}

// newCrowdfunding creates and returns a default crowdfunding campaign id.
func newCrowdfunding(p *FundingPool, goal *uint256.Int) uint64 {
	id, err := p.CreateCampaign(creator, CreateCampaignArgs{
		Name:        "solar kiosk",
		Description: "off-grid charging kiosk",
		FundingType: FundingTypeCrowdfunding,
		FundingGoal: goal,
		ProjectCID:  "bafyproject",
	})
	if err != nil {
		panic(err)
	}
	return id
}

// newGrant creates a treasury grant with optional custom milestones.
func newGrant(p *FundingPool, goal *uint256.Int, descs []string, amounts []*uint256.Int) uint64 {
	id, err := p.CreateCampaign(creator, CreateCampaignArgs{
		Name:                  "mesh network",
		Description:           "community mesh rollout",
		FundingType:           FundingTypeTreasuryGrant,
		FundingGoal:           goal,
		MilestoneDescriptions: descs,
		MilestoneAmounts:      amounts,
	})
	if err != nil {
		panic(err)
	}
	return id
}
