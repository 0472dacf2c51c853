package pool

import (
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.uber.org/zap"
)

// EventKind is the compact short code indexers scrape from the event
// stream. Codes are part of the wire contract; do not rename.
type EventKind string

const (
	EventCampaignCreated     EventKind = "cc"
	EventCampaignVoted       EventKind = "cv"
	EventCampaignRejected    EventKind = "cr"
	EventCampaignReinstated  EventKind = "co"
	EventMilestonesReplaced  EventKind = "cm"
	EventCampaignFunded      EventKind = "cf"
	EventProofSubmitted      EventKind = "mp"
	EventMilestoneApproved   EventKind = "ma"
	EventMilestoneRejected   EventKind = "mr"
	EventFundsWithdrawn      EventKind = "wf"
	EventMilestoneWithdrawn  EventKind = "wm"
	EventUnspentRefunded     EventKind = "ru"
	EventTreasuryDeposit     EventKind = "tf"
	EventTreasuryLimitUpdate EventKind = "tu"
	EventOwnerWithdrawn      EventKind = "wo"
	EventCampaignDeleted     EventKind = "cd"
	EventRoleGranted         EventKind = "rg"
	EventRoleRevoked         EventKind = "rr"
	EventOverrideSet         EventKind = "os"
)

// Event is the typed record every mutating operation appends. Amount and
// Fee are nil when the event moves no funds. Funded events carry funder,
// net amount, fee and timestamp so funding timelines and leaderboards can
// be rebuilt from the stream alone.
type Event struct {
	Seq            uint64
	Kind           EventKind
	CampaignID     uint64
	MilestoneIndex int
	Actor          common.Address
	Amount         *uint256.Int
	Fee            *uint256.Int
	Note           string
	Time           int64
}

// String renders the compact pipe-delimited line watchers already
// parse, e.g. "cf|id:3|by:0x..|am:475000|fee:25000|ts:1700000000".
func (e Event) String() string {
	s := string(e.Kind) + "|id:" + strconv.FormatUint(e.CampaignID, 10) + "|by:" + e.Actor.Hex()
	if e.MilestoneIndex >= 0 {
		s += "|mi:" + strconv.Itoa(e.MilestoneIndex)
	}
	if e.Amount != nil {
		s += "|am:" + e.Amount.Dec()
	}
	if e.Fee != nil {
		s += "|fee:" + e.Fee.Dec()
	}
	if e.Note != "" {
		s += "|n:" + e.Note
	}
	return s + "|ts:" + strconv.FormatInt(e.Time, 10)
}

// EventSink receives every event after it is committed to the in-memory
// log. A failing sink never rolls the state change back; the error is
// logged and the stream stays authoritative in memory.
type EventSink interface {
	Append(Event) error
}

// emit assigns the next sequence number, stores the event and forwards it
// to the sink. Callers hold the pool mutex.
func (p *FundingPool) emit(kind EventKind, campaignID uint64, milestoneIdx int, actor common.Address, amount, fee *uint256.Int, note string) {
	ev := Event{
		Seq:            p.seq + 1,
		Kind:           kind,
		CampaignID:     campaignID,
		MilestoneIndex: milestoneIdx,
		Actor:          actor,
		Amount:         cloneIfSet(amount),
		Fee:            cloneIfSet(fee),
		Note:           note,
		Time:           p.now(),
	}
	p.seq = ev.Seq
	p.events = append(p.events, ev)
	p.log.Debug("event", zap.String("ev", ev.String()))
	if p.sink != nil {
		if err := p.sink.Append(ev); err != nil {
			p.log.Warn("event sink append failed",
				zap.Uint64("seq", ev.Seq),
				zap.String("kind", string(ev.Kind)),
				zap.Error(err))
		}
	}
}

func cloneIfSet(a *uint256.Int) *uint256.Int {
	if a == nil {
		return nil
	}
	return a.Clone()
}

// Events returns a copy of the event log, optionally filtered to one
// campaign (pass 0 for everything). Amounts are cloned so callers can
// aggregate in place without touching the authoritative log.
func (p *FundingPool) Events(campaignID uint64) []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Event, 0, len(p.events))
	for _, ev := range p.events {
		if campaignID != 0 && ev.CampaignID != campaignID {
			continue
		}
		ev.Amount = cloneIfSet(ev.Amount)
		ev.Fee = cloneIfSet(ev.Fee)
		out = append(out, ev)
	}
	return out
}
