// Package query is the pull-based read layer over the funding pool:
// listings, campaign detail, and the event-sourced funding timelines and
// leaderboards clients used to aggregate ad hoc.
package query

import (
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/Creova-Group/Creova-sub000/pool"
)

// Service answers read-only queries. It never mutates the pool.
type Service struct {
	pool *pool.FundingPool
}

// New wraps a pool for querying.
func New(p *pool.FundingPool) *Service {
	return &Service{pool: p}
}

// CampaignSummary is the listing row.
type CampaignSummary struct {
	ID           uint64
	Creator      common.Address
	Name         string
	FundingType  pool.FundingType
	Status       pool.CampaignStatus
	FundingGoal  *uint256.Int
	AmountRaised *uint256.Int
	Crowdfunded  *uint256.Int
	CreatedAt    int64
	Milestones   int
}

// Campaigns lists every live campaign in id order; deleted slots are
// already skipped by the pool scan.
func (s *Service) Campaigns() []CampaignSummary {
	snaps := s.pool.Snapshots()
	out := make([]CampaignSummary, 0, len(snaps))
	for _, c := range snaps {
		out = append(out, CampaignSummary{
			ID:           c.ID,
			Creator:      c.Creator,
			Name:         c.Name,
			FundingType:  c.FundingType,
			Status:       c.Status,
			FundingGoal:  c.FundingGoal,
			AmountRaised: c.AmountRaised,
			Crowdfunded:  c.CrowdfundedAmount,
			CreatedAt:    c.CreatedAt,
			Milestones:   len(c.Milestones),
		})
	}
	return out
}

// Campaign returns the full snapshot for a detail view.
func (s *Service) Campaign(id uint64) (*pool.Campaign, error) {
	return s.pool.Snapshot(id)
}

// FundingPoint is one contribution on a campaign's timeline.
type FundingPoint struct {
	Funder common.Address
	Net    *uint256.Int
	Fee    *uint256.Int
	Time   int64
}

// FundingTimeline rebuilds the contribution history of a campaign from
// funded events, oldest first. History restored from the journal keeps
// serving after a restart even when no live record backs the id.
func (s *Service) FundingTimeline(id uint64) ([]FundingPoint, error) {
	events := s.pool.Events(id)
	if len(events) == 0 {
		if _, err := s.pool.Snapshot(id); err != nil {
			return nil, err
		}
	}
	var out []FundingPoint
	for _, ev := range events {
		if ev.Kind != pool.EventCampaignFunded {
			continue
		}
		out = append(out, FundingPoint{
			Funder: ev.Actor,
			Net:    ev.Amount,
			Fee:    ev.Fee,
			Time:   ev.Time,
		})
	}
	return out, nil
}

// Contributor is one leaderboard row.
type Contributor struct {
	Address common.Address
	Total   *uint256.Int
}

// TopContributors aggregates funded events into a leaderboard of at most
// n rows, largest total first; ties break on address for stable output.
func (s *Service) TopContributors(id uint64, n int) ([]Contributor, error) {
	points, err := s.FundingTimeline(id)
	if err != nil {
		return nil, err
	}
	totals := map[common.Address]*uint256.Int{}
	for _, pt := range points {
		if prev, ok := totals[pt.Funder]; ok {
			prev.Add(prev, pt.Net)
		} else {
			totals[pt.Funder] = pt.Net.Clone()
		}
	}
	out := make([]Contributor, 0, len(totals))
	for addr, total := range totals {
		out = append(out, Contributor{Address: addr, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		switch out[i].Total.Cmp(out[j].Total) {
		case 1:
			return true
		case -1:
			return false
		default:
			return out[i].Address.Hex() < out[j].Address.Hex()
		}
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// Treasury passes the quarterly accounting snapshot through.
func (s *Service) Treasury() pool.TreasuryStatus {
	return s.pool.Treasury()
}
