package httpapi

import (
	"github.com/Creova-Group/Creova-sub000/pool"
	"github.com/Creova-Group/Creova-sub000/query"
)

// Wire representations. Amounts travel as decimal wei strings so
// clients never lose precision to floating point.

type milestoneView struct {
	Index       int    `json:"index"`
	Description string `json:"description"`
	Amount      string `json:"amount_wei"`
	State       string `json:"state"`
	ProofCID    string `json:"proof_cid,omitempty"`
	CompletedAt int64  `json:"completed_at,omitempty"`
	RejectedAt  int64  `json:"rejected_at,omitempty"`
	Withdrawn   bool   `json:"withdrawn"`
}

type campaignView struct {
	ID                   uint64          `json:"id"`
	Creator              string          `json:"creator"`
	Name                 string          `json:"name"`
	Description          string          `json:"description,omitempty"`
	FundingType          string          `json:"funding_type"`
	Status               string          `json:"status"`
	FundingGoal          string          `json:"funding_goal_wei"`
	AmountRaised         string          `json:"amount_raised_wei"`
	WithdrawnAmount      string          `json:"withdrawn_wei"`
	CrowdfundedAmount    string          `json:"crowdfunded_wei"`
	CrowdfundedWithdrawn string          `json:"crowdfunded_withdrawn_wei"`
	Deadline             int64           `json:"deadline,omitempty"`
	ApplicationExpiry    int64           `json:"application_expiry,omitempty"`
	CreatedAt            int64           `json:"created_at"`
	ProjectCID           string          `json:"project_cid,omitempty"`
	HeroMediaCID         string          `json:"hero_media_cid,omitempty"`
	Refunded             bool            `json:"refunded"`
	Milestones           []milestoneView `json:"milestones"`
}

func toCampaignView(c *pool.Campaign) campaignView {
	milestones := make([]milestoneView, 0, len(c.Milestones))
	for i, m := range c.Milestones {
		milestones = append(milestones, milestoneView{
			Index:       i,
			Description: m.Description,
			Amount:      weiString(m.Amount),
			State:       m.State().String(),
			ProofCID:    m.ProofCID,
			CompletedAt: m.CompletedAt,
			RejectedAt:  m.RejectedAt,
			Withdrawn:   m.Withdrawn,
		})
	}
	return campaignView{
		ID:                   c.ID,
		Creator:              c.Creator.Hex(),
		Name:                 c.Name,
		Description:          c.Description,
		FundingType:          c.FundingType.String(),
		Status:               c.Status.String(),
		FundingGoal:          weiString(c.FundingGoal),
		AmountRaised:         weiString(c.AmountRaised),
		WithdrawnAmount:      weiString(c.WithdrawnAmount),
		CrowdfundedAmount:    weiString(c.CrowdfundedAmount),
		CrowdfundedWithdrawn: weiString(c.CrowdfundedWithdrawn),
		Deadline:             c.Deadline,
		ApplicationExpiry:    c.ApplicationExpiry,
		CreatedAt:            c.CreatedAt,
		ProjectCID:           c.ProjectCID,
		HeroMediaCID:         c.HeroMediaCID,
		Refunded:             c.Refunded,
		Milestones:           milestones,
	}
}

type summaryView struct {
	ID           uint64 `json:"id"`
	Creator      string `json:"creator"`
	Name         string `json:"name"`
	FundingType  string `json:"funding_type"`
	Status       string `json:"status"`
	FundingGoal  string `json:"funding_goal_wei"`
	AmountRaised string `json:"amount_raised_wei"`
	Crowdfunded  string `json:"crowdfunded_wei"`
	CreatedAt    int64  `json:"created_at"`
	Milestones   int    `json:"milestones"`
}

func toSummaryView(s query.CampaignSummary) summaryView {
	return summaryView{
		ID:           s.ID,
		Creator:      s.Creator.Hex(),
		Name:         s.Name,
		FundingType:  s.FundingType.String(),
		Status:       s.Status.String(),
		FundingGoal:  weiString(s.FundingGoal),
		AmountRaised: weiString(s.AmountRaised),
		Crowdfunded:  weiString(s.Crowdfunded),
		CreatedAt:    s.CreatedAt,
		Milestones:   s.Milestones,
	}
}

type treasuryView struct {
	Limit        string `json:"quarterly_limit_wei"`
	Used         string `json:"quarterly_used_wei"`
	QuarterStart int64  `json:"quarter_start"`
	Balance      string `json:"treasury_balance_wei"`
	PlatformFees string `json:"platform_fees_wei"`
}

func toTreasuryView(t pool.TreasuryStatus) treasuryView {
	return treasuryView{
		Limit:        weiString(t.Limit),
		Used:         weiString(t.Used),
		QuarterStart: t.QuarterStart,
		Balance:      weiString(t.Balance),
		PlatformFees: weiString(t.PlatformFees),
	}
}
