package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Creova-Group/Creova-sub000/pool"
)

type createCampaignRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	FundingType string `json:"funding_type"`
	FundingGoal string `json:"funding_goal_wei"`
	Milestones  []struct {
		Description string `json:"description"`
		Amount      string `json:"amount_wei"`
	} `json:"milestones"`
	ProjectCID   string `json:"project_cid"`
	HeroMediaCID string `json:"hero_media_cid"`
}

func parseFundingType(s string) (pool.FundingType, bool) {
	switch s {
	case "crowdfunding":
		return pool.FundingTypeCrowdfunding, true
	case "treasury-grant":
		return pool.FundingTypeTreasuryGrant, true
	default:
		return 0, false
	}
}

func (a *App) campaignID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "campaign id must be a positive integer")
		return 0, false
	}
	return id, true
}

// CampaignsCreate registers a new campaign for the calling creator.
func (a *App) CampaignsCreate(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	var req createCampaignRequest
	if !a.decode(w, r, &req) {
		return
	}
	fundingType, ok := parseFundingType(req.FundingType)
	if !ok {
		a.error(w, http.StatusBadRequest, "bad_request", "funding_type must be crowdfunding or treasury-grant")
		return
	}
	goal, ok := a.parseWei(w, req.FundingGoal)
	if !ok {
		return
	}
	args := pool.CreateCampaignArgs{
		Name:         req.Name,
		Description:  req.Description,
		FundingType:  fundingType,
		FundingGoal:  goal,
		ProjectCID:   req.ProjectCID,
		HeroMediaCID: req.HeroMediaCID,
	}
	for _, m := range req.Milestones {
		amount, ok := a.parseWei(w, m.Amount)
		if !ok {
			return
		}
		args.MilestoneDescriptions = append(args.MilestoneDescriptions, m.Description)
		args.MilestoneAmounts = append(args.MilestoneAmounts, amount)
	}

	id, err := a.Pool.CreateCampaign(caller, args)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"id": id})
}

// CampaignsList returns listing rows for every live campaign.
func (a *App) CampaignsList(w http.ResponseWriter, r *http.Request) {
	summaries := a.Query.Campaigns()
	items := make([]summaryView, 0, len(summaries))
	for _, s := range summaries {
		items = append(items, toSummaryView(s))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// CampaignsGet returns the full campaign snapshot.
func (a *App) CampaignsGet(w http.ResponseWriter, r *http.Request) {
	id, ok := a.campaignID(w, r)
	if !ok {
		return
	}
	c, err := a.Query.Campaign(id)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, toCampaignView(c))
}

// CampaignsDelete clears a campaign slot, moving unspent funds to the
// treasury. Owner only.
func (a *App) CampaignsDelete(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	id, ok := a.campaignID(w, r)
	if !ok {
		return
	}
	if err := a.Pool.DeleteCampaign(caller, id); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// CampaignsTimeline returns the contribution history, oldest first.
func (a *App) CampaignsTimeline(w http.ResponseWriter, r *http.Request) {
	id, ok := a.campaignID(w, r)
	if !ok {
		return
	}
	points, err := a.Query.FundingTimeline(id)
	if err != nil {
		a.fail(w, err)
		return
	}
	items := make([]map[string]any, 0, len(points))
	for _, pt := range points {
		items = append(items, map[string]any{
			"funder":  pt.Funder.Hex(),
			"net_wei": weiString(pt.Net),
			"fee_wei": weiString(pt.Fee),
			"time":    pt.Time,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// CampaignsLeaderboard returns top contributors by net total.
func (a *App) CampaignsLeaderboard(w http.ResponseWriter, r *http.Request) {
	id, ok := a.campaignID(w, r)
	if !ok {
		return
	}
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			a.error(w, http.StatusBadRequest, "bad_request", "limit must be a positive integer")
			return
		}
		limit = n
	}
	rows, err := a.Query.TopContributors(id, limit)
	if err != nil {
		a.fail(w, err)
		return
	}
	items := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		items = append(items, map[string]any{
			"address":   row.Address.Hex(),
			"total_wei": weiString(row.Total),
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// CampaignsEvents returns the raw event log of one campaign, including
// history restored from the journal for ids with no live record.
func (a *App) CampaignsEvents(w http.ResponseWriter, r *http.Request) {
	id, ok := a.campaignID(w, r)
	if !ok {
		return
	}
	events := a.Pool.Events(id)
	if len(events) == 0 {
		if _, err := a.Query.Campaign(id); err != nil {
			a.fail(w, err)
			return
		}
	}
	items := make([]string, 0, len(events))
	for _, ev := range events {
		items = append(items, ev.String())
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}
