package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/holiman/uint256"
)

func (a *App) milestoneIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	idx, err := strconv.Atoi(chi.URLParam(r, "idx"))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "milestone index must be an integer")
		return 0, false
	}
	return idx, true
}

// CampaignsVote casts the calling voter's approval.
func (a *App) CampaignsVote(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	id, ok := a.campaignID(w, r)
	if !ok {
		return
	}
	if err := a.Pool.VoteCampaign(caller, id); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "approved"})
}

// CampaignsAutoReject expires an unreviewed treasury grant application.
func (a *App) CampaignsAutoReject(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	id, ok := a.campaignID(w, r)
	if !ok {
		return
	}
	if err := a.Pool.AutoRejectUnreviewedTreasuryGrants(caller, id); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "rejected"})
}

// CampaignsReinstate reverses an auto-rejection back to pending.
func (a *App) CampaignsReinstate(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	id, ok := a.campaignID(w, r)
	if !ok {
		return
	}
	if err := a.Pool.OverrideAutoRejection(caller, id); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "pending"})
}

type customMilestonesRequest struct {
	Milestones []struct {
		Description string `json:"description"`
		Amount      string `json:"amount_wei"`
	} `json:"milestones"`
}

// CampaignsCustomMilestones installs a voter-approved milestone plan on
// a pending treasury grant.
func (a *App) CampaignsCustomMilestones(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	id, ok := a.campaignID(w, r)
	if !ok {
		return
	}
	var req customMilestonesRequest
	if !a.decode(w, r, &req) {
		return
	}
	var (
		descriptions []string
		amounts      []*uint256.Int
	)
	for _, m := range req.Milestones {
		amount, ok := a.parseWei(w, m.Amount)
		if !ok {
			return
		}
		descriptions = append(descriptions, m.Description)
		amounts = append(amounts, amount)
	}
	if err := a.Pool.ApproveCustomMilestones(caller, id, descriptions, amounts); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "milestones set"})
}

type fundRequest struct {
	Amount string `json:"amount_wei"`
}

// CampaignsFund contributes the payload amount to an approved campaign.
func (a *App) CampaignsFund(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	id, ok := a.campaignID(w, r)
	if !ok {
		return
	}
	var req fundRequest
	if !a.decode(w, r, &req) {
		return
	}
	amount, ok := a.parseWei(w, req.Amount)
	if !ok {
		return
	}
	if err := a.Pool.FundProject(caller, id, amount); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "funded"})
}

type proofRequest struct {
	ProofCID string `json:"proof_cid"`
}

// MilestonesSubmitProof attaches a completion proof to a milestone.
func (a *App) MilestonesSubmitProof(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	id, ok := a.campaignID(w, r)
	if !ok {
		return
	}
	idx, ok := a.milestoneIndex(w, r)
	if !ok {
		return
	}
	var req proofRequest
	if !a.decode(w, r, &req) {
		return
	}
	if err := a.Pool.SubmitMilestoneProof(caller, id, idx, req.ProofCID); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "proof submitted"})
}

// MilestonesApprove marks a milestone completed. Funds move later via
// the milestone withdraw route, subject to the quarterly limit.
func (a *App) MilestonesApprove(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	id, ok := a.campaignID(w, r)
	if !ok {
		return
	}
	idx, ok := a.milestoneIndex(w, r)
	if !ok {
		return
	}
	if err := a.Pool.ApproveMilestone(caller, id, idx); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "approved"})
}

// MilestonesReject rejects the submitted proof and starts the
// resubmission window.
func (a *App) MilestonesReject(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	id, ok := a.campaignID(w, r)
	if !ok {
		return
	}
	idx, ok := a.milestoneIndex(w, r)
	if !ok {
		return
	}
	if err := a.Pool.RejectMilestone(caller, id, idx); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "rejected"})
}

// MilestonesWithdraw disburses one completed tranche to the creator.
func (a *App) MilestonesWithdraw(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	id, ok := a.campaignID(w, r)
	if !ok {
		return
	}
	idx, ok := a.milestoneIndex(w, r)
	if !ok {
		return
	}
	paid, err := a.Pool.WithdrawMilestoneFunds(caller, id, idx)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"paid_wei": weiString(paid)})
}

// CampaignsWithdraw pays the creator their available balance.
func (a *App) CampaignsWithdraw(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	id, ok := a.campaignID(w, r)
	if !ok {
		return
	}
	paid, err := a.Pool.WithdrawFunds(caller, id)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"paid_wei": weiString(paid)})
}

// CampaignsRefundUnspent returns a grant's uncommitted community funds
// to the treasury.
func (a *App) CampaignsRefundUnspent(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	id, ok := a.campaignID(w, r)
	if !ok {
		return
	}
	if err := a.Pool.RefundUnspentFunds(caller, id); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "refunded"})
}
