package httpapi

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
)

// TreasuryGet returns the quarterly accounting snapshot.
func (a *App) TreasuryGet(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, toTreasuryView(a.Query.Treasury()))
}

// TreasuryDeposit credits a plain deposit to the treasury.
func (a *App) TreasuryDeposit(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.caller(w, r)
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
	if err := a.Pool.AddTreasuryFunds(caller, amount); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "deposited"})
}

type treasuryLimitRequest struct {
	Force bool `json:"force"`
}

// TreasuryUpdateLimit rolls the quarter or force-recomputes the limit.
func (a *App) TreasuryUpdateLimit(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	var req treasuryLimitRequest
	if !a.decode(w, r, &req) {
		return
	}
	if err := a.Pool.UpdateTreasuryLimit(caller, req.Force); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, toTreasuryView(a.Query.Treasury()))
}

// OwnerWithdraw drains accumulated fees to the owner.
func (a *App) OwnerWithdraw(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.caller(w, r)
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
	if err := a.Pool.OwnerWithdraw(caller, amount); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "withdrawn"})
}

type roleRequest struct {
	Address string `json:"address"`
}

func (a *App) roleTarget(w http.ResponseWriter, r *http.Request) (common.Address, bool) {
	var req roleRequest
	if !a.decode(w, r, &req) {
		return common.Address{}, false
	}
	if !common.IsHexAddress(req.Address) {
		a.error(w, http.StatusBadRequest, "bad_request", "address must be a hex address")
		return common.Address{}, false
	}
	return common.HexToAddress(req.Address), true
}

// VotersGrant adds a voter. Owner only.
func (a *App) VotersGrant(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	target, ok := a.roleTarget(w, r)
	if !ok {
		return
	}
	if err := a.Pool.GrantVoter(caller, target); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "granted"})
}

// VotersRevoke removes a voter. Owner only.
func (a *App) VotersRevoke(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	target, ok := a.roleTarget(w, r)
	if !ok {
		return
	}
	if err := a.Pool.RevokeVoter(caller, target); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "revoked"})
}

// CreatorsGrant marks an address as a verified creator. Owner only.
func (a *App) CreatorsGrant(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	target, ok := a.roleTarget(w, r)
	if !ok {
		return
	}
	if err := a.Pool.GrantVerifiedCreator(caller, target); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "granted"})
}

// CreatorsRevoke removes the verified creator mark. Owner only.
func (a *App) CreatorsRevoke(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	target, ok := a.roleTarget(w, r)
	if !ok {
		return
	}
	if err := a.Pool.RevokeVerifiedCreator(caller, target); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "revoked"})
}

type overrideRequest struct {
	Address    string `json:"address"`
	CampaignID uint64 `json:"campaign_id"`
	Allowed    bool   `json:"allowed"`
}

// KYCOverrideSet toggles the per-campaign emergency KYC bypass. Owner only.
func (a *App) KYCOverrideSet(w http.ResponseWriter, r *http.Request) {
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	var req overrideRequest
	if !a.decode(w, r, &req) {
		return
	}
	if !common.IsHexAddress(req.Address) {
		a.error(w, http.StatusBadRequest, "bad_request", "address must be a hex address")
		return
	}
	err := a.Pool.SetEmergencyOverride(caller, common.HexToAddress(req.Address), req.CampaignID, req.Allowed)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
