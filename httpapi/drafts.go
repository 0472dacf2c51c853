package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Creova-Group/Creova-sub000/draft"
)

func (a *App) draftsEnabled(w http.ResponseWriter) bool {
	if a.Drafts == nil {
		a.error(w, http.StatusServiceUnavailable, "unavailable", "draft storage is not configured")
		return false
	}
	return true
}

type draftView struct {
	ID        string          `json:"id"`
	Creator   string          `json:"creator"`
	Payload   json.RawMessage `json:"payload"`
	UpdatedAt int64           `json:"updated_at"`
}

func toDraftView(d draft.Draft) draftView {
	return draftView{
		ID:        d.ID,
		Creator:   d.Creator.Hex(),
		Payload:   d.Payload,
		UpdatedAt: d.UpdatedAt.Unix(),
	}
}

type draftRequest struct {
	ID      string          `json:"id"`
	Payload json.RawMessage `json:"payload"`
}

// DraftsPut saves or updates a campaign draft for the calling creator.
func (a *App) DraftsPut(w http.ResponseWriter, r *http.Request) {
	if !a.draftsEnabled(w) {
		return
	}
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	var req draftRequest
	if !a.decode(w, r, &req) {
		return
	}
	if len(req.Payload) == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "payload is required")
		return
	}
	saved, err := a.Drafts.Put(draft.Draft{ID: req.ID, Creator: caller, Payload: req.Payload})
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, toDraftView(saved))
}

// DraftsList returns the calling creator's drafts, newest first.
func (a *App) DraftsList(w http.ResponseWriter, r *http.Request) {
	if !a.draftsEnabled(w) {
		return
	}
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	drafts, err := a.Drafts.ListByCreator(caller)
	if err != nil {
		a.fail(w, err)
		return
	}
	items := make([]draftView, 0, len(drafts))
	for _, d := range drafts {
		items = append(items, toDraftView(d))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// DraftsGet fetches one draft; only its creator may read it.
func (a *App) DraftsGet(w http.ResponseWriter, r *http.Request) {
	if !a.draftsEnabled(w) {
		return
	}
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	d, err := a.Drafts.Get(chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, err)
		return
	}
	if d.Creator != caller {
		a.error(w, http.StatusForbidden, "forbidden", "draft belongs to another creator")
		return
	}
	a.json(w, http.StatusOK, toDraftView(d))
}

// DraftsDelete drops a draft; only its creator may delete it.
func (a *App) DraftsDelete(w http.ResponseWriter, r *http.Request) {
	if !a.draftsEnabled(w) {
		return
	}
	caller, ok := a.caller(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	d, err := a.Drafts.Get(id)
	if err != nil {
		a.fail(w, err)
		return
	}
	if d.Creator != caller {
		a.error(w, http.StatusForbidden, "forbidden", "draft belongs to another creator")
		return
	}
	if err := a.Drafts.Delete(id); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "deleted"})
}
