// Package httpapi exposes the funding pool over JSON. Mutating routes
// identify the caller through the X-Caller-Address header; request
// signing lives upstream at the wallet gateway.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/Creova-Group/Creova-sub000/draft"
	"github.com/Creova-Group/Creova-sub000/ipfs"
	"github.com/Creova-Group/Creova-sub000/pool"
	"github.com/Creova-Group/Creova-sub000/query"
)

// callerHeader names the address the request acts as.
const callerHeader = "X-Caller-Address"

// App holds the handler dependencies. Drafts and Pins are optional;
// their routes answer 503 when unset.
type App struct {
	Pool   *pool.FundingPool
	Query  *query.Service
	Drafts *draft.Store
	Pins   *ipfs.Client
	Log    *zap.Logger
}

// NewApp wires the handlers around a pool.
func NewApp(p *pool.FundingPool, opts ...AppOption) *App {
	a := &App{
		Pool:  p,
		Query: query.New(p),
		Log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AppOption customizes an App.
type AppOption func(*App)

// WithDrafts enables the draft endpoints.
func WithDrafts(s *draft.Store) AppOption { return func(a *App) { a.Drafts = s } }

// WithPins enables the upload endpoint.
func WithPins(c *ipfs.Client) AppOption { return func(a *App) { a.Pins = c } }

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) AppOption { return func(a *App) { a.Log = l } }

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, kind, message string) {
	a.json(w, code, map[string]string{"error": kind, "message": message})
}

// fail maps a pool error class onto an HTTP status.
func (a *App) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pool.ErrNotFound), errors.Is(err, draft.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, pool.ErrUnauthorized):
		a.error(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, pool.ErrInvalidState):
		a.error(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, pool.ErrInvalidArgument):
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, pool.ErrResourceExhausted):
		a.error(w, http.StatusUnprocessableEntity, "limit_exceeded", err.Error())
	default:
		a.Log.Error("unclassified handler error", zap.Error(err))
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

// caller reads the acting address. An empty or malformed header fails
// the request before it reaches the pool.
func (a *App) caller(w http.ResponseWriter, r *http.Request) (common.Address, bool) {
	raw := r.Header.Get(callerHeader)
	if !common.IsHexAddress(raw) {
		a.error(w, http.StatusBadRequest, "bad_request", "missing or malformed "+callerHeader+" header")
		return common.Address{}, false
	}
	return common.HexToAddress(raw), true
}

func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return false
	}
	return true
}

// parseWei turns a decimal wei string from a payload into an amount.
func (a *App) parseWei(w http.ResponseWriter, s string) (*uint256.Int, bool) {
	amt, err := uint256.FromDecimal(s)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "bad wei amount "+s)
		return nil, false
	}
	return amt, true
}

func weiString(v *uint256.Int) string {
	if v == nil {
		return "0"
	}
	return v.Dec()
}
