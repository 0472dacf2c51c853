package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the API surface. reg may be nil to use the default
// prometheus registry.
func NewRouter(app *App, reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if reg != nil {
		registerer, gatherer = reg, reg
	}
	metrics := newAPIMetrics(registerer)

	r.Use(
		RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		Logger(app.Log),
		metrics.instrument,
	)

	r.Get("/healthz", app.Health)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Route("/campaigns", func(r chi.Router) {
			r.Get("/", app.CampaignsList)
			r.Post("/", app.CampaignsCreate)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", app.CampaignsGet)
				r.Delete("/", app.CampaignsDelete)
				r.Post("/vote", app.CampaignsVote)
				r.Post("/auto-reject", app.CampaignsAutoReject)
				r.Post("/reinstate", app.CampaignsReinstate)
				r.Post("/milestone-plan", app.CampaignsCustomMilestones)
				r.Post("/fund", app.CampaignsFund)
				r.Post("/withdraw", app.CampaignsWithdraw)
				r.Post("/refund-unspent", app.CampaignsRefundUnspent)
				r.Get("/timeline", app.CampaignsTimeline)
				r.Get("/leaderboard", app.CampaignsLeaderboard)
				r.Get("/events", app.CampaignsEvents)

				r.Route("/milestones/{idx}", func(r chi.Router) {
					r.Post("/proof", app.MilestonesSubmitProof)
					r.Post("/approve", app.MilestonesApprove)
					r.Post("/reject", app.MilestonesReject)
					r.Post("/withdraw", app.MilestonesWithdraw)
				})
			})
		})

		r.Route("/treasury", func(r chi.Router) {
			r.Get("/", app.TreasuryGet)
			r.Post("/deposit", app.TreasuryDeposit)
			r.Post("/limit", app.TreasuryUpdateLimit)
		})

		r.Route("/owner", func(r chi.Router) {
			r.Post("/withdraw", app.OwnerWithdraw)
		})

		r.Route("/roles", func(r chi.Router) {
			r.Post("/voters", app.VotersGrant)
			r.Delete("/voters", app.VotersRevoke)
			r.Post("/creators", app.CreatorsGrant)
			r.Delete("/creators", app.CreatorsRevoke)
		})
		r.Post("/kyc/override", app.KYCOverrideSet)

		r.Route("/drafts", func(r chi.Router) {
			r.Get("/", app.DraftsList)
			r.Post("/", app.DraftsPut)
			r.Get("/{id}", app.DraftsGet)
			r.Delete("/{id}", app.DraftsDelete)
		})

		r.Post("/uploads", app.UploadsCreate)
	})

	return r
}

// Health reports liveness.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
