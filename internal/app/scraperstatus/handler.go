package scraperstatus

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"summit-abstract-miner/config"
	"summit-abstract-miner/internal/pkg/render"
	"summit-abstract-miner/internal/status"
)

// Handler exposes the same status report the statuscheck CLI prints,
// as JSON for dashboards.
type Handler struct {
	opts status.Options
}

func NewHandler(cfg config.Config) *Handler {
	return &Handler{opts: status.OptionsFromConfig(cfg.Scraper)}
}

func (h *Handler) RegisterRoute(r *chi.Mux) {
	r.Get("/v1/scraper/status", h.Handle)
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	report := status.Collect(h.opts)
	render.ChiJSON(w, r, http.StatusOK, report)
}
