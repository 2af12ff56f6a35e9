package events

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"summit-abstract-miner/internal/app/events/dao"
	"summit-abstract-miner/internal/pkg/render"
)

type Handler struct {
	store  *dao.EventStore
	logger *zap.SugaredLogger
}

func NewHandler(store *dao.EventStore, logger *zap.SugaredLogger) *Handler {
	return &Handler{store: store, logger: logger}
}

func (h *Handler) RegisterRoute(r *chi.Mux) {
	r.Get("/v1/events", h.Handle)
}

type listResponse struct {
	Events []dao.EventRecord `json:"events"`
	Count  int               `json:"count"`
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	hitsOnly := r.URL.Query().Get("hits") == "true"
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	recs, err := h.store.List(r.Context(), hitsOnly, limit)
	if err != nil {
		h.logger.Errorw("list_events_failed", "err", err)
		render.ChiErr(w, r, http.StatusInternalServerError, "failed to list events")
		return
	}
	if recs == nil {
		recs = []dao.EventRecord{}
	}

	render.ChiJSON(w, r, http.StatusOK, listResponse{Events: recs, Count: len(recs)})
}
