package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router uses the standard library http.ServeMux (avoids pulling in a
// third-party routing dependency).
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

// HandleHandler supports the http.Handler interface (used for pprof etc.)
func (r *Router) HandleHandler(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterCareHomeRoutes registers care-home and service-user management.
func (r *Router) RegisterCareHomeRoutes(h *CareHomesHandler) {
	r.Handle("/data/api/v1/carehomes", h.CareHomesCollection)
	r.Handle("/data/api/v1/carehomes/", h.CareHomeByID)
	r.Handle("/data/api/v1/service-users/", h.ServiceUserByID)
}

// RegisterShiftLogRoutes registers shift summaries, entries and lock.
func (r *Router) RegisterShiftLogRoutes(h *ShiftLogHandler) {
	r.Handle("/data/api/v1/shift-logs/summaries", h.SummariesCollection)
	r.Handle("/data/api/v1/shift-logs/summaries/", h.SummaryByID)
}

// RegisterCoverageRoutes registers missed-log sweep, query and export.
func (r *Router) RegisterCoverageRoutes(h *CoverageHandler) {
	r.Handle("/data/api/v1/coverage/sweep", h.Sweep)
	r.Handle("/data/api/v1/coverage/missed-logs", h.MissedLogs)
	r.Handle("/data/api/v1/coverage/missed-logs/export", h.Export)
	r.Handle("/data/api/v1/coverage/summary", h.Summary)
}
