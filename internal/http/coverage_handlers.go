package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/coverage"
	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/domain"
	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/service"
	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/pkg/redisx"
)

const (
	coverageSummaryCacheKey = "coverage:summary"
	coverageSummaryCacheTTL = 30 * time.Second
)

// CoverageHandler serves missed-log sweeps, queries and exports.
type CoverageHandler struct {
	tracker         *coverage.Tracker
	careHomeService *service.CareHomeService
	kv              redisx.KV
	logger          *zap.Logger
}

// NewCoverageHandler builds the handler. kv caches the per-home summary
// payload and may be nil to disable caching.
func NewCoverageHandler(tracker *coverage.Tracker, careHomeService *service.CareHomeService, kv redisx.KV, logger *zap.Logger) *CoverageHandler {
	return &CoverageHandler{
		tracker:         tracker,
		careHomeService: careHomeService,
		kv:              kv,
		logger:          logger,
	}
}

func gapToJSON(gap *domain.CoverageGap) map[string]any {
	result := map[string]any{
		"gapId":         gap.GapID,
		"carehomeId":    gap.CareHomeID,
		"serviceUserId": gap.ServiceUserID,
		"date":          gap.Date.Format("2006-01-02"),
		"shift":         string(gap.Shift),
		"isNotified":    gap.IsNotified,
		"createdAt":     gap.CreatedAt,
	}
	if gap.ResolvedAt != nil {
		result["resolvedAt"] = gap.ResolvedAt
	}
	return result
}

// Sweep handles POST /data/api/v1/coverage/sweep
//
// Body: {"carehomeId": "...", "date": "YYYY-MM-DD"} - both optional.
// An empty carehomeId sweeps every home; an empty date means today.
func (h *CoverageHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		CareHomeID string `json:"carehomeId"`
		Date       string `json:"date"`
	}
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid request body"))
		return
	}
	var date time.Time
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			writeJSON(w, http.StatusOK, Fail(fmt.Sprintf("invalid date: expected YYYY-MM-DD, got %q", req.Date)))
			return
		}
		date = parsed
	}

	ctx := r.Context()
	if req.CareHomeID == "" {
		reports, err := h.tracker.SweepAll(ctx, date)
		if err != nil {
			h.logger.Error("SweepAll failed", zap.Error(err))
			writeJSON(w, http.StatusOK, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]any{"reports": reports}))
		return
	}

	open, err := h.tracker.Sweep(ctx, req.CareHomeID, date)
	if err != nil {
		h.logger.Error("Sweep failed", zap.String("carehome_id", req.CareHomeID), zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	items := make([]map[string]any, 0, len(open))
	for _, gap := range open {
		items = append(items, gapToJSON(gap))
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"items": items, "total": len(items)}))
}

// MissedLogs handles GET /data/api/v1/coverage/missed-logs
func (h *CoverageHandler) MissedLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	date, err := parseDateQuery(r, "date")
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	gaps, err := h.tracker.OpenGaps(r.Context(), r.URL.Query().Get("carehomeId"), date)
	if err != nil {
		h.logger.Error("OpenGaps failed", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	items := make([]map[string]any, 0, len(gaps))
	for _, gap := range gaps {
		items = append(items, gapToJSON(gap))
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"items": items, "total": len(items)}))
}

// Summary handles GET /data/api/v1/coverage/summary
//
// Returns the open gap count per care home, with names resolved. The
// payload is cached in Redis for a short TTL since dashboards poll it.
func (h *CoverageHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()

	if h.kv != nil {
		if cached, err := h.kv.Get(ctx, coverageSummaryCacheKey); err == nil {
			var payload map[string]any
			if json.Unmarshal([]byte(cached), &payload) == nil {
				writeJSON(w, http.StatusOK, Ok(payload))
				return
			}
		} else if err != redisx.ErrMiss {
			h.logger.Warn("coverage summary cache read failed", zap.Error(err))
		}
	}

	counts, err := h.tracker.OpenCounts(ctx)
	if err != nil {
		h.logger.Error("OpenCounts failed", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	homes, err := h.careHomeService.ListCareHomes(ctx)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	items := make([]map[string]any, 0, len(homes))
	for _, home := range homes {
		items = append(items, map[string]any{
			"carehomeId":   home.CareHomeID,
			"carehomeName": home.Name,
			"openGaps":     counts[home.CareHomeID],
		})
	}
	payload := map[string]any{"items": items, "total": len(items)}

	if h.kv != nil {
		if encoded, err := json.Marshal(payload); err == nil {
			if err := h.kv.Set(ctx, coverageSummaryCacheKey, string(encoded), coverageSummaryCacheTTL); err != nil {
				h.logger.Warn("coverage summary cache write failed", zap.Error(err))
			}
		}
	}

	writeJSON(w, http.StatusOK, Ok(payload))
}

// Export handles GET /data/api/v1/coverage/missed-logs/export
//
// Streams an Excel workbook of open gaps, optionally filtered by
// carehomeId and date.
func (h *CoverageHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	date, err := parseDateQuery(r, "date")
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	gaps, err := h.tracker.OpenGaps(ctx, r.URL.Query().Get("carehomeId"), date)
	if err != nil {
		h.logger.Error("OpenGaps failed for export", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}

	rows := make([]MissedLogRow, 0, len(gaps))
	homes := map[string]*domain.CareHome{}
	for _, gap := range gaps {
		home, ok := homes[gap.CareHomeID]
		if !ok {
			home, _ = h.careHomeService.GetCareHome(ctx, gap.CareHomeID)
			homes[gap.CareHomeID] = home
		}
		homeName, shiftWindow := "", ""
		if home != nil {
			homeName = home.Name
			shiftWindow = home.ShiftWindow(gap.Shift)
		}
		userName := ""
		if user, err := h.careHomeService.GetServiceUser(ctx, gap.ServiceUserID); err == nil {
			userName = user.FormattedName()
		}
		rows = append(rows, MissedLogRow{
			CareHomeName:    homeName,
			ServiceUserName: userName,
			Date:            gap.Date.Format("2006-01-02"),
			Shift:           string(gap.Shift),
			ShiftWindow:     shiftWindow,
			Notified:        gap.IsNotified,
			CreatedAt:       gap.CreatedAt,
		})
	}

	data, err := GenerateMissedLogExport(rows)
	if err != nil {
		h.logger.Error("missed log export failed", zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}

	filename := fmt.Sprintf("missed_logs_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(data)
}
