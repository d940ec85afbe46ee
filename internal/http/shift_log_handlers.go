package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/domain"
	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/repository"
	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/service"
)

// ShiftLogHandler serves shift summaries, their slot entries and the
// lock operation.
type ShiftLogHandler struct {
	shiftLogService *service.ShiftLogService
	logger          *zap.Logger
}

func NewShiftLogHandler(shiftLogService *service.ShiftLogService, logger *zap.Logger) *ShiftLogHandler {
	return &ShiftLogHandler{
		shiftLogService: shiftLogService,
		logger:          logger,
	}
}

func summaryToJSON(s *domain.ShiftSummary) map[string]any {
	return map[string]any{
		"summaryId":     s.SummaryID,
		"staffId":       s.StaffID,
		"staffName":     s.StaffName,
		"carehomeId":    s.CareHomeID,
		"serviceUserId": s.ServiceUserID,
		"date":          s.Date.Format("2006-01-02"),
		"dayOfWeek":     s.DayOfWeek,
		"shift":         string(s.Shift),
		"status":        s.Status,
		"documentPath":  s.DocumentPath,
		"createdAt":     s.CreatedAt,
		"updatedAt":     s.UpdatedAt,
	}
}

func entryToJSON(e *domain.LogEntry) map[string]any {
	return map[string]any{
		"entryId":   e.EntryID,
		"summaryId": e.SummaryID,
		"timeSlot":  e.TimeSlot.Format("15:04"),
		"content":   e.Content,
		"isLocked":  e.IsLocked,
	}
}

// SummariesCollection handles /data/api/v1/shift-logs/summaries
//
// POST gets or creates the summary for (staff, service user, today,
// shift); GET lists summaries by filters.
func (h *ShiftLogHandler) SummariesCollection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	switch r.Method {
	case http.MethodPost:
		var req struct {
			StaffID       string `json:"staffId"`
			StaffName     string `json:"staffName"`
			CareHomeID    string `json:"carehomeId"`
			ServiceUserID string `json:"serviceUserId"`
			Shift         string `json:"shift"`
		}
		if err := readBodyJSON(r, 1<<20, &req); err != nil {
			writeJSON(w, http.StatusOK, Fail("invalid request body"))
			return
		}
		summary, created, err := h.shiftLogService.GetOrCreateSummary(
			ctx, req.StaffID, req.StaffName, req.CareHomeID, req.ServiceUserID, domain.Shift(req.Shift))
		if err != nil {
			h.logger.Error("GetOrCreateSummary failed",
				zap.String("carehome_id", req.CareHomeID),
				zap.String("service_user_id", req.ServiceUserID),
				zap.Error(err),
			)
			writeJSON(w, http.StatusOK, Fail(err.Error()))
			return
		}
		result := summaryToJSON(summary)
		result["created"] = created
		writeJSON(w, http.StatusOK, Ok(result))

	case http.MethodGet:
		date, err := parseDateQuery(r, "date")
		if err != nil {
			writeJSON(w, http.StatusOK, Fail(err.Error()))
			return
		}
		filters := repository.SummaryFilters{
			CareHomeID:    r.URL.Query().Get("carehomeId"),
			ServiceUserID: r.URL.Query().Get("serviceUserId"),
			StaffID:       r.URL.Query().Get("staffId"),
			Date:          date,
			Shift:         domain.Shift(r.URL.Query().Get("shift")),
			Status:        r.URL.Query().Get("status"),
		}
		summaries, err := h.shiftLogService.ListSummaries(ctx, filters)
		if err != nil {
			h.logger.Error("ListSummaries failed", zap.Error(err))
			writeJSON(w, http.StatusOK, Fail(err.Error()))
			return
		}
		items := make([]map[string]any, 0, len(summaries))
		for _, s := range summaries {
			items = append(items, summaryToJSON(s))
		}
		writeJSON(w, http.StatusOK, Ok(map[string]any{"items": items, "total": len(items)}))

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// SummaryByID handles /data/api/v1/shift-logs/summaries/{id} and its
// sub-paths {id}/entries and {id}/lock.
func (h *ShiftLogHandler) SummaryByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/data/api/v1/shift-logs/summaries/")
	parts := strings.SplitN(rest, "/", 2)
	summaryID := parts[0]
	if summaryID == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if len(parts) == 2 {
		switch parts[1] {
		case "entries":
			h.entries(w, r, summaryID)
		case "lock":
			h.lock(w, r, summaryID)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
		return
	}

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	summary, err := h.shiftLogService.GetSummary(r.Context(), summaryID)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(summaryToJSON(summary)))
}

// entries handles GET and PUT on .../summaries/{id}/entries
func (h *ShiftLogHandler) entries(w http.ResponseWriter, r *http.Request, summaryID string) {
	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		grid, err := h.shiftLogService.SlotGrid(ctx, summaryID)
		if err != nil {
			writeJSON(w, http.StatusOK, Fail(err.Error()))
			return
		}
		slots := make([]map[string]any, 0, len(grid))
		items := make([]map[string]any, 0, len(grid))
		for _, slot := range grid {
			slotJSON := map[string]any{
				"timeSlot": slot.TimeSlot.Format("15:04"),
				"filled":   slot.Filled,
			}
			if slot.Filled {
				slotJSON["entryId"] = slot.EntryID
				slotJSON["content"] = slot.Content
				slotJSON["isLocked"] = slot.IsLocked
				items = append(items, map[string]any{
					"entryId":   slot.EntryID,
					"summaryId": summaryID,
					"timeSlot":  slot.TimeSlot.Format("15:04"),
					"content":   slot.Content,
					"isLocked":  slot.IsLocked,
				})
			}
			slots = append(slots, slotJSON)
		}
		writeJSON(w, http.StatusOK, Ok(map[string]any{"items": items, "total": len(items), "slots": slots}))

	case http.MethodPut:
		var req struct {
			TimeSlot string `json:"timeSlot"` // HH:MM
			Content  string `json:"content"`
		}
		if err := readBodyJSON(r, 1<<20, &req); err != nil {
			writeJSON(w, http.StatusOK, Fail("invalid request body"))
			return
		}
		timeSlot, err := parseTimeSlot(req.TimeSlot)
		if err != nil {
			writeJSON(w, http.StatusOK, Fail(err.Error()))
			return
		}
		entry, err := h.shiftLogService.WriteEntry(ctx, summaryID, timeSlot, req.Content)
		if errors.Is(err, domain.ErrSummaryLocked) {
			writeJSON(w, http.StatusOK, Fail("shift summary is locked"))
			return
		}
		if err != nil {
			h.logger.Error("WriteEntry failed", zap.String("summary_id", summaryID), zap.Error(err))
			writeJSON(w, http.StatusOK, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(entryToJSON(entry)))

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// lock handles POST .../summaries/{id}/lock
func (h *ShiftLogHandler) lock(w http.ResponseWriter, r *http.Request, summaryID string) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	result, err := h.shiftLogService.LockSummary(r.Context(), summaryID)
	if errors.Is(err, domain.ErrSummaryLocked) {
		writeJSON(w, http.StatusOK, Fail("shift summary is already locked"))
		return
	}
	if err != nil {
		h.logger.Error("LockSummary failed", zap.String("summary_id", summaryID), zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(result))
}
