package httpapi

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/domain"
	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/service"
)

// CareHomesHandler serves care-home and service-user management.
type CareHomesHandler struct {
	careHomeService *service.CareHomeService
	logger          *zap.Logger
}

func NewCareHomesHandler(careHomeService *service.CareHomeService, logger *zap.Logger) *CareHomesHandler {
	return &CareHomesHandler{
		careHomeService: careHomeService,
		logger:          logger,
	}
}

type careHomeRequest struct {
	Name              string `json:"name"`
	Postcode          string `json:"postcode"`
	Details           string `json:"details"`
	MorningShiftStart string `json:"morningShiftStart"` // HH:MM, optional
	NightShiftStart   string `json:"nightShiftStart"`   // HH:MM, optional
}

type serviceUserRequest struct {
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	EmergencyContact string `json:"emergencyContact"`
	Address          string `json:"address"`
	Notes            string `json:"notes"`
}

func careHomeToJSON(home *domain.CareHome) map[string]any {
	return map[string]any{
		"carehomeId":         home.CareHomeID,
		"name":               home.Name,
		"postcode":           home.Postcode,
		"details":            home.Details,
		"morningShiftWindow": home.ShiftWindow(domain.ShiftMorning),
		"nightShiftWindow":   home.ShiftWindow(domain.ShiftNight),
		"createdAt":          home.CreatedAt,
		"updatedAt":          home.UpdatedAt,
	}
}

func serviceUserToJSON(user *domain.ServiceUser) map[string]any {
	return map[string]any{
		"serviceUserId":    user.ServiceUserID,
		"carehomeId":       user.CareHomeID,
		"firstName":        user.FirstName,
		"lastName":         user.LastName,
		"displayName":      user.FormattedName(),
		"phone":            user.Phone,
		"email":            user.Email,
		"emergencyContact": user.EmergencyContact,
		"address":          user.Address,
		"notes":            user.Notes,
	}
}

func (req *careHomeRequest) apply(home *domain.CareHome) error {
	home.Name = req.Name
	home.Postcode = req.Postcode
	home.Details = req.Details
	if req.MorningShiftStart != "" {
		start, err := parseTimeSlot(req.MorningShiftStart)
		if err != nil {
			return err
		}
		home.SetShiftStart(domain.ShiftMorning, start)
	}
	if req.NightShiftStart != "" {
		start, err := parseTimeSlot(req.NightShiftStart)
		if err != nil {
			return err
		}
		home.SetShiftStart(domain.ShiftNight, start)
	}
	return nil
}

// CareHomesCollection handles /data/api/v1/carehomes
func (h *CareHomesHandler) CareHomesCollection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		homes, err := h.careHomeService.ListCareHomes(ctx)
		if err != nil {
			h.logger.Error("ListCareHomes failed", zap.Error(err))
			writeJSON(w, http.StatusOK, Fail(err.Error()))
			return
		}
		items := make([]map[string]any, 0, len(homes))
		for _, home := range homes {
			items = append(items, careHomeToJSON(home))
		}
		writeJSON(w, http.StatusOK, Ok(map[string]any{"items": items, "total": len(items)}))

	case http.MethodPost:
		var req careHomeRequest
		if err := readBodyJSON(r, 1<<20, &req); err != nil {
			writeJSON(w, http.StatusOK, Fail("invalid request body"))
			return
		}
		home := &domain.CareHome{}
		if err := req.apply(home); err != nil {
			writeJSON(w, http.StatusOK, Fail(err.Error()))
			return
		}
		careHomeID, err := h.careHomeService.CreateCareHome(ctx, home)
		if err != nil {
			h.logger.Error("CreateCareHome failed", zap.Error(err))
			writeJSON(w, http.StatusOK, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]any{"carehomeId": careHomeID}))

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// CareHomeByID handles /data/api/v1/carehomes/{id} and its sub-paths
// {id}/shift-window and {id}/service-users.
func (h *CareHomesHandler) CareHomeByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/data/api/v1/carehomes/")
	parts := strings.SplitN(rest, "/", 2)
	careHomeID := parts[0]
	if careHomeID == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if len(parts) == 2 {
		switch parts[1] {
		case "shift-window":
			h.setShiftWindow(w, r, careHomeID)
		case "service-users":
			h.serviceUsersCollection(w, r, careHomeID)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
		return
	}

	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		home, err := h.careHomeService.GetCareHome(ctx, careHomeID)
		if err != nil {
			writeJSON(w, http.StatusOK, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(careHomeToJSON(home)))

	case http.MethodPut:
		home, err := h.careHomeService.GetCareHome(ctx, careHomeID)
		if err != nil {
			writeJSON(w, http.StatusOK, Fail(err.Error()))
			return
		}
		var req careHomeRequest
		if err := readBodyJSON(r, 1<<20, &req); err != nil {
			writeJSON(w, http.StatusOK, Fail("invalid request body"))
			return
		}
		if err := req.apply(home); err != nil {
			writeJSON(w, http.StatusOK, Fail(err.Error()))
			return
		}
		if err := h.careHomeService.UpdateCareHome(ctx, careHomeID, home); err != nil {
			h.logger.Error("UpdateCareHome failed", zap.String("carehome_id", careHomeID), zap.Error(err))
			writeJSON(w, http.StatusOK, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]any{"carehomeId": careHomeID}))

	case http.MethodDelete:
		if err := h.careHomeService.DeleteCareHome(ctx, careHomeID); err != nil {
			writeJSON(w, http.StatusOK, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]any{"deleted": true}))

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// setShiftWindow handles PUT /data/api/v1/carehomes/{id}/shift-window
func (h *CareHomesHandler) setShiftWindow(w http.ResponseWriter, r *http.Request, careHomeID string) {
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Shift string `json:"shift"`
		Start string `json:"start"` // HH:MM
	}
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid request body"))
		return
	}
	shift, err := domain.ParseShift(req.Shift)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	var start time.Time
	if start, err = parseTimeSlot(req.Start); err != nil {
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	if err := h.careHomeService.SetShiftWindow(r.Context(), careHomeID, shift, start); err != nil {
		h.logger.Error("SetShiftWindow failed", zap.String("carehome_id", careHomeID), zap.Error(err))
		writeJSON(w, http.StatusOK, Fail(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{"carehomeId": careHomeID, "shift": string(shift)}))
}

// serviceUsersCollection handles /data/api/v1/carehomes/{id}/service-users
func (h *CareHomesHandler) serviceUsersCollection(w http.ResponseWriter, r *http.Request, careHomeID string) {
	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		users, err := h.careHomeService.ListServiceUsers(ctx, careHomeID)
		if err != nil {
			writeJSON(w, http.StatusOK, Fail(err.Error()))
			return
		}
		items := make([]map[string]any, 0, len(users))
		for _, user := range users {
			items = append(items, serviceUserToJSON(user))
		}
		writeJSON(w, http.StatusOK, Ok(map[string]any{"items": items, "total": len(items)}))

	case http.MethodPost:
		var req serviceUserRequest
		if err := readBodyJSON(r, 1<<20, &req); err != nil {
			writeJSON(w, http.StatusOK, Fail("invalid request body"))
			return
		}
		user := &domain.ServiceUser{
			CareHomeID:       careHomeID,
			FirstName:        req.FirstName,
			LastName:         req.LastName,
			Phone:            req.Phone,
			Email:            req.Email,
			EmergencyContact: req.EmergencyContact,
			Address:          req.Address,
			Notes:            req.Notes,
		}
		serviceUserID, err := h.careHomeService.CreateServiceUser(ctx, user)
		if err != nil {
			h.logger.Error("CreateServiceUser failed", zap.String("carehome_id", careHomeID), zap.Error(err))
			writeJSON(w, http.StatusOK, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]any{"serviceUserId": serviceUserID}))

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// ServiceUserByID handles /data/api/v1/service-users/{id}
func (h *CareHomesHandler) ServiceUserByID(w http.ResponseWriter, r *http.Request) {
	serviceUserID := strings.TrimPrefix(r.URL.Path, "/data/api/v1/service-users/")
	if serviceUserID == "" || strings.Contains(serviceUserID, "/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	ctx := r.Context()
	switch r.Method {
	case http.MethodGet:
		user, err := h.careHomeService.GetServiceUser(ctx, serviceUserID)
		if err != nil {
			writeJSON(w, http.StatusOK, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(serviceUserToJSON(user)))

	case http.MethodPut:
		user, err := h.careHomeService.GetServiceUser(ctx, serviceUserID)
		if err != nil {
			writeJSON(w, http.StatusOK, Fail(err.Error()))
			return
		}
		var req serviceUserRequest
		if err := readBodyJSON(r, 1<<20, &req); err != nil {
			writeJSON(w, http.StatusOK, Fail("invalid request body"))
			return
		}
		user.FirstName = req.FirstName
		user.LastName = req.LastName
		user.Phone = req.Phone
		user.Email = req.Email
		user.EmergencyContact = req.EmergencyContact
		user.Address = req.Address
		user.Notes = req.Notes
		if err := h.careHomeService.UpdateServiceUser(ctx, serviceUserID, user); err != nil {
			writeJSON(w, http.StatusOK, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]any{"serviceUserId": serviceUserID}))

	case http.MethodDelete:
		if err := h.careHomeService.DeleteServiceUser(ctx, serviceUserID); err != nil {
			writeJSON(w, http.StatusOK, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]any{"deleted": true}))

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
