package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/federicoescribanog-oss/WebControlHoras/pkg/auth"
	"github.com/federicoescribanog-oss/WebControlHoras/pkg/models"
	"github.com/federicoescribanog-oss/WebControlHoras/pkg/services"
)

// wireDateLayout is the DD/MM/YYYY format the clients exchange dates in.
const wireDateLayout = "02/01/2006"

// RecordsHandler serves work-record CRUD.
type RecordsHandler struct {
	records services.WorkRecordService
	logger  *zap.Logger
}

// NewRecordsHandler creates a new work-record handler.
func NewRecordsHandler(records services.WorkRecordService, logger *zap.Logger) *RecordsHandler {
	return &RecordsHandler{
		records: records,
		logger:  logger,
	}
}

// RegisterRoutes registers work-record routes on the given mux.
func (h *RecordsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	writers := authMiddleware.RequireRole(models.RoleAdmin, models.RoleGestor)

	mux.HandleFunc("GET /api/records", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("POST /api/records", writers(h.Create))
	mux.HandleFunc("PUT /api/records/{id}", writers(h.Update))
	mux.HandleFunc("DELETE /api/records/{id}", writers(h.Delete))
}

// recordResponse is the wire shape of a work record. Dates are
// formatted DD/MM/YYYY; the master references are exposed by name under
// their legacy keys alongside the ids.
type recordResponse struct {
	ID           int64   `json:"id"`
	PersonID     *int64  `json:"person_id"`
	ProjectID    *int64  `json:"project_id"`
	TaskID       *int64  `json:"task_id"`
	Assignee     *string `json:"assignee"`
	Phase        *string `json:"phase"`
	Task         *string `json:"task"`
	Milestone    string  `json:"milestone"`
	StartDate    *string `json:"start_date"`
	EndDate      *string `json:"end_date"`
	Completion   int     `json:"completion"`
	Dependencies string  `json:"dependencies"`
	TimeSpent    *int    `json:"time_spent"`
}

func toRecordResponse(d *models.WorkRecordDetail) recordResponse {
	return recordResponse{
		ID:           d.ID,
		PersonID:     d.PersonID,
		ProjectID:    d.ProjectID,
		TaskID:       d.TaskID,
		Assignee:     d.PersonName,
		Phase:        d.ProjectName,
		Task:         d.TaskName,
		Milestone:    d.Milestone,
		StartDate:    formatWireDate(d.StartDate),
		EndDate:      formatWireDate(d.EndDate),
		Completion:   d.Completion,
		Dependencies: d.Dependencies,
		TimeSpent:    d.TimeSpent,
	}
}

func formatWireDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(wireDateLayout)
	return &s
}

// parseWireDate parses an optional DD/MM/YYYY date. Empty strings are
// treated as absent.
func parseWireDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(wireDateLayout, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List handles GET /api/records.
func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	details, err := h.records.List(r.Context())
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	out := make([]recordResponse, 0, len(details))
	for _, d := range details {
		out = append(out, toRecordResponse(d))
	}

	writeOrLog(h.logger, WriteJSON(w, http.StatusOK, out))
}

type recordRequest struct {
	PersonID     *int64  `json:"person_id"`
	ProjectID    *int64  `json:"project_id"`
	TaskID       *int64  `json:"task_id"`
	Assignee     *string `json:"assignee"`
	Phase        *string `json:"phase"`
	Task         *string `json:"task"`
	Milestone    *string `json:"milestone"`
	StartDate    *string `json:"start_date"`
	EndDate      *string `json:"end_date"`
	Completion   *int    `json:"completion"`
	Dependencies *string `json:"dependencies"`
	TimeSpent    *int    `json:"time_spent"`
}

// Create handles POST /api/records.
func (h *RecordsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeOrLog(h.logger, ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"))
		return
	}

	startDate, err := parseWireDate(req.StartDate)
	if err != nil {
		writeOrLog(h.logger, ErrorResponse(w, http.StatusBadRequest, "invalid_date", "Dates must be DD/MM/YYYY"))
		return
	}
	endDate, err := parseWireDate(req.EndDate)
	if err != nil {
		writeOrLog(h.logger, ErrorResponse(w, http.StatusBadRequest, "invalid_date", "Dates must be DD/MM/YYYY"))
		return
	}

	rec := &models.WorkRecord{
		PersonID:  req.PersonID,
		ProjectID: req.ProjectID,
		TaskID:    req.TaskID,
		StartDate: startDate,
		EndDate:   endDate,
	}
	if req.Milestone != nil {
		rec.Milestone = *req.Milestone
	}
	if req.Completion != nil {
		rec.Completion = *req.Completion
	}
	if req.Dependencies != nil {
		rec.Dependencies = *req.Dependencies
	}
	rec.TimeSpent = req.TimeSpent

	names := services.RecordNames{
		Assignee: req.Assignee,
		Phase:    req.Phase,
		Task:     req.Task,
	}

	if err := h.records.Create(r.Context(), rec, names); err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	writeOrLog(h.logger, WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"id":      rec.ID,
		"message": "record created",
	}))
}

// Update handles PUT /api/records/{id} as a partial update.
func (h *RecordsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeOrLog(h.logger, ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body"))
		return
	}

	startDate, err := parseWireDate(req.StartDate)
	if err != nil {
		writeOrLog(h.logger, ErrorResponse(w, http.StatusBadRequest, "invalid_date", "Dates must be DD/MM/YYYY"))
		return
	}
	endDate, err := parseWireDate(req.EndDate)
	if err != nil {
		writeOrLog(h.logger, ErrorResponse(w, http.StatusBadRequest, "invalid_date", "Dates must be DD/MM/YYYY"))
		return
	}

	patch := services.RecordPatch{
		PersonID:     req.PersonID,
		ProjectID:    req.ProjectID,
		TaskID:       req.TaskID,
		Milestone:    req.Milestone,
		StartDate:    startDate,
		EndDate:      endDate,
		Completion:   req.Completion,
		Dependencies: req.Dependencies,
		TimeSpent:    req.TimeSpent,
	}

	rec, err := h.records.Update(r.Context(), id, patch)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	writeOrLog(h.logger, WriteJSON(w, http.StatusOK, map[string]interface{}{
		"id":      rec.ID,
		"message": "record updated",
	}))
}

// Delete handles DELETE /api/records/{id}.
func (h *RecordsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.records.Delete(r.Context(), id); err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	writeOrLog(h.logger, WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "record deleted",
	}))
}
