package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/federicoescribanog-oss/WebControlHoras/pkg/models"
)

func TestListRecordsFormatsDates(t *testing.T) {
	start := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)
	name := "Ana"
	svc := &mockWorkRecordService{
		details: []*models.WorkRecordDetail{
			{
				WorkRecord: models.WorkRecord{ID: 1, StartDate: &start, Milestone: "kickoff"},
				PersonName: &name,
			},
		},
	}
	h := NewRecordsHandler(svc, zap.NewNop())

	w := httptest.NewRecorder()
	h.List(w, httptest.NewRequest("GET", "/api/records", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var body []map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(body) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(body))
	}
	if body[0]["start_date"] != "07/03/2025" {
		t.Errorf("Expected DD/MM/YYYY date, got %v", body[0]["start_date"])
	}
	if body[0]["end_date"] != nil {
		t.Errorf("Expected null end_date, got %v", body[0]["end_date"])
	}
	if body[0]["assignee"] != "Ana" {
		t.Errorf("Expected assignee name, got %v", body[0]["assignee"])
	}
}

func TestListRecordsEmpty(t *testing.T) {
	h := NewRecordsHandler(&mockWorkRecordService{}, zap.NewNop())

	w := httptest.NewRecorder()
	h.List(w, httptest.NewRequest("GET", "/api/records", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Errorf("Expected empty JSON array, got %q", got)
	}
}

func TestCreateRecordPassesNames(t *testing.T) {
	svc := &mockWorkRecordService{}
	h := NewRecordsHandler(svc, zap.NewNop())

	payload := `{"assignee":"Ana","phase":"Fase 1","start_date":"01/02/2025","completion":50}`
	r := httptest.NewRequest("POST", "/api/records", strings.NewReader(payload))
	w := httptest.NewRecorder()

	h.Create(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if svc.lastNames.Assignee == nil || *svc.lastNames.Assignee != "Ana" {
		t.Errorf("Expected assignee name to reach the service, got %v", svc.lastNames.Assignee)
	}
	if svc.lastNames.Phase == nil || *svc.lastNames.Phase != "Fase 1" {
		t.Errorf("Expected phase name to reach the service, got %v", svc.lastNames.Phase)
	}
}

func TestCreateRecordBadDate(t *testing.T) {
	h := NewRecordsHandler(&mockWorkRecordService{}, zap.NewNop())

	r := httptest.NewRequest("POST", "/api/records", strings.NewReader(`{"start_date":"2025-02-01"}`))
	w := httptest.NewRecorder()

	h.Create(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for ISO date, got %d", w.Code)
	}
}

func TestUpdateRecordPartialPatch(t *testing.T) {
	svc := &mockWorkRecordService{}
	h := NewRecordsHandler(svc, zap.NewNop())

	r := httptest.NewRequest("PUT", "/api/records/3", strings.NewReader(`{"completion":80}`))
	r.SetPathValue("id", "3")
	w := httptest.NewRecorder()

	h.Update(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if svc.lastPatch.Completion == nil || *svc.lastPatch.Completion != 80 {
		t.Errorf("Expected completion 80 in patch, got %v", svc.lastPatch.Completion)
	}
	if svc.lastPatch.Milestone != nil {
		t.Error("Expected absent fields to stay nil in the patch")
	}
}

func TestDeleteRecord(t *testing.T) {
	h := NewRecordsHandler(&mockWorkRecordService{}, zap.NewNop())

	r := httptest.NewRequest("DELETE", "/api/records/3", nil)
	r.SetPathValue("id", "3")
	w := httptest.NewRecorder()

	h.Delete(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}
