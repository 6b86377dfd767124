package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"legalease-backend/middleware"
	"legalease-backend/models"
	"legalease-backend/services"
)

func newHistoryRouter(t *testing.T, store services.AnalysisStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	authMiddleware := middleware.NewAuthMiddleware(testConfig())
	SetupHistoryRoutes(router, NewHistoryHandler(store, services.NewExportService()), authMiddleware)
	return router
}

func seedAnalysis(t *testing.T, store *stubStore, userID string) *models.Analysis {
	t.Helper()
	analysis := &models.Analysis{
		UserID:     userID,
		Filename:   "contract.pdf",
		MimeType:   "application/pdf",
		InputLang:  "en",
		OutputLang: "en",
		CreatedAt:  time.Now().UTC(),
	}
	id, err := store.Create(context.Background(), analysis)
	if err != nil {
		t.Fatalf("seed create failed: %v", err)
	}
	sections := []models.Section{
		{Index: 1, Original: "Original clause text.", Summary: "Plain version.", OutputLang: "en"},
	}
	if err := store.Complete(context.Background(), id, sections, map[string]string{"Clause": "a part of a contract"}); err != nil {
		t.Fatalf("seed complete failed: %v", err)
	}
	analysis.ID = id
	return analysis
}

func TestHistoryListRequiresAuth(t *testing.T) {
	router := newHistoryRouter(t, newStubStore())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/history", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestHistoryListScopedToUser(t *testing.T) {
	store := newStubStore()
	seedAnalysis(t, store, "user-1")
	seedAnalysis(t, store, "user-2")

	router := newHistoryRouter(t, store)

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	req.Header.Set("Authorization", "Bearer "+issueTestToken(t, "user-1"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var page models.HistoryPage
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if page.Total != 1 || len(page.Analyses) != 1 {
		t.Fatalf("expected exactly one record for user-1, got %+v", page)
	}
}

func TestHistoryGetFullRecord(t *testing.T) {
	store := newStubStore()
	analysis := seedAnalysis(t, store, "user-1")

	router := newHistoryRouter(t, store)

	req := httptest.NewRequest(http.MethodGet, "/history/"+analysis.ID.Hex(), nil)
	req.Header.Set("Authorization", "Bearer "+issueTestToken(t, "user-1"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var got models.Analysis
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(got.Sections) != 1 || got.Sections[0].Summary != "Plain version." {
		t.Fatalf("unexpected record body: %+v", got)
	}
}

func TestHistoryGetNonOwnerIs404(t *testing.T) {
	store := newStubStore()
	analysis := seedAnalysis(t, store, "user-1")

	router := newHistoryRouter(t, store)

	// The record exists but belongs to someone else
	req := httptest.NewRequest(http.MethodGet, "/history/"+analysis.ID.Hex(), nil)
	req.Header.Set("Authorization", "Bearer "+issueTestToken(t, "user-2"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for non-owner, got %d", w.Code)
	}
}

func TestHistoryGetMalformedID(t *testing.T) {
	router := newHistoryRouter(t, newStubStore())

	req := httptest.NewRequest(http.MethodGet, "/history/not-an-object-id", nil)
	req.Header.Set("Authorization", "Bearer "+issueTestToken(t, "user-1"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestHistoryDeleteIdempotent(t *testing.T) {
	store := newStubStore()
	analysis := seedAnalysis(t, store, "user-1")

	router := newHistoryRouter(t, store)

	del := func() int {
		req := httptest.NewRequest(http.MethodDelete, "/history/"+analysis.ID.Hex(), nil)
		req.Header.Set("Authorization", "Bearer "+issueTestToken(t, "user-1"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	if code := del(); code != http.StatusNoContent {
		t.Fatalf("first delete: expected 204, got %d", code)
	}
	if code := del(); code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", code)
	}
}

func TestHistoryExportWorkbook(t *testing.T) {
	store := newStubStore()
	analysis := seedAnalysis(t, store, "user-1")

	router := newHistoryRouter(t, store)

	req := httptest.NewRequest(http.MethodGet, "/history/"+analysis.ID.Hex()+"/export", nil)
	req.Header.Set("Authorization", "Bearer "+issueTestToken(t, "user-1"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("unexpected content type: %q", ct)
	}
	if w.Body.Len() == 0 {
		t.Fatal("empty workbook body")
	}
	// xlsx is a zip archive, check the magic bytes
	if body := w.Body.Bytes(); body[0] != 'P' || body[1] != 'K' {
		t.Fatalf("response is not a zip archive")
	}
}
