package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"wordquiz/handlers"
	"wordquiz/models"
	"wordquiz/routes"
	"wordquiz/services"
)

const testSecret = "handler-test-secret"

func setupRouter(t *testing.T, authEnabled bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "api.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&models.Question{}, &models.User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	log := zap.NewNop()
	schema := services.NewSchemaProbe(db, log, "auto")
	schema.Resolve(context.Background())
	questionService := services.NewQuestionService(db, schema, nil, log)

	var authHandler *handlers.AuthHandler
	if authEnabled {
		authService := services.NewAuthService(db, testSecret)
		if err := authService.EnsureAdmin(context.Background(), "admin", "pw"); err != nil {
			t.Fatalf("EnsureAdmin failed: %v", err)
		}
		authHandler = handlers.NewAuthHandler(authService, log)
	}

	router := gin.New()
	routes.SetupRoutes(router, authHandler, handlers.NewQuestionHandler(questionService, log), questionService, nil,
		routes.AuthOptions{Enabled: authEnabled, JWTSecret: testSecret}, log)
	return router
}

func doJSON(router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode %q: %v", w.Body.String(), err)
	}
}

func TestCreateQuestion_Open(t *testing.T) {
	router := setupRouter(t, false)

	w := doJSON(router, http.MethodPost, "/questions", map[string]interface{}{
		"text": "CSROHA", "type": "OPEN", "answer": "CHAROS", "difficulty": "facil",
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var got map[string]interface{}
	decode(t, w, &got)
	if got["type"] != "OPEN" {
		t.Errorf("type = %v, want OPEN", got["type"])
	}
	if v, ok := got["options"]; !ok || v != nil {
		t.Errorf("options = %v, want null", v)
	}
	if _, ok := got["createdAt"]; !ok {
		t.Error("createdAt missing from response")
	}
}

func TestCreateQuestion_MCQ(t *testing.T) {
	router := setupRouter(t, false)

	w := doJSON(router, http.MethodPost, "/questions", map[string]interface{}{
		"text":         "Capital of France?",
		"type":         "MCQ",
		"options":      []string{"Paris", "Lyon", "Nice", "Metz"},
		"correctIndex": 0,
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var got services.QuestionResponse
	decode(t, w, &got)
	if got.Answer != "Paris" || got.Type != "MCQ" {
		t.Errorf("got answer=%q type=%q", got.Answer, got.Type)
	}
}

func TestCreateQuestion_BadRequests(t *testing.T) {
	router := setupRouter(t, false)

	tests := []struct {
		name    string
		body    interface{}
		wantErr string
	}{
		{"malformed json", "{", "Invalid JSON body"},
		{"missing text", map[string]interface{}{"type": "OPEN", "answer": "x"}, "question text required"},
		{"open without answer", map[string]interface{}{"text": "q", "type": "OPEN"}, "answer required for open question"},
		{"mcq short", map[string]interface{}{"text": "q", "type": "MCQ", "options": []string{"a", "b"}}, "MCQ requires 4 filled options"},
		{"bad difficulty", map[string]interface{}{"text": "q", "type": "OPEN", "answer": "x", "difficulty": "extreme"}, "invalid difficulty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(router, http.MethodPost, "/questions", tt.body, "")
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			var got map[string]string
			decode(t, w, &got)
			if got["error"] != tt.wantErr {
				t.Errorf("error = %q, want %q", got["error"], tt.wantErr)
			}
		})
	}
}

func TestListQuestions(t *testing.T) {
	router := setupRouter(t, false)

	for i := 0; i < 12; i++ {
		w := doJSON(router, http.MethodPost, "/questions", map[string]interface{}{
			"text": "q", "type": "OPEN", "answer": "a",
		}, "")
		if w.Code != http.StatusCreated {
			t.Fatalf("create %d: status %d", i, w.Code)
		}
	}

	w := doJSON(router, http.MethodGet, "/questions?page=3&limit=5", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var page services.ListResponse
	decode(t, w, &page)
	if page.Total != 12 || page.TotalPages != 3 || page.Count != 2 {
		t.Errorf("got total=%d totalPages=%d count=%d", page.Total, page.TotalPages, page.Count)
	}

	w = doJSON(router, http.MethodGet, "/questions?page=abc&limit=500", nil, "")
	decode(t, w, &page)
	if page.Page != 1 || page.Limit != 5 {
		t.Errorf("invalid params should fall back to 1/5, got %d/%d", page.Page, page.Limit)
	}
}

func TestUpdateQuestion(t *testing.T) {
	router := setupRouter(t, false)

	w := doJSON(router, http.MethodPost, "/questions", map[string]interface{}{
		"text": "ODLP", "type": "OPEN", "answer": "PLOD", "difficulty": "facil",
	}, "")
	var created services.QuestionResponse
	decode(t, w, &created)

	body := map[string]interface{}{"text": "ODLP", "type": "OPEN", "answer": "PLOD", "difficulty": "dificil"}

	w = doJSON(router, http.MethodPut, "/questions/"+itoa(created.ID), body, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var updated services.QuestionResponse
	decode(t, w, &updated)
	if updated.Difficulty != "dificil" || !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("got difficulty=%q createdAt=%v (was %v)", updated.Difficulty, updated.CreatedAt, created.CreatedAt)
	}

	if w := doJSON(router, http.MethodPut, "/questions/abc", body, ""); w.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id: status = %d, want 400", w.Code)
	}
	if w := doJSON(router, http.MethodPut, "/questions/9999", body, ""); w.Code != http.StatusNotFound {
		t.Errorf("missing id: status = %d, want 404", w.Code)
	}
}

func TestDeleteQuestion(t *testing.T) {
	router := setupRouter(t, false)

	w := doJSON(router, http.MethodPost, "/questions", map[string]interface{}{
		"text": "q", "type": "OPEN", "answer": "a",
	}, "")
	var created services.QuestionResponse
	decode(t, w, &created)

	path := "/questions/" + itoa(created.ID)
	w = doJSON(router, http.MethodDelete, path, nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got map[string]string
	decode(t, w, &got)
	if got["message"] == "" {
		t.Error("expected acknowledgement message")
	}

	if w := doJSON(router, http.MethodDelete, path, nil, ""); w.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want 404", w.Code)
	}
	if w := doJSON(router, http.MethodDelete, "/questions/x1", nil, ""); w.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id: status = %d, want 400", w.Code)
	}
}

func TestWritesRequireTokenWhenAuthEnabled(t *testing.T) {
	router := setupRouter(t, true)
	body := map[string]interface{}{"text": "q", "type": "OPEN", "answer": "a"}

	if w := doJSON(router, http.MethodPost, "/questions", body, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("status without token = %d, want 401", w.Code)
	}
	if w := doJSON(router, http.MethodGet, "/questions", nil, ""); w.Code != http.StatusOK {
		t.Errorf("reads stay public, got %d", w.Code)
	}

	w := doJSON(router, http.MethodPost, "/auth/login", map[string]string{"username": "admin", "password": "wrong"}, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", w.Code)
	}

	w = doJSON(router, http.MethodPost, "/auth/login", map[string]string{"username": "admin", "password": "pw"}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", w.Code, w.Body.String())
	}
	var login services.LoginResponse
	decode(t, w, &login)

	if w := doJSON(router, http.MethodPost, "/questions", body, login.Token); w.Code != http.StatusCreated {
		t.Errorf("status with token = %d, want 201", w.Code)
	}
	if w := doJSON(router, http.MethodGet, "/auth/profile", nil, login.Token); w.Code != http.StatusOK {
		t.Errorf("profile status = %d, want 200", w.Code)
	}
}

func TestHealth(t *testing.T) {
	router := setupRouter(t, false)

	w := doJSON(router, http.MethodGet, "/health", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got map[string]interface{}
	decode(t, w, &got)
	if got["status"] != "ok" || got["hint1"] != false {
		t.Errorf("unexpected health body %v", got)
	}
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
