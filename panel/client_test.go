package panel

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
)

// questionServer serves n questions over the list endpoint and records the
// requests it sees.
type questionServer struct {
	total int

	mu       sync.Mutex
	requests []*http.Request
}

func (s *questionServer) seen() []*http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*http.Request(nil), s.requests...)
}

func (s *questionServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r)
	s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/questions":
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		start := (page - 1) * limit
		end := start + limit
		if end > s.total {
			end = s.total
		}
		data := []Question{}
		for i := start; i < end; i++ {
			data = append(data, Question{ID: uint(s.total - i), Difficulty: DifficultyEasy, Type: TypeOpen})
		}
		totalPages := (s.total + limit - 1) / limit
		if totalPages < 1 {
			totalPages = 1
		}
		_ = json.NewEncoder(w).Encode(Page{Page: page, Limit: limit, Total: int64(s.total), TotalPages: totalPages, Count: len(data), Data: data})

	case r.Method == http.MethodPost && r.URL.Path == "/questions":
		var d Draft
		if err := json.NewDecoder(r.Body).Decode(&d); err != nil || d.Text == "" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"question text required"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Question{ID: 99, Text: d.Text, Type: d.Type, Difficulty: d.Difficulty, Answer: d.Answer})

	case r.Method == http.MethodDelete && r.URL.Path == "/questions/404":
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Question not found"}`))

	case r.Method == http.MethodDelete:
		_, _ = w.Write([]byte(`{"message":"Question deleted successfully"}`))

	case r.Method == http.MethodPost && r.URL.Path == "/auth/login":
		_, _ = w.Write([]byte(`{"token":"tok","user":{"id":1,"username":"admin"}}`))

	default:
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func newTestClient(t *testing.T, srv *questionServer) *Client {
	t.Helper()
	server := httptest.NewServer(srv)
	t.Cleanup(server.Close)
	return NewClient(server.URL+"/", server.Client())
}

func TestClient_ListAllWalksPages(t *testing.T) {
	srv := &questionServer{total: 450}
	client := newTestClient(t, srv)

	all, err := client.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(all) != 450 {
		t.Errorf("got %d questions, want 450", len(all))
	}
	requests := srv.seen()
	if len(requests) != 3 {
		t.Fatalf("made %d requests, want 3", len(requests))
	}
	if got := requests[0].URL.Query().Get("limit"); got != "200" {
		t.Errorf("limit = %q, want 200", got)
	}
}

func TestClient_ListAllEmpty(t *testing.T) {
	client := newTestClient(t, &questionServer{})

	all, err := client.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("got %d questions", len(all))
	}
}

func TestClient_CreateAndErrors(t *testing.T) {
	srv := &questionServer{}
	client := newTestClient(t, srv)
	client.SetToken("tok")
	ctx := context.Background()

	q, err := client.Create(ctx, Draft{Text: "q", Type: TypeOpen, Difficulty: DifficultyEasy, Answer: "a"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if q.ID != 99 || q.Text != "q" {
		t.Errorf("unexpected question %+v", q)
	}
	if got := srv.seen()[0].Header.Get("Authorization"); got != "Bearer tok" {
		t.Errorf("Authorization = %q", got)
	}

	_, err = client.Create(ctx, Draft{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest || apiErr.Message != "question text required" {
		t.Errorf("got %v", err)
	}

	if err := client.Delete(ctx, 1); err != nil {
		t.Errorf("Delete failed: %v", err)
	}
	err = client.Delete(ctx, 404)
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Errorf("got %v, want 404 APIError", err)
	}
}

func TestClient_Login(t *testing.T) {
	client := newTestClient(t, &questionServer{})

	token, err := client.Login(context.Background(), "admin", "pw")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token != "tok" {
		t.Errorf("token = %q", token)
	}
}
