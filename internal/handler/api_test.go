package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chatboard/chatboard/internal/handler/dto"
	"github.com/chatboard/chatboard/internal/metrics"
	"github.com/chatboard/chatboard/internal/middleware"
	"github.com/chatboard/chatboard/internal/model"
	"github.com/chatboard/chatboard/internal/repository"
	"github.com/chatboard/chatboard/internal/service"
	"github.com/chatboard/chatboard/internal/testutil"
)

var errStoreDown = errors.New("connection refused")

type failingStore struct{}

func (failingStore) ListUsers(context.Context) ([]*model.User, error) { return nil, errStoreDown }
func (failingStore) CreateUser(context.Context, *model.User) error { return errStoreDown }
func (failingStore) DeleteUser(context.Context, string) error { return errStoreDown }
func (failingStore) ListMessages(context.Context) ([]*model.Message, error) { return nil, errStoreDown }
func (failingStore) CreateMessage(context.Context, *model.Message) error { return errStoreDown }
func (failingStore) Ping(context.Context) error { return errStoreDown }
func (failingStore) Close() error { return nil }

func newTestRouter(t *testing.T, store repository.Store) (http.Handler, *metrics.InMemoryRecorder) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := metrics.NewInMemory()

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = []string{"*"}

	return NewRouter(RouterConfig{
		Users:    NewUserHandler(service.NewUserService(store, rec), logger),
		Messages: NewMessageHandler(service.NewMessageService(store, rec), logger),
		Health:   NewHealthHandler(store, nil),
		Metrics:  NewMetricsHandler(rec),
		Logger:   logger,
		CORS:     cors,
		Security: middleware.SecurityConfig{IsDevelopment: true, MaxRequestBodySize: 1 << 10},
	}), rec
}

func newBadgerStore(t *testing.T) repository.Store {
	t.Helper()
	store, err := repository.NewBadger("", nil)
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func createUser(t *testing.T, h http.Handler, name string) dto.UserResponse {
	t.Helper()
	u := testutil.NewTestUser(name)
	rec := do(t, h, http.MethodPost, "/api/users", dto.CreateUserRequest{Name: u.Name, Email: u.Email})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user: status %d body %s", rec.Code, rec.Body.String())
	}
	return decode[dto.UserResponse](t, rec)
}

func TestRouter_Greeting(t *testing.T) {
	h, _ := newTestRouter(t, newBadgerStore(t))

	rec := do(t, h, http.MethodGet, "/", nil)

	if rec.Code != http.StatusOK || rec.Body.String() != Greeting {
		t.Errorf("GET / = %d %q", rec.Code, rec.Body.String())
	}
}

func TestRouter_CreateUser(t *testing.T) {
	h, rec := newTestRouter(t, newBadgerStore(t))

	created := createUser(t, h, "alice")
	if created.ID == "" {
		t.Fatal("created user has empty id")
	}
	if created.Name != "alice" || created.Email != "alice@example.com" {
		t.Errorf("created user = %+v", created)
	}

	list := decode[[]dto.UserResponse](t, do(t, h, http.MethodGet, "/api/users", nil))
	if len(list) != 1 || list[0] != created {
		t.Errorf("list = %+v, want [%+v]", list, created)
	}
	if got := rec.Snapshot().UsersCreated; got != 1 {
		t.Errorf("users created metric = %d, want 1", got)
	}
}

func TestRouter_CreateUserValidation(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"missing email", map[string]string{"name": "bob"}, http.StatusBadRequest, "VALIDATION_ERROR", "Name and email required"},
		{"missing name", map[string]string{"email": "b@x.io"}, http.StatusBadRequest, "VALIDATION_ERROR", "Name and email required"},
		{"empty strings", map[string]string{"name": "", "email": ""}, http.StatusBadRequest, "VALIDATION_ERROR", "Name and email required"},
		{"empty body", "", http.StatusBadRequest, "VALIDATION_ERROR", "Name and email required"},
		{"malformed json", "{not json", http.StatusBadRequest, "INVALID_JSON", "Invalid request body"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestRouter(t, newBadgerStore(t))

			rec := do(t, h, http.MethodPost, "/api/users", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			resp := decode[dto.ErrorResponse](t, rec)
			if resp.Code != tt.wantCode || resp.Message != tt.wantMsg {
				t.Errorf("error = %+v", resp)
			}

			list := decode[[]dto.UserResponse](t, do(t, h, http.MethodGet, "/api/users", nil))
			if len(list) != 0 {
				t.Errorf("rejected create stored a user: %+v", list)
			}
		})
	}
}

func TestRouter_ListReflectsCreatesMinusDeletes(t *testing.T) {
	h, _ := newTestRouter(t, newBadgerStore(t))

	var ids []string
	for _, name := range []string{"a", "b", "c", "d"} {
		ids = append(ids, createUser(t, h, name).ID)
	}

	for _, id := range ids[:2] {
		rec := do(t, h, http.MethodDelete, "/api/users/"+id, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("delete %s: status %d", id, rec.Code)
		}
		if resp := decode[dto.StatusResponse](t, rec); resp.Message != "User deleted" {
			t.Errorf("delete message = %q", resp.Message)
		}
	}

	list := decode[[]dto.UserResponse](t, do(t, h, http.MethodGet, "/api/users", nil))
	if len(list) != 2 {
		t.Fatalf("len(list) = %d, want 2", len(list))
	}
	for _, u := range list {
		if u.ID == ids[0] || u.ID == ids[1] {
			t.Errorf("deleted user %s still listed", u.ID)
		}
	}
}

func TestRouter_DeleteUserErrors(t *testing.T) {
	h, _ := newTestRouter(t, newBadgerStore(t))

	created := createUser(t, h, "carol")
	if rec := do(t, h, http.MethodDelete, "/api/users/"+created.ID, nil); rec.Code != http.StatusOK {
		t.Fatalf("first delete: status %d", rec.Code)
	}

	tests := []struct {
		name       string
		id         string
		wantStatus int
		wantCode   string
	}{
		{"already deleted", created.ID, http.StatusNotFound, "USER_NOT_FOUND"},
		{"malformed id", "not-an-id", http.StatusBadRequest, "INVALID_ID"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodDelete, "/api/users/"+tt.id, nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if resp := decode[dto.ErrorResponse](t, rec); resp.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", resp.Code, tt.wantCode)
			}
		})
	}
}

func TestRouter_Messages(t *testing.T) {
	h, _ := newTestRouter(t, newBadgerStore(t))

	if list := decode[[]dto.MessageResponse](t, do(t, h, http.MethodGet, "/messages", nil)); len(list) != 0 {
		t.Fatalf("expected empty list, got %+v", list)
	}

	for _, text := range []string{"first", "second", "third"} {
		rec := do(t, h, http.MethodPost, "/messages", dto.SendMessageRequest{User: "Test User", Text: text})
		if rec.Code != http.StatusCreated {
			t.Fatalf("post %q: status %d body %s", text, rec.Code, rec.Body.String())
		}
		msg := decode[dto.MessageResponse](t, rec)
		if msg.ID == "" || msg.CreatedAt.IsZero() || msg.User != "Test User" {
			t.Errorf("created message = %+v", msg)
		}
	}

	list := decode[[]dto.MessageResponse](t, do(t, h, http.MethodGet, "/messages", nil))
	if len(list) != 3 {
		t.Fatalf("len(list) = %d, want 3", len(list))
	}
	for i, want := range []string{"first", "second", "third"} {
		if list[i].Text != want {
			t.Errorf("list[%d].Text = %q, want %q", i, list[i].Text, want)
		}
	}
	for i := 1; i < len(list); i++ {
		if list[i].CreatedAt.Before(list[i-1].CreatedAt) {
			t.Errorf("messages out of order at %d", i)
		}
	}
}

func TestRouter_SendMessageValidation(t *testing.T) {
	h, _ := newTestRouter(t, newBadgerStore(t))

	for _, body := range []map[string]string{
		{"user": "Test User", "text": ""},
		{"user": "", "text": "hi"},
		{},
	} {
		rec := do(t, h, http.MethodPost, "/messages", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %v: status %d, want 400", body, rec.Code)
			continue
		}
		if resp := decode[dto.ErrorResponse](t, rec); resp.Message != "User and text required" {
			t.Errorf("message = %q", resp.Message)
		}
	}

	if list := decode[[]dto.MessageResponse](t, do(t, h, http.MethodGet, "/messages", nil)); len(list) != 0 {
		t.Errorf("invalid posts stored messages: %+v", list)
	}
}

func TestRouter_StoreFailure(t *testing.T) {
	h, rec := newTestRouter(t, failingStore{})

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/users"},
		{http.MethodGet, "/messages"},
	} {
		res := do(t, h, tc.method, tc.path, nil)
		if res.Code != http.StatusInternalServerError {
			t.Errorf("%s %s: status %d, want 500", tc.method, tc.path, res.Code)
			continue
		}
		resp := decode[dto.ErrorResponse](t, res)
		if resp.Code != "STORE_ERROR" || resp.Message != errStoreDown.Error() {
			t.Errorf("%s %s: error = %+v", tc.method, tc.path, resp)
		}
	}

	if got := rec.Snapshot().StoreErrors; got != 2 {
		t.Errorf("store errors metric = %d, want 2", got)
	}

	if res := do(t, h, http.MethodGet, "/readyz", nil); res.Code != http.StatusServiceUnavailable {
		t.Errorf("readyz status = %d, want 503", res.Code)
	}
}

func TestRouter_FallbackRoutes(t *testing.T) {
	h, _ := newTestRouter(t, newBadgerStore(t))

	if rec := do(t, h, http.MethodGet, "/nope", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown path status = %d, want 404", rec.Code)
	}
	if rec := do(t, h, http.MethodPut, "/messages", nil); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("PUT /messages status = %d, want 405", rec.Code)
	}
}

func TestRouter_CORSAndBodyLimit(t *testing.T) {
	h, _ := newTestRouter(t, newBadgerStore(t))

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("missing request id header")
	}

	big := `{"user":"u","text":"` + strings.Repeat("x", 2<<10) + `"}`
	if res := do(t, h, http.MethodPost, "/messages", big); res.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("oversized body status = %d, want 413", res.Code)
	}

	// Unknown length: the cap is hit while decoding.
	streamed := httptest.NewRequest(http.MethodPost, "/messages", io.MultiReader(strings.NewReader(big)))
	streamed.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, streamed)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("streamed oversized body status = %d, want 413", rec.Code)
	}
}

func TestRouter_Metrics(t *testing.T) {
	h, _ := newTestRouter(t, newBadgerStore(t))

	createUser(t, h, "dave")

	rec := do(t, h, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "chatboard_users_created_total 1\n") {
		t.Errorf("metrics body missing counter:\n%s", rec.Body.String())
	}
}
