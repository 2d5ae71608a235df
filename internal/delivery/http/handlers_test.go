package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cecepns/stroke-care/internal/config"
	"github.com/cecepns/stroke-care/internal/delivery/ws"
	"github.com/cecepns/stroke-care/internal/domain"
	"github.com/cecepns/stroke-care/internal/repository"
	"github.com/cecepns/stroke-care/internal/usecase"
)

type testEnv struct {
	mux      *http.ServeMux
	auth     *usecase.AuthService
	messages *repository.MessageRepository
	notes    *repository.HealthNoteRepository

	adminToken string
	userToken  string
	adminID    int64
	userID     int64
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := repository.Open(":memory:")
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	users := repository.NewUserRepository(db)
	messages := repository.NewMessageRepository(db)
	materials := repository.NewMaterialRepository(db)
	notes := repository.NewHealthNoteRepository(db)
	screenings := repository.NewScreeningRepository(db)

	auth := usecase.NewAuthService(users, cfg.JWTSecret, cfg.TokenTTL)
	resolver := usecase.NewIdentityResolver(users)
	relay := ws.NewRelay(logger, messages, resolver, cfg.MaxContentLength)

	handler := NewHandler(logger, cfg, auth, users, messages, materials, notes, screenings, relay)
	mux := http.NewServeMux()
	handler.Routes(mux)

	adminUser, err := auth.Register("Admin", "admin@example.com", "secret123", "admin")
	require.NoError(t, err)
	adminToken, err := auth.IssueToken(adminUser)
	require.NoError(t, err)

	regular, err := auth.Register("Budi", "budi@example.com", "secret123", "")
	require.NoError(t, err)
	userToken, err := auth.IssueToken(regular)
	require.NoError(t, err)

	return &testEnv{
		mux:        mux,
		auth:       auth,
		messages:   messages,
		notes:      notes,
		adminToken: adminToken,
		userToken:  userToken,
		adminID:    adminUser.ID,
		userID:     regular.ID,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.mux.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	return out
}

func TestRegister(t *testing.T) {
	env := setupEnv(t)

	w := env.do(t, "POST", "/api/auth/register", "", map[string]string{
		"name": "Siti", "email": "siti@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	user := decodeBody[domain.User](t, w)
	require.Equal(t, "user", user.Role)

	// Duplicate email
	w = env.do(t, "POST", "/api/auth/register", "", map[string]string{
		"name": "Siti", "email": "siti@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestRegister_Validation(t *testing.T) {
	env := setupEnv(t)

	w := env.do(t, "POST", "/api/auth/register", "", map[string]string{
		"name": "S", "email": "not-an-email", "password": "x",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	env := setupEnv(t)

	w := env.do(t, "POST", "/api/auth/login", "", map[string]string{
		"email": "budi@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody[map[string]any](t, w)
	require.NotEmpty(t, body["token"])

	w = env.do(t, "POST", "/api/auth/login", "", map[string]string{
		"email": "budi@example.com", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminEndpointsRequireAdminRole(t *testing.T) {
	env := setupEnv(t)

	w := env.do(t, "GET", "/api/users", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, "GET", "/api/users", env.userToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, "GET", "/api/users", env.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	users := decodeBody[[]domain.User](t, w)
	require.Len(t, users, 2)
}

func TestMaterialLifecycle(t *testing.T) {
	env := setupEnv(t)

	w := env.do(t, "POST", "/api/materials", env.adminToken, map[string]string{
		"title": "Recognizing stroke symptoms", "type": "article", "content": "FAST method",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	material := decodeBody[domain.Material](t, w)
	require.Equal(t, env.adminID, material.AuthorID)
	require.Equal(t, "draft", material.Status)

	// Listing is public
	w = env.do(t, "GET", "/api/materials", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, "PUT", "/api/materials/1", env.adminToken, map[string]string{
		"title": "Recognizing stroke symptoms", "type": "article", "status": "published",
	})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeBody[domain.Material](t, w)
	require.Equal(t, "published", updated.Status)

	w = env.do(t, "DELETE", "/api/materials/1", env.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, "DELETE", "/api/materials/1", env.adminToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestMaterialCreate_RejectsNonAdmin(t *testing.T) {
	env := setupEnv(t)

	w := env.do(t, "POST", "/api/materials", env.userToken, map[string]string{
		"title": "Nope", "type": "article",
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestUserChatHistory(t *testing.T) {
	env := setupEnv(t)

	roomID := domain.UserRoomID(env.userID)
	_, err := env.messages.Insert(roomID, &env.userID, "Budi", "hello")
	require.NoError(t, err)
	_, err = env.messages.Insert(roomID, &env.userID, "Budi", "again")
	require.NoError(t, err)

	w := env.do(t, "GET", "/api/chat-history/user", env.userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := decodeBody[domain.RoomHistory](t, w)
	require.Equal(t, roomID, history.RoomID)
	require.EqualValues(t, 2, history.MessageCount)

	w = env.do(t, "GET", "/api/chat-history/user/recent?limit=1", env.userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	recent := decodeBody[[]domain.StoredMessage](t, w)
	require.Len(t, recent, 1)
	require.Equal(t, "again", recent[0].Content)
}

func TestAdminChatEndpoints(t *testing.T) {
	env := setupEnv(t)

	_, err := env.messages.Insert("user_42", nil, "Someone", "hi")
	require.NoError(t, err)

	w := env.do(t, "GET", "/api/chat-history", env.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	summaries := decodeBody[[]domain.RoomSummary](t, w)
	require.Len(t, summaries, 1)

	w = env.do(t, "GET", "/api/chat-history/user_42/messages", env.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	rows := decodeBody[[]domain.StoredMessage](t, w)
	require.Len(t, rows, 1)

	w = env.do(t, "DELETE", "/api/chat-history/user_42", env.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	n, err := env.messages.Count()
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestHealthNoteFlow(t *testing.T) {
	env := setupEnv(t)

	payload := map[string]any{
		"note_date":          "2026-08-28",
		"blood_sugar":        110.5,
		"blood_sugar_status": "normal",
	}
	w := env.do(t, "POST", "/api/health-notes", env.userToken, payload)
	require.Equal(t, http.StatusCreated, w.Code)

	// Same date again updates instead of duplicating
	w = env.do(t, "POST", "/api/health-notes", env.userToken, payload)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, "GET", "/api/health-notes", env.userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	notes := decodeBody[[]domain.HealthNote](t, w)
	require.Len(t, notes, 1)

	w = env.do(t, "GET", "/api/health-notes/2026-08-28", env.userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, "GET", "/api/health-notes/2026-01-01", env.userToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthNote_BadDate(t *testing.T) {
	env := setupEnv(t)

	w := env.do(t, "POST", "/api/health-notes", env.userToken, map[string]any{
		"note_date": "28-08-2026",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScreeningFlow(t *testing.T) {
	env := setupEnv(t)

	w := env.do(t, "POST", "/api/screening", env.userToken, map[string]any{
		"answers": map[string]string{"q1": "A", "q2": "A", "q3": "A"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	screening := decodeBody[domain.Screening](t, w)
	require.Equal(t, 9, screening.Score)
	require.Equal(t, domain.RiskHigh, screening.RiskLevel)

	w = env.do(t, "GET", "/api/screening/history", env.userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := decodeBody[[]domain.Screening](t, w)
	require.Len(t, history, 1)

	// Other users' screenings are invisible
	w = env.do(t, "GET", "/api/screening/1", env.adminToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, "GET", "/api/screening/1", env.userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestScreening_RejectsBadAnswers(t *testing.T) {
	env := setupEnv(t)

	w := env.do(t, "POST", "/api/screening", env.userToken, map[string]any{
		"answers": map[string]string{"q1": "Z"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardStats(t *testing.T) {
	env := setupEnv(t)

	w := env.do(t, "GET", "/api/dashboard/stats", env.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decodeBody[map[string]any](t, w)
	require.EqualValues(t, 2, stats["total_users"])
}

func TestServeWS_InvalidTokenRejected(t *testing.T) {
	env := setupEnv(t)

	w := env.do(t, "GET", "/ws?token=garbage", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealthCheck(t *testing.T) {
	env := setupEnv(t)

	w := env.do(t, "GET", "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}
