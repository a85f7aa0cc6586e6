package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"dorm-portal/internal/authz"
	"dorm-portal/internal/entities"
	"dorm-portal/internal/services"
	"dorm-portal/pkg/config"
	apperrors "dorm-portal/pkg/errors"
	"dorm-portal/pkg/metrics"
	"dorm-portal/pkg/service"
	"dorm-portal/pkg/types"
	"dorm-portal/pkg/validation"
	"dorm-portal/pkg/websocket"
)

// actorDirectory подменяет UserService: роутеру от него нужен только ResolveActor.
type actorDirectory struct {
	services.UserServiceInterface
	actors map[uuid.UUID]authz.Actor
}

func (d *actorDirectory) ResolveActor(_ context.Context, id uuid.UUID) (authz.Actor, error) {
	a, ok := d.actors[id]
	if !ok {
		return authz.Actor{}, apperrors.ErrNotFound
	}
	return a, nil
}

type stubLogService struct {
	services.LogServiceInterface
	entries []entities.LogEntry
}

func (s *stubLogService) List(context.Context, types.Filter) ([]entities.LogEntry, uint64, error) {
	return s.entries, uint64(len(s.entries)), nil
}

type RouterTestSuite struct {
	suite.Suite
	Echo   *echo.Echo
	JWT    service.JWTService
	actors map[string]authz.Actor
}

func (s *RouterTestSuite) SetupSuite() {
	nopLogger := zap.NewNop()
	loggers := &Loggers{Main: nopLogger, Auth: nopLogger, User: nopLogger, Dorm: nopLogger}

	s.actors = map[string]authz.Actor{
		"member":   {ID: uuid.New(), Name: "Жилец", Role: authz.RoleMember, Room: "301"},
		"chairman": {ID: uuid.New(), Name: "Председатель", Role: authz.RoleMember, Positions: authz.Positions{{Kind: authz.KindChairman}}},
	}
	directory := &actorDirectory{actors: map[uuid.UUID]authz.Actor{}}
	for _, a := range s.actors {
		directory.actors[a.ID] = a
	}

	svc := &Services{
		User: directory,
		Log: &stubLogService{entries: []entities.LogEntry{
			{ID: 1, Action: "room_approved", UserName: "Председатель", Details: "Комната 301", CreatedAt: time.Now()},
		}},
	}

	s.JWT = service.NewJWTService("router-test-secret", time.Hour, time.Hour*24, nopLogger)
	e := echo.New()
	e.Validator = validation.New()
	cfg := &config.Config{Frontend: config.FrontendConfig{AllowedOrigins: []string{"http://localhost:5173"}}}

	InitRouter(e, svc, s.JWT, authz.NewGatekeeper(), websocket.NewHub(nopLogger), metrics.New(), cfg, loggers)
	s.Echo = e
}

func (s *RouterTestSuite) token(name string, refresh bool) string {
	a := s.actors[name]
	access, refreshToken, err := s.JWT.GenerateTokens(a.ID, string(a.Role))
	s.Require().NoError(err)
	if refresh {
		return refreshToken
	}
	return access
}

func (s *RouterTestSuite) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func (s *RouterTestSuite) TestHealthAndMetrics() {
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/health", "", "").Code)

	rec := s.do(http.MethodGet, "/metrics", "", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "dorm_portal_http_requests_total")
}

func (s *RouterTestSuite) TestAuthIsRequired() {
	s.Equal(http.StatusUnauthorized, s.do(http.MethodGet, "/api/logs", "", "").Code)
	s.Equal(http.StatusUnauthorized, s.do(http.MethodGet, "/api/logs", "garbage", "").Code)
	s.Equal(http.StatusUnauthorized, s.do(http.MethodGet, "/api/logs", s.token("chairman", true), "").Code,
		"refresh-токен не даёт доступа")

	stranger, _, err := s.JWT.GenerateTokens(uuid.New(), string(authz.RoleMember))
	s.Require().NoError(err)
	s.Equal(http.StatusUnauthorized, s.do(http.MethodGet, "/api/logs", stranger, "").Code,
		"удалённый пользователь не проходит")
}

func (s *RouterTestSuite) TestPermissionGates() {
	s.Equal(http.StatusForbidden, s.do(http.MethodGet, "/api/logs", s.token("member", false), "").Code)
	s.Equal(http.StatusForbidden, s.do(http.MethodGet, "/api/tasks", s.token("member", false), "").Code)
	s.Equal(http.StatusForbidden, s.do(http.MethodGet, "/api/reports/work-shifts", s.token("member", false), "").Code)
	s.Equal(http.StatusForbidden, s.do(http.MethodPost, "/api/users/import", s.token("chairman", false), "").Code,
		"импорт жильцов только у персонала")
	s.Equal(http.StatusForbidden, s.do(http.MethodPut, "/api/cleanliness/settings", s.token("chairman", false), "{}").Code,
		"настройки чистоты только у персонала")
}

func (s *RouterTestSuite) TestLogsForCouncilLead() {
	rec := s.do(http.MethodGet, "/api/logs?withPagination=true", s.token("chairman", false), "")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Status bool `json:"status"`
		Body   struct {
			List       []entities.LogEntry `json:"list"`
			Pagination types.Pagination    `json:"pagination"`
		} `json:"body"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.True(resp.Status)
	s.Len(resp.Body.List, 1)
	s.Equal(uint64(1), resp.Body.Pagination.TotalCount)
}

func (s *RouterTestSuite) TestLoginValidation() {
	rec := s.do(http.MethodPost, "/api/auth/login", "", `{"email":"not-an-email","password":""}`)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}
