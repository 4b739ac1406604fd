package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"inferno/internal/models"
	"inferno/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

// mockSmoker implements both service.Control and service.Monitoring.
type mockSmoker struct {
	mu sync.Mutex

	status     models.Status
	requestErr error
	saveErr    error

	lastMode     models.Mode
	requestCalls int
}

func (m *mockSmoker) RequestMode(_ context.Context, mode models.Mode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCalls++
	m.lastMode = mode
	if m.requestErr != nil {
		return m.requestErr
	}
	m.status.Mode = mode
	return nil
}

func (m *mockSmoker) SetSetPoint(_ context.Context, v int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status.SetPoint = min(max(v, 180), 400)
	return m.status.SetPoint, m.saveErr
}

func (m *mockSmoker) SetPValue(_ context.Context, v int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status.PValue = min(max(v, 0), 5)
	return m.status.PValue, m.saveErr
}

func (m *mockSmoker) Mode() models.Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status.Mode
}

func (m *mockSmoker) SetPoint() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status.SetPoint
}

func (m *mockSmoker) PValue() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status.PValue
}

func (m *mockSmoker) Temps() models.Temps {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status.Temps
}

func (m *mockSmoker) Status() models.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

type mockEventLog struct {
	resp     []models.SmokerEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.SmokerEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
