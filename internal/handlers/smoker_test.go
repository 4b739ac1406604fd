package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"inferno/internal/models"
	"inferno/internal/service"
)

func newSmokerRouter(sm *mockSmoker) http.Handler {
	return newTestRouter(&service.Service{
		Authorization: &mockAuth{parseID: 7},
		Control:       sm,
		Monitoring:    sm,
	})
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSmokerHandlers_RequireAuth(t *testing.T) {
	r := newSmokerRouter(&mockSmoker{})
	for _, path := range []string{"/api/v1/mode", "/api/v1/setpoint", "/api/v1/pvalue", "/api/v1/temps", "/api/v1/status"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 without auth, got %d", path, w.Code)
		}
	}
}

func TestSmokerHandlers_Reads(t *testing.T) {
	sm := &mockSmoker{status: models.Status{
		Mode:     models.ModeHold,
		SetPoint: 225,
		PValue:   3,
		Temps:    models.Temps{GrillTemp: 221.5, ProbeTemp: models.TempUnplugged},
		AugerOn:  true,
	}}
	r := newSmokerRouter(sm)

	w := doJSON(t, r, http.MethodGet, "/api/v1/mode", "")
	var mode struct {
		Mode string `json:"mode"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &mode)
	if w.Code != http.StatusOK || mode.Mode != "Hold" {
		t.Fatalf("mode: status=%d body=%s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/setpoint", "")
	var sp struct {
		SetPoint int `json:"setPoint"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &sp)
	if sp.SetPoint != 225 {
		t.Fatalf("setpoint: body=%s", w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/pvalue", "")
	var pv struct {
		PValue int `json:"pValue"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &pv)
	if pv.PValue != 3 {
		t.Fatalf("pvalue: body=%s", w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/temps", "")
	var temps models.Temps
	_ = json.Unmarshal(w.Body.Bytes(), &temps)
	if temps.GrillTemp != 221.5 || temps.ProbeTemp != models.TempUnplugged {
		t.Fatalf("temps: body=%s", w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/status", "")
	var st models.Status
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("unmarshal status: %v", err)
	}
	if st.Mode != models.ModeHold || !st.AugerOn || st.SetPoint != 225 {
		t.Fatalf("status: %+v", st)
	}
}

func TestSmokerHandlers_SetMode(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		requestErr error
		wantCode   int
		wantCalls  int
	}{
		{name: "accepted", body: `{"mode":"smoke"}`, wantCode: http.StatusAccepted, wantCalls: 1},
		{name: "seer alias", body: `{"mode":"Seer"}`, wantCode: http.StatusAccepted, wantCalls: 1},
		{name: "unknown mode", body: `{"mode":"broil"}`, wantCode: http.StatusBadRequest},
		{name: "missing mode", body: `{}`, wantCode: http.StatusBadRequest},
		{
			name:       "rejected transition",
			body:       `{"mode":"Ready"}`,
			requestErr: fmt.Errorf("%w: Hold to Ready", service.ErrRejectedTransition),
			wantCode:   http.StatusForbidden,
			wantCalls:  1,
		},
		{name: "unexpected failure", body: `{"mode":"Hold"}`, requestErr: errors.New("boom"), wantCode: http.StatusInternalServerError, wantCalls: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sm := &mockSmoker{requestErr: tc.requestErr}
			r := newSmokerRouter(sm)

			w := doJSON(t, r, http.MethodPost, "/api/v1/mode", tc.body)

			if w.Code != tc.wantCode {
				t.Fatalf("status=%d want %d body=%s", w.Code, tc.wantCode, w.Body.String())
			}
			if sm.requestCalls != tc.wantCalls {
				t.Fatalf("RequestMode calls=%d want %d", sm.requestCalls, tc.wantCalls)
			}
		})
	}
}

func TestSmokerHandlers_SetModeResponseCarriesState(t *testing.T) {
	sm := &mockSmoker{}
	r := newSmokerRouter(sm)

	w := doJSON(t, r, http.MethodPost, "/api/v1/mode", `{"mode":"Sear"}`)

	var resp struct {
		Status string        `json:"status"`
		Mode   string        `json:"mode"`
		State  models.Status `json:"state"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != statusAccepted || resp.Mode != "Sear" || resp.State.Mode != models.ModeSear {
		t.Fatalf("bad response: %+v", resp)
	}
	if sm.lastMode != models.ModeSear {
		t.Fatalf("RequestMode got %s", sm.lastMode)
	}
}

func TestSmokerHandlers_SetPointAndPValue(t *testing.T) {
	sm := &mockSmoker{}
	r := newSmokerRouter(sm)

	w := doJSON(t, r, http.MethodPost, "/api/v1/setpoint", `{"setPoint":900}`)
	var sp struct {
		SetPoint  int  `json:"setPoint"`
		Persisted bool `json:"persisted"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &sp)
	if w.Code != http.StatusOK || sp.SetPoint != 400 || !sp.Persisted {
		t.Fatalf("setpoint: status=%d body=%s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/v1/pvalue", `{"pValue":0}`)
	var pv struct {
		PValue    int  `json:"pValue"`
		Persisted bool `json:"persisted"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &pv)
	if w.Code != http.StatusOK || pv.PValue != 0 || !pv.Persisted {
		t.Fatalf("pvalue: status=%d body=%s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/v1/pvalue", `{"level":3}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing pValue: expected 400, got %d", w.Code)
	}
}

func TestSmokerHandlers_SetPointPersistFailureStillApplies(t *testing.T) {
	sm := &mockSmoker{saveErr: errors.New("readonly")}
	r := newSmokerRouter(sm)

	w := doJSON(t, r, http.MethodPost, "/api/v1/setpoint", `{"setPoint":250}`)

	var sp struct {
		SetPoint  int  `json:"setPoint"`
		Persisted bool `json:"persisted"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &sp)
	if w.Code != http.StatusOK || sp.SetPoint != 250 || sp.Persisted {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if sm.SetPoint() != 250 {
		t.Fatalf("set point not applied: %d", sm.SetPoint())
	}
}

func TestHealth(t *testing.T) {
	r := newTestRouter(&service.Service{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health status=%d", w.Code)
	}
}
