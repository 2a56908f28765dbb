package http

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/api/dto"
	"github.com/spec-kit/ticket-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/ticket-dashboard/internal/auth"
	"github.com/spec-kit/ticket-dashboard/internal/backend"
	"github.com/spec-kit/ticket-dashboard/internal/config"
	"github.com/spec-kit/ticket-dashboard/internal/dashboard"
	"github.com/spec-kit/ticket-dashboard/internal/observability"
	"github.com/spec-kit/ticket-dashboard/internal/stream"
	"github.com/spec-kit/ticket-dashboard/internal/theme"
)

const ticketsJSON = `{"data":{"tickets":[
	{"_id":"t1","title":"VPN","status":"pending","createdBy":{"_id":"e1","fullName":"Ada"}},
	{"_id":"t2","title":"Laptop","status":"completed","createdBy":{"_id":"e1","fullName":"Ada"}},
	{"_id":"t3","title":"Badge","status":"pending","createdBy":{"_id":"e1","fullName":"Ada"}}
]}}`

type fixture struct {
	app     *fiber.App
	hub     *dashboard.Hub
	release chan struct{}
}

func tokenFor(employeeID string) string {
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(`{"alg":"HS256"}`)) + "." +
		enc.EncodeToString([]byte(fmt.Sprintf(`{"id":%q}`, employeeID))) + ".sig"
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	release := make(chan struct{})

	mux := nethttp.NewServeMux()
	mux.HandleFunc("/api/v1/employees/", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		_, _ = io.WriteString(w, `{"data":{"employees":[{"_id":"e1","fullName":"Ada"}]}}`)
	})
	mux.HandleFunc("/api/v1/tickets/getMyTickets", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		_, _ = io.WriteString(w, ticketsJSON)
	})
	mux.HandleFunc("/api/v1/tickets/events", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		flusher := w.(nethttp.Flusher)
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(nethttp.StatusOK)
		flusher.Flush()
		select {
		case <-release:
		case <-r.Context().Done():
			return
		}
		_, _ = io.WriteString(w, "event: ticketCreated\ndata: {\"_id\":\"t4\",\"title\":\"Monitor\",\"status\":\"pending\"}\n\n")
		flusher.Flush()
		<-r.Context().Done()
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	logger := zap.NewNop()
	cfg := config.BackendConfig{BaseURL: srv.URL, FilesBaseURL: srv.URL + "/user_ticket", TimeoutSeconds: 5}
	loader := dashboard.NewLoader(backend.NewClient(cfg, nil).WithLogger(logger), logger)
	factory := dashboard.NewStreamFactory(srv.URL+"/api/v1/tickets/events", logger, stream.Options{})
	hub := dashboard.NewHub(loader, factory, logger, time.Minute)
	t.Cleanup(hub.Close)

	metrics := observability.NewMetrics()
	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:     handlers.NewHealthHandler("ticket-dashboard", "test", nil, hub.Len).WithMetrics(metrics),
		Dashboard:  handlers.NewDashboardHandler(hub, cfg.FilesBaseURL),
		Stream:     handlers.NewStreamHandler(hub, cfg.FilesBaseURL, logger, time.Second),
		Theme:      handlers.NewThemeHandler(theme.NewMemoryStore(), logger),
		Credential: auth.NewCredentialMiddleware(auth.DefaultCookieName),
	})
	return &fixture{app: app, hub: hub, release: release}
}

func (f *fixture) do(t *testing.T, method, path, body, token string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&nethttp.Cookie{Name: auth.DefaultCookieName, Value: token})
	}
	resp, err := f.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, raw
}

func decodeData(t *testing.T, raw []byte, out any) {
	t.Helper()
	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		t.Fatalf("decode data %s: %v", envelope.Data, err)
	}
}

func errorCode(t *testing.T, raw []byte) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode error %s: %v", raw, err)
	}
	return body.Error.Code
}

func (f *fixture) mount(t *testing.T, token string) dto.MountResponse {
	t.Helper()
	status, raw := f.do(t, nethttp.MethodPost, "/dashboard/sessions", "", token)
	if status != nethttp.StatusCreated {
		t.Fatalf("mount status = %d: %s", status, raw)
	}
	var mounted dto.MountResponse
	decodeData(t, raw, &mounted)
	return mounted
}

func TestMountWithoutCredential(t *testing.T) {
	f := newFixture(t)
	mounted := f.mount(t, "")
	if mounted.Outcome != string(dashboard.OutcomeNoCredential) || mounted.Employee != nil {
		t.Errorf("mounted = %+v", mounted)
	}

	var state dto.DashboardState
	_, raw := f.do(t, nethttp.MethodGet, "/dashboard/sessions/"+mounted.SessionID, "", "")
	decodeData(t, raw, &state)
	if len(state.Tickets) != 0 || state.Stream.Status != string(stream.StatusIdle) {
		t.Errorf("state = %+v", state)
	}
}

func TestDashboardFlow(t *testing.T) {
	f := newFixture(t)
	token := tokenFor("e1")
	mounted := f.mount(t, token)
	if mounted.Outcome != string(dashboard.OutcomeLoaded) || mounted.Tickets != 3 {
		t.Fatalf("mounted = %+v", mounted)
	}
	if mounted.Employee == nil || mounted.Employee.FullName != "Ada" {
		t.Errorf("employee = %+v", mounted.Employee)
	}
	base := "/dashboard/sessions/" + mounted.SessionID

	var state dto.DashboardState
	status, raw := f.do(t, nethttp.MethodPut, base+"/filter", `{"filter":"pending"}`, token)
	if status != nethttp.StatusOK {
		t.Fatalf("filter status = %d: %s", status, raw)
	}
	decodeData(t, raw, &state)
	if state.Filter != "pending" || len(state.Tickets) != 2 || state.Tickets[0].ID != "t1" || state.Tickets[1].ID != "t3" {
		t.Errorf("pending state = %+v", state.Tickets)
	}
	if state.NewTicketRoute != "/user-ticket" {
		t.Errorf("NewTicketRoute = %q", state.NewTicketRoute)
	}

	status, raw = f.do(t, nethttp.MethodPut, base+"/filter", `{"filter":"archived"}`, token)
	if status != nethttp.StatusBadRequest || errorCode(t, raw) != "VALIDATION_FAILED" {
		t.Errorf("bad filter = %d %s", status, raw)
	}

	status, raw = f.do(t, nethttp.MethodPost, base+"/respond", "", token)
	if status != nethttp.StatusConflict {
		t.Errorf("respond without selection = %d %s", status, raw)
	}

	status, raw = f.do(t, nethttp.MethodPost, base+"/tickets/t2/view", "", token)
	if status != nethttp.StatusOK {
		t.Fatalf("view t2 = %d %s", status, raw)
	}
	if !strings.Contains(string(raw), `"noResponse":"No response yet."`) || !strings.Contains(string(raw), `"canRespond":false`) {
		t.Errorf("detail = %s", raw)
	}
	status, _ = f.do(t, nethttp.MethodPost, base+"/respond", "", token)
	if status != nethttp.StatusConflict {
		t.Errorf("respond on completed = %d", status)
	}

	f.do(t, nethttp.MethodPost, base+"/tickets/t1/view", "", token)
	status, raw = f.do(t, nethttp.MethodPost, base+"/respond", "", token)
	if status != nethttp.StatusOK {
		t.Fatalf("respond = %d %s", status, raw)
	}
	var route dto.RouteResponse
	decodeData(t, raw, &route)
	if route.Route != "/t1" {
		t.Errorf("route = %q", route.Route)
	}

	_, raw = f.do(t, nethttp.MethodGet, base, "", token)
	state = dto.DashboardState{}
	decodeData(t, raw, &state)
	if state.Selected != nil {
		t.Error("popup should close after respond")
	}

	f.do(t, nethttp.MethodPost, base+"/tickets/t3/view", "", token)
	if status, _ := f.do(t, nethttp.MethodDelete, base+"/selection", "", token); status != nethttp.StatusNoContent {
		t.Errorf("close selection = %d", status)
	}
	if status, _ := f.do(t, nethttp.MethodPost, base+"/tickets/missing/view", "", token); status != nethttp.StatusNotFound {
		t.Errorf("view missing = %d", status)
	}

	if status, _ := f.do(t, nethttp.MethodDelete, base, "", token); status != nethttp.StatusNoContent {
		t.Errorf("unmount = %d", status)
	}
	status, raw = f.do(t, nethttp.MethodGet, base, "", token)
	if status != nethttp.StatusNotFound || errorCode(t, raw) != "NOT_FOUND" {
		t.Errorf("after unmount = %d %s", status, raw)
	}
}

func TestEventsStream(t *testing.T) {
	f := newFixture(t)
	mounted := f.mount(t, tokenFor("e1"))

	time.AfterFunc(100*time.Millisecond, func() { close(f.release) })
	time.AfterFunc(500*time.Millisecond, func() { f.hub.Unmount(mounted.SessionID) })

	status, raw := f.do(t, nethttp.MethodGet, "/dashboard/sessions/"+mounted.SessionID+"/events", "", "")
	if status != nethttp.StatusOK {
		t.Fatalf("events status = %d", status)
	}
	body := string(raw)
	if !strings.Contains(body, "event: status\n") {
		t.Errorf("missing status event:\n%s", body)
	}
	if !strings.Contains(body, "event: ticketCreated\n") || !strings.Contains(body, `"id":"t4"`) {
		t.Errorf("missing ticketCreated event:\n%s", body)
	}
}

func TestEventsUnknownSession(t *testing.T) {
	f := newFixture(t)
	if status, _ := f.do(t, nethttp.MethodGet, "/dashboard/sessions/nope/events", "", ""); status != nethttp.StatusNotFound {
		t.Errorf("status = %d", status)
	}
}

func TestThemeEndpoints(t *testing.T) {
	f := newFixture(t)
	token := tokenFor("e1")

	status, raw := f.do(t, nethttp.MethodGet, "/dashboard/theme", "", "")
	if status != nethttp.StatusUnauthorized || errorCode(t, raw) != "UNAUTHORIZED" {
		t.Errorf("anonymous theme = %d %s", status, raw)
	}

	var got dto.ThemeResponse
	_, raw = f.do(t, nethttp.MethodGet, "/dashboard/theme", "", token)
	decodeData(t, raw, &got)
	if got.Theme != "light" {
		t.Errorf("default theme = %s", got.Theme)
	}

	_, raw = f.do(t, nethttp.MethodPost, "/dashboard/theme/toggle", "", token)
	decodeData(t, raw, &got)
	if got.Theme != "dark" {
		t.Errorf("toggled theme = %s", got.Theme)
	}

	if status, _ := f.do(t, nethttp.MethodPut, "/dashboard/theme", `{"theme":"blue"}`, token); status != nethttp.StatusBadRequest {
		t.Errorf("invalid theme = %d", status)
	}
	_, raw = f.do(t, nethttp.MethodPut, "/dashboard/theme", `{"theme":"light"}`, token)
	decodeData(t, raw, &got)
	if got.Theme != "light" {
		t.Errorf("set theme = %s", got.Theme)
	}
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	if status, _ := f.do(t, nethttp.MethodGet, "/health/live", "", ""); status != nethttp.StatusOK {
		t.Errorf("live = %d", status)
	}
	status, raw := f.do(t, nethttp.MethodGet, "/health/ready", "", "")
	if status != nethttp.StatusOK || !strings.Contains(string(raw), `"redis":"disabled"`) {
		t.Errorf("ready = %d %s", status, raw)
	}
	status, raw = f.do(t, nethttp.MethodGet, "/health/metrics", "", "")
	if status != nethttp.StatusOK || !strings.Contains(string(raw), `"requests"`) {
		t.Errorf("metrics = %d %s", status, raw)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(nethttp.MethodGet, "/health/live", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	resp, err := f.app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if got := resp.Header.Get(requestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q", got)
	}
}
