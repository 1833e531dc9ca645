package storelib

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sflaunch/sflaunch/pkg/logger"
)

// fakeGateway emulates the gateway and catalog endpoints the flow drives.
// Every request path is recorded so tests can assert on call sequencing.
type fakeGateway struct {
	srv *httptest.Server

	rejectLogin    bool
	omitAuthHeader bool
	noProbeMarker  bool
	methodsBody    string
	listBody       string
	descriptorBody string
	staleCatalog   bool

	requests   []string
	configHits int
	lastCSRF   string
}

func newFakeGateway(t *testing.T) *fakeGateway {
	t.Helper()
	g := &fakeGateway{
		methodsBody: `<methods><method name="CitrixAGBasic" url="GatewayAuth/Login"/></methods>`,
		listBody: `{"resources":[` +
			`{"launchurl":"LaunchIca?app=1","name":"Word"},` +
			`{"launchurl":"LaunchIca?app=2","name":"Excel"}]}`,
		descriptorBody: "[WFClient]\nVersion=2\n[ApplicationServers]\nWord=\n",
	}
	g.srv = httptest.NewServer(http.HandlerFunc(g.handle))
	t.Cleanup(g.srv.Close)
	return g
}

func (g *fakeGateway) handle(w http.ResponseWriter, r *http.Request) {
	g.requests = append(g.requests, r.URL.Path)
	body, _ := io.ReadAll(r.Body)

	switch r.URL.Path {
	case "/cgi/login":
		if !g.rejectLogin {
			http.SetCookie(w, &http.Cookie{Name: GATEWAY_SESSION_COOKIE, Value: "gw-session"})
		}
	case "/cgi/setClient":
		io.WriteString(w, "ok")
	case "/Citrix/StoreWeb/":
		io.WriteString(w, "<html></html>")
	case "/Citrix/StoreWeb/Home/Configuration":
		g.configHits++
		http.SetCookie(w, &http.Cookie{
			Name:  CSRF_COOKIE,
			Value: fmt.Sprintf("tok-%d", g.configHits),
		})
		io.WriteString(w, "<configuration/>")
	case "/Citrix/StoreWeb/Resources/List":
		g.lastCSRF = r.Header.Get(CSRF_HEADER)
		if string(body) == "format=json" {
			if !g.omitAuthHeader {
				w.Header().Set(AUTHENTICATE_HEADER,
					`CitrixAGBasic realm="store" location="Authentication/GetAuthMethods"`)
			}
			if g.noProbeMarker {
				io.WriteString(w, "{}")
				return
			}
			io.WriteString(w, UNAUTHORIZED_MARKER)
			return
		}
		if g.staleCatalog {
			io.WriteString(w, UNAUTHORIZED_MARKER)
			return
		}
		if _, err := r.Cookie(CATALOG_SESSION_COOKIE); err != nil {
			io.WriteString(w, UNAUTHORIZED_MARKER)
			return
		}
		io.WriteString(w, g.listBody)
	case "/Citrix/StoreWeb/Authentication/GetAuthMethods":
		io.WriteString(w, g.methodsBody)
	case "/Citrix/StoreWeb/GatewayAuth/Login":
		http.SetCookie(w, &http.Cookie{Name: CATALOG_SESSION_COOKIE, Value: "catalog-session"})
	case "/Citrix/StoreWeb/LaunchIca":
		io.WriteString(w, g.descriptorBody)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (g *fakeGateway) newFlow(t *testing.T, opts *FlowOpts) *Flow {
	t.Helper()
	tr, err := NewTransport(nil)
	if err != nil {
		t.Fatal(err)
	}
	f, err := NewFlow(tr, g.srv.URL, opts)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestNewFlowValidation(t *testing.T) {
	tr, err := NewTransport(nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewFlow(tr, "", nil); err != ErrEmptyGatewayURL {
		t.Errorf("empty url: got %v", err)
	}
	if _, err := NewFlow(tr, "gw.example.com", nil); err != ErrInvalidGatewayURL {
		t.Errorf("schemeless url: got %v", err)
	}
	if _, err := NewFlow(tr, "https://gw.example.com/", nil); err != nil {
		t.Errorf("valid url: got %v", err)
	}
}

func TestFlowRun(t *testing.T) {
	g := newFakeGateway(t)
	var steps []string
	f := g.newFlow(t, &FlowOpts{
		Logger: logger.NewMockLogger(),
		OnStep: func(step string) { steps = append(steps, step) },
	})

	if err := f.Run("user", "secret"); err != nil {
		t.Fatal(err)
	}
	s := f.Session()
	if !s.LoggedIn || !s.Authenticated {
		t.Fatalf("latches not set: %+v", s)
	}
	if s.CSRFToken != "tok-1" {
		t.Errorf("got CSRF token %q, want tok-1", s.CSRFToken)
	}
	if g.lastCSRF != "tok-1" {
		t.Errorf("probe carried CSRF header %q, want tok-1", g.lastCSRF)
	}
	want := []string{
		StepGatewayLogin, StepSetClient, StepStoreEntry,
		StepConfiguration, StepResourceProbe, StepAuthMethods, StepAuthLogin,
	}
	if len(steps) != FlowStepCount {
		t.Fatalf("got %d steps, want %d: %v", len(steps), FlowStepCount, steps)
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Errorf("step %d: got %q, want %q", i, steps[i], want[i])
		}
	}
}

func TestFlowLoginRejectedStopsImmediately(t *testing.T) {
	g := newFakeGateway(t)
	g.rejectLogin = true
	f := g.newFlow(t, nil)

	err := f.Login("user", "wrong")
	if OutcomeOf(err) != OutcomeLoginFailed {
		t.Fatalf("got %v, want login-failed outcome", err)
	}
	if len(g.requests) != 1 {
		t.Errorf("rejected login must not trigger further calls, saw %v", g.requests)
	}
	if f.Session().LoggedIn {
		t.Error("latch set despite rejected login")
	}
}

func TestFlowAuthenticateRequiresLogin(t *testing.T) {
	g := newFakeGateway(t)
	f := g.newFlow(t, nil)

	if err := f.Authenticate(); OutcomeOf(err) != OutcomeNotAuthenticated {
		t.Errorf("Authenticate before login: got %v", err)
	}
	if _, err := f.DiscoverAuthMethods(); OutcomeOf(err) != OutcomeNotAuthenticated {
		t.Errorf("DiscoverAuthMethods before login: got %v", err)
	}
	if len(g.requests) != 0 {
		t.Errorf("no requests expected, saw %v", g.requests)
	}
}

func TestFlowCSRFStoreOnce(t *testing.T) {
	g := newFakeGateway(t)
	f := g.newFlow(t, nil)

	if err := f.Login("user", "secret"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.DiscoverAuthMethods(); err != nil {
		t.Fatal(err)
	}
	if _, err := f.DiscoverAuthMethods(); err != nil {
		t.Fatal(err)
	}
	if g.configHits != 2 {
		t.Fatalf("expected two configuration calls, got %d", g.configHits)
	}
	if f.Session().CSRFToken != "tok-1" {
		t.Errorf("token re-derived: got %q, want tok-1", f.Session().CSRFToken)
	}
	if g.lastCSRF != "tok-1" {
		t.Errorf("second probe carried %q, want the stored tok-1", g.lastCSRF)
	}
}

func TestFlowDiscoveryFallsBackToDefaultPath(t *testing.T) {
	g := newFakeGateway(t)
	g.omitAuthHeader = true
	f := g.newFlow(t, nil)

	if err := f.Login("user", "secret"); err != nil {
		t.Fatal(err)
	}
	methods, err := f.DiscoverAuthMethods()
	if err != nil {
		t.Fatal(err)
	}
	if len(methods) != 1 || methods[0].Name != "CitrixAGBasic" {
		t.Fatalf("got methods %v", methods)
	}
	if methods[0].URL != "GatewayAuth/Login" {
		t.Errorf("got url %q", methods[0].URL)
	}
}

func TestFlowProbeWithoutMarkerIsProtocolMismatch(t *testing.T) {
	g := newFakeGateway(t)
	g.noProbeMarker = true
	f := g.newFlow(t, nil)

	if err := f.Login("user", "secret"); err != nil {
		t.Fatal(err)
	}
	err := f.Authenticate()
	if OutcomeOf(err) != OutcomeProtocolMismatch {
		t.Fatalf("got %v, want protocol mismatch", err)
	}
	if f.Session().Authenticated {
		t.Error("latch set despite failed probe")
	}
}

func TestFlowEmptyDiscoveryUsesDefaultLoginURL(t *testing.T) {
	g := newFakeGateway(t)
	g.methodsBody = `<methods></methods>`
	f := g.newFlow(t, nil)

	if err := f.Run("user", "secret"); err != nil {
		t.Fatal(err)
	}
	if !f.Session().Authenticated {
		t.Fatal("latch not set after default-URL login")
	}
	var sawDefaultLogin bool
	for _, p := range g.requests {
		if p == "/Citrix/StoreWeb/"+GATEWAY_AUTH_PATH {
			sawDefaultLogin = true
		}
	}
	if !sawDefaultLogin {
		t.Errorf("default login URL not used: %v", g.requests)
	}
}

func TestFlowEmptyDiscoveryWithOverriddenMethod(t *testing.T) {
	// the default login URL only stands in for the standard method; a
	// configured override with no discovered entry is a mismatch
	g := newFakeGateway(t)
	g.methodsBody = `<methods></methods>`
	f := g.newFlow(t, &FlowOpts{AuthMethod: "ExplicitForms"})

	if err := f.Login("user", "secret"); err != nil {
		t.Fatal(err)
	}
	err := f.Authenticate()
	if OutcomeOf(err) != OutcomeProtocolMismatch {
		t.Fatalf("got %v, want protocol mismatch", err)
	}
	if f.Session().Authenticated {
		t.Error("latch set despite missing method")
	}
}

func TestFlowMethodNotOffered(t *testing.T) {
	g := newFakeGateway(t)
	g.methodsBody = `<methods><method name="ExplicitForms" url="ExplicitAuth/Login"/></methods>`
	f := g.newFlow(t, nil)

	if err := f.Login("user", "secret"); err != nil {
		t.Fatal(err)
	}
	err := f.Authenticate()
	if OutcomeOf(err) != OutcomeProtocolMismatch {
		t.Fatalf("got %v, want protocol mismatch", err)
	}
	if f.Session().Authenticated {
		t.Error("latch set despite missing method")
	}
}

func TestFlowConfiguredMethod(t *testing.T) {
	g := newFakeGateway(t)
	g.methodsBody = `<methods>` +
		`<method name="CitrixAGBasic" url="GatewayAuth/Login"/>` +
		`<method name="ExplicitForms" url="GatewayAuth/Login"/>` +
		`</methods>`
	f := g.newFlow(t, &FlowOpts{AuthMethod: "ExplicitForms"})

	if err := f.Run("user", "secret"); err != nil {
		t.Fatal(err)
	}
	if !f.Session().Authenticated {
		t.Error("configured method not honored")
	}
}

func TestFlowRestore(t *testing.T) {
	g := newFakeGateway(t)
	f := g.newFlow(t, nil)

	f.Restore("WR_1234567890", "tok-persisted", "gw-session", "catalog-session")
	s := f.Session()
	if !s.LoggedIn || !s.Authenticated {
		t.Fatalf("latches not set after restore: %+v", s)
	}
	if s.DeviceID != "WR_1234567890" || s.CSRFToken != "tok-persisted" {
		t.Errorf("session not seeded: %+v", s)
	}
	if len(g.requests) != 0 {
		t.Errorf("restore must be offline, saw %v", g.requests)
	}

	apps, err := NewCatalog(f).ListApplications()
	if err != nil {
		t.Fatal(err)
	}
	if len(apps) != 2 {
		t.Fatalf("got %d apps, want 2", len(apps))
	}
	if !strings.Contains(strings.Join(g.requests, " "), RESOURCE_LIST_PATH) {
		t.Errorf("list not issued: %v", g.requests)
	}
}
