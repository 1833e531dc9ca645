package storelib

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/sflaunch/sflaunch/pkg/logger"
)

// Flow step names, in execution order. Reported through FlowOpts.OnStep.
const (
	StepGatewayLogin  = "gateway-login"
	StepSetClient     = "set-client"
	StepStoreEntry    = "store-entry"
	StepConfiguration = "configuration"
	StepResourceProbe = "resource-probe"
	StepAuthMethods   = "auth-methods"
	StepAuthLogin     = "auth-login"
)

// FlowStepCount is the number of steps a full Run reports.
const FlowStepCount = 7

// FlowOpts configures a Flow.
type FlowOpts struct {
	// AuthMethod is the authentication method expected from the catalog.
	// Defaults to DEF_AUTH_METHOD. Gateways offering only other methods are
	// a configuration problem, not something the flow guesses about.
	AuthMethod string
	// Logger receives per-step reporting. Defaults to a NopLogger.
	Logger logger.Logger
	// OnStep, when set, is invoked with each step name as it starts.
	OnStep func(step string)
}

// Flow drives the ordered sequence of exchanges that takes a transport from
// unauthenticated to catalog-authenticated. It owns the Session it mutates.
//
// The flow is a strict linear pipeline: every step hard-depends on an
// artifact (cookie, token, header) produced by the one before it, and a
// missing artifact aborts the remaining steps of the current transition,
// leaving the latches where they were.
type Flow struct {
	t       *Transport
	base    *url.URL
	session *Session
	method  string
	log     logger.Logger
	onStep  func(string)
}

// NewFlow creates a flow against the given gateway URL. Each flow run gets
// its own fresh Session; nothing is shared between flows.
func NewFlow(t *Transport, gatewayURL string, opts *FlowOpts) (*Flow, error) {
	if gatewayURL == "" {
		return nil, ErrEmptyGatewayURL
	}
	base, err := url.Parse(strings.TrimSuffix(gatewayURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, ErrInvalidGatewayURL
	}
	if opts == nil {
		opts = &FlowOpts{}
	}
	method := opts.AuthMethod
	if method == "" {
		method = DEF_AUTH_METHOD
	}
	lg := opts.Logger
	if lg == nil {
		lg = logger.NewNopLogger()
	}
	return &Flow{
		t:       t,
		base:    base,
		session: NewSession(),
		method:  method,
		log:     lg,
		onStep:  opts.OnStep,
	}, nil
}

// Session returns the flow's session state. Read-only for everyone but the
// flow itself.
func (f *Flow) Session() *Session {
	return f.session
}

// Transport returns the transport the flow drives.
func (f *Flow) Transport() *Transport {
	return f.t
}

// BaseURL returns the parsed gateway URL.
func (f *Flow) BaseURL() *url.URL {
	return f.base
}

func (f *Flow) step(name string) {
	if f.onStep != nil {
		f.onStep(name)
	}
	f.log.Info("flow: %s", name)
}

func (f *Flow) endpoint(path string) string {
	return f.base.Scheme + "://" + f.base.Host + path
}

func (f *Flow) usingHTTPS() string {
	if f.base.Scheme == "https" {
		return "Yes"
	}
	return "No"
}

// webHeaders is the request template for authenticated-zone calls: the
// gateway rejects or mis-serves calls missing any of these.
func (f *Flow) webHeaders() Headers {
	h := Headers{
		{ACCEPT_KEY, "application/xml, text/xml, */*; q=0.01"},
		{REFERER_KEY, f.endpoint(STORE_WEB_PATH)},
		{XHR_HEADER, "XMLHttpRequest"},
		{USING_HTTPS_HEADER, f.usingHTTPS()},
	}
	if f.session.CSRFToken != "" {
		h.Update(CSRF_HEADER, f.session.CSRFToken)
	}
	return h
}

func (f *Flow) formHeaders() Headers {
	h := f.webHeaders()
	h.Update(CONTENT_TYPE_KEY, "application/x-www-form-urlencoded; charset=UTF-8")
	return h
}

// Login performs the Unauthenticated → GatewayLoggedIn transition: the
// credential POST, then the client registration and store entry calls with
// the client-detection cookies and device id injected. The transition
// succeeds iff the gateway session cookie is present afterwards; if the
// credential POST itself yields no session cookie, the remaining calls are
// not attempted.
func (f *Flow) Login(username, password string) error {
	f.step(StepGatewayLogin)
	form := url.Values{
		"login":  {username},
		"passwd": {password},
	}
	_, err := f.t.Do(http.MethodPost, f.endpoint(GATEWAY_LOGIN_PATH), Headers{
		{CONTENT_TYPE_KEY, "application/x-www-form-urlencoded"},
	}, form.Encode())
	if err != nil {
		return stepErr(StepGatewayLogin, OutcomeTransportError, err)
	}
	jar := f.t.Jar()
	if !jar.Has(GATEWAY_SESSION_COOKIE) {
		f.log.Warning("flow: gateway issued no session cookie, credentials rejected")
		return stepErr(StepGatewayLogin, OutcomeLoginFailed, nil)
	}

	f.step(StepSetClient)
	_, err = f.t.Do(http.MethodGet, f.endpoint(SET_CLIENT_PATH), Headers{
		{REFERER_KEY, f.endpoint(GATEWAY_LOGIN_PATH)},
	}, "")
	if err != nil {
		return stepErr(StepSetClient, OutcomeTransportError, err)
	}

	host := f.base.Hostname()
	jar.Set(Cookie{Name: CLIENT_DETECTION_COOKIE, Value: "true", Domain: host})
	jar.Set(Cookie{Name: UPGRADE_SHOWN_COOKIE, Value: "true", Domain: host})
	jar.Set(Cookie{Name: DEVICE_ID_COOKIE, Value: f.session.DeviceID, Domain: host})

	f.step(StepStoreEntry)
	_, err = f.t.Do(http.MethodGet, f.endpoint(STORE_WEB_PATH), Headers{
		{REFERER_KEY, f.endpoint(SET_CLIENT_PATH)},
	}, "")
	if err != nil {
		return stepErr(StepStoreEntry, OutcomeTransportError, err)
	}

	if !jar.Has(GATEWAY_SESSION_COOKIE) {
		return stepErr(StepStoreEntry, OutcomeLoginFailed, nil)
	}
	f.session.LoggedIn = true
	f.log.Info("flow: gateway login complete (device %s)", f.session.DeviceID)
	return nil
}

// DiscoverAuthMethods runs the first three steps of the catalog transition
// (configuration, unauthorized probe, method discovery) and returns the
// methods the catalog offers, without logging in to any of them. Requires
// GatewayLoggedIn.
func (f *Flow) DiscoverAuthMethods() ([]AuthMethod, error) {
	if !f.session.LoggedIn {
		return nil, stepErr(StepConfiguration, OutcomeNotAuthenticated, nil)
	}
	return f.discoverMethods()
}

func (f *Flow) discoverMethods() ([]AuthMethod, error) {
	jar := f.t.Jar()

	f.step(StepConfiguration)
	_, err := f.t.Do(http.MethodPost, f.endpoint(CONFIGURATION_PATH), f.webHeaders(), "")
	if err != nil {
		return nil, stepErr(StepConfiguration, OutcomeTransportError, err)
	}
	token := jar.Value(CSRF_COOKIE)
	if token == "" {
		return nil, stepErr(StepConfiguration, OutcomeProtocolMismatch, nil)
	}
	f.session.StoreCSRF(token)

	f.step(StepResourceProbe)
	resp, err := f.t.Do(http.MethodPost, f.endpoint(RESOURCE_LIST_PATH), f.formHeaders(), "format=json")
	if err != nil {
		return nil, stepErr(StepResourceProbe, OutcomeTransportError, err)
	}
	if !strings.Contains(string(resp.Body), UNAUTHORIZED_MARKER) {
		return nil, stepErr(StepResourceProbe, OutcomeProtocolMismatch, nil)
	}
	methodsRef := ExtractRedirectTarget(resp.Header.Get(AUTHENTICATE_HEADER))
	if methodsRef == "" {
		methodsRef = AUTH_METHODS_PATH
	}

	f.step(StepAuthMethods)
	resp, err = f.t.Do(http.MethodPost, resolveRef(f.base, methodsRef), f.formHeaders(), "")
	if err != nil {
		return nil, stepErr(StepAuthMethods, OutcomeTransportError, err)
	}
	return ExtractAuthMethods(string(resp.Body)), nil
}

// Authenticate performs the GatewayLoggedIn → CatalogAuthenticated
// transition: configuration (CSRF token), the unauthorized resource-list
// probe, auth method discovery and the method login. When discovery yields
// nothing and the expected method is the standard one, the login is issued
// against the default login URL. The transition succeeds iff the catalog
// session cookie is present afterwards.
func (f *Flow) Authenticate() error {
	if !f.session.LoggedIn {
		return stepErr(StepConfiguration, OutcomeNotAuthenticated, nil)
	}
	methods, err := f.discoverMethods()
	if err != nil {
		return err
	}
	var loginRef string
	for _, m := range methods {
		if m.Name == f.method {
			loginRef = m.URL
			break
		}
	}
	if loginRef == "" {
		// Some gateway versions serve an empty or unparseable method list
		// while still accepting the standard login endpoint. Only the
		// standard method has a known default; a configured override with
		// no discovered entry is a real mismatch.
		if len(methods) == 0 && f.method == DEF_AUTH_METHOD {
			loginRef = GATEWAY_AUTH_PATH
			f.log.Warning("flow: no methods discovered, using default login URL")
		} else {
			f.log.Warning("flow: method %q not offered by catalog", f.method)
			return stepErr(StepAuthMethods, OutcomeProtocolMismatch, nil)
		}
	}

	jar := f.t.Jar()
	f.step(StepAuthLogin)
	_, err = f.t.Do(http.MethodPost, resolveRef(f.base, loginRef), f.formHeaders(), "")
	if err != nil {
		return stepErr(StepAuthLogin, OutcomeTransportError, err)
	}
	if !jar.Has(CATALOG_SESSION_COOKIE) {
		return stepErr(StepAuthLogin, OutcomeProtocolMismatch, nil)
	}
	f.session.Authenticated = true
	f.log.Info("flow: catalog authentication complete")
	return nil
}

// Run performs both transitions in order.
func (f *Flow) Run(username, password string) error {
	if err := f.Login(username, password); err != nil {
		return err
	}
	return f.Authenticate()
}

// Restore seeds the flow from a previously persisted session: the two
// session cookies go into the jar, the device id and CSRF token into the
// session, and both latches are set. Whether the server still honors the
// session shows up on the first catalog call.
func (f *Flow) Restore(deviceID, csrfToken, gatewayCookie, catalogCookie string) {
	host := f.base.Hostname()
	jar := f.t.Jar()
	jar.Set(Cookie{Name: GATEWAY_SESSION_COOKIE, Value: gatewayCookie, Domain: host})
	jar.Set(Cookie{Name: CATALOG_SESSION_COOKIE, Value: catalogCookie, Domain: host})
	jar.Set(Cookie{Name: CLIENT_DETECTION_COOKIE, Value: "true", Domain: host})
	jar.Set(Cookie{Name: UPGRADE_SHOWN_COOKIE, Value: "true", Domain: host})
	jar.Set(Cookie{Name: DEVICE_ID_COOKIE, Value: deviceID, Domain: host})
	f.session.DeviceID = deviceID
	f.session.CSRFToken = csrfToken
	f.session.LoggedIn = true
	f.session.Authenticated = true
	f.log.Info("flow: restored persisted session (device %s)", deviceID)
}
