package storelib

import (
	"crypto/tls"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

var (
	ErrEmptyProxyURL     = errors.New("proxy URL cannot be empty")
	ErrInvalidProxyURL   = errors.New("invalid proxy URL")
	ErrUnsupportedScheme = errors.New("unsupported proxy scheme")
)

var supportedProxySchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"socks5": true,
}

// TransportOpts configures a Transport. The zero value gives a plain
// direct-connection client with the default browser identification string.
type TransportOpts struct {
	// UserAgent overrides DEF_USER_AGENT when non-empty.
	UserAgent string
	// Certificate is an optional client identity attached to every request.
	Certificate *tls.Certificate
	// ProxyURL routes all requests through an http, https or socks5 proxy.
	ProxyURL string
	// Timeout bounds each request end to end. Zero means no timeout.
	Timeout time.Duration
	// InsecureSkipVerify disables server certificate verification. Gateways
	// behind self-signed appliance certificates need this.
	InsecureSkipVerify bool
}

// Response is the transport's view of an HTTP exchange: the jar has already
// absorbed the Set-Cookie entries by the time the caller sees it.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Transport performs HTTP requests with a persistent cookie store and a
// browser-like identity. Redirects are never followed: the flow's endpoints
// respond with data or header-encoded signals, and a 3xx status is something
// the caller must see and decide about.
type Transport struct {
	client    *http.Client
	jar       *Jar
	userAgent string
}

// NewTransport creates a Transport from the given options.
func NewTransport(opts *TransportOpts) (*Transport, error) {
	if opts == nil {
		opts = &TransportOpts{}
	}
	tlsConfig := &tls.Config{
		InsecureSkipVerify: opts.InsecureSkipVerify,
	}
	if opts.Certificate != nil {
		tlsConfig.Certificates = []tls.Certificate{*opts.Certificate}
	}
	transport := &http.Transport{
		TLSClientConfig: tlsConfig,
	}
	if opts.ProxyURL != "" {
		if err := setProxy(transport, opts.ProxyURL); err != nil {
			return nil, err
		}
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = DEF_USER_AGENT
	}
	return &Transport{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		jar:       NewJar(),
		userAgent: ua,
	}, nil
}

func setProxy(transport *http.Transport, proxyURL string) error {
	parsed, err := url.Parse(proxyURL)
	if err != nil {
		return ErrInvalidProxyURL
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return ErrInvalidProxyURL
	}
	if !supportedProxySchemes[parsed.Scheme] {
		return ErrUnsupportedScheme
	}
	if parsed.Scheme == "socks5" {
		var auth *proxy.Auth
		if parsed.User != nil {
			pass, _ := parsed.User.Password()
			auth = &proxy.Auth{
				User:     parsed.User.Username(),
				Password: pass,
			}
		}
		dialer, err := proxy.SOCKS5("tcp", parsed.Host, auth, proxy.Direct)
		if err != nil {
			return err
		}
		transport.Dial = dialer.Dial
		return nil
	}
	transport.Proxy = http.ProxyURL(parsed)
	return nil
}

// Jar returns the transport's cookie store.
func (t *Transport) Jar() *Jar {
	return t.jar
}

// UserAgent returns the identification string sent with every request.
func (t *Transport) UserAgent() string {
	return t.userAgent
}

// Do performs a single HTTP exchange. headers are applied in order after
// the defaults, so a caller can override anything per call. body may be
// empty. The response body is read in full and the jar is updated from the
// response before Do returns. Transport errors propagate unmodified; no
// retry is attempted.
func (t *Transport) Do(method, rawURL string, headers Headers, body string) (*Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, rawURL, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set(USER_AGENT_KEY, t.userAgent)
	headers.Set(req.Header)
	if ch := t.jar.RequestHeader(u); ch != "" {
		req.Header.Set("Cookie", ch)
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	t.jar.UpdateFromResponse(resp, u)
	return &Response{
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   data,
	}, nil
}
