package storelib

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/sflaunch/sflaunch/pkg/logger"
)

// Catalog issues authenticated-zone calls against the resource catalog. It
// holds a read reference to the flow's session (for the CSRF token and the
// latches) and the transport; it never mutates the session.
type Catalog struct {
	t       *Transport
	base    *url.URL
	session *Session
	log     logger.Logger
}

// NewCatalog creates a catalog view over an authenticated flow.
func NewCatalog(f *Flow) *Catalog {
	return &Catalog{
		t:       f.t,
		base:    f.base,
		session: f.session,
		log:     f.log,
	}
}

func (c *Catalog) headers() Headers {
	scheme := "No"
	if c.base.Scheme == "https" {
		scheme = "Yes"
	}
	h := Headers{
		{ACCEPT_KEY, "application/xml, text/xml, */*; q=0.01"},
		{REFERER_KEY, c.base.Scheme + "://" + c.base.Host + STORE_WEB_PATH},
		{XHR_HEADER, "XMLHttpRequest"},
		{USING_HTTPS_HEADER, scheme},
		{CONTENT_TYPE_KEY, "application/x-www-form-urlencoded; charset=UTF-8"},
	}
	if c.session.CSRFToken != "" {
		h.Update(CSRF_HEADER, c.session.CSRFToken)
	}
	return h
}

// ListApplications retrieves the published application set. It requires the
// CatalogAuthenticated state; an unauthenticated caller gets a typed error
// instead of a misleading empty list, and a server-side rejection (stale
// session) is likewise distinguished from zero published apps.
func (c *Catalog) ListApplications() ([]AppResource, error) {
	const step = "resource-list"
	if !c.session.Authenticated {
		return nil, stepErr(step, OutcomeNotAuthenticated, nil)
	}
	resp, err := c.t.Do(http.MethodPost,
		c.base.Scheme+"://"+c.base.Host+RESOURCE_LIST_PATH,
		c.headers(), "format=json&resourceDetails=Default")
	if err != nil {
		return nil, stepErr(step, OutcomeTransportError, err)
	}
	body := string(resp.Body)
	if strings.Contains(body, UNAUTHORIZED_MARKER) {
		c.log.Warning("catalog: resource list rejected, session stale")
		return nil, stepErr(step, OutcomeUnauthorized, nil)
	}
	apps := ExtractApplications(body)
	c.log.Info("catalog: %d application(s) published", len(apps))
	return apps, nil
}
