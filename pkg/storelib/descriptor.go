package storelib

import (
	"net/http"
	"strings"
)

// FetchDescriptor retrieves the opaque session-launch descriptor for the
// given launch reference and returns its raw content unmodified. Persisting
// it and starting the native client is the launcher's business.
func (c *Catalog) FetchDescriptor(launchRef string) ([]byte, error) {
	const step = "descriptor-fetch"
	if launchRef == "" {
		return nil, stepErr(step, OutcomeProtocolMismatch, ErrEmptyLaunchRef)
	}
	if !c.session.Authenticated {
		return nil, stepErr(step, OutcomeNotAuthenticated, nil)
	}
	resp, err := c.t.Do(http.MethodPost, resolveRef(c.base, launchRef), c.headers(), "")
	if err != nil {
		return nil, stepErr(step, OutcomeTransportError, err)
	}
	if strings.Contains(string(resp.Body), UNAUTHORIZED_MARKER) {
		return nil, stepErr(step, OutcomeUnauthorized, nil)
	}
	c.log.Info("catalog: descriptor fetched (%d bytes)", len(resp.Body))
	return resp.Body, nil
}
