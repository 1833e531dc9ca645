package storelib

import (
	"crypto/rand"
	"net/url"
	"strings"
)

const (
	// DEF_USER_AGENT is the fixed browser identification string attached to
	// every request. The gateway serves a reduced flow to unknown clients,
	// so this must look like a mainstream desktop browser.
	DEF_USER_AGENT = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0.0.0 Safari/537.36"

	// DEF_AUTH_METHOD is the authentication method the flow selects from the
	// discovered method set. Configurable via FlowOpts.
	DEF_AUTH_METHOD = "CitrixAGBasic"
)

// Well-known cookie names observed by the flow.
const (
	GATEWAY_SESSION_COOKIE = "NSC_AAAC"
	CATALOG_SESSION_COOKIE = "CtxsAuthId"
	CSRF_COOKIE            = "CsrfToken"

	CLIENT_DETECTION_COOKIE = "CtxsClientDetectionDone"
	UPGRADE_SHOWN_COOKIE    = "CtxsHasUpgradeBeenShown"
	DEVICE_ID_COOKIE        = "CtxsDeviceId"
)

// Fixed endpoint paths relative to the gateway URL.
const (
	GATEWAY_LOGIN_PATH = "/cgi/login"
	SET_CLIENT_PATH    = "/cgi/setClient?wica"
	STORE_WEB_PATH     = "/Citrix/StoreWeb/"
	CONFIGURATION_PATH = "/Citrix/StoreWeb/Home/Configuration"
	RESOURCE_LIST_PATH = "/Citrix/StoreWeb/Resources/List"
	AUTH_METHODS_PATH  = "Authentication/GetAuthMethods"
	GATEWAY_AUTH_PATH  = "GatewayAuth/Login"
)

// Header names that are part of the protocol contract.
const (
	CSRF_HEADER         = "Csrf-Token"
	XHR_HEADER          = "X-Requested-With"
	USING_HTTPS_HEADER  = "X-Citrix-IsUsingHTTPS"
	AUTHENTICATE_HEADER = "CitrixWebReceiver-Authenticate"
	UNAUTHORIZED_MARKER = "unauthorized"
)

const deviceIDDigits = 10

// GenerateDeviceID returns a fresh synthetic device identifier in the form
// the web client generates ("WR_" followed by ten random digits).
func GenerateDeviceID() string {
	var sb strings.Builder
	sb.WriteString("WR_")
	buf := make([]byte, deviceIDDigits)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails on a broken platform; a constant id still
		// satisfies the protocol, which never validates it server side.
		return "WR_0000000000"
	}
	for _, b := range buf {
		sb.WriteByte('0' + b%10)
	}
	return sb.String()
}

// resolveRef resolves a server-supplied (possibly relative) reference against
// the store web root. Discovered URLs like "Authentication/GetAuthMethods"
// are relative to /Citrix/StoreWeb/.
func resolveRef(base *url.URL, ref string) string {
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	store := *base
	store.Path = STORE_WEB_PATH
	return store.ResolveReference(r).String()
}
