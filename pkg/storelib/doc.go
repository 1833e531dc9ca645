// Package storelib implements a browser-less login against a remote
// application gateway and the catalog service behind it: a cookie-aware
// HTTP transport, the authentication state machine, targeted response
// extraction, and retrieval of published applications and their
// session-launch descriptors.
//
// Everything is single-threaded by design. One login session = one
// Transport + one Flow; run several sessions with fully separate pairs.
package storelib
