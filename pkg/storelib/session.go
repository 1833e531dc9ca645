package storelib

// Session is the mutable state threaded through one flow run. The flow owns
// and mutates it; catalog and descriptor operations only read it.
//
// LoggedIn and Authenticated are monotonic latches: once a transition has
// been reached it is never reset within a run. The CSRF token follows a
// store-once policy, set after the first authenticated-zone call and reused
// verbatim for every call after that.
type Session struct {
	DeviceID      string
	CSRFToken     string
	LoggedIn      bool
	Authenticated bool
}

// NewSession creates a session with a freshly generated device identifier.
// The device id is immutable for the lifetime of the session.
func NewSession() *Session {
	return &Session{
		DeviceID: GenerateDeviceID(),
	}
}

// StoreCSRF records the CSRF token if none has been stored yet and reports
// whether the session now holds a token at all.
func (s *Session) StoreCSRF(token string) bool {
	if s.CSRFToken == "" {
		s.CSRFToken = token
	}
	return s.CSRFToken != ""
}
