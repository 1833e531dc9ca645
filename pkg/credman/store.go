// Package credman persists authenticated gateway sessions between runs.
// Cookie and token values are encrypted at rest; the key lives in the OS
// keyring (or a permission-restricted file on machines without one).
package credman

import (
	"bytes"
	"encoding/gob"
	"errors"
	"os"
	"time"

	"github.com/sflaunch/sflaunch/pkg/credman/encryption"
)

// DEF_SESSION_TTL is how long a persisted session is considered worth
// restoring. Gateways expire sessions server-side well within this window;
// the TTL only avoids pointless restore attempts.
const DEF_SESSION_TTL = 8 * time.Hour

var (
	ErrSessionNotFound = errors.New("no persisted session for this gateway")
	ErrSessionExpired  = errors.New("persisted session has expired")
)

// SessionRecord is one persisted authenticated session, keyed by gateway
// host. The cookie and token fields are stored encrypted on disk and are
// plaintext only on a record returned by Load or passed to Save.
type SessionRecord struct {
	Host          string
	DeviceID      string
	CSRFToken     string
	GatewayCookie string
	CatalogCookie string
	SavedAt       time.Time
}

// SessionStore is a file-backed map of gateway host → session record.
type SessionStore struct {
	filePath string
	key      []byte
	TTL      time.Duration
	sessions map[string]*SessionRecord
}

// NewSessionStore opens (or creates) the store at filePath with the given
// encryption key.
func NewSessionStore(filePath string, key []byte) (*SessionStore, error) {
	st := &SessionStore{
		filePath: filePath,
		key:      key,
		TTL:      DEF_SESSION_TTL,
		sessions: make(map[string]*SessionRecord),
	}
	if err := st.load(); err != nil {
		return nil, err
	}
	return st, nil
}

func (st *SessionStore) load() error {
	data, err := os.ReadFile(st.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return gob.NewDecoder(bytes.NewReader(data)).Decode(&st.sessions)
}

func (st *SessionStore) flush() error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(st.sessions); err != nil {
		return err
	}
	return os.WriteFile(st.filePath, buf.Bytes(), 0600)
}

func (st *SessionStore) seal(value string) (string, error) {
	sealed, err := encryption.EncryptValue(value, st.key)
	if err != nil {
		return "", err
	}
	return string(sealed), nil
}

func (st *SessionStore) open(value string) (string, error) {
	plain, err := encryption.DecryptValue([]byte(value), st.key)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// Save stores the record, replacing any previous session for its host.
func (st *SessionStore) Save(rec SessionRecord) error {
	var err error
	if rec.CSRFToken, err = st.seal(rec.CSRFToken); err != nil {
		return err
	}
	if rec.GatewayCookie, err = st.seal(rec.GatewayCookie); err != nil {
		return err
	}
	if rec.CatalogCookie, err = st.seal(rec.CatalogCookie); err != nil {
		return err
	}
	rec.SavedAt = time.Now()
	st.sessions[rec.Host] = &rec
	return st.flush()
}

// Load returns the decrypted session for a gateway host. An expired record
// is removed and reported as ErrSessionExpired.
func (st *SessionStore) Load(host string) (*SessionRecord, error) {
	stored, ok := st.sessions[host]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if time.Since(stored.SavedAt) > st.TTL {
		delete(st.sessions, host)
		if err := st.flush(); err != nil {
			return nil, err
		}
		return nil, ErrSessionExpired
	}
	rec := *stored
	var err error
	if rec.CSRFToken, err = st.open(rec.CSRFToken); err != nil {
		return nil, err
	}
	if rec.GatewayCookie, err = st.open(rec.GatewayCookie); err != nil {
		return nil, err
	}
	if rec.CatalogCookie, err = st.open(rec.CatalogCookie); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Delete drops the session for a gateway host, if any.
func (st *SessionStore) Delete(host string) error {
	if _, ok := st.sessions[host]; !ok {
		return nil
	}
	delete(st.sessions, host)
	return st.flush()
}
