package cmd

import (
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/sflaunch/sflaunch/pkg/credman"
	"github.com/sflaunch/sflaunch/pkg/credman/keyring"
)

const sessionFileName = "sessions.sfl"

func configDir() (string, error) {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir, os.MkdirAll(dir, 0755)
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, "sflaunch")
	return dir, os.MkdirAll(dir, 0755)
}

// sessionKey resolves the session-store encryption key: environment
// override first, then the OS keyring, then the file fallback for machines
// without a keyring service.
func sessionKey(dir string) ([]byte, error) {
	if keyHex := os.Getenv(SessionKeyEnv); keyHex != "" {
		return hex.DecodeString(keyHex)
	}
	kr := keyring.NewKeyring()
	if key, err := kr.GetKey(); err == nil {
		return key, nil
	}
	if key, err := kr.SetKey(); err == nil {
		return key, nil
	}
	fks := keyring.NewFileKeyStore(dir)
	if key, err := fks.GetKey(); err == nil {
		return key, nil
	}
	return fks.SetKey()
}

// openSessionStore opens the persisted-session store. Any failure here only
// costs persistence, never the run; callers treat a nil store as "no
// persistence available".
func openSessionStore() (*credman.SessionStore, error) {
	dir, err := configDir()
	if err != nil {
		return nil, err
	}
	key, err := sessionKey(dir)
	if err != nil {
		return nil, err
	}
	return credman.NewSessionStore(filepath.Join(dir, sessionFileName), key)
}
