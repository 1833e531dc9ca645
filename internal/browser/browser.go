// Package browser imports cookies from an installed browser's cookie store
// so the transport starts a flow with the same client-detection and session
// cookies a real browser visit would have left behind. Firefox
// (moz_cookies SQLite), Chromium-family (cookies SQLite, unencrypted values
// only) and Netscape cookies.txt formats are supported.
//
// Cookie values are held in memory only; nothing imported here is ever
// persisted or logged.
package browser

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/sflaunch/sflaunch/pkg/storelib"
)

// Format identifies the on-disk format of a cookie store.
type Format int

const (
	FormatUnknown Format = iota
	FormatFirefox
	FormatChrome
	FormatNetscape
)

func (f Format) String() string {
	switch f {
	case FormatFirefox:
		return "firefox"
	case FormatChrome:
		return "chrome"
	case FormatNetscape:
		return "netscape"
	}
	return "unknown"
}

// sqliteMagic is the first 16 bytes of any SQLite database file.
var sqliteMagic = "SQLite format 3\x00"

// DetectFormat determines the cookie store format of the file at path.
func DetectFormat(path string) (Format, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("cookie file not found: %s", path)
	}
	if info.IsDir() || info.Size() == 0 {
		return FormatUnknown, fmt.Errorf("not a usable cookie file: %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("cannot open cookie file: %w", err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, _ := f.Read(head)
	head = head[:n]

	if n >= 16 && string(head[:16]) == sqliteMagic {
		return detectSQLiteFormat(path)
	}

	firstLine := string(head)
	if i := strings.IndexByte(firstLine, '\n'); i >= 0 {
		firstLine = firstLine[:i]
	}
	firstLine = strings.TrimRight(firstLine, "\r")
	if firstLine == "# Netscape HTTP Cookie File" || firstLine == "# HTTP Cookie File" {
		return FormatNetscape, nil
	}
	return FormatUnknown, fmt.Errorf("unsupported cookie store format at %s", path)
}

func detectSQLiteFormat(path string) (Format, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return FormatUnknown, fmt.Errorf("cannot open SQLite database: %w", err)
	}
	defer db.Close()

	var name string
	if err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='moz_cookies'`).Scan(&name); err == nil {
		return FormatFirefox, nil
	}
	if err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='cookies'`).Scan(&name); err == nil {
		return FormatChrome, nil
	}
	return FormatUnknown, fmt.Errorf("unsupported cookie database schema at %s", path)
}

// Seed injects imported cookies into a transport jar.
func Seed(jar *storelib.Jar, cookies []storelib.Cookie) {
	for _, c := range cookies {
		jar.Set(c)
	}
}
