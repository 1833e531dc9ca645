package browser

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sflaunch/sflaunch/pkg/storelib"
)

// chromeEpochOffsetSeconds is the number of seconds between the Windows NT
// epoch (1601-01-01) and the Unix epoch (1970-01-01). Chrome stores cookie
// expiry as microseconds since the former.
const chromeEpochOffsetSeconds int64 = 11_644_473_600

func chromeToUnix(chromeUSec int64) int64 {
	return (chromeUSec / 1_000_000) - chromeEpochOffsetSeconds
}

// ParseChrome reads cookies for the given domain from a Chromium-family
// Cookies SQLite file. Only unencrypted cookies (value != '') are returned;
// encrypted ones are skipped. dbPath must point to a copied, not in-use,
// database.
func ParseChrome(dbPath, domain string) ([]storelib.Cookie, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?immutable=1", dbPath))
	if err != nil {
		return nil, fmt.Errorf("cannot open Chrome cookie database: %w", err)
	}
	defer db.Close()

	nowChrome := (time.Now().Unix() + chromeEpochOffsetSeconds) * 1_000_000
	rows, err := db.Query(`
        SELECT name, value, host_key, path, expires_utc, is_secure, is_httponly
        FROM cookies
        WHERE (host_key = ? OR host_key = ? OR host_key LIKE ?)
          AND value != ''
          AND expires_utc > ?
        ORDER BY path DESC, name ASC
    `, domain, "."+domain, "%."+domain, nowChrome)
	if err != nil {
		return nil, fmt.Errorf("failed to query Chrome cookies: %w", err)
	}
	defer rows.Close()

	var cookies []storelib.Cookie
	for rows.Next() {
		var (
			name, value, hostKey, path string
			expiresUTC                 int64
			isSecure, isHttpOnly       int
		)
		if err := rows.Scan(&name, &value, &hostKey, &path, &expiresUTC, &isSecure, &isHttpOnly); err != nil {
			return nil, fmt.Errorf("failed to scan Chrome cookie row: %w", err)
		}
		cookies = append(cookies, storelib.Cookie{
			Name:     name,
			Value:    value,
			Domain:   trimDot(hostKey),
			Path:     path,
			Expires:  time.Unix(chromeToUnix(expiresUTC), 0),
			Secure:   isSecure != 0,
			HttpOnly: isHttpOnly != 0,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate Chrome cookie rows: %w", err)
	}
	return cookies, nil
}

func trimDot(host string) string {
	if len(host) > 0 && host[0] == '.' {
		return host[1:]
	}
	return host
}
