package browser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sflaunch/sflaunch/pkg/storelib"
)

// Import reads cookies for the given domain from the cookie store at
// sourcePath, detecting its format. SQLite stores are copied to a temporary
// directory first so an open browser holding the database lock does not
// break the import.
func Import(sourcePath, domain string) ([]storelib.Cookie, Format, error) {
	format, err := DetectFormat(sourcePath)
	if err != nil {
		return nil, FormatUnknown, err
	}

	var cookies []storelib.Cookie
	switch format {
	case FormatFirefox:
		cookies, err = importSQLite(sourcePath, domain, ParseFirefox)
	case FormatChrome:
		cookies, err = importSQLite(sourcePath, domain, ParseChrome)
	case FormatNetscape:
		cookies, err = ParseNetscape(sourcePath, domain)
	}
	if err != nil {
		return nil, format, err
	}
	return cookies, format, nil
}

func importSQLite(sourcePath, domain string, parser func(string, string) ([]storelib.Cookie, error)) ([]storelib.Cookie, error) {
	tempDir, err := os.MkdirTemp("", "sflaunch-cookies-*")
	if err != nil {
		return nil, fmt.Errorf("cannot create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	base := filepath.Base(sourcePath)
	if err := copyFile(sourcePath, filepath.Join(tempDir, base)); err != nil {
		return nil, err
	}
	// WAL and SHM companions, best effort: without them a mid-checkpoint
	// database would read stale or fail to open.
	for _, suffix := range []string{"-wal", "-shm"} {
		if _, err := os.Stat(sourcePath + suffix); err == nil {
			_ = copyFile(sourcePath+suffix, filepath.Join(tempDir, base+suffix))
		}
	}
	return parser(filepath.Join(tempDir, base), domain)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("cannot open source file %s: %w", src, err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", dst, err)
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("cannot copy %s: %w", src, err)
	}
	return out.Sync()
}
