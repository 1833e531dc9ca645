package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// DefaultStorePath resolves a browser name ("chrome", "chromium",
// "firefox") to the default cookie store path for the current platform.
// For Firefox the profile directory is globbed, first profile with a
// cookies.sqlite wins.
func DefaultStorePath(name string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	switch name {
	case "chrome":
		return firstExisting(chromeCandidates(home, "google-chrome", "Google/Chrome", "Google\\Chrome"))
	case "chromium":
		return firstExisting(chromeCandidates(home, "chromium", "Chromium", "Chromium"))
	case "firefox":
		return firefoxCookieDB(home)
	}
	return "", fmt.Errorf("unknown browser %q (expected chrome, chromium or firefox)", name)
}

func chromeCandidates(home, linuxDir, macDir, winDir string) []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{
			filepath.Join(home, "Library/Application Support", macDir, "Default/Cookies"),
		}
	case "windows":
		local := os.Getenv("LOCALAPPDATA")
		return []string{
			filepath.Join(local, winDir, "User Data", "Default", "Network", "Cookies"),
			filepath.Join(local, winDir, "User Data", "Default", "Cookies"),
		}
	default:
		return []string{
			filepath.Join(home, ".config", linuxDir, "Default", "Cookies"),
		}
	}
}

func firefoxCookieDB(home string) (string, error) {
	var profiles string
	switch runtime.GOOS {
	case "darwin":
		profiles = filepath.Join(home, "Library/Application Support/Firefox/Profiles")
	case "windows":
		profiles = filepath.Join(os.Getenv("APPDATA"), "Mozilla", "Firefox", "Profiles")
	default:
		profiles = filepath.Join(home, ".mozilla", "firefox")
	}
	matches, err := filepath.Glob(filepath.Join(profiles, "*", "cookies.sqlite"))
	if err != nil || len(matches) == 0 {
		return "", fmt.Errorf("no Firefox profile with a cookie database found under %s", profiles)
	}
	return matches[0], nil
}

func firstExisting(candidates []string) (string, error) {
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("no cookie database found (looked at %v)", candidates)
}
