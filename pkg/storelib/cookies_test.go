package storelib

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestJarSetReplaces(t *testing.T) {
	jar := NewJar()
	jar.Set(Cookie{Name: "a", Value: "1", Domain: "gw.example.com"})
	jar.Set(Cookie{Name: "b", Value: "2", Domain: "gw.example.com"})
	jar.Set(Cookie{Name: "a", Value: "3", Domain: "gw.example.com"})
	all := jar.All()
	if len(all) != 2 {
		t.Fatalf("got %d cookies, want 2", len(all))
	}
	// replaced entry moves to the most-recent position
	if all[0].Name != "b" || all[1].Name != "a" || all[1].Value != "3" {
		t.Errorf("unexpected order after replace: %+v", all)
	}
}

func TestJarValueFlattensByName(t *testing.T) {
	jar := NewJar()
	jar.Set(Cookie{Name: "session", Value: "old", Domain: "a.example.com"})
	jar.Set(Cookie{Name: "session", Value: "new", Domain: "b.example.com"})
	if got := jar.Value("session"); got != "new" {
		t.Errorf("Value: got %q, want most recently set %q", got, "new")
	}
	if got := jar.ValueForDomain("session", "a.example.com"); got != "old" {
		t.Errorf("ValueForDomain: got %q, want %q", got, "old")
	}
	if got := jar.Value("absent"); got != "" {
		t.Errorf("Value for absent cookie: got %q, want empty", got)
	}
}

func TestJarHas(t *testing.T) {
	jar := NewJar()
	jar.Set(Cookie{Name: "live", Value: "1"})
	jar.Set(Cookie{Name: "dead", Value: "1", Expires: time.Now().Add(-time.Hour)})
	if !jar.Has("live") {
		t.Error("expected Has to report live cookie")
	}
	if jar.Has("dead") {
		t.Error("expected Has to skip expired cookie")
	}
	if jar.Has("absent") {
		t.Error("expected Has to be false for absent cookie")
	}
}

func TestJarRequestHeader(t *testing.T) {
	jar := NewJar()
	jar.Set(Cookie{Name: "host", Value: "1", Domain: "gw.example.com"})
	jar.Set(Cookie{Name: "parent", Value: "2", Domain: "example.com"})
	jar.Set(Cookie{Name: "other", Value: "3", Domain: "elsewhere.net"})
	jar.Set(Cookie{Name: "scoped", Value: "4", Domain: "gw.example.com", Path: "/Citrix/StoreWeb"})
	jar.Set(Cookie{Name: "gone", Value: "5", Domain: "gw.example.com", Expires: time.Now().Add(-time.Minute)})

	u, _ := url.Parse("https://gw.example.com/Citrix/StoreWeb/Resources/List")
	got := jar.RequestHeader(u)
	for _, want := range []string{"host=1", "parent=2", "scoped=4"} {
		if !strings.Contains(got, want) {
			t.Errorf("header %q missing %q", got, want)
		}
	}
	for _, skip := range []string{"other=", "gone="} {
		if strings.Contains(got, skip) {
			t.Errorf("header %q should not contain %q", got, skip)
		}
	}

	root, _ := url.Parse("https://gw.example.com/cgi/login")
	got = jar.RequestHeader(root)
	if strings.Contains(got, "scoped=") {
		t.Errorf("path-scoped cookie leaked to %q: %q", root.Path, got)
	}
}

func TestJarUpdateFromResponse(t *testing.T) {
	reqURL, _ := url.Parse("https://gw.example.com/cgi/login")
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Add("Set-Cookie", "NSC_AAAC=abc123; path=/; HttpOnly")
	resp.Header.Add("Set-Cookie", "tracked=1; Domain=.example.com; Max-Age=60")
	resp.Header.Add("Set-Cookie", "dropped=1; Max-Age=-1")

	jar := NewJar()
	jar.UpdateFromResponse(resp, reqURL)

	if got := jar.ValueForDomain("NSC_AAAC", "gw.example.com"); got != "abc123" {
		t.Errorf("cookie without domain should default to request host, got %q", got)
	}
	if got := jar.ValueForDomain("tracked", "sub.example.com"); got != "1" {
		t.Errorf("domain cookie should match subdomains, got %q", got)
	}
	if jar.Has("dropped") {
		t.Error("negative Max-Age cookie should be expired")
	}
}

func TestDomainMatch(t *testing.T) {
	tests := []struct {
		domain, host string
		want         bool
	}{
		{"", "anything.example.com", true},
		{"example.com", "example.com", true},
		{"example.com", "gw.example.com", true},
		{"example.com", "notexample.com", false},
		{"gw.example.com", "example.com", false},
	}
	for _, tc := range tests {
		if got := domainMatch(tc.domain, tc.host); got != tc.want {
			t.Errorf("domainMatch(%q, %q) = %v, want %v", tc.domain, tc.host, got, tc.want)
		}
	}
}

func TestPathMatch(t *testing.T) {
	tests := []struct {
		cookiePath, reqPath string
		want                bool
	}{
		{"/", "/cgi/login", true},
		{"", "", true},
		{"/Citrix", "/Citrix/StoreWeb/", true},
		{"/Citrix/", "/Citrix/StoreWeb/", true},
		{"/Citrix", "/Citrix", true},
		{"/Citrix", "/CitrixStoreWeb", false},
		{"/Citrix/StoreWeb", "/cgi/login", false},
	}
	for _, tc := range tests {
		if got := pathMatch(tc.cookiePath, tc.reqPath); got != tc.want {
			t.Errorf("pathMatch(%q, %q) = %v, want %v", tc.cookiePath, tc.reqPath, got, tc.want)
		}
	}
}
