package storelib

import "testing"

func TestExtractApplications(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []AppResource
	}{
		{
			name: "json resource list",
			body: `{"resources":[` +
				`{"launchurl":"LaunchIca?app=1","name":"Word"},` +
				`{"launchurl":"LaunchIca?app=2","name":"Excel"},` +
				`{"launchurl":"LaunchIca?app=3","name":"Outlook"}]}`,
			want: []AppResource{
				{"Word", "LaunchIca?app=1"},
				{"Excel", "LaunchIca?app=2"},
				{"Outlook", "LaunchIca?app=3"},
			},
		},
		{
			name: "single quoted values",
			body: `launchurl='LaunchIca?app=9' name='Notepad'`,
			want: []AppResource{{"Notepad", "LaunchIca?app=9"}},
		},
		{
			name: "duplicate name keeps first position latest ref",
			body: `"launchurl":"ref-a","name":"Word",` +
				`"launchurl":"ref-b","name":"Excel",` +
				`"launchurl":"ref-c","name":"Word"`,
			want: []AppResource{
				{"Word", "ref-c"},
				{"Excel", "ref-b"},
			},
		},
		{
			name: "unauthorized marker yields nothing",
			body: `unauthorized "launchurl":"ref-a","name":"Word"`,
			want: nil,
		},
		{
			name: "empty body",
			body: "",
			want: nil,
		},
		{
			name: "launchurl without trailing name",
			body: `"launchurl":"ref-a"`,
			want: nil,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractApplications(tc.body)
			if len(got) != len(tc.want) {
				t.Fatalf("got %d apps, want %d: %v", len(got), len(tc.want), got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("app %d: got %+v, want %+v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestAppByName(t *testing.T) {
	apps := []AppResource{
		{"Word", "ref-a"},
		{"Excel", "ref-b"},
	}
	if app, ok := AppByName(apps, "word"); !ok || app.LaunchRef != "ref-a" {
		t.Errorf("got %+v ok=%v", app, ok)
	}
	if _, ok := AppByName(apps, "Outlook"); ok {
		t.Error("unexpected match for absent app")
	}
}

func TestExtractAuthMethods(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []AuthMethod
	}{
		{
			name: "xml method list",
			body: `<methods>` +
				`<method name="CitrixAGBasic" url="GatewayAuth/Login"/>` +
				`<method name="ExplicitForms" url="ExplicitAuth/Login"/>` +
				`</methods>`,
			want: []AuthMethod{
				{"CitrixAGBasic", "GatewayAuth/Login"},
				{"ExplicitForms", "ExplicitAuth/Login"},
			},
		},
		{
			name: "duplicate name keeps latest url",
			body: `<method name="CitrixAGBasic" url="old"/>` +
				`<method name="CitrixAGBasic" url="new"/>`,
			want: []AuthMethod{{"CitrixAGBasic", "new"}},
		},
		{
			name: "no methods",
			body: `<methods></methods>`,
			want: nil,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractAuthMethods(tc.body)
			if len(got) != len(tc.want) {
				t.Fatalf("got %d methods, want %d: %v", len(got), len(tc.want), got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("method %d: got %+v, want %+v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestExtractRedirectTarget(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{
			name:   "quoted location",
			header: `CitrixAGBasic realm="store" location="Authentication/GetAuthMethods"`,
			want:   "Authentication/GetAuthMethods",
		},
		{
			name:   "single quoted location",
			header: `location='Custom/Path'`,
			want:   "Custom/Path",
		},
		{
			name:   "absent location",
			header: `CitrixAGBasic realm="store"`,
			want:   "",
		},
		{
			name:   "empty header",
			header: "",
			want:   "",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractRedirectTarget(tc.header); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestQuotedAfter(t *testing.T) {
	s := `key="first" key='second' bare=value`
	val, next, ok := quotedAfter(s, "key", 0)
	if !ok || val != "first" {
		t.Fatalf("first match: got %q ok=%v", val, ok)
	}
	val, _, ok = quotedAfter(s, "key", next)
	if !ok || val != "second" {
		t.Fatalf("second match: got %q ok=%v", val, ok)
	}
	if _, _, ok = quotedAfter(s, "missing", 0); ok {
		t.Error("expected no match for missing key")
	}
	if _, _, ok = quotedAfter(s, "key", len(s)+1); ok {
		t.Error("expected no match past end of input")
	}
	if _, _, ok = quotedAfter(`key="unterminated`, "key", 0); ok {
		t.Error("expected no match for unterminated quote")
	}
}
