package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func withRelease(t *testing.T, status int, body string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/vnd.github+json" {
			t.Errorf("unexpected Accept header %q", r.Header.Get("Accept"))
		}
		if !strings.HasPrefix(r.Header.Get("User-Agent"), "caniuse-cli/") {
			t.Errorf("unexpected User-Agent %q", r.Header.Get("User-Agent"))
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	old := releaseURL
	releaseURL = srv.URL
	t.Cleanup(func() { releaseURL = old })
}

func TestReleaseURLUsesRepo(t *testing.T) {
	if !strings.Contains(releaseURL, "/repos/matheuskafuri/caniuse/releases/latest") {
		t.Errorf("releaseURL = %q", releaseURL)
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		current string
		want    string
	}{
		{"newer release", http.StatusOK, `{"tag_name":"v1.2.0"}`, "v1.1.0", "1.2.0"},
		{"newer minor beats longer patch", http.StatusOK, `{"tag_name":"v1.10.0"}`, "1.9.12", "1.10.0"},
		{"same version", http.StatusOK, `{"tag_name":"v1.1.0"}`, "1.1.0", ""},
		{"older release", http.StatusOK, `{"tag_name":"v1.0.0"}`, "1.1.0", ""},
		{"dev build", http.StatusOK, `{"tag_name":"v0.3.0"}`, "dev", "0.3.0"},
		{"prerelease ignored", http.StatusOK, `{"tag_name":"v2.0.0-rc1","prerelease":true}`, "1.1.0", ""},
		{"empty tag", http.StatusOK, `{"tag_name":""}`, "1.1.0", ""},
		{"bad json", http.StatusOK, `nope`, "1.1.0", ""},
		{"not found", http.StatusNotFound, `{}`, "1.1.0", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withRelease(t, tt.status, tt.body)
			r := Check(context.Background(), tt.current)
			got := ""
			if r != nil {
				got = r.LatestVersion
			}
			if got != tt.want {
				t.Errorf("Check(%q) = %q, want %q", tt.current, got, tt.want)
			}
		})
	}
}

func TestNewer(t *testing.T) {
	tests := []struct {
		latest, current string
		want            bool
	}{
		{"1.2.0", "1.1.9", true},
		{"1.2", "1.2.0", false},
		{"1.2.1", "1.2", true},
		{"2.0.0", "10.0.0", false},
		{"0.1.0", "dev", true},
		{"nightly", "dev", false},
	}
	for _, tt := range tests {
		if got := newer(tt.latest, tt.current); got != tt.want {
			t.Errorf("newer(%q, %q) = %v, want %v", tt.latest, tt.current, got, tt.want)
		}
	}
}
