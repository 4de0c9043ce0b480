package browser

import (
	"errors"
	"strings"
	"testing"
)

func stubLaunch(t *testing.T, err error) *[]string {
	t.Helper()
	var calls []string
	old := launch
	launch = func(name string, args ...string) error {
		calls = append(calls, name+" "+strings.Join(args, " "))
		return err
	}
	t.Cleanup(func() { launch = old })
	return &calls
}

func TestOpenRejectsNonHTTP(t *testing.T) {
	calls := stubLaunch(t, nil)

	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://developer.mozilla.org/docs/Web/API/WebSocketStream", false},
		{"http://example.com", false},
		{"file:///etc/passwd", true},
		{"javascript:alert(1)", true},
		{"ftp://example.com", true},
		{"https://", true},
		{"", true},
	}

	for _, tt := range tests {
		err := Open(tt.url)
		if tt.wantErr && err == nil {
			t.Errorf("Open(%q): expected error, got nil", tt.url)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("Open(%q): unexpected error: %v", tt.url, err)
		}
	}
	if len(*calls) != 2 {
		t.Errorf("expected 2 launches for the valid URLs, got %v", *calls)
	}
}

func TestOpenLaunchFailure(t *testing.T) {
	stubLaunch(t, errors.New("no display"))
	if err := Open("https://example.com"); err == nil || !strings.Contains(err.Error(), "no display") {
		t.Errorf("expected launch error to surface, got %v", err)
	}
}

func TestCommand(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{"darwin", "open https://x.dev"},
		{"linux", "xdg-open https://x.dev"},
		{"freebsd", "xdg-open https://x.dev"},
		{"windows", "rundll32 url.dll,FileProtocolHandler https://x.dev"},
	}
	for _, tt := range tests {
		name, args := command(tt.goos, "https://x.dev")
		if got := name + " " + strings.Join(args, " "); got != tt.want {
			t.Errorf("command(%q) = %q, want %q", tt.goos, got, tt.want)
		}
	}
}
