package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// launch starts the platform opener; swapped out in tests.
var launch = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Open shows rawURL in the user's default browser. Only http and https
// URLs are accepted, since feature records come from a remote service.
func Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open URL with scheme %q (only http/https allowed)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("refusing to open URL without host: %q", rawURL)
	}

	name, args := command(runtime.GOOS, u.String())
	if err := launch(name, args...); err != nil {
		return fmt.Errorf("launching %s: %w", name, err)
	}
	return nil
}

func command(goos, target string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{target}
	case "windows":
		// rundll32 avoids cmd /c start and its shell interpretation of & and ^.
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	default:
		return "xdg-open", []string{target}
	}
}
