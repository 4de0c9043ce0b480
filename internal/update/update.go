package update

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/matheuskafuri/caniuse/internal/caniuse"
)

// releaseURL is a variable so tests can point it at a local server.
var releaseURL = "https://api.github.com/repos/" + caniuse.Repo + "/releases/latest"

type Result struct {
	LatestVersion string
}

type ghRelease struct {
	TagName    string `json:"tag_name"`
	Prerelease bool   `json:"prerelease"`
}

// Check reports the latest GitHub release when it is newer than current.
// Any failure yields nil: the check must never break the version command.
func Check(ctx context.Context, current string) *Result {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, releaseURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", caniuse.UserAgent)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var rel ghRelease
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil || rel.Prerelease {
		return nil
	}

	latest := strings.TrimPrefix(rel.TagName, "v")
	if latest == "" || !newer(latest, strings.TrimPrefix(current, "v")) {
		return nil
	}
	return &Result{LatestVersion: latest}
}

// newer compares dotted numeric versions. A current version without numbers
// (a "dev" build) is older than any release.
func newer(latest, current string) bool {
	l, c := numbers(latest), numbers(current)
	if len(c) == 0 {
		return len(l) > 0
	}
	for i := 0; i < len(l) || i < len(c); i++ {
		var a, b int
		if i < len(l) {
			a = l[i]
		}
		if i < len(c) {
			b = c[i]
		}
		if a != b {
			return a > b
		}
	}
	return false
}

// numbers parses "1.2.3-rc1" as [1 2 3]; parsing stops at the first non-numeric part.
func numbers(v string) []int {
	v, _, _ = strings.Cut(v, "-")
	var out []int
	for _, p := range strings.Split(v, ".") {
		n, err := strconv.Atoi(p)
		if err != nil {
			break
		}
		out = append(out, n)
	}
	return out
}
