// Package version holds the engine version and the release update check.
package version

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Version is the engine version, also used for the default User-Agent.
const Version = "0.1.0"

const (
	releasesURL  = "https://api.github.com/repos/studiowebux/restengine/releases/latest"
	checkTimeout = 5 * time.Second
)

type release struct {
	TagName string `json:"tag_name"`
	Name    string `json:"name"`
	HTMLURL string `json:"html_url"`
}

// CheckForUpdate reports whether a newer release than the running version
// is published, along with the latest version and its release page URL.
func CheckForUpdate() (available bool, latest string, url string, err error) {
	client := &http.Client{Timeout: checkTimeout}

	req, err := http.NewRequest("GET", releasesURL, nil)
	if err != nil {
		return false, "", "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "restengine/"+Version)

	resp, err := client.Do(req)
	if err != nil {
		return false, "", "", fmt.Errorf("failed to fetch latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, "", "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var rel release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return false, "", "", fmt.Errorf("failed to decode response: %w", err)
	}

	latest = strings.TrimPrefix(rel.TagName, "v")
	current := strings.TrimPrefix(Version, "v")

	if latest != "" && isNewer(latest, current) {
		return true, latest, rel.HTMLURL, nil
	}
	return false, latest, rel.HTMLURL, nil
}

// isNewer compares two semantic versions numerically. Pre-release and
// build metadata suffixes are ignored.
func isNewer(latest, current string) bool {
	lp := parseVersion(latest)
	cp := parseVersion(current)

	maxLen := len(lp)
	if len(cp) > maxLen {
		maxLen = len(cp)
	}
	for len(lp) < maxLen {
		lp = append(lp, 0)
	}
	for len(cp) < maxLen {
		cp = append(cp, 0)
	}

	for i := 0; i < maxLen; i++ {
		if lp[i] > cp[i] {
			return true
		}
		if lp[i] < cp[i] {
			return false
		}
	}
	return false
}

func parseVersion(v string) []int {
	if idx := strings.IndexAny(v, "-+"); idx != -1 {
		v = v[:idx]
	}

	parts := strings.Split(v, ".")
	result := make([]int, 0, len(parts))
	for _, part := range parts {
		num, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		result = append(result, num)
	}
	return result
}
