// Package updater checks GitHub for a newer dreamscope release.
package updater

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mistvale/dreamscope/pkg/version"
)

const releaseURL = "https://api.github.com/repos/mistvale/dreamscope/releases/latest"

type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// CheckForUpdates queries GitHub for the latest release. It returns the
// newer tag and its release page when one exists, empty strings otherwise.
// The short timeout keeps a slow network from delaying startup.
func CheckForUpdates() (string, string, error) {
	client := &http.Client{
		Timeout: 2 * time.Second,
	}
	return checkForUpdates(client, releaseURL)
}

func checkForUpdates(client *http.Client, url string) (string, string, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", "", err
	}
	// GitHub 403s some unauthenticated requests without a UA.
	req.Header.Set("User-Agent", "dreamscope-update-check")

	resp, err := client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Rate and abuse limits are not worth surfacing; skip the check.
		if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
			return "", "", nil
		}
		return "", "", fmt.Errorf("github api returned status: %s", resp.Status)
	}

	var rel Release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return "", "", err
	}

	if compareVersions(rel.TagName, version.Version) > 0 {
		return rel.TagName, rel.HTMLURL, nil
	}
	return "", "", nil
}

// Notice formats the status-bar notice for an available release.
func Notice(tag string) string {
	return fmt.Sprintf("⬆ %s available", tag)
}

// compareVersions compares semver-ish strings with an optional leading 'v'
// and an optional pre-release suffix (v1.2.3-rc1). Pre-release versions sort
// below their release per the SemVer spec. Returns 1 if v1>v2, -1 if v1<v2,
// 0 if equal. Unparseable versions fall back to lexicographic comparison.
func compareVersions(v1, v2 string) int {
	type parsed struct {
		parts      []int
		prerelease bool
		preLabel   string
	}

	parse := func(v string) *parsed {
		v = strings.TrimPrefix(v, "v")
		prerelease := false
		preLabel := ""
		if idx := strings.Index(v, "-"); idx != -1 {
			prerelease = true
			preLabel = v[idx+1:]
			v = v[:idx]
		}
		parts := strings.Split(v, ".")
		res := make([]int, 3)
		for i := 0; i < len(res) && i < len(parts); i++ {
			if n, err := strconv.Atoi(parts[i]); err == nil {
				res[i] = n
			} else {
				return nil
			}
		}
		return &parsed{parts: res, prerelease: prerelease, preLabel: preLabel}
	}

	p1 := parse(v1)
	p2 := parse(v2)

	if p1 != nil && p2 != nil {
		for i := 0; i < 3; i++ {
			if p1.parts[i] > p2.parts[i] {
				return 1
			}
			if p1.parts[i] < p2.parts[i] {
				return -1
			}
		}
		if p1.prerelease || p2.prerelease {
			if p1.prerelease && !p2.prerelease {
				return -1
			}
			if !p1.prerelease && p2.prerelease {
				return 1
			}
			if p1.preLabel > p2.preLabel {
				return 1
			}
			if p1.preLabel < p2.preLabel {
				return -1
			}
		}
		return 0
	}

	v1 = strings.TrimPrefix(v1, "v")
	v2 = strings.TrimPrefix(v2, "v")
	if v1 > v2 {
		return 1
	} else if v1 < v2 {
		return -1
	}
	return 0
}
