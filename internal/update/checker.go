package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	appErrors "dbdeck/internal/errors"
)

// DefaultReleasesURL serves the latest published dbdeck release.
const DefaultReleasesURL = "https://api.github.com/repos/dbdeck/dbdeck/releases/latest"

// Release is the subset of the releases API dbdeck reads.
type Release struct {
	TagName     string    `json:"tag_name"`
	HTMLURL     string    `json:"html_url"`
	PublishedAt time.Time `json:"published_at"`
}

// Info is the result of a check.
type Info struct {
	Current         Version
	Latest          Version
	UpdateAvailable bool
	ReleaseURL      string
}

// Checker asks the releases API for the newest version.
type Checker struct {
	url        string
	httpClient *http.Client
}

// NewChecker returns a checker for url, or DefaultReleasesURL when empty.
func NewChecker(url string, timeout time.Duration) *Checker {
	if strings.TrimSpace(url) == "" {
		url = DefaultReleasesURL
	}
	return &Checker{url: url, httpClient: &http.Client{Timeout: timeout}}
}

// Check compares current with the latest release. Development builds and
// unparseable versions return (nil, nil).
func (c *Checker) Check(ctx context.Context, current string) (*Info, error) {
	cur, err := ParseVersion(current)
	if err != nil {
		return nil, nil
	}
	release, err := c.latest(ctx)
	if err != nil {
		return nil, err
	}
	latest, err := ParseVersion(release.TagName)
	if err != nil {
		return nil, appErrors.New(appErrors.CodeResponse, fmt.Sprintf("release tag %q is not a version", release.TagName), err)
	}
	return &Info{
		Current:         cur,
		Latest:          latest,
		UpdateAvailable: cur.LessThan(latest),
		ReleaseURL:      release.HTMLURL,
	}, nil
}

func (c *Checker) latest(ctx context.Context) (Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Release{}, appErrors.New(appErrors.CodeHTTP, "build request", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "dbdeck-update-check")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Release{}, appErrors.New(appErrors.CodeHTTP, "release check failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests:
		return Release{}, appErrors.New(appErrors.CodeResponse, "rate limited by the releases API", nil)
	case resp.StatusCode != http.StatusOK:
		return Release{}, appErrors.New(appErrors.CodeResponse, fmt.Sprintf("releases API returned status %d", resp.StatusCode), nil)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return Release{}, appErrors.New(appErrors.CodeResponse, "decode release", err)
	}
	return release, nil
}
