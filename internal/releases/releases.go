// Package releases discovers published ERPNext versions and derives the
// matching framework branch labels.
package releases

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/erpstack/erpstack/internal/errors"
)

const (
	// DefaultVersion is the pinned known-good release used when discovery
	// is unavailable.
	DefaultVersion = "v16.7.3"

	defaultBaseURL = "https://api.github.com"
	tagsPath       = "/repos/frappe/erpnext/tags"
	perPage        = 100

	// minMajor is the oldest release line the stack still supports.
	minMajor = 14
)

var stableTagRe = regexp.MustCompile(`^v(\d+)\.(\d+)\.(\d+)$`)

// Client fetches release tags from the GitHub API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a release discovery client.
func NewClient() *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type tag struct {
	Name string `json:"name"`
}

// FetchVersions returns the stable release tags, newest first. Only
// canonical v<major>.<minor>.<patch> tags of supported majors are included.
func (c *Client) FetchVersions(ctx context.Context) ([]string, error) {
	var versions []string

	for page := 1; ; page++ {
		tags, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, errors.NewReleaseFetchError(err)
		}
		if len(tags) == 0 {
			break
		}

		for _, t := range tags {
			m := stableTagRe.FindStringSubmatch(t.Name)
			if m == nil {
				continue
			}
			if major, _ := strconv.Atoi(m[1]); major >= minMajor {
				versions = append(versions, t.Name)
			}
		}

		if len(tags) < perPage {
			break
		}
	}

	sort.Slice(versions, func(i, j int) bool {
		return versionLess(versions[j], versions[i])
	})
	return versions, nil
}

func (c *Client) fetchPage(ctx context.Context, page int) ([]tag, error) {
	url := fmt.Sprintf("%s%s?per_page=%d&page=%d", c.BaseURL, tagsPath, perPage, page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tags request returned status %d", resp.StatusCode)
	}

	var tags []tag
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// versionLess orders canonical tags by numeric (major, minor, patch).
func versionLess(a, b string) bool {
	am := stableTagRe.FindStringSubmatch(a)
	bm := stableTagRe.FindStringSubmatch(b)
	if am == nil || bm == nil {
		return a < b
	}
	for i := 1; i <= 3; i++ {
		an, _ := strconv.Atoi(am[i])
		bn, _ := strconv.Atoi(bm[i])
		if an != bn {
			return an < bn
		}
	}
	return false
}
