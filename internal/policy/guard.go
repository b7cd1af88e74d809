// Package policy enforces fetch permission and pacing for one source.
package policy

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/time/rate"
)

const maxRobotsBodyBytes = 512 * 1024

// Guard gates every fetch an adapter makes: a robots permission check and a
// blocking inter-request delay. One Guard per source.
type Guard struct {
	source    string
	userAgent string
	robots    *robotstxt.RobotsData // nil means permission checking is off or degraded
	limiter   *rate.Limiter
}

// New builds a Guard for a source. When checkRobots is set, the source's
// robots.txt is fetched and parsed once, here; any failure degrades to
// always-allow with a logged warning. Availability over strict compliance.
func New(source, baseURL, userAgent string, delay time.Duration, checkRobots bool, hc *http.Client) *Guard {
	g := &Guard{
		source:    source,
		userAgent: userAgent,
		limiter:   rate.NewLimiter(rate.Every(delay), 1),
	}
	if !checkRobots {
		return g
	}

	robotsURL, err := robotsURLFor(baseURL)
	if err != nil {
		log.Printf("[policy:%s] bad base url %q: %v (permission checks disabled)", source, baseURL, err)
		return g
	}

	data, err := fetchRobots(hc, robotsURL, userAgent)
	if err != nil {
		log.Printf("[policy:%s] robots.txt unavailable (%v); allowing all", source, err)
		return g
	}
	g.robots = data
	log.Printf("[policy:%s] loaded %s", source, robotsURL)
	return g
}

// CanFetch reports whether the URL is allowed. With no parsed robots data
// every URL is allowed.
func (g *Guard) CanFetch(raw string) bool {
	if g.robots == nil {
		return true
	}
	u, err := url.Parse(raw)
	if err != nil {
		return true
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return g.robots.TestAgent(path, g.userAgent)
}

// Wait blocks for the source's configured inter-request delay.
func (g *Guard) Wait(ctx context.Context) error {
	return g.limiter.Wait(ctx)
}

func robotsURLFor(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	scheme := u.Scheme
	if scheme == "" {
		scheme = "https"
	}
	return scheme + "://" + u.Host + "/robots.txt", nil
}

func fetchRobots(hc *http.Client, robotsURL, userAgent string) (*robotstxt.RobotsData, error) {
	req, err := http.NewRequest(http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	res, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxRobotsBodyBytes))
	if err != nil {
		return nil, err
	}
	return robotstxt.FromStatusAndBytes(res.StatusCode, body)
}
