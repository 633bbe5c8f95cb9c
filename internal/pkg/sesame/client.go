package sesame

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cmlabs-hris/shift-autofill/internal/domain/shift"
	"github.com/cmlabs-hris/shift-autofill/internal/pkg/httpclient"
)

const (
	// Name is the provider identifier.
	Name = "sesame"

	DefaultBaseURL  = "https://back-eu1.sesametime.com"
	DefaultLocation = "Europe/Madrid"

	unknownError = shift.UnknownErrorMessage
)

type Config struct {
	BaseURL string
	// Location whose offset the working day is expressed in. Nil means
	// DefaultLocation, falling back to UTC when the zone database is missing.
	Location *time.Location
	// Timeout of a single request. Zero means no timeout.
	Timeout time.Duration
	// Now is the source of "today" for reconciliation.
	Now func() time.Time
}

// Client submits one work entry per day through Sesame's REST API,
// authenticating with a bearer token. It also implements shift.Reconciler.
type Client struct {
	http    *httpclient.Client
	baseURL string
	loc     *time.Location
	now     func() time.Time
}

func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	loc := cfg.Location
	if loc == nil {
		loc = defaultLocation()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	headers := map[string]string{
		"Accept":     "application/json",
		"User-Agent": httpclient.BrowserUserAgent,
	}

	return &Client{
		http:    httpclient.New(cfg.Timeout, headers),
		baseURL: baseURL,
		loc:     loc,
		now:     now,
	}
}

func defaultLocation() *time.Location {
	loc, err := time.LoadLocation(DefaultLocation)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Client) Name() string {
	return Name
}

// Location returns the zone working days are built in.
func (c *Client) Location() *time.Location {
	return c.loc
}

// CreateWorkEntry posts one work entry.
func (c *Client) CreateWorkEntry(ctx context.Context, entry WorkEntryRequest, token string) (*WorkEntryResponse, error) {
	var resp WorkEntryResponse
	if err := c.http.PostJSON(ctx, c.baseURL+"/api/v3/work-entries", bearer(token), entry, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DailyStats returns the recorded and planned minutes of every day in
// [from, to].
func (c *Client) DailyStats(ctx context.Context, employeeID string, from, to time.Time, token string) ([]DailyStat, error) {
	q := url.Values{}
	q.Set("from", from.Format(shift.DateLayout))
	q.Set("to", to.Format(shift.DateLayout))
	endpoint := c.baseURL + "/api/v3/employees/" + url.PathEscape(employeeID) + "/daily-stats?" + q.Encode()

	var resp dailyStatsResponse
	if err := c.http.GetJSON(ctx, endpoint, bearer(token), &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func bearer(token string) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	return h
}
