package factorial

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/shift-autofill/internal/domain/shift"
	"github.com/cmlabs-hris/shift-autofill/internal/pkg/httpclient"
)

const (
	// Name is the provider identifier.
	Name = "factorial"

	DefaultBaseURL = "https://api.factorialhr.com"

	// DefaultBreakConfigurationID is the break configuration the web client
	// attaches to every shift.
	DefaultBreakConfigurationID = 3456

	unknownError = shift.UnknownErrorMessage
)

type Config struct {
	BaseURL              string
	BreakConfigurationID int
	// Timeout of a single request. Zero means no timeout.
	Timeout time.Duration
}

// Client submits attendance shifts through Factorial's GraphQL API,
// authenticating with the browser session cookie.
type Client struct {
	http          *httpclient.Client
	baseURL       string
	breakConfigID int
}

func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	breakConfigID := cfg.BreakConfigurationID
	if breakConfigID == 0 {
		breakConfigID = DefaultBreakConfigurationID
	}

	// Accept-Encoding is left to net/http so the body is decompressed.
	headers := map[string]string{
		"Pragma":              "no-cache",
		"Accept":              "*/*",
		"Sec-Fetch-Site":      "same-site",
		"Accept-Language":     "en-US,en;q=0.9",
		"Cache-Control":       "no-cache",
		"Sec-Fetch-Mode":      "cors",
		"Origin":              "https://app.factorialhr.com",
		"User-Agent":          httpclient.BrowserUserAgent,
		"Referer":             "https://app.factorialhr.com/",
		"Sec-Fetch-Dest":      "empty",
		"Priority":            "u=3, i",
		"x-factorial-version": "0b838be1f20fd4e99fe726da2c9fd0a01a8f1258",
		"x-deployment-phase":  "default",
		"x-factorial-origin":  "web",
	}

	return &Client{
		http:          httpclient.New(cfg.Timeout, headers),
		baseURL:       baseURL,
		breakConfigID: breakConfigID,
	}
}

func (c *Client) Name() string {
	return Name
}

// ValidateRequest implements shift.RequestValidator: the API takes an
// integer employee id.
func (c *Client) ValidateRequest(req shift.ScheduleRequest) error {
	if _, err := parseEmployeeID(req.EmployeeID); err != nil {
		return err
	}
	return nil
}

// CreateAttendanceShift sends one CreateAttendanceShift mutation.
func (c *Client) CreateAttendanceShift(ctx context.Context, employeeID int, date, clockIn, clockOut, cookie string) (*CreateAttendanceShiftResponse, error) {
	url := c.baseURL + "/graphql?CreateAttendanceShift=null"

	payload := graphQLRequest{
		OperationName: createAttendanceShiftOperation,
		Variables: createAttendanceShiftVars{
			Date:                             date,
			EmployeeID:                       employeeID,
			ClockIn:                          clockIn,
			ClockOut:                         clockOut,
			ReferenceDate:                    date,
			Source:                           "desktop",
			TimeSettingsBreakConfigurationID: c.breakConfigID,
			Workable:                         true,
		},
		Query: createAttendanceShiftQuery,
	}

	header := http.Header{}
	header.Set("Cookie", cookie)

	var resp CreateAttendanceShiftResponse
	if err := c.http.PostJSON(ctx, url, header, payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func parseEmployeeID(id string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: factorial expects a positive integer, got %q", shift.ErrInvalidEmployeeID, id)
	}
	return n, nil
}
