package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCurl(t *testing.T) {
	tests := []struct {
		name string
		curl string
		want CurlFields
	}{
		{
			name: "factorial graphql request",
			curl: `curl 'https://api.factorialhr.com/graphql?CreateAttendanceShift' \
  -H 'accept: */*' \
  -H 'content-type: application/json' \
  -H 'cookie: _factorial_session_v2=abc123; _ga=GA1.1' \
  --data-raw '{"operationName":"CreateAttendanceShift","variables":{"employeeId":1234,"date":"2025-03-04"}}'`,
			want: CurlFields{Provider: "factorial", EmployeeID: "1234", Credential: "_factorial_session_v2=abc123; _ga=GA1.1"},
		},
		{
			name: "windows escaped body",
			curl: `curl "https://api.factorialhr.com/graphql" -H "Cookie: sid=xyz" --data-raw "{\"variables\":{\"employeeId\":\"77\"}}"`,
			want: CurlFields{Provider: "factorial", EmployeeID: "77", Credential: "sid=xyz"},
		},
		{
			name: "sesame bearer token",
			curl: `curl 'https://back-eu1.sesametime.com/api/v3/employees/9f1c-22/daily-stats?from=2025-05-01' -H 'Authorization: Bearer tok-123'`,
			want: CurlFields{Provider: "sesame", EmployeeID: "9f1c-22", Credential: "tok-123"},
		},
		{
			name: "cookie flag",
			curl: `curl https://api.factorialhr.com/graphql -b 'sid=1'`,
			want: CurlFields{Provider: "factorial", Credential: "sid=1"},
		},
		{
			name: "nothing useful",
			curl: `curl https://example.com`,
			want: CurlFields{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCurl(tt.curl))
		})
	}
}
