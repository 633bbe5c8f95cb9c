package http

import (
	"regexp"
	"strings"
)

// CurlFields is what a browser "copy as cURL" export tells us.
type CurlFields struct {
	Provider   string `json:"provider,omitempty"`
	EmployeeID string `json:"employee_id,omitempty"`
	Credential string `json:"credential,omitempty"`
}

var (
	headerRe     = regexp.MustCompile(`(?:-H|--header)\s+(?:'([^']*)'|"([^"]*)")`)
	cookieFlagRe = regexp.MustCompile(`(?:-b|--cookie)\s+(?:'([^']*)'|"([^"]*)")`)
	employeeIDRe = regexp.MustCompile(`\\?"employeeId\\?"\s*:\s*\\?"?(\d+)`)
	employeeURL  = regexp.MustCompile(`/employees/([^/?\s'"]+)`)
)

// ParseCurl extracts the session cookie (Factorial) or bearer token
// (Sesame) and the employee id from a pasted curl command.
func ParseCurl(text string) CurlFields {
	var fields CurlFields

	for _, m := range headerRe.FindAllStringSubmatch(text, -1) {
		name, value, ok := strings.Cut(firstNonEmpty(m[1], m[2]), ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "cookie":
			fields.Provider = "factorial"
			fields.Credential = value
		case "authorization":
			if token, ok := strings.CutPrefix(value, "Bearer "); ok && fields.Credential == "" {
				fields.Provider = "sesame"
				fields.Credential = strings.TrimSpace(token)
			}
		}
	}
	if fields.Credential == "" {
		if m := cookieFlagRe.FindStringSubmatch(text); m != nil {
			fields.Provider = "factorial"
			fields.Credential = strings.TrimSpace(firstNonEmpty(m[1], m[2]))
		}
	}

	if m := employeeIDRe.FindStringSubmatch(text); m != nil {
		fields.EmployeeID = m[1]
	} else if m := employeeURL.FindStringSubmatch(text); m != nil {
		fields.EmployeeID = m[1]
	}
	return fields
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
