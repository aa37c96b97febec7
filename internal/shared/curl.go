// Utilities for importing a browser session from a cURL command.
//
// The MovieNite backend sets its session cookie during a browser login, so
// the quickest way to authenticate the CLI is "Copy as cURL" from DevTools
// on any authenticated request and feed it to `nite auth import`.
package shared

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// SessionCookieName is the cookie the backend issues on login.
const SessionCookieName = "session_token"

// CurlSession represents the cookie string parsed from a cURL command.
type CurlSession struct {
	Cookie string
}

// ParseCurlFile reads a .sh file containing a cURL command and extracts the cookie.
func ParseCurlFile(filepath string) (*CurlSession, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}

	return ParseCurlCommand(content)
}

// ParseCurlCommand parses a cURL command string and extracts the cookie from
// either a -b flag or a Cookie header.
func ParseCurlCommand(data []byte) (*CurlSession, error) {
	curlCmd := string(data)
	curlCmd = strings.ReplaceAll(curlCmd, "\\\n", " ")
	curlCmd = strings.ReplaceAll(curlCmd, "\\", "")

	var cookie string

	cookieRegex := regexp.MustCompile(`-b\s+'([^']+)'|-b\s+"([^"]+)"`)
	if m := cookieRegex.FindStringSubmatch(curlCmd); len(m) > 1 {
		if m[1] != "" {
			cookie = m[1]
		} else {
			cookie = m[2]
		}
	}

	if cookie == "" {
		headerRegex := regexp.MustCompile(`-H\s+'([^']+)'|-H\s+"([^"]+)"`)
		for _, match := range headerRegex.FindAllStringSubmatch(curlCmd, -1) {
			headerLine := match[1]
			if headerLine == "" {
				headerLine = match[2]
			}

			if strings.HasPrefix(strings.ToLower(headerLine), "cookie:") {
				parts := strings.SplitN(headerLine, ":", 2)
				if len(parts) == 2 {
					cookie = strings.TrimSpace(parts[1])
				}
				break
			}
		}
	}

	if cookie == "" {
		return nil, fmt.Errorf("no cookie found in curl command")
	}

	return &CurlSession{Cookie: cookie}, nil
}

// SessionToken extracts the MovieNite session token from the cookie string,
// or "" when the cookie does not carry one.
func (c *CurlSession) SessionToken() string {
	for pair := range strings.SplitSeq(c.Cookie, ";") {
		pair = strings.TrimSpace(pair)
		if value, ok := strings.CutPrefix(pair, SessionCookieName+"="); ok {
			return value
		}
	}
	return ""
}
