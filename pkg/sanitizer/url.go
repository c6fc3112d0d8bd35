package sanitizer

import (
	"net/url"
	"strings"
)

// NormalizePortfolioURL returns link as an https URL with a lowercase host,
// no "www." prefix, no trailing slash and no utm_* tracking parameters. Path
// case is kept. Links without a host yield "".
func NormalizePortfolioURL(link string) string {
	s := strings.TrimSpace(link)
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}

	u.Scheme = "https"
	u.Host = strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.Fragment = ""

	q := u.Query()
	for key := range q {
		if strings.HasPrefix(strings.ToLower(key), "utm_") {
			q.Del(key)
		}
	}
	u.RawQuery = q.Encode()

	return u.String()
}
