package dimer

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

var schemePrefix = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://`)

// normalizeCname reduces a custom domain to its hostname. The scheme defaults to
// http, the host is lowercased and converted to ASCII, and a leading "www." is
// dropped the same way URL normalizers for docs sites do.
func normalizeCname(cname string) string {
	cname = strings.TrimSpace(cname)
	if cname == "" {
		return ""
	}
	switch {
	case strings.HasPrefix(cname, "//"):
		cname = "http:" + cname
	case !schemePrefix.MatchString(cname):
		cname = "http://" + cname
	}

	parsed, err := url.Parse(cname)
	if err != nil {
		return ""
	}
	host := strings.ToLower(parsed.Hostname())
	if ascii, err := idna.ToASCII(host); err == nil {
		host = ascii
	}
	host = strings.TrimSuffix(host, ".")
	if rest, ok := strings.CutPrefix(host, "www."); ok && strings.Contains(rest, ".") {
		host = rest
	}
	return host
}
