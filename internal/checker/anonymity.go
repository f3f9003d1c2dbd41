package checker

import (
	"net/http"
	"strings"
)

var (
	forwardingHeaders = []string{"X-Forwarded-For", "X-Real-Ip"}
	proxyIDHeaders    = []string{"Via", "X-Proxy-Id"}
)

// ClassifyAnonymity guesses how much a proxy reveals from the headers of the
// response it relayed.
//
// A forwarding header means the client address leaked (transparent), a
// proxy-identifying header means the proxy announced itself (anonymous),
// anything else is elite. Proxies using non-standard headers are reported
// as more anonymous than they are.
func ClassifyAnonymity(h http.Header) Anonymity {
	switch {
	case hasHeader(h, forwardingHeaders...):
		return Transparent
	case hasHeader(h, proxyIDHeaders...):
		return Anonymous
	}

	return Elite
}

// hasHeader reports whether any of names carries a non-empty value. Keys are
// compared case-insensitively since h may not be canonicalized.
func hasHeader(h http.Header, names ...string) bool {
	for key, values := range h {
		if strings.Join(values, "") == "" {
			continue
		}
		for _, name := range names {
			if strings.EqualFold(key, name) {
				return true
			}
		}
	}

	return false
}
