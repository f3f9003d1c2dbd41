package checker

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// proxyPattern matches an optional "scheme://" prefix followed by host:port.
// It is deliberately unanchored, so trailing paths or garbage are ignored.
var proxyPattern = regexp.MustCompile(`(?:(.*://))?([^:]+):(\d+)`)

// Endpoint is a proxy address decomposed from a user supplied string.
type Endpoint struct {
	Raw  string
	Hint string // declared scheme, empty when the input was bare host:port
	Host string
	Port int
	User *url.Userinfo
}

// ParseEndpoint splits raw into an optional scheme, optional user:pass
// credentials, host and port. Host validity is left to the connection
// attempt; the port is not range checked.
func ParseEndpoint(raw string) (Endpoint, error) {
	line := strings.TrimSpace(raw)

	var user *url.Userinfo
	prefix, rest := "", line
	if i := strings.Index(line, "://"); i >= 0 {
		prefix, rest = line[:i+3], line[i+3:]
	}
	authority := rest
	if i := strings.IndexAny(rest, "/? \t"); i >= 0 {
		authority = rest[:i]
	}
	if i := strings.LastIndex(authority, "@"); i >= 0 {
		user = parseUserinfo(rest[:i])
		rest = rest[i+1:]
	}

	m := proxyPattern.FindStringSubmatch(prefix + rest)
	if m == nil {
		return Endpoint{}, ErrInvalidFormat
	}

	port, err := strconv.Atoi(m[3])
	if err != nil {
		return Endpoint{}, fmt.Errorf("%w: port %q", ErrInvalidFormat, m[3])
	}

	return Endpoint{
		Raw:  raw,
		Hint: strings.ToLower(strings.TrimSuffix(m[1], "://")),
		Host: m[2],
		Port: port,
		User: user,
	}, nil
}

func parseUserinfo(s string) *url.Userinfo {
	if s == "" {
		return nil
	}

	if name, pass, ok := strings.Cut(s, ":"); ok {
		return url.UserPassword(name, pass)
	}

	return url.User(s)
}

// Scheme returns the declared scheme, defaulting to http.
func (e Endpoint) Scheme() string {
	if e.Hint == "" {
		return string(HTTP)
	}

	return e.Hint
}

// Address returns host:port.
func (e Endpoint) Address() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// ProxyURL returns the URL used to reach the endpoint with protocol p.
//
// The socks strategy speaks SOCKS5 unless the input declared socks4,
// socks4a or socks5h explicitly.
func (e Endpoint) ProxyURL(p Protocol) *url.URL {
	scheme := string(p)
	if p == SOCKS {
		scheme = "socks5"
		switch e.Hint {
		case "socks4", "socks4a", "socks5h":
			scheme = e.Hint
		}
	}

	return &url.URL{
		Scheme: scheme,
		User:   e.User,
		Host:   e.Address(),
	}
}
