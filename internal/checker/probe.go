package checker

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/paraleipsis/proxyprobe/pkg/transport"
)

// Probe routes a single request through a proxy using one protocol.
//
// Attempt never returns an error: every failure is folded into the outcome.
type Probe interface {
	Protocol() Protocol
	Attempt(ctx context.Context, proxyURL *url.URL) ProtocolOutcome
}

// ProbeOptions configures the request sent through each proxy.
type ProbeOptions struct {
	Endpoint       string
	UserAgent      string
	ConnectTimeout time.Duration
	RequestTimeout time.Duration

	// Dump, when set, receives a dump of every probe round-trip.
	Dump io.Writer
}

func (o ProbeOptions) withDefaults() ProbeOptions {
	if o.Endpoint == "" {
		o.Endpoint = endpoint
	}
	if o.UserAgent == "" {
		o.UserAgent = userAgent
	}
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = connectTimeout
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = requestTimeout
	}

	return o
}

type transportProbe struct {
	protocol Protocol
	insecure bool
	opt      ProbeOptions
}

// NewProbe returns the strategy for protocol p. The https strategy skips TLS
// verification because intercepting proxies routinely present self-signed
// certificates.
func NewProbe(p Protocol, opt ProbeOptions) Probe {
	return &transportProbe{
		protocol: p,
		insecure: p == HTTPS,
		opt:      opt.withDefaults(),
	}
}

// DefaultProbes returns the http, https and socks strategies in priority order.
func DefaultProbes(opt ProbeOptions) []Probe {
	return []Probe{
		NewProbe(HTTP, opt),
		NewProbe(HTTPS, opt),
		NewProbe(SOCKS, opt),
	}
}

func (p *transportProbe) Protocol() Protocol {
	return p.protocol
}

func (p *transportProbe) Attempt(ctx context.Context, proxyURL *url.URL) ProtocolOutcome {
	out := ProtocolOutcome{Protocol: p.protocol}

	tr, err := transport.New(proxyURL, transport.Options{
		ConnectTimeout:     p.opt.ConnectTimeout,
		InsecureSkipVerify: p.insecure,
	})
	if err != nil {
		out.Error = err.Error()
		return out
	}
	defer tr.CloseIdleConnections()

	var rt http.RoundTripper = tr
	if p.opt.Dump != nil {
		rt = transport.Dump(tr, p.opt.Dump, false)
	}

	ctx, cancel := context.WithTimeout(ctx, p.opt.RequestTimeout)
	defer cancel()

	client := resty.New().
		SetTransport(rt).
		SetTimeout(p.opt.RequestTimeout).
		SetHeader("User-Agent", p.opt.UserAgent).
		SetHeader("Connection", "close")

	start := time.Now()

	resp, err := client.R().SetContext(ctx).Get(p.opt.Endpoint)
	if err != nil {
		out.Error = err.Error()
		return out
	}

	out.Success = true
	out.LatencyMs = time.Since(start).Milliseconds()
	out.HTTPStatus = resp.StatusCode()
	out.Headers = resp.Header()

	return out
}
