package checker

import (
	"context"
	"fmt"
	"strings"

	"github.com/projectdiscovery/gologger"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
)

// Options configures a Checker.
type Options struct {
	ProbeOptions

	// WindowSize is the number of proxies tested concurrently.
	WindowSize int

	// Progress, when set, is called after each window with the number of
	// proxies done so far.
	Progress func(done, total int)
}

// Checker tests proxies against an ordered list of protocol strategies.
// It keeps no state between calls.
type Checker struct {
	probes   []Probe
	locator  Locator
	window   int
	progress func(done, total int)
}

// New returns a Checker using the http, https and socks strategies.
// A nil locator disables geolocation.
func New(opt Options, locator Locator) *Checker {
	c := NewWithProbes(DefaultProbes(opt.ProbeOptions), locator, opt.WindowSize)
	c.progress = opt.Progress

	return c
}

// NewWithProbes returns a Checker using probes in the given priority order.
func NewWithProbes(probes []Probe, locator Locator, window int) *Checker {
	if window <= 0 {
		window = windowSize
	}

	return &Checker{
		probes:  probes,
		locator: locator,
		window:  window,
	}
}

// Test checks a single proxy string.
//
// Every strategy runs concurrently and all are awaited, so TestedProtocols
// always holds the full picture. The winner is picked by strategy order, not
// by which attempt answered first. A panic anywhere in the pipeline yields a
// Not Working result carrying the panic message.
func (c *Checker) Test(ctx context.Context, raw string) ProxyResult {
	res := newResult(raw)

	var pc panics.Catcher
	pc.Try(func() { c.test(ctx, &res) })

	if r := pc.Recovered(); r != nil {
		gologger.Debug().Str("proxy", raw).Msgf("recovered: %s", recoveredMessage(r))
		return failedResult(raw, recoveredMessage(r))
	}

	return res
}

func (c *Checker) test(ctx context.Context, res *ProxyResult) {
	ep, err := ParseEndpoint(res.Proxy)
	if err != nil {
		gologger.Debug().Str("proxy", res.Proxy).Msgf("%s", err)
		res.Error = InvalidFormatMessage
		return
	}

	res.Host, res.Port = ep.Host, ep.Port
	res.TestedProtocols = c.attemptAll(ctx, ep)

	winner := selectWinner(res.TestedProtocols)
	if winner == nil {
		res.Error = joinErrors(res.TestedProtocols)
		gologger.Debug().Str("proxy", res.Proxy).Msgf("not working: %s", res.Error)
		return
	}

	latency, status := winner.LatencyMs, winner.HTTPStatus

	res.Status = Working
	res.ProxyType = string(winner.Protocol)
	res.LatencyMs = &latency
	res.HTTPStatus = &status
	res.Anonymity = ClassifyAnonymity(winner.Headers)

	if c.locator != nil {
		res.Geo = c.locate(ctx, ep.Host)
		res.Location = res.Geo.String()
	}

	gologger.Debug().Str("proxy", res.Proxy).Msgf("working over %s in %dms (%s)", res.ProxyType, latency, res.Anonymity)
}

// attemptAll runs every strategy concurrently. Outcomes are stored by
// strategy index, so their order is independent of completion order.
func (c *Checker) attemptAll(ctx context.Context, ep Endpoint) []ProtocolOutcome {
	outcomes := make([]ProtocolOutcome, len(c.probes))

	var wg conc.WaitGroup
	for i, p := range c.probes {
		wg.Go(func() {
			outcomes[i] = p.Attempt(ctx, ep.ProxyURL(p.Protocol()))
		})
	}
	wg.Wait()

	return outcomes
}

// locate never lets an enrichment failure escape: a panicking locator is
// treated like one that found nothing.
func (c *Checker) locate(ctx context.Context, host string) (geo *GeoLocation) {
	var pc panics.Catcher
	pc.Try(func() { geo = c.locator.Locate(ctx, host) })

	if r := pc.Recovered(); r != nil {
		gologger.Debug().Str("host", host).Msgf("geolocation recovered: %s", recoveredMessage(r))
		return nil
	}

	return geo
}

// recoveredMessage unwraps panics re-raised by conc wait groups and pools.
func recoveredMessage(r *panics.Recovered) string {
	for {
		inner, ok := r.Value.(*panics.Recovered)
		if !ok {
			break
		}
		r = inner
	}

	if err, ok := r.Value.(error); ok {
		return err.Error()
	}

	return fmt.Sprint(r.Value)
}

func selectWinner(outcomes []ProtocolOutcome) *ProtocolOutcome {
	for i := range outcomes {
		if outcomes[i].Success {
			return &outcomes[i]
		}
	}

	return nil
}

func joinErrors(outcomes []ProtocolOutcome) string {
	msgs := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Error != "" {
			msgs = append(msgs, o.Error)
		}
	}

	return strings.Join(msgs, "; ")
}
