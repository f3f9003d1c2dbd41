package checker

import (
	"context"

	"github.com/projectdiscovery/gologger"
	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
)

// TestAll checks every proxy and returns one result per input, in input order.
//
// Proxies are processed in windows of the configured size: all members of a
// window run concurrently and the next window starts only once every member
// has settled, so at most WindowSize proxies are in flight at any time.
// The only error is ErrNoProxies for an empty list; per-proxy failures are
// reported in the results.
func (c *Checker) TestAll(ctx context.Context, proxies []string) ([]ProxyResult, error) {
	if len(proxies) == 0 {
		return nil, ErrNoProxies
	}

	results := make([]ProxyResult, len(proxies))

	for start := 0; start < len(proxies); start += c.window {
		end := min(start+c.window, len(proxies))

		if err := ctx.Err(); err != nil {
			for i := start; i < len(proxies); i++ {
				results[i] = failedResult(proxies[i], err.Error())
			}
			break
		}

		p := pool.New().WithMaxGoroutines(end - start)
		for i := start; i < end; i++ {
			p.Go(func() {
				results[i] = c.testIsolated(ctx, proxies[i])
			})
		}
		p.Wait()

		if c.progress != nil {
			c.progress(end, len(proxies))
		}
	}

	working := 0
	for _, r := range results {
		if r.Working() {
			working++
		}
	}
	gologger.Debug().Msgf("results: %d/%d working proxies", working, len(proxies))

	return results, nil
}

// testIsolated is the batch level safety net around Test.
func (c *Checker) testIsolated(ctx context.Context, raw string) (res ProxyResult) {
	var pc panics.Catcher
	pc.Try(func() { res = c.Test(ctx, raw) })

	if r := pc.Recovered(); r != nil {
		return failedResult(raw, recoveredMessage(r))
	}

	return res
}
