package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/paraleipsis/proxyprobe/internal/checker"
	"github.com/projectdiscovery/gologger"
	"github.com/robfig/cron/v3"
)

// Tester runs a batch of connectivity tests.
type Tester interface {
	TestAll(ctx context.Context, proxies []string) ([]checker.ProxyResult, error)
}

// Source supplies the current proxy list.
type Source interface {
	Proxies() []string
}

// Monitor re-tests a proxy list on a cron schedule.
type Monitor struct {
	tester   Tester
	source   Source
	schedule string
	notifier Notifier
	report   func([]checker.ProxyResult, time.Duration)

	mu   sync.Mutex
	dead map[string]bool
}

// New creates a Monitor. notifier and report may be nil.
func New(tester Tester, source Source, schedule string, notifier Notifier, report func([]checker.ProxyResult, time.Duration)) *Monitor {
	return &Monitor{
		tester:   tester,
		source:   source,
		schedule: schedule,
		notifier: notifier,
		report:   report,
		dead:     map[string]bool{},
	}
}

// Run performs one pass immediately, then one per schedule tick until ctx
// is done. A tick that fires while the previous pass is still running is
// skipped.
func (m *Monitor) Run(ctx context.Context) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	if _, err := c.AddFunc(m.schedule, func() { m.Tick(ctx) }); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", m.schedule, err)
	}

	m.Tick(ctx)

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()

	return nil
}

// Tick tests the current list once. Alerts go out only when the set of
// dead proxies differs from the previous pass.
func (m *Monitor) Tick(ctx context.Context) {
	proxies := m.source.Proxies()
	start := time.Now()

	results, err := m.tester.TestAll(ctx, proxies)
	if err != nil {
		gologger.Error().Msgf("Error! %s", err)
		return
	}

	if m.report != nil {
		m.report(results, time.Since(start))
	}

	if ctx.Err() != nil {
		return
	}

	dead := make([]string, 0)
	seen := map[string]bool{}
	for _, r := range results {
		if !r.Working() && !seen[r.Proxy] {
			seen[r.Proxy] = true
			dead = append(dead, r.Proxy)
		}
	}

	if !m.changed(seen) || m.notifier == nil || len(dead) == 0 {
		return
	}

	if err := m.notifier.Notify(ctx, dead); err != nil {
		gologger.Error().Msgf("Error! %s", err)
	}
}

func (m *Monitor) changed(dead map[string]bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	same := len(dead) == len(m.dead)
	if same {
		for p := range dead {
			if !m.dead[p] {
				same = false
				break
			}
		}
	}

	m.dead = dead

	return !same
}
