package runner

import (
	"context"
	"time"

	"github.com/paraleipsis/proxyprobe/internal/checker"
	"github.com/paraleipsis/proxyprobe/internal/monitor"
	"github.com/paraleipsis/proxyprobe/internal/proxymanager"
	"github.com/projectdiscovery/gologger"
)

func (r *runner) watch(ctx context.Context) error {
	pm, err := proxymanager.New(r.opt.File)
	if err != nil {
		return err
	}

	printer, err := r.newPrinter()
	if err != nil {
		return err
	}

	var notifier monitor.Notifier
	if r.opt.TgAlert {
		tg, err := monitor.NewTelegramAlerter()
		if err != nil {
			return err
		}
		notifier = tg
	}

	c, release, err := r.newChecker(nil)
	if err != nil {
		return err
	}
	defer release()

	w, err := pm.Watch()
	if err != nil {
		return err
	}
	go pm.WatchFile(ctx, w, func(proxies []string) {
		gologger.Info().Msgf("Loaded %d proxies from %s", len(proxies), pm.Filepath())
	})

	gologger.Info().Msgf("Monitoring %d proxies (%s)", len(pm.Proxies()), r.opt.Watch)

	m := monitor.New(c, pm, r.opt.Watch, notifier, func(results []checker.ProxyResult, took time.Duration) {
		r.report(printer, results, took)
	})

	return m.Run(ctx)
}
