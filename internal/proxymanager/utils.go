package proxymanager

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"github.com/projectdiscovery/gologger"
)

// Watch proxy file from events
func (p *ProxyManager) Watch() (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(p.filepath); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	return watcher, nil
}

// WatchFile reloads the list whenever the file is written, until ctx is
// done. The watcher is closed on return.
func (p *ProxyManager) WatchFile(ctx context.Context, w *fsnotify.Watcher, onReload func([]string)) {
	defer w.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			gologger.Info().Msgf("Proxy file has changed, reloading...")

			if err := p.Reload(); err != nil {
				gologger.Error().Msgf("Error! %s", err)
				continue
			}
			if onReload != nil {
				onReload(p.Proxies())
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			gologger.Error().Msgf("Error! %s", err)
		}
	}
}
