package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/paraleipsis/proxyprobe/common"
	"github.com/paraleipsis/proxyprobe/internal/checker"
	"github.com/paraleipsis/proxyprobe/internal/daemon"
	"github.com/paraleipsis/proxyprobe/internal/server"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/levels"
)

type runner struct {
	opt    *common.Options
	stdin  *os.File
	stdout io.Writer
	stderr io.Writer
}

// New to switch an action, whether to check once, monitor a proxy file or
// run the API server.
func New(opt *common.Options) error {
	r := &runner{opt: opt, stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}

	setLogLevel(opt)

	if opt.Version {
		fmt.Fprintf(r.stdout, "%s %s\n", common.App, common.Version)
		return nil
	}

	if opt.CheckUpdate {
		return r.checkUpdate()
	}

	if !opt.Silent {
		gologger.Print().Msgf("%s\n", common.Banner)
	}

	if opt.Address != "" && (opt.Daemon || opt.Service != "") {
		return daemon.New(opt.Service, daemon.Args(os.Args[1:]), r.serve)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case opt.Address != "":
		return r.serve(ctx)
	case opt.Watch != "":
		return r.watch(ctx)
	default:
		return r.check(ctx)
	}
}

func setLogLevel(opt *common.Options) {
	switch {
	case opt.Silent:
		gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
	case opt.Verbose:
		gologger.DefaultLogger.SetMaxLevel(levels.LevelDebug)
	default:
		gologger.DefaultLogger.SetMaxLevel(levels.LevelInfo)
	}
}

// newChecker builds a Checker from the options. The returned func
// releases the GeoIP database, if one was opened.
func (r *runner) newChecker(progress func(done, total int)) (*checker.Checker, func(), error) {
	opt := r.opt
	release := func() {}

	var chain checker.Chain
	if !opt.NoGeo {
		if opt.GeoIPDB != "" {
			db, err := checker.OpenGeoIP(opt.GeoIPDB)
			if err != nil {
				return nil, nil, err
			}
			chain = append(chain, db)
			release = func() { _ = db.Close() }
		}
		chain = append(chain, checker.NewIPAPILocator(opt.GeoAPI, 0))
	}

	var locator checker.Locator
	if len(chain) > 0 {
		locator = chain
	}

	probeOpt := checker.ProbeOptions{
		Endpoint:       opt.Endpoint,
		UserAgent:      opt.UserAgent,
		ConnectTimeout: opt.ConnectTimeout,
		RequestTimeout: opt.Timeout,
	}
	if opt.Verbose {
		probeOpt.Dump = &lockedWriter{w: r.stderr}
	}

	c := checker.New(checker.Options{
		ProbeOptions: probeOpt,
		WindowSize:   opt.Window,
		Progress:     progress,
	}, locator)

	return c, release, nil
}

// lockedWriter serializes dumps written by concurrent probes.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.w.Write(p)
}

func (r *runner) serve(ctx context.Context) error {
	c, release, err := r.newChecker(nil)
	if err != nil {
		return err
	}
	defer release()

	return server.New(r.opt.Address, c, server.NewLogger(r.opt.Verbose)).ListenAndServe(ctx)
}
