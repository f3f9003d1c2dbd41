package runner

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
	"github.com/paraleipsis/proxyprobe/internal/checker"
	"github.com/paraleipsis/proxyprobe/internal/output"
	"github.com/projectdiscovery/gologger"
)

func (r *runner) check(ctx context.Context) error {
	proxies, err := r.readProxies()
	if err != nil {
		return err
	}

	printer, err := r.newPrinter()
	if err != nil {
		return err
	}

	sp := r.newSpinner()

	c, release, err := r.newChecker(func(done, total int) {
		if sp != nil {
			sp.Lock()
			sp.Suffix = fmt.Sprintf(" Checking proxies... %d/%d", done, total)
			sp.Unlock()
		}
	})
	if err != nil {
		return err
	}
	defer release()

	gologger.Info().Msgf("Checking %d proxies", len(proxies))

	start := time.Now()
	if sp != nil {
		sp.Start()
	}
	results, err := c.TestAll(ctx, proxies)
	if sp != nil {
		sp.Stop()
	}
	if err != nil {
		return err
	}

	r.report(printer, results, time.Since(start))

	return ctx.Err()
}

// report prints results and the batch summary, and saves them when an
// output file is set.
func (r *runner) report(printer *output.Printer, results []checker.ProxyResult, took time.Duration) {
	printer.PrintAll(results)

	if !r.opt.Silent {
		output.PrintSummary(r.stderr, output.Compute(results, took))
	}

	if r.opt.Output == "" {
		return
	}

	if err := output.WriteFile(r.opt.Output, r.opt.Format, results); err != nil {
		gologger.Error().Msgf("Error! %s", err)
		return
	}

	gologger.Info().Msgf("Results saved to %s", r.opt.Output)
}

func (r *runner) newPrinter() (*output.Printer, error) {
	return output.NewPrinter(r.stdout, output.Options{
		Template:  r.opt.Template,
		Countries: r.opt.Countries,
		Verbose:   r.opt.Verbose,
		NoColor:   r.opt.NoColor || !isTerminal(r.stdout),
	})
}

// newSpinner returns nil unless stderr is an interactive terminal.
func (r *runner) newSpinner() *spinner.Spinner {
	if r.opt.Silent || r.opt.Verbose || !isTerminal(r.stderr) {
		return nil
	}

	return spinner.New(spinner.CharSets[14], 100*time.Millisecond,
		spinner.WithWriter(r.stderr),
		spinner.WithSuffix(" Checking proxies..."),
	)
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
