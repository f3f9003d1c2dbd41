package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/logrusorgru/aurora"
	"github.com/paraleipsis/proxyprobe/internal/checker"
	"github.com/valyala/fasttemplate"
)

// Options controls what Printer writes.
type Options struct {
	// Template replaces the default status line, e.g. "{{proxy}} {{type}}".
	Template  string
	Countries []string
	Verbose   bool
	NoColor   bool
}

// Printer writes one status line per result.
type Printer struct {
	mu        sync.Mutex
	w         io.Writer
	au        aurora.Aurora
	tpl       *fasttemplate.Template
	countries []string
	verbose   bool
}

// NewPrinter returns an error if opt.Template is malformed.
func NewPrinter(w io.Writer, opt Options) (*Printer, error) {
	p := &Printer{
		w:         w,
		au:        aurora.NewAurora(!opt.NoColor),
		countries: opt.Countries,
		verbose:   opt.Verbose,
	}

	if opt.Template != "" {
		tpl, err := fasttemplate.NewTemplate(opt.Template, "{{", "}}")
		if err != nil {
			return nil, fmt.Errorf("invalid template: %w", err)
		}
		p.tpl = tpl
	}

	return p, nil
}

// Print writes r if it passes the filters. Dead proxies are shown only in
// verbose mode, and a country filter hides everything outside it.
func (p *Printer) Print(r checker.ProxyResult) {
	if len(p.countries) > 0 && !isMatchCC(p.countries, countryCode(r)) {
		return
	}

	if !r.Working() && !p.verbose {
		return
	}

	var line string
	switch {
	case p.tpl != nil:
		line = p.render(r)
	case r.Working():
		line = fmt.Sprintf("[%s] [%s] [%s] [%s] [%s] %s",
			p.au.Green("LIVE"),
			p.au.Magenta(r.ProxyType),
			p.au.Yellow(string(r.Anonymity)),
			p.au.Cyan(latency(r)),
			p.au.Blue(r.Location),
			r.Proxy,
		)
	default:
		line = fmt.Sprintf("[%s] %s %s", p.au.Red("DIED"), r.Proxy, p.au.Gray(12, r.Error))
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.w, line)
}

// PrintAll prints results in order.
func (p *Printer) PrintAll(results []checker.ProxyResult) {
	for _, r := range results {
		p.Print(r)
	}
}

func (p *Printer) render(r checker.ProxyResult) string {
	fields := Fields(r)

	return p.tpl.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
		return w.Write([]byte(fields[strings.TrimSpace(tag)]))
	})
}

// Fields exposes r to output templates.
func Fields(r checker.ProxyResult) map[string]string {
	fields := map[string]string{
		"proxy":     r.Proxy,
		"host":      r.Host,
		"port":      "",
		"status":    string(r.Status),
		"type":      r.ProxyType,
		"latency":   latency(r),
		"anonymity": string(r.Anonymity),
		"location":  r.Location,
		"country":   "",
		"cc":        "",
		"city":      "",
		"http":      "",
		"error":     r.Error,
	}

	if r.Port != 0 {
		fields["port"] = strconv.Itoa(r.Port)
	}
	if r.HTTPStatus != nil {
		fields["http"] = strconv.Itoa(*r.HTTPStatus)
	}
	if r.Geo != nil {
		fields["country"] = r.Geo.Country
		fields["cc"] = r.Geo.CountryCode
		fields["city"] = r.Geo.City
	}

	return fields
}

func latency(r checker.ProxyResult) string {
	if r.LatencyMs == nil {
		return "-"
	}

	return strconv.FormatInt(*r.LatencyMs, 10) + "ms"
}

func countryCode(r checker.ProxyResult) string {
	if r.Geo == nil {
		return ""
	}

	return r.Geo.CountryCode
}

func isMatchCC(cc []string, code string) bool {
	if code == "" {
		return false
	}

	for _, c := range cc {
		if strings.EqualFold(code, strings.TrimSpace(c)) {
			return true
		}
	}

	return false
}
