package runner

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/paraleipsis/proxyprobe/common"
)

// aliases maps long flag names onto the short name used as the canonical
// key when config file values are overlaid.
var aliases = map[string]string{
	"file":    "f",
	"output":  "o",
	"address": "a",
	"daemon":  "d",
	"c":       "connect-timeout",
	"timeout": "t",
	"window":  "w",
	"verbose": "v",
	"silent":  "s",
	"update":  "U",
	"version": "V",
}

// Options parses command-line arguments (without the program name),
// overlays the config file when one is given and validates the result.
func Options(args []string, stderr io.Writer) (*common.Options, error) {
	opt := &common.Options{}

	var countries string

	fs := flag.NewFlagSet(common.App, flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opt.File, "f", "", "")
	fs.StringVar(&opt.File, "file", "", "")

	fs.StringVar(&opt.Output, "o", "", "")
	fs.StringVar(&opt.Output, "output", "", "")
	fs.StringVar(&opt.Format, "format", "", "")
	fs.StringVar(&opt.Template, "template", "", "")
	fs.StringVar(&countries, "cc", "", "")

	fs.StringVar(&opt.Address, "a", "", "")
	fs.StringVar(&opt.Address, "address", "", "")
	fs.BoolVar(&opt.Daemon, "d", false, "")
	fs.BoolVar(&opt.Daemon, "daemon", false, "")
	fs.StringVar(&opt.Service, "service", "", "")

	fs.StringVar(&opt.Watch, "watch", "", "")
	fs.BoolVar(&opt.TgAlert, "tg-alert", false, "")

	fs.DurationVar(&opt.ConnectTimeout, "c", defaultConnectTimeout, "")
	fs.DurationVar(&opt.ConnectTimeout, "connect-timeout", defaultConnectTimeout, "")
	fs.DurationVar(&opt.Timeout, "t", defaultTimeout, "")
	fs.DurationVar(&opt.Timeout, "timeout", defaultTimeout, "")
	fs.IntVar(&opt.Window, "w", defaultWindow, "")
	fs.IntVar(&opt.Window, "window", defaultWindow, "")
	fs.StringVar(&opt.Endpoint, "endpoint", "", "")
	fs.StringVar(&opt.UserAgent, "user-agent", "", "")

	fs.StringVar(&opt.GeoAPI, "geo-api", "", "")
	fs.StringVar(&opt.GeoIPDB, "geoip", "", "")
	fs.BoolVar(&opt.NoGeo, "no-geo", false, "")

	fs.StringVar(&opt.ConfigFile, "config", "", "")
	fs.BoolVar(&opt.Verbose, "v", false, "")
	fs.BoolVar(&opt.Verbose, "verbose", false, "")
	fs.BoolVar(&opt.Silent, "s", false, "")
	fs.BoolVar(&opt.Silent, "silent", false, "")
	fs.BoolVar(&opt.NoColor, "no-color", false, "")
	fs.BoolVar(&opt.CheckUpdate, "U", false, "")
	fs.BoolVar(&opt.CheckUpdate, "update", false, "")
	fs.BoolVar(&opt.Version, "V", false, "")
	fs.BoolVar(&opt.Version, "version", false, "")

	fs.Usage = func() {
		fmt.Fprint(stderr, common.Banner)
		fmt.Fprint(stderr, usage)
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	explicit := map[string]bool{}
	fs.Visit(func(f *flag.Flag) {
		name := f.Name
		if canonical, ok := aliases[name]; ok {
			name = canonical
		}
		explicit[name] = true
	})

	if opt.ConfigFile != "" {
		cfg, err := common.LoadConfig(opt.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg.Apply(opt, explicit)
	}

	if countries != "" {
		for _, c := range strings.Split(countries, ",") {
			if c = strings.TrimSpace(c); c != "" {
				opt.Countries = append(opt.Countries, strings.ToUpper(c))
			}
		}
	}

	if err := validate(opt); err != nil {
		return nil, err
	}

	return opt, nil
}

func validate(opt *common.Options) error {
	if opt.Version || opt.CheckUpdate {
		return nil
	}

	if opt.Window <= 0 {
		return errors.New("window size must be positive")
	}

	if opt.ConnectTimeout <= 0 || opt.Timeout <= 0 {
		return errors.New("timeouts must be positive")
	}

	if opt.Verbose && opt.Silent {
		return errors.New("cannot use verbose and silent mode together")
	}

	if opt.Output != "" && opt.Format == "" {
		opt.Format = "json"
		if strings.EqualFold(filepath.Ext(opt.Output), ".txt") {
			opt.Format = "txt"
		}
	}

	if opt.Format != "" && opt.Format != "json" && opt.Format != "txt" {
		return fmt.Errorf("unsupported output format %q, use json or txt", opt.Format)
	}

	if (opt.Daemon || opt.Service != "") && opt.Address == "" {
		return errors.New("daemon mode requires a listen address (-a)")
	}

	if opt.Address != "" && opt.Watch != "" {
		return errors.New("cannot run the API server and the monitor together")
	}

	if opt.Watch != "" && opt.File == "" {
		return errors.New("watch mode requires a proxy file (-f)")
	}

	if opt.TgAlert && opt.Watch == "" {
		return errors.New("telegram alerts require watch mode (-watch)")
	}

	return nil
}
