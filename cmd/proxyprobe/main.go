package main

import (
	"errors"
	"flag"
	"os"

	"github.com/paraleipsis/proxyprobe/internal/runner"
	"github.com/projectdiscovery/gologger"
)

func main() {
	opt, err := runner.Options(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		gologger.Fatal().Msgf("Error! %s.", err)
	}

	if err := runner.New(opt); err != nil {
		gologger.Fatal().Msgf("Error! %s.", err)
	}
}
