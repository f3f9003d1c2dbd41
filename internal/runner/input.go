package runner

import (
	"errors"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/paraleipsis/proxyprobe/internal/proxymanager"
)

// readProxies loads the list from -f, from stdin when it is piped, or
// from an interactive prompt.
func (r *runner) readProxies() ([]string, error) {
	var (
		proxies []string
		err     error
	)

	switch {
	case r.opt.File != "":
		var f *os.File
		if f, err = os.Open(r.opt.File); err != nil {
			return nil, err
		}
		defer f.Close()

		proxies, err = proxymanager.Parse(f)
	case !isTerminal(r.stdin):
		proxies, err = proxymanager.Parse(r.stdin)
	default:
		proxies, err = prompt()
	}

	if err != nil {
		return nil, err
	}

	if len(proxies) == 0 {
		return nil, errors.New("no proxies to check")
	}

	return proxies, nil
}

func prompt() ([]string, error) {
	var text string

	q := &survey.Multiline{
		Message: "Paste proxies, one per line (ip:port, user:pass@ip:port or scheme://ip:port):",
	}
	if err := survey.AskOne(q, &text, survey.WithValidator(survey.Required)); err != nil {
		return nil, err
	}

	return proxymanager.Parse(strings.NewReader(text))
}
