package runner

import (
	"fmt"

	"github.com/paraleipsis/proxyprobe/common"
	"github.com/tcnksm/go-latest"
)

func (r *runner) checkUpdate() error {
	tag := &latest.GithubTag{
		Owner:      common.Author,
		Repository: common.Repository,
	}

	res, err := latest.Check(tag, common.Version)
	if err != nil {
		return fmt.Errorf("check for updates: %w", err)
	}

	if res.Outdated {
		fmt.Fprintf(r.stdout, "%s %s is available (current %s)\n", common.App, res.Current, common.Version)
		return nil
	}

	fmt.Fprintf(r.stdout, "%s %s is the latest version\n", common.App, common.Version)

	return nil
}
