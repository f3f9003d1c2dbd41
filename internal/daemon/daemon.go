package daemon

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kardianos/service"
	"github.com/paraleipsis/proxyprobe/common"
)

const stopTimeout = 10 * time.Second

// RunFunc is the long-running job hosted by the service. It must return
// once ctx is done.
type RunFunc func(ctx context.Context) error

type program struct {
	run    RunFunc
	cancel context.CancelFunc
	done   chan error
}

func (p *program) Start(s service.Service) error {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan error, 1)

	go func() {
		err := p.run(ctx)
		p.done <- err
		if err != nil && ctx.Err() == nil {
			_ = s.Stop()
		}
	}()

	return nil
}

func (p *program) Stop(_ service.Service) error {
	if p.cancel == nil {
		return nil
	}
	p.cancel()

	select {
	case err := <-p.done:
		return err
	case <-time.After(stopTimeout):
		return fmt.Errorf("service did not stop within %s", stopTimeout)
	}
}

// Config describes the installed service. args are passed to the binary
// when the service manager starts it.
func Config(args []string) *service.Config {
	return &service.Config{
		Name:        common.App,
		DisplayName: common.App,
		Description: "Proxy connectivity checker API",
		Arguments:   args,
	}
}

// New runs fn under the OS service manager, or applies action
// (install, uninstall, start, stop, restart) when it is set.
func New(action string, args []string, fn RunFunc) error {
	if action != "" && !isAction(action) {
		return fmt.Errorf("unknown service action %q, valid actions: %v", action, service.ControlAction)
	}

	svc, err := service.New(&program{run: fn}, Config(args))
	if err != nil {
		return err
	}

	if action != "" {
		return service.Control(svc, action)
	}

	return svc.Run()
}

func isAction(action string) bool {
	for _, a := range service.ControlAction {
		if a == action {
			return true
		}
	}

	return false
}

// Args strips the flags that select daemon mode so the installed service
// runs the server in the foreground.
func Args(args []string) []string {
	out := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		name := args[i]
		switch {
		case strings.HasPrefix(name, "-") && isDaemonFlag(strings.TrimLeft(name, "-")):
			continue
		case name == "-service" || name == "--service":
			i++
			continue
		case strings.HasPrefix(name, "-service=") || strings.HasPrefix(name, "--service="):
			continue
		}

		out = append(out, name)
	}

	return out
}

func isDaemonFlag(name string) bool {
	switch name {
	case "d", "d=true", "daemon", "daemon=true":
		return true
	}

	return false
}
