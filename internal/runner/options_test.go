package runner

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-test/deep"
	"github.com/paraleipsis/proxyprobe/common"
)

func TestOptions_Defaults(t *testing.T) {
	opt, err := Options([]string{"-f", "list.txt", "-o", "out.txt", "-cc", "us, de,,"}, io.Discard)
	if err != nil {
		t.Fatalf("Options: %v", err)
	}

	want := &common.Options{
		File:           "list.txt",
		Output:         "out.txt",
		Format:         "txt",
		Countries:      []string{"US", "DE"},
		ConnectTimeout: defaultConnectTimeout,
		Timeout:        defaultTimeout,
		Window:         defaultWindow,
	}
	if diff := deep.Equal(opt, want); diff != nil {
		t.Fatal(diff)
	}
}

func TestOptions_ConfigOverlay(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "proxyprobe.yaml")
	body := "checker:\n  timeout: 20s\n  window: 5\n  connect_timeout: 1s\ngeo:\n  disabled: true\n"
	if err := os.WriteFile(cfg, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	// -window is an alias of -w, and a flag given explicitly wins.
	opt, err := Options([]string{"-config", cfg, "-window", "40", "-c", "2s"}, io.Discard)
	if err != nil {
		t.Fatalf("Options: %v", err)
	}

	if opt.Timeout != 20*time.Second || opt.Window != 40 || opt.ConnectTimeout != 2*time.Second || !opt.NoGeo {
		t.Fatalf("opt = %+v", opt)
	}
}

func TestOptions_Invalid(t *testing.T) {
	cases := map[string][]string{
		"unknown flag":        {"-nope"},
		"positional":          {"list.txt"},
		"zero window":         {"-w", "0"},
		"negative timeout":    {"-t", "-1s"},
		"bad format":          {"-o", "out", "-format", "xml"},
		"daemon without a":    {"-d"},
		"service without a":   {"-service", "install"},
		"server and monitor":  {"-a", ":8080", "-watch", "@every 1m", "-f", "x"},
		"watch without file":  {"-watch", "@every 1m"},
		"alert without watch": {"-tg-alert"},
		"verbose and silent":  {"-v", "-s"},
		"missing config":      {"-config", "/nonexistent/proxyprobe.yaml"},
	}

	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Options(args, io.Discard); err == nil {
				t.Fatalf("expected error for %v", args)
			}
		})
	}
}

func TestOptions_VersionSkipsValidation(t *testing.T) {
	opt, err := Options([]string{"-V", "-w", "0"}, io.Discard)
	if err != nil || !opt.Version {
		t.Fatalf("opt = %+v err = %v", opt, err)
	}
}
