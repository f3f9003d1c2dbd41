package proxymanager

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-test/deep"
)

func writeList(t *testing.T, path, body string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestParse(t *testing.T) {
	in := "# comment\n1.2.3.4:80\n\n  socks5://5.6.7.8:1080  \n1.2.3.4:80\nbogus\n"

	got, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := []string{"1.2.3.4:80", "socks5://5.6.7.8:1080", "1.2.3.4:80", "bogus"}
	if diff := deep.Equal(got, want); diff != nil {
		t.Fatal(diff)
	}
}

func TestNew(t *testing.T) {
	dir := t.TempDir()

	if _, err := New(filepath.Join(dir, "missing.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}

	empty := filepath.Join(dir, "empty.txt")
	writeList(t, empty, "# nothing here\n\n")
	if _, err := New(empty); err == nil || !strings.Contains(err.Error(), "has no proxies") {
		t.Fatalf("err = %v", err)
	}

	list := filepath.Join(dir, "list.txt")
	writeList(t, list, "1.2.3.4:80\n")
	p, err := New(list)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got := p.Proxies()
	got[0] = "mutated"
	if p.Proxies()[0] != "1.2.3.4:80" {
		t.Fatal("Proxies must return a copy")
	}
}

func TestReload_KeepsListOnError(t *testing.T) {
	list := filepath.Join(t.TempDir(), "list.txt")
	writeList(t, list, "1.2.3.4:80\n")

	p, err := New(list)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	writeList(t, list, "\n")
	if err := p.Reload(); err == nil {
		t.Fatal("expected error for empty list")
	}
	if diff := deep.Equal(p.Proxies(), []string{"1.2.3.4:80"}); diff != nil {
		t.Fatal(diff)
	}
}

func TestWatchFile(t *testing.T) {
	list := filepath.Join(t.TempDir(), "list.txt")
	writeList(t, list, "1.2.3.4:80\n")

	p, err := New(list)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	w, err := p.Watch()
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan []string, 4)
	go p.WatchFile(ctx, w, func(proxies []string) { reloaded <- proxies })

	writeList(t, list, "5.6.7.8:3128\n9.9.9.9:80\n")

	select {
	case got := <-reloaded:
		if diff := deep.Equal(got, []string{"5.6.7.8:3128", "9.9.9.9:80"}); diff != nil {
			t.Fatal(diff)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("file change was not picked up")
	}
}
