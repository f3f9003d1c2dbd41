package proxymanager

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// ProxyManager holds the ordered proxy list loaded from a file.
type ProxyManager struct {
	mu       sync.RWMutex
	filepath string
	proxies  []string
}

// New loads the proxy list from filename.
func New(filename string) (*ProxyManager, error) {
	p := &ProxyManager{filepath: filename}
	if err := p.Reload(); err != nil {
		return nil, err
	}

	return p, nil
}

// Parse reads one proxy per line. Blank lines and lines starting with
// '#' are skipped; duplicates and ordering are kept.
func Parse(r io.Reader) ([]string, error) {
	proxies := []string{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		proxies = append(proxies, line)
	}

	return proxies, scanner.Err()
}

// Proxies returns a copy of the current list.
func (p *ProxyManager) Proxies() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return append([]string(nil), p.proxies...)
}

// Filepath returns the watched file.
func (p *ProxyManager) Filepath() string {
	return p.filepath
}

// Reload re-reads the proxy file. The previous list is kept on error.
func (p *ProxyManager) Reload() error {
	file, err := os.Open(p.filepath)
	if err != nil {
		return err
	}
	defer file.Close()

	proxies, err := Parse(file)
	if err != nil {
		return fmt.Errorf("read %s: %w", p.filepath, err)
	}

	if len(proxies) < 1 {
		return fmt.Errorf("open %s: has no proxies", p.filepath)
	}

	p.mu.Lock()
	p.proxies = proxies
	p.mu.Unlock()

	return nil
}
