package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/paraleipsis/proxyprobe/internal/checker"
)

// WriteFile writes all results to path in json or txt format.
func WriteFile(path string, format string, results []checker.ProxyResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return Write(f, format, results)
}

// Write encodes results to w.
func Write(w io.Writer, format string, results []checker.ProxyResult) error {
	switch format {
	case "json":
		return writeJSON(w, results)
	case "txt":
		return writeTxt(w, results)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func writeJSON(w io.Writer, results []checker.ProxyResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(results)
}

// writeTxt writes a tab-separated table.
func writeTxt(w io.Writer, results []checker.ProxyResult) error {
	rows := make([]string, 0, len(results)+1)
	rows = append(rows, strings.Join([]string{"Status", "IP", "Port", "Latency", "Location", "Proxy-Type"}, "\t"))

	for _, r := range results {
		port := ""
		if r.Port != 0 {
			port = strconv.Itoa(r.Port)
		}

		lat := "-"
		if r.LatencyMs != nil {
			lat = strconv.FormatInt(*r.LatencyMs, 10)
		}

		rows = append(rows, strings.Join([]string{
			string(r.Status),
			r.Host,
			port,
			lat + " ms",
			r.Location,
			r.ProxyType,
		}, "\t"))
	}

	_, err := io.WriteString(w, strings.Join(rows, "\n")+"\n")

	return err
}
