package transport

import (
	"io"
	"net/http"
	"time"

	"github.com/henvic/httpretty"
)

const DefaultConnectTimeout = 3 * time.Second

// Dump wraps rt so every request and response header block is written to w.
func Dump(rt http.RoundTripper, w io.Writer, colors bool) http.RoundTripper {
	logger := &httpretty.Logger{
		Time:           true,
		TLS:            true,
		RequestHeader:  true,
		RequestBody:    false,
		ResponseHeader: true,
		ResponseBody:   false,
		Colors:         colors,
	}
	logger.SetOutput(w)

	return logger.RoundTripper(rt)
}
