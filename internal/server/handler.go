package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/paraleipsis/proxyprobe/common"
	"github.com/paraleipsis/proxyprobe/internal/checker"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type testRequest struct {
	Proxies json.RawMessage `json:"proxies"`
}

// testHandler handles POST /api/proxies/test.
func (s *Server) testHandler(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		s.reply(w, req, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
		return
	}

	proxies, ok := decodeProxies(http.MaxBytesReader(w, req.Body, maxBodyBytes))
	if !ok {
		s.reply(w, req, http.StatusBadRequest, errorResponse{Error: "Proxies must be an array"})
		return
	}

	if len(proxies) == 0 {
		s.reply(w, req, http.StatusBadRequest, errorResponse{Error: "A non-empty array of proxies is required"})
		return
	}

	results, err := s.tester.TestAll(req.Context(), proxies)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, checker.ErrNoProxies) {
			status = http.StatusBadRequest
		}

		s.log.Errorf("[%s] %s %s %s %s", requestID(req), req.RemoteAddr, req.Method, req.URL, err.Error())
		s.reply(w, req, status, errorResponse{Error: "Proxy test failed", Details: err.Error()})
		return
	}

	s.log.Infof("[%s] %s tested %d proxies", requestID(req), req.RemoteAddr, len(results))
	s.reply(w, req, http.StatusOK, results)
}

// decodeProxies accepts any JSON array. Elements that are not strings are
// kept as their JSON text, so they fail parsing individually instead of
// rejecting the whole request.
func decodeProxies(body io.Reader) ([]string, bool) {
	var tr testRequest
	if err := json.NewDecoder(body).Decode(&tr); err != nil {
		return nil, false
	}

	var raw []json.RawMessage
	if len(tr.Proxies) == 0 || tr.Proxies[0] != '[' || json.Unmarshal(tr.Proxies, &raw) != nil {
		return nil, false
	}

	proxies := make([]string, len(raw))
	for i, r := range raw {
		if err := json.Unmarshal(r, &proxies[i]); err != nil {
			proxies[i] = string(r)
		}
	}

	return proxies, true
}

func (s *Server) healthHandler(w http.ResponseWriter, req *http.Request) {
	s.reply(w, req, http.StatusOK, map[string]string{"status": "ok", "version": common.Version})
}

func (s *Server) notFound(w http.ResponseWriter, req *http.Request) {
	s.reply(w, req, http.StatusNotFound, errorResponse{Error: "Not found"})
}

func (s *Server) reply(w http.ResponseWriter, req *http.Request, status int, v any) {
	if common.Version != "" {
		w.Header().Add("X-Proxyprobe-Version", common.Version)
	}

	if err := writeJSON(w, status, v); err != nil {
		s.log.Errorf("[%s] %s %s %s %s", requestID(req), req.RemoteAddr, req.Method, req.URL, err.Error())
	}
}
