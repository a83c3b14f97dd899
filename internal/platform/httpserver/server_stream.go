package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// handleStream serves game state snapshots over server-sent events. Each
// frame carries one JSON-encoded snapshot; the current state is sent first so
// observers do not have to wait for the next transition.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if s.stream == nil {
		writeGameError(w, http.StatusServiceUnavailable, "stream_unavailable", "state streaming is not enabled")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeGameError(w, http.StatusInternalServerError, "stream_unsupported", "response writer does not support streaming")
		return
	}

	snapshots, cancel := s.stream.Subscribe(r.Context())
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	if current, err := s.games.Service.ActiveSnapshot(r.Context()); err == nil {
		writeEvent(w, current)
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case snapshot, ok := <-snapshots:
			if !ok {
				return
			}
			writeEvent(w, snapshot)
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
}
