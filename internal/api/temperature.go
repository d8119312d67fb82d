package api

import (
	"net/http"
	"time"

	"github.com/openprobe/thermodec/internal/infrastructure/influxdb"
)

// defaultHistoryWindow is the lookback used when ?since= is absent.
const defaultHistoryWindow = time.Hour

// handleTemperatureHistory returns recorded temperature samples from the
// time-series store.
//
// Query parameters:
//   - register: filter to one register short name (e.g. TEMP); empty matches all
//   - since: lookback window as a Go duration string (e.g. 30m, 24h); default 1h
func (s *Server) handleTemperatureHistory(w http.ResponseWriter, r *http.Request) {
	if s.influx == nil || !s.influx.IsConnected() {
		writeError(w, http.StatusServiceUnavailable, ErrCodeInternal, "time-series store not available")
		return
	}

	since := defaultHistoryWindow
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			writeBadRequest(w, "invalid since duration: "+raw)
			return
		}
		since = parsed
	}

	register := r.URL.Query().Get("register")

	points, err := s.influx.TemperatureHistory(r.Context(), register, since)
	if err != nil {
		s.logger.Error("temperature history query failed", "error", err)
		writeInternalError(w, "temperature history query failed")
		return
	}
	if points == nil {
		points = []influxdb.TemperaturePoint{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"points": points,
		"count":  len(points),
	})
}
