package network

import (
	"net/http"
	"strconv"

	"github.com/rmoncayo/stellarforge/server/internal/events"
)

// RegisterReplayRoutes mounts the event-history endpoints. The ledger
// is the source of truth for "what happened"; these endpoints let a
// renderer rebuild a timeline view after reconnecting.
func (s *APIServer) RegisterReplayRoutes(mux *http.ServeMux, eventLog *events.EventLog) {
	mux.HandleFunc("/api/events/recent", s.corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			jsonError(w, http.StatusMethodNotAllowed, "method_not_allowed", "GET required")
			return
		}

		var history []events.GameEvent
		if t := r.URL.Query().Get("type"); t != "" {
			history = eventLog.GetByType(events.EventType(t))
		} else {
			history = eventLog.Replay()
		}

		limit := 100
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				jsonError(w, http.StatusBadRequest, "bad_request", "limit must be a positive integer")
				return
			}
			limit = parsed
		}
		if len(history) > limit {
			history = history[len(history)-limit:]
		}

		jsonSuccess(w, map[string]interface{}{
			"total":  eventLog.Len(),
			"events": history,
		})
	}))
}
