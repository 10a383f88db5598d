package network

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rmoncayo/stellarforge/server/internal/engine"
	"github.com/rmoncayo/stellarforge/server/internal/platform/logger"
)

// APIServer exposes the engine's commands and read models over HTTP for
// clients that do not hold a WebSocket connection (curl, dashboards,
// the autoplayer in HTTP mode).
type APIServer struct {
	engine *engine.Engine
	logger *logger.Logger
}

func NewAPIServer(eng *engine.Engine, log *logger.Logger) *APIServer {
	return &APIServer{engine: eng, logger: log}
}

// commandRequest is the body shared by every purchase-style endpoint.
type commandRequest struct {
	ID string `json:"id"`
}

// RegisterRoutes mounts all REST endpoints on the given mux.
func (s *APIServer) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/state", s.corsMiddleware(s.handleState))
	mux.HandleFunc("/api/catalog", s.corsMiddleware(s.handleCatalog))

	mux.HandleFunc("/api/generators/buy", s.corsMiddleware(s.commandHandler("BUY_GENERATOR", s.engine.PurchaseGenerator)))
	mux.HandleFunc("/api/upgrades/buy", s.corsMiddleware(s.commandHandler("BUY_UPGRADE", s.engine.PurchaseUpgrade)))
	mux.HandleFunc("/api/research/buy", s.corsMiddleware(s.commandHandler("BUY_RESEARCH", s.engine.PurchaseResearch)))
	mux.HandleFunc("/api/ships/build", s.corsMiddleware(s.commandHandler("BUILD_SHIP", s.engine.BuildShip)))
	mux.HandleFunc("/api/missions/start", s.corsMiddleware(s.commandHandler("START_MISSION", s.engine.StartMission)))
	mux.HandleFunc("/api/colonies/establish", s.corsMiddleware(s.commandHandler("COLONIZE", s.engine.Colonize)))
	mux.HandleFunc("/api/settings/notation", s.corsMiddleware(s.commandHandler("SET_NOTATION", s.engine.SetNotation)))

	mux.HandleFunc("/api/ascend", s.corsMiddleware(s.handleAscend))
	mux.HandleFunc("/api/save", s.corsMiddleware(s.handleSave))
}

// commandHandler adapts an engine command taking a catalog id into an
// HTTP handler with uniform error mapping.
func (s *APIServer) commandHandler(action string, cmd func(string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			jsonError(w, http.StatusMethodNotAllowed, "method_not_allowed", "POST required")
			return
		}
		var req commandRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
			return
		}
		if req.ID == "" {
			jsonError(w, http.StatusBadRequest, "bad_request", "id is required")
			return
		}
		if err := cmd(req.ID); err != nil {
			reason := rejectionReason(err)
			s.logger.Warn("Rejected " + action + " " + req.ID + ": " + reason)
			jsonError(w, statusForReason(reason), reason, err.Error())
			return
		}
		jsonSuccess(w, map[string]interface{}{
			"action": action,
			"id":     req.ID,
			"state":  s.engine.Snapshot(),
		})
	}
}

func (s *APIServer) handleAscend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, http.StatusMethodNotAllowed, "method_not_allowed", "POST required")
		return
	}
	if err := s.engine.Ascend(); err != nil {
		reason := rejectionReason(err)
		jsonError(w, statusForReason(reason), reason, err.Error())
		return
	}
	jsonSuccess(w, map[string]interface{}{
		"action": "ASCEND",
		"state":  s.engine.Snapshot(),
	})
}

func (s *APIServer) handleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, http.StatusMethodNotAllowed, "method_not_allowed", "POST required")
		return
	}
	if err := s.engine.Save(); err != nil {
		jsonError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	jsonSuccess(w, map[string]string{"action": "SAVE"})
}

func (s *APIServer) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, http.StatusMethodNotAllowed, "method_not_allowed", "GET required")
		return
	}
	jsonSuccess(w, s.engine.Snapshot())
}

func (s *APIServer) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, http.StatusMethodNotAllowed, "method_not_allowed", "GET required")
		return
	}
	cat := s.engine.Catalog()
	jsonSuccess(w, map[string]interface{}{
		"generators": cat.Generators,
		"upgrades":   cat.Upgrades,
		"research":   cat.Research,
		"ships":      cat.Ships,
		"missions":   cat.Missions,
		"colonies":   cat.Colonies,
	})
}

// statusForReason maps wire rejection codes onto HTTP status codes.
// Command rejections are business outcomes, not server faults.
func statusForReason(reason string) int {
	switch reason {
	case "unknown_id":
		return http.StatusNotFound
	case "internal_error":
		return http.StatusInternalServerError
	default:
		return http.StatusConflict
	}
}

func (s *APIServer) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}

func jsonSuccess(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"ok":        true,
		"timestamp": time.Now().Unix(),
		"data":      payload,
	})
}

func jsonError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"ok":      false,
		"code":    code,
		"message": message,
	})
}
