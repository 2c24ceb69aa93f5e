package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/memorymatch/go/internal/models"
)

// WebSocketHandler serves the game socket and its HTTP side endpoints
type WebSocketHandler struct {
	connectionManager *ConnectionManager
	difficulties      models.DifficultyTable
}

func NewWebSocketHandler(cm *ConnectionManager, difficulties models.DifficultyTable) *WebSocketHandler {
	return &WebSocketHandler{
		connectionManager: cm,
		difficulties:      difficulties,
	}
}

// LevelInfo describes one difficulty for clients building a level picker
type LevelInfo struct {
	Level         models.Level `json:"level"`
	Pairs         int          `json:"pairs"`
	Cards         int          `json:"cards"`
	TimeBudgetSec int          `json:"time_budget_sec"`
}

// HandleGameConnection upgrades the request and gives it a new game session
func (h *WebSocketHandler) HandleGameConnection(w http.ResponseWriter, r *http.Request) {
	// Upgrade has already replied to the client on failure.
	if _, err := h.connectionManager.UpgradeConnection(w, r); err != nil {
		log.Error().Err(err).Str("remote_addr", r.RemoteAddr).Msg("failed to open game connection")
	}
}

// HandleConnectionStats returns statistics about active connections
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.connectionManager.GetConnectionStats())
}

// HandleLevels lists the difficulty levels, easiest first
func (h *WebSocketHandler) HandleLevels(w http.ResponseWriter, r *http.Request) {
	profiles := h.difficulties.Profiles()
	levels := make([]LevelInfo, 0, len(profiles))
	for _, p := range profiles {
		levels = append(levels, LevelInfo{
			Level:         p.Level,
			Pairs:         p.Pairs,
			Cards:         2 * p.Pairs,
			TimeBudgetSec: p.TimeBudgetSeconds(),
		})
	}
	writeJSON(w, levels)
}

// RegisterRoutes registers WebSocket routes with an HTTP mux
func (h *WebSocketHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws/game", h.HandleGameConnection)
	mux.HandleFunc("GET /ws/stats", h.HandleConnectionStats)
	mux.HandleFunc("GET /api/levels", h.HandleLevels)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write JSON response")
	}
}
