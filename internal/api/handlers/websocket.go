package handlers

import (
	"encoding/json"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	ws "github.com/chynybekuuludastan/seo_inspector/internal/api/websocket"
	"github.com/chynybekuuludastan/seo_inspector/internal/models"
	"github.com/chynybekuuludastan/seo_inspector/internal/repository"
)

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	Hub          *ws.Hub
	AnalysisRepo repository.AnalysisRepository
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(hub *ws.Hub, analysisRepo repository.AnalysisRepository) *WebSocketHandler {
	return &WebSocketHandler{
		Hub:          hub,
		AnalysisRepo: analysisRepo,
	}
}

// HandleAnalysisWebSocket handles WebSocket connections for analysis updates
func (h *WebSocketHandler) HandleAnalysisWebSocket(c *websocket.Conn) {
	analysisID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		writeError(c, "Invalid analysis ID format")
		c.Close()
		return
	}

	var analysis models.Analysis
	if err := h.AnalysisRepo.FindByID(analysisID, &analysis); err != nil {
		writeError(c, "Analysis not found")
		c.Close()
		return
	}

	h.Hub.HandleConnection(c, analysisID)
}

func writeError(c *websocket.Conn, message string) {
	errMsg := ws.Message{
		Type: "error",
		Data: map[string]interface{}{
			"message": message,
		},
	}
	msgJSON, _ := json.Marshal(errMsg)
	c.WriteMessage(websocket.TextMessage, msgJSON)
}
