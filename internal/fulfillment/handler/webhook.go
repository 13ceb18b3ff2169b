package handler

import (
	"encoding/json"
	"net/http"

	"tablebot/internal/fulfillment/dialogflow"
	"tablebot/internal/fulfillment/service"
	httputil "tablebot/pkg/http"
	"tablebot/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

const WebhookPath = "/webhook"

type WebhookHandler struct {
	service service.FulfillmentService
	log     *logger.Logger
}

func NewWebhookHandler(service service.FulfillmentService, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		log:     log,
	}
}

// Fulfill answers one Dialogflow webhook call. Business rejections are ordinary 200
// replies; only contract violations and store failures become error statuses.
func (h *WebhookHandler) Fulfill(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req dialogflow.WebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("failed to decode webhook request", "error", err)
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Fulfill", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	resp, err := h.service.Fulfill(r.Context(), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Fulfill", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, resp); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Fulfill", "operation", "WriteJSON", "error", err)
	}
}

func (h *WebhookHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST(WebhookPath, h.Fulfill)
}
