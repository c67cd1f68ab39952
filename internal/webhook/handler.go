// ABOUTME: HTTP handler for the webhook endpoint
// ABOUTME: Verifies the delivery signature before any event is processed

package webhook

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// Handler is the http.Handler for POST /webhook.
type Handler struct {
	processor     *Processor
	channelSecret string
	logger        *slog.Logger
}

// NewHandler creates the webhook endpoint handler.
func NewHandler(processor *Processor, channelSecret string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		processor:     processor,
		channelSecret: channelSecret,
		logger:        logger.With("component", "webhook"),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "reading body", http.StatusBadRequest)
		return
	}

	if !ValidateSignature(h.channelSecret, body, r.Header.Get("X-Line-Signature")) {
		h.logger.Warn("invalid webhook signature", "remote", r.RemoteAddr)
		http.Error(w, "invalid signature", http.StatusForbidden)
		return
	}

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		http.Error(w, "malformed payload", http.StatusBadRequest)
		return
	}

	deliveryID := uuid.NewString()
	h.logger.Info("webhook delivery received",
		"delivery_id", deliveryID,
		"events", len(payload.Events))

	if err := h.processor.ProcessBatch(r.Context(), payload.Events); err != nil {
		h.logger.Error("webhook delivery failed",
			"delivery_id", deliveryID,
			"error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Healthz answers liveness probes.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
