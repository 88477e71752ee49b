package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/GeoAziz/cyberfeast/internal/logging"
	"github.com/GeoAziz/cyberfeast/internal/metrics"
	"github.com/GeoAziz/cyberfeast/internal/payment"
	"github.com/GeoAziz/cyberfeast/internal/webhook"
)

const (
	maxWebhookBody  = 64 << 10
	signatureHeader = "Stripe-Signature"
)

type WebhookProcessor interface {
	Process(ctx context.Context, payload []byte, signature string) (webhook.Result, error)
}

type WebhookHandler struct {
	processor WebhookProcessor
}

func NewWebhookHandler(processor WebhookProcessor) *WebhookHandler {
	return &WebhookHandler{processor: processor}
}

// POST /api/stripe/webhook
//
// 200 acknowledges (including ignored events and duplicates), 400 rejects a
// delivery for good, 500 asks the provider to redeliver.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		metrics.WebhookEvents.WithLabelValues(metrics.OutcomeRejected).Inc()
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "webhook body too large")
			return
		}
		respondError(w, http.StatusBadRequest, "invalid_request", "could not read body")
		return
	}

	res, err := h.processor.Process(r.Context(), payload, r.Header.Get(signatureHeader))
	switch {
	case errors.Is(err, payment.ErrInvalidSignature):
		metrics.WebhookEvents.WithLabelValues(metrics.OutcomeRejected).Inc()
		log.Warn().Err(err).Msg("webhook signature rejected")
		respondError(w, http.StatusBadRequest, "invalid_signature", "webhook signature verification failed")
		return
	case errors.Is(err, webhook.ErrMalformedPayload):
		metrics.WebhookEvents.WithLabelValues(metrics.OutcomeRejected).Inc()
		log.Warn().Err(err).Str("event_type", res.EventType).Msg("webhook payload rejected")
		respondError(w, http.StatusBadRequest, "malformed_event", err.Error())
		return
	case errors.Is(err, webhook.ErrInProgress):
		metrics.WebhookEvents.WithLabelValues(metrics.OutcomeInProgress).Inc()
		log.Info().Msg("webhook delivery deferred, session in progress")
		respondError(w, http.StatusInternalServerError, "in_progress", "delivery is being processed, retry later")
		return
	case errors.Is(err, payment.ErrWebhookNotConfigured):
		metrics.WebhookEvents.WithLabelValues(metrics.OutcomeFailed).Inc()
		log.Error().Err(err).Msg("webhook received but not configured")
		respondError(w, http.StatusInternalServerError, "not_configured", "webhook secret is not configured")
		return
	case err != nil:
		metrics.WebhookEvents.WithLabelValues(metrics.OutcomeFailed).Inc()
		log.Error().Err(err).Str("event_type", res.EventType).Msg("webhook processing failed")
		respondError(w, http.StatusInternalServerError, "processing_failed", "webhook processing failed")
		return
	}

	metrics.WebhookEvents.WithLabelValues(string(res.Outcome)).Inc()
	log.Info().
		Str("event_type", res.EventType).
		Str("outcome", string(res.Outcome)).
		Str("order_id", res.OrderID).
		Msg("webhook processed")
	w.WriteHeader(http.StatusOK)
}
