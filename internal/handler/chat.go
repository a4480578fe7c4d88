package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xenking/shop-assistant/internal/domain/user"
)

const maxChatBody = 64 << 10

// Chat answers POST /chat?user_id=<id> with body {"message": "..."}.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	u, err := h.authenticate(r)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "User not authenticated")
			return
		}
		zctx.From(ctx).Error("Resolve user", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	message, err := decodeChatRequest(http.MaxBytesReader(w, r.Body, maxChatBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, span := h.tracer.Start(ctx, "chat.classify", trace.WithAttributes(
		attribute.String("user.name", u.Username),
	))
	res := h.router.Classify(message, u)
	span.SetAttributes(
		attribute.String("chat.intent", string(res.Intent)),
		attribute.Float64("chat.confidence", res.Confidence),
		attribute.Int("chat.products", len(res.Products)),
	)
	span.End()

	h.classifications.Add(ctx, 1, metric.WithAttributes(attribute.String("intent", string(res.Intent))))
	zctx.From(ctx).Debug("Classified message",
		zap.String("user", u.Username),
		zap.String("intent", string(res.Intent)),
		zap.Float64("confidence", res.Confidence),
		zap.Int("products", len(res.Products)),
	)

	writeJSON(w, http.StatusOK, h.encodeChatResponse(res))
}
