package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/DishIs/temp-mail-sub000/internal/app/service/forwarder"
	"github.com/DishIs/temp-mail-sub000/internal/models"
	"github.com/DishIs/temp-mail-sub000/pkg/config"
	"github.com/DishIs/temp-mail-sub000/pkg/types"
)

// Result reports what happened to an authenticated delivery. Warning is set
// when internal processing failed but the provider must still see a 200 to
// avoid a retry storm amplifying a downstream outage.
type Result struct {
	Forwarded bool   `json:"forwarded"`
	Warning   string `json:"warning,omitempty"`
}

// EventLogSink receives audit entries for every delivery. The write is
// fire-and-forget, so the sink must never block the webhook response.
type EventLogSink interface {
	Save(ctx context.Context, entry *models.WebhookEventLog)
}

type Handler struct {
	cfg          *config.Config
	logSvc       EventLogSink
	fwd          forwarder.EventForwarder
	verifier     RemoteVerifier
	paddleLookup TransactionLookup
	Logger       *zap.SugaredLogger
}

func NewHandler(cfg *config.Config, logSvc EventLogSink, fwd forwarder.EventForwarder, verifier RemoteVerifier, lookup TransactionLookup, log *zap.SugaredLogger) *Handler {
	return &Handler{cfg: cfg, logSvc: logSvc, fwd: fwd, verifier: verifier, paddleLookup: lookup, Logger: log}
}

// Handle authenticates, normalizes and forwards one webhook delivery. A
// non-nil error is terminal (ErrBadPayload → 400, ErrVerificationFailed →
// 401); any failure past verification is reported through Result.Warning.
func (h *Handler) Handle(c *gin.Context, provider types.PaymentProvider) (*Result, error) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	var parser EventParser
	switch provider {
	case types.PaymentProviderPayPal:
		if !h.cfg.PayPalVerificationEnabled() {
			h.Logger.Warnw("webhook_verification_skipped", "provider", provider)
		}
		parser, err = GetPayPalEventParser(c.Request.Context(), h.cfg, h.verifier, raw, paypalHeaders{
			AuthAlgo:         c.GetHeader("paypal-auth-algo"),
			CertURL:          c.GetHeader("paypal-cert-url"),
			TransmissionID:   c.GetHeader("paypal-transmission-id"),
			TransmissionSig:  c.GetHeader("paypal-transmission-sig"),
			TransmissionTime: c.GetHeader("paypal-transmission-time"),
		})
	case types.PaymentProviderPaddle:
		if !h.cfg.PaddleVerificationEnabled() {
			h.Logger.Warnw("webhook_verification_skipped", "provider", provider)
		}
		parser, err = GetPaddleEventParser(h.cfg, h.paddleLookup, raw, c.GetHeader("paddle-signature"), time.Now())
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
	if err != nil {
		return nil, err
	}

	traceID := c.GetString("traceID")
	dataBytes, _ := json.Marshal(parser.Data())

	ev, err := parser.Normalize(c.Request.Context())
	if err != nil {
		h.saveLog(c, parser, traceID, dataBytes, nil, models.WebhookEventLogStatusHandleFailed, err.Error())
		return nil, err
	}
	if ev == nil {
		h.Logger.Infow("webhook_event_ignored", "provider", provider, "event_type", parser.EventName())
		h.saveLog(c, parser, traceID, dataBytes, nil, models.WebhookEventLogStatusIgnored, "")
		return &Result{}, nil
	}

	h.saveLog(c, parser, traceID, dataBytes, ev, models.WebhookEventLogStatusReceived, "")

	if err := h.fwd.Forward(c.Request.Context(), ev); err != nil {
		h.Logger.Errorw("webhook_forward_failed",
			"provider", provider, "event_type", ev.EventType, "error", err.Error())
		h.saveLog(c, parser, traceID, dataBytes, ev, models.WebhookEventLogStatusHandleFailed, err.Error())
		return &Result{Warning: "event accepted but not forwarded"}, nil
	}

	h.saveLog(c, parser, traceID, dataBytes, ev, models.WebhookEventLogStatusHandled, "")
	return &Result{Forwarded: true}, nil
}

func (h *Handler) saveLog(c *gin.Context, parser EventParser, traceID string, data []byte, ev *types.SubscriptionEvent, status models.WebhookEventLogStatus, errMsg string) {
	entry := &models.WebhookEventLog{
		Provider:        string(parser.Provider()),
		ProviderEventID: parser.EventID(),
		EventType:       parser.EventName(),
		TraceID:         traceID,
		Payload:         datatypes.JSON(data),
		Status:          status,
	}
	if ev != nil && ev.UserID != "" {
		entry.UserID = lo.ToPtr(ev.UserID)
	}
	if ev != nil || errMsg != "" {
		resMap := map[string]any{}
		if ev != nil {
			resMap["event"] = ev
		}
		if errMsg != "" {
			resMap["error"] = errMsg
		}
		resBytes, _ := json.Marshal(resMap)
		entry.Result = lo.ToPtr(datatypes.JSON(resBytes))
	}
	h.logSvc.Save(c.Request.Context(), entry)
}
