package controllers

import (
	"context"
	"io"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/pkg/constvars"
	"mentorship-service/internal/pkg/exceptions"
	"mentorship-service/internal/pkg/utils"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type WebhookController struct {
	Log            *zap.Logger
	PaymentUsecase contracts.PaymentUsecase
}

var (
	webhookControllerInstance *WebhookController
	onceWebhookController     sync.Once
)

func NewWebhookController(logger *zap.Logger, paymentUsecase contracts.PaymentUsecase) *WebhookController {
	onceWebhookController.Do(func() {
		instance := &WebhookController{
			Log:            logger,
			PaymentUsecase: paymentUsecase,
		}
		webhookControllerInstance = instance
	})
	return webhookControllerInstance
}

var signatureHeaders = map[models.PaymentProvider]string{
	models.PaymentProviderCard:   constvars.HeaderCardSignature,
	models.PaymentProviderWallet: constvars.HeaderWalletToken,
}

// HandleProviderWebhook answers 2xx for everything except forged or malformed
// callbacks. Processing failures are queued for replay by the usecase, and a non-2xx
// would only make the provider redeliver the same payload.
func (ctrl *WebhookController) HandleProviderWebhook(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID, ok := requestIDFromRequest(ctrl.Log, w, r, "WebhookController.HandleProviderWebhook")
	if !ok {
		return
	}

	provider := models.PaymentProvider(chi.URLParam(r, constvars.URLParamProvider))
	header, known := signatureHeaders[provider]
	if !known {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrUnknownProvider(string(provider)))
		return
	}

	ctrl.Log.Info("WebhookController.HandleProviderWebhook called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProviderKey, string(provider)),
		zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
	)

	payload, ok := r.Context().Value(constvars.CONTEXT_RAW_BODY).([]byte)
	if !ok {
		var err error
		payload, err = io.ReadAll(r.Body)
		if err != nil {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrReadBody(err))
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), usecaseTimeout)
	defer cancel()

	err := ctrl.PaymentUsecase.HandleWebhook(ctx, provider, payload, r.Header.Get(header))
	if err != nil {
		kind := exceptions.KindOf(err)
		ctrl.Log.Error("WebhookController.HandleProviderWebhook error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingProviderKey, string(provider)),
			zap.String("kind", string(kind)),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
			zap.Error(err),
		)
		if kind == exceptions.KindUnauthorized || kind == exceptions.KindValidation {
			utils.BuildErrorResponse(ctrl.Log, w, err)
			return
		}
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.WebhookReceivedMessage, nil)
}
