package controllers

import (
	"context"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/pkg/constvars"
	"mentorship-service/internal/pkg/dto/requests"
	"mentorship-service/internal/pkg/exceptions"
	"mentorship-service/internal/pkg/utils"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type PaymentController struct {
	Log            *zap.Logger
	PaymentUsecase contracts.PaymentUsecase
}

var (
	paymentControllerInstance *PaymentController
	oncePaymentController     sync.Once
)

func NewPaymentController(logger *zap.Logger, paymentUsecase contracts.PaymentUsecase) *PaymentController {
	oncePaymentController.Do(func() {
		instance := &PaymentController{
			Log:            logger,
			PaymentUsecase: paymentUsecase,
		}
		paymentControllerInstance = instance
	})
	return paymentControllerInstance
}

func (ctrl *PaymentController) CreateIntent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID, ok := requestIDFromRequest(ctrl.Log, w, r, "PaymentController.CreateIntent")
	if !ok {
		return
	}
	ctrl.Log.Info("PaymentController.CreateIntent called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	actor, ok := actorFromRequest(ctrl.Log, w, r, requestID)
	if !ok {
		return
	}

	request := new(requests.CreatePaymentIntent)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		ctrl.Log.Error("PaymentController.CreateIntent error decoding JSON",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), usecaseTimeout)
	defer cancel()

	intent, err := ctrl.PaymentUsecase.CreateIntent(ctx, actor, request.SessionID, models.PaymentProvider(request.Provider))
	if err != nil {
		ctrl.Log.Error("PaymentController.CreateIntent error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, request.SessionID),
			zap.String(constvars.LoggingProviderKey, request.Provider),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
			zap.Error(err),
		)
		buildUsecaseErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "payment_intent_created", requestID,
		zap.String(constvars.LoggingPaymentIDKey, intent.PaymentID),
		zap.String(constvars.LoggingProviderKey, intent.Provider),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.PaymentIntentCreatedMessage, intent)
}

func (ctrl *PaymentController) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromRequest(ctrl.Log, w, r, "PaymentController.ConfirmPayment")
	if !ok {
		return
	}
	ctrl.Log.Info("PaymentController.ConfirmPayment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request := new(requests.ConfirmPayment)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), usecaseTimeout)
	defer cancel()

	session, err := ctrl.PaymentUsecase.ConfirmPayment(ctx, models.PaymentProvider(request.Provider), request.IntentID)
	if err != nil {
		ctrl.Log.Error("PaymentController.ConfirmPayment error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingIntentIDKey, request.IntentID),
			zap.Error(err),
		)
		buildUsecaseErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PaymentConfirmedMessage, session)
}

func (ctrl *PaymentController) RefundPayment(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromRequest(ctrl.Log, w, r, "PaymentController.RefundPayment")
	if !ok {
		return
	}
	ctrl.Log.Info("PaymentController.RefundPayment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	paymentID := chi.URLParam(r, constvars.URLParamPaymentID)
	if err := validateURLParam(paymentID, constvars.URLParamPaymentID); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	request := new(requests.RefundPayment)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), usecaseTimeout)
	defer cancel()

	payment, err := ctrl.PaymentUsecase.RefundPayment(ctx, paymentID, request.Percentage)
	if err != nil {
		ctrl.Log.Error("PaymentController.RefundPayment error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, paymentID),
			zap.String(constvars.LoggingPercentageKey, request.Percentage.String()),
			zap.Error(err),
		)
		buildUsecaseErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PaymentRefundedMessage, payment)
}
