package controllers

import (
	"context"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/pkg/constvars"
	"mentorship-service/internal/pkg/dto/requests"
	"mentorship-service/internal/pkg/exceptions"
	"mentorship-service/internal/pkg/utils"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type BalanceController struct {
	Log            *zap.Logger
	BalanceUsecase contracts.BalanceUsecase
}

var (
	balanceControllerInstance *BalanceController
	onceBalanceController     sync.Once
)

func NewBalanceController(logger *zap.Logger, balanceUsecase contracts.BalanceUsecase) *BalanceController {
	onceBalanceController.Do(func() {
		instance := &BalanceController{
			Log:            logger,
			BalanceUsecase: balanceUsecase,
		}
		balanceControllerInstance = instance
	})
	return balanceControllerInstance
}

func (ctrl *BalanceController) GetBalance(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromRequest(ctrl.Log, w, r, "BalanceController.GetBalance")
	if !ok {
		return
	}
	actor, ok := actorFromRequest(ctrl.Log, w, r, requestID)
	if !ok {
		return
	}

	mentorID := chi.URLParam(r, constvars.URLParamMentorID)
	if err := validateURLParam(mentorID, constvars.URLParamMentorID); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	if err := requireSelfOrAdmin(actor, mentorID); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), usecaseTimeout)
	defer cancel()

	balance, err := ctrl.BalanceUsecase.GetBalance(ctx, mentorID)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.BalanceFetchedMessage, balance)
}

func (ctrl *BalanceController) RequestPayout(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromRequest(ctrl.Log, w, r, "BalanceController.RequestPayout")
	if !ok {
		return
	}
	ctrl.Log.Info("BalanceController.RequestPayout called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	actor, ok := actorFromRequest(ctrl.Log, w, r, requestID)
	if !ok {
		return
	}

	mentorID := chi.URLParam(r, constvars.URLParamMentorID)
	if err := validateURLParam(mentorID, constvars.URLParamMentorID); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	if err := requireSelfOrAdmin(actor, mentorID); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	request := new(requests.RequestPayout)
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

	payout, err := ctrl.BalanceUsecase.RequestPayout(ctx, mentorID, request.Amount)
	if err != nil {
		ctrl.Log.Error("BalanceController.RequestPayout error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingMentorIDKey, mentorID),
			zap.String(constvars.LoggingAmountKey, request.Amount.String()),
			zap.Error(err),
		)
		buildUsecaseErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.PayoutRequestedMessage, payout)
}

func (ctrl *BalanceController) ListPayouts(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromRequest(ctrl.Log, w, r, "BalanceController.ListPayouts")
	if !ok {
		return
	}
	actor, ok := actorFromRequest(ctrl.Log, w, r, requestID)
	if !ok {
		return
	}

	mentorID := chi.URLParam(r, constvars.URLParamMentorID)
	if err := validateURLParam(mentorID, constvars.URLParamMentorID); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	if err := requireSelfOrAdmin(actor, mentorID); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), usecaseTimeout)
	defer cancel()

	payouts, err := ctrl.BalanceUsecase.ListPayouts(ctx, mentorID)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PayoutsFetchedMessage, payouts)
}

func (ctrl *BalanceController) ProcessPayout(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromRequest(ctrl.Log, w, r, "BalanceController.ProcessPayout")
	if !ok {
		return
	}
	ctrl.Log.Info("BalanceController.ProcessPayout called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	payoutID := chi.URLParam(r, constvars.URLParamPayoutID)
	if err := validateURLParam(payoutID, constvars.URLParamPayoutID); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	// disbursement gateways can be slow
	ctx, cancel := context.WithTimeout(r.Context(), 3*usecaseTimeout)
	defer cancel()

	payout, err := ctrl.BalanceUsecase.ProcessPayout(ctx, payoutID)
	if err != nil {
		ctrl.Log.Error("BalanceController.ProcessPayout error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPayoutIDKey, payoutID),
			zap.Error(err),
		)
		buildUsecaseErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PayoutProcessedMessage, payout)
}

func (ctrl *BalanceController) CancelPayout(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromRequest(ctrl.Log, w, r, "BalanceController.CancelPayout")
	if !ok {
		return
	}
	actor, ok := actorFromRequest(ctrl.Log, w, r, requestID)
	if !ok {
		return
	}

	payoutID := chi.URLParam(r, constvars.URLParamPayoutID)
	if err := validateURLParam(payoutID, constvars.URLParamPayoutID); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), usecaseTimeout)
	defer cancel()

	payout, err := ctrl.BalanceUsecase.CancelPayout(ctx, actor, payoutID)
	if err != nil {
		ctrl.Log.Error("BalanceController.CancelPayout error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPayoutIDKey, payoutID),
			zap.Error(err),
		)
		buildUsecaseErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PayoutCancelledMessage, payout)
}
