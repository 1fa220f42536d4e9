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

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type RescheduleController struct {
	Log               *zap.Logger
	RescheduleUsecase contracts.RescheduleUsecase
}

var (
	rescheduleControllerInstance *RescheduleController
	onceRescheduleController     sync.Once
)

func NewRescheduleController(logger *zap.Logger, rescheduleUsecase contracts.RescheduleUsecase) *RescheduleController {
	onceRescheduleController.Do(func() {
		instance := &RescheduleController{
			Log:               logger,
			RescheduleUsecase: rescheduleUsecase,
		}
		rescheduleControllerInstance = instance
	})
	return rescheduleControllerInstance
}

func (ctrl *RescheduleController) RequestReschedule(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromRequest(ctrl.Log, w, r, "RescheduleController.RequestReschedule")
	if !ok {
		return
	}
	ctrl.Log.Info("RescheduleController.RequestReschedule called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	actor, ok := actorFromRequest(ctrl.Log, w, r, requestID)
	if !ok {
		return
	}

	sessionID := chi.URLParam(r, constvars.URLParamSessionID)
	if err := validateURLParam(sessionID, constvars.URLParamSessionID); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	request := new(requests.RequestReschedule)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		ctrl.Log.Error("RescheduleController.RequestReschedule error decoding JSON",
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

	reschedule, err := ctrl.RescheduleUsecase.RequestReschedule(ctx, actor, sessionID, request.NewStart, request.Reason)
	if err != nil {
		ctrl.Log.Error("RescheduleController.RequestReschedule error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, sessionID),
			zap.Error(err),
		)
		buildUsecaseErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.RescheduleRequestedMessage, reschedule)
}

func (ctrl *RescheduleController) ApproveReschedule(w http.ResponseWriter, r *http.Request) {
	ctrl.resolve(w, r, "RescheduleController.ApproveReschedule", ctrl.RescheduleUsecase.Approve, constvars.RescheduleApprovedMessage)
}

func (ctrl *RescheduleController) RejectReschedule(w http.ResponseWriter, r *http.Request) {
	ctrl.resolve(w, r, "RescheduleController.RejectReschedule", ctrl.RescheduleUsecase.Reject, constvars.RescheduleRejectedMessage)
}

type rescheduleResolver func(ctx context.Context, actor models.Actor, rescheduleID string) (*models.RescheduleRequest, error)

func (ctrl *RescheduleController) resolve(w http.ResponseWriter, r *http.Request, caller string, resolver rescheduleResolver, message string) {
	requestID, ok := requestIDFromRequest(ctrl.Log, w, r, caller)
	if !ok {
		return
	}
	ctrl.Log.Info(caller+" called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	actor, ok := actorFromRequest(ctrl.Log, w, r, requestID)
	if !ok {
		return
	}

	rescheduleID := chi.URLParam(r, constvars.URLParamRescheduleID)
	if err := validateURLParam(rescheduleID, constvars.URLParamRescheduleID); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), usecaseTimeout)
	defer cancel()

	reschedule, err := resolver(ctx, actor, rescheduleID)
	if err != nil {
		ctrl.Log.Error(caller+" error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRescheduleIDKey, rescheduleID),
			zap.Error(err),
		)
		buildUsecaseErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, message, reschedule)
}
