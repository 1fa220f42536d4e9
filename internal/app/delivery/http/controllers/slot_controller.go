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

type SlotController struct {
	Log         *zap.Logger
	SlotUsecase contracts.SlotUsecase
	Clock       contracts.Clock
}

var (
	slotControllerInstance *SlotController
	onceSlotController     sync.Once
)

func NewSlotController(logger *zap.Logger, slotUsecase contracts.SlotUsecase, clock contracts.Clock) *SlotController {
	onceSlotController.Do(func() {
		instance := &SlotController{
			Log:         logger,
			SlotUsecase: slotUsecase,
			Clock:       clock,
		}
		slotControllerInstance = instance
	})
	return slotControllerInstance
}

func (ctrl *SlotController) CreateSlot(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromRequest(ctrl.Log, w, r, "SlotController.CreateSlot")
	if !ok {
		return
	}
	ctrl.Log.Info("SlotController.CreateSlot called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	actor, ok := actorFromRequest(ctrl.Log, w, r, requestID)
	if !ok {
		return
	}

	request := new(requests.CreateSlot)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		ctrl.Log.Error("SlotController.CreateSlot error decoding JSON",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	if err := utils.ValidateStruct(request); err != nil {
		ctrl.Log.Error("SlotController.CreateSlot validation error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), usecaseTimeout)
	defer cancel()

	slot, err := ctrl.SlotUsecase.CreateSlot(ctx, actor, request)
	if err != nil {
		ctrl.Log.Error("SlotController.CreateSlot error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		buildUsecaseErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.SlotCreatedMessage, slot)
}

func (ctrl *SlotController) ListAvailableSlots(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromRequest(ctrl.Log, w, r, "SlotController.ListAvailableSlots")
	if !ok {
		return
	}
	ctrl.Log.Info("SlotController.ListAvailableSlots called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	mentorID := chi.URLParam(r, constvars.URLParamMentorID)
	if err := validateURLParam(mentorID, constvars.URLParamMentorID); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	from, to, err := utils.BuildTimeRangeRequest(r, ctrl.Clock.Now())
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), usecaseTimeout)
	defer cancel()

	slots, err := ctrl.SlotUsecase.ListAvailableSlots(ctx, mentorID, from, to)
	if err != nil {
		ctrl.Log.Error("SlotController.ListAvailableSlots error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingMentorIDKey, mentorID),
			zap.Error(err),
		)
		buildUsecaseErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SlotsFetchedMessage, slots)
}
