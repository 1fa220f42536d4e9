package controllers

import (
	"context"
	"io"
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

type SessionController struct {
	Log                 *zap.Logger
	BookingUsecase      contracts.BookingUsecase
	CancellationUsecase contracts.CancellationUsecase
}

var (
	sessionControllerInstance *SessionController
	onceSessionController     sync.Once
)

func NewSessionController(logger *zap.Logger, bookingUsecase contracts.BookingUsecase, cancellationUsecase contracts.CancellationUsecase) *SessionController {
	onceSessionController.Do(func() {
		instance := &SessionController{
			Log:                 logger,
			BookingUsecase:      bookingUsecase,
			CancellationUsecase: cancellationUsecase,
		}
		sessionControllerInstance = instance
	})
	return sessionControllerInstance
}

func (ctrl *SessionController) BookSession(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromRequest(ctrl.Log, w, r, "SessionController.BookSession")
	if !ok {
		return
	}
	ctrl.Log.Info("SessionController.BookSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	actor, ok := actorFromRequest(ctrl.Log, w, r, requestID)
	if !ok {
		return
	}

	request := new(requests.BookSession)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		ctrl.Log.Error("SessionController.BookSession error decoding JSON",
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

	session, err := ctrl.BookingUsecase.BookSession(ctx, actor.ID, request.SlotID)
	if err != nil {
		ctrl.Log.Error("SessionController.BookSession error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSlotIDKey, request.SlotID),
			zap.Error(err),
		)
		buildUsecaseErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "session_booked", requestID,
		zap.String(constvars.LoggingSessionIDKey, session.ID),
		zap.String(constvars.LoggingMenteeIDKey, actor.ID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.SessionBookedMessage, session)
}

func (ctrl *SessionController) GetSession(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromRequest(ctrl.Log, w, r, "SessionController.GetSession")
	if !ok {
		return
	}
	actor, ok := actorFromRequest(ctrl.Log, w, r, requestID)
	if !ok {
		return
	}

	sessionID := chi.URLParam(r, constvars.URLParamSessionID)
	if err := validateURLParam(sessionID, constvars.URLParamSessionID); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), usecaseTimeout)
	defer cancel()

	session, err := ctrl.BookingUsecase.GetSession(ctx, actor, sessionID)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SessionFetchedMessage, session)
}

// CancelSession accepts an empty body; the reason is optional.
func (ctrl *SessionController) CancelSession(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromRequest(ctrl.Log, w, r, "SessionController.CancelSession")
	if !ok {
		return
	}
	ctrl.Log.Info("SessionController.CancelSession called",
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

	request := new(requests.CancelSession)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil && err != io.EOF {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), usecaseTimeout)
	defer cancel()

	record, err := ctrl.CancellationUsecase.CancelSession(ctx, actor, sessionID, request.Reason)
	if err != nil {
		ctrl.Log.Error("SessionController.CancelSession error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, sessionID),
			zap.Error(err),
		)
		buildUsecaseErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SessionCancelledMessage, record)
}

func (ctrl *SessionController) CompleteSession(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromRequest(ctrl.Log, w, r, "SessionController.CompleteSession")
	if !ok {
		return
	}
	actor, ok := actorFromRequest(ctrl.Log, w, r, requestID)
	if !ok {
		return
	}

	sessionID := chi.URLParam(r, constvars.URLParamSessionID)
	if err := validateURLParam(sessionID, constvars.URLParamSessionID); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), usecaseTimeout)
	defer cancel()

	session, err := ctrl.BookingUsecase.CompleteSession(ctx, actor, sessionID)
	if err != nil {
		ctrl.Log.Error("SessionController.CompleteSession error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, sessionID),
			zap.Error(err),
		)
		buildUsecaseErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SessionCompletedMessage, session)
}
