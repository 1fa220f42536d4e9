package controllers

import (
	"context"
	"errors"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/pkg/constvars"
	"mentorship-service/internal/pkg/dto/requests"
	"mentorship-service/internal/pkg/dto/responses"
	"mentorship-service/internal/pkg/exceptions"
	"mentorship-service/internal/pkg/utils"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const evidenceFormField = "evidence"

type DisputeController struct {
	Log            *zap.Logger
	DisputeUsecase contracts.DisputeUsecase
	Clock          contracts.Clock
	// MaxUploadBytes bounds the in-memory part of a multipart dispute upload
	MaxUploadBytes    int64
	EvidenceURLExpiry time.Duration
}

var (
	disputeControllerInstance *DisputeController
	onceDisputeController     sync.Once
)

func NewDisputeController(logger *zap.Logger, disputeUsecase contracts.DisputeUsecase, clock contracts.Clock, maxUploadBytes int64, evidenceURLExpiry time.Duration) *DisputeController {
	onceDisputeController.Do(func() {
		instance := &DisputeController{
			Log:               logger,
			DisputeUsecase:    disputeUsecase,
			Clock:             clock,
			MaxUploadBytes:    maxUploadBytes,
			EvidenceURLExpiry: evidenceURLExpiry,
		}
		disputeControllerInstance = instance
	})
	return disputeControllerInstance
}

// CreateDispute takes either a JSON body or a multipart form with "session_id", "reason"
// and any number of "evidence" files.
func (ctrl *DisputeController) CreateDispute(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromRequest(ctrl.Log, w, r, "DisputeController.CreateDispute")
	if !ok {
		return
	}
	ctrl.Log.Info("DisputeController.CreateDispute called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	actor, ok := actorFromRequest(ctrl.Log, w, r, requestID)
	if !ok {
		return
	}

	request := new(requests.CreateDispute)
	var evidence []models.EvidenceFile
	if strings.HasPrefix(r.Header.Get(constvars.HeaderContentType), constvars.MIMEMultipartForm) {
		if err := r.ParseMultipartForm(ctrl.MaxUploadBytes); err != nil {
			ctrl.Log.Error("DisputeController.CreateDispute error parsing multipart form",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseMultipartForm(err))
			return
		}
		request.SessionID = r.FormValue("session_id")
		request.Reason = r.FormValue("reason")

		files, err := utils.ReadMultipartFiles(r, evidenceFormField)
		if err != nil {
			utils.BuildErrorResponse(ctrl.Log, w, err)
			return
		}
		evidence = files
	} else if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), usecaseTimeout)
	defer cancel()

	dispute, err := ctrl.DisputeUsecase.CreateDispute(ctx, actor, request.SessionID, request.Reason, evidence)
	if err != nil {
		ctrl.Log.Error("DisputeController.CreateDispute error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingSessionIDKey, request.SessionID),
			zap.Int("evidence_count", len(evidence)),
			zap.Error(err),
		)
		buildUsecaseErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.DisputeCreatedMessage, dispute)
}

func (ctrl *DisputeController) ResolveDispute(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromRequest(ctrl.Log, w, r, "DisputeController.ResolveDispute")
	if !ok {
		return
	}
	ctrl.Log.Info("DisputeController.ResolveDispute called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	actor, ok := actorFromRequest(ctrl.Log, w, r, requestID)
	if !ok {
		return
	}
	if !actor.IsAdmin() {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrAccessDenied(errors.New("dispute resolution requires admin")))
		return
	}

	disputeID := chi.URLParam(r, constvars.URLParamDisputeID)
	if err := validateURLParam(disputeID, constvars.URLParamDisputeID); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	request := new(requests.ResolveDispute)
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

	dispute, err := ctrl.DisputeUsecase.ResolveDispute(ctx, actor.ID, disputeID, models.DisputeDecision(request.Decision), request.Resolution, request.RefundAmount)
	if err != nil {
		ctrl.Log.Error("DisputeController.ResolveDispute error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDisputeIDKey, disputeID),
			zap.Error(err),
		)
		buildUsecaseErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.DisputeResolvedMessage, dispute)
}

func (ctrl *DisputeController) GetEvidenceURL(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFromRequest(ctrl.Log, w, r, "DisputeController.GetEvidenceURL")
	if !ok {
		return
	}
	actor, ok := actorFromRequest(ctrl.Log, w, r, requestID)
	if !ok {
		return
	}

	disputeID := chi.URLParam(r, constvars.URLParamDisputeID)
	if err := validateURLParam(disputeID, constvars.URLParamDisputeID); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	objectKey := r.URL.Query().Get(constvars.URLParamObjectKey)
	if objectKey == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrQueryParamValidation(errors.New("object_key is required"), constvars.URLParamObjectKey))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), usecaseTimeout)
	defer cancel()

	url, err := ctrl.DisputeUsecase.GetEvidenceURL(ctx, actor, disputeID, objectKey)
	if err != nil {
		buildUsecaseErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.DisputeEvidenceURLFetchedMessage, responses.DisputeEvidenceURL{
		ObjectKey: objectKey,
		URL:       url,
		ExpiresAt: ctrl.Clock.Now().Add(ctrl.EvidenceURLExpiry),
	})
}
