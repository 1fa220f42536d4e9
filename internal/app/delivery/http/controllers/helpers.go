package controllers

import (
	"context"
	"errors"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/pkg/constvars"
	"mentorship-service/internal/pkg/exceptions"
	"mentorship-service/internal/pkg/utils"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const usecaseTimeout = 10 * time.Second

func requestIDFromRequest(log *zap.Logger, w http.ResponseWriter, r *http.Request, caller string) (string, bool) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		log.Error(caller+" requestID not found in context",
			zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			zap.String(constvars.LoggingMethodKey, r.Method),
		)
		utils.BuildErrorResponse(log, w, exceptions.ErrMissingRequestID(nil))
		return "", false
	}
	return requestID, true
}

func actorFromRequest(log *zap.Logger, w http.ResponseWriter, r *http.Request, requestID string) (models.Actor, bool) {
	actor, ok := r.Context().Value(constvars.CONTEXT_ACTOR_KEY).(models.Actor)
	if !ok || actor.ID == "" {
		log.Error("Actor not found in context",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingEndpointKey, r.URL.Path),
		)
		utils.BuildErrorResponse(log, w, exceptions.ErrTokenMissing(nil))
		return models.Actor{}, false
	}
	return actor, true
}

// requireSelfOrAdmin lets a mentor act only on their own mentor id.
func requireSelfOrAdmin(actor models.Actor, mentorID string) error {
	if actor.IsAdmin() || actor.ID == mentorID {
		return nil
	}
	return exceptions.ErrAccessDenied(errors.New("actor " + actor.ID + " cannot act for mentor " + mentorID))
}

func validateURLParam(value, name string) error {
	if err := utils.ValidateUUID(value); err != nil {
		return exceptions.ErrURLParamValidation(err, name)
	}
	return nil
}

func buildUsecaseErrorResponse(log *zap.Logger, w http.ResponseWriter, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		utils.BuildErrorResponse(log, w, exceptions.ErrServerDeadlineExceeded(err))
		return
	}
	utils.BuildErrorResponse(log, w, err)
}
