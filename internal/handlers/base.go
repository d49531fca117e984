// internal/handlers/base.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/art-rental-backend/internal/i18n"
	"github.com/javajoker/art-rental-backend/internal/services"
	"github.com/javajoker/art-rental-backend/internal/utils"
)

func statusFor(kind services.ErrorKind) int {
	switch kind {
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindConflict:
		return http.StatusConflict
	case services.KindBadRequest:
		return http.StatusBadRequest
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as an error envelope. Only AppErrors reach the
// client with their own message.
func respondError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	var appErr *services.AppError
	if !errors.As(err, &appErr) || appErr.Kind == services.KindInternal {
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("Request failed")
		utils.InternalErrorResponse(c, i18n.T(lang, i18n.KeyInternalError))
		return
	}

	var validationErrs validator.ValidationErrors
	if appErr.Kind == services.KindBadRequest && errors.As(err, &validationErrs) {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(validationErrs))
		return
	}

	message := appErr.Message
	if appErr.Key != "" {
		message = i18n.T(lang, appErr.Key)
	}

	utils.ErrorResponse(c, statusFor(appErr.Kind), appErr.Kind.String(), message, nil)
}

// bindJSON decodes and validates the request body, answering 400 itself
// when either step fails.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.BadRequestResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyInvalidRequest), err.Error())
		return false
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return false
	}
	return true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyInvalidID), nil)
		return uuid.Nil, false
	}
	return id, true
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
	}
	return userID, ok
}

// currentActor requires an authenticated caller.
func currentActor(c *gin.Context) (services.Actor, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return services.Actor{}, false
	}
	return services.Actor{UserID: userID, IsAdmin: utils.IsAdminFromContext(c)}, true
}

// optionalActor is nil for anonymous callers.
func optionalActor(c *gin.Context) *services.Actor {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		return nil
	}
	return &services.Actor{UserID: userID, IsAdmin: utils.IsAdminFromContext(c)}
}

func message(c *gin.Context, key string) string {
	return i18n.T(utils.GetLangFromContext(c), key)
}
