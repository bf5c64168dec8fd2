package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"material-market/internal/usecase"
	"material-market/pkg/utils"

	"go.uber.org/zap"
)

var errAuthRequired = errors.New("authentication required")

// handleServiceError maps service errors onto the response envelope.
// Unknown errors are logged and answered with a generic 500.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var verr *usecase.ValidationError

	switch {
	case errors.As(err, &verr):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, verr.Message, verr.Fields)

	case errors.Is(err, usecase.ErrDuplicateEmail),
		errors.Is(err, usecase.ErrInvalidCredentials),
		errors.Is(err, usecase.ErrNoFiles),
		errors.Is(err, usecase.ErrTooManyFiles),
		errors.Is(err, usecase.ErrFileTooLarge),
		errors.Is(err, usecase.ErrUnsupportedType):
		log.Warn(operation+" rejected", zap.Error(err))
		utils.ResponseBadRequest(w, publicMessage(err), nil)

	case errors.Is(err, usecase.ErrUnauthenticated):
		utils.ResponseUnauthorized(w, "Authentication required")

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" forbidden", zap.Error(err))
		utils.ResponseForbidden(w, "You do not have access to this resource")

	case errors.Is(err, usecase.ErrNotFound):
		log.Debug(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, "Resource not found")

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// publicMessage returns the client-facing text for an expected error.
func publicMessage(err error) string {
	switch {
	case errors.Is(err, usecase.ErrDuplicateEmail):
		return "User already exists with this email"
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, usecase.ErrNoFiles):
		return "No files uploaded"
	case errors.Is(err, usecase.ErrTooManyFiles),
		errors.Is(err, usecase.ErrFileTooLarge),
		errors.Is(err, usecase.ErrUnsupportedType):
		return err.Error()
	default:
		return "Bad request"
	}
}

// decodeJSON reads the body into dst and answers the request itself on
// failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			utils.ResponseTooLarge(w, "Request body too large")
		case errors.Is(err, io.EOF):
			utils.ResponseBadRequest(w, "Request body is empty", nil)
		default:
			utils.ResponseBadRequest(w, "Invalid request body", nil)
		}
		return false
	}
	return true
}

// principal fetches the caller set by the auth middleware.
func principal(w http.ResponseWriter, r *http.Request) (utils.Principal, bool) {
	p, ok := utils.GetPrincipal(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, errAuthRequired.Error())
	}
	return p, ok
}
