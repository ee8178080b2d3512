package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

var statusByCode = map[pkgerrors.Code]int{
	pkgerrors.CodeValidation:   http.StatusBadRequest,
	pkgerrors.CodeUnauthorized: http.StatusUnauthorized,
	pkgerrors.CodeNotFound:     http.StatusNotFound,
	pkgerrors.CodeRejected:     http.StatusUnprocessableEntity,
	pkgerrors.CodeDependency:   http.StatusBadGateway,
	pkgerrors.CodeInternal:     http.StatusInternalServerError,
}

func WriteSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, SuccessEnvelope{Data: data})
}

// WriteError renders err with the same public wording shoppers see in notifications.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	status, ok := statusByCode[typed.Code()]
	if !ok {
		status = http.StatusInternalServerError
	}
	_, msg := pkgerrors.Notice(typed)

	if logg != nil && status >= http.StatusInternalServerError {
		logg.Error(logg.WithField(ctx, "error_code", string(typed.Code())), "request failed", err)
	}
	writeJSON(w, status, ErrorEnvelope{Error: ErrorBody{Code: string(typed.Code()), Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
