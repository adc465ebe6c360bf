package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"hirepath/internal/common"
)

type ErrorCollector interface {
	ObserveError(code common.Code)
}

var errorCollector ErrorCollector

func SetErrorCollector(collector ErrorCollector) {
	errorCollector = collector
}

func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type errorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func Error(w http.ResponseWriter, err error) {
	var coded *common.Error
	if !errors.As(err, &coded) {
		coded = common.NewError(common.CodeInternal, "internal error", err)
	}
	if errorCollector != nil {
		errorCollector.ObserveError(coded.Code)
	}
	JSON(w, statusFor(coded.Code), errorBody{
		Error:   string(coded.Code),
		Message: coded.Message,
		Fields:  coded.Fields,
	})
}

func statusFor(code common.Code) int {
	switch code {
	case common.CodeValidation:
		return http.StatusBadRequest
	case common.CodeNotFound:
		return http.StatusNotFound
	case common.CodeConflict, common.CodeDuplicateApplication:
		return http.StatusConflict
	case common.CodeApplicationDiscarded, common.CodeInvalidTransition:
		return http.StatusUnprocessableEntity
	case common.CodeRateLimited:
		return http.StatusTooManyRequests
	case common.CodeNoStagesConfigured:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
