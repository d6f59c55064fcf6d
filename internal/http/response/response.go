package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"talentbridge/internal/common"
)

type errorCollector interface {
	IncErrors()
}

var collector errorCollector

// SetErrorCollector wires the metrics collector that counts 5xx responses.
func SetErrorCollector(c errorCollector) {
	collector = c
}

func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorBody struct {
	Error *common.Error `json:"error"`
}

func Error(w http.ResponseWriter, err error) {
	var coded *common.Error
	if !errors.As(err, &coded) {
		coded = common.NewError(common.CodeInternal, "internal error", err)
	}
	status := statusFor(coded.Code)
	if status >= http.StatusInternalServerError && collector != nil {
		collector.IncErrors()
	}
	JSON(w, status, errorBody{Error: coded})
}

func statusFor(code common.Code) int {
	switch code {
	case common.CodeValidation:
		return http.StatusBadRequest
	case common.CodeUnauthorized:
		return http.StatusUnauthorized
	case common.CodeForbidden:
		return http.StatusForbidden
	case common.CodeNotFound:
		return http.StatusNotFound
	case common.CodeConflict:
		return http.StatusConflict
	case common.CodeUnprocessable:
		return http.StatusUnprocessableEntity
	case common.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
