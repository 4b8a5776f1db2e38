package rest

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/LordKnossus/crm-cobranca/internal/domain"
)

type APIResponse struct {
	ErrorCode int         `json:"error_code"`
	Status    string      `json:"status"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
}

func Response(w http.ResponseWriter, message string, data interface{}, errorCode int, status string, httpStatus int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	response := APIResponse{
		ErrorCode: errorCode,
		Status:    status,
		Message:   message,
		Data:      data,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("[HTTP] write response error: %v", err)
	}
}

func Success(w http.ResponseWriter, message string, data interface{}) {
	Response(w, message, data, 0, "success", http.StatusOK)
}

func SuccessCreated(w http.ResponseWriter, message string, data interface{}) {
	Response(w, message, data, 0, "success", http.StatusCreated)
}

func SuccessAccepted(w http.ResponseWriter, message string, data interface{}) {
	Response(w, message, data, 0, "success", http.StatusAccepted)
}

func Error(w http.ResponseWriter, message string, errorCode int, httpStatus int) {
	Response(w, message, nil, errorCode, "error", httpStatus)
}

func ErrorBadRequest(w http.ResponseWriter, message string) {
	Error(w, message, 400, http.StatusBadRequest)
}

func ErrorUnauthorized(w http.ResponseWriter, message string) {
	Error(w, message, 401, http.StatusUnauthorized)
}

func ErrorNotFound(w http.ResponseWriter, message string) {
	Error(w, message, 404, http.StatusNotFound)
}

func ErrorConflict(w http.ResponseWriter, message string) {
	Error(w, message, 409, http.StatusConflict)
}

func ErrorInternal(w http.ResponseWriter, message string) {
	Error(w, message, 500, http.StatusInternalServerError)
}

// ErrorFromDomain maps the workflow error taxonomy onto HTTP statuses.
// Anything unrecognized is logged and reported as a 500 without leaking the
// underlying error text.
func ErrorFromDomain(w http.ResponseWriter, err error) {
	var notFound *domain.NotFoundError
	if errors.As(err, &notFound) {
		ErrorNotFound(w, notFound.Error())
		return
	}

	var invalidState *domain.InvalidStateError
	if errors.As(err, &invalidState) {
		ErrorConflict(w, invalidState.Error())
		return
	}

	var invalidAmount *domain.InvalidAmountError
	if errors.As(err, &invalidAmount) {
		ErrorBadRequest(w, invalidAmount.Error())
		return
	}

	var invalidInput *domain.InvalidInputError
	if errors.As(err, &invalidInput) {
		ErrorBadRequest(w, invalidInput.Error())
		return
	}

	var duplicate *domain.DuplicateNumberError
	if errors.As(err, &duplicate) {
		ErrorConflict(w, duplicate.Error())
		return
	}

	log.Printf("[HTTP] internal error: %v", err)
	ErrorInternal(w, "internal error")
}
