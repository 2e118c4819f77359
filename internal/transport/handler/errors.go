package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/niklvrr/codereviewbot/internal/usecase"
)

const codeInternalError = "INTERNAL_ERROR"

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HandleError преобразует доменные ошибки в HTTP статус и ErrorResponse.
// Пропуски по условиям отвечают 200
func HandleError(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusOK, ErrorResponse{}
	}

	var domainErr *usecase.DomainError
	if errors.As(err, &domainErr) {
		return mapErrorCodeToHTTPStatus(domainErr.Code), ErrorResponse{
			Error: domainErr.Message,
			Code:  domainErr.Code,
		}
	}

	return http.StatusInternalServerError, ErrorResponse{
		Error: "internal server error",
		Code:  codeInternalError,
	}
}

func mapErrorCodeToHTTPStatus(code string) int {
	switch code {
	case usecase.CodeGuardSkipped:
		return http.StatusOK
	case usecase.CodeMalformedInput:
		return http.StatusBadRequest
	case usecase.CodeNotAuthorized:
		return http.StatusUnauthorized
	case usecase.CodeNotFound:
		return http.StatusNotFound
	case usecase.CodeUnhandledAction:
		return http.StatusUnprocessableEntity
	case usecase.CodeRateLimited:
		return http.StatusTooManyRequests
	case usecase.CodeUpstreamError, usecase.CodeChatSoftFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteError отправляет ErrorResponse клиенту
func WriteError(w http.ResponseWriter, statusCode int, errResp ErrorResponse) {
	writeJSON(w, statusCode, errResp)
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

func fail(w http.ResponseWriter, err error) {
	statusCode, errResp := HandleError(err)
	WriteError(w, statusCode, errResp)
}

func badRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, ErrorResponse{Error: message, Code: usecase.CodeMalformedInput})
}
