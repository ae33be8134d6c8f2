package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xavierca1/lead-copilot/internal/usecase"
)

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Status: usecase.StatusError, Code: code, Message: message})
}

func writeError(w http.ResponseWriter, err error) {
	code := usecase.ErrorCode(err)
	writeErrorResponse(w, statusForCode(code), code, err.Error())
}

// writeResult maps a tagged use case result to a status code. Only
// "error" results carry a code.
func writeResult(w http.ResponseWriter, status, code string, v any) {
	if status == usecase.StatusError {
		writeJSON(w, statusForCode(code), v)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func statusForCode(code string) int {
	switch code {
	case usecase.CodeValidation:
		return http.StatusBadRequest
	case usecase.CodeNotFound:
		return http.StatusNotFound
	case usecase.CodeTransport, usecase.CodeGeneration:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return false
	}
	return true
}
