package handler

import (
	"encoding/json"
	"net/http"
)

type successResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Data    authData `json:"data"`
}

type errorResponse struct {
	Status    string      `json:"status"`
	Message   string      `json:"message"`
	ErrorCode string      `json:"errorCode"`
	Details   interface{} `json:"details,omitempty"`
}

type authData struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, status int, message string, data authData) {
	writeJSON(w, status, successResponse{Status: "success", Message: message, Data: data})
}

func writeError(w http.ResponseWriter, status int, message, code string, details interface{}) {
	writeJSON(w, status, errorResponse{Status: "error", Message: message, ErrorCode: code, Details: details})
}

func writeValidationError(w http.ResponseWriter, errs []fieldError) {
	writeError(w, http.StatusBadRequest, "Validation failed", "VALIDATION_ERROR",
		map[string]interface{}{"errors": errs})
}
