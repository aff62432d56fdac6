package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/dpetrov/auth-service/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, []fieldError{{Field: "body", Message: "Request body must be valid JSON"}})
		return
	}

	var errs []fieldError
	if !isEmail(req.Email) {
		errs = append(errs, fieldError{Field: "email", Message: "Invalid email format"})
	}
	if len(req.Password) < 6 {
		errs = append(errs, fieldError{Field: "password", Message: "Password must be at least 6 characters long"})
	}
	if len(errs) > 0 {
		writeValidationError(w, errs)
		return
	}

	res, err := h.svc.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "Email already exists", "EMAIL_EXISTS",
				map[string]string{"email": service.NormalizeEmail(req.Email)})
			return
		}
		h.log.Errorf("Error during user registration: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error", "SERVER_ERROR", nil)
		return
	}

	writeSuccess(w, http.StatusCreated, "User registered successfully", authData{
		UserID: res.User.ID,
		Email:  res.User.Email,
		Token:  res.Token,
	})
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, []fieldError{{Field: "body", Message: "Request body must be valid JSON"}})
		return
	}

	var errs []fieldError
	if !isEmail(req.Email) {
		errs = append(errs, fieldError{Field: "email", Message: "Invalid email format"})
	}
	if req.Password == "" {
		errs = append(errs, fieldError{Field: "password", Message: "Password is required"})
	}
	if len(errs) > 0 {
		writeValidationError(w, errs)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password", "INVALID_CREDENTIALS", nil)
			return
		}
		h.log.Errorf("Error during user login: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error", "SERVER_ERROR", nil)
		return
	}

	writeSuccess(w, http.StatusOK, "Login successful", authData{
		UserID: res.User.ID,
		Email:  res.User.Email,
		Token:  res.Token,
	})
}

// isEmail checks that the input consists of exactly one bare address.
// mail.ParseAddress also accepts "Name <addr>" forms, which we reject.
func isEmail(s string) bool {
	trimmed := strings.TrimSpace(s)
	addr, err := mail.ParseAddress(trimmed)
	return err == nil && addr.Address == trimmed
}
