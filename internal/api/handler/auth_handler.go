package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"attendance.service/internal/api/apimsg"
	"attendance.service/internal/api/middleware"
	"attendance.service/internal/core"
)

// AuthHandler serves registration, login and current-user lookup.
type AuthHandler struct {
	Service  *core.AuthService
	Validate *validator.Validate
}

type registerRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Department string `json:"department"`
	EmployeeID string `json:"employeeId" validate:"required"`
	Role       string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register creates an employee account and returns a token pair.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apimsg.WriteError(w, apimsg.ValidationRequiredFields)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		apimsg.WriteError(w, apimsg.ValidationRequiredFields)
		return
	}

	pair, err := h.Service.Register(r.Context(), core.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Department: req.Department,
		EmployeeID: req.EmployeeID,
		Role:       req.Role,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	apimsg.WriteJSON(w, http.StatusCreated, map[string]any{
		"success":      true,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

// Login verifies credentials and returns a fresh token pair.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apimsg.WriteError(w, apimsg.ValidationLoginFields)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		apimsg.WriteError(w, apimsg.ValidationLoginFields)
		return
	}

	pair, err := h.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	apimsg.WriteJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

// Current returns the authenticated user's profile.
func (h *AuthHandler) Current(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	if user == nil {
		apimsg.WriteError(w, apimsg.Unauthorized)
		return
	}

	profile, err := h.Service.CurrentUser(r.Context(), user.ID)
	if err != nil {
		apimsg.WriteError(w, apimsg.CurrentUserNotFound)
		return
	}

	apimsg.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "User fetched successfully",
		"user":    profile,
	})
}
