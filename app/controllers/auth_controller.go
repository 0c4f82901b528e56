package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/duolink/cotizador/app/services"
	"github.com/duolink/cotizador/pkg/middleware"
	"github.com/duolink/cotizador/pkg/response"
	"github.com/duolink/cotizador/pkg/validate"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required|email"`
	Password string `json:"password" validate:"required"`
}

// Login issues a token pair for valid credentials.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if errs := validate.Struct(body); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	result, err := c.auth.Login(body.Email, body.Password)
	if err != nil {
		response.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	response.Success(w, result)
}

// Profile returns the signed-in user.
func (c *AuthController) Profile(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromCtx(r.Context())
	user, err := c.auth.Profile(userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	response.Success(w, user)
}

type resetPasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required|min:6"`
}

// ResetPassword sets a new password on the target user. The route is
// superadmin-gated; the service enforces the same rule again.
func (c *AuthController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	targetID, ok := urlID(r)
	if !ok {
		response.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var body resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if errs := validate.Struct(body); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	callerID, _ := middleware.UserIDFromCtx(r.Context())
	callerRole, _ := middleware.RoleFromCtx(r.Context())

	if err := c.auth.ResetPassword(callerID, callerRole, targetID, body.NewPassword); err != nil {
		writeDomainError(w, err)
		return
	}
	response.Success(w, map[string]bool{"reset": true})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required|min:6"`
}

// ChangePassword rotates the caller's own password.
func (c *AuthController) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var body changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if errs := validate.Struct(body); validate.HasErrors(errs) {
		response.ValidationError(w, errs)
		return
	}

	userID, _ := middleware.UserIDFromCtx(r.Context())
	if err := c.auth.ChangeOwnPassword(userID, body.CurrentPassword, body.NewPassword); err != nil {
		writeDomainError(w, err)
		return
	}
	response.Success(w, map[string]bool{"changed": true})
}
