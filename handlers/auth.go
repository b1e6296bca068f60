// Package handlers gestiona el vaivén HTTP request/response.
//
// Un handler debe ser delgado:
// 1. Parsear el body (JSON → struct)
// 2. Llamar al service
// 3. Devolver el resultado como respuesta HTTP
//
// Un handler NUNCA contiene lógica de negocio ni toca la DB directamente.
// Todo el cerebro está en services; el handler es el puente.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vozciudadana/portal/models"
	"github.com/vozciudadana/portal/pkg"
	"github.com/vozciudadana/portal/pkg/ratelimit"
	"github.com/vozciudadana/portal/services"
)

// AuthHandler atiende los endpoints del módulo de identidad (/user/*).
type AuthHandler struct {
	authService  services.AuthService
	loginLimiter *ratelimit.LoginRateLimiter
}

// NewAuthHandler, constructor.
// loginLimiter nil deshabilita la protección contra fuerza bruta.
func NewAuthHandler(authService services.AuthService, loginLimiter *ratelimit.LoginRateLimiter) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		loginLimiter: loginLimiter,
	}
}

// Register godoc
// POST /user/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegistroRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, result)
}

// Login godoc
// POST /user/login
//
// Rate limiting por IP: superado el límite de intentos por ventana se
// responde 429 con Retry-After. El login correcto resetea el contador para
// no bloquear al usuario legítimo.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ip := ratelimit.ExtractIP(r)
	if h.loginLimiter != nil && !h.loginLimiter.Allow(ip) {
		retryAfter := h.loginLimiter.RetryAfterSeconds(ip)
		w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
		pkg.ErrorWithMessage(w, http.StatusTooManyRequests,
			fmt.Sprintf("demasiados intentos de inicio de sesión, intenta de nuevo en %s",
				ratelimit.FormatRetryMessage(retryAfter)))
		return
	}

	var req models.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	if h.loginLimiter != nil {
		h.loginLimiter.Reset(ip)
	}

	pkg.JSON(w, http.StatusOK, result)
}

// Me godoc
// GET /user/me
// Requiere auth middleware — el usuario está en el context.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	usuario, ok := r.Context().Value(UsuarioContextKey).(*models.Usuario)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "usuario no encontrado en el contexto")
		return
	}

	pkg.JSON(w, http.StatusOK, usuario)
}

// ChangePassword godoc
// POST /user/password
// Requiere auth middleware — el usuario cambia su propia contraseña.
//
// Body: { "current_password": "...", "new_password": "..." }
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	usuario, ok := r.Context().Value(UsuarioContextKey).(*models.Usuario)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "usuario no encontrado en el contexto")
		return
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "current_password y new_password son obligatorios")
		return
	}

	if err := h.authService.ChangePassword(r.Context(), usuario.ID, req.CurrentPassword, req.NewPassword); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "contraseña actualizada"})
}

// ForgotPassword godoc
// POST /user/forgot-password
// Body: { "email": "..." }
//
// Anti-enumeración: exista o no el email, la respuesta es la misma.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authService.ForgotPassword(r.Context(), &req); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{
		"message": "si la cuenta existe, recibirás un correo con las instrucciones",
	})
}

// ResetPassword godoc
// POST /user/reset-password
// Body: { "token": "...", "new_password": "..." }
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authService.ResetPassword(r.Context(), &req); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{
		"message": "la contraseña fue restablecida",
	})
}

// UsuarioContextKey es la clave con la que el auth middleware deja el
// usuario en el context.
//
// context.Value() acepta any como clave — un string pelado puede chocar con
// otros paquetes. Un tipo propio elimina la colisión de namespace.
type contextKey string

const UsuarioContextKey contextKey = "usuario"
