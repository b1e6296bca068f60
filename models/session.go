package models

import "time"

// Códigos de razón que el endpoint de sesión devuelve al cliente.
// El frontend distingue entre ellos (ej: "expired" dispara limpieza de estado
// local, "no-token" simplemente significa visitante anónimo).
const (
	SessionReasonNoToken           = "no-token"
	SessionReasonInvalidFormat     = "invalid-format"
	SessionReasonExpired           = "expired"
	SessionReasonMissingIdentifier = "missing-identifier"
	SessionReasonError             = "error"
	SessionReasonServerError       = "server-error"
)

// SessionStatus es la respuesta de GET /api/auth/session.
//
// La forma de wire está fijada por contrato con el frontend — no usa el
// sobre pkg.APIResponse. ExpiredAt solo se incluye con reason "expired".
type SessionStatus struct {
	Valid     bool         `json:"valid"`
	Reason    string       `json:"reason,omitempty"`
	ExpiredAt *time.Time   `json:"expiredAt,omitempty"`
	User      *SessionUser `json:"user,omitempty"`
}

// SessionUser es la proyección del usuario que expone el endpoint de sesión:
// solo lo que el cliente necesita para decisiones de autorización.
type SessionUser struct {
	ID          string   `json:"id"`
	Email       string   `json:"email,omitempty"`
	Authorities []string `json:"authorities,omitempty"`
}

// SessionCreateRequest es el body de POST /api/auth/session.
type SessionCreateRequest struct {
	Token      string `json:"token"`
	RememberMe bool   `json:"rememberMe"`
}

// SessionResult es la respuesta de POST y DELETE /api/auth/session.
type SessionResult struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason,omitempty"`
}
