package models

import "time"

// ResetToken es un token de restablecimiento de contraseña.
//
// En la DB se guarda solo el SHA-256 del token; el valor en claro viaja una
// única vez en el enlace del correo. Un token es de un solo uso: al
// consumirse se borra la fila.
type ResetToken struct {
	ID        string    `json:"id"`
	UsuarioID string    `json:"usuario_id"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Vencido indica si el token ya no es utilizable.
func (t *ResetToken) Vencido() bool {
	return time.Now().After(t.ExpiresAt)
}
