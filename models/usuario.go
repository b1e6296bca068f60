// Package models define los modelos de dominio del portal.
//
// Un modelo es la representación en Go de una tabla de la base de datos y,
// a la vez, la forma de los datos que entran y salen por el API.
// Los tags `json:"..."` controlan la serialización.
package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Nombres de rol (authorities) del portal.
// Son strings y no un bitfield porque viajan como claims del token y el
// frontend los compara por nombre.
const (
	RolAdministrador        = "ADMINISTRADOR"
	RolGestorContenido      = "GESTOR_CONTENIDO"
	RolGestorPqrs           = "GESTOR_PQRS"
	RolGestorOrganizaciones = "GESTOR_ORGANIZACIONES"
	RolAdminUsuarios        = "ADMIN_USUARIOS"
	RolCiudadano            = "CIUDADANO"
)

// Usuario representa una cuenta del portal.
type Usuario struct {
	ID           string    `json:"id"`
	Nombre       string    `json:"nombre"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // nunca sale por el API
	Activo       bool      `json:"activo"`
	Roles        []Rol     `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
}

// Authorities devuelve los nombres de rol del usuario como []string —
// es lo que se emite en el claim `authorities` del token.
func (u *Usuario) Authorities() []string {
	if len(u.Roles) == 0 {
		return nil
	}
	auths := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		auths = append(auths, r.Nombre)
	}
	return auths
}

// TieneRol indica si el usuario tiene el rol dado.
func (u *Usuario) TieneRol(nombre string) bool {
	for _, r := range u.Roles {
		if r.Nombre == nombre {
			return true
		}
	}
	return false
}

// Rol representa un rol asignable. Nombre es la authority que viaja en el token.
type Rol struct {
	ID          string `json:"id"`
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion,omitempty"`
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// EmailRegex expone la validación de email para otras capas.
func EmailRegex() *regexp.Regexp { return emailRegex }

// RegistroRequest, datos del auto-registro ciudadano.
// Recibimos Password plano — el hash se hace en la capa de service.
type RegistroRequest struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate verifica las reglas del registro:
//   - Nombre: 3-80 caracteres
//   - Email: formato válido
//   - Password: mínimo 8 caracteres
func (r *RegistroRequest) Validate() error {
	r.Nombre = strings.TrimSpace(r.Nombre)
	n := utf8.RuneCountInString(r.Nombre)
	if n < 3 || n > 80 {
		return fmt.Errorf("el nombre debe tener entre 3 y 80 caracteres")
	}

	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	if !emailRegex.MatchString(r.Email) {
		return fmt.Errorf("formato de email inválido")
	}

	if utf8.RuneCountInString(r.Password) < 8 {
		return fmt.Errorf("la contraseña debe tener al menos 8 caracteres")
	}

	return nil
}

// LoginRequest, credenciales de inicio de sesión.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate verifica que las credenciales no estén vacías.
func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	if r.Email == "" {
		return fmt.Errorf("el email es obligatorio")
	}
	if r.Password == "" {
		return fmt.Errorf("la contraseña es obligatoria")
	}
	return nil
}

// ForgotPasswordRequest, solicitud de recuperación de contraseña.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// Validate normaliza y verifica el email.
func (r *ForgotPasswordRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	if !emailRegex.MatchString(r.Email) {
		return fmt.Errorf("formato de email inválido")
	}
	return nil
}

// ResetPasswordRequest, restablecimiento con el token recibido por correo.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// Validate verifica token presente y contraseña mínima.
func (r *ResetPasswordRequest) Validate() error {
	if strings.TrimSpace(r.Token) == "" {
		return fmt.Errorf("el token es obligatorio")
	}
	if utf8.RuneCountInString(r.NewPassword) < 8 {
		return fmt.Errorf("la contraseña debe tener al menos 8 caracteres")
	}
	return nil
}
