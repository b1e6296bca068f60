package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// TipoOrganizacion distingue organizaciones sociales de comités municipales.
type TipoOrganizacion string

const (
	OrgOrganizacion TipoOrganizacion = "organizacion"
	OrgComite       TipoOrganizacion = "comite"
)

// Valido indica si el tipo es uno de los conocidos.
func (t TipoOrganizacion) Valido() bool {
	return t == OrgOrganizacion || t == OrgComite
}

// Organizacion es una organización social o comité registrado en el portal.
type Organizacion struct {
	ID            string           `json:"id"`
	Nombre        string           `json:"nombre"`
	Tipo          TipoOrganizacion `json:"tipo"`
	Descripcion   string           `json:"descripcion"`
	EmailContacto string           `json:"email_contacto,omitempty"`
	Direccion     string           `json:"direccion,omitempty"`
	Activa        bool             `json:"activa"`
	CreatedAt     time.Time        `json:"created_at"`
}

// GuardarOrganizacionRequest sirve para alta y edición completa.
type GuardarOrganizacionRequest struct {
	Nombre        string           `json:"nombre"`
	Tipo          TipoOrganizacion `json:"tipo"`
	Descripcion   string           `json:"descripcion"`
	EmailContacto string           `json:"email_contacto"`
	Direccion     string           `json:"direccion"`
	Activa        bool             `json:"activa"`
}

// Validate verifica las reglas de alta/edición.
func (r *GuardarOrganizacionRequest) Validate() error {
	if !r.Tipo.Valido() {
		return fmt.Errorf("tipo de organización inválido: %q", r.Tipo)
	}

	r.Nombre = strings.TrimSpace(r.Nombre)
	n := utf8.RuneCountInString(r.Nombre)
	if n < 3 || n > 150 {
		return fmt.Errorf("el nombre debe tener entre 3 y 150 caracteres")
	}

	r.EmailContacto = strings.TrimSpace(strings.ToLower(r.EmailContacto))
	if r.EmailContacto != "" && !emailRegex.MatchString(r.EmailContacto) {
		return fmt.Errorf("formato de email inválido")
	}

	return nil
}
