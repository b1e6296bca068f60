package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// TipoPqrs clasifica la solicitud ciudadana:
// Petición, Queja, Reclamo o Sugerencia.
type TipoPqrs string

const (
	PqrsPeticion   TipoPqrs = "peticion"
	PqrsQueja      TipoPqrs = "queja"
	PqrsReclamo    TipoPqrs = "reclamo"
	PqrsSugerencia TipoPqrs = "sugerencia"
)

// Valido indica si el tipo es uno de los conocidos.
func (t TipoPqrs) Valido() bool {
	switch t {
	case PqrsPeticion, PqrsQueja, PqrsReclamo, PqrsSugerencia:
		return true
	}
	return false
}

// EstadoPqrs es el estado de trámite de una solicitud.
type EstadoPqrs string

const (
	PqrsRadicada  EstadoPqrs = "radicada"
	PqrsEnTramite EstadoPqrs = "en_tramite"
	PqrsResuelta  EstadoPqrs = "resuelta"
	PqrsCerrada   EstadoPqrs = "cerrada"
)

// transiciones válidas del ciclo de vida.
// radicada → en_tramite → resuelta → cerrada; una resuelta puede reabrirse
// a en_tramite si el gestor necesita ampliar la respuesta.
var transicionesPqrs = map[EstadoPqrs][]EstadoPqrs{
	PqrsRadicada:  {PqrsEnTramite},
	PqrsEnTramite: {PqrsResuelta},
	PqrsResuelta:  {PqrsCerrada, PqrsEnTramite},
	PqrsCerrada:   {},
}

// PuedeTransicionar indica si el paso de estado es legal.
func (e EstadoPqrs) PuedeTransicionar(destino EstadoPqrs) bool {
	for _, d := range transicionesPqrs[e] {
		if d == destino {
			return true
		}
	}
	return false
}

// Pqrs es una solicitud ciudadana radicada en el portal.
//
// Los datos de contacto (email y teléfono) se cifran en reposo con AES-GCM —
// los campos aquí siempre contienen el valor en claro; el cifrado/descifrado
// ocurre en la capa de repository.
//
// UsuarioID es nil cuando la solicitud se radica de forma anónima.
type Pqrs struct {
	ID               string     `json:"id"`
	Radicado         string     `json:"radicado"`
	Tipo             TipoPqrs   `json:"tipo"`
	Asunto           string     `json:"asunto"`
	Descripcion      string     `json:"descripcion"`
	Estado           EstadoPqrs `json:"estado"`
	NombreContacto   string     `json:"nombre_contacto"`
	EmailContacto    string     `json:"email_contacto,omitempty"`
	TelefonoContacto string     `json:"telefono_contacto,omitempty"`
	UsuarioID        *string    `json:"usuario_id"`
	Respuesta        *string    `json:"respuesta"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ConsultaPqrs es la vista pública de una solicitud — consulta por radicado.
// Nunca incluye datos de contacto ni el ID interno.
type ConsultaPqrs struct {
	Radicado  string     `json:"radicado"`
	Tipo      TipoPqrs   `json:"tipo"`
	Asunto    string     `json:"asunto"`
	Estado    EstadoPqrs `json:"estado"`
	Respuesta *string    `json:"respuesta"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Consulta proyecta la solicitud a su vista pública.
func (p *Pqrs) Consulta() *ConsultaPqrs {
	return &ConsultaPqrs{
		Radicado:  p.Radicado,
		Tipo:      p.Tipo,
		Asunto:    p.Asunto,
		Estado:    p.Estado,
		Respuesta: p.Respuesta,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// CrearPqrsRequest, radicación de una solicitud (pública, no requiere sesión).
type CrearPqrsRequest struct {
	Tipo             TipoPqrs `json:"tipo"`
	Asunto           string   `json:"asunto"`
	Descripcion      string   `json:"descripcion"`
	NombreContacto   string   `json:"nombre_contacto"`
	EmailContacto    string   `json:"email_contacto"`
	TelefonoContacto string   `json:"telefono_contacto"`
}

// Validate verifica las reglas de radicación.
func (r *CrearPqrsRequest) Validate() error {
	if !r.Tipo.Valido() {
		return fmt.Errorf("tipo de solicitud inválido: %q", r.Tipo)
	}

	r.Asunto = strings.TrimSpace(r.Asunto)
	n := utf8.RuneCountInString(r.Asunto)
	if n < 5 || n > 200 {
		return fmt.Errorf("el asunto debe tener entre 5 y 200 caracteres")
	}

	if utf8.RuneCountInString(strings.TrimSpace(r.Descripcion)) < 20 {
		return fmt.Errorf("la descripción debe tener al menos 20 caracteres")
	}

	r.NombreContacto = strings.TrimSpace(r.NombreContacto)
	if r.NombreContacto == "" {
		return fmt.Errorf("el nombre de contacto es obligatorio")
	}

	r.EmailContacto = strings.TrimSpace(strings.ToLower(r.EmailContacto))
	if r.EmailContacto != "" && !emailRegex.MatchString(r.EmailContacto) {
		return fmt.Errorf("formato de email inválido")
	}

	return nil
}

// CambiarEstadoPqrsRequest, transición de estado desde el panel de gestión.
// Respuesta es obligatoria al pasar a "resuelta".
type CambiarEstadoPqrsRequest struct {
	Estado    EstadoPqrs `json:"estado"`
	Respuesta string     `json:"respuesta"`
}

// FiltroPqrs, parámetros del listado de gestión.
type FiltroPqrs struct {
	Tipo      TipoPqrs   // vacío = todos
	Estado    EstadoPqrs // vacío = todos
	Pagina    int
	PorPagina int
}

// Normalizar acota la paginación.
func (f *FiltroPqrs) Normalizar() {
	if f.Pagina < 1 {
		f.Pagina = 1
	}
	if f.PorPagina < 1 || f.PorPagina > 100 {
		f.PorPagina = 20
	}
}

// Offset devuelve el desplazamiento SQL derivado de la página.
func (f *FiltroPqrs) Offset() int {
	return (f.Pagina - 1) * f.PorPagina
}

// PaginaPqrs, resultado del listado de gestión.
type PaginaPqrs struct {
	Items     []Pqrs `json:"items"`
	Total     int    `json:"total"`
	Pagina    int    `json:"pagina"`
	PorPagina int    `json:"por_pagina"`
}
