package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// TipoPublicacion clasifica el contenido del portal.
// No hay enums en Go — constantes tipadas cumplen el mismo rol.
type TipoPublicacion string

const (
	PublicacionNoticia      TipoPublicacion = "noticia"
	PublicacionEvento       TipoPublicacion = "evento"
	PublicacionOferta       TipoPublicacion = "oferta"
	PublicacionConvocatoria TipoPublicacion = "convocatoria"
)

// Valido indica si el tipo es uno de los conocidos.
func (t TipoPublicacion) Valido() bool {
	switch t {
	case PublicacionNoticia, PublicacionEvento, PublicacionOferta, PublicacionConvocatoria:
		return true
	}
	return false
}

// Publicacion es una pieza de contenido del portal (noticia, evento, oferta
// o convocatoria). FechaEvento solo aplica a eventos; Publicada controla la
// visibilidad en el listado público.
type Publicacion struct {
	ID          string          `json:"id"`
	Tipo        TipoPublicacion `json:"tipo"`
	Titulo      string          `json:"titulo"`
	Resumen     string          `json:"resumen"`
	Cuerpo      string          `json:"cuerpo"`
	ImagenURL   *string         `json:"imagen_url"`
	FechaEvento *time.Time      `json:"fecha_evento"`
	Publicada   bool            `json:"publicada"`
	AutorID     string          `json:"autor_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CrearPublicacionRequest, alta de contenido desde el panel de administración.
type CrearPublicacionRequest struct {
	Tipo        TipoPublicacion `json:"tipo"`
	Titulo      string          `json:"titulo"`
	Resumen     string          `json:"resumen"`
	Cuerpo      string          `json:"cuerpo"`
	ImagenURL   *string         `json:"imagen_url"`
	FechaEvento *time.Time      `json:"fecha_evento"`
	Publicada   bool            `json:"publicada"`
}

// Validate verifica las reglas de alta.
func (r *CrearPublicacionRequest) Validate() error {
	if !r.Tipo.Valido() {
		return fmt.Errorf("tipo de publicación inválido: %q", r.Tipo)
	}

	r.Titulo = strings.TrimSpace(r.Titulo)
	n := utf8.RuneCountInString(r.Titulo)
	if n < 3 || n > 200 {
		return fmt.Errorf("el título debe tener entre 3 y 200 caracteres")
	}

	if strings.TrimSpace(r.Cuerpo) == "" {
		return fmt.Errorf("el cuerpo es obligatorio")
	}

	if r.Tipo == PublicacionEvento && r.FechaEvento == nil {
		return fmt.Errorf("los eventos requieren fecha_evento")
	}

	return nil
}

// ActualizarPublicacionRequest, edición parcial — los campos nil no cambian.
type ActualizarPublicacionRequest struct {
	Titulo      *string          `json:"titulo"`
	Resumen     *string          `json:"resumen"`
	Cuerpo      *string          `json:"cuerpo"`
	ImagenURL   *string          `json:"imagen_url"`
	FechaEvento *time.Time       `json:"fecha_evento"`
	Publicada   *bool            `json:"publicada"`
	Tipo        *TipoPublicacion `json:"tipo"`
}

// FiltroPublicaciones, parámetros de listado con paginación.
type FiltroPublicaciones struct {
	Tipo          TipoPublicacion // vacío = todos los tipos
	Buscar        string          // búsqueda en título y resumen
	SoloPublicadas bool           // el listado público fuerza true
	Pagina        int
	PorPagina     int
}

// Normalizar acota la paginación a valores sanos.
func (f *FiltroPublicaciones) Normalizar() {
	if f.Pagina < 1 {
		f.Pagina = 1
	}
	if f.PorPagina < 1 || f.PorPagina > 100 {
		f.PorPagina = 20
	}
}

// Offset devuelve el desplazamiento SQL derivado de la página.
func (f *FiltroPublicaciones) Offset() int {
	return (f.Pagina - 1) * f.PorPagina
}

// PaginaPublicaciones, resultado de un listado paginado.
type PaginaPublicaciones struct {
	Items     []Publicacion `json:"items"`
	Total     int           `json:"total"`
	Pagina    int           `json:"pagina"`
	PorPagina int           `json:"por_pagina"`
}
