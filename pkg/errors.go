// Package pkg contiene utilidades compartidas por todo el proyecto.
// Este archivo define los errores de dominio.
//
// En Go los errores son valores. Definimos errores centinela con errors.New()
// para que la comparación se haga por referencia y no por string:
//
//	if errors.Is(err, pkg.ErrNotFound) { ... }
//
// La capa de services devuelve estos errores envueltos con
// fmt.Errorf("%w: detalle"); la capa de handlers los traduce a códigos HTTP.
package pkg

import "errors"

// Errores de dominio.
var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrAlreadyExists = errors.New("already exists")
	ErrBadRequest    = errors.New("bad request")
	ErrInternal      = errors.New("internal error")
)
