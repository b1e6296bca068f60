package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/vozciudadana/portal/models"
	"github.com/vozciudadana/portal/pkg"
	"github.com/vozciudadana/portal/services"
)

// PqrsHandler atiende la radicación pública, la consulta por radicado y el
// panel de gestión de solicitudes.
type PqrsHandler struct {
	service services.PqrsService
}

// NewPqrsHandler, constructor.
func NewPqrsHandler(service services.PqrsService) *PqrsHandler {
	return &PqrsHandler{service: service}
}

// Radicar godoc
// POST /api/pqrs
//
// Endpoint público: no requiere sesión. Si la petición llega con sesión
// (bearer opcional resuelto por el middleware), la solicitud queda asociada
// al usuario y recibirá notificaciones de cambio de estado.
func (h *PqrsHandler) Radicar(w http.ResponseWriter, r *http.Request) {
	var req models.CrearPqrsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var usuarioID *string
	if usuario, ok := r.Context().Value(UsuarioContextKey).(*models.Usuario); ok {
		usuarioID = &usuario.ID
	}

	p, err := h.service.Radicar(r.Context(), usuarioID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, map[string]string{"radicado": p.Radicado})
}

// Consultar godoc
// GET /api/pqrs/consulta?radicado=PQRS-XXXXXXXX
//
// Consulta pública por número de radicado — devuelve la vista sin datos de
// contacto. No requiere sesión: el radicado funciona como capability.
func (h *PqrsHandler) Consultar(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Consultar(r.Context(), r.URL.Query().Get("radicado"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, c)
}

// List godoc
// GET /api/admin/pqrs?tipo=queja&estado=radicada&pagina=1
//
// Panel de gestión. Requiere GESTOR_PQRS.
func (h *PqrsHandler) List(w http.ResponseWriter, r *http.Request) {
	f := &models.FiltroPqrs{
		Tipo:   models.TipoPqrs(r.URL.Query().Get("tipo")),
		Estado: models.EstadoPqrs(r.URL.Query().Get("estado")),
	}
	if p := r.URL.Query().Get("pagina"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil {
			f.Pagina = parsed
		}
	}
	if pp := r.URL.Query().Get("por_pagina"); pp != "" {
		if parsed, err := strconv.Atoi(pp); err == nil {
			f.PorPagina = parsed
		}
	}

	pagina, err := h.service.Listar(r.Context(), f)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, pagina)
}

// Get godoc
// GET /api/admin/pqrs/{id} — solicitud completa, con datos de contacto.
func (h *PqrsHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Obtener(r.Context(), r.PathValue("id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, p)
}

// CambiarEstado godoc
// PATCH /api/admin/pqrs/{id}/estado
// Body: { "estado": "resuelta", "respuesta": "..." }
func (h *PqrsHandler) CambiarEstado(w http.ResponseWriter, r *http.Request) {
	var req models.CambiarEstadoPqrsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.service.CambiarEstado(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, p)
}
