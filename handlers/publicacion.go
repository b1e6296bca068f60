package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/vozciudadana/portal/models"
	"github.com/vozciudadana/portal/pkg"
	"github.com/vozciudadana/portal/services"
)

// PublicacionHandler atiende el contenido del portal: el listado público y
// las operaciones del panel de gestión.
type PublicacionHandler struct {
	service services.PublicacionService
}

// NewPublicacionHandler, constructor.
func NewPublicacionHandler(service services.PublicacionService) *PublicacionHandler {
	return &PublicacionHandler{service: service}
}

// List godoc
// GET /api/publicaciones?tipo=noticia&buscar=...&pagina=1&por_pagina=20
//
// Listado público — solo contenido publicado.
func (h *PublicacionHandler) List(w http.ResponseWriter, r *http.Request) {
	f := filtroDesdeQuery(r)
	f.SoloPublicadas = true

	pagina, err := h.service.Listar(r.Context(), f)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, pagina)
}

// ListAdmin godoc
// GET /api/admin/publicaciones
//
// Listado de gestión — incluye borradores. Requiere GESTOR_CONTENIDO.
func (h *PublicacionHandler) ListAdmin(w http.ResponseWriter, r *http.Request) {
	f := filtroDesdeQuery(r)

	pagina, err := h.service.Listar(r.Context(), f)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, pagina)
}

// Get godoc
// GET /api/publicaciones/{id}
func (h *PublicacionHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Obtener(r.Context(), r.PathValue("id"), false)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, p)
}

// GetAdmin godoc
// GET /api/admin/publicaciones/{id} — ve también borradores.
func (h *PublicacionHandler) GetAdmin(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Obtener(r.Context(), r.PathValue("id"), true)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, p)
}

// Create godoc
// POST /api/admin/publicaciones
func (h *PublicacionHandler) Create(w http.ResponseWriter, r *http.Request) {
	usuario, ok := r.Context().Value(UsuarioContextKey).(*models.Usuario)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "usuario no encontrado en el contexto")
		return
	}

	var req models.CrearPublicacionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.service.Crear(r.Context(), usuario.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, p)
}

// Update godoc
// PATCH /api/admin/publicaciones/{id}
func (h *PublicacionHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.ActualizarPublicacionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.service.Actualizar(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, p)
}

// Delete godoc
// DELETE /api/admin/publicaciones/{id}
func (h *PublicacionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Eliminar(r.Context(), r.PathValue("id")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "publicación eliminada"})
}

// filtroDesdeQuery arma el filtro de listado desde la query string.
func filtroDesdeQuery(r *http.Request) *models.FiltroPublicaciones {
	f := &models.FiltroPublicaciones{
		Tipo:   models.TipoPublicacion(r.URL.Query().Get("tipo")),
		Buscar: r.URL.Query().Get("buscar"),
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

	return f
}
