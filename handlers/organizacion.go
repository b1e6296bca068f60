package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/vozciudadana/portal/models"
	"github.com/vozciudadana/portal/pkg"
	"github.com/vozciudadana/portal/services"
)

// OrganizacionHandler atiende el directorio de organizaciones y comités.
type OrganizacionHandler struct {
	service services.OrganizacionService
}

// NewOrganizacionHandler, constructor.
func NewOrganizacionHandler(service services.OrganizacionService) *OrganizacionHandler {
	return &OrganizacionHandler{service: service}
}

// List godoc
// GET /api/organizaciones?tipo=comite
//
// Directorio público — solo activas.
func (h *OrganizacionHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Listar(r.Context(), models.TipoOrganizacion(r.URL.Query().Get("tipo")), true)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, items)
}

// ListAdmin godoc
// GET /api/admin/organizaciones — incluye inactivas. Requiere
// GESTOR_ORGANIZACIONES.
func (h *OrganizacionHandler) ListAdmin(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Listar(r.Context(), models.TipoOrganizacion(r.URL.Query().Get("tipo")), false)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, items)
}

// Get godoc
// GET /api/organizaciones/{id}
func (h *OrganizacionHandler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.Obtener(r.Context(), r.PathValue("id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, o)
}

// Create godoc
// POST /api/admin/organizaciones
func (h *OrganizacionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.GuardarOrganizacionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := h.service.Crear(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, o)
}

// Update godoc
// PUT /api/admin/organizaciones/{id}
func (h *OrganizacionHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.GuardarOrganizacionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := h.service.Actualizar(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, o)
}

// Delete godoc
// DELETE /api/admin/organizaciones/{id}
func (h *OrganizacionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Eliminar(r.Context(), r.PathValue("id")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "organización eliminada"})
}
