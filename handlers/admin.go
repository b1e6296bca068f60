package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/vozciudadana/portal/models"
	"github.com/vozciudadana/portal/pkg"
	"github.com/vozciudadana/portal/services"
)

// AdminHandler atiende la administración de cuentas y roles.
// Todas las rutas exigen ADMIN_USUARIOS o ADMINISTRADOR vía middleware.
type AdminHandler struct {
	usuarioService services.UsuarioService
}

// NewAdminHandler, constructor.
func NewAdminHandler(usuarioService services.UsuarioService) *AdminHandler {
	return &AdminHandler{usuarioService: usuarioService}
}

// ListUsuarios godoc
// GET /api/admin/usuarios
func (h *AdminHandler) ListUsuarios(w http.ResponseWriter, r *http.Request) {
	usuarios, err := h.usuarioService.Listar(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, usuarios)
}

// GetUsuario godoc
// GET /api/admin/usuarios/{id}
func (h *AdminHandler) GetUsuario(w http.ResponseWriter, r *http.Request) {
	u, err := h.usuarioService.Obtener(r.Context(), r.PathValue("id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, u)
}

// SetActivo godoc
// PATCH /api/admin/usuarios/{id}/activo
// Body: { "activo": bool }
func (h *AdminHandler) SetActivo(w http.ResponseWriter, r *http.Request) {
	actor, ok := r.Context().Value(UsuarioContextKey).(*models.Usuario)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "usuario no encontrado en el contexto")
		return
	}

	var req struct {
		Activo bool `json:"activo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.usuarioService.SetActivo(r.Context(), actor.ID, r.PathValue("id"), req.Activo); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "cuenta actualizada"})
}

// AsignarRol godoc
// POST /api/admin/usuarios/{id}/roles
// Body: { "rol": "GESTOR_PQRS" }
func (h *AdminHandler) AsignarRol(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rol string `json:"rol"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Rol == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "el rol es obligatorio")
		return
	}

	u, err := h.usuarioService.AsignarRol(r.Context(), r.PathValue("id"), req.Rol)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, u)
}

// QuitarRol godoc
// DELETE /api/admin/usuarios/{id}/roles/{rol}
func (h *AdminHandler) QuitarRol(w http.ResponseWriter, r *http.Request) {
	actor, ok := r.Context().Value(UsuarioContextKey).(*models.Usuario)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "usuario no encontrado en el contexto")
		return
	}

	u, err := h.usuarioService.QuitarRol(r.Context(), actor.ID, r.PathValue("id"), r.PathValue("rol"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, u)
}

// ListRoles godoc
// GET /api/admin/roles — catálogo de roles asignables.
func (h *AdminHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.usuarioService.Roles(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, roles)
}
