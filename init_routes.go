// Package main — registro de rutas HTTP.
//
// initRoutes conecta todos los endpoints al mux.
// Los helpers del middleware chain se definen aquí:
//   - auth: validación del token JWT
//   - autenticadoOpcional: carga el usuario si hay token, deja pasar si no
//   - conRol: auth + al menos una de las authorities indicadas
package main

import (
	"net/http"

	"github.com/vozciudadana/portal/config"
	"github.com/vozciudadana/portal/handlers"
	"github.com/vozciudadana/portal/middleware"
	"github.com/vozciudadana/portal/models"
	"github.com/vozciudadana/portal/repository"
	"github.com/vozciudadana/portal/services"
	"github.com/vozciudadana/portal/ws"
)

// Handlers agrupa los handlers HTTP para el wire-up.
// Se construye en main.go; initRoutes solo conecta.
type Handlers struct {
	Auth         *handlers.AuthHandler
	Session      *handlers.SessionHandler
	Publicacion  *handlers.PublicacionHandler
	Pqrs         *handlers.PqrsHandler
	Organizacion *handlers.OrganizacionHandler
	Admin        *handlers.AdminHandler
	WS           *ws.Handler
}

// initRoutes arma el middleware chain y registra todos los endpoints.
//
// Regla de orden: los paths literales se registran ANTES que los
// paramétricos. Ejemplo: "/api/pqrs/consulta" antes de "/api/pqrs/{id}",
// si no el router interpreta "consulta" como un id.
func initRoutes(
	mux *http.ServeMux,
	h *Handlers,
	authService services.AuthService,
	usuarioRepo repository.UsuarioRepository,
	cfg *config.Config,
) {
	// ─── Middleware ───
	authMw := middleware.NewAuthMiddleware(authService, usuarioRepo)
	rolMw := middleware.NewAuthorityMiddleware()
	edgeMw := middleware.NewEdgeMiddleware(cfg.Session.Secure)

	// ─── Middleware Chain Helpers ───
	auth := func(handler http.HandlerFunc) http.Handler {
		return authMw.Require(http.HandlerFunc(handler))
	}
	autenticadoOpcional := func(handler http.HandlerFunc) http.Handler {
		return authMw.Optional(http.HandlerFunc(handler))
	}
	conRol := func(handler http.HandlerFunc, authorities ...string) http.Handler {
		return authMw.Require(rolMw.Require(http.HandlerFunc(handler), authorities...))
	}

	// ╔══════════════════════════════════════════╗
	// ║  IDENTIDAD (backend API)                 ║
	// ╚══════════════════════════════════════════╝

	mux.HandleFunc("POST /user/register", h.Auth.Register)
	mux.HandleFunc("POST /user/login", h.Auth.Login)
	mux.HandleFunc("POST /user/forgot-password", h.Auth.ForgotPassword)
	mux.HandleFunc("POST /user/reset-password", h.Auth.ResetPassword)
	mux.Handle("GET /user/me", auth(h.Auth.Me))
	mux.Handle("POST /user/password", auth(h.Auth.ChangePassword))

	// ╔══════════════════════════════════════════╗
	// ║  SESIÓN (frontera del portal)            ║
	// ╚══════════════════════════════════════════╝

	mux.HandleFunc("GET /api/auth/session", h.Session.GetSession)
	mux.HandleFunc("POST /api/auth/session", h.Session.CreateSession)
	mux.HandleFunc("DELETE /api/auth/session", h.Session.DeleteSession)
	mux.HandleFunc("GET /api/auth/me", h.Session.Me)
	mux.HandleFunc("POST /api/auth/logout", h.Session.Logout)

	// ╔══════════════════════════════════════════╗
	// ║  CONTENIDO PÚBLICO                       ║
	// ╚══════════════════════════════════════════╝

	mux.HandleFunc("GET /api/publicaciones", h.Publicacion.List)
	mux.HandleFunc("GET /api/publicaciones/{id}", h.Publicacion.Get)

	mux.HandleFunc("GET /api/organizaciones", h.Organizacion.List)
	mux.HandleFunc("GET /api/organizaciones/{id}", h.Organizacion.Get)

	// PQRS — radicación anónima o autenticada; consulta pública por radicado
	mux.Handle("POST /api/pqrs", autenticadoOpcional(h.Pqrs.Radicar))
	mux.HandleFunc("GET /api/pqrs/consulta", h.Pqrs.Consultar)

	// ╔══════════════════════════════════════════╗
	// ║  GESTIÓN (authorities requeridas)        ║
	// ╚══════════════════════════════════════════╝

	// Contenido
	mux.Handle("GET /api/admin/publicaciones",
		conRol(h.Publicacion.ListAdmin, models.RolGestorContenido, models.RolAdministrador))
	mux.Handle("GET /api/admin/publicaciones/{id}",
		conRol(h.Publicacion.GetAdmin, models.RolGestorContenido, models.RolAdministrador))
	mux.Handle("POST /api/admin/publicaciones",
		conRol(h.Publicacion.Create, models.RolGestorContenido, models.RolAdministrador))
	mux.Handle("PATCH /api/admin/publicaciones/{id}",
		conRol(h.Publicacion.Update, models.RolGestorContenido, models.RolAdministrador))
	mux.Handle("DELETE /api/admin/publicaciones/{id}",
		conRol(h.Publicacion.Delete, models.RolGestorContenido, models.RolAdministrador))

	// PQRS
	mux.Handle("GET /api/admin/pqrs",
		conRol(h.Pqrs.List, models.RolGestorPqrs, models.RolAdministrador))
	mux.Handle("GET /api/admin/pqrs/{id}",
		conRol(h.Pqrs.Get, models.RolGestorPqrs, models.RolAdministrador))
	mux.Handle("PATCH /api/admin/pqrs/{id}/estado",
		conRol(h.Pqrs.CambiarEstado, models.RolGestorPqrs, models.RolAdministrador))

	// Organizaciones
	mux.Handle("GET /api/admin/organizaciones",
		conRol(h.Organizacion.ListAdmin, models.RolGestorOrganizaciones, models.RolAdministrador))
	mux.Handle("POST /api/admin/organizaciones",
		conRol(h.Organizacion.Create, models.RolGestorOrganizaciones, models.RolAdministrador))
	mux.Handle("PUT /api/admin/organizaciones/{id}",
		conRol(h.Organizacion.Update, models.RolGestorOrganizaciones, models.RolAdministrador))
	mux.Handle("DELETE /api/admin/organizaciones/{id}",
		conRol(h.Organizacion.Delete, models.RolGestorOrganizaciones, models.RolAdministrador))

	// Usuarios y roles
	mux.Handle("GET /api/admin/usuarios",
		conRol(h.Admin.ListUsuarios, models.RolAdminUsuarios, models.RolAdministrador))
	mux.Handle("GET /api/admin/usuarios/{id}",
		conRol(h.Admin.GetUsuario, models.RolAdminUsuarios, models.RolAdministrador))
	mux.Handle("PATCH /api/admin/usuarios/{id}/activo",
		conRol(h.Admin.SetActivo, models.RolAdminUsuarios, models.RolAdministrador))
	mux.Handle("POST /api/admin/usuarios/{id}/roles",
		conRol(h.Admin.AsignarRol, models.RolAdminUsuarios, models.RolAdministrador))
	mux.Handle("DELETE /api/admin/usuarios/{id}/roles/{rol}",
		conRol(h.Admin.QuitarRol, models.RolAdminUsuarios, models.RolAdministrador))
	mux.Handle("GET /api/admin/roles",
		conRol(h.Admin.ListRoles, models.RolAdminUsuarios, models.RolAdministrador))

	// WebSocket
	mux.HandleFunc("GET /ws", h.WS.HandleConnection)

	// Health check
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// ╔══════════════════════════════════════════╗
	// ║  PÁGINAS (SPA + middleware de borde)     ║
	// ╚══════════════════════════════════════════╝

	// Todo lo que no matchea arriba cae aquí: el middleware de borde decide
	// (servir, redirigir, borrar cookie) y el handler SPA entrega el build.
	mux.Handle("/", edgeMw.Gate(newSPAHandler()))
}
