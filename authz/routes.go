// Package authz clasifica rutas del portal y resuelve la decisión de
// autorización que comparten el middleware de borde y el guard del cliente.
//
// Todo aquí es puro: (path, estado) → veredicto. Sin red, sin DB, sin estado
// compartido — cada request se evalúa de forma aislada.
package authz

import (
	"strings"

	"github.com/vozciudadana/portal/models"
)

// publicRoutes: rutas accesibles sin sesión. Un path matchea si es igual a la
// entrada o sub-path de ella. La raíz "/" matchea solo exacta — si no, todo
// sería público.
var publicRoutes = []string{
	"/",
	"/login",
	"/registro",
	"/publicaciones",
	"/noticias",
	"/eventos",
	"/ofertas",
	"/organizaciones",
	"/pqrs",
	"/acerca",
	"/recuperar-password",
}

// authRoutes: páginas de autenticación. Son públicas, pero con sesión activa
// reciben tratamiento especial (redirigir al inicio).
var authRoutes = []string{
	"/login",
	"/registro",
}

// RouteDescriptor asocia un prefijo de ruta con las authorities que exige.
// Authorities vacío = basta estar autenticado.
type RouteDescriptor struct {
	Prefix      string
	Authorities []string
}

// routeDescriptors: permisos por sección del panel. El orden no importa —
// HasPermissionForRoute elige el prefijo más específico (el más largo).
//
// Invariante de la política: un path protegido sin descriptor queda en
// "autenticado sin permiso específico" — permitido para cualquier usuario con
// sesión. Ese default es el colchón para rutas nuevas que olviden registrarse
// aquí y debe conservarse tal cual.
var routeDescriptors = []RouteDescriptor{
	{Prefix: "/admin", Authorities: []string{
		models.RolAdministrador,
		models.RolGestorContenido,
		models.RolGestorPqrs,
		models.RolGestorOrganizaciones,
		models.RolAdminUsuarios,
	}},
	{Prefix: "/admin/usuario", Authorities: []string{models.RolAdminUsuarios, models.RolAdministrador}},
	{Prefix: "/admin/publicaciones", Authorities: []string{models.RolGestorContenido, models.RolAdministrador}},
	{Prefix: "/admin/pqrs", Authorities: []string{models.RolGestorPqrs, models.RolAdministrador}},
	{Prefix: "/admin/organizaciones", Authorities: []string{models.RolGestorOrganizaciones, models.RolAdministrador}},
	{Prefix: "/perfil", Authorities: nil}, // cualquier autenticado
}

// matchea indica si path es igual al prefijo o sub-path de él.
// "/" solo matchea exacto.
func matchea(path, prefix string) bool {
	if prefix == "/" {
		return path == "/"
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// IsPublicRoute indica si el path es público (igual o sub-path de una entrada
// de la lista pública).
func IsPublicRoute(path string) bool {
	for _, p := range publicRoutes {
		if matchea(path, p) {
			return true
		}
	}
	return false
}

// IsAuthRoute indica si el path es una página de autenticación.
func IsAuthRoute(path string) bool {
	for _, p := range authRoutes {
		if matchea(path, p) {
			return true
		}
	}
	return false
}

// HasPermissionForRoute resuelve si el conjunto de authorities del usuario
// satisface el descriptor más específico que matchee el path.
//
// Semántica OR: basta con que UNA authority del usuario esté en el conjunto
// requerido. Sin descriptor que matchee, o con descriptor sin requisitos,
// el acceso se permite (ya hay sesión — eso se verificó antes).
func HasPermissionForRoute(path string, userAuthorities []string) bool {
	var mejor *RouteDescriptor
	for i := range routeDescriptors {
		d := &routeDescriptors[i]
		if !matchea(path, d.Prefix) {
			continue
		}
		if mejor == nil || len(d.Prefix) > len(mejor.Prefix) {
			mejor = d
		}
	}

	if mejor == nil || len(mejor.Authorities) == 0 {
		return true
	}

	for _, req := range mejor.Authorities {
		for _, a := range userAuthorities {
			if a == req {
				return true
			}
		}
	}
	return false
}
