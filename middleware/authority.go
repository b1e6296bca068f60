package middleware

import (
	"net/http"

	"github.com/vozciudadana/portal/handlers"
	"github.com/vozciudadana/portal/models"
	"github.com/vozciudadana/portal/pkg"
)

// AuthorityMiddleware verifica que el usuario autenticado tenga alguna de las
// authorities requeridas. Corre SIEMPRE después de AuthMiddleware — el
// usuario ya está en el context.
//
// Flujo: request → AuthMiddleware (verifica token, carga usuario)
//                → AuthorityMiddleware (chequea roles) → Handler
type AuthorityMiddleware struct{}

// NewAuthorityMiddleware, constructor.
func NewAuthorityMiddleware() *AuthorityMiddleware {
	return &AuthorityMiddleware{}
}

// Require devuelve un middleware que exige al menos UNA de las authorities
// dadas (semántica OR — la misma que aplica el clasificador de rutas).
//
// Patrón "middleware factory": Require devuelve la función que envuelve al
// handler, parametrizada por las authorities.
func (m *AuthorityMiddleware) Require(next http.Handler, authorities ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		usuario, ok := r.Context().Value(handlers.UsuarioContextKey).(*models.Usuario)
		if !ok {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
			return
		}

		for _, a := range authorities {
			if usuario.TieneRol(a) {
				next.ServeHTTP(w, r)
				return
			}
		}

		pkg.ErrorWithMessage(w, http.StatusForbidden, "permisos insuficientes")
	})
}
