package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/vozciudadana/portal/handlers"
	"github.com/vozciudadana/portal/pkg"
	"github.com/vozciudadana/portal/repository"
	"github.com/vozciudadana/portal/services"
)

// AuthMiddleware exige un bearer token válido en los endpoints del API.
//
// Formato del header: Authorization: Bearer <token>
//
// A diferencia del borde (que solo decodifica), aquí el token SÍ se verifica
// criptográficamente vía AuthService — estos endpoints mutan datos.
type AuthMiddleware struct {
	authService services.AuthService
	usuarioRepo repository.UsuarioRepository
}

// NewAuthMiddleware, constructor.
func NewAuthMiddleware(authService services.AuthService, usuarioRepo repository.UsuarioRepository) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		usuarioRepo: usuarioRepo,
	}
}

// Require devuelve 401 si no hay token válido; si lo hay, carga el usuario
// desde la DB (el token puede ser válido y el usuario estar borrado o
// desactivado) y lo deja en el context para los handlers.
func (m *AuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "authorization header required")
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "invalid authorization format, use: Bearer <token>")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := m.authService.ValidateToken(tokenString)
		if err != nil {
			pkg.Error(w, err)
			return
		}

		usuario, err := m.usuarioRepo.GetByID(r.Context(), claims.Subject)
		if err != nil {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found")
			return
		}

		if !usuario.Activo {
			pkg.ErrorWithMessage(w, http.StatusForbidden, "cuenta desactivada")
			return
		}

		// Nunca arrastrar el hash por el context
		usuario.PasswordHash = ""

		ctx := context.WithValue(r.Context(), handlers.UsuarioContextKey, usuario)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Optional carga el usuario en el context si llega un bearer válido, pero
// deja pasar la petición igual si no hay token o no valida. Lo usa la
// radicación de PQRS: es pública, pero con sesión la solicitud queda
// asociada a la cuenta.
func (m *AuthMiddleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.authService.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		usuario, err := m.usuarioRepo.GetByID(r.Context(), claims.Subject)
		if err != nil || !usuario.Activo {
			next.ServeHTTP(w, r)
			return
		}

		usuario.PasswordHash = ""
		ctx := context.WithValue(r.Context(), handlers.UsuarioContextKey, usuario)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
