// Package middleware contiene las capas intermedias del pipeline HTTP.
//
// Hay dos familias:
//   - edge.go: la puerta de las rutas de página (SPA) — decide redirigir,
//     rechazar o dejar pasar ANTES de servir la página.
//   - auth.go / authority.go: protección de endpoints del API vía header
//     Authorization, al estilo clásico Auth → Permiso → Handler.
package middleware

import (
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/vozciudadana/portal/authz"
	"github.com/vozciudadana/portal/pkg/session"
	"github.com/vozciudadana/portal/pkg/token"
)

// extensionesIgnoradas: requests con estas extensiones pasan sin tocar.
// Lista fija — assets binarios y de texto que nunca requieren sesión.
var extensionesIgnoradas = map[string]bool{
	".svg": true, ".jpg": true, ".jpeg": true, ".png": true,
	".gif": true, ".webp": true, ".ico": true, ".txt": true, ".json": true,
}

// prefijosIgnorados: el API y el WebSocket tienen su propia autenticación
// (Bearer header / query param); los assets estáticos no necesitan ninguna.
var prefijosIgnorados = []string{"/api/", "/user/", "/ws", "/assets/", "/static/"}

// EdgeMiddleware es la puerta por-request de las rutas de página.
//
// Evalúa en orden estricto, primera coincidencia gana:
//  1. Path ignorado (API, assets, extensión de archivo) → pasa intacto.
//  2. Página de login/registro con cookie presente:
//     a. Token válido y sin referer del mismo origen (navegación directa) →
//     redirige al inicio; con referer propio → pasa con X-Auth-Status: valid,
//     así la propia página detecta la sesión activa sin otro round-trip.
//     b. Token inválido/vencido → borra cookie, X-Auth-Status: expired, pasa
//     (el login debe renderizar normal).
//  3. Ruta pública → pasa.
//  4. Ruta protegida sin cookie → login con callbackUrl del destino original.
//  5. Cookie inválida/vencida en ruta protegida → borra cookie, marca
//     expired, redirige al login.
//  6. Cookie válida → resuelve permisos; insuficiente → página no-encontrado
//     (nunca un 403 — no se revela que la ruta existe); suficiente → pasa.
//
// Los pasos 3-6 son authz.Decide con EdgePolicy; el paso 2 es exclusivo del
// borde porque depende del referer y de poder escribir la cookie.
type EdgeMiddleware struct {
	secure bool // atributo Secure de la cookie al borrarla
}

// NewEdgeMiddleware, constructor.
func NewEdgeMiddleware(secureCookies bool) *EdgeMiddleware {
	return &EdgeMiddleware{secure: secureCookies}
}

// Gate envuelve el handler de páginas con la máquina de estados de arriba.
func (m *EdgeMiddleware) Gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Path

		// 1. Paths ignorados
		if esIgnorado(p) {
			next.ServeHTTP(w, r)
			return
		}

		tok, hasToken := session.Read(r)

		// 2. Página de autenticación con cookie presente
		if authz.IsAuthRoute(p) && hasToken {
			payload := token.ExtractPayload(tok)
			if payload != nil && !token.IsExpired(payload) {
				if !refererMismoOrigen(r) {
					// Navegación directa/externa con sesión activa → al inicio
					http.Redirect(w, r, authz.HomePath, http.StatusFound)
					return
				}
				// Navegación interna del router del cliente → dejar renderizar
				w.Header().Set("X-Auth-Status", authz.AuthStatusValid)
				next.ServeHTTP(w, r)
				return
			}

			// Token inválido o vencido: limpiar y dejar que el login renderice
			session.Delete(w, m.secure)
			w.Header().Set("X-Auth-Status", authz.AuthStatusExpired)
			next.ServeHTTP(w, r)
			return
		}

		// 3-6. Decisión compartida
		//
		// Nota: la validez aquí es forma + vencimiento. Un token sin `sub`
		// pasa el borde; el rechazo por missing-identifier ocurre solo en
		// GET /api/auth/session.
		state := authz.State{HasToken: hasToken}
		if hasToken {
			if payload := token.ExtractPayload(tok); payload != nil && !token.IsExpired(payload) {
				state.Authenticated = true
				state.Authorities = payload.AuthorityNames()
			}
		}

		v := authz.Decide(p, state, authz.EdgePolicy)

		if v.DeleteCookie {
			session.Delete(w, m.secure)
		}
		if v.AuthStatus != "" {
			w.Header().Set("X-Auth-Status", v.AuthStatus)
		}

		if v.Action == authz.Redirect {
			http.Redirect(w, r, v.Target, http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// esIgnorado decide el paso 1: API, WebSocket, assets y extensiones fijas.
func esIgnorado(p string) bool {
	for _, pref := range prefijosIgnorados {
		if p == strings.TrimSuffix(pref, "/") || strings.HasPrefix(p, pref) {
			return true
		}
	}
	return extensionesIgnoradas[strings.ToLower(path.Ext(p))]
}

// refererMismoOrigen indica si el header Referer apunta al mismo host del
// request. Distingue "escribió /login en la barra con sesión activa" de
// "el router del cliente navegó a /login dentro de la app".
func refererMismoOrigen(r *http.Request) bool {
	ref := r.Referer()
	if ref == "" {
		return false
	}
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}
