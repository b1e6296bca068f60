// Package session construye y elimina la cookie de sesión del portal.
//
// La cookie guarda el bearer token crudo — el único estado de sesión que
// existe, y lo sostiene el cliente. Atributos: HttpOnly (el JS del navegador
// no la lee), SameSite=Strict, Path=/ y Secure en producción.
//
// Ciclo de vida: se crea en el login (POST /api/auth/session), se lee en cada
// request, y se borra en logout, al vencer el token o al detectarlo inválido.
package session

import (
	"net/http"

	"github.com/vozciudadana/portal/pkg/token"
)

// CookieName es el nombre fijo de la cookie de sesión.
const CookieName = "auth-token"

// RememberMeSeconds es el piso de vida de la cookie con "recuérdame": 30 días.
const RememberMeSeconds = 30 * 24 * 3600

// MaxAge calcula la vida de la cookie a partir del token.
//
// Base: segundos hasta `exp`, nunca menos de 1 hora. Con rememberMe la vida
// sube al menos a 30 días — la cookie puede sobrevivir al token; el refresco
// del token es asunto del validador de sesión del cliente, no de la cookie.
func MaxAge(tok string, rememberMe bool) int {
	age := token.ExpirySeconds(tok)
	if age < token.MinExpirySeconds {
		age = token.MinExpirySeconds
	}
	if rememberMe && age < RememberMeSeconds {
		age = RememberMeSeconds
	}
	return age
}

// Build construye la cookie de sesión lista para Set-Cookie.
// secure viene de config (APP_ENV=production).
func Build(tok string, rememberMe, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    tok,
		Path:     "/",
		MaxAge:   MaxAge(tok, rememberMe),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// Expired construye la cookie de borrado (Max-Age: 0 en el wire).
// net/http serializa MaxAge<0 como "Max-Age=0", que es lo que borra la
// cookie en el navegador.
func Expired(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// Delete escribe la cookie de borrado en la respuesta.
func Delete(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, Expired(secure))
}

// Read devuelve el valor de la cookie de sesión del request.
// ("", false) si no existe o está vacía — ambos casos equivalen a "sin token".
func Read(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}
