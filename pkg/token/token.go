// Package token decodifica el bearer token del portal de forma estructural.
//
// Este paquete NO verifica firmas. Es la capa de decodificación del límite de
// sesión: protege contra tokens malformados o vencidos llegando a rutas
// protegidas, nada más. La autoridad sobre si un token fue emitido
// legítimamente es el backend de identidad, que sí firma y verifica
// (services/auth_service.go con golang-jwt).
//
// Regla de propagación: todo lo ambiguo o imposible de parsear se trata como
// "no autenticado" (fail-closed). Ninguna función de este paquete hace panic
// ni devuelve error — malformado es simplemente nil/false.
package token

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/vozciudadana/portal/models"
)

// MinExpirySeconds es la vida mínima de la cookie de sesión (1 hora).
// ExpirySeconds nunca devuelve menos que esto para tokens indecodificables —
// la cookie resultante jamás queda con vida cero por un token raro.
const MinExpirySeconds = 3600

// ExtractPayload decodifica el segmento central del token (base64url + JSON).
// Devuelve nil ante cualquier malformación: número de segmentos distinto de
// tres, base64 inválido o JSON inválido. Nunca propaga un error al caller.
func ExtractPayload(tok string) *models.TokenPayload {
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		return nil
	}

	// base64url sin padding; algunos emisores lo incluyen, se tolera.
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return nil
	}

	var payload models.TokenPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}

	return &payload
}

// IsExpired indica si el payload está vencido. Un payload sin claim `exp`
// se considera vencido — fail-closed.
func IsExpired(p *models.TokenPayload) bool {
	if p == nil || p.Exp == 0 {
		return true
	}
	return time.Now().Unix() >= p.Exp
}

// HasIdentifier indica si el payload identifica a un sujeto:
// claim `sub` o `id` presente y no vacío.
func HasIdentifier(p *models.TokenPayload) bool {
	return p != nil && p.Identifier() != ""
}

// Validate compone decodificación + no-nil + no-vencido. Se usa antes de
// aceptar un token al crear la sesión (POST /api/auth/session).
func Validate(tok string) bool {
	p := ExtractPayload(tok)
	return p != nil && !IsExpired(p)
}

// ExpirySeconds devuelve los segundos que faltan para `exp`, con piso en 0.
// Si el token no se puede decodificar o no trae `exp`, devuelve
// MinExpirySeconds — suficiente para la vida mínima de la cookie.
func ExpirySeconds(tok string) int {
	p := ExtractPayload(tok)
	if p == nil || p.Exp == 0 {
		return MinExpirySeconds
	}

	remaining := p.Exp - time.Now().Unix()
	if remaining < 0 {
		return 0
	}
	return int(remaining)
}
