package models

import (
	"encoding/json"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPayload son los claims decodificados del bearer token en el límite de
// sesión del portal. Se deriva del string crudo del token en cada chequeo —
// nunca se persiste por separado.
//
// Este struct vive en models porque lo consumen varias capas (pkg/token,
// services, middleware, handlers) y así se evitan dependencias circulares:
// cualquier capa puede depender de models.
//
// Importante: en este límite el token NO se verifica criptográficamente —
// es una capa de decodificación estructural. La emisión y verificación de
// firmas es responsabilidad del backend de identidad (IdentityClaims abajo).
type TokenPayload struct {
	Sub         string      `json:"sub"`
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	Authorities []Authority `json:"authorities"`
	Exp         int64       `json:"exp"`
	Iat         int64       `json:"iat"`
}

// Identifier devuelve el identificador del sujeto: `sub` si existe, si no `id`.
// Vacío significa que el token no identifica a nadie.
func (p *TokenPayload) Identifier() string {
	if p.Sub != "" {
		return p.Sub
	}
	return p.ID
}

// AuthorityNames devuelve las authorities como []string plano.
func (p *TokenPayload) AuthorityNames() []string {
	if len(p.Authorities) == 0 {
		return nil
	}
	names := make([]string, 0, len(p.Authorities))
	for _, a := range p.Authorities {
		names = append(names, string(a))
	}
	return names
}

// Authority es una etiqueta de permiso ("GESTOR_PQRS", "ADMINISTRADOR", ...).
//
// En el wire las authorities llegan en dos formas según el emisor:
// como string plano ("ADMINISTRADOR") o como objeto ({"authority":"ADMINISTRADOR"}).
// La normalización se hace aquí, en el límite de ingreso de datos — nunca
// inline en quien consume el valor.
type Authority string

// UnmarshalJSON acepta las dos variantes del wire.
func (a *Authority) UnmarshalJSON(data []byte) error {
	// Variante string plano
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = Authority(s)
		return nil
	}

	// Variante objeto — el emisor estilo Spring usa "authority",
	// otros emisores usan "nombre" o "name".
	var obj struct {
		Authority string `json:"authority"`
		Nombre    string `json:"nombre"`
		Name      string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	switch {
	case obj.Authority != "":
		*a = Authority(obj.Authority)
	case obj.Nombre != "":
		*a = Authority(obj.Nombre)
	default:
		*a = Authority(obj.Name)
	}
	return nil
}

// IdentityClaims son los claims del JWT que emite el módulo de identidad
// (POST /user/login). A diferencia de TokenPayload, este struct sí pasa por
// firma y verificación HS256 vía golang-jwt.
//
// El campo `sub` va en RegisteredClaims.Subject; authorities se emiten como
// strings planos — TokenPayload las acepta en cualquiera de las dos formas.
type IdentityClaims struct {
	Email       string   `json:"email,omitempty"`
	Authorities []string `json:"authorities,omitempty"`
	jwt.RegisteredClaims
}
