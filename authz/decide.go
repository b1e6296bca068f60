package authz

import "net/url"

// Destinos de redirección.
const (
	LoginPath    = "/login"
	HomePath     = "/"
	NotFoundPath = "/404"
)

// AuthStatus, valores del header X-Auth-Status que el borde adjunta.
const (
	AuthStatusValid   = "valid"
	AuthStatusExpired = "expired"
)

// State es el estado de autenticación con el que se decide sobre un path.
//
// En el borde se deriva de la cookie (HasToken = cookie presente,
// Authenticated = payload decodificable y no vencido). En el cliente se deriva
// del usuario hidratado (HasToken queda en false — el JS no lee la cookie
// HttpOnly, solo conoce el resultado del "quién soy").
type State struct {
	HasToken      bool
	Authenticated bool
	Authorities   []string
}

// Action es el tipo de veredicto.
type Action int

const (
	Allow Action = iota
	Redirect
)

// Verdict es la decisión de autorización para un request o navegación.
// DeleteCookie y AuthStatus son indicaciones para el borde; el guard del
// cliente las ignora (no puede tocar la cookie).
type Verdict struct {
	Action       Action
	Target       string
	DeleteCookie bool
	AuthStatus   string
}

// Policy parametriza la única divergencia conocida entre consumidores:
// a dónde enviar a un usuario autenticado sin permiso suficiente.
//
// El borde usa la página de no-encontrado — no revela que la ruta existe.
// El guard del cliente usa el inicio. La diferencia viene del sistema original
// y se mantiene explícita aquí en lugar de dejar que las dos capas deriven.
type Policy struct {
	InsufficientTarget string
}

// EdgePolicy, política del middleware de borde.
var EdgePolicy = Policy{InsufficientTarget: NotFoundPath}

// ClientPolicy, política del guard de renderizado del cliente.
var ClientPolicy = Policy{InsufficientTarget: HomePath}

// Decide es la función de decisión compartida: (path, estado) → veredicto.
//
// Cubre desde "ruta pública" hasta "permiso insuficiente". El caso especial
// de página de autenticación con cookie presente (regla del referer) es
// exclusivo del borde y se resuelve antes de llamar aquí.
func Decide(path string, s State, p Policy) Verdict {
	// Página de login/registro con sesión activa → al inicio.
	if IsAuthRoute(path) && s.Authenticated {
		return Verdict{Action: Redirect, Target: HomePath}
	}

	if IsPublicRoute(path) {
		return Verdict{Action: Allow}
	}

	if !s.Authenticated {
		if s.HasToken {
			// Cookie presente pero inválida/vencida: borrarla, marcar el
			// estado y volver al login sin callback.
			return Verdict{
				Action:       Redirect,
				Target:       LoginPath,
				DeleteCookie: true,
				AuthStatus:   AuthStatusExpired,
			}
		}
		// Sin token: al login conservando el destino original.
		return Verdict{
			Action: Redirect,
			Target: LoginPath + "?callbackUrl=" + url.QueryEscape(path),
		}
	}

	if !HasPermissionForRoute(path, s.Authorities) {
		return Verdict{Action: Redirect, Target: p.InsufficientTarget}
	}

	return Verdict{Action: Allow}
}
