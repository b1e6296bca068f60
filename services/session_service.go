package services

import (
	"time"

	"github.com/vozciudadana/portal/models"
	"github.com/vozciudadana/portal/pkg/token"
)

// SessionService evalúa el estado de la sesión a partir del token crudo de
// la cookie. Es lógica pura de decodificación — no toca la base de datos ni
// verifica firmas; esa es la separación entre el límite de sesión (este
// service) y el módulo de identidad (AuthService).
type SessionService interface {
	// Status clasifica el token en uno de los códigos de razón de sesión.
	// tok vacío = visitante anónimo (reason "no-token").
	Status(tok string) *models.SessionStatus
	// Accept indica si el token puede aceptarse al crear la sesión:
	// decodificable y no vencido. No exige identificador — eso es un
	// requisito de lectura, no de escritura.
	Accept(tok string) bool
}

type sessionService struct{}

// NewSessionService, constructor.
func NewSessionService() SessionService {
	return &sessionService{}
}

// Status clasifica el token. El orden de los chequeos importa: formato →
// vencimiento → identificador. Un token vencido Y malformado reporta
// "invalid-format", no "expired".
func (s *sessionService) Status(tok string) *models.SessionStatus {
	if tok == "" {
		return &models.SessionStatus{Valid: false, Reason: models.SessionReasonNoToken}
	}

	p := token.ExtractPayload(tok)
	if p == nil {
		return &models.SessionStatus{Valid: false, Reason: models.SessionReasonInvalidFormat}
	}

	if token.IsExpired(p) {
		st := &models.SessionStatus{Valid: false, Reason: models.SessionReasonExpired}
		if p.Exp > 0 {
			t := time.Unix(p.Exp, 0).UTC()
			st.ExpiredAt = &t
		}
		return st
	}

	if !token.HasIdentifier(p) {
		return &models.SessionStatus{Valid: false, Reason: models.SessionReasonMissingIdentifier}
	}

	return &models.SessionStatus{
		Valid: true,
		User: &models.SessionUser{
			ID:          p.Identifier(),
			Email:       p.Email,
			Authorities: p.AuthorityNames(),
		},
	}
}

func (s *sessionService) Accept(tok string) bool {
	return token.Validate(tok)
}
