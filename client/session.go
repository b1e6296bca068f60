// Package client es el consumidor Go del límite de sesión: la contraparte
// del frontend embebido para herramientas de línea de comando y tests de
// integración. Habla con los endpoints /api/auth/* exactamente como lo hace
// el navegador — cookie HttpOnly incluida, vía cookie jar.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/vozciudadana/portal/models"
)

// SessionAPI es lo que el Store necesita del servidor. El Store depende de
// esta interface y no del cliente HTTP concreto — los tests inyectan un fake.
type SessionAPI interface {
	// SetAuthCookie crea la sesión: POST /api/auth/session.
	SetAuthCookie(ctx context.Context, token string, rememberMe bool) error
	// RemoveAuthCookie borra la sesión: DELETE /api/auth/session.
	RemoveAuthCookie(ctx context.Context) error
	// FetchUser pregunta "quién soy": GET /api/auth/session. La sesión GET
	// ya trae la proyección {id,email,authorities} completa, así que la
	// hidratación no pasa por el proxy /api/auth/me.
	// Sin sesión válida devuelve *APIError con el código de razón del servidor.
	FetchUser(ctx context.Context) (*models.SessionUser, error)
}

// APIError es un rechazo del límite de sesión con su código de razón
// ("no-token", "expired", ...). El Store distingue razones para decidir si
// limpia estado local.
type APIError struct {
	StatusCode int
	Reason     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("session api: %d (%s)", e.StatusCode, e.Reason)
}

// httpSessionAPI, implementación de SessionAPI sobre net/http.
type httpSessionAPI struct {
	baseURL string
	client  *http.Client
}

// NewSessionAPI crea el cliente contra baseURL (ej: http://localhost:8080).
// El cookie jar retiene la cookie de sesión entre llamadas, igual que el
// navegador.
func NewSessionAPI(baseURL string) (SessionAPI, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &httpSessionAPI{
		baseURL: baseURL,
		client: &http.Client{
			Jar:     jar,
			Timeout: 10 * time.Second,
		},
	}, nil
}

func (a *httpSessionAPI) SetAuthCookie(ctx context.Context, token string, rememberMe bool) error {
	body, err := json.Marshal(models.SessionCreateRequest{Token: token, RememberMe: rememberMe})
	if err != nil {
		return fmt.Errorf("failed to marshal session request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/auth/session", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var result models.SessionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode session response: %w", err)
	}

	if !result.Success {
		return &APIError{StatusCode: resp.StatusCode, Reason: result.Reason}
	}
	return nil
}

func (a *httpSessionAPI) RemoveAuthCookie(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, a.baseURL+"/api/auth/session", nil)
	if err != nil {
		return err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Reason: models.SessionReasonServerError}
	}
	return nil
}

func (a *httpSessionAPI) FetchUser(ctx context.Context) (*models.SessionUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/api/auth/session", nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var status models.SessionStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode session status: %w", err)
	}

	if !status.Valid || status.User == nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Reason: status.Reason}
	}
	return status.User, nil
}
