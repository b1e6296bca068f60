package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/vozciudadana/portal/models"
	"github.com/vozciudadana/portal/pkg/cache"
	"github.com/vozciudadana/portal/pkg/session"
	"github.com/vozciudadana/portal/services"
)

// SessionHandler atiende el límite de sesión del portal: /api/auth/*.
//
// Estos endpoints NO usan el sobre pkg.APIResponse — su forma de wire está
// fijada por contrato con el frontend (SessionStatus / SessionResult).
type SessionHandler struct {
	sessionService services.SessionService
	secure         bool   // cookie Secure (producción)
	backendURL     string // base del backend de identidad para el proxy /me
	httpClient     *http.Client

	// meCache amortigua el proxy /api/auth/me: misma cookie dentro del TTL
	// no vuelve a golpear el backend.
	meCache *cache.TTLCache[string, json.RawMessage]
}

// NewSessionHandler, constructor.
func NewSessionHandler(sessionService services.SessionService, secure bool, backendURL string) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		secure:         secure,
		backendURL:     backendURL,
		httpClient:     &http.Client{Timeout: 10 * time.Second},
		meCache:        cache.New[string, json.RawMessage](30*time.Second, 5*time.Minute),
	}
}

// Close libera la caché del proxy.
func (h *SessionHandler) Close() {
	h.meCache.Close()
}

// GetSession godoc
// GET /api/auth/session
//
// Clasifica la cookie de sesión y devuelve el SessionStatus. Un token
// inválido o vencido borra la cookie en la misma respuesta — el navegador
// no la vuelve a presentar.
//
// Códigos: 200 con valid=true; 401 con el código de razón en cualquier
// otro caso. Nunca 500 por un token raro: la decodificación es fail-closed.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	defer h.recoverStatusError(w)

	tok, _ := session.Read(r)
	status := h.sessionService.Status(tok)

	if !status.Valid {
		// no-token significa visitante sin cookie — no hay nada que borrar
		if status.Reason != models.SessionReasonNoToken {
			session.Delete(w, h.secure)
		}
		h.writeJSON(w, http.StatusUnauthorized, status)
		return
	}

	h.writeJSON(w, http.StatusOK, status)
}

// CreateSession godoc
// POST /api/auth/session
// Body: { "token": "...", "rememberMe": bool }
//
// Acepta el token (decodificable y no vencido) y fija la cookie HttpOnly.
// No exige identificador: ese es un requisito de lectura, no de escritura.
//
// Códigos: 200 si acepta; 400 ante cualquier token rechazado (falta,
// malformado o vencido); 500 con reason "server-error" ante fallo inesperado.
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	defer h.recoverResultError(w)

	var req models.SessionCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, models.SessionResult{
			Success: false, Reason: models.SessionReasonError,
		})
		return
	}

	if req.Token == "" {
		h.writeJSON(w, http.StatusBadRequest, models.SessionResult{
			Success: false, Reason: models.SessionReasonNoToken,
		})
		return
	}

	if !h.sessionService.Accept(req.Token) {
		// distinguir la razón para el cliente: malformado vs vencido
		reason := models.SessionReasonInvalidFormat
		if st := h.sessionService.Status(req.Token); st.Reason == models.SessionReasonExpired {
			reason = models.SessionReasonExpired
		}
		h.writeJSON(w, http.StatusBadRequest, models.SessionResult{
			Success: false, Reason: reason,
		})
		return
	}

	http.SetCookie(w, session.Build(req.Token, req.RememberMe, h.secure))
	h.writeJSON(w, http.StatusOK, models.SessionResult{Success: true})
}

// DeleteSession godoc
// DELETE /api/auth/session
//
// Borra la cookie. Idempotente: sin cookie también responde success.
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	session.Delete(w, h.secure)
	h.writeJSON(w, http.StatusOK, models.SessionResult{Success: true})
}

// Logout godoc
// POST /api/auth/logout
//
// Alias de DELETE /api/auth/session para clientes que no emiten DELETE
// (formularios, sendBeacon). También invalida la entrada del proxy /me.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if tok, ok := session.Read(r); ok {
		h.meCache.Delete(tok)
	}
	session.Delete(w, h.secure)
	h.writeJSON(w, http.StatusOK, models.SessionResult{Success: true})
}

// Me godoc
// GET /api/auth/me
//
// Proxy al backend de identidad: toma el token de la cookie, lo reenvía
// como bearer a GET {backend}/user/me y devuelve la respuesta tal cual.
// La respuesta se cachea por token ~30s. Un 401 del backend borra la
// cookie — el token fue revocado aunque estructuralmente siga siendo válido.
func (h *SessionHandler) Me(w http.ResponseWriter, r *http.Request) {
	defer h.recoverStatusError(w)

	tok, ok := session.Read(r)
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, models.SessionStatus{
			Valid: false, Reason: models.SessionReasonNoToken,
		})
		return
	}

	if body, hit := h.meCache.Get(tok); hit {
		h.writeRaw(w, http.StatusOK, body)
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, h.backendURL+"/user/me", nil)
	if err != nil {
		h.writeJSON(w, http.StatusInternalServerError, models.SessionStatus{
			Valid: false, Reason: models.SessionReasonError,
		})
		return
	}
	req.Header.Set("Authorization", "Bearer "+tok)

	resp, err := h.httpClient.Do(req)
	if err != nil {
		log.Printf("[session] proxy /user/me falló: %v", err)
		h.writeJSON(w, http.StatusInternalServerError, models.SessionStatus{
			Valid: false, Reason: models.SessionReasonError,
		})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		session.Delete(w, h.secure)
		h.writeJSON(w, http.StatusUnauthorized, models.SessionStatus{
			Valid: false, Reason: models.SessionReasonExpired,
		})
		return
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		h.writeJSON(w, http.StatusInternalServerError, models.SessionStatus{
			Valid: false, Reason: models.SessionReasonError,
		})
		return
	}

	if resp.StatusCode == http.StatusOK {
		h.meCache.Set(tok, json.RawMessage(body))
	}

	h.writeRaw(w, resp.StatusCode, body)
}

// ─── Helpers privados ───

func (h *SessionHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[session] failed to encode response: %v", err)
	}
}

func (h *SessionHandler) writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Printf("[session] failed to write response: %v", err)
	}
}

// recoverStatusError convierte un panic de los handlers de lectura en la
// forma de wire de lectura ({valid:false, reason:"error"}) en lugar del 500
// pelado del servidor HTTP.
func (h *SessionHandler) recoverStatusError(w http.ResponseWriter) {
	if rec := recover(); rec != nil {
		log.Printf("[session] panic recuperado: %v", rec)
		h.writeJSON(w, http.StatusInternalServerError, models.SessionStatus{
			Valid: false, Reason: models.SessionReasonError,
		})
	}
}

// recoverResultError, igual pero con la forma de escritura
// ({success:false, reason:"server-error"}).
func (h *SessionHandler) recoverResultError(w http.ResponseWriter) {
	if rec := recover(); rec != nil {
		log.Printf("[session] panic recuperado: %v", rec)
		h.writeJSON(w, http.StatusInternalServerError, models.SessionResult{
			Success: false, Reason: models.SessionReasonServerError,
		})
	}
}
