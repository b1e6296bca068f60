// Package services contiene la lógica de negocio del portal.
//
// El service se sienta entre el handler (HTTP) y el repository (DB). Todas
// las reglas de negocio viven aquí: hash de contraseñas, emisión de JWT,
// validación de transiciones de estado, números de radicado.
//
// Un service NUNCA conoce http.Request/Response — recibe y devuelve modelos
// de dominio. Y NUNCA ejecuta SQL directo — usa las interfaces de repository.
package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/vozciudadana/portal/models"
	"github.com/vozciudadana/portal/pkg"
	"github.com/vozciudadana/portal/pkg/email"
	"github.com/vozciudadana/portal/repository"
)

// tiempo mínimo entre dos solicitudes de recuperación para el mismo usuario.
const resetCooldown = 90 * time.Second

// vida del token de restablecimiento.
const resetTokenTTL = 20 * time.Minute

// AuthService, API del módulo de identidad.
// Los handlers dependen de esta interface, no del struct concreto.
type AuthService interface {
	// Register crea la cuenta ciudadana y devuelve el token de acceso.
	// Toda cuenta nueva nace con el rol CIUDADANO.
	Register(ctx context.Context, req *models.RegistroRequest) (*AuthResult, error)
	// Login verifica credenciales y emite el JWT de acceso.
	Login(ctx context.Context, req *models.LoginRequest) (*AuthResult, error)
	// ValidateToken verifica firma y vigencia de un token emitido por Login.
	ValidateToken(tokenString string) (*models.IdentityClaims, error)
	// ChangePassword cambia la contraseña verificando la actual.
	ChangePassword(ctx context.Context, usuarioID, currentPassword, newPassword string) error
	// ForgotPassword emite un token de restablecimiento y lo envía por correo.
	// No revela si el email existe (anti-enumeración): siempre responde igual.
	ForgotPassword(ctx context.Context, req *models.ForgotPasswordRequest) error
	// ResetPassword consume el token del correo y fija la contraseña nueva.
	ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error
}

// AuthResult, lo que devuelven Login y Register: el JWT y el usuario.
type AuthResult struct {
	Token   string         `json:"token"`
	Usuario models.Usuario `json:"usuario"`
}

// authService, implementación de AuthService.
type authService struct {
	usuarioRepo repository.UsuarioRepository
	rolRepo     repository.RolRepository
	resetRepo   repository.ResetTokenRepository
	sender      email.EmailSender // nil deshabilita el envío de correo
	jwtSecret   []byte
	tokenExp    time.Duration
}

// NewAuthService, constructor.
func NewAuthService(
	usuarioRepo repository.UsuarioRepository,
	rolRepo repository.RolRepository,
	resetRepo repository.ResetTokenRepository,
	sender email.EmailSender,
	jwtSecret string,
	expiryHours int,
) AuthService {
	return &authService{
		usuarioRepo: usuarioRepo,
		rolRepo:     rolRepo,
		resetRepo:   resetRepo,
		sender:      sender,
		jwtSecret:   []byte(jwtSecret),
		tokenExp:    time.Duration(expiryHours) * time.Hour,
	}
}

// Register crea la cuenta ciudadana.
//
// Pasos: validación → hash bcrypt (cost 12) → insert con el rol CIUDADANO →
// emisión del token. El usuario queda logueado al registrarse.
func (s *authService) Register(ctx context.Context, req *models.RegistroRequest) (*AuthResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usuario := &models.Usuario{
		Nombre:       req.Nombre,
		Email:        req.Email,
		PasswordHash: string(hash),
		Activo:       true,
	}

	rol, err := s.rolRepo.GetByNombre(ctx, models.RolCiudadano)
	if err != nil {
		return nil, fmt.Errorf("failed to load default role: %w", err)
	}

	// cuenta y rol en una sola transacción
	if err := s.usuarioRepo.Create(ctx, usuario, rol.ID); err != nil {
		return nil, err // puede ser ErrAlreadyExists
	}
	usuario.Roles = []models.Rol{*rol}

	return s.emitir(usuario)
}

// Login verifica credenciales y emite el token.
//
// El mensaje de error es idéntico para "no existe" y "contraseña mala" —
// no se filtra cuál de las dos falló. Una cuenta desactivada tampoco entra.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*AuthResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	usuario, err := s.usuarioRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: email o contraseña incorrectos", pkg.ErrUnauthorized)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: email o contraseña incorrectos", pkg.ErrUnauthorized)
	}

	if !usuario.Activo {
		return nil, fmt.Errorf("%w: la cuenta está desactivada", pkg.ErrForbidden)
	}

	return s.emitir(usuario)
}

// ValidateToken verifica firma HS256 y vigencia, y devuelve los claims.
func (s *authService) ValidateToken(tokenString string) (*models.IdentityClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.IdentityClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("%w: invalid token", pkg.ErrUnauthorized)
	}

	claims, ok := token.Claims.(*models.IdentityClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token claims", pkg.ErrUnauthorized)
	}

	return claims, nil
}

// ChangePassword cambia la contraseña verificando la actual.
func (s *authService) ChangePassword(ctx context.Context, usuarioID, currentPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: la contraseña debe tener al menos 8 caracteres", pkg.ErrBadRequest)
	}

	usuario, err := s.usuarioRepo.GetByID(ctx, usuarioID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(currentPassword)); err != nil {
		return fmt.Errorf("%w: la contraseña actual es incorrecta", pkg.ErrUnauthorized)
	}

	if currentPassword == newPassword {
		return fmt.Errorf("%w: la contraseña nueva debe ser distinta de la actual", pkg.ErrBadRequest)
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), 12)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	return s.usuarioRepo.UpdatePassword(ctx, usuarioID, string(newHash))
}

// ForgotPassword emite y envía el token de restablecimiento.
//
// Anti-enumeración: si el email no existe se devuelve nil igual — el caller
// responde siempre "si la cuenta existe, te llegará un correo".
//
// Cooldown: dos solicitudes del mismo usuario en menos de 90 segundos no
// generan un segundo correo.
func (s *authService) ForgotPassword(ctx context.Context, req *models.ForgotPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	usuario, err := s.usuarioRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil
		}
		return err
	}

	ultimo, err := s.resetRepo.GetUltimoPorUsuario(ctx, usuario.ID)
	if err != nil && !errors.Is(err, pkg.ErrNotFound) {
		return err
	}
	if ultimo != nil && time.Since(ultimo.CreatedAt) < resetCooldown {
		// dentro del cooldown — silencioso, la respuesta al caller no cambia
		return nil
	}

	// Token en claro de 32 bytes. En la DB solo se guarda el SHA-256;
	// el valor en claro viaja una única vez en el enlace del correo.
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	plaintext := hex.EncodeToString(raw)
	hash := sha256.Sum256([]byte(plaintext))

	// Un token vigente por usuario: los anteriores se invalidan.
	if err := s.resetRepo.DeleteByUsuarioID(ctx, usuario.ID); err != nil {
		return err
	}

	t := &models.ResetToken{
		UsuarioID: usuario.ID,
		TokenHash: hex.EncodeToString(hash[:]),
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := s.resetRepo.Create(ctx, t); err != nil {
		return err
	}

	if s.sender == nil {
		log.Printf("[auth] envío de correo deshabilitado — token de reset para %s no enviado", usuario.Email)
		return nil
	}

	if err := s.sender.SendPasswordReset(ctx, usuario.Email, plaintext); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	return nil
}

// ResetPassword consume el token (un solo uso) y fija la contraseña nueva.
func (s *authService) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	hash := sha256.Sum256([]byte(req.Token))
	t, err := s.resetRepo.GetByTokenHash(ctx, hex.EncodeToString(hash[:]))
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return fmt.Errorf("%w: token inválido o vencido", pkg.ErrUnauthorized)
		}
		return err
	}

	if t.Vencido() {
		if delErr := s.resetRepo.DeleteByID(ctx, t.ID); delErr != nil {
			return delErr
		}
		return fmt.Errorf("%w: token inválido o vencido", pkg.ErrUnauthorized)
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), 12)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.usuarioRepo.UpdatePassword(ctx, t.UsuarioID, string(newHash)); err != nil {
		return err
	}

	return s.resetRepo.DeleteByID(ctx, t.ID)
}

// ─── Helpers privados ───

// emitir firma el JWT de acceso con los claims del portal: sub (ID de
// usuario), email y authorities como strings planos.
func (s *authService) emitir(usuario *models.Usuario) (*AuthResult, error) {
	now := time.Now()
	claims := &models.IdentityClaims{
		Email:       usuario.Email,
		Authorities: usuario.Authorities(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   usuario.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenExp)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "vozciudadana",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	usuario.PasswordHash = ""

	return &AuthResult{Token: signed, Usuario: *usuario}, nil
}
