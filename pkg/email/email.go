// Package email, capa de abstracción para el envío de correos del portal.
//
// EmailSender desacopla a los services del proveedor concreto (Dependency
// Inversion). La implementación actual usa la API de Resend; cambiar de
// proveedor es escribir otra implementación y cambiarla en main.go.
//
// El paquete expone dos cosas:
// 1. La interface EmailSender — los services dependen de esto
// 2. El constructor NewResendSender — para el wire-up en main.go
package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"

	"github.com/vozciudadana/portal/models"
)

// EmailSender, interface de envío de correos.
type EmailSender interface {
	// SendPasswordReset envía el enlace de restablecimiento de contraseña.
	// token es el valor en claro que va embebido en el enlace (la DB solo
	// guarda su hash).
	SendPasswordReset(ctx context.Context, toEmail, token string) error

	// SendPqrsConfirmacion envía la confirmación de radicación de una
	// solicitud PQRS con su número de radicado.
	SendPqrsConfirmacion(ctx context.Context, toEmail string, p *models.Pqrs) error
}

// resendSender, implementación de EmailSender sobre la API de Resend.
type resendSender struct {
	client    *resend.Client
	fromEmail string // remitente (ej: noreply@vozciudadana.gov.co)
	appURL    string // URL pública del portal, para armar los enlaces
}

// NewResendSender crea un EmailSender sobre Resend.
//
// apiKey: clave de la API de Resend (formato re_xxxxxxxx).
// fromEmail: remitente — debe estar bajo un dominio verificado en Resend.
func NewResendSender(apiKey, fromEmail, appURL string) EmailSender {
	return &resendSender{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
		appURL:    appURL,
	}
}

// SendPasswordReset envía el correo de restablecimiento.
//
// El enlace tiene la forma {appURL}/recuperar-password?token={token}.
// Al abrirlo, el frontend lee el token de la URL y lo manda a
// POST /user/reset-password junto con la contraseña nueva.
func (s *resendSender) SendPasswordReset(ctx context.Context, toEmail, token string) error {
	resetLink := fmt.Sprintf("%s/recuperar-password?token=%s", s.appURL, token)

	html := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin:0;padding:0;background-color:#f4f6f8;font-family:Arial,Helvetica,sans-serif;">
  <table width="100%%" cellpadding="0" cellspacing="0" style="background-color:#f4f6f8;padding:40px 0;">
    <tr>
      <td align="center">
        <table width="480" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:8px;padding:40px;">
          <tr>
            <td>
              <h1 style="color:#1f3a5f;font-size:24px;margin:0 0 8px 0;">Voz Ciudadana</h1>
              <h2 style="color:#1f3a5f;font-size:18px;margin:0 0 24px 0;">Restablecer contraseña</h2>
              <p style="color:#4a5568;font-size:15px;line-height:1.6;margin:0 0 24px 0;">
                Recibimos una solicitud para restablecer tu contraseña. Haz clic en el botón para elegir una nueva.
              </p>
              <table cellpadding="0" cellspacing="0" style="margin:0 0 24px 0;">
                <tr>
                  <td style="background-color:#1f6feb;border-radius:6px;padding:12px 32px;">
                    <a href="%s" style="color:#ffffff;text-decoration:none;font-size:15px;font-weight:600;">
                      Restablecer contraseña
                    </a>
                  </td>
                </tr>
              </table>
              <p style="color:#718096;font-size:13px;line-height:1.6;margin:0 0 16px 0;">
                Este enlace vence en 20 minutos. Si no solicitaste el cambio, ignora este correo.
              </p>
              <p style="color:#a0aec0;font-size:13px;line-height:1.6;margin:0;word-break:break-all;">
                Si el botón no funciona, copia y pega este enlace:<br>
                <a href="%s" style="color:#1f6feb;">%s</a>
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`, resetLink, resetLink, resetLink)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("Voz Ciudadana <%s>", s.fromEmail),
		To:      []string{toEmail},
		Subject: "Restablece tu contraseña — Voz Ciudadana",
		Html:    html,
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}

	return nil
}

// SendPqrsConfirmacion envía la confirmación de radicación con el número de
// radicado para consulta posterior.
func (s *resendSender) SendPqrsConfirmacion(ctx context.Context, toEmail string, p *models.Pqrs) error {
	consultaLink := fmt.Sprintf("%s/pqrs?radicado=%s", s.appURL, p.Radicado)

	html := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin:0;padding:0;background-color:#f4f6f8;font-family:Arial,Helvetica,sans-serif;">
  <table width="100%%" cellpadding="0" cellspacing="0" style="background-color:#f4f6f8;padding:40px 0;">
    <tr>
      <td align="center">
        <table width="480" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:8px;padding:40px;">
          <tr>
            <td>
              <h1 style="color:#1f3a5f;font-size:24px;margin:0 0 8px 0;">Voz Ciudadana</h1>
              <h2 style="color:#1f3a5f;font-size:18px;margin:0 0 24px 0;">Solicitud radicada</h2>
              <p style="color:#4a5568;font-size:15px;line-height:1.6;margin:0 0 16px 0;">
                Tu solicitud "%s" quedó radicada con el número:
              </p>
              <p style="color:#1f3a5f;font-size:22px;font-weight:700;letter-spacing:1px;margin:0 0 24px 0;">
                %s
              </p>
              <p style="color:#718096;font-size:13px;line-height:1.6;margin:0;">
                Con este número puedes consultar el estado de tu solicitud en
                <a href="%s" style="color:#1f6feb;">el portal</a> en cualquier momento.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`, p.Asunto, p.Radicado, consultaLink)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("Voz Ciudadana <%s>", s.fromEmail),
		To:      []string{toEmail},
		Subject: fmt.Sprintf("Radicado %s — Voz Ciudadana", p.Radicado),
		Html:    html,
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send pqrs confirmation email: %w", err)
	}

	return nil
}
