// Package main es el punto de entrada del portal.
//
// Su trabajo es el "wire-up" de Dependency Injection:
//  1. Cargar la configuración
//  2. Abrir la base de datos y aplicar migraciones
//  3. Crear los repositories (con la conexión)
//  4. Arrancar el Hub de WebSocket
//  5. Crear los services (repositories + hub)
//  6. Crear los handlers (services)
//  7. Registrar las rutas y el middleware de borde
//  8. CORS
//  9. Arrancar el servidor HTTP
// 10. Graceful shutdown
//
// Sin variables globales — todo se construye y se conecta aquí.
package main

import (
	"context"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/vozciudadana/portal/config"
	"github.com/vozciudadana/portal/database"
	"github.com/vozciudadana/portal/handlers"
	"github.com/vozciudadana/portal/pkg/crypto"
	"github.com/vozciudadana/portal/pkg/email"
	"github.com/vozciudadana/portal/pkg/ratelimit"
	"github.com/vozciudadana/portal/repository"
	"github.com/vozciudadana/portal/services"
	"github.com/vozciudadana/portal/static"
	"github.com/vozciudadana/portal/ws"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("[main] portal voz ciudadana arrancando...")

	// ─── 1. Config ───
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] failed to load config: %v", err)
	}
	log.Printf("[main] configuración cargada (port=%d)", cfg.Server.Port)

	// ─── 2. Database ───
	migrationsFS, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	if err != nil {
		log.Fatalf("[main] failed to access embedded migrations: %v", err)
	}

	db, err := database.New(cfg.Database.Path, migrationsFS)
	if err != nil {
		log.Fatalf("[main] failed to initialize database: %v", err)
	}
	defer db.Close()

	// Clave AES de los datos de contacto PQRS. Sin clave se opera en claro —
	// aceptable en desarrollo, nunca en producción.
	var aesKey []byte
	if cfg.Crypto.AESKeyHex != "" {
		aesKey, err = crypto.DeriveKey(cfg.Crypto.AESKeyHex)
		if err != nil {
			log.Fatalf("[main] invalid PQRS_AES_KEY: %v", err)
		}
	} else {
		log.Println("[main] AVISO: PQRS_AES_KEY no configurada — datos de contacto sin cifrar")
	}

	// ─── 3. Repository Layer ───
	usuarioRepo := repository.NewSQLiteUsuarioRepo(db.Conn)
	rolRepo := repository.NewSQLiteRolRepo(db.Conn)
	resetRepo := repository.NewSQLiteResetTokenRepo(db.Conn)
	publicacionRepo := repository.NewSQLitePublicacionRepo(db.Conn)
	pqrsRepo := repository.NewSQLitePqrsRepo(db.Conn, aesKey)
	organizacionRepo := repository.NewSQLiteOrganizacionRepo(db.Conn)

	// ─── 4. WebSocket Hub ───
	// `go hub.Run()` arranca el event loop en su goroutine: escucha los
	// channels register/unregister y mantiene el map de clientes. Los
	// services llegan al hub por la interface EventPublisher.
	hub := ws.NewHub()
	go hub.Run()

	// ─── 5. Service Layer ───
	var sender email.EmailSender
	if cfg.Email.APIKey != "" {
		sender = email.NewResendSender(cfg.Email.APIKey, cfg.Email.FromEmail, cfg.Email.AppURL)
	} else {
		log.Println("[main] RESEND_API_KEY no configurada — envío de correo deshabilitado")
	}

	authService := services.NewAuthService(
		usuarioRepo,
		rolRepo,
		resetRepo,
		sender,
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
	)
	sessionService := services.NewSessionService()
	usuarioService := services.NewUsuarioService(usuarioRepo, rolRepo)
	publicacionService := services.NewPublicacionService(publicacionRepo, hub)
	pqrsService := services.NewPqrsService(pqrsRepo, hub, sender)
	organizacionService := services.NewOrganizacionService(organizacionRepo)

	// ─── 6. Handler Layer ───
	loginLimiter := ratelimit.NewLoginRateLimiter(5, 2*time.Minute)

	h := &Handlers{
		Auth:         handlers.NewAuthHandler(authService, loginLimiter),
		Session:      handlers.NewSessionHandler(sessionService, cfg.Session.Secure, cfg.Backend.BaseURL),
		Publicacion:  handlers.NewPublicacionHandler(publicacionService),
		Pqrs:         handlers.NewPqrsHandler(pqrsService),
		Organizacion: handlers.NewOrganizacionHandler(organizacionService),
		Admin:        handlers.NewAdminHandler(usuarioService),
		WS:           ws.NewHandler(hub, authService),
	}
	defer h.Session.Close()

	// ─── 7. Router + middleware de borde ───
	mux := http.NewServeMux()
	initRoutes(mux, h, authService, usuarioRepo, cfg)

	// ─── 8. CORS ───
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:3000", // Vite dev server
			cfg.Email.AppURL,        // URL pública del portal
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := corsHandler.Handler(mux)

	// ─── 9. HTTP Server ───
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ─── 10. Graceful Shutdown ───
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[main] servidor escuchando en %s", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	<-done
	log.Println("[main] apagando...")

	// Primero las conexiones WebSocket, después el servidor HTTP — los
	// requests en vuelo tienen 5s para terminar.
	hub.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("[main] forced shutdown: %v", err)
	}

	log.Println("[main] servidor detenido")
}

// newSPAHandler sirve el frontend embebido con fallback SPA: todo path que
// no corresponda a un archivo del build devuelve index.html y el router del
// cliente resuelve la vista. El middleware de borde envuelve este handler —
// las decisiones de autorización de página ocurren antes de llegar aquí.
func newSPAHandler() http.Handler {
	distFS, err := fs.Sub(static.FrontendFS, "dist")
	if err != nil {
		log.Fatalf("[main] failed to access embedded frontend: %v", err)
	}

	fileServer := http.FileServerFS(distFS)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := strings.TrimPrefix(r.URL.Path, "/")
		if p != "" {
			if f, err := distFS.Open(p); err == nil {
				f.Close()
				fileServer.ServeHTTP(w, r)
				return
			}
		}

		http.ServeFileFS(w, r, distFS, "index.html")
	})
}
