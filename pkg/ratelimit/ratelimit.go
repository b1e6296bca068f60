// Package ratelimit — LoginRateLimiter: límite de intentos de login por IP
// contra ataques de fuerza bruta.
//
// Diseño:
// - Ventana deslizante por IP: dentro de la ventana se cuentan los intentos
//   y al superar maxAttempts se rechaza la petición.
// - Tras un login correcto, Reset() limpia el contador de esa IP.
// - Una goroutine de fondo borra los buckets vencidos (sin fuga de memoria).
//
// ¿Por qué en memoria? El portal se despliega como instancia única; escribir
// cada intento en SQLite sería I/O inútil y meter Redis solo para esto no se
// justifica. sync.Mutex basta.
//
// El paquete no importa nada del proyecto (dependencia hoja) para poder
// usarse desde handlers sin riesgo de ciclos de import.
package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

// bucket lleva el contador de una IP y el inicio de su ventana.
//
// Primera petición: windowStart = ahora, count = 1. Las siguientes suman
// mientras la ventana no venza; vencida, se abre ventana nueva.
type bucket struct {
	count       int
	windowStart time.Time
}

// LoginRateLimiter, límite de login por IP.
//
// Uso:
//
//	limiter := ratelimit.NewLoginRateLimiter(5, 2*time.Minute)
//	// en el handler de login:
//	if !limiter.Allow(ip) { return 429 }
//	// tras login correcto:
//	limiter.Reset(ip)
type LoginRateLimiter struct {
	mu          sync.RWMutex
	buckets     map[string]*bucket
	maxAttempts int
	window      time.Duration
	stopCleanup chan struct{}
}

// NewLoginRateLimiter crea el limiter y arranca la limpieza de fondo.
//
// maxAttempts: intentos permitidos por ventana (p. ej. 5).
// window: duración de la ventana (p. ej. 2*time.Minute).
func NewLoginRateLimiter(maxAttempts int, window time.Duration) *LoginRateLimiter {
	rl := &LoginRateLimiter{
		buckets:     make(map[string]*bucket),
		maxAttempts: maxAttempts,
		window:      window,
		stopCleanup: make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Allow indica si la IP puede intentar otro login.
//
// Cada llamada suma al contador, falle o no el login; con login correcto el
// caller debe llamar a Reset.
func (rl *LoginRateLimiter) Allow(ip string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, exists := rl.buckets[ip]
	if !exists {
		rl.buckets[ip] = &bucket{count: 1, windowStart: now}
		return true
	}

	if now.Sub(b.windowStart) > rl.window {
		// ventana vencida — se abre una nueva
		b.count = 1
		b.windowStart = now
		return true
	}

	b.count++
	return b.count <= rl.maxAttempts
}

// Reset limpia el contador de la IP tras un login correcto.
// Sin esto, un usuario legítimo quedaría bloqueado en sus próximos intentos.
func (rl *LoginRateLimiter) Reset(ip string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.buckets, ip)
}

// RetryAfterSeconds devuelve los segundos que faltan para que la ventana
// venza. Sirve como valor del header HTTP Retry-After.
func (rl *LoginRateLimiter) RetryAfterSeconds(ip string) int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	b, exists := rl.buckets[ip]
	if !exists {
		return 0
	}

	remaining := rl.window - time.Since(b.windowStart)
	if remaining < 0 {
		return 0
	}
	return int(remaining.Seconds()) + 1 // +1 para que el cliente espere la ventana completa
}

// cleanupLoop borra en segundo plano los buckets con ventana vencida,
// una pasada por minuto.
func (rl *LoginRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *LoginRateLimiter) cleanup() {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, b := range rl.buckets {
		if now.Sub(b.windowStart) > rl.window {
			delete(rl.buckets, ip)
		}
	}
}

// ExtractIP saca la IP real del cliente de la petición.
//
// Orden: X-Forwarded-For (primer valor), X-Real-IP, RemoteAddr.
// En producción el portal corre detrás de nginx, así que RemoteAddr suele
// ser la IP del proxy y la real viaja en los headers.
func ExtractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// lista separada por comas: client, proxy1, proxy2
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// FormatRetryMessage pasa los segundos restantes a texto legible.
// Ej.: 120 → "2 minuto(s)", 45 → "45 segundo(s)".
func FormatRetryMessage(seconds int) string {
	if seconds >= 60 {
		return fmt.Sprintf("%d minuto(s)", seconds/60)
	}
	return fmt.Sprintf("%d segundo(s)", seconds)
}
