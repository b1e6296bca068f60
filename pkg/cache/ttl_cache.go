// Package cache — caché TTL genérica en memoria.
//
// TTLCache guarda entradas que expiran solas pasado un tiempo fijo.
//
// Usos en el portal:
// - Respuestas de /user/me del backend de identidad (TTL corto, ~30s) para
//   no golpear el backend en cada carga de página.
// - Datos que se leen mucho y cambian poco.
//
// Cada entrada lleva su fecha de vencimiento; una entrada vencida no se
// devuelve nunca (cache miss) y se limpia físicamente en segundo plano.
//
// Thread safety: sync.RWMutex — varias goroutines pueden leer a la vez,
// la escritura bloquea todo acceso.
package cache

import (
	"sync"
	"time"
)

// entry, un registro de la caché: el valor y cuándo vence.
type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache, caché genérica en memoria con vencimiento.
//
// K y V son parámetros de tipo — se fijan al crear la caché:
//
//	c := cache.New[string, models.SessionUser](30*time.Second, 5*time.Minute)
//	c.Set("usr-1", u)
//	u, ok := c.Get("usr-1")
//
// Así no hace falta ningún cast al leer.
type TTLCache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]entry[V]
	ttl     time.Duration

	// stopCleanup detiene la goroutine de limpieza periódica.
	// Close() cierra este channel.
	stopCleanup chan struct{}
}

// New crea la caché y arranca la goroutine de limpieza periódica.
//
// ttl: vida de cada entrada. cleanupInterval: cada cuánto se borran
// físicamente las vencidas — debe ser menor que harían crecer el map sin
// control; Get nunca devuelve entradas vencidas aunque sigan en el map.
func New[K comparable, V any](ttl, cleanupInterval time.Duration) *TTLCache[K, V] {
	c := &TTLCache[K, V]{
		entries:     make(map[K]entry[V]),
		ttl:         ttl,
		stopCleanup: make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.evictExpired()
			case <-c.stopCleanup:
				return
			}
		}
	}()

	return c
}

// Get lee un valor. Devuelve (valor, true) si la clave existe y no venció;
// (cero, false) en cualquier otro caso.
//
// La entrada vencida no se borra aquí — lo hace la limpieza periódica.
// Eso mantiene Get rápido: basta con RLock.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set escribe un valor con el TTL de la caché.
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Delete invalida una clave concreta.
//
// Uso: al cerrar sesión se invalida la entrada de ese usuario para que el
// siguiente login no vea datos de la sesión anterior.
func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// DeleteFunc borra todas las claves que cumplan el predicado.
func (c *TTLCache[K, V]) DeleteFunc(predicate func(key K) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if predicate(key) {
			delete(c.entries, key)
		}
	}
}

// Clear vacía la caché entera.
func (c *TTLCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]entry[V])
}

// Len devuelve el total de entradas (vencidas incluidas).
func (c *TTLCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Close detiene la goroutine de limpieza. Llamar cuando la caché deja de
// usarse para no filtrar la goroutine.
func (c *TTLCache[K, V]) Close() {
	close(c.stopCleanup)
}

// evictExpired borra físicamente las entradas vencidas.
func (c *TTLCache[K, V]) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}
