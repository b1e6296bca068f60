// Package static embebe el build del frontend en el binario.
//
// En el build, el contenido de web/dist/ se copia a static/dist/ y el
// compilador lo embebe. En desarrollo dist/ puede estar vacío (.gitkeep) y
// el dev server de Vite sirve el frontend.
//
// En producción el binario sirve el frontend directamente, con fallback SPA
// detrás del middleware de borde.
package static

import "embed"

// FrontendFS contiene los archivos del build del frontend.
// El prefijo "all:" incluye también los archivos que empiezan por punto.
// Uso: fs.Sub(FrontendFS, "dist") para acceder al subdirectorio.
//
//go:embed all:dist
var FrontendFS embed.FS
