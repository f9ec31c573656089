package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

// NewApp crea la aplicación Fiber con recover y log de peticiones.
//
// Immutable es obligatorio: sin él c.Params, c.Query y el cuerpo apuntan al buffer de fasthttp,
// que se reutiliza en la siguiente petición, y los ids guardados por el almacén en memoria se
// corromperían.
func NewApp(appName string, log *logger.Logger) *fiber.App {
	if log == nil {
		log = logger.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:      appName,
		Immutable:    true,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	})
	app.Use(recover.New())
	app.Use(RequestLogger(log))
	return app
}
