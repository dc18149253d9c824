package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"pdfvault/docs"
)

// Swagger serves the API docs. The advertised host is publicHost when set,
// otherwise the Host header of the request; the scheme honours
// X-Forwarded-Proto.
func Swagger(publicHost string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get(fiber.HeaderXForwardedProto); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}

		host := publicHost
		if host == "" {
			host = c.Get(fiber.HeaderHost)
		}
		docs.SwaggerInfo.Host = host
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	}
}
