package serverutils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

const clientIDLocal = "client_id"

// ClientIDMiddleware identifies the caller for rate limiting by remote IP.
// Behind a reverse proxy the IP comes from the app's ProxyHeader config; request headers
// chosen by the caller never pick the budget.
func ClientIDMiddleware(ctx *fiber.Ctx) error {
	ctx.Locals(clientIDLocal, clientIP(ctx))
	return ctx.Next()
}

func ClientID(ctx *fiber.Ctx) string {
	if v, ok := ctx.Locals(clientIDLocal).(string); ok {
		return v
	}
	return clientIP(ctx)
}

// clientIP copies the address out of the request buffer: the ID outlives the handler
// as a limiter key and in published events.
func clientIP(ctx *fiber.Ctx) string {
	return "ip:" + utils.CopyString(ctx.IP())
}
