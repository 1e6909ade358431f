package middleware

import (
	"time"

	"bizsite/internal/models"
	"bizsite/internal/requestlog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// RequestLog records every request into ring after the handler chain ran.
// Strings taken from the context are copied: fasthttp reuses their buffers
// once the request completes.
func RequestLog(ring *requestlog.Ring, skip ...string) fiber.Handler {
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		if _, ok := skipped[c.Path()]; ok {
			return c.Next()
		}
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = models.StatusFor(err)
		}
		entry := requestlog.Entry{
			Time:    start,
			Method:  utils.CopyString(c.Method()),
			Path:    utils.CopyString(c.Path()),
			Status:  status,
			Latency: time.Since(start),
			IP:      utils.CopyString(c.IP()),
		}
		if uid, ok := UserID(c); ok {
			entry.UserID = uid
		}
		if rid, ok := c.Locals("requestid").(string); ok {
			entry.RequestID = utils.CopyString(rid)
		}
		ring.Add(entry)
		return err
	}
}
