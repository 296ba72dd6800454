package rest

import (
	"github.com/gofiber/fiber/v3"

	"github.com/avasiljevs/healthsync/internal/common"
	"github.com/avasiljevs/healthsync/internal/server/auth"
)

const localsAccountID = "accountID"

// requireAuth validates the session token header and stores the account id
// for downstream handlers.
func (s *Server) requireAuth(c fiber.Ctx) error {
	token := c.Get(common.SessionTokenHeaderName)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "missing session token",
		})
	}

	accountID, err := auth.GetAccountIDFromToken(token, s.secretKey)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid session token",
		})
	}

	c.Locals(localsAccountID, accountID)
	return c.Next()
}

func accountID(c fiber.Ctx) string {
	id, _ := c.Locals(localsAccountID).(string)
	return id
}
