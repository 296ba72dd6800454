// Package rest exposes the backend over HTTP: account signup and login,
// session introspection and the per-account record CRUD the client sync
// layer is built on.
package rest

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/avasiljevs/healthsync/internal/logging"
	"github.com/avasiljevs/healthsync/internal/server/crypto"
	"github.com/avasiljevs/healthsync/internal/server/repositories/records"
	"github.com/avasiljevs/healthsync/internal/server/repositories/users"
)

type Server struct {
	app           *fiber.App
	log           logging.Logger
	users         users.Repository
	records       records.Repository
	hasher        *crypto.Argon2
	secretKey     []byte
	tokenValidity time.Duration
}

func NewServer(log logging.Logger, usersRepo users.Repository, recordsRepo records.Repository, secretKey string, tokenValidity time.Duration) *Server {
	s := &Server{
		log:           log,
		users:         usersRepo,
		records:       recordsRepo,
		hasher:        crypto.NewArgon2(),
		secretKey:     []byte(secretKey),
		tokenValidity: tokenValidity,
	}

	s.app = fiber.New()
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.app.Group("/1")

	api.Get("/ping", s.ping)
	api.Post("/users", s.signUp)
	api.Post("/login", s.login)

	api.Get("/accounts/me", s.currentAccount, s.requireAuth)
	api.Get("/records", s.listRecords, s.requireAuth)
	api.Post("/records", s.createRecord, s.requireAuth)
	api.Put("/records/:id", s.updateRecord, s.requireAuth)
	api.Delete("/records/:id", s.deleteRecord, s.requireAuth)
}

// Run serves addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	return s.app.Listen(addr, fiber.ListenConfig{
		DisableStartupMessage: true,
		GracefulContext:       ctx,
	})
}
