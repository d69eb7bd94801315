// Package server exposes the stemmer and corpus pipeline over HTTP.
package server

import (
	"bytes"
	"errors"
	"time"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/malaynlp/melayu/config"
	"github.com/malaynlp/melayu/corpus"
	"github.com/malaynlp/melayu/stemmer"
	"github.com/malaynlp/melayu/store"
)

// Server bundles the fiber app with the stemming components.
type Server struct {
	app  *fiber.App
	stem *stemmer.Stemmer
	proc *corpus.Processor
	st   *store.Store // nil when persistence is disabled
	log  *zap.SugaredLogger
}

// WithJWT guards a route group with bearer-token auth.
func WithJWT(secret []byte) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: secret},
	})
}

// New assembles the HTTP server. st may be nil; the runs endpoints
// then report that persistence is disabled.
func New(cfg *config.Config, sm *stemmer.Stemmer, proc *corpus.Processor, st *store.Store, log *zap.SugaredLogger) *Server {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Server.Name,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())
	if cfg.Server.RateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.Server.RateLimit,
			Expiration: time.Minute,
		}))
	}

	s := &Server{app: app, stem: sm, proc: proc, st: st, log: log}

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/v1")
	v1.Post("/stem", s.handleStem)
	v1.Post("/stem/batch", s.handleStemBatch)
	v1.Post("/analyze", s.handleAnalyze)
	v1.Post("/corpus", s.handleCorpus)

	runs := v1.Group("/runs")
	if secret := cfg.AuthSecret(); secret != nil {
		runs.Use(WithJWT(secret))
	}
	runs.Get("/", s.handleRuns)
	runs.Get("/:id", s.handleRunWordlist)

	return s
}

// App returns the underlying fiber app, used by tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving on addr.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleStem(c *fiber.Ctx) error {
	var req struct {
		Word string `json:"word"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if req.Word == "" {
		return c.Status(400).JSON(fiber.Map{"error": "word is required"})
	}
	return c.JSON(fiber.Map{"word": req.Word, "root": s.stem.Stem(req.Word)})
}

func (s *Server) handleStemBatch(c *fiber.Ctx) error {
	var req struct {
		Words []string `json:"words"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if len(req.Words) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "words is required"})
	}
	return c.JSON(fiber.Map{"roots": s.stem.Stems(req.Words)})
}

func (s *Server) handleAnalyze(c *fiber.Ctx) error {
	var req struct {
		Word string `json:"word"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if req.Word == "" {
		return c.Status(400).JSON(fiber.Map{"error": "word is required"})
	}
	return c.JSON(s.stem.Analyze(req.Word))
}

// handleCorpus processes a raw text body into a wordlist run. The run
// is persisted when a store is configured; either way the full report
// is returned.
func (s *Server) handleCorpus(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "empty corpus body"})
	}
	source := c.Query("source", "upload")
	run, err := s.proc.Process(c.Context(), source, bytes.NewReader(body))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	if s.st != nil {
		if err := s.st.SaveRun(run); err != nil {
			s.log.Errorw("persist run", "run", run.ID, "err", err)
			return c.Status(500).JSON(fiber.Map{"error": "failed to persist run"})
		}
	}
	return c.JSON(run)
}

func (s *Server) handleRuns(c *fiber.Ctx) error {
	if s.st == nil {
		return c.Status(503).JSON(fiber.Map{"error": "persistence disabled"})
	}
	runs, err := s.st.Runs()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"runs": runs})
}

func (s *Server) handleRunWordlist(c *fiber.Ctx) error {
	if s.st == nil {
		return c.Status(503).JSON(fiber.Map{"error": "persistence disabled"})
	}
	rows, err := s.st.Wordlist(c.Params("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "run not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"rows": rows})
}
