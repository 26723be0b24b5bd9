// Package api implements the HTTP API for parsing and evaluating queries.
package api

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/valyala/fastjson"

	"github.com/lemonberrylabs/sexpq/pkg/methods"
	"github.com/lemonberrylabs/sexpq/pkg/sexpr"
	"github.com/lemonberrylabs/sexpq/pkg/types"
)

// RequestIDHeader carries the id assigned to every request.
const RequestIDHeader = "X-Request-Id"

// Config configures the HTTP server.
type Config struct {
	// AccessLog enables one log line per request.
	AccessLog bool
	// Methods is the registry used for method calls. Nil means the default.
	Methods *methods.Registry
}

// Server is the HTTP API server.
type Server struct {
	app     *fiber.App
	methods *methods.Registry
}

// New creates a new API server.
func New(cfg Config) *Server {
	reg := cfg.Methods
	if reg == nil {
		reg = methods.Default()
	}
	srv := &Server{methods: reg}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		BodyLimit:             4 * 1024 * 1024,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestID)
	if cfg.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${status} ${method} ${path} ${latency} id=${respHeader:" + RequestIDHeader + "}\n",
		}))
	}

	app.Get("/healthz", srv.healthz)
	app.Get("/v1/methods", srv.listMethods)
	app.Post("/v1/query\\:parse", srv.parseQuery)
	app.Post("/v1/query\\:evaluate", srv.evaluateQuery)

	srv.app = app
	return srv
}

// Listen starts the HTTP server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App returns the underlying Fiber app (useful for testing).
func (s *Server) App() *fiber.App {
	return s.app
}

// requestID tags the request and response with a fresh or propagated id.
func requestID(c *fiber.Ctx) error {
	id := c.Get(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(RequestIDHeader, id)
	return c.Next()
}

// --- Handlers ---

func (s *Server) healthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) listMethods(c *fiber.Ctx) error {
	out := fiber.Map{}
	for _, typ := range []types.ValueType{types.TypeString, types.TypeInt, types.TypeDouble, types.TypeList, types.TypeMap} {
		if names := s.methods.Names(typ); len(names) > 0 {
			out[typ.String()] = names
		}
	}
	return c.JSON(fiber.Map{"methods": out})
}

type parseRequest struct {
	Query string `json:"query"`
}

func (s *Server) parseQuery(c *fiber.Ctx) error {
	var req parseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, fmt.Sprintf("invalid request body: %v", err))
	}
	node, err := sexpr.Parse(req.Query)
	if err != nil {
		return queryError(c, err)
	}
	return c.JSON(fiber.Map{
		"canonical": sexpr.Format(node),
		"tree":      sexpr.Tree(node),
	})
}

type evaluateRequest struct {
	Query  string          `json:"query"`
	Record json.RawMessage `json:"record"`
}

func (s *Server) evaluateQuery(c *fiber.Ctx) error {
	var req evaluateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, fmt.Sprintf("invalid request body: %v", err))
	}

	rec, err := decodeRecord(req.Record)
	if err != nil {
		return badRequest(c, err.Error())
	}

	node, err := sexpr.Parse(req.Query)
	if err != nil {
		return queryError(c, err)
	}
	result, err := sexpr.Evaluate(node, sexpr.NewRecordScope(rec, s.methods))
	if err != nil {
		return queryError(c, err)
	}
	return c.JSON(fiber.Map{
		"result": result,
		"type":   result.Type().String(),
	})
}

// decodeRecord decodes the request record with fastjson so that integers
// stay integers. A missing or null record is empty.
func decodeRecord(raw json.RawMessage) (types.Record, error) {
	if len(raw) == 0 {
		return types.Record{}, nil
	}
	v, err := fastjson.ParseBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid record: %v", err)
	}
	if v.Type() == fastjson.TypeNull {
		return types.Record{}, nil
	}
	return types.RecordFromMap(types.FromFastJSON(v))
}

// --- Errors ---

// StatusForKind maps a query error kind to an HTTP status code and a
// canonical status name. Parse errors are the caller's fault; evaluation
// errors depend on the record.
func StatusForKind(kind types.ErrorKind) (int, string) {
	if kind.IsParseKind() {
		return fiber.StatusBadRequest, "INVALID_ARGUMENT"
	}
	return fiber.StatusBadRequest, "FAILED_PRECONDITION"
}

func queryError(c *fiber.Ctx, err error) error {
	kind := types.KindOf(err)
	if kind == "" {
		log.Printf("Unexpected error handling %s: %v", c.Path(), err)
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL", "", err.Error())
	}
	code, status := StatusForKind(kind)
	return writeError(c, code, status, kind, err.Error())
}

func badRequest(c *fiber.Ctx, msg string) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", "", msg)
}

func writeError(c *fiber.Ctx, code int, status string, kind types.ErrorKind, msg string) error {
	body := fiber.Map{
		"code":    code,
		"message": msg,
		"status":  status,
	}
	if kind != "" {
		body["kind"] = string(kind)
	}
	return c.Status(code).JSON(fiber.Map{"error": body})
}

// errorHandler renders routing and framework errors in the API error shape.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	status := "INTERNAL"
	if fe, ok := err.(*fiber.Error); ok {
		code = fe.Code
		switch code {
		case fiber.StatusNotFound:
			status = "NOT_FOUND"
		case fiber.StatusMethodNotAllowed:
			status = "UNIMPLEMENTED"
		case fiber.StatusRequestEntityTooLarge:
			status = "RESOURCE_EXHAUSTED"
		default:
			if code < 500 {
				status = "INVALID_ARGUMENT"
			}
		}
	}
	return writeError(c, code, status, "", err.Error())
}
