// Package mockhandler serves the /api/v2 surface of a Hermes backend from
// local stores, for development and end-to-end tests.
package mockhandler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"hermes/internal/config"
	"hermes/internal/http/handler"
	"hermes/internal/model"
	"hermes/internal/service"
)

// UserLocalKey holds the signed-in user's email in Fiber's context locals.
const UserLocalKey = "user_email"

type groupsRequest struct {
	Query string `json:"query"`
}

// RegisterRoutes attaches the mock backend routes to app.
func RegisterRoutes(app *fiber.App, ping handler.PingFunc, svc service.WorkspaceService, cfg config.MockAPIConfig) {
	app.Get("/health", handler.HealthCheck(ping))
	app.Get("/healthz", handler.LivenessProbe())

	api := app.Group("/api/v2", User(cfg.UserHeader, cfg.DefaultUser), Latency(cfg.Latency))
	api.Get("/person", Person(svc, cfg.FailEmails))
	api.Post("/groups", Groups(svc))
	api.Get("/me/recently-viewed-docs", RecentlyViewedDocs(svc))
	api.Get("/me/recently-viewed-projects", RecentlyViewedProjects(svc))
	api.Get("/documents/:id", Document(svc, false))
	api.Get("/drafts/:id", Document(svc, true))
	api.Get("/projects/:id", Project(svc))
	api.Post("/search/:index", Search(svc))
}

// User resolves the signed-in user from header, falling back to
// defaultUser. Requests with neither answer 401.
func User(header, defaultUser string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := strings.TrimSpace(c.Get(header))
		if user == "" {
			user = defaultUser
		}
		if user == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "no user")
		}
		c.Locals(UserLocalKey, strings.ToLower(user))
		return c.Next()
	}
}

// Latency delays every request by d, or until the request is cancelled.
func Latency(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if d <= 0 {
			return c.Next()
		}
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
		case <-c.UserContext().Done():
			return fiber.NewError(fiber.StatusServiceUnavailable, "request cancelled")
		}
		return c.Next()
	}
}

func userFromCtx(c *fiber.Ctx) string {
	user, _ := c.Locals(UserLocalKey).(string)
	return user
}

// Person answers GET /person?emails=<email>. Lookups for failEmails answer
// 500.
func Person(svc service.WorkspaceService, failEmails []string) fiber.Handler {
	fail := make(map[string]struct{}, len(failEmails))
	for _, e := range failEmails {
		fail[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		values := c.Context().QueryArgs().PeekMulti("emails")
		if len(values) != 1 {
			return handler.WriteError(c, fiber.StatusBadRequest, "INVALID_EMAILS", "exactly one emails value is required")
		}
		email := string(values[0])
		if _, ok := fail[strings.ToLower(email)]; ok {
			return handler.WriteError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		people, err := svc.People(c.UserContext(), email)
		if err != nil {
			if errors.Is(err, service.ErrEmailRequired) {
				return handler.WriteError(c, fiber.StatusBadRequest, "INVALID_EMAILS", "exactly one emails value is required")
			}
			return err
		}
		return c.JSON(people)
	}
}

func Groups(svc service.WorkspaceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req groupsRequest
		if err := c.BodyParser(&req); err != nil {
			return handler.WriteError(c, fiber.StatusBadRequest, "INVALID_BODY", "body must be a JSON object with a query")
		}
		groups, err := svc.Groups(c.UserContext(), req.Query)
		if err != nil {
			return err
		}
		return c.JSON(groups)
	}
}

func RecentlyViewedDocs(svc service.WorkspaceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		refs, err := svc.RecentlyViewedDocs(c.UserContext(), userFromCtx(c))
		if err != nil {
			return err
		}
		return c.JSON(refs)
	}
}

func RecentlyViewedProjects(svc service.WorkspaceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		refs, err := svc.RecentlyViewedProjects(c.UserContext(), userFromCtx(c))
		if err != nil {
			return err
		}
		return c.JSON(refs)
	}
}

// Document answers GET /documents/:id and GET /drafts/:id.
func Document(svc service.WorkspaceService, draft bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := svc.Document(c.UserContext(), userFromCtx(c), c.Params("id"), draft, c.QueryBool("add_to_recently_viewed"))
		if err != nil {
			if errors.Is(err, service.ErrDocumentNotFound) {
				return handler.WriteError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			}
			return err
		}
		return c.JSON(doc)
	}
}

func Project(svc service.WorkspaceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil || id <= 0 {
			return handler.WriteError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid project id")
		}
		p, err := svc.Project(c.UserContext(), userFromCtx(c), id, c.QueryBool("add_to_recently_viewed"))
		if err != nil {
			if errors.Is(err, service.ErrProjectNotFound) {
				return handler.WriteError(c, fiber.StatusNotFound, "NOT_FOUND", "project not found")
			}
			return err
		}
		return c.JSON(p)
	}
}

// Search answers POST /search/:index for the documents, drafts and
// projects indexes.
func Search(svc service.WorkspaceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		idx, err := service.ParseIndex(c.Params("index"))
		if err != nil {
			return handler.WriteError(c, fiber.StatusNotFound, "INDEX_NOT_FOUND", "unknown search index")
		}
		var req model.SearchRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return handler.WriteError(c, fiber.StatusBadRequest, "INVALID_BODY", "body must be a JSON search request")
			}
		}

		var res any
		if idx.Kind == service.IndexProjects {
			res, err = svc.SearchProjects(c.UserContext(), idx, req)
		} else {
			res, err = svc.SearchDocuments(c.UserContext(), idx, req)
		}
		if err != nil {
			if errors.Is(err, service.ErrInvalidSearch) {
				return handler.WriteError(c, fiber.StatusBadRequest, "INVALID_SEARCH", "invalid search filters")
			}
			return err
		}
		return c.JSON(res)
	}
}
