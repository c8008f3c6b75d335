package handler

import (
	"errors"
	"net/mail"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"hermes/internal/http/middleware"
	"hermes/internal/latest"
	"hermes/internal/model"
	"hermes/internal/people"
	"hermes/internal/recentlyviewed"
	"hermes/internal/service"
)

type recentlyViewedResponse struct {
	Items []recentlyviewed.Item `json:"items"`
}

type latestResponse struct {
	Docs []model.Document `json:"docs"`
}

type resolveRequest struct {
	Emails    []string         `json:"emails"`
	Documents []model.Document `json:"documents"`
}

type resolveResponse struct {
	People []people.Record `json:"people"`
}

// RegisterRoutes attaches the dashboard routes to app. Every /api route
// requires an access token.
func RegisterRoutes(app *fiber.App, ping PingFunc, svc service.DashboardService) {
	app.Get("/health", HealthCheck(ping))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api", middleware.RequireToken())
	api.Get("/dashboard/recently-viewed", RecentlyViewed(svc))
	api.Get("/dashboard/latest", LatestDocs(svc))
	api.Post("/people/resolve", ResolvePeople(svc))
	api.Get("/people/:email", GetPerson(svc))
}

// RecentlyViewed godoc
// @Summary      Recently viewed index
// @Description  Reloads the signed-in user's recently viewed documents and projects and returns them newest first, with owner records prefetched.
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  recentlyViewedResponse
// @Failure      401  {object}  errorPayload
// @Failure      502  {object}  errorPayload
// @Router       /api/dashboard/recently-viewed [get]
func RecentlyViewed(svc service.DashboardService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.RecentlyViewed(c.UserContext(), middleware.TokenFromCtx(c))
		if err != nil {
			if errors.Is(err, service.ErrRecentlyViewedUnavailable) {
				return WriteError(c, fiber.StatusBadGateway, "RECENTLY_VIEWED_UNAVAILABLE", "recently viewed items could not be loaded")
			}
			return WriteError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(recentlyViewedResponse{Items: items})
	}
}

// LatestDocs godoc
// @Summary      Latest documents
// @Description  Returns the most recently modified documents for a dashboard tab.
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        tab  query     string  false  "new, in-review or reviewed"  default(new)
// @Success      200  {object}  latestResponse
// @Failure      400  {object}  errorPayload
// @Failure      401  {object}  errorPayload
// @Failure      502  {object}  errorPayload
// @Router       /api/dashboard/latest [get]
func LatestDocs(svc service.DashboardService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tab, err := latest.ParseTab(c.Query("tab"))
		if err != nil {
			return WriteError(c, fiber.StatusBadRequest, "INVALID_TAB", "tab must be one of new, in-review, reviewed")
		}
		docs, err := svc.Latest(c.UserContext(), middleware.TokenFromCtx(c), tab)
		if err != nil {
			return WriteError(c, fiber.StatusBadGateway, "UPSTREAM_ERROR", "latest documents could not be loaded")
		}
		return c.JSON(latestResponse{Docs: docs})
	}
}

// ResolvePeople godoc
// @Summary      Resolve people
// @Description  Resolves emails and document owners into person or group records. Lookups that fail resolve to placeholders.
// @Tags         people
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      resolveRequest  true  "emails and documents"
// @Success      200   {object}  resolveResponse
// @Failure      400   {object}  errorPayload
// @Failure      401   {object}  errorPayload
// @Router       /api/people/resolve [post]
func ResolvePeople(svc service.DashboardService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req resolveRequest
		if err := c.BodyParser(&req); err != nil {
			return WriteError(c, fiber.StatusBadRequest, "INVALID_BODY", "body must be a JSON object with emails and documents")
		}
		records, err := svc.ResolvePeople(c.UserContext(), middleware.TokenFromCtx(c), req.Emails, req.Documents)
		if err != nil {
			if errors.Is(err, service.ErrTooManyIdentities) {
				return WriteError(c, fiber.StatusBadRequest, "TOO_MANY_IDENTITIES", "too many identities in one request")
			}
			return WriteError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(resolveResponse{People: records})
	}
}

// GetPerson godoc
// @Summary      Get person
// @Description  Resolves one email into a person or group record.
// @Tags         people
// @Produce      json
// @Security     BearerAuth
// @Param        email  path      string  true  "email address"
// @Success      200    {object}  people.Record
// @Failure      400    {object}  errorPayload
// @Failure      401    {object}  errorPayload
// @Failure      404    {object}  errorPayload
// @Router       /api/people/{email} [get]
func GetPerson(svc service.DashboardService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Params are raw: the app is built without UnescapePath.
		raw, err := url.PathUnescape(c.Params("email"))
		if err != nil {
			return WriteError(c, fiber.StatusBadRequest, "INVALID_EMAIL", "invalid email address")
		}
		addr, err := mail.ParseAddress(raw)
		if err != nil || addr.Name != "" {
			return WriteError(c, fiber.StatusBadRequest, "INVALID_EMAIL", "invalid email address")
		}
		r, err := svc.Person(c.UserContext(), middleware.TokenFromCtx(c), addr.Address)
		if err != nil {
			if errors.Is(err, service.ErrPersonNotFound) {
				return WriteError(c, fiber.StatusNotFound, "NOT_FOUND", "person not found")
			}
			return WriteError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(r)
	}
}
