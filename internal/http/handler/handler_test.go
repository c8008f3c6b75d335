package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hermes/internal/http/middleware"
	"hermes/internal/latest"
	"hermes/internal/model"
	"hermes/internal/people"
	"hermes/internal/recentlyviewed"
	"hermes/internal/service"
	serviceMocks "hermes/internal/service/mocks"
)

func newApp(svc service.DashboardService, ping PingFunc) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(middleware.RequestID())
	RegisterRoutes(app, ping, svc)
	return app
}

func okPing(context.Context) error { return nil }

func authed(method, target string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("Authorization", "Bearer tok")
	return req
}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealthCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		app := newApp(new(serviceMocks.MockDashboardService), okPing)
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		app := newApp(new(serviceMocks.MockDashboardService), func(context.Context) error { return errors.New("backend down") })
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		body := decodeError(t, resp)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
		assert.NotEmpty(t, body.RequestID)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_RequiresToken(t *testing.T) {
	svc := new(serviceMocks.MockDashboardService)
	app := newApp(svc, okPing)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/dashboard/recently-viewed", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Error.Code)
	svc.AssertNotCalled(t, "RecentlyViewed", mock.Anything, mock.Anything)
}

func TestRecentlyViewed(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(serviceMocks.MockDashboardService)
		items := []recentlyviewed.Item{
			{Kind: recentlyviewed.KindProject, Project: &model.Project{ID: 3, Title: "Launch"}, ViewedTime: 20},
			{Kind: recentlyviewed.KindDocument, Document: &model.Document{ObjectID: "d1"}, ViewedTime: 10},
		}
		svc.On("RecentlyViewed", mock.Anything, "tok").Return(items, nil).Once()

		resp, err := newApp(svc, okPing).Test(authed(http.MethodGet, "/api/dashboard/recently-viewed", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body recentlyViewedResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body.Items, 2)
		assert.Equal(t, "Launch", body.Items[0].Project.Title)
		svc.AssertExpectations(t)
	})

	t.Run("unavailable", func(t *testing.T) {
		svc := new(serviceMocks.MockDashboardService)
		svc.On("RecentlyViewed", mock.Anything, "tok").
			Return(nil, errors.Join(service.ErrRecentlyViewedUnavailable, errors.New("list recently viewed docs: 500"))).Once()

		resp, err := newApp(svc, okPing).Test(authed(http.MethodGet, "/api/dashboard/recently-viewed", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		body := decodeError(t, resp)
		assert.Equal(t, "RECENTLY_VIEWED_UNAVAILABLE", body.Error.Code)
		assert.NotContains(t, body.Error.Message, "500")
	})

	t.Run("google token header", func(t *testing.T) {
		svc := new(serviceMocks.MockDashboardService)
		svc.On("RecentlyViewed", mock.Anything, "g-tok").Return([]recentlyviewed.Item{}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/dashboard/recently-viewed", nil)
		req.Header.Set("Hermes-Google-Access-Token", "g-tok")
		resp, err := newApp(svc, okPing).Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		svc.AssertExpectations(t)
	})
}

func TestLatestDocs(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		setup      func(svc *serviceMocks.MockDashboardService)
		wantStatus int
		wantCode   string
	}{
		{
			name:  "default tab",
			query: "",
			setup: func(svc *serviceMocks.MockDashboardService) {
				svc.On("Latest", mock.Anything, "tok", latest.TabNew).
					Return([]model.Document{{ObjectID: "d1", ModifiedAgo: "Modified 2 hours ago"}}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:  "in review",
			query: "?tab=in-review",
			setup: func(svc *serviceMocks.MockDashboardService) {
				svc.On("Latest", mock.Anything, "tok", latest.TabInReview).Return([]model.Document{}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid tab",
			query:      "?tab=archived",
			setup:      func(*serviceMocks.MockDashboardService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_TAB",
		},
		{
			name:  "upstream error",
			query: "?tab=reviewed",
			setup: func(svc *serviceMocks.MockDashboardService) {
				svc.On("Latest", mock.Anything, "tok", latest.TabReviewed).Return(nil, errors.New("search docs: 500"))
			},
			wantStatus: http.StatusBadGateway,
			wantCode:   "UPSTREAM_ERROR",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(serviceMocks.MockDashboardService)
			tc.setup(svc)

			resp, err := newApp(svc, okPing).Test(authed(http.MethodGet, "/api/dashboard/latest"+tc.query, nil))
			require.NoError(t, err)

			assert.Equal(t, tc.wantStatus, resp.StatusCode)
			if tc.wantCode != "" {
				assert.Equal(t, tc.wantCode, decodeError(t, resp).Error.Code)
				return
			}
			var body latestResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.NotNil(t, body.Docs)
			svc.AssertExpectations(t)
		})
	}
}

func TestResolvePeople(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(serviceMocks.MockDashboardService)
		records := []people.Record{
			{Kind: people.KindPerson, Email: "ada@x.com", Name: "Ada Lovelace"},
			{Kind: people.KindPerson, Email: "gone@x.com", Placeholder: true},
		}
		svc.On("ResolvePeople", mock.Anything, "tok",
			[]string{"ada@x.com", "gone@x.com"},
			[]model.Document{{ObjectID: "d1", Owners: []string{"ada@x.com"}}},
		).Return(records, nil).Once()

		body := []byte(`{"emails":["ada@x.com","gone@x.com"],"documents":[{"objectID":"d1","owners":["ada@x.com"]}]}`)
		resp, err := newApp(svc, okPing).Test(authed(http.MethodPost, "/api/people/resolve", body))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var got resolveResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, records, got.People)
		svc.AssertExpectations(t)
	})

	t.Run("malformed body", func(t *testing.T) {
		resp, err := newApp(new(serviceMocks.MockDashboardService), okPing).
			Test(authed(http.MethodPost, "/api/people/resolve", []byte(`{"emails":`)))
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_BODY", decodeError(t, resp).Error.Code)
	})

	t.Run("too many identities", func(t *testing.T) {
		svc := new(serviceMocks.MockDashboardService)
		svc.On("ResolvePeople", mock.Anything, "tok", mock.Anything, mock.Anything).
			Return(nil, service.ErrTooManyIdentities).Once()

		resp, err := newApp(svc, okPing).Test(authed(http.MethodPost, "/api/people/resolve", []byte(`{"emails":["a@x.com"]}`)))
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "TOO_MANY_IDENTITIES", decodeError(t, resp).Error.Code)
	})
}

func TestGetPerson(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(serviceMocks.MockDashboardService)
		svc.On("Person", mock.Anything, "tok", "ada@x.com").
			Return(people.Record{Kind: people.KindPerson, Email: "ada@x.com", FirstName: "Ada"}, nil).Once()

		resp, err := newApp(svc, okPing).Test(authed(http.MethodGet, "/api/people/ada%40x.com", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var got people.Record
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, "Ada", got.FirstName)
	})

	t.Run("invalid email", func(t *testing.T) {
		svc := new(serviceMocks.MockDashboardService)
		resp, err := newApp(svc, okPing).Test(authed(http.MethodGet, "/api/people/not-an-email", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_EMAIL", decodeError(t, resp).Error.Code)
		svc.AssertNotCalled(t, "Person", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("path is decoded once", func(t *testing.T) {
		svc := new(serviceMocks.MockDashboardService)
		resp, err := newApp(svc, okPing).Test(authed(http.MethodGet, "/api/people/ada%2540x.com", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_EMAIL", decodeError(t, resp).Error.Code)
		svc.AssertNotCalled(t, "Person", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(serviceMocks.MockDashboardService)
		svc.On("Person", mock.Anything, "tok", "gone@x.com").Return(people.Record{}, service.ErrPersonNotFound).Once()

		resp, err := newApp(svc, okPing).Test(authed(http.MethodGet, "/api/people/gone@x.com", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		err      error
		status   int
		wantCode string
	}{
		{fiber.ErrBadRequest, http.StatusBadRequest, "BAD_REQUEST"},
		{fiber.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{fiber.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{fiber.ErrMethodNotAllowed, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
		{fiber.ErrTeapot, http.StatusInternalServerError, "INTERNAL_ERROR"},
		{errors.New("pq: password authentication failed"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range tests {
		t.Run(tc.wantCode+"/"+tc.err.Error(), func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
			app.Get("/", func(*fiber.Ctx) error { return tc.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)

			assert.Equal(t, tc.status, resp.StatusCode)
			body := decodeError(t, resp)
			assert.Equal(t, tc.wantCode, body.Error.Code)
			assert.False(t, strings.Contains(body.Error.Message, "password"))
		})
	}
}
