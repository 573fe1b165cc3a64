package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"estate/internal/models"
	"estate/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newReviewTestServer(reviews *MockReviewRepository, likes *MockLikeRepository) *Server {
	return &Server{
		reviewService: service.NewReviewService(reviews, likes, nil),
	}
}

func TestCreateReview(t *testing.T) {
	newApp := func(s *Server, authed bool) *fiber.App {
		app := fiber.New()
		if authed {
			withPrincipal(app)
		}
		app.Post("/reviews", s.CreateReview)
		return app
	}

	t.Run("Success", func(t *testing.T) {
		reviews := new(MockReviewRepository)
		reviews.On("Create", mock.Anything, mock.MatchedBy(func(r *models.Review) bool {
			r.ID = "review-1"
			return r.PropertyID == "p1" && r.Name == "Jane Doe" && r.Rating == 5
		})).Return(nil)

		s := newReviewTestServer(reviews, new(MockLikeRepository))
		body, _ := json.Marshal(map[string]any{"property": "p1", "review": "Great location", "rating": 5})
		req := httptest.NewRequest(http.MethodPost, "/reviews", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := newApp(s, true).Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		reviews.AssertExpectations(t)
	})

	t.Run("Validation Failure", func(t *testing.T) {
		s := newReviewTestServer(new(MockReviewRepository), new(MockLikeRepository))
		body, _ := json.Marshal(map[string]any{"property": "p1", "rating": 9})
		req := httptest.NewRequest(http.MethodPost, "/reviews", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := newApp(s, true).Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("No Principal", func(t *testing.T) {
		s := newReviewTestServer(new(MockReviewRepository), new(MockLikeRepository))
		body, _ := json.Marshal(map[string]any{"property": "p1", "review": "x", "rating": 3})
		req := httptest.NewRequest(http.MethodPost, "/reviews", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := newApp(s, false).Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestToggleReviewLikeHandler(t *testing.T) {
	type toggleBody struct {
		Result *service.ToggleResult `json:"result"`
	}

	t.Run("Toggle On", func(t *testing.T) {
		likes := new(MockLikeRepository)
		likes.On("FindFirstForType", mock.Anything, "user-1", "r1", models.TargetTypeReview).
			Return(nil, gormNotFound())
		likes.On("Create", mock.Anything, mock.Anything).Return(nil)

		app := fiber.New()
		withPrincipal(app)
		s := newReviewTestServer(new(MockReviewRepository), likes)
		app.Post("/reviews/:id/likes/toggle", s.ToggleReviewLike)

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/reviews/r1/likes/toggle", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body toggleBody
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.NotNil(t, body.Result)
		assert.True(t, body.Result.Liked)
	})

	t.Run("Toggle Off", func(t *testing.T) {
		likes := new(MockLikeRepository)
		likes.On("FindFirstForType", mock.Anything, "user-1", "r1", models.TargetTypeReview).
			Return(&models.Like{ID: "like-1"}, nil)
		likes.On("Delete", mock.Anything, "like-1").Return(nil)

		app := fiber.New()
		withPrincipal(app)
		s := newReviewTestServer(new(MockReviewRepository), likes)
		app.Post("/reviews/:id/likes/toggle", s.ToggleReviewLike)

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/reviews/r1/likes/toggle", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		var body toggleBody
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.NotNil(t, body.Result)
		assert.False(t, body.Result.Liked)
	})

	t.Run("Remote Error Returns Null Result", func(t *testing.T) {
		likes := new(MockLikeRepository)
		likes.On("FindFirstForType", mock.Anything, "user-1", "r1", models.TargetTypeReview).
			Return(nil, gormNotFound())
		likes.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

		app := fiber.New()
		withPrincipal(app)
		s := newReviewTestServer(new(MockReviewRepository), likes)
		app.Post("/reviews/:id/likes/toggle", s.ToggleReviewLike)

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/reviews/r1/likes/toggle", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		// null is the "no state change" signal; never a 5xx
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body toggleBody
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Nil(t, body.Result)
	})
}

func TestGetReviewLikesHandler(t *testing.T) {
	t.Run("Count And Membership", func(t *testing.T) {
		likes := new(MockLikeRepository)
		likes.On("CountForTarget", mock.Anything, "r1", models.TargetTypeReview).Return(int64(3), nil)
		likes.On("ExistsForType", mock.Anything, "user-1", "r1", models.TargetTypeReview).Return(true, nil)

		app := fiber.New()
		withPrincipal(app)
		s := newReviewTestServer(new(MockReviewRepository), likes)
		app.Get("/reviews/:id/likes", s.GetReviewLikes)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/reviews/r1/likes", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body service.ReviewLikes
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, int64(3), body.Count)
		assert.True(t, body.IsLiked)
	})

	t.Run("Anonymous Caller", func(t *testing.T) {
		likes := new(MockLikeRepository)
		likes.On("CountForTarget", mock.Anything, "r1", models.TargetTypeReview).Return(int64(2), nil)

		app := fiber.New()
		s := newReviewTestServer(new(MockReviewRepository), likes)
		app.Get("/reviews/:id/likes", s.GetReviewLikes)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/reviews/r1/likes", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		var body service.ReviewLikes
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, int64(2), body.Count)
		assert.False(t, body.IsLiked)
	})

	t.Run("Lookup Error Fails Open", func(t *testing.T) {
		likes := new(MockLikeRepository)
		likes.On("CountForTarget", mock.Anything, "r1", models.TargetTypeReview).
			Return(int64(0), assert.AnError)

		app := fiber.New()
		s := newReviewTestServer(new(MockReviewRepository), likes)
		app.Get("/reviews/:id/likes", s.GetReviewLikes)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/reviews/r1/likes", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body service.ReviewLikes
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, int64(0), body.Count)
	})
}
