package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"

	"estate/internal/models"
	"estate/internal/repository"
	"estate/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPropertyRepository is a mock of the PropertyRepository interface
type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) Create(ctx context.Context, property *models.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockPropertyRepository) GetByID(ctx context.Context, id string) (*models.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPropertyRepository) List(ctx context.Context, q repository.ListPropertiesQuery) ([]*models.Property, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Property), args.Error(1)
}

func (m *MockPropertyRepository) Latest(ctx context.Context, limit int) ([]*models.Property, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Property), args.Error(1)
}

// stubBucket and stubResolver back the creation pipeline in handler tests.
type stubBucket struct{}

func (stubBucket) CreateFile(_ context.Context, _, _ string, _ []byte) error { return nil }
func (stubBucket) ViewURL(fileID string) string                              { return "https://storage.test/view/" + fileID }

type stubResolver struct {
	files map[string][]byte
}

func (s stubResolver) Read(ref string) ([]byte, error) {
	content, ok := s.files[ref]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return content, nil
}

func testImage(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))))
	return buf.Bytes()
}

func withPrincipal(app *fiber.App) {
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("principal", models.Principal{ID: "user-1", Name: "Jane Doe", Email: "jane@example.com"})
		c.Locals("userID", "user-1")
		return c.Next()
	})
}

func TestGetProperties(t *testing.T) {
	app := fiber.New()
	mockRepo := new(MockPropertyRepository)
	s := &Server{propertyRepo: mockRepo}
	app.Get("/properties", s.GetProperties)

	mockRepo.On("List", mock.Anything, mock.MatchedBy(func(q repository.ListPropertiesQuery) bool {
		return q.Filter == "Villa" && q.Query == "beach" && q.Limit == 6
	})).Return([]*models.Property{{ID: "p1", Name: "Beach Villa"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/properties?filter=Villa&query=beach&limit=6", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data  []models.Property `json:"data"`
		Total int               `json:"total"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1, body.Total)
	assert.Equal(t, "Beach Villa", body.Data[0].Name)
	mockRepo.AssertExpectations(t)
}

func TestGetLatestProperties(t *testing.T) {
	app := fiber.New()
	mockRepo := new(MockPropertyRepository)
	s := &Server{propertyRepo: mockRepo}
	app.Get("/properties/latest", s.GetLatestProperties)

	mockRepo.On("Latest", mock.Anything, 5).Return([]*models.Property{{ID: "p1"}, {ID: "p2"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/properties/latest", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	mockRepo.AssertExpectations(t)
}

func TestGetProperty(t *testing.T) {
	app := fiber.New()
	mockRepo := new(MockPropertyRepository)
	s := &Server{propertyRepo: mockRepo}
	app.Get("/properties/:id", s.GetProperty)

	t.Run("Success", func(t *testing.T) {
		mockRepo.On("GetByID", mock.Anything, "p1").
			Return(&models.Property{ID: "p1", Name: "Sea View Villa"}, nil).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/properties/p1", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockRepo.On("GetByID", mock.Anything, "gone").
			Return(nil, gormNotFound()).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/properties/gone", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func validCreateBody(images ...string) map[string]any {
	refs := make([]map[string]string, len(images))
	for i, uri := range images {
		refs[i] = map[string]string{"uri": uri}
	}
	return map[string]any{
		"name":        "Villa A",
		"address":     "1 Ocean Drive",
		"geolocation": "52.52,13.405",
		"price":       "500",
		"area":        "1200",
		"bedrooms":    "3",
		"bathrooms":   "2",
		"rating":      "4",
		"facilities":  "WiFi,Gym",
		"type":        "Villa",
		"images":      refs,
	}
}

func TestCreateProperty(t *testing.T) {
	img := testImage(t)

	newApp := func(listing *service.ListingService) *fiber.App {
		app := fiber.New()
		withPrincipal(app)
		s := &Server{listingService: listing}
		app.Post("/properties", s.CreateProperty)
		return app
	}

	t.Run("Success", func(t *testing.T) {
		agents := new(MockAgentRepository)
		agents.On("GetByEmail", mock.Anything, "jane@example.com").
			Return(&models.Agent{ID: "agent-1"}, nil)

		galleries := new(MockGalleryRepository)
		galleries.On("Create", mock.Anything, mock.Anything).Return(nil)

		properties := new(MockPropertyRepository)
		properties.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Property) bool {
			p.ID = "prop-1"
			return p.AgentID == "agent-1" && len(p.GalleryIDs) == 1
		})).Return(nil)

		assets := service.NewAssetService(stubBucket{}, stubResolver{files: map[string][]byte{
			"/photos/a.png": img,
			"/photos/b.png": img,
		}})
		listing := service.NewListingService(agents, galleries, properties, assets, nil)

		body, _ := json.Marshal(validCreateBody("/photos/a.png", "/photos/b.png"))
		req := httptest.NewRequest(http.MethodPost, "/properties", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := newApp(listing).Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		raw, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(raw), "prop-1")
	})

	t.Run("Schema Rejects Missing Fields", func(t *testing.T) {
		payload := validCreateBody("/photos/a.png")
		delete(payload, "price")
		body, _ := json.Marshal(payload)

		req := httptest.NewRequest(http.MethodPost, "/properties", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := newApp(nil).Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Schema Rejects Empty Images", func(t *testing.T) {
		payload := validCreateBody()
		body, _ := json.Marshal(payload)

		req := httptest.NewRequest(http.MethodPost, "/properties", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := newApp(nil).Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("No Principal", func(t *testing.T) {
		app := fiber.New()
		s := &Server{}
		app.Post("/properties", s.CreateProperty)

		body, _ := json.Marshal(validCreateBody("/photos/a.png"))
		req := httptest.NewRequest(http.MethodPost, "/properties", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
