package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"estate/internal/events"
	"estate/internal/models"
	"estate/internal/observability"
	"estate/internal/repository"

	"github.com/mmcloughlin/geohash"
)

// ImageRef is one locally selected image, referenced by URI the way the
// mobile picker reports it.
type ImageRef struct {
	URI string `json:"uri"`
}

// CreatePropertyInput is the raw submission form. Numeric fields arrive
// as strings and facilities as one comma-joined string, parsed here.
type CreatePropertyInput struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Address     string     `json:"address"`
	Geolocation string     `json:"geolocation"`
	Price       string     `json:"price"`
	Area        string     `json:"area"`
	Bedrooms    string     `json:"bedrooms"`
	Bathrooms   string     `json:"bathrooms"`
	Rating      string     `json:"rating"`
	Facilities  string     `json:"facilities"`
	Type        string     `json:"type"`
	Images      []ImageRef `json:"images"`
}

// ListingService orchestrates the multi-entity creation pipeline:
// agent resolution, image uploads, gallery rows, then the property row.
// Writes happen in that order so every id a property references exists
// before the property does. There is no rollback: records committed
// before a failing step stay behind as orphans, and the step log makes
// them findable.
type ListingService struct {
	agents     repository.AgentRepository
	galleries  repository.GalleryRepository
	properties repository.PropertyRepository
	assets     *AssetService
	publisher  *events.Publisher
}

func NewListingService(
	agents repository.AgentRepository,
	galleries repository.GalleryRepository,
	properties repository.PropertyRepository,
	assets *AssetService,
	publisher *events.Publisher,
) *ListingService {
	return &ListingService{
		agents:     agents,
		galleries:  galleries,
		properties: properties,
		assets:     assets,
		publisher:  publisher,
	}
}

// CreateProperty runs the full pipeline and returns the new property id.
// principal must be non-nil and carry an email; the check runs before any
// network write.
func (s *ListingService) CreateProperty(ctx context.Context, principal *models.Principal, in CreatePropertyInput) (string, error) {
	if principal == nil || principal.Email == "" {
		return "", models.NewNotAuthenticatedError()
	}
	if len(in.Images) == 0 {
		return "", models.NewValidationError("At least one image is required")
	}

	span, ctx := observability.NewSpan(ctx, "listing.create")
	defer span.End()

	steps := newStepLog(ctx)

	agentID, err := s.resolveAgent(ctx, principal)
	if err != nil {
		steps.fail("resolve_agent", err)
		return "", err
	}
	steps.done("resolve_agent")

	refs := make([]string, len(in.Images))
	for i, img := range in.Images {
		refs[i] = img.URI
	}

	urls, err := s.assets.UploadAll(ctx, refs)
	if err != nil {
		steps.fail("upload_images", err)
		steps.orphan("agent", agentID)
		return "", err
	}
	steps.done("upload_images")

	primary, galleryURLs := urls[0], urls[1:]

	galleryIDs, err := s.materializeGallery(ctx, galleryURLs)
	if err != nil {
		steps.fail("materialize_gallery", err)
		steps.orphan("agent", agentID)
		for _, id := range galleryIDs {
			steps.orphan("gallery", id)
		}
		return "", err
	}
	steps.done("materialize_gallery")

	property, err := buildProperty(in, primary, galleryIDs, agentID)
	if err != nil {
		steps.fail("parse_form", err)
		steps.orphan("agent", agentID)
		for _, id := range galleryIDs {
			steps.orphan("gallery", id)
		}
		return "", err
	}

	if err := s.properties.Create(ctx, property); err != nil {
		steps.fail("create_property", err)
		steps.orphan("agent", agentID)
		for _, id := range galleryIDs {
			steps.orphan("gallery", id)
		}
		return "", models.NewRemoteWriteError("property", err)
	}
	steps.done("create_property")

	if err := s.publisher.Publish(ctx, events.RoutingKeyListingCreated, events.ListingCreated{
		PropertyID: property.ID,
		AgentID:    agentID,
		Type:       property.Type,
		Geohash:    property.Geohash,
		CreatedAt:  property.CreatedAt,
	}); err != nil {
		// the listing is committed; a lost event is not a failure
		observability.Logger.WarnContext(ctx, "Failed to publish listing.created", "property_id", property.ID, "error", err)
	}

	observability.Logger.InfoContext(ctx, "Property created",
		"property_id", property.ID, "agent_id", agentID, "gallery_count", len(galleryIDs))
	return property.ID, nil
}

// resolveAgent maps the principal to an agent id, creating the agent on
// first submission. Lookup by exact email, no uniqueness transaction:
// two concurrent first-time submissions can create duplicates.
func (s *ListingService) resolveAgent(ctx context.Context, principal *models.Principal) (string, error) {
	agent, err := s.agents.GetByEmail(ctx, principal.Email)
	if err == nil {
		return agent.ID, nil
	}
	if !repository.IsNotFound(err) {
		return "", models.NewRemoteWriteError("agent", err)
	}

	created := &models.Agent{
		Name:   principal.Name,
		Email:  principal.Email,
		Avatar: principal.AvatarOrFallback(),
		Phone:  principal.Phone,
	}
	if err := s.agents.Create(ctx, created); err != nil {
		return "", models.NewRemoteWriteError("agent", err)
	}
	return created.ID, nil
}

// materializeGallery creates one gallery row per URL and returns the ids
// in URL order. On failure it returns the ids already committed so the
// caller can record them as orphans.
func (s *ListingService) materializeGallery(ctx context.Context, urls []string) ([]string, error) {
	ids := make([]string, 0, len(urls))
	for _, url := range urls {
		g := &models.Gallery{Image: url}
		if err := s.galleries.Create(ctx, g); err != nil {
			return ids, models.NewRemoteWriteError("gallery", err)
		}
		ids = append(ids, g.ID)
	}
	return ids, nil
}

func buildProperty(in CreatePropertyInput, primary string, galleryIDs []string, agentID string) (*models.Property, error) {
	price, err := parseFloatField("price", in.Price)
	if err != nil {
		return nil, err
	}
	area, err := parseFloatField("area", in.Area)
	if err != nil {
		return nil, err
	}
	bedrooms, err := parseIntField("bedrooms", in.Bedrooms)
	if err != nil {
		return nil, err
	}
	bathrooms, err := parseIntField("bathrooms", in.Bathrooms)
	if err != nil {
		return nil, err
	}
	rating := 0.0
	if in.Rating != "" {
		if rating, err = parseFloatField("rating", in.Rating); err != nil {
			return nil, err
		}
	}

	return &models.Property{
		Name:        in.Name,
		Description: in.Description,
		Address:     in.Address,
		Geolocation: in.Geolocation,
		Geohash:     encodeGeohash(in.Geolocation),
		Price:       price,
		Area:        area,
		Bedrooms:    bedrooms,
		Bathrooms:   bathrooms,
		Facilities:  splitFacilities(in.Facilities),
		Rating:      rating,
		Type:        in.Type,
		Image:       primary,
		GalleryIDs:  galleryIDs,
		AgentID:     agentID,
	}, nil
}

func parseFloatField(name, value string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, models.NewValidationError(fmt.Sprintf("Field %q is not a number", name))
	}
	return f, nil
}

func parseIntField(name, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, models.NewValidationError(fmt.Sprintf("Field %q is not an integer", name))
	}
	return n, nil
}

func splitFacilities(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// encodeGeohash derives a geohash from a "lat,lng" string. Malformed
// input yields an empty hash, never an error; the raw string is stored
// either way.
func encodeGeohash(geolocation string) string {
	lat, lng, ok := parseLatLng(geolocation)
	if !ok {
		return ""
	}
	return geohash.Encode(lat, lng)
}

func parseLatLng(geolocation string) (float64, float64, bool) {
	parts := strings.SplitN(geolocation, ",", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, false
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lng, true
}

// stepLog records pipeline progress so orphaned rows left by a failed
// run can be traced from the logs.
type stepLog struct {
	ctx       context.Context
	completed []string
}

func newStepLog(ctx context.Context) *stepLog {
	return &stepLog{ctx: ctx}
}

func (l *stepLog) done(step string) {
	l.completed = append(l.completed, step)
	observability.RecordPipelineStep(step, "ok")
}

func (l *stepLog) fail(step string, err error) {
	observability.RecordPipelineStep(step, "error")
	observability.Logger.ErrorContext(l.ctx, "Listing pipeline step failed",
		"step", step, "completed", l.completed, "error", err)
}

func (l *stepLog) orphan(entity, id string) {
	observability.RecordOrphan(entity)
	observability.Logger.WarnContext(l.ctx, "Orphan record retained", "entity", entity, "id", id)
}
