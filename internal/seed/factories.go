package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"estate/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/mmcloughlin/geohash"
	"gorm.io/gorm"
)

var (
	propertyTypes = []string{
		models.PropertyTypeHouse, models.PropertyTypeTownhouse, models.PropertyTypeCondo,
		models.PropertyTypeDuplex, models.PropertyTypeStudio, models.PropertyTypeVilla,
		models.PropertyTypeApartment, models.PropertyTypeOther,
	}

	facilityPool = []string{
		"WiFi", "Gym", "Swimming Pool", "Parking", "Laundry",
		"Pet Friendly", "Cutlery", "Sports Center",
	}
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and by generator tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	r    *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Factory{db: db, opts: opts, r: r}
}

// CreateAgent constructs and persists a sample `models.Agent`.
// Optional override functions may modify the generated agent before saving.
func (f *Factory) CreateAgent(overrides ...func(*models.Agent)) (*models.Agent, error) {
	agent := &models.Agent{
		ID:     uuid.NewString(),
		Name:   gofakeit.Name(),
		Email:  gofakeit.Email(),
		Phone:  gofakeit.Phone(),
		Avatar: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	for _, override := range overrides {
		override(agent)
	}

	if f.opts.DryRun {
		log.Printf("[dry-run] CreateAgent: %s <%s>", agent.Name, agent.Email)
		return agent, nil
	}

	if err := f.db.Create(agent).Error; err != nil {
		return nil, err
	}
	return agent, nil
}

// BuildProperty constructs a property struct with realistic listing data
// but does not persist it or its gallery rows. Useful for generator tests.
func (f *Factory) BuildProperty(agent *models.Agent, overrides ...func(*models.Property)) *models.Property {
	lat := gofakeit.Float64Range(-60, 60)
	lng := gofakeit.Float64Range(-150, 150)

	property := &models.Property{
		ID:          uuid.NewString(),
		Name:        fmt.Sprintf("%s %s", gofakeit.Adjective(), gofakeit.NounConcrete()),
		Description: gofakeit.Paragraph(1, 3, 8, "\n"),
		Address:     gofakeit.Address().Address,
		Geolocation: fmt.Sprintf("%f,%f", lat, lng),
		Geohash:     geohash.Encode(lat, lng),
		Price:       float64(gofakeit.Number(400, 9000)),
		Area:        float64(gofakeit.Number(300, 4500)),
		Bedrooms:    gofakeit.Number(1, 6),
		Bathrooms:   gofakeit.Number(1, 4),
		Facilities:  pickFacilities(f.r),
		Rating:      float64(gofakeit.Number(20, 50)) / 10,
		Type:        propertyTypes[f.r.Intn(len(propertyTypes))],
		Image:       fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
		AgentID:     agent.ID,
	}

	// realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.r.Intn(maxDays)
	hoursBack := f.r.Intn(24)
	property.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(property)
	}
	return property
}

// CreateProperty persists a generated property for the given agent.
// Gallery rows are written first so the property's gallery list only ever
// references rows that already exist, matching the upload pipeline's order.
func (f *Factory) CreateProperty(agent *models.Agent, overrides ...func(*models.Property)) (*models.Property, error) {
	property := f.BuildProperty(agent, overrides...)

	if f.opts.DryRun {
		log.Printf("[dry-run] CreateProperty: name=%q type=%s agent=%s", property.Name, property.Type, property.AgentID)
		return property, nil
	}

	galleryCount := f.r.Intn(4)
	galleryIDs := make([]string, 0, galleryCount)
	for i := 0; i < galleryCount; i++ {
		row := &models.Gallery{
			ID:    uuid.NewString(),
			Image: fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
		}
		if err := f.db.Create(row).Error; err != nil {
			return nil, err
		}
		galleryIDs = append(galleryIDs, row.ID)
	}
	property.GalleryIDs = galleryIDs

	if err := f.db.Create(property).Error; err != nil {
		return nil, err
	}
	return property, nil
}

// CreateReview constructs and persists a sample `models.Review` on the
// provided property.
func (f *Factory) CreateReview(property *models.Property, overrides ...func(*models.Review)) (*models.Review, error) {
	review := &models.Review{
		ID:         uuid.NewString(),
		Review:     gofakeit.Sentence(12),
		Name:       gofakeit.Name(),
		Avatar:     fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		PropertyID: property.ID,
		Rating:     gofakeit.Number(1, 5),
	}

	for _, override := range overrides {
		override(review)
	}

	if f.opts.DryRun {
		log.Printf("[dry-run] CreateReview: property=%s rating=%d", review.PropertyID, review.Rating)
		return review, nil
	}

	if err := f.db.Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// CreateLike persists a like from `userID` on the given target.
func (f *Factory) CreateLike(userID, targetID, targetType string) error {
	like := &models.Like{
		ID:         uuid.NewString(),
		UserID:     userID,
		TargetID:   targetID,
		TargetType: targetType,
	}
	if f.opts.DryRun {
		return nil
	}
	return f.db.Create(like).Error
}

func pickFacilities(r *rand.Rand) []string {
	n := r.Intn(len(facilityPool)) + 1
	picked := make([]string, 0, n)
	for _, i := range r.Perm(len(facilityPool))[:n] {
		picked = append(picked, facilityPool[i])
	}
	return picked
}
