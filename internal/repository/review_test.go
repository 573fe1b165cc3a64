package repository

import (
	"context"
	"regexp"
	"testing"

	"estate/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestReviewRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	review := &models.Review{Review: "Great location", PropertyID: "p1", Rating: 5}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "reviews"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Create(ctx, review)
	assert.NoError(t, err)
	assert.NotEmpty(t, review.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reviews" WHERE id = $1`)).
			WithArgs("r1", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "review", "property"}).
				AddRow("r1", "Great location", "p1"))

		review, err := repo.GetByID(ctx, "r1")
		assert.NoError(t, err)
		assert.Equal(t, "Great location", review.Review)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reviews" WHERE id = $1`)).
			WithArgs("gone", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetByID(ctx, "gone")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReviewRepository_ListByProperty(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reviews" WHERE property = $1 ORDER BY created_at DESC`)).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "review", "property"}).
			AddRow("r2", "Newest", "p1").
			AddRow("r1", "Older", "p1"))

	reviews, err := repo.ListByProperty(ctx, "p1")
	assert.NoError(t, err)
	assert.Len(t, reviews, 2)
	assert.Equal(t, "Newest", reviews[0].Review)
	assert.NoError(t, mock.ExpectationsWereMet())
}
