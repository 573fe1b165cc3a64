// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"estate/internal/models"
	"estate/internal/observability"

	"gorm.io/gorm"
)

// AgentRepository defines the interface for agent data operations.
type AgentRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.Agent, error)
	Create(ctx context.Context, agent *models.Agent) error
}

type agentRepository struct {
	db *gorm.DB
}

// NewAgentRepository creates a new agent repository
func NewAgentRepository(db *gorm.DB) AgentRepository {
	return &agentRepository{db: db}
}

// GetByEmail returns the first agent with an exact email match.
// Returns gorm.ErrRecordNotFound when no agent exists for the email.
func (r *agentRepository) GetByEmail(ctx context.Context, email string) (*models.Agent, error) {
	defer observability.TrackQuery("get_by_email", "agents")()

	var agent models.Agent
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&agent).Error; err != nil {
		return nil, err
	}
	return &agent, nil
}

func (r *agentRepository) Create(ctx context.Context, agent *models.Agent) error {
	defer observability.TrackQuery("create", "agents")()

	return r.db.WithContext(ctx).Create(agent).Error
}
