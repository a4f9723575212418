package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/locatus/locatus/internal/domain/property"
	ierr "github.com/locatus/locatus/internal/errors"
	"github.com/locatus/locatus/internal/logger"
)

type propertyRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewPropertyRepository returns a gorm backed property repository
func NewPropertyRepository(db *gorm.DB, log *logger.Logger) property.Repository {
	return &propertyRepository{db: db, log: log}
}

func (r *propertyRepository) Create(ctx context.Context, p *property.Property) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ierr.WithError(err).
				WithHintf("Property %s already exists", p.ID).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create property").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *propertyRepository) Get(ctx context.Context, id string) (*property.Property, error) {
	var p property.Property
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ierr.NewError("property not found").
				WithHintf("Property %s does not exist", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get property").
			Mark(ierr.ErrDatabase)
	}
	return &p, nil
}

func (r *propertyRepository) Update(ctx context.Context, p *property.Property) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&property.Property{}).Where("id = ?", p.ID).Updates(p)
	if res.Error != nil {
		return ierr.WithError(res.Error).
			WithHint("Failed to update property").
			Mark(ierr.ErrDatabase)
	}
	if res.RowsAffected == 0 {
		return ierr.NewError("property not found").
			WithHintf("Property %s does not exist", p.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *propertyRepository) List(ctx context.Context) ([]*property.Property, error) {
	var properties []*property.Property
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&properties).Error; err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list properties").
			Mark(ierr.ErrDatabase)
	}
	return properties, nil
}
