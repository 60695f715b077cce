package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"trackify/internal/domain/sighting"
)

// PostgresRepository reads sightings stored as jsonb documents.
type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type SightingRow struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Doc       datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time
}

func (SightingRow) TableName() string {
	return "sightings"
}

func (r *PostgresRepository) findQuery(ctx context.Context, filter sighting.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&SightingRow{})
	if plate, ok := filter.Plate(); ok {
		query = query.Where(datatypes.JSONQuery("doc").Equals(plate, "license_plate_text"))
	}
	return query
}

func (r *PostgresRepository) FindSightings(ctx context.Context, filter sighting.Filter) ([]sighting.Sighting, error) {
	var rows []SightingRow
	if err := r.findQuery(ctx, filter).Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]sighting.Sighting, 0, len(rows))
	for _, row := range rows {
		var s sighting.Sighting
		if err := json.Unmarshal(row.Doc, &s); err != nil {
			return nil, fmt.Errorf("decode sighting %s: %w", row.ID, err)
		}
		s.ID = row.ID.String()
		result = append(result, s)
	}
	return result, nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
