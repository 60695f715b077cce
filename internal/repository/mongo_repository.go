package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"trackify/internal/domain/sighting"
)

// MongoRepository reads sightings from a single collection.
type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(coll *mongo.Collection) *MongoRepository {
	return &MongoRepository{coll: coll}
}

type SightingDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	FrameNumber     int64              `bson:"frame_nmr"`
	CarID           int64              `bson:"car_id"`
	PlateText       string             `bson:"license_plate_text"`
	CameraID        string             `bson:"camera_number"`
	ConfidenceScore float64            `bson:"license_number_score"`
	Location        string             `bson:"location"`
	Timestamp       time.Time          `bson:"timestamp"`
}

func (d SightingDocument) toDomain() sighting.Sighting {
	s := sighting.Sighting{
		FrameNumber:     d.FrameNumber,
		CarID:           d.CarID,
		PlateText:       d.PlateText,
		CameraID:        d.CameraID,
		ConfidenceScore: d.ConfidenceScore,
		Location:        d.Location,
		Timestamp:       d.Timestamp,
	}
	if !d.ID.IsZero() {
		s.ID = d.ID.Hex()
	}
	return s
}

func plateFilter(filter sighting.Filter) bson.M {
	if plate, ok := filter.Plate(); ok {
		return bson.M{"license_plate_text": plate}
	}
	return bson.M{}
}

func (r *MongoRepository) FindSightings(ctx context.Context, filter sighting.Filter) ([]sighting.Sighting, error) {
	cursor, err := r.coll.Find(ctx, plateFilter(filter))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	result := make([]sighting.Sighting, 0)
	for cursor.Next(ctx) {
		var doc SightingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode sighting: %w", err)
		}
		result = append(result, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *MongoRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, readpref.Primary())
}
