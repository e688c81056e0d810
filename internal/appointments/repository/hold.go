package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"medsched/pkg/config"
	"medsched/pkg/model"
)

// AppointmentHoldRepository provides operations for advisory slot holds
type AppointmentHoldRepository interface {
	Create(ctx context.Context, hold *model.AppointmentHold) (*model.AppointmentHold, error)
	Delete(ctx context.Context, holdID string) error
}

type mongoAppointmentHoldRepository struct {
	collection *mongo.Collection
}

func NewAppointmentHoldRepository(cfg *config.Config) AppointmentHoldRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAppointmentHoldRepository{
		collection: db.Collection("Appointment_holds"),
	}
}

// Returns duplicate key error if a hold for the same slot already exists
func (r *mongoAppointmentHoldRepository) Create(ctx context.Context, hold *model.AppointmentHold) (*model.AppointmentHold, error) {
	hold.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, hold)
	if err != nil {
		return nil, err
	}

	return hold, nil
}

// Delete removes an advisory hold
func (r *mongoAppointmentHoldRepository) Delete(ctx context.Context, holdID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": holdID})
	return err
}
