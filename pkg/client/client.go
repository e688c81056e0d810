package client

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"medsched/pkg/logger"
)

// Client holds the shared external connections of a service.
type Client struct {
	Mongo *mongo.Client

	AppointmentClient *AppointmentClient
	ScheduleClient    *ScheduleClient
	WaitlistClient    *WaitlistClient

	log *logger.Logger
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) SetAppointmentClient(baseUrl string) {
	c.AppointmentClient = NewAppointmentClient(baseUrl)
}

func (c *Client) SetScheduleClient(baseUrl string) {
	c.ScheduleClient = NewScheduleClient(baseUrl)
}

func (c *Client) SetWaitlistClient(baseUrl string) {
	c.WaitlistClient = NewWaitlistClient(baseUrl)
}

func (c *Client) SetMongo(log *logger.Logger, mongoURI string, mongoConnTimeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoConnTimeout)
	defer cancel()

	mc, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB",
			"error", err,
			"uri", mongoURI,
		)
	}

	if err := mc.Ping(ctx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB", "error", err)
	}

	log.Info("Successfully connected to MongoDB")
	c.Mongo = mc
	c.log = log
}

func (c *Client) GracefulShutdown() {
	if c.Mongo == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.Mongo.Disconnect(ctx); err != nil && c.log != nil {
		c.log.Error("Failed to disconnect MongoDB client", "error", err)
	}
}
