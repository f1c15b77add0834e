package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"rescueRoute/internal/config"
)

const (
	reportsCollection  = "reports"
	requestsCollection = "resource_requests"
)

type Mongo struct {
	Client   *mongo.Client
	DB       *mongo.Database
	Reports  *ReportRepo
	Requests *RequestRepo
}

func Connect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Mongo, error) {
	start := time.Now()
	logger.Info("Connecting to Mongo",
		slog.String("uri", redactURI(cfg.Mongo.URI)),
		slog.String("db", cfg.Mongo.Database))

	dctx, cancel := context.WithTimeout(ctx, cfg.Mongo.Timeout)
	defer cancel()

	c, err := mongo.Connect(dctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err = c.Ping(dctx, nil); err != nil {
		_ = c.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := c.Database(cfg.Mongo.Database)
	coll := db.Collection(reportsCollection)
	reqColl := db.Collection(requestsCollection)

	if err := createIndexes(dctx, coll, reqColl); err != nil {
		logger.Warn("mongo index creation warnings", slog.Any("error", err))
	}

	logger.Info("Connected to Mongo successfully",
		slog.Duration("latency", time.Since(start).Round(time.Millisecond)))

	return &Mongo{
		Client:   c,
		DB:       db,
		Reports:  NewReports(coll, logger),
		Requests: NewRequests(reqColl, logger),
	}, nil
}

func (m *Mongo) Disconnect(ctx context.Context) error {
	if m == nil || m.Client == nil {
		return nil
	}
	return m.Client.Disconnect(ctx)
}

func createIndexes(ctx context.Context, coll, requests *mongo.Collection) error {
	var errs []string

	if _, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "timestamp", Value: -1}},
	}); err != nil {
		errs = append(errs, "timestamp: "+err.Error())
	}
	if _, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "reportType", Value: 1}, {Key: "timestamp", Value: -1}},
	}); err != nil {
		errs = append(errs, "reportType,timestamp: "+err.Error())
	}
	if _, err := requests.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "timestamp", Value: -1}},
	}); err != nil {
		errs = append(errs, "requests timestamp: "+err.Error())
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func redactURI(raw string) string {
	if raw == "" || !strings.Contains(raw, "://") {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	u.User = url.UserPassword("****", "****")
	return u.String()
}
