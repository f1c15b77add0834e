package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"rescueRoute/internal/domain"
	"rescueRoute/pkg/e"
)

type requestDoc struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Phone       string    `bson:"phone"`
	Type        string    `bson:"type"`
	Location    string    `bson:"location,omitempty"`
	Info        string    `bson:"info,omitempty"`
	Geolocation string    `bson:"geolocation,omitempty"`
	UPI         string    `bson:"upi,omitempty"`
	Timestamp   time.Time `bson:"timestamp"`
}

func toRequestDoc(r domain.ResourceRequest) requestDoc {
	return requestDoc{
		ID:          r.ID.String(),
		Name:        r.Name,
		Phone:       r.Phone,
		Type:        r.Type,
		Location:    r.Location,
		Info:        r.Info,
		Geolocation: r.Geolocation,
		UPI:         r.UPI,
		Timestamp:   r.Timestamp,
	}
}

func fromRequestDoc(d requestDoc) (domain.ResourceRequest, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.ResourceRequest{}, err
	}
	return domain.ResourceRequest{
		ID:          id,
		Name:        d.Name,
		Phone:       d.Phone,
		Type:        d.Type,
		Location:    d.Location,
		Info:        d.Info,
		Geolocation: d.Geolocation,
		UPI:         d.UPI,
		Timestamp:   d.Timestamp.UTC(),
	}, nil
}

type RequestRepo struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

func NewRequests(coll *mongo.Collection, logger *slog.Logger) *RequestRepo {
	return &RequestRepo{coll: coll, logger: logger}
}

func (m *RequestRepo) Create(ctx context.Context, req *domain.ResourceRequest) error {
	const op = "mongo.ResourceRequest.Create"

	if req == nil {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if req.Timestamp.IsZero() {
		req.Timestamp = time.Now().UTC()
	}

	if _, err := m.coll.InsertOne(ctx, toRequestDoc(*req)); err != nil {
		m.logger.Error("insert failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}
	return nil
}

func (m *RequestRepo) List(ctx context.Context, order domain.SortOrder) ([]domain.ResourceRequest, error) {
	const op = "mongo.ResourceRequest.List"

	dir := -1
	if order == domain.SortAsc {
		dir = 1
	}
	findOpts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: dir}, {Key: "_id", Value: 1}})

	cur, err := m.coll.Find(ctx, bson.D{}, findOpts)
	if err != nil {
		m.logger.Error("find failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer cur.Close(ctx)

	items := make([]domain.ResourceRequest, 0, 16)
	for cur.Next(ctx) {
		var doc requestDoc
		if err := cur.Decode(&doc); err != nil {
			m.logger.Error("decode failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		r, err := fromRequestDoc(doc)
		if err != nil {
			m.logger.Warn("skipping request with bad id", slog.String("op", op), slog.String("id", doc.ID))
			continue
		}
		items = append(items, r)
	}
	if err := cur.Err(); err != nil {
		m.logger.Error("cursor err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return items, nil
}

func (m *RequestRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "mongo.ResourceRequest.Delete"

	res, err := m.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
	if err != nil {
		m.logger.Error("delete failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}
	return nil
}
