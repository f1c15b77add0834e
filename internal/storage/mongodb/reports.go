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

type coordinateDoc struct {
	Lat float64 `bson:"lat"`
	Lng float64 `bson:"lng"`
}

// reportDoc keeps the field names of the original reports collection.
type reportDoc struct {
	ID               string         `bson:"_id"`
	Title            string         `bson:"title"`
	Description      string         `bson:"description"`
	ReportType       string         `bson:"reportType"`
	MediaURL         string         `bson:"mediaUrl,omitempty"`
	LiveLocationLink string         `bson:"liveLocationLink,omitempty"`
	Location         *coordinateDoc `bson:"location"`
	Address          string         `bson:"address,omitempty"`
	Timestamp        time.Time      `bson:"timestamp"`
}

func toDoc(r domain.Report) reportDoc {
	d := reportDoc{
		ID:               r.ID.String(),
		Title:            r.Title,
		Description:      r.Description,
		ReportType:       string(r.ReportType),
		MediaURL:         r.MediaURL,
		LiveLocationLink: r.LiveLocationLink,
		Address:          r.Address,
		Timestamp:        r.Timestamp,
	}
	if r.Location != nil {
		d.Location = &coordinateDoc{Lat: r.Location.Lat, Lng: r.Location.Lng}
	}
	return d
}

func fromDoc(d reportDoc) (domain.Report, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.Report{}, err
	}
	r := domain.Report{
		ID:               id,
		Title:            d.Title,
		Description:      d.Description,
		ReportType:       domain.ReportType(d.ReportType),
		MediaURL:         d.MediaURL,
		LiveLocationLink: d.LiveLocationLink,
		Address:          d.Address,
		Timestamp:        d.Timestamp.UTC(),
	}
	if d.Location != nil {
		r.Location = &domain.Coordinate{Lat: d.Location.Lat, Lng: d.Location.Lng}
	}
	return r, nil
}

type ReportRepo struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

func NewReports(coll *mongo.Collection, logger *slog.Logger) *ReportRepo {
	return &ReportRepo{coll: coll, logger: logger}
}

func (m *ReportRepo) Create(ctx context.Context, report *domain.Report) error {
	const op = "mongo.Report.Create"

	if report == nil {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	if report.Timestamp.IsZero() {
		report.Timestamp = time.Now().UTC()
	}

	if _, err := m.coll.InsertOne(ctx, toDoc(*report)); err != nil {
		m.logger.Error("insert failed",
			slog.String("op", op),
			slog.Any("error", err),
			slog.String("id", report.ID.String()),
		)
		return e.WrapError(ctx, op, err)
	}
	return nil
}

func (m *ReportRepo) List(ctx context.Context) ([]domain.Report, error) {
	const op = "mongo.Report.List"

	findOpts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: 1}})

	cur, err := m.coll.Find(ctx, bson.D{}, findOpts)
	if err != nil {
		m.logger.Error("find failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer cur.Close(ctx)

	reports := make([]domain.Report, 0, 32)
	for cur.Next(ctx) {
		var doc reportDoc
		if err := cur.Decode(&doc); err != nil {
			m.logger.Error("decode failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		r, err := fromDoc(doc)
		if err != nil {
			// a foreign _id must not hide the rest of the feed
			m.logger.Warn("skipping report with bad id", slog.String("op", op), slog.String("id", doc.ID))
			continue
		}
		reports = append(reports, r)
	}
	if err := cur.Err(); err != nil {
		m.logger.Error("cursor err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return reports, nil
}

func (m *ReportRepo) CountByType(ctx context.Context, minutes int) (map[domain.ReportType]int64, error) {
	const op = "mongo.Report.CountByType"

	if minutes <= 0 || minutes > 1440 {
		return nil, fmt.Errorf("%s: %w", op, e.ErrInvalidInput)
	}
	since := time.Now().UTC().Add(-time.Duration(minutes) * time.Minute)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "timestamp", Value: bson.D{{Key: "$gte", Value: since}}}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$reportType"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cur, err := m.coll.Aggregate(ctx, pipeline)
	if err != nil {
		m.logger.Error("aggregate failed", slog.String("op", op), slog.Any("error", err), slog.Int("minutes", minutes))
		return nil, e.WrapError(ctx, op, err)
	}
	defer cur.Close(ctx)

	counts := make(map[domain.ReportType]int64)
	for cur.Next(ctx) {
		var row struct {
			Type  string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			m.logger.Error("decode failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		counts[domain.ReportType(row.Type)] = row.Count
	}
	if err := cur.Err(); err != nil {
		m.logger.Error("cursor err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return counts, nil
}
