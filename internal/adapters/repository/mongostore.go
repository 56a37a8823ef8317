package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/smarrtifai/github-optimizer/internal/domain/model"
	"github.com/smarrtifai/github-optimizer/internal/domain/types"
	"github.com/smarrtifai/github-optimizer/pkg/logger"
	"github.com/smarrtifai/github-optimizer/pkg/metrics"
)

// Default MongoDB configuration constants.
const (
	defaultDatabase   = "github_optimizer"
	defaultCollection = "profiles"
	defaultTimeout    = 5 * time.Second
)

// MongoStore keeps one document per login in a MongoDB collection.
type MongoStore struct {
	client     *mongo.Client
	coll       *mongo.Collection
	database   string
	collection string
	timeout    time.Duration
	logger     logger.Logger
}

// NewMongoStore connects to uri, verifies the connection and ensures the
// leaderboard index exists.
func NewMongoStore(ctx context.Context, uri string, opts ...MongoOption) (*MongoStore, error) {
	s := newMongoStore(opts...)

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	client, err := mongo.Connect(cctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(cctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	s.client = client
	s.coll = client.Database(s.database).Collection(s.collection)

	_, err = s.coll.Indexes().CreateOne(cctx, mongo.IndexModel{
		Keys: bson.D{{Key: "rating", Value: -1}, {Key: "_id", Value: 1}},
	})
	if err != nil {
		s.logger.Warn(ctx, "could not create leaderboard index", logger.Error(err))
	}

	s.logger.Info(ctx, "connected to mongodb",
		logger.String("database", s.database),
		logger.String("collection", s.collection),
	)
	return s, nil
}

// NewMongoStoreWithCollection wraps an existing collection. The caller owns
// the client's lifecycle.
func NewMongoStoreWithCollection(coll *mongo.Collection, opts ...MongoOption) *MongoStore {
	s := newMongoStore(opts...)
	s.coll = coll
	return s
}

func newMongoStore(opts ...MongoOption) *MongoStore {
	s := &MongoStore{
		database:   defaultDatabase,
		collection: defaultCollection,
		timeout:    defaultTimeout,
		logger:     logger.Get().Named("mongo"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MongoStore) ctx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// UpsertProfile implements Store.UpsertProfile. Fields not written here,
// such as a stored insight, are left untouched.
func (s *MongoStore) UpsertProfile(ctx context.Context, sum *model.ProfileSummary, fetchedAt time.Time) error {
	if sum == nil || strings.TrimSpace(sum.Profile.Login) == "" {
		return ErrInvalidLogin
	}
	doc := NewDocument(sum, fetchedAt)
	set, err := setFields(doc)
	if err != nil {
		return err
	}

	ctx, cancel := s.ctx(ctx)
	defer cancel()
	_, err = s.coll.UpdateOne(ctx,
		bson.M{"_id": doc.Login},
		bson.M{"$set": set},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		metrics.RecordErrorByComponent("repository", "upsert_failed")
		return fmt.Errorf("upsert profile %s: %w", doc.Login, err)
	}
	return nil
}

// setFields renders doc as a $set document without the immutable _id.
func setFields(doc Document) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode profile %s: %w", doc.Login, err)
	}
	var set bson.M
	if err := bson.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("encode profile %s: %w", doc.Login, err)
	}
	delete(set, "_id")
	return set, nil
}

// SaveInsight implements Store.SaveInsight.
func (s *MongoStore) SaveInsight(ctx context.Context, login, text string, at time.Time) error {
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": login},
		bson.M{"$set": bson.M{"insight": InsightDoc{Text: text, GeneratedAt: at.UTC()}}},
	)
	if err != nil {
		metrics.RecordErrorByComponent("repository", "insight_failed")
		return fmt.Errorf("save insight %s: %w", login, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("save insight %s: %w", login, ErrNotFound)
	}
	return nil
}

// Get implements Store.Get.
func (s *MongoStore) Get(ctx context.Context, login string) (Document, error) {
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	var doc Document
	err := s.coll.FindOne(ctx, bson.M{"_id": login}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("get profile %s: %w", login, err)
	}
	return doc, nil
}

type rankRow struct {
	Login  string `bson:"_id"`
	Rating int    `bson:"rating"`
}

// Rank implements Store.Rank.
func (s *MongoStore) Rank(ctx context.Context, login string) (types.Entry, error) {
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	var row rankRow
	err := s.coll.FindOne(ctx, bson.M{"_id": login},
		options.FindOne().SetProjection(bson.M{"rating": 1}),
	).Decode(&row)
	if errors.Is(err, mongo.ErrNoDocuments) {
		metrics.RecordErrorByComponent("repository", "not_found")
		return types.Entry{}, ErrNotFound
	}
	if err != nil {
		return types.Entry{}, fmt.Errorf("rank %s: %w", login, err)
	}

	above, err := s.coll.CountDocuments(ctx, bson.M{"rating": bson.M{"$gt": row.Rating}})
	if err != nil {
		return types.Entry{}, fmt.Errorf("rank %s: %w", login, err)
	}
	return types.Entry{Rank: int(above) + 1, Login: row.Login, Rating: row.Rating}, nil
}

// TopN implements Store.TopN.
func (s *MongoStore) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}
	ctx, cancel := s.ctx(ctx)
	defer cancel()

	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(n)).
		SetProjection(bson.M{"rating": 1}),
	)
	if err != nil {
		return nil, fmt.Errorf("top %d: %w", n, err)
	}
	var rows []rankRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("top %d: %w", n, err)
	}

	out := make([]types.Entry, len(rows))
	for i, r := range rows {
		out[i] = types.Entry{Login: r.Login, Rating: r.Rating}
	}
	types.AssignRanks(out)
	return out, nil
}

// Count implements Store.Count.
func (s *MongoStore) Count(ctx context.Context) (int, error) {
	ctx, cancel := s.ctx(ctx)
	defer cancel()
	n, err := s.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count profiles: %w", err)
	}
	return int(n), nil
}

// Close implements Store.Close.
func (s *MongoStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongodb: %w", err)
	}
	return nil
}
