package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"NewsPortal/internal/domain"
	"NewsPortal/internal/ports"
)

const (
	articlesCollection = "news_articles"
	settingsCollection = "admin_settings"
)

// MongoRepository persists articles and settings into MongoDB.
type MongoRepository struct {
	client   *mongo.Client
	articles *mongo.Collection
	settings *mongo.Collection
}

var (
	_ ports.ArticleStore  = (*MongoRepository)(nil)
	_ ports.SettingsStore = (*MongoRepository)(nil)
)

// OpenMongo connects and verifies the deployment is reachable.
func OpenMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// NewMongoRepository binds the repository to a database.
func NewMongoRepository(client *mongo.Client, database string) *MongoRepository {
	db := client.Database(database)
	return &MongoRepository{
		client:   client,
		articles: db.Collection(articlesCollection),
		settings: db.Collection(settingsCollection),
	}
}

// EnsureIndexes creates the unique id index and the breaking-feed index.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.articles.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: ports.FieldID, Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: ports.FieldIsBreaking, Value: 1}, {Key: ports.FieldPublishedAt, Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (r *MongoRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

// FindOne returns the first matching article or nil.
func (r *MongoRepository) FindOne(ctx context.Context, filter ports.Filter) (*domain.Article, error) {
	query, err := bsonFilter(filter)
	if err != nil {
		return nil, err
	}

	var article domain.Article
	if err := r.articles.FindOne(ctx, query).Decode(&article); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find article: %w", err)
	}
	return &article, nil
}

// FindMany returns matching articles honouring sort and paging.
func (r *MongoRepository) FindMany(ctx context.Context, filter ports.Filter, opts ports.FindOptions) ([]domain.Article, error) {
	query, err := bsonFilter(filter)
	if err != nil {
		return nil, err
	}

	findOpts := options.Find()
	if opts.SortField != "" {
		dir := 1
		if opts.SortDesc {
			dir = -1
		}
		findOpts.SetSort(bson.D{{Key: opts.SortField, Value: dir}})
	}
	if opts.Skip > 0 {
		findOpts.SetSkip(int64(opts.Skip))
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}

	cursor, err := r.articles.Find(ctx, query, findOpts)
	if err != nil {
		return nil, fmt.Errorf("find articles: %w", err)
	}

	articles := []domain.Article{}
	if err := cursor.All(ctx, &articles); err != nil {
		return nil, fmt.Errorf("decode articles: %w", err)
	}
	return articles, nil
}

// InsertOne stores a new article.
func (r *MongoRepository) InsertOne(ctx context.Context, article domain.Article) error {
	if _, err := r.articles.InsertOne(ctx, article); err != nil {
		return fmt.Errorf("insert article %s: %w", article.ID, err)
	}
	return nil
}

// UpdateOne patches the first matching article.
func (r *MongoRepository) UpdateOne(ctx context.Context, filter ports.Filter, patch ports.Patch) (bool, error) {
	query, err := bsonFilter(filter)
	if err != nil {
		return false, err
	}
	update, err := bsonUpdate(patch)
	if err != nil {
		return false, err
	}

	res, err := r.articles.UpdateOne(ctx, query, update)
	if err != nil {
		return false, fmt.Errorf("update article: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// Count returns the number of matching articles.
func (r *MongoRepository) Count(ctx context.Context, filter ports.Filter) (int, error) {
	query, err := bsonFilter(filter)
	if err != nil {
		return 0, err
	}
	n, err := r.articles.CountDocuments(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return int(n), nil
}

// Get loads the settings singleton or nil.
func (r *MongoRepository) Get(ctx context.Context) (*domain.Settings, error) {
	raw, err := r.settings.FindOne(ctx, bson.M{}).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("load settings: %w", err)
	}
	s, err := decodeSettings(raw)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return &s, nil
}

// decodeSettings treats absent feature switches as enabled, matching
// documents written before the switch existed.
func decodeSettings(raw bson.Raw) (domain.Settings, error) {
	var s domain.Settings
	if err := bson.Unmarshal(raw, &s); err != nil {
		return domain.Settings{}, err
	}
	if _, err := raw.LookupErr("auto_breaking_news"); err != nil {
		s.AutoBreakingNews = true
	}
	if _, err := raw.LookupErr("auto_news_enabled"); err != nil {
		s.AutoNewsEnabled = true
	}
	return s, nil
}

// Upsert replaces the settings singleton.
func (r *MongoRepository) Upsert(ctx context.Context, s domain.Settings) error {
	_, err := r.settings.ReplaceOne(ctx, bson.M{}, s, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}

func bsonFilter(filter ports.Filter) (bson.M, error) {
	var all bson.A
	for _, p := range filter.All {
		cond, err := bsonPredicate(p)
		if err != nil {
			return nil, err
		}
		all = append(all, cond)
	}

	if len(filter.Any) > 0 {
		var anyOf bson.A
		for _, p := range filter.Any {
			cond, err := bsonPredicate(p)
			if err != nil {
				return nil, err
			}
			anyOf = append(anyOf, cond)
		}
		all = append(all, bson.M{"$or": anyOf})
	}

	switch len(all) {
	case 0:
		return bson.M{}, nil
	case 1:
		return all[0].(bson.M), nil
	}
	return bson.M{"$and": all}, nil
}

func bsonPredicate(p ports.Predicate) (bson.M, error) {
	if _, ok := filterable[p.Field]; !ok {
		return nil, fmt.Errorf("unsupported filter field %q", p.Field)
	}

	switch p.Op {
	case ports.OpEq:
		return bson.M{p.Field: p.Value}, nil
	case ports.OpContainsFold:
		s, ok := p.Value.(string)
		if !ok {
			return nil, fmt.Errorf("field %s expects string", p.Field)
		}
		return bson.M{p.Field: primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}}, nil
	case ports.OpGte:
		return bson.M{p.Field: bson.M{"$gte": p.Value}}, nil
	}
	return nil, fmt.Errorf("unsupported operator %d on %s", p.Op, p.Field)
}

func bsonUpdate(patch ports.Patch) (bson.M, error) {
	update := bson.M{}
	if len(patch.Set) > 0 {
		set := bson.M{}
		for field, value := range patch.Set {
			if _, ok := filterable[field]; !ok {
				return nil, fmt.Errorf("field %s cannot be updated", field)
			}
			set[field] = value
		}
		update["$set"] = set
	}
	if len(patch.Inc) > 0 {
		inc := bson.M{}
		for field, delta := range patch.Inc {
			if _, ok := filterable[field]; !ok {
				return nil, fmt.Errorf("field %s cannot be incremented", field)
			}
			inc[field] = delta
		}
		update["$inc"] = inc
	}
	if len(update) == 0 {
		return nil, fmt.Errorf("empty patch")
	}
	return update, nil
}
