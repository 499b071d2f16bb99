package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/Vikasg7/alerty/internal/entity"
	"github.com/Vikasg7/alerty/internal/platform/logger"
	"github.com/Vikasg7/alerty/internal/port/repository"
)

const (
	listingCollectionName = "listings"
	stateCollectionName   = "tracker_state"
	stateDocumentID       = "singleton"
)

// ListingRepository implements repository.ListingStore using MongoDB. The
// product key doubles as the document _id, so upserts are natural.
type ListingRepository struct {
	listings *mongo.Collection
	state    *mongo.Collection
	logger   *logger.Logger
}

func NewListingRepository(db *mongo.Database, log *logger.Logger) *ListingRepository {
	return &ListingRepository{
		listings: db.Collection(listingCollectionName),
		state:    db.Collection(stateCollectionName),
		logger:   log.Named("ListingRepository"),
	}
}

// NewMongoDBConnection dials MongoDB and verifies the connection with a ping.
func NewMongoDBConnection(ctx context.Context, uri string) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

type listingDocument struct {
	Key          string    `bson:"_id"`
	SourceType   string    `bson:"source_type"`
	Title        string    `bson:"title"`
	ImageURL     string    `bson:"image_url,omitempty"`
	ReferenceURL string    `bson:"reference_url"`
	PriceCurrent float64   `bson:"price_current"`
	PriceLast    float64   `bson:"price_last"`
	InStock      bool      `bson:"in_stock"`
	Rating       float64   `bson:"rating,omitempty"`
	RatingCount  int64     `bson:"rating_count,omitempty"`
	LastSeenAt   time.Time `bson:"last_seen_at"`
}

type stateDocument struct {
	ID         string `bson:"_id"`
	Refreshing bool   `bson:"refreshing"`
}

func fromListing(l *entity.Listing) *listingDocument {
	return &listingDocument{
		Key:          l.Key,
		SourceType:   string(l.SourceType),
		Title:        l.Title,
		ImageURL:     l.ImageURL,
		ReferenceURL: l.ReferenceURL,
		PriceCurrent: l.Price.Current,
		PriceLast:    l.Price.Last,
		InStock:      l.InStock,
		Rating:       l.Rating,
		RatingCount:  l.RatingCount,
		LastSeenAt:   l.LastSeenAt,
	}
}

func toListing(doc *listingDocument) entity.Listing {
	return entity.Listing{
		Key:          doc.Key,
		SourceType:   entity.SourceType(doc.SourceType),
		Title:        doc.Title,
		ImageURL:     doc.ImageURL,
		ReferenceURL: doc.ReferenceURL,
		Price:        entity.Price{Current: doc.PriceCurrent, Last: doc.PriceLast},
		InStock:      doc.InStock,
		Rating:       doc.Rating,
		RatingCount:  doc.RatingCount,
		LastSeenAt:   doc.LastSeenAt,
	}
}

func (r *ListingRepository) GetAll(ctx context.Context) (map[string]entity.Listing, error) {
	cursor, err := r.listings.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list listings from mongo: %w", err)
	}
	defer cursor.Close(ctx)

	out := make(map[string]entity.Listing)
	for cursor.Next(ctx) {
		var doc listingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode listing document: %w", err)
		}
		out[doc.Key] = toListing(&doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("listing cursor failed: %w", err)
	}
	return out, nil
}

func (r *ListingRepository) Get(ctx context.Context, key string) (*entity.Listing, error) {
	var doc listingDocument
	err := r.listings.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get listing %q from mongo: %w", key, err)
	}
	l := toListing(&doc)
	return &l, nil
}

func (r *ListingRepository) Put(ctx context.Context, l *entity.Listing) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.listings.ReplaceOne(ctx, bson.M{"_id": l.Key}, fromListing(l), opts)
	if err != nil {
		return fmt.Errorf("failed to upsert listing %q in mongo: %w", l.Key, err)
	}
	r.logger.Debug("listing stored", zap.String("key", l.Key))
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, key string) error {
	res, err := r.listings.DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		return fmt.Errorf("failed to delete listing %q from mongo: %w", key, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ReplaceAll makes the stored set equal to the given one: every entry is
// upserted and rows absent from the map are removed.
func (r *ListingRepository) ReplaceAll(ctx context.Context, listings map[string]entity.Listing) error {
	keys := make([]string, 0, len(listings))
	models := make([]mongo.WriteModel, 0, len(listings))
	for key, l := range listings {
		keys = append(keys, key)
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": key}).
			SetReplacement(fromListing(&l)).
			SetUpsert(true))
	}

	if len(models) > 0 {
		if _, err := r.listings.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
			return fmt.Errorf("failed to bulk upsert listings in mongo: %w", err)
		}
	}

	if _, err := r.listings.DeleteMany(ctx, bson.M{"_id": bson.M{"$nin": keys}}); err != nil {
		return fmt.Errorf("failed to prune removed listings from mongo: %w", err)
	}
	return nil
}

func (r *ListingRepository) SetRefreshing(ctx context.Context, v bool) error {
	opts := options.Replace().SetUpsert(true)
	doc := stateDocument{ID: stateDocumentID, Refreshing: v}
	if _, err := r.state.ReplaceOne(ctx, bson.M{"_id": stateDocumentID}, doc, opts); err != nil {
		return fmt.Errorf("failed to store refreshing flag in mongo: %w", err)
	}
	return nil
}

func (r *ListingRepository) GetRefreshing(ctx context.Context) (bool, error) {
	var doc stateDocument
	err := r.state.FindOne(ctx, bson.M{"_id": stateDocumentID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read refreshing flag from mongo: %w", err)
	}
	return doc.Refreshing, nil
}
