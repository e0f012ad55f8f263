// Package mongodb implements channel and join request storage on MongoDB
package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Devensh22345/channel-adder/internal/domain/channel/entities"
	channelerrors "github.com/Devensh22345/channel-adder/internal/domain/channel/errors"
	"github.com/Devensh22345/channel-adder/internal/infrastructure/database"
	pkgerrors "github.com/Devensh22345/channel-adder/pkg/errors"
)

// Repository implements deps.ChannelRepository and deps.RequestRepository
type Repository struct {
	db            *mongo.Database
	channels      *mongo.Collection
	requests      *mongo.Collection
	resetProgress bool
}

// NewRepository creates a MongoDB backed repository.
// resetProgress controls whether re-upserting a channel clears its progress flags.
func NewRepository(db *mongo.Database, resetProgress bool) *Repository {
	return &Repository{
		db:            db,
		channels:      db.Collection(database.ChannelsCollection),
		requests:      db.Collection(database.RequestsCollection),
		resetProgress: resetProgress,
	}
}

// UpsertChannel creates the channel record or refreshes its descriptive fields
func (r *Repository) UpsertChannel(ctx context.Context, channel *entities.Channel) error {
	_, err := r.channels.UpdateOne(ctx,
		bson.M{"channel_id": channel.ChannelID},
		buildChannelUpsert(channel, r.resetProgress),
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return pkgerrors.WrapPersistenceError("failed to upsert channel", err)
	}
	return nil
}

// buildChannelUpsert writes added_at only on insert. Progress flags are
// reset on every upsert when resetProgress is set, otherwise only on insert.
func buildChannelUpsert(channel *entities.Channel, resetProgress bool) bson.M {
	set := bson.M{
		"channel_username": channel.Username,
		"channel_title":    channel.Title,
		"added_by":         channel.AddedBy,
	}
	setOnInsert := bson.M{
		"added_at": channel.AddedAt,
	}

	progress := setOnInsert
	if resetProgress {
		progress = set
	}
	progress["is_active"] = true
	progress["session_joined"] = false
	progress["bot_added"] = false

	return bson.M{
		"$set":         set,
		"$setOnInsert": setOnInsert,
	}
}

// GetChannel returns the channel record by id
func (r *Repository) GetChannel(ctx context.Context, channelID int64) (*entities.Channel, error) {
	var doc channelDocument
	err := r.channels.FindOne(ctx, bson.M{"channel_id": channelID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, channelerrors.ErrChannelNotFound
		}
		return nil, pkgerrors.WrapPersistenceError("failed to get channel", err)
	}
	return doc.toEntity(), nil
}

// SetChannelField updates a single progress field
func (r *Repository) SetChannelField(ctx context.Context, channelID int64, field entities.ChannelField, value bool) error {
	if !field.Valid() {
		return channelerrors.ErrInvalidChannelField
	}

	result, err := r.channels.UpdateOne(ctx,
		bson.M{"channel_id": channelID},
		bson.M{"$set": bson.M{string(field): value}},
	)
	if err != nil {
		return pkgerrors.WrapPersistenceError("failed to update channel", err)
	}
	if result.MatchedCount == 0 {
		return channelerrors.ErrChannelNotFound
	}
	return nil
}

// CreateRequest inserts the join request and returns its generated id
func (r *Repository) CreateRequest(ctx context.Context, req *entities.JoinRequest) (string, error) {
	doc := newRequestDocument(req)
	if _, err := r.requests.InsertOne(ctx, doc); err != nil {
		return "", pkgerrors.WrapPersistenceError("failed to create request", err)
	}
	return doc.ID.Hex(), nil
}

// GetRequest returns the join request by id
func (r *Repository) GetRequest(ctx context.Context, requestID string) (*entities.JoinRequest, error) {
	id, err := primitive.ObjectIDFromHex(requestID)
	if err != nil {
		return nil, channelerrors.ErrInvalidRequestID
	}

	var doc requestDocument
	if err := r.requests.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, channelerrors.ErrRequestNotFound
		}
		return nil, pkgerrors.WrapPersistenceError("failed to get request", err)
	}
	return doc.toEntity(), nil
}

// SetRequestStatus moves the request to status
func (r *Repository) SetRequestStatus(ctx context.Context, requestID string, status entities.RequestStatus) error {
	if !status.Valid() {
		return channelerrors.ErrInvalidRequestStatus
	}

	id, err := primitive.ObjectIDFromHex(requestID)
	if err != nil {
		return channelerrors.ErrInvalidRequestID
	}

	result, err := r.requests.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return pkgerrors.WrapPersistenceError("failed to update request status", err)
	}
	if result.MatchedCount == 0 {
		return channelerrors.ErrRequestNotFound
	}
	return nil
}

// ListPendingRequests returns up to limit pending requests, oldest first
func (r *Repository) ListPendingRequests(ctx context.Context, limit int) ([]entities.JoinRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.requests.Find(ctx, bson.M{"status": entities.RequestStatusPending}, opts)
	if err != nil {
		return nil, pkgerrors.WrapPersistenceError("failed to list pending requests", err)
	}
	defer cursor.Close(ctx)

	var docs []requestDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, pkgerrors.WrapPersistenceError("failed to decode pending requests", err)
	}

	requests := make([]entities.JoinRequest, 0, len(docs))
	for i := range docs {
		requests = append(requests, *docs[i].toEntity())
	}
	return requests, nil
}

// Ping checks the MongoDB connection
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.db.Client().Ping(ctx, readpref.Primary()); err != nil {
		return pkgerrors.WrapPersistenceError("mongodb unreachable", err)
	}
	return nil
}
