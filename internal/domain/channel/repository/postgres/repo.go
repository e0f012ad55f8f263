// Package postgres implements channel and join request storage on PostgreSQL
package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Devensh22345/channel-adder/internal/domain/channel/entities"
	channelerrors "github.com/Devensh22345/channel-adder/internal/domain/channel/errors"
	pkgerrors "github.com/Devensh22345/channel-adder/pkg/errors"
)

// Repository implements deps.ChannelRepository and deps.RequestRepository using PostgreSQL
type Repository struct {
	db            *gorm.DB
	resetProgress bool
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db *gorm.DB, resetProgress bool) *Repository {
	return &Repository{db: db, resetProgress: resetProgress}
}

// upsertColumns lists the columns replaced when the channel already exists.
// added_at is never among them.
func upsertColumns(resetProgress bool) []string {
	columns := []string{"channel_username", "channel_title", "added_by"}
	if resetProgress {
		columns = append(columns, "is_active", "session_joined", "bot_added")
	}
	return columns
}

// UpsertChannel creates the channel record or refreshes its descriptive fields
func (r *Repository) UpsertChannel(ctx context.Context, channel *entities.Channel) error {
	model := newChannelModel(channel)
	model.IsActive = true
	model.SessionJoined = false
	model.BotAdded = false

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "channel_id"}},
			DoUpdates: clause.AssignmentColumns(upsertColumns(r.resetProgress)),
		}).
		Create(model)
	if result.Error != nil {
		return pkgerrors.WrapPersistenceError("failed to upsert channel", result.Error)
	}
	return nil
}

// GetChannel returns the channel record by id
func (r *Repository) GetChannel(ctx context.Context, channelID int64) (*entities.Channel, error) {
	var model ChannelModel
	err := r.db.WithContext(ctx).Where("channel_id = ?", channelID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, channelerrors.ErrChannelNotFound
		}
		return nil, pkgerrors.WrapPersistenceError("failed to get channel", err)
	}
	return model.ToEntity(), nil
}

// SetChannelField updates a single progress field
func (r *Repository) SetChannelField(ctx context.Context, channelID int64, field entities.ChannelField, value bool) error {
	if !field.Valid() {
		return channelerrors.ErrInvalidChannelField
	}

	result := r.db.WithContext(ctx).
		Model(&ChannelModel{}).
		Where("channel_id = ?", channelID).
		Update(string(field), value)
	if result.Error != nil {
		return pkgerrors.WrapPersistenceError("failed to update channel", result.Error)
	}
	if result.RowsAffected == 0 {
		return channelerrors.ErrChannelNotFound
	}
	return nil
}

// CreateRequest inserts the join request and returns its generated id
func (r *Repository) CreateRequest(ctx context.Context, req *entities.JoinRequest) (string, error) {
	model := &RequestModel{
		ID:          uuid.NewString(),
		ChannelID:   req.ChannelID,
		ChatID:      req.ChatID,
		MessageID:   req.MessageID,
		RequestLink: req.RequestLink,
		CreatedAt:   req.CreatedAt,
		Status:      string(req.Status),
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return "", pkgerrors.WrapPersistenceError("failed to create request", err)
	}
	return model.ID, nil
}

// GetRequest returns the join request by id
func (r *Repository) GetRequest(ctx context.Context, requestID string) (*entities.JoinRequest, error) {
	if _, err := uuid.Parse(requestID); err != nil {
		return nil, channelerrors.ErrInvalidRequestID
	}

	var model RequestModel
	err := r.db.WithContext(ctx).Where("id = ?", requestID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, channelerrors.ErrRequestNotFound
		}
		return nil, pkgerrors.WrapPersistenceError("failed to get request", err)
	}
	return model.ToEntity(), nil
}

// SetRequestStatus moves the request to status
func (r *Repository) SetRequestStatus(ctx context.Context, requestID string, status entities.RequestStatus) error {
	if !status.Valid() {
		return channelerrors.ErrInvalidRequestStatus
	}
	if _, err := uuid.Parse(requestID); err != nil {
		return channelerrors.ErrInvalidRequestID
	}

	result := r.db.WithContext(ctx).
		Model(&RequestModel{}).
		Where("id = ?", requestID).
		Update("status", string(status))
	if result.Error != nil {
		return pkgerrors.WrapPersistenceError("failed to update request status", result.Error)
	}
	if result.RowsAffected == 0 {
		return channelerrors.ErrRequestNotFound
	}
	return nil
}

// ListPendingRequests returns up to limit pending requests, oldest first
func (r *Repository) ListPendingRequests(ctx context.Context, limit int) ([]entities.JoinRequest, error) {
	query := r.db.WithContext(ctx).
		Where("status = ?", string(entities.RequestStatusPending)).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []RequestModel
	if err := query.Find(&models).Error; err != nil {
		return nil, pkgerrors.WrapPersistenceError("failed to list pending requests", err)
	}

	requests := make([]entities.JoinRequest, 0, len(models))
	for i := range models {
		requests = append(requests, *models[i].ToEntity())
	}
	return requests, nil
}

// Ping checks the database connection
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return pkgerrors.WrapPersistenceError("failed to get sql.DB", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return pkgerrors.WrapPersistenceError("postgres unreachable", err)
	}
	return nil
}
