package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Devensh22345/channel-adder/internal/domain/channel/entities"
)

// channelDocument is the stored shape of a channel record
type channelDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	ChannelID     int64              `bson:"channel_id"`
	Username      string             `bson:"channel_username"`
	Title         string             `bson:"channel_title"`
	AddedBy       *int64             `bson:"added_by"`
	AddedAt       time.Time          `bson:"added_at"`
	IsActive      bool               `bson:"is_active"`
	SessionJoined bool               `bson:"session_joined"`
	BotAdded      bool               `bson:"bot_added"`
}

func (d *channelDocument) toEntity() *entities.Channel {
	return &entities.Channel{
		ChannelID:     d.ChannelID,
		Username:      d.Username,
		Title:         d.Title,
		AddedBy:       d.AddedBy,
		AddedAt:       d.AddedAt,
		IsActive:      d.IsActive,
		SessionJoined: d.SessionJoined,
		BotAdded:      d.BotAdded,
	}
}

// requestDocument is the stored shape of a join request
type requestDocument struct {
	ID          primitive.ObjectID     `bson:"_id,omitempty"`
	ChannelID   int64                  `bson:"channel_id"`
	ChatID      string                 `bson:"chat_id"`
	MessageID   int                    `bson:"message_id"`
	RequestLink string                 `bson:"request_link"`
	CreatedAt   time.Time              `bson:"created_at"`
	Status      entities.RequestStatus `bson:"status"`
}

func newRequestDocument(req *entities.JoinRequest) *requestDocument {
	return &requestDocument{
		ID:          primitive.NewObjectID(),
		ChannelID:   req.ChannelID,
		ChatID:      req.ChatID,
		MessageID:   req.MessageID,
		RequestLink: req.RequestLink,
		CreatedAt:   req.CreatedAt,
		Status:      req.Status,
	}
}

func (d *requestDocument) toEntity() *entities.JoinRequest {
	return &entities.JoinRequest{
		ID:          d.ID.Hex(),
		ChannelID:   d.ChannelID,
		ChatID:      d.ChatID,
		MessageID:   d.MessageID,
		RequestLink: d.RequestLink,
		CreatedAt:   d.CreatedAt,
		Status:      d.Status,
	}
}
