package postgres

import (
	"time"

	"github.com/Devensh22345/channel-adder/internal/domain/channel/entities"
)

// ChannelModel is the gorm model of the channels table
type ChannelModel struct {
	ChannelID     int64     `gorm:"column:channel_id;primaryKey;autoIncrement:false"`
	Username      string    `gorm:"column:channel_username"`
	Title         string    `gorm:"column:channel_title"`
	AddedBy       *int64    `gorm:"column:added_by"`
	AddedAt       time.Time `gorm:"column:added_at"`
	IsActive      bool      `gorm:"column:is_active"`
	SessionJoined bool      `gorm:"column:session_joined"`
	BotAdded      bool      `gorm:"column:bot_added"`
}

// TableName returns the table name for gorm
func (ChannelModel) TableName() string {
	return "channels"
}

func newChannelModel(c *entities.Channel) *ChannelModel {
	return &ChannelModel{
		ChannelID:     c.ChannelID,
		Username:      c.Username,
		Title:         c.Title,
		AddedBy:       c.AddedBy,
		AddedAt:       c.AddedAt,
		IsActive:      c.IsActive,
		SessionJoined: c.SessionJoined,
		BotAdded:      c.BotAdded,
	}
}

// ToEntity converts the model to a domain entity
func (m *ChannelModel) ToEntity() *entities.Channel {
	return &entities.Channel{
		ChannelID:     m.ChannelID,
		Username:      m.Username,
		Title:         m.Title,
		AddedBy:       m.AddedBy,
		AddedAt:       m.AddedAt,
		IsActive:      m.IsActive,
		SessionJoined: m.SessionJoined,
		BotAdded:      m.BotAdded,
	}
}

// RequestModel is the gorm model of the requests table
type RequestModel struct {
	ID          string    `gorm:"column:id;type:uuid;primaryKey"`
	ChannelID   int64     `gorm:"column:channel_id"`
	ChatID      string    `gorm:"column:chat_id"`
	MessageID   int       `gorm:"column:message_id"`
	RequestLink string    `gorm:"column:request_link"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	Status      string    `gorm:"column:status"`
}

// TableName returns the table name for gorm
func (RequestModel) TableName() string {
	return "requests"
}

// ToEntity converts the model to a domain entity
func (m *RequestModel) ToEntity() *entities.JoinRequest {
	return &entities.JoinRequest{
		ID:          m.ID,
		ChannelID:   m.ChannelID,
		ChatID:      m.ChatID,
		MessageID:   m.MessageID,
		RequestLink: m.RequestLink,
		CreatedAt:   m.CreatedAt,
		Status:      entities.RequestStatus(m.Status),
	}
}
