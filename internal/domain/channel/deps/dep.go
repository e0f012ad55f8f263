// Package deps contains interface definitions for the channel domain dependencies
package deps

import (
	"context"

	"github.com/Devensh22345/channel-adder/internal/domain/channel/entities"
)

// ChannelRepository stores channel records keyed by channel id
type ChannelRepository interface {
	// UpsertChannel creates the record or replaces its descriptive fields
	UpsertChannel(ctx context.Context, channel *entities.Channel) error

	// GetChannel returns ErrChannelNotFound when absent
	GetChannel(ctx context.Context, channelID int64) (*entities.Channel, error)

	// SetChannelField updates a single field and leaves the rest untouched
	SetChannelField(ctx context.Context, channelID int64, field entities.ChannelField, value bool) error

	Ping(ctx context.Context) error
}

// RequestRepository stores join request records
type RequestRepository interface {
	// CreateRequest inserts a pending request and returns its generated id
	CreateRequest(ctx context.Context, req *entities.JoinRequest) (string, error)

	GetRequest(ctx context.Context, requestID string) (*entities.JoinRequest, error)

	SetRequestStatus(ctx context.Context, requestID string, status entities.RequestStatus) error

	// ListPendingRequests returns the oldest pending requests first
	ListPendingRequests(ctx context.Context, limit int) ([]entities.JoinRequest, error)
}

// InviteLinkExporter creates invite links through the privileged session account
type InviteLinkExporter interface {
	ExportInviteLink(ctx context.Context, ref entities.ChannelRef, title string) (string, error)
}

// BotGateway defines the Bot API calls the command surface needs.
// It is implemented by the Telegram delivery handlers.
type BotGateway interface {
	// CanPost reports whether the bot itself may post in chat
	CanPost(ctx context.Context, chat entities.Chat) (bool, error)

	// SendNotification posts n and returns the id of the posted message
	SendNotification(ctx context.Context, n entities.Notification) (int, error)
}
