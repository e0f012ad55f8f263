// Package deps contains interface definitions for the provisioning domain dependencies
package deps

import (
	"context"

	channelentities "github.com/Devensh22345/channel-adder/internal/domain/channel/entities"
	"github.com/Devensh22345/channel-adder/internal/domain/provisioning/entities"
)

// SessionClient is the privileged user account acting through MTProto
type SessionClient interface {
	// JoinChannel distinguishes "joined" from "already a member" through the outcome
	JoinChannel(ctx context.Context, ref channelentities.ChannelRef) (entities.JoinOutcome, error)

	// Self returns the session account identity
	Self(ctx context.Context) (*entities.SessionUser, error)

	// PromoteSelf grants the session account full admin rights in the channel
	PromoteSelf(ctx context.Context, ref channelentities.ChannelRef, self *entities.SessionUser, rank string) error

	// InviteAndRestrict invites the bot and promotes it with post, delete and pin rights only
	InviteAndRestrict(ctx context.Context, ref channelentities.ChannelRef, botHandle, rank string) error
}

// ChannelStore is the part of the channel repository the workflow needs
type ChannelStore interface {
	GetChannel(ctx context.Context, channelID int64) (*channelentities.Channel, error)
	SetChannelField(ctx context.Context, channelID int64, field channelentities.ChannelField, value bool) error
}

// RequestStore is the part of the request repository the monitor needs
type RequestStore interface {
	SetRequestStatus(ctx context.Context, requestID string, status channelentities.RequestStatus) error
	ListPendingRequests(ctx context.Context, limit int) ([]channelentities.JoinRequest, error)
}

// EventPublisher announces provisioning outcomes
type EventPublisher interface {
	PublishProvisioningEvent(ctx context.Context, event *entities.ProvisioningEvent) error
}

// RequestHandler decides what happens to a pending join request.
// Returning RequestStatusPending leaves the request untouched.
type RequestHandler interface {
	HandleRequest(ctx context.Context, req channelentities.JoinRequest) (channelentities.RequestStatus, error)
}
