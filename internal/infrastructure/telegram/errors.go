package telegram

import (
	"context"
	"errors"

	"github.com/gotd/td/tgerr"

	pkgerrors "github.com/Devensh22345/channel-adder/pkg/errors"
)

var (
	ErrNotConnected   = pkgerrors.NewNetworkError("session client is not connected")
	ErrUnauthorized   = pkgerrors.NewPermissionError("session is not authorized")
	ErrNotAChannel    = pkgerrors.NewNotFoundError("resolved peer is not a channel")
	ErrNotAUser       = pkgerrors.NewNotFoundError("resolved peer is not a user")
	ErrEmptyReference = pkgerrors.NewValidationError("channel reference has neither id nor username")
)

// RPC error types that mean the entity does not exist or is not visible
var notFoundRPCErrors = []string{
	"USERNAME_NOT_OCCUPIED",
	"USERNAME_INVALID",
	"CHANNEL_INVALID",
	"PEER_ID_INVALID",
	"USER_ID_INVALID",
	"INVITE_HASH_INVALID",
	"INVITE_HASH_EXPIRED",
}

// RPC error types that mean the session account lacks rights
var permissionRPCErrors = []string{
	"CHAT_ADMIN_REQUIRED",
	"CHAT_WRITE_FORBIDDEN",
	"CHANNEL_PRIVATE",
	"RIGHT_FORBIDDEN",
	"USER_PRIVACY_RESTRICTED",
	"USER_NOT_MUTUAL_CONTACT",
	"ADMINS_TOO_MUCH",
	"BOTS_TOO_MUCH",
	"USER_CHANNELS_TOO_MUCH",
	"CHAT_ADMIN_INVITE_REQUIRED",
	"INVITE_REQUEST_SENT",
}

const errAlreadyParticipant = "USER_ALREADY_PARTICIPANT"

// classifyError maps gotd errors onto the application error taxonomy
func classifyError(message string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return pkgerrors.WrapNetworkError(message, err)
	case tgerr.Is(err, notFoundRPCErrors...):
		return pkgerrors.WrapNotFoundError(message, err)
	case tgerr.Is(err, permissionRPCErrors...):
		return pkgerrors.WrapPermissionError(message, err)
	}

	if _, ok := tgerr.As(err); ok {
		return pkgerrors.WrapInternalError(message, err)
	}

	return pkgerrors.WrapNetworkError(message, err)
}
