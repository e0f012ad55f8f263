// Package errors contains domain-specific errors for the channel domain
package errors

import (
	pkgerrors "github.com/Devensh22345/channel-adder/pkg/errors"
)

// Domain errors for channel operations
var (
	ErrWrongChatType        = pkgerrors.NewContextError("This command can only be used in channels!")
	ErrNoPostingRights      = pkgerrors.NewPermissionError("I need permission to post messages in this channel!")
	ErrChannelNotFound      = pkgerrors.NewNotFoundError("channel not found")
	ErrRequestNotFound      = pkgerrors.NewNotFoundError("join request not found")
	ErrInvalidChannelField  = pkgerrors.NewValidationError("channel field cannot be updated")
	ErrInvalidRequestStatus = pkgerrors.NewValidationError("invalid join request status")
	ErrInvalidRequestID     = pkgerrors.NewValidationError("invalid join request id")
	ErrEmptyInviteLink      = pkgerrors.NewInternalError("session returned an empty invite link")
)
