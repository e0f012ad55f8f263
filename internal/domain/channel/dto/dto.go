// Package dto contains data transfer objects for the channel domain
package dto

import "github.com/Devensh22345/channel-adder/internal/domain/channel/entities"

// OkCommandRequest represents an /ok command issued in a chat
type OkCommandRequest struct {
	Chat      entities.Chat       `json:"chat"`
	Requester *entities.Requester `json:"requester,omitempty"`
}

// CommandResponse represents a response for bot commands
type CommandResponse struct {
	Message    string `json:"message"`
	RequestID  string `json:"requestId,omitempty"`
	InviteLink string `json:"inviteLink,omitempty"`
}
