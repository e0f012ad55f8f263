// Package entities contains provisioning domain entities
package entities

import (
	"time"

	"github.com/google/uuid"
)

// JoinOutcome is the result of asking the session account to join a channel
type JoinOutcome int

const (
	JoinOutcomeFailed JoinOutcome = iota
	JoinOutcomeJoined
	JoinOutcomeAlreadyMember
)

// Succeeded reports whether the session account is a member after the call
func (o JoinOutcome) Succeeded() bool {
	return o == JoinOutcomeJoined || o == JoinOutcomeAlreadyMember
}

func (o JoinOutcome) String() string {
	switch o {
	case JoinOutcomeJoined:
		return "joined"
	case JoinOutcomeAlreadyMember:
		return "already_member"
	default:
		return "failed"
	}
}

// SessionUser identifies the privileged session account
type SessionUser struct {
	ID         int64
	AccessHash int64
	Username   string
}

// Result is the outcome of one provisioning run
type Result struct {
	Success    bool     `json:"success"`
	Message    string   `json:"message"`
	AddedBots  []string `json:"addedBots"`
	FailedBots []string `json:"failedBots,omitempty"`
}

// Event types
const (
	EventTypeChannelProvisioned     = "channel.provisioned"
	EventTypeChannelProvisionFailed = "channel.provision_failed"
)

// ProvisioningEvent is published after every provisioning run
type ProvisioningEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	ChannelID  int64     `json:"channel_id"`
	RequestID  string    `json:"request_id,omitempty"`
	Success    bool      `json:"success"`
	Message    string    `json:"message"`
	AddedBots  []string  `json:"added_bots"`
	FailedBots []string  `json:"failed_bots,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewProvisioningEvent builds an event describing result for the channel
func NewProvisioningEvent(channelID int64, requestID string, result *Result) *ProvisioningEvent {
	eventType := EventTypeChannelProvisioned
	if !result.Success {
		eventType = EventTypeChannelProvisionFailed
	}

	return &ProvisioningEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		ChannelID:  channelID,
		RequestID:  requestID,
		Success:    result.Success,
		Message:    result.Message,
		AddedBots:  result.AddedBots,
		FailedBots: result.FailedBots,
		OccurredAt: time.Now().UTC(),
	}
}
