// Package entities contains channel domain entities
package entities

import (
	"strconv"
	"strings"
	"time"
)

// ChatType is the Bot API chat type of the invocation context
type ChatType string

const (
	ChatTypePrivate    ChatType = "private"
	ChatTypeGroup      ChatType = "group"
	ChatTypeSupergroup ChatType = "supergroup"
	ChatTypeChannel    ChatType = "channel"
)

// Chat describes the chat an administrative command was issued in
type Chat struct {
	ID       int64    `json:"id"`
	Type     ChatType `json:"type"`
	Username string   `json:"username,omitempty"`
	Title    string   `json:"title"`
}

// IsBroadcastCapable reports whether the chat is a channel or a supergroup
func (c Chat) IsBroadcastCapable() bool {
	return c.Type == ChatTypeChannel || c.Type == ChatTypeSupergroup
}

// Requester is the user who issued the command
type Requester struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName,omitempty"`
	Username  string `json:"username,omitempty"`
}

// FullName returns first and last name joined by a space
func (r Requester) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// Channel is one onboarded channel
type Channel struct {
	ChannelID     int64     `json:"channelId"`
	Username      string    `json:"username,omitempty"`
	Title         string    `json:"title"`
	AddedBy       *int64    `json:"addedBy,omitempty"`
	AddedAt       time.Time `json:"addedAt"`
	IsActive      bool      `json:"isActive"`
	SessionJoined bool      `json:"sessionJoined"`
	BotAdded      bool      `json:"botAdded"`
}

// NewChannel builds a channel record with default flags
func NewChannel(chat Chat, addedBy *int64, now time.Time) *Channel {
	return &Channel{
		ChannelID: chat.ID,
		Username:  chat.Username,
		Title:     chat.Title,
		AddedBy:   addedBy,
		AddedAt:   now,
		IsActive:  true,
	}
}

// Ref returns the reference used to address the channel through the session account
func (c *Channel) Ref() ChannelRef {
	return ChannelRef{ID: c.ChannelID, Username: c.Username}
}

// ChannelField is a channel field that may be updated on its own
type ChannelField string

const (
	FieldSessionJoined ChannelField = "session_joined"
	FieldBotAdded      ChannelField = "bot_added"
	FieldIsActive      ChannelField = "is_active"
)

// Valid reports whether the field may be updated with SetChannelField
func (f ChannelField) Valid() bool {
	switch f {
	case FieldSessionJoined, FieldBotAdded, FieldIsActive:
		return true
	}
	return false
}

// RequestStatus is the state of a join request
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusCompleted RequestStatus = "completed"
	RequestStatusFailed    RequestStatus = "failed"
)

// Valid reports whether the status is known
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusCompleted, RequestStatusFailed:
		return true
	}
	return false
}

// JoinRequest is one outstanding invite-link notification
type JoinRequest struct {
	ID          string        `json:"id"`
	ChannelID   int64         `json:"channelId"`
	ChatID      string        `json:"chatId"`
	MessageID   int           `json:"messageId"`
	RequestLink string        `json:"requestLink"`
	CreatedAt   time.Time     `json:"createdAt"`
	Status      RequestStatus `json:"status"`
}

// ChannelRef addresses a channel for the session account.
// ID is the Bot API id (-100 prefixed for channels and supergroups).
type ChannelRef struct {
	ID         int64
	Username   string
	InviteLink string
}

// BareID returns the MTProto channel id without the -100 prefix
func (r ChannelRef) BareID() int64 {
	return BareChannelID(r.ID)
}

// BareChannelID strips the Bot API -100 prefix from a channel id
func BareChannelID(id int64) int64 {
	s := strconv.FormatInt(id, 10)
	switch {
	case strings.HasPrefix(s, "-100"):
		s = strings.TrimPrefix(s, "-100")
	case strings.HasPrefix(s, "-"):
		s = strings.TrimPrefix(s, "-")
	}
	bare, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return id
	}
	return bare
}

// Notification is the message posted to the review destination
type Notification struct {
	ChatID     string
	Text       string
	ButtonText string
	ButtonURL  string
}
