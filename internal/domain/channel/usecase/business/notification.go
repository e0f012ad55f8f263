package business

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/Devensh22345/channel-adder/internal/domain/channel/entities"
)

// JoinButtonText is the label of the button carrying the invite link
const JoinButtonText = "Join Channel"

const unknownRequester = "Unknown"

// InviteTitle is the title given to generated invite links
func InviteTitle(now time.Time) string {
	return "Bot Invite " + now.Format("20060102")
}

// ChannelLink returns the public link of a channel with a username,
// otherwise the private t.me/c/ form.
func ChannelLink(chat entities.Chat) string {
	if chat.Username != "" {
		return "https://t.me/" + chat.Username
	}

	id := strconv.FormatInt(chat.ID, 10)
	if strings.HasPrefix(id, "-100") {
		id = strings.TrimPrefix(id, "-100")
	} else {
		id = strings.TrimPrefix(id, "-")
	}
	return "https://t.me/c/" + id
}

// RequesterMention renders an HTML mention of the requester, or "Unknown"
func RequesterMention(r *entities.Requester) string {
	if r == nil {
		return unknownRequester
	}

	name := r.FullName()
	if name == "" {
		name = r.Username
	}
	if name == "" {
		name = strconv.FormatInt(r.ID, 10)
	}
	return fmt.Sprintf(`<a href="tg://user?id=%d">%s</a>`, r.ID, html.EscapeString(name))
}

// BuildNotification composes the review notification for a channel
func BuildNotification(reviewChatID string, chat entities.Chat, requester *entities.Requester, link string) entities.Notification {
	text := fmt.Sprintf(
		"🔗 New Channel Request\n\n📢 Channel: %s\n👤 Added by: %s\n🔑 Invite Link: %s",
		html.EscapeString(chat.Title),
		RequesterMention(requester),
		html.EscapeString(link),
	)

	return entities.Notification{
		ChatID:     reviewChatID,
		Text:       text,
		ButtonText: JoinButtonText,
		ButtonURL:  ChannelLink(chat),
	}
}
