package telegram

import (
	"context"
	"strings"

	"github.com/gotd/td/tg"

	channelentities "github.com/Devensh22345/channel-adder/internal/domain/channel/entities"
	pkgerrors "github.com/Devensh22345/channel-adder/pkg/errors"
)

const (
	dialogsPageSize = 100
	maxDialogPages  = 50
)

// resolveChannel finds the channel by username first, then by id through the
// local cache and finally by scanning the account dialogs.
func (c *SessionClient) resolveChannel(ctx context.Context, ref channelentities.ChannelRef) (*tg.Channel, error) {
	if ref.ID == 0 && ref.Username == "" {
		return nil, ErrEmptyReference
	}

	if username := NormalizeHandle(ref.Username); username != "" {
		channel, err := c.resolveChannelByUsername(ctx, username)
		if err == nil {
			return channel, nil
		}
		if ref.ID == 0 || !pkgerrors.IsNotFoundError(err) {
			return nil, err
		}
		c.logger.Debug().Err(err).Str("username", username).Msg("username lookup failed, falling back to id")
	}

	bareID := ref.BareID()
	if channel, ok := c.cachedChannel(bareID); ok {
		return channel, nil
	}

	if err := c.scanDialogs(ctx, bareID); err != nil {
		return nil, err
	}

	if channel, ok := c.cachedChannel(bareID); ok {
		return channel, nil
	}

	return nil, pkgerrors.NewNotFoundErrorf("channel %d is not visible to the session account", ref.ID)
}

func (c *SessionClient) resolveChannelByUsername(ctx context.Context, username string) (*tg.Channel, error) {
	api, err := c.apiClient(ctx)
	if err != nil {
		return nil, err
	}

	resolved, err := api.ContactsResolveUsername(ctx, username)
	c.recordCall("resolve_username", err)
	if err != nil {
		c.logger.Error().Err(err).Str("username", username).Msg("failed to resolve channel")
		return nil, classifyError("failed to resolve channel", err)
	}

	c.rememberChats(resolved.Chats)

	for _, chat := range resolved.Chats {
		if channel, ok := chat.(*tg.Channel); ok {
			return channel, nil
		}
	}

	return nil, ErrNotAChannel
}

// resolveUser returns the input peer of a user or bot by handle
func (c *SessionClient) resolveUser(ctx context.Context, handle string) (*tg.InputUser, error) {
	api, err := c.apiClient(ctx)
	if err != nil {
		return nil, err
	}

	resolved, err := api.ContactsResolveUsername(ctx, handle)
	c.recordCall("resolve_username", err)
	if err != nil {
		return nil, classifyError("failed to resolve @"+handle, err)
	}

	for _, u := range resolved.Users {
		if user, ok := u.(*tg.User); ok {
			return &tg.InputUser{UserID: user.ID, AccessHash: user.AccessHash}, nil
		}
	}

	return nil, ErrNotAUser
}

// scanDialogs pages through the account dialogs, caching every channel it
// sees, until the channel with targetID is cached or the list is exhausted.
func (c *SessionClient) scanDialogs(ctx context.Context, targetID int64) error {
	var (
		offsetPeer tg.InputPeerClass = &tg.InputPeerEmpty{}
		offsetID   int
		offsetDate int
		seen       int
	)

	for page := 0; page < maxDialogPages; page++ {
		api, err := c.apiClient(ctx)
		if err != nil {
			return err
		}

		resp, err := api.MessagesGetDialogs(ctx, &tg.MessagesGetDialogsRequest{
			OffsetDate: offsetDate,
			OffsetID:   offsetID,
			OffsetPeer: offsetPeer,
			Limit:      dialogsPageSize,
		})
		c.recordCall("get_dialogs", err)
		if err != nil {
			return classifyError("failed to get dialogs", err)
		}

		var (
			dialogs  []tg.DialogClass
			messages []tg.MessageClass
			chats    []tg.ChatClass
			users    []tg.UserClass
			total    int
		)
		switch d := resp.(type) {
		case *tg.MessagesDialogs:
			// the whole list fits in one response
			c.rememberChats(d.Chats)
			return nil
		case *tg.MessagesDialogsSlice:
			dialogs, messages, chats, users, total = d.Dialogs, d.Messages, d.Chats, d.Users, d.Count
		default:
			return nil
		}

		c.rememberChats(chats)
		if _, ok := c.cachedChannel(targetID); ok {
			return nil
		}

		seen += len(dialogs)
		if len(dialogs) == 0 || seen >= total {
			return nil
		}

		last := dialogs[len(dialogs)-1]
		offsetID = last.GetTopMessage()
		offsetDate = messageDate(messages, last.GetPeer(), offsetID)
		offsetPeer = inputPeerOf(last.GetPeer(), chats, users)
	}

	c.logger.Warn().Int("pages", maxDialogPages).Msg("dialog scan stopped at page limit")
	return nil
}

// messageDate returns the date of message id sent to peer, 0 when absent
func messageDate(messages []tg.MessageClass, peer tg.PeerClass, id int) int {
	for _, m := range messages {
		switch msg := m.(type) {
		case *tg.Message:
			if msg.ID == id && samePeer(msg.PeerID, peer) {
				return msg.Date
			}
		case *tg.MessageService:
			if msg.ID == id && samePeer(msg.PeerID, peer) {
				return msg.Date
			}
		}
	}
	return 0
}

func samePeer(a, b tg.PeerClass) bool {
	switch pa := a.(type) {
	case *tg.PeerChannel:
		pb, ok := b.(*tg.PeerChannel)
		return ok && pa.ChannelID == pb.ChannelID
	case *tg.PeerChat:
		pb, ok := b.(*tg.PeerChat)
		return ok && pa.ChatID == pb.ChatID
	case *tg.PeerUser:
		pb, ok := b.(*tg.PeerUser)
		return ok && pa.UserID == pb.UserID
	}
	return false
}

// inputPeerOf builds the offset peer for the next dialogs page
func inputPeerOf(peer tg.PeerClass, chats []tg.ChatClass, users []tg.UserClass) tg.InputPeerClass {
	switch p := peer.(type) {
	case *tg.PeerChannel:
		for _, chat := range chats {
			if ch, ok := chat.(*tg.Channel); ok && ch.ID == p.ChannelID {
				return &tg.InputPeerChannel{ChannelID: ch.ID, AccessHash: ch.AccessHash}
			}
		}
	case *tg.PeerChat:
		return &tg.InputPeerChat{ChatID: p.ChatID}
	case *tg.PeerUser:
		for _, u := range users {
			if user, ok := u.(*tg.User); ok && user.ID == p.UserID {
				return &tg.InputPeerUser{UserID: user.ID, AccessHash: user.AccessHash}
			}
		}
	}
	return &tg.InputPeerEmpty{}
}

func (c *SessionClient) rememberChats(chats []tg.ChatClass) {
	c.channelsMu.Lock()
	defer c.channelsMu.Unlock()

	for _, chat := range chats {
		if channel, ok := chat.(*tg.Channel); ok && !channel.Min {
			c.channels[channel.ID] = channel
		}
	}
}

func (c *SessionClient) cachedChannel(bareID int64) (*tg.Channel, bool) {
	c.channelsMu.RLock()
	defer c.channelsMu.RUnlock()

	channel, ok := c.channels[bareID]
	return channel, ok
}

// NormalizeHandle trims whitespace and a leading @ from a username
func NormalizeHandle(handle string) string {
	return strings.TrimPrefix(strings.TrimSpace(handle), "@")
}

// InviteHash extracts the import hash from an invite link
func InviteHash(link string) string {
	link = strings.TrimSpace(link)
	for _, prefix := range []string{"https://", "http://"} {
		link = strings.TrimPrefix(link, prefix)
	}
	for _, prefix := range []string{"t.me/", "telegram.me/"} {
		link = strings.TrimPrefix(link, prefix)
	}

	switch {
	case strings.HasPrefix(link, "+"):
		link = strings.TrimPrefix(link, "+")
	case strings.HasPrefix(link, "joinchat/"):
		link = strings.TrimPrefix(link, "joinchat/")
	default:
		return ""
	}

	if i := strings.IndexAny(link, "/?"); i >= 0 {
		link = link[:i]
	}
	return link
}
