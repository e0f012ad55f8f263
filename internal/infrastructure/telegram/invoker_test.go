package telegram

import (
	"context"
	"fmt"
	"sync"

	"github.com/gotd/td/bin"
	"github.com/gotd/td/tg"
)

// fakeInvoker answers the RPC calls the session client makes with canned values
type fakeInvoker struct {
	mu sync.Mutex

	dialogPages    []tg.MessagesDialogsClass
	dialogRequests []*tg.MessagesGetDialogsRequest

	refreshed    tg.MessagesChatsClass
	refreshErr   error
	refreshCalls int

	joinErr error
	joins   int

	imported       tg.UpdatesClass
	importErr      error
	importedHashes []string
}

func (f *fakeInvoker) Invoke(ctx context.Context, input bin.Encoder, output bin.Decoder) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch req := input.(type) {
	case *tg.MessagesGetDialogsRequest:
		f.dialogRequests = append(f.dialogRequests, req)
		page := len(f.dialogRequests) - 1
		if page >= len(f.dialogPages) {
			output.(*tg.MessagesDialogsBox).Dialogs = &tg.MessagesDialogs{}
			return nil
		}
		output.(*tg.MessagesDialogsBox).Dialogs = f.dialogPages[page]
	case *tg.ChannelsGetChannelsRequest:
		f.refreshCalls++
		if f.refreshErr != nil {
			return f.refreshErr
		}
		output.(*tg.MessagesChatsBox).Chats = f.refreshed
	case *tg.ChannelsJoinChannelRequest:
		f.joins++
		if f.joinErr != nil {
			return f.joinErr
		}
		output.(*tg.UpdatesBox).Updates = &tg.Updates{}
	case *tg.MessagesImportChatInviteRequest:
		f.importedHashes = append(f.importedHashes, req.Hash)
		if f.importErr != nil {
			return f.importErr
		}
		updates := f.imported
		if updates == nil {
			updates = &tg.Updates{}
		}
		output.(*tg.UpdatesBox).Updates = updates
	default:
		return fmt.Errorf("unexpected request %T", input)
	}

	return nil
}

func newConnectedClient(inv tg.Invoker) *SessionClient {
	client := newDisconnectedClient()
	client.api = tg.NewClient(inv)
	client.connected = true
	return client
}

// dialogsPage builds a dialogs slice holding one channel dialog per id
func dialogsPage(total int, ids ...int64) *tg.MessagesDialogsSlice {
	page := &tg.MessagesDialogsSlice{Count: total}
	for i, id := range ids {
		peer := &tg.PeerChannel{ChannelID: id}
		topMessage := int(id%1000) + 1

		page.Dialogs = append(page.Dialogs, &tg.Dialog{Peer: peer, TopMessage: topMessage})
		page.Messages = append(page.Messages, &tg.Message{ID: topMessage, PeerID: peer, Date: 1700000000 - i})
		page.Chats = append(page.Chats, &tg.Channel{ID: id, AccessHash: id * 10, Title: fmt.Sprintf("channel %d", id)})
	}
	return page
}
