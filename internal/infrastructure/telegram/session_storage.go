package telegram

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gotd/td/session"

	pkgerrors "github.com/Devensh22345/channel-adder/pkg/errors"
)

// NewStringSessionStorage seeds an in-memory session storage from a session string.
// Telethon string sessions are accepted, as is a base64 encoded gotd session file.
func NewStringSessionStorage(ctx context.Context, sessionString string) (*session.StorageMemory, error) {
	sessionString = strings.TrimSpace(sessionString)
	if sessionString == "" {
		return nil, pkgerrors.NewValidationError("session string is empty")
	}

	storage := new(session.StorageMemory)

	data, err := session.TelethonSession(sessionString)
	if err == nil {
		loader := session.Loader{Storage: storage}
		if err := loader.Save(ctx, data); err != nil {
			return nil, fmt.Errorf("failed to store session: %w", err)
		}
		return storage, nil
	}

	raw, decodeErr := base64.StdEncoding.DecodeString(sessionString)
	if decodeErr != nil || !json.Valid(raw) {
		return nil, pkgerrors.NewValidationErrorf("unsupported session string format: %v", err)
	}

	if err := storage.StoreSession(ctx, raw); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return storage, nil
}
