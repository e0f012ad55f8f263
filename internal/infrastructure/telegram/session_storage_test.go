package telegram

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"testing"

	"github.com/gotd/td/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/Devensh22345/channel-adder/pkg/errors"
)

// telethonString builds a version 1 Telethon string session for an IPv4 address
func telethonString(dc byte) string {
	buf := make([]byte, 0, 263)
	buf = append(buf, dc)
	buf = append(buf, 149, 154, 167, 51)
	port := make([]byte, 2)
	binary.BigEndian.PutUint16(port, 443)
	buf = append(buf, port...)
	key := make([]byte, 256)
	for i := range key {
		key[i] = byte(i)
	}
	buf = append(buf, key...)
	return "1" + base64.URLEncoding.EncodeToString(buf)
}

func TestNewStringSessionStorage_Telethon(t *testing.T) {
	ctx := context.Background()

	storage, err := NewStringSessionStorage(ctx, telethonString(2))
	require.NoError(t, err)

	loader := session.Loader{Storage: storage}
	data, err := loader.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, data.DC)
	assert.Len(t, data.AuthKey, 256)
}

func TestNewStringSessionStorage_RawGotdSession(t *testing.T) {
	ctx := context.Background()
	raw := []byte(`{"Version":1,"Data":{"DC":4}}`)

	storage, err := NewStringSessionStorage(ctx, base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)

	stored, err := storage.LoadSession(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(stored))
}

func TestNewStringSessionStorage_Invalid(t *testing.T) {
	ctx := context.Background()

	_, err := NewStringSessionStorage(ctx, "   ")
	assert.True(t, pkgerrors.IsValidationError(err))

	_, err = NewStringSessionStorage(ctx, "not a session")
	assert.True(t, pkgerrors.IsValidationError(err))
}
