package bot

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBot_EmptyToken(t *testing.T) {
	_, err := NewBot("", zerolog.Nop())
	require.Error(t, err)
	assert.Equal(t, "telegram token is required", err.Error())
}

func TestAllowedUpdates(t *testing.T) {
	assert.ElementsMatch(t, []string{"message", "channel_post", "callback_query"}, []string(AllowedUpdates))
}
