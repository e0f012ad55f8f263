package mongodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Devensh22345/channel-adder/internal/domain/channel/entities"
)

func testChannel() *entities.Channel {
	addedBy := int64(555)
	return entities.NewChannel(entities.Chat{
		ID:       -1001234567890,
		Type:     entities.ChatTypeChannel,
		Username: "news",
		Title:    "News",
	}, &addedBy, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
}

func TestBuildChannelUpsert_ResetProgress(t *testing.T) {
	update := buildChannelUpsert(testChannel(), true)

	set := update["$set"].(bson.M)
	setOnInsert := update["$setOnInsert"].(bson.M)

	assert.Equal(t, "news", set["channel_username"])
	assert.Equal(t, "News", set["channel_title"])
	assert.Equal(t, false, set["session_joined"])
	assert.Equal(t, false, set["bot_added"])
	assert.Equal(t, true, set["is_active"])
	assert.NotContains(t, set, "added_at")

	assert.Contains(t, setOnInsert, "added_at")
	assert.NotContains(t, setOnInsert, "session_joined")
}

func TestBuildChannelUpsert_KeepProgress(t *testing.T) {
	update := buildChannelUpsert(testChannel(), false)

	set := update["$set"].(bson.M)
	setOnInsert := update["$setOnInsert"].(bson.M)

	assert.NotContains(t, set, "session_joined")
	assert.NotContains(t, set, "bot_added")
	assert.NotContains(t, set, "is_active")
	assert.Equal(t, false, setOnInsert["session_joined"])
	assert.Equal(t, false, setOnInsert["bot_added"])
	assert.Equal(t, true, setOnInsert["is_active"])
	assert.Contains(t, setOnInsert, "added_at")
}

func TestBuildChannelUpsert_NoOverlap(t *testing.T) {
	for _, reset := range []bool{true, false} {
		update := buildChannelUpsert(testChannel(), reset)
		set := update["$set"].(bson.M)
		for key := range update["$setOnInsert"].(bson.M) {
			assert.NotContains(t, set, key, "field %s written by both operators", key)
		}
	}
}

func TestRequestDocument_RoundTrip(t *testing.T) {
	req := &entities.JoinRequest{
		ChannelID:   -1001234567890,
		ChatID:      "-100999",
		MessageID:   42,
		RequestLink: "https://t.me/+abc",
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:      entities.RequestStatusPending,
	}

	doc := newRequestDocument(req)
	got := doc.toEntity()

	assert.False(t, doc.ID.IsZero())
	assert.Equal(t, doc.ID.Hex(), got.ID)
	assert.Equal(t, req.ChannelID, got.ChannelID)
	assert.Equal(t, req.ChatID, got.ChatID)
	assert.Equal(t, req.MessageID, got.MessageID)
	assert.Equal(t, entities.RequestStatusPending, got.Status)
}
