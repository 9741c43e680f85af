package chat_service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rabbithabit/rabbit-core/internal/dtos/chat_dto"
	"github.com/rabbithabit/rabbit-core/internal/entity"
	"github.com/rabbithabit/rabbit-core/state"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func testService(t *testing.T) (*ChatService, *state.AppState) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	appState := &state.AppState{
		Ctx:   context.Background(),
		DB:    db,
		Redis: rdb,
	}
	require.NoError(t, appState.Migrate())

	service := NewChatService(appState).(*ChatService)
	service.Now = func() time.Time { return testNow }
	return service, appState
}

func seedChannel(t *testing.T, appState *state.AppState) *entity.ChatChannel {
	t.Helper()
	channel := &entity.ChatChannel{ID: uuid.New(), HabitID: uuid.New()}
	require.NoError(t, appState.DB.Create(channel).Error)
	return channel
}

func TestSendMessage_ReturnsHydratedResponse(t *testing.T) {
	service, appState := testService(t)
	channel := seedChannel(t, appState)
	require.NoError(t, appState.DB.Create(&entity.User{ID: "user-1", Nickname: "rabbit"}).Error)

	resp, appErr := service.SendMessage(context.Background(), channel.ID, "user-1", "hello")
	require.Nil(t, appErr)

	assert.Equal(t, channel.ID.String(), resp.ChannelID)
	assert.Equal(t, "hello", resp.Content)
	assert.Equal(t, "rabbit", resp.Nickname)
	assert.NotEmpty(t, resp.MessageID)
	assert.True(t, resp.CreatedAt.Equal(testNow))
}

func TestSendMessage_UnknownChannel(t *testing.T) {
	service, _ := testService(t)

	_, appErr := service.SendMessage(context.Background(), uuid.New(), "user-1", "hello")
	require.NotNil(t, appErr)
	assert.Equal(t, 404, appErr.Code)
}

func TestListMessages_DefaultLimitAndCursor(t *testing.T) {
	service, appState := testService(t)
	channel := seedChannel(t, appState)

	for i := 0; i < 25; i++ {
		service.Now = func() time.Time { return testNow.Add(time.Duration(i) * time.Minute) }
		_, appErr := service.SendMessage(context.Background(), channel.ID, "user-1", "msg")
		require.Nil(t, appErr)
	}

	resp, appErr := service.ListMessages(context.Background(), channel.ID, chat_dto.ListMessagesRequest{})
	require.Nil(t, appErr)

	assert.Len(t, resp.Messages, 20)
	assert.True(t, resp.HasMore)
	require.NotNil(t, resp.NextCursor)

	older, appErr := service.ListMessages(context.Background(), channel.ID, chat_dto.ListMessagesRequest{BeforeID: resp.NextCursor})
	require.Nil(t, appErr)
	assert.Len(t, older.Messages, 5)
	assert.False(t, older.HasMore)
}

func TestListMessages_UnknownChannel(t *testing.T) {
	service, _ := testService(t)

	_, appErr := service.ListMessages(context.Background(), uuid.New(), chat_dto.ListMessagesRequest{})
	require.NotNil(t, appErr)
	assert.Equal(t, 404, appErr.Code)
}

func TestMarkRead_UsesLatestMessageTimestamp(t *testing.T) {
	service, appState := testService(t)
	channel := seedChannel(t, appState)

	_, appErr := service.SendMessage(context.Background(), channel.ID, "user-1", "latest")
	require.Nil(t, appErr)

	resp, appErr := service.MarkRead(context.Background(), channel.ID, "user-2")
	require.Nil(t, appErr)
	assert.True(t, resp.LastReadAt.Equal(testNow))

	count, appErr := service.UnreadCount(context.Background(), channel.ID, "user-2")
	require.Nil(t, appErr)
	assert.Equal(t, int64(0), count)
}

func TestMarkRead_EmptyChannelFallsBackToNow(t *testing.T) {
	service, appState := testService(t)
	channel := seedChannel(t, appState)

	resp, appErr := service.MarkRead(context.Background(), channel.ID, "user-1")
	require.Nil(t, appErr)
	assert.True(t, resp.LastReadAt.Equal(testNow))
}

func TestMarkRead_SurvivesColdCache(t *testing.T) {
	service, appState := testService(t)
	channel := seedChannel(t, appState)

	_, appErr := service.SendMessage(context.Background(), channel.ID, "user-1", "hi")
	require.Nil(t, appErr)

	// wipe the cached timestamp; the store is the fallback
	require.NoError(t, appState.Redis.FlushAll(context.Background()).Err())

	resp, appErr := service.MarkRead(context.Background(), channel.ID, "user-2")
	require.Nil(t, appErr)
	assert.True(t, resp.LastReadAt.Equal(testNow))
}
