package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rabbithabit/rabbit-core/internal/entity"
	chat_repo "github.com/rabbithabit/rabbit-core/internal/repo/chat"
	"github.com/rabbithabit/rabbit-core/state"
)

func testState(t *testing.T) *state.AppState {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	appState := &state.AppState{
		Ctx: context.Background(),
		DB:  db,
	}
	require.NoError(t, appState.Migrate())
	return appState
}

func seedChannel(t *testing.T, appState *state.AppState) *entity.ChatChannel {
	t.Helper()
	channel := &entity.ChatChannel{ID: uuid.New(), HabitID: uuid.New()}
	require.NoError(t, appState.DB.Create(channel).Error)
	return channel
}

type relayFixture struct {
	appState *state.AppState
	hub      *Hub
	relay    *Relay
	server   *httptest.Server
}

func newRelayFixture(t *testing.T) *relayFixture {
	t.Helper()

	appState := testState(t)
	hub := NewHub()
	relay := NewRelay(hub, chat_repo.NewChatRepo(appState))
	server := httptest.NewServer(http.HandlerFunc(relay.HandleWS))
	t.Cleanup(func() {
		hub.Close()
		server.Close()
	})

	return &relayFixture{appState: appState, hub: hub, relay: relay, server: server}
}

func (f *relayFixture) dial(t *testing.T) *gws.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http")
	conn, _, err := gws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func (f *relayFixture) join(t *testing.T, conn *gws.Conn, channelID string, want int) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(InboundEvent{Type: EventJoin, ChannelID: channelID}))
	require.Eventually(t, func() bool {
		return f.hub.SubscriberCount(channelID) == want
	}, 2*time.Second, 10*time.Millisecond)
}

func readEvent(t *testing.T, conn *gws.Conn) OutgoingEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var event OutgoingEvent
	require.NoError(t, json.Unmarshal(data, &event))
	return event
}

func assertNoEvent(t *testing.T, conn *gws.Conn) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
}

func TestRelay_SendBroadcastsHydratedMessage(t *testing.T) {
	f := newRelayFixture(t)
	channel := seedChannel(t, f.appState)
	require.NoError(t, f.appState.DB.Create(&entity.User{ID: "user-1", Nickname: "rabbit"}).Error)

	// persist first, the way the sync API does before the relay event
	repo := chat_repo.NewChatRepo(f.appState)
	_, appErr := repo.CreateMessage(context.Background(), channel.ID, "user-1", "hello", time.Now())
	require.Nil(t, appErr)

	sender := f.dial(t)
	receiver := f.dial(t)
	f.join(t, sender, channel.ID.String(), 1)
	f.join(t, receiver, channel.ID.String(), 2)

	require.NoError(t, sender.WriteJSON(InboundEvent{
		ChannelID: channel.ID.String(),
		UserID:    "user-1",
		Content:   "hello",
	}))

	for _, conn := range []*gws.Conn{sender, receiver} {
		event := readEvent(t, conn)
		assert.Equal(t, EventMessage, event.Type)
		assert.Equal(t, channel.ID.String(), event.ChannelID)
		require.NotNil(t, event.Message)
		assert.Equal(t, "hello", event.Message.Content)
		assert.Equal(t, "rabbit", event.Message.Nickname)
		assert.NotEmpty(t, event.Message.MessageID)
	}
}

func TestRelay_SendWithoutPersistedMessageIsDropped(t *testing.T) {
	f := newRelayFixture(t)
	channel := seedChannel(t, f.appState)

	conn := f.dial(t)
	f.join(t, conn, channel.ID.String(), 1)

	require.NoError(t, conn.WriteJSON(InboundEvent{
		ChannelID: channel.ID.String(),
		UserID:    "user-1",
		Content:   "never stored",
	}))

	assertNoEvent(t, conn)
}

func TestRelay_DeleteGoesOutVerbatim(t *testing.T) {
	f := newRelayFixture(t)
	channel := seedChannel(t, f.appState)

	conn := f.dial(t)
	f.join(t, conn, channel.ID.String(), 1)

	messageID := uuid.New().String()
	require.NoError(t, conn.WriteJSON(InboundEvent{
		Type:      EventDelete,
		ChannelID: channel.ID.String(),
		MessageID: messageID,
	}))

	event := readEvent(t, conn)
	assert.Equal(t, EventDelete, event.Type)
	assert.Equal(t, messageID, event.MessageID)
}

func TestRelay_ReadUpdateStampsLatestMessage(t *testing.T) {
	f := newRelayFixture(t)
	channel := seedChannel(t, f.appState)

	latest := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := chat_repo.NewChatRepo(f.appState)
	_, appErr := repo.CreateMessage(context.Background(), channel.ID, "user-1", "hi", latest)
	require.Nil(t, appErr)

	conn := f.dial(t)
	f.join(t, conn, channel.ID.String(), 1)

	require.NoError(t, conn.WriteJSON(InboundEvent{
		Type:      EventReadUpdate,
		ChannelID: channel.ID.String(),
		UserID:    "user-2",
	}))

	event := readEvent(t, conn)
	assert.Equal(t, EventReadUpdate, event.Type)
	assert.Equal(t, "user-2", event.UserID)
	require.NotNil(t, event.LastReadAt)
	assert.True(t, event.LastReadAt.Equal(latest))

	read, appErr := repo.UpsertRead(context.Background(), "user-2", channel.ID, latest.Add(-time.Hour))
	require.Nil(t, appErr)
	assert.True(t, read.LastReadAt.Equal(latest))
}

func TestRelay_NonSubscriberReceivesNothing(t *testing.T) {
	f := newRelayFixture(t)
	channel := seedChannel(t, f.appState)
	other := seedChannel(t, f.appState)

	subscriber := f.dial(t)
	bystander := f.dial(t)
	f.join(t, subscriber, channel.ID.String(), 1)
	f.join(t, bystander, other.ID.String(), 1)

	messageID := uuid.New().String()
	require.NoError(t, subscriber.WriteJSON(InboundEvent{
		Type:      EventDelete,
		ChannelID: channel.ID.String(),
		MessageID: messageID,
	}))

	event := readEvent(t, subscriber)
	assert.Equal(t, messageID, event.MessageID)

	assertNoEvent(t, bystander)
}

func TestRelay_LeaveStopsDelivery(t *testing.T) {
	f := newRelayFixture(t)
	channel := seedChannel(t, f.appState)

	conn := f.dial(t)
	f.join(t, conn, channel.ID.String(), 1)

	require.NoError(t, conn.WriteJSON(InboundEvent{Type: EventLeave, ChannelID: channel.ID.String()}))
	require.Eventually(t, func() bool {
		return f.hub.SubscriberCount(channel.ID.String()) == 0
	}, 2*time.Second, 10*time.Millisecond)

	f.hub.BroadcastToChannel(channel.ID.String(), OutgoingEvent{Type: EventDelete, MessageID: "gone"})
	assertNoEvent(t, conn)
}

func TestRelay_LateJoinerGetsNothingRetroactively(t *testing.T) {
	f := newRelayFixture(t)
	channel := seedChannel(t, f.appState)

	early := f.dial(t)
	f.join(t, early, channel.ID.String(), 1)

	f.hub.BroadcastToChannel(channel.ID.String(), OutgoingEvent{Type: EventDelete, MessageID: "before-join"})
	_ = readEvent(t, early)

	late := f.dial(t)
	f.join(t, late, channel.ID.String(), 2)

	assertNoEvent(t, late)
}

func TestRelay_MalformedPayloadKeepsConnection(t *testing.T) {
	f := newRelayFixture(t)
	channel := seedChannel(t, f.appState)

	conn := f.dial(t)
	require.NoError(t, conn.WriteMessage(gws.TextMessage, []byte("{not json")))
	require.NoError(t, conn.WriteJSON(InboundEvent{Type: "bogus", ChannelID: channel.ID.String()}))

	// connection survives both bad frames and still handles a join
	f.join(t, conn, channel.ID.String(), 1)

	messageID := uuid.New().String()
	require.NoError(t, conn.WriteJSON(InboundEvent{
		Type:      EventDelete,
		ChannelID: channel.ID.String(),
		MessageID: messageID,
	}))
	event := readEvent(t, conn)
	assert.Equal(t, messageID, event.MessageID)
}

func TestHub_DisconnectCleansSubscriptions(t *testing.T) {
	f := newRelayFixture(t)
	channel := seedChannel(t, f.appState)

	conn := f.dial(t)
	f.join(t, conn, channel.ID.String(), 1)
	require.Equal(t, 1, f.hub.ClientCount())

	conn.Close()
	require.Eventually(t, func() bool {
		return f.hub.ClientCount() == 0 && f.hub.SubscriberCount(channel.ID.String()) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHub_Stats(t *testing.T) {
	f := newRelayFixture(t)
	channel := seedChannel(t, f.appState)

	conn := f.dial(t)
	f.join(t, conn, channel.ID.String(), 1)

	stats := f.hub.GetHubStats()
	assert.Equal(t, 1, stats.TotalClients)
	assert.Equal(t, 1, stats.TotalChannels)
	assert.Equal(t, int64(1), stats.TotalConnections)

	channelStats := f.hub.ChannelStats(channel.ID.String())
	assert.Equal(t, true, channelStats["exists"])
	assert.Equal(t, 1, channelStats["total_subscribers"])

	missing := f.hub.ChannelStats(uuid.New().String())
	assert.Equal(t, false, missing["exists"])
}
