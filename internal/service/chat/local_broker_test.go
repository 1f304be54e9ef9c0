package chat

import (
	"context"
	"encoding/json"
	"testing"

	"gemstore_server/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(c *Client) []map[string]any {
	var out []map[string]any
	for {
		select {
		case data := <-c.Outbound():
			var m map[string]any
			_ = json.Unmarshal(data, &m)
			out = append(out, m)
		default:
			return out
		}
	}
}

func registerAuthed(t *testing.T, b *LocalBroker, id string, userID uint, admin bool) *Client {
	t.Helper()
	c := NewClient(id, &model.Actor{UserID: userID, IsAdmin: admin})
	b.Register(c)
	ack := b.Authenticate(id, userID, admin)
	require.True(t, ack.Success)
	return c
}

func TestSubscribeRequiresAuthentication(t *testing.T) {
	b := NewLocalBroker()
	b.Register(NewClient("c1", nil))

	sub, ok := b.Subscription("c1")
	require.True(t, ok)
	assert.False(t, sub.Authenticated())
	assert.Nil(t, sub.OrderID)

	assert.ErrorIs(t, b.Subscribe("c1", 42), ErrNotAuthenticated)
	assert.ErrorIs(t, b.Subscribe("missing", 42), ErrUnknownClient)
	assert.False(t, b.Authenticate("missing", 1, false).Success)
}

func TestBroadcastReachesOnlyOrderSubscribers(t *testing.T) {
	b := NewLocalBroker()
	ctx := context.Background()
	customer := registerAuthed(t, b, "customer", 7, false)
	admin := registerAuthed(t, b, "admin", 1, true)
	idle := registerAuthed(t, b, "idle", 8, false)
	other := registerAuthed(t, b, "other", 9, false)

	require.NoError(t, b.Subscribe("customer", 42))
	require.NoError(t, b.Subscribe("admin", 42))
	require.NoError(t, b.Subscribe("other", 43))

	msg := &model.Message{ID: 501, Content: "Where is my order?"}
	require.NoError(t, b.Broadcast(ctx, 42, NewNewMessage(msg)))

	for _, c := range []*Client{customer, admin} {
		events := drain(c)
		require.Len(t, events, 1)
		assert.Equal(t, EventNewMessage, events[0]["type"])
	}
	assert.Empty(t, drain(idle))
	assert.Empty(t, drain(other))
}

func TestSubscribeReplacesPreviousOrder(t *testing.T) {
	b := NewLocalBroker()
	ctx := context.Background()
	c := registerAuthed(t, b, "c", 7, false)

	require.NoError(t, b.Subscribe("c", 1))
	require.NoError(t, b.Subscribe("c", 2))

	require.NoError(t, b.Broadcast(ctx, 1, NewMessageRead(10, 1)))
	assert.Empty(t, drain(c))

	require.NoError(t, b.Broadcast(ctx, 2, NewMessageRead(11, 2)))
	events := drain(c)
	require.Len(t, events, 1)
	assert.EqualValues(t, 11, events[0]["messageId"])

	sub, _ := b.Subscription("c")
	require.NotNil(t, sub.OrderID)
	assert.EqualValues(t, 2, *sub.OrderID)
}

func TestBroadcastSkipsClosedAndUnregistered(t *testing.T) {
	b := NewLocalBroker()
	live := registerAuthed(t, b, "live", 7, false)
	closed := registerAuthed(t, b, "closed", 8, false)
	gone := registerAuthed(t, b, "gone", 9, false)
	for _, id := range []string{"live", "closed", "gone"} {
		require.NoError(t, b.Subscribe(id, 5))
	}

	closed.Close()
	b.Unregister("gone")

	assert.Equal(t, 1, b.Deliver(5, []byte(`{"type":"messages_read"}`)))
	assert.Len(t, drain(live), 1)
	assert.Empty(t, drain(gone))
	assert.Equal(t, 2, b.Online())

	// 无订阅者的广播是正常情况
	assert.NoError(t, b.Broadcast(context.Background(), 999, NewMessagesRead(999, model.PartyStaff, 0)))
}

func TestClientSendDropsWhenFull(t *testing.T) {
	c := NewClient("c", nil)
	for c.Send([]byte("x")) {
	}
	assert.Len(t, c.Outbound(), cap(c.send))
	c.Close()
	c.Close()
	assert.True(t, c.Closed())
	assert.False(t, c.SendEvent(NewError("late")))
}
