package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gemstore_server/internal/config"
	"gemstore_server/internal/dao/db/dbtest"
	"gemstore_server/internal/model"
	"gemstore_server/internal/service/auth"
	"gemstore_server/internal/service/chat"
	"gemstore_server/internal/service/conversation"
	"gemstore_server/internal/service/message"
	"gemstore_server/internal/service/messaging"
	"gemstore_server/internal/service/readstate"
	"gemstore_server/pkg/util/jwt"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	server *httptest.Server
	svc    *messaging.Service
	broker *chat.LocalBroker
	f      *dbtest.Fixture
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	jwt.Init("ws-test-secret", 60, 168)
	gdb, repos := dbtest.NewRepos(t)
	f := dbtest.Seed(t, gdb)

	cfg := config.Default().MessagingConfig
	cfg.PollIntervalSeconds = 7
	broker := chat.NewLocalBroker()
	svc := messaging.NewMessagingService(
		repos.Order,
		message.NewMessageService(repos, cfg),
		readstate.NewReadStateService(repos),
		conversation.NewConversationService(repos),
		broker,
	)
	gw := NewGateway(broker, svc, cfg)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var identity *model.Actor
		if token := r.URL.Query().Get("token"); token != "" {
			identity, _ = auth.Actor(token)
		}
		gw.Serve(w, r, identity)
	}))
	t.Cleanup(server.Close)
	return &harness{server: server, svc: svc, broker: broker, f: f}
}

func (h *harness) dial(t *testing.T, user *model.UserInfo) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(h.server.URL, "http")
	if user != nil {
		token, err := jwt.GenerateAccessToken(user.ID, user.IsAdmin)
		require.NoError(t, err)
		url += "?token=" + token
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	welcome := readEvent(t, conn)
	require.Equal(t, chat.EventWelcome, welcome["type"])
	assert.EqualValues(t, 7, welcome["pollIntervalSeconds"])
	return conn
}

func send(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(v))
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var ev map[string]any
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

// authSubscribe 完成 auth 与 subscribe，返回 history 事件
func authSubscribe(t *testing.T, conn *websocket.Conn, orderID uint) map[string]any {
	t.Helper()
	send(t, conn, map[string]any{"type": "auth"})
	ack := readEvent(t, conn)
	require.Equal(t, chat.EventAuthResponse, ack["type"])
	require.Equal(t, true, ack["success"])

	send(t, conn, map[string]any{"type": "subscribe", "orderId": orderID})
	history := readEvent(t, conn)
	require.Equal(t, chat.EventHistory, history["type"])
	return history
}

func TestAnonymousConnectionCannotAuthenticate(t *testing.T) {
	h := newHarness(t)
	conn := h.dial(t, nil)

	send(t, conn, map[string]any{"type": "auth", "userId": h.f.Customer.ID, "isAdmin": true})
	ack := readEvent(t, conn)
	assert.Equal(t, chat.EventAuthResponse, ack["type"])
	assert.Equal(t, false, ack["success"])

	send(t, conn, map[string]any{"type": "subscribe", "orderId": h.f.Order.ID})
	assert.Equal(t, chat.EventError, readEvent(t, conn)["type"])
}

func TestAuthMustMatchHandshakeIdentity(t *testing.T) {
	h := newHarness(t)
	conn := h.dial(t, &h.f.Customer)

	send(t, conn, map[string]any{"type": "auth", "userId": h.f.Customer.ID, "isAdmin": true})
	assert.Equal(t, false, readEvent(t, conn)["success"])

	send(t, conn, map[string]any{"type": "auth", "userId": h.f.Admin.ID})
	assert.Equal(t, false, readEvent(t, conn)["success"])

	send(t, conn, map[string]any{"type": "auth", "userId": h.f.Customer.ID, "isAdmin": false})
	ack := readEvent(t, conn)
	assert.Equal(t, true, ack["success"])
	assert.EqualValues(t, h.f.Customer.ID, ack["userId"])
}

func TestSubscribeForeignOrderRejected(t *testing.T) {
	h := newHarness(t)
	conn := h.dial(t, &h.f.Other)

	send(t, conn, map[string]any{"type": "auth"})
	require.Equal(t, true, readEvent(t, conn)["success"])

	send(t, conn, map[string]any{"type": "subscribe", "orderId": h.f.Order.ID})
	ev := readEvent(t, conn)
	assert.Equal(t, chat.EventError, ev["type"])
	assert.NotEmpty(t, ev["message"])

	send(t, conn, map[string]any{"type": "subscribe", "orderId": 9999})
	assert.Equal(t, chat.EventError, readEvent(t, conn)["type"])
}

func TestLiveConversation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	orderID := h.f.Order.ID

	customer := h.dial(t, &h.f.Customer)
	history := authSubscribe(t, customer, orderID)
	assert.Empty(t, history["messages"])

	admin := h.dial(t, &h.f.Admin)
	authSubscribe(t, admin, orderID)

	send(t, customer, map[string]any{"type": "message", "content": "Where is my order?", "orderId": orderID})
	for _, conn := range []*websocket.Conn{customer, admin} {
		ev := readEvent(t, conn)
		require.Equal(t, chat.EventNewMessage, ev["type"])
		msg := ev["message"].(map[string]any)
		assert.Equal(t, "Where is my order?", msg["content"])
		assert.Equal(t, false, msg["isFromAdmin"])
	}

	thread, err := h.svc.OrderThread(ctx, &model.Actor{UserID: h.f.Admin.ID, IsAdmin: true}, orderID)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	first := thread[0]

	// 管理员通过 HTTP 同一套服务回复
	reply, err := h.svc.Reply(ctx, &model.Actor{UserID: h.f.Admin.ID, IsAdmin: true}, first.ID, messaging.ReplyRequest{Content: "Shipped yesterday"})
	require.NoError(t, err)
	ev := readEvent(t, customer)
	require.Equal(t, chat.EventNewMessage, ev["type"])
	assert.EqualValues(t, reply.ID, ev["message"].(map[string]any)["id"])
	readEvent(t, admin)

	// 自己发的消息不能标记
	send(t, customer, map[string]any{"type": "mark_read", "messageId": first.ID})
	assert.Equal(t, chat.EventError, readEvent(t, customer)["type"])

	send(t, customer, map[string]any{"type": "mark_read", "messageId": reply.ID})
	for _, conn := range []*websocket.Conn{customer, admin} {
		ev := readEvent(t, conn)
		require.Equal(t, chat.EventMessageRead, ev["type"])
		assert.EqualValues(t, reply.ID, ev["messageId"])
	}

	count, err := h.svc.UnreadCount(ctx, &model.Actor{UserID: h.f.Customer.ID})
	require.NoError(t, err)
	assert.Zero(t, count)

	// 重新订阅时历史包含全部消息，最早在前
	send(t, customer, map[string]any{"type": "subscribe", "orderId": orderID})
	history = readEvent(t, customer)
	msgs := history["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.EqualValues(t, first.ID, msgs[0].(map[string]any)["id"])
}

func TestNewMessageIsPersistedBeforeDelivery(t *testing.T) {
	h := newHarness(t)
	orderID := h.f.Order.ID

	watcher := h.dial(t, &h.f.Admin)
	authSubscribe(t, watcher, orderID)
	sender := h.dial(t, &h.f.Customer)
	send(t, sender, map[string]any{"type": "auth"})
	readEvent(t, sender)

	for i := 0; i < 5; i++ {
		send(t, sender, map[string]any{"type": "message", "content": "ping", "orderId": orderID})
		ev := readEvent(t, watcher)
		require.Equal(t, chat.EventNewMessage, ev["type"])
		id := uint(ev["message"].(map[string]any)["id"].(float64))

		thread, err := h.svc.OrderThread(context.Background(), &model.Actor{UserID: h.f.Customer.ID}, orderID)
		require.NoError(t, err)
		found := false
		for _, m := range thread {
			found = found || m.ID == id
		}
		assert.True(t, found, "message %d must be readable once broadcast", id)
	}
}

func TestSubscriptionReplacement(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin := &model.Actor{UserID: h.f.Admin.ID, IsAdmin: true}
	orderA, orderB := h.f.Order.ID, h.f.OtherOrder.ID

	conn := h.dial(t, &h.f.Admin)
	authSubscribe(t, conn, orderA)
	send(t, conn, map[string]any{"type": "subscribe", "orderId": orderB})
	require.Equal(t, chat.EventHistory, readEvent(t, conn)["type"])

	_, err := h.svc.AdminCreateForOrder(ctx, admin, orderA, messaging.CreateRequest{Content: "to A"})
	require.NoError(t, err)
	_, err = h.svc.AdminCreateForOrder(ctx, admin, orderB, messaging.CreateRequest{Content: "to B"})
	require.NoError(t, err)

	ev := readEvent(t, conn)
	require.Equal(t, chat.EventNewMessage, ev["type"])
	assert.Equal(t, "to B", ev["message"].(map[string]any)["content"])
}

func TestBadFramesGetErrorEvents(t *testing.T) {
	h := newHarness(t)
	conn := h.dial(t, &h.f.Customer)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	assert.Equal(t, chat.EventError, readEvent(t, conn)["type"])

	send(t, conn, map[string]any{"type": "dance"})
	assert.Equal(t, chat.EventError, readEvent(t, conn)["type"])

	// 未 auth 时发送消息
	send(t, conn, map[string]any{"type": "message", "content": "x", "orderId": h.f.Order.ID})
	assert.Equal(t, chat.EventError, readEvent(t, conn)["type"])
}

func TestDisconnectUnregisters(t *testing.T) {
	h := newHarness(t)
	conn := h.dial(t, &h.f.Customer)
	assert.Equal(t, 1, h.broker.Online())

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return h.broker.Online() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestInboundDecoding(t *testing.T) {
	var in Inbound
	require.NoError(t, json.Unmarshal([]byte(`{"type":"message","orderId":42,"parentId":501,"content":"hi"}`), &in))
	assert.Equal(t, InMessage, in.Type)
	assert.EqualValues(t, 42, *in.OrderID)
	assert.EqualValues(t, 501, *in.ParentID)
	assert.Nil(t, in.UserID)
}
