// Package websocket 订单留言的 WebSocket 接入层
// 连接身份在握手时由 JWT 确定，auth 事件只做确认
package websocket

import (
	"context"
	"encoding/json"
	"net/http"

	"gemstore_server/internal/config"
	"gemstore_server/internal/model"
	"gemstore_server/internal/service/chat"
	"gemstore_server/internal/service/messaging"
	"gemstore_server/pkg/errorx"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// 客户端事件类型
const (
	InAuth          = "auth"
	InSubscribe     = "subscribe"
	InMessage       = "message"
	InMarkRead      = "mark_read"
	InMarkOrderRead = "mark_order_read"
)

// Inbound 客户端发来的事件，字段按 type 取用
type Inbound struct {
	Type      string `json:"type"`
	UserID    *uint  `json:"userId,omitempty"`
	IsAdmin   *bool  `json:"isAdmin,omitempty"`
	OrderID   *uint  `json:"orderId,omitempty"`
	ParentID  *uint  `json:"parentId,omitempty"`
	MessageID uint   `json:"messageId,omitempty"`
	Subject   string `json:"subject,omitempty"`
	Content   string `json:"content,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

// Messaging 网关用到的留言操作
type Messaging interface {
	AuthorizeOrder(ctx context.Context, actor *model.Actor, orderID uint) (*model.Order, error)
	OrderThread(ctx context.Context, actor *model.Actor, orderID uint) ([]model.Message, error)
	CreateMessage(ctx context.Context, actor *model.Actor, req messaging.CreateRequest) (*model.Message, error)
	Reply(ctx context.Context, actor *model.Actor, parentID uint, req messaging.ReplyRequest) (*model.Message, error)
	MarkRead(ctx context.Context, actor *model.Actor, messageID uint) (*model.Message, error)
	MarkOrderRead(ctx context.Context, actor *model.Actor, orderID uint) (int64, error)
}

// Gateway WebSocket 网关
type Gateway struct {
	broker   chat.Broker
	svc      Messaging
	welcome  string
	poll     int
	upgrader websocket.Upgrader
}

// NewGateway 构造函数
func NewGateway(broker chat.Broker, svc Messaging, cfg config.MessagingConfig) *Gateway {
	return &Gateway{
		broker:  broker,
		svc:     svc,
		welcome: cfg.WelcomeMessage,
		poll:    int(cfg.PollInterval().Seconds()),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  2048,
			WriteBufferSize: 2048,
			// 跨域由 CORS 配置统一控制
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Serve 升级连接并阻塞处理，直到连接断开
// identity 为握手时解析出的身份，匿名连接传 nil
func (g *Gateway) Serve(w http.ResponseWriter, r *http.Request, identity *model.Actor) {
	ws, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.L().Warn("ws upgrade failed", zap.Error(err))
		return
	}

	client := chat.NewClient(uuid.NewString(), identity)
	conn := newUserConn(ws, client)
	g.broker.Register(client)
	client.SendEvent(chat.NewWelcome(g.welcome, g.poll))
	zap.L().Info("ws connected", zap.String("client_id", client.ID), zap.Bool("identified", identity != nil))

	ctx, cancel := context.WithCancel(context.Background())
	go conn.Write()
	conn.Read(func(frame []byte) { g.handle(ctx, client, frame) })

	cancel()
	g.broker.Unregister(client.ID)
	client.Close()
	zap.L().Info("ws disconnected", zap.String("client_id", client.ID))
}

func (g *Gateway) handle(ctx context.Context, client *chat.Client, frame []byte) {
	var in Inbound
	if err := json.Unmarshal(frame, &in); err != nil {
		client.SendEvent(chat.NewError("无法解析的消息格式"))
		return
	}

	switch in.Type {
	case InAuth:
		g.handleAuth(client, in)
	case InSubscribe:
		g.handleSubscribe(ctx, client, in)
	case InMessage:
		g.handleMessage(ctx, client, in)
	case InMarkRead:
		g.handleMarkRead(ctx, client, in)
	case InMarkOrderRead:
		g.handleMarkOrderRead(ctx, client, in)
	default:
		client.SendEvent(chat.NewError("未知的事件类型: " + in.Type))
	}
}

// handleAuth 声明的身份必须与握手身份一致，省略的字段不校验
func (g *Gateway) handleAuth(client *chat.Client, in Inbound) {
	id := client.Identity
	if id == nil ||
		(in.UserID != nil && *in.UserID != id.UserID) ||
		(in.IsAdmin != nil && *in.IsAdmin != id.IsAdmin) {
		client.SendEvent(chat.NewAuthResponse(chat.AuthAck{}))
		return
	}
	client.SendEvent(chat.NewAuthResponse(g.broker.Authenticate(client.ID, id.UserID, id.IsAdmin)))
}

// handleSubscribe 先登记订阅再读历史，历史之后的新消息不会漏
func (g *Gateway) handleSubscribe(ctx context.Context, client *chat.Client, in Inbound) {
	actor, ok := g.actor(client)
	if !ok {
		return
	}
	if in.OrderID == nil {
		client.SendEvent(chat.NewError("orderId 不能为空"))
		return
	}
	orderID := *in.OrderID
	if _, err := g.svc.AuthorizeOrder(ctx, actor, orderID); err != nil {
		g.fail(client, err)
		return
	}
	if err := g.broker.Subscribe(client.ID, orderID); err != nil {
		zap.L().Warn("subscribe failed", zap.String("client_id", client.ID), zap.Error(err))
		client.SendEvent(chat.NewError("订阅失败"))
		return
	}
	history, err := g.svc.OrderThread(ctx, actor, orderID)
	if err != nil {
		g.fail(client, err)
		return
	}
	client.SendEvent(chat.NewHistory(orderID, history))
}

func (g *Gateway) handleMessage(ctx context.Context, client *chat.Client, in Inbound) {
	actor, ok := g.actor(client)
	if !ok {
		return
	}
	var err error
	if in.ParentID != nil {
		_, err = g.svc.Reply(ctx, actor, *in.ParentID, messaging.ReplyRequest{
			Content:  in.Content,
			ImageURL: in.ImageURL,
		})
	} else {
		_, err = g.svc.CreateMessage(ctx, actor, messaging.CreateRequest{
			Subject:  in.Subject,
			Content:  in.Content,
			ImageURL: in.ImageURL,
			OrderID:  in.OrderID,
		})
	}
	if err != nil {
		g.fail(client, err)
	}
}

func (g *Gateway) handleMarkRead(ctx context.Context, client *chat.Client, in Inbound) {
	actor, ok := g.actor(client)
	if !ok {
		return
	}
	if in.MessageID == 0 {
		client.SendEvent(chat.NewError("messageId 不能为空"))
		return
	}
	if _, err := g.svc.MarkRead(ctx, actor, in.MessageID); err != nil {
		g.fail(client, err)
	}
}

func (g *Gateway) handleMarkOrderRead(ctx context.Context, client *chat.Client, in Inbound) {
	actor, ok := g.actor(client)
	if !ok {
		return
	}
	if in.OrderID == nil {
		client.SendEvent(chat.NewError("orderId 不能为空"))
		return
	}
	if _, err := g.svc.MarkOrderRead(ctx, actor, *in.OrderID); err != nil {
		g.fail(client, err)
	}
}

// actor 已完成 auth 的身份；未认证时回 error 事件
func (g *Gateway) actor(client *chat.Client) (*model.Actor, bool) {
	sub, ok := g.broker.Subscription(client.ID)
	if !ok {
		return nil, false
	}
	actor, ok := sub.Actor()
	if !ok {
		client.SendEvent(chat.NewError(errorx.ErrUnauthorized.Msg))
		return nil, false
	}
	return &actor, true
}

// fail 错误只回给发起请求的连接
func (g *Gateway) fail(client *chat.Client, err error) {
	if errorx.HTTPStatus(err) >= http.StatusInternalServerError {
		zap.L().Error("ws event failed", zap.String("client_id", client.ID), zap.Error(err))
	}
	client.SendEvent(chat.NewError(errorx.Message(err)))
}
