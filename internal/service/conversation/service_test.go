package conversation

import (
	"context"
	"testing"
	"time"

	"gemstore_server/internal/dao/db/dbtest"
	"gemstore_server/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrdersWithMessages(t *testing.T) {
	gdb, repos := dbtest.NewRepos(t)
	f := dbtest.Seed(t, gdb)
	svc := NewConversationService(repos)
	ctx := context.Background()
	now := time.Now()

	msgs := []*model.Message{
		// OtherOrder 更新，但管理端按订单 ID 排序
		{Subject: "s", Content: "o1", UserID: f.Other.ID, OrderID: dbtest.UintPtr(f.OtherOrder.ID), CreatedAt: now.Add(-time.Minute)},
		{Subject: "s", Content: "c1", UserID: f.Customer.ID, OrderID: dbtest.UintPtr(f.Order.ID), CreatedAt: now.Add(-10 * time.Minute)},
		{Subject: "s", Content: "c2", UserID: f.Customer.ID, OrderID: dbtest.UintPtr(f.Order.ID), CreatedAt: now.Add(-9 * time.Minute)},
		{Subject: "s", Content: "a1", UserID: f.Customer.ID, OrderID: dbtest.UintPtr(f.Order.ID), IsFromAdmin: true, CreatedAt: now.Add(-8 * time.Minute)},
		// 订单已不存在，应被跳过
		{Subject: "s", Content: "ghost", UserID: f.Customer.ID, OrderID: dbtest.UintPtr(9999), CreatedAt: now},
	}
	for _, m := range msgs {
		require.NoError(t, repos.Message.Create(ctx, m))
	}

	summaries, err := svc.GetOrdersWithMessages(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, f.Order.ID, summaries[0].OrderID)
	assert.Equal(t, "GS-1001", summaries[0].OrderNumber)
	assert.EqualValues(t, 2, summaries[0].UnreadCount)
	assert.Equal(t, f.Customer.ID, summaries[0].UserID)
	require.NotNil(t, summaries[0].LastMessage)
	assert.Equal(t, "a1", summaries[0].LastMessage.Content)
	assert.WithinDuration(t, now.Add(-8*time.Minute), summaries[0].Date, time.Second)

	assert.Equal(t, f.OtherOrder.ID, summaries[1].OrderID)
	assert.EqualValues(t, 1, summaries[1].UnreadCount)
}

func TestGetUserConversationsRecentFirst(t *testing.T) {
	gdb, repos := dbtest.NewRepos(t)
	f := dbtest.Seed(t, gdb)
	svc := NewConversationService(repos)
	ctx := context.Background()
	now := time.Now()

	second := model.Order{OrderNumber: "GS-1003", UserID: f.Customer.ID, CreatedAt: now.Add(-time.Hour)}
	require.NoError(t, gdb.Create(&second).Error)

	msgs := []*model.Message{
		{Subject: "s", Content: "old", UserID: f.Customer.ID, OrderID: dbtest.UintPtr(f.Order.ID), CreatedAt: now.Add(-30 * time.Minute)},
		{Subject: "s", Content: "staff", UserID: f.Customer.ID, OrderID: dbtest.UintPtr(f.Order.ID), IsFromAdmin: true, CreatedAt: now.Add(-20 * time.Minute)},
		{Subject: "s", Content: "new", UserID: f.Customer.ID, OrderID: dbtest.UintPtr(second.ID), CreatedAt: now.Add(-5 * time.Minute)},
		{Subject: "s", Content: "read", UserID: f.Customer.ID, OrderID: dbtest.UintPtr(second.ID), IsFromAdmin: true, IsRead: true, CreatedAt: now.Add(-6 * time.Minute)},
		{Subject: "General inquiry", Content: "general", UserID: f.Customer.ID, CreatedAt: now},
		{Subject: "s", Content: "not mine", UserID: f.Other.ID, OrderID: dbtest.UintPtr(f.OtherOrder.ID), CreatedAt: now},
	}
	for _, m := range msgs {
		require.NoError(t, repos.Message.Create(ctx, m))
	}

	summaries, err := svc.GetUserConversations(ctx, f.Customer.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, second.ID, summaries[0].OrderID)
	assert.Equal(t, "GS-1003", summaries[0].OrderNumber)
	assert.Zero(t, summaries[0].UnreadCount)
	assert.Equal(t, "new", summaries[0].LastMessage.Content)

	assert.Equal(t, f.Order.ID, summaries[1].OrderID)
	assert.EqualValues(t, 1, summaries[1].UnreadCount)
}
