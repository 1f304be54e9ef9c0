package repository_test

import (
	"context"
	"testing"
	"time"

	"gemstore_server/internal/dao/db/dbtest"
	"gemstore_server/internal/model"
	"gemstore_server/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageRepositoryOrdering(t *testing.T) {
	gdb, repos := dbtest.NewRepos(t)
	f := dbtest.Seed(t, gdb)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, fromAdmin := range []bool{false, true, false} {
		msg := &model.Message{
			Subject:     "Order #GS-1001",
			Content:     "msg",
			UserID:      f.Customer.ID,
			OrderID:     dbtest.UintPtr(f.Order.ID),
			IsFromAdmin: fromAdmin,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repos.Message.Create(ctx, msg))
	}

	thread, err := repos.Message.FindByOrderID(ctx, f.Order.ID)
	require.NoError(t, err)
	require.Len(t, thread, 3)
	for i := 1; i < len(thread); i++ {
		assert.False(t, thread[i].CreatedAt.Before(thread[i-1].CreatedAt))
	}

	list, err := repos.Message.FindByUserID(ctx, f.Customer.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i := 1; i < len(list); i++ {
		assert.False(t, list[i].CreatedAt.After(list[i-1].CreatedAt))
	}
}

func TestMessageRepositoryMarkReadByOrderOnlyTouchesAuthor(t *testing.T) {
	gdb, repos := dbtest.NewRepos(t)
	f := dbtest.Seed(t, gdb)
	ctx := context.Background()

	for _, fromAdmin := range []bool{false, true, true} {
		require.NoError(t, repos.Message.Create(ctx, &model.Message{
			Subject: "s", Content: "c", UserID: f.Customer.ID,
			OrderID: dbtest.UintPtr(f.Order.ID), IsFromAdmin: fromAdmin,
		}))
	}

	n, err := repos.Message.MarkReadByOrder(ctx, f.Order.ID, model.PartyStaff)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	staffUnread, err := repos.Message.CountUnreadByOrder(ctx, f.Order.ID, model.PartyStaff)
	require.NoError(t, err)
	assert.Zero(t, staffUnread)

	customerUnread, err := repos.Message.CountUnreadByOrder(ctx, f.Order.ID, model.PartyCustomer)
	require.NoError(t, err)
	assert.EqualValues(t, 1, customerUnread)

	// 再次标记不再影响任何行
	n, err = repos.Message.MarkReadByOrder(ctx, f.Order.ID, model.PartyStaff)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMessageRepositoryFindByIDNotFound(t *testing.T) {
	_, repos := dbtest.NewRepos(t)
	_, err := repos.Message.FindByID(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, errorx.IsNotFound(err))
}

func TestMessageRepositoryDistinctOrdersAndLatest(t *testing.T) {
	gdb, repos := dbtest.NewRepos(t)
	f := dbtest.Seed(t, gdb)
	ctx := context.Background()

	now := time.Now()
	msgs := []*model.Message{
		{Subject: "s", Content: "a", UserID: f.Other.ID, OrderID: dbtest.UintPtr(f.OtherOrder.ID), CreatedAt: now.Add(-3 * time.Minute)},
		{Subject: "s", Content: "b", UserID: f.Customer.ID, OrderID: dbtest.UintPtr(f.Order.ID), CreatedAt: now.Add(-2 * time.Minute)},
		{Subject: "s", Content: "c", UserID: f.Customer.ID, OrderID: dbtest.UintPtr(f.Order.ID), CreatedAt: now.Add(-time.Minute)},
		{Subject: "General inquiry", Content: "d", UserID: f.Customer.ID, CreatedAt: now},
	}
	for _, m := range msgs {
		require.NoError(t, repos.Message.Create(ctx, m))
	}

	ids, err := repos.Message.DistinctOrderIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{f.Order.ID, f.OtherOrder.ID}, ids)

	latest, err := repos.Message.LatestByOrder(ctx, f.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, "c", latest.Content)

	all, err := repos.Message.FindAll(ctx, dbtest.UintPtr(f.Customer.ID))
	require.NoError(t, err)
	assert.Len(t, all, 3)

	unread, err := repos.Message.CountUnread(ctx, model.PartyCustomer, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 4, unread)
}
