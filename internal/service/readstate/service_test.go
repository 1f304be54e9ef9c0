package readstate

import (
	"context"
	"testing"

	"gemstore_server/internal/dao/db/dbtest"
	"gemstore_server/internal/dao/db/repository"
	"gemstore_server/internal/model"
	"gemstore_server/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedThread(t *testing.T, repos *repository.Repositories, f *dbtest.Fixture) []*model.Message {
	t.Helper()
	var out []*model.Message
	for _, fromAdmin := range []bool{false, true, false, true, true} {
		msg := &model.Message{
			Subject: "Order #GS-1001", Content: "c", UserID: f.Customer.ID,
			OrderID: dbtest.UintPtr(f.Order.ID), IsFromAdmin: fromAdmin,
		}
		require.NoError(t, repos.Message.Create(context.Background(), msg))
		out = append(out, msg)
	}
	// 另一张订单上的店员消息不应受影响
	other := &model.Message{Subject: "s", Content: "c", UserID: f.Other.ID, OrderID: dbtest.UintPtr(f.OtherOrder.ID), IsFromAdmin: true}
	require.NoError(t, repos.Message.Create(context.Background(), other))
	return append(out, other)
}

func TestCustomerBulkReadClearsOnlyStaffMessages(t *testing.T) {
	gdb, repos := dbtest.NewRepos(t)
	f := dbtest.Seed(t, gdb)
	svc := NewReadStateService(repos)
	ctx := context.Background()
	seedThread(t, repos, f)

	n, err := svc.MarkOrderMessagesAsRead(ctx, f.Order.ID, model.PartyCustomer)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	thread, err := repos.Message.FindByOrderID(ctx, f.Order.ID)
	require.NoError(t, err)
	for _, m := range thread {
		if m.IsFromAdmin {
			assert.True(t, m.IsRead, "staff message %d should be read", m.ID)
		} else {
			assert.False(t, m.IsRead, "customer message %d must not change", m.ID)
		}
	}

	other, err := repos.Message.FindByOrderID(ctx, f.OtherOrder.ID)
	require.NoError(t, err)
	assert.False(t, other[0].IsRead)
}

func TestStaffBulkReadClearsOnlyCustomerMessages(t *testing.T) {
	gdb, repos := dbtest.NewRepos(t)
	f := dbtest.Seed(t, gdb)
	svc := NewReadStateService(repos)
	ctx := context.Background()
	seedThread(t, repos, f)

	n, err := svc.MarkOrderMessagesAsRead(ctx, f.Order.ID, model.PartyStaff)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	thread, err := repos.Message.FindByOrderID(ctx, f.Order.ID)
	require.NoError(t, err)
	for _, m := range thread {
		assert.Equal(t, !m.IsFromAdmin, m.IsRead)
	}

	// 重复执行是安全的
	n, err = svc.MarkOrderMessagesAsRead(ctx, f.Order.ID, model.PartyStaff)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMarkMessageAsReadIsIdempotent(t *testing.T) {
	gdb, repos := dbtest.NewRepos(t)
	f := dbtest.Seed(t, gdb)
	svc := NewReadStateService(repos)
	ctx := context.Background()
	msgs := seedThread(t, repos, f)

	first, err := svc.MarkMessageAsRead(ctx, msgs[1].ID)
	require.NoError(t, err)
	assert.True(t, first.IsRead)

	second, err := svc.MarkMessageAsRead(ctx, msgs[1].ID)
	require.NoError(t, err)
	assert.True(t, second.IsRead)

	stored, err := repos.Message.FindByID(ctx, msgs[1].ID)
	require.NoError(t, err)
	assert.True(t, stored.IsRead)
	assert.True(t, stored.IsFromAdmin, "author flag never changes")
}

func TestMarkMissingMessageIsNotFound(t *testing.T) {
	_, repos := dbtest.NewRepos(t)
	_, err := NewReadStateService(repos).MarkMessageAsRead(context.Background(), 77)
	require.Error(t, err)
	assert.True(t, errorx.IsNotFound(err))
}

func TestCanMark(t *testing.T) {
	staffMsg := &model.Message{IsFromAdmin: true}
	customerMsg := &model.Message{IsFromAdmin: false}

	assert.True(t, CanMark(model.PartyCustomer, staffMsg))
	assert.False(t, CanMark(model.PartyCustomer, customerMsg))
	assert.True(t, CanMark(model.PartyStaff, customerMsg))
	assert.False(t, CanMark(model.PartyStaff, staffMsg))
}
