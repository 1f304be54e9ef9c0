// Package dbtest 为各层测试提供迁移好的 SQLite 内存库
package dbtest

import (
	"testing"
	"time"

	"gemstore_server/internal/config"
	"gemstore_server/internal/dao/db"
	"gemstore_server/internal/dao/db/repository"
	"gemstore_server/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// New 打开并迁移一个 SQLite 内存库
func New(t testing.TB) *gorm.DB {
	t.Helper()
	gdb, err := db.Open(&config.DatabaseConfig{Driver: "sqlite", DatabaseName: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

// NewRepos 返回基于内存库的 Repository 聚合
func NewRepos(t testing.TB) (*gorm.DB, *repository.Repositories) {
	gdb := New(t)
	return gdb, repository.NewRepositories(gdb)
}

// Fixture 常用测试数据：一个管理员、两个顾客、各自一张订单
type Fixture struct {
	Admin      model.UserInfo
	Customer   model.UserInfo
	Other      model.UserInfo
	Order      model.Order
	OtherOrder model.Order
}

// Seed 写入 Fixture 数据
// 顾客 Customer 拥有 Order，顾客 Other 拥有 OtherOrder
func Seed(t testing.TB, gdb *gorm.DB) *Fixture {
	t.Helper()
	f := &Fixture{
		Admin:    model.UserInfo{Email: "admin@gemstore.test", Name: "Admin", RawPassword: "admin-pass", IsAdmin: true},
		Customer: model.UserInfo{Email: "customer@gemstore.test", Name: "Customer", RawPassword: "customer-pass"},
		Other:    model.UserInfo{Email: "other@gemstore.test", Name: "Other", RawPassword: "other-pass"},
	}
	require.NoError(t, gdb.Create(&f.Admin).Error)
	require.NoError(t, gdb.Create(&f.Customer).Error)
	require.NoError(t, gdb.Create(&f.Other).Error)

	f.Order = model.Order{OrderNumber: "GS-1001", UserID: f.Customer.ID, CreatedAt: time.Now().Add(-48 * time.Hour)}
	f.OtherOrder = model.Order{OrderNumber: "GS-1002", UserID: f.Other.ID, CreatedAt: time.Now().Add(-24 * time.Hour)}
	require.NoError(t, gdb.Create(&f.Order).Error)
	require.NoError(t, gdb.Create(&f.OtherOrder).Error)
	return f
}

// UintPtr 取地址辅助
func UintPtr(v uint) *uint {
	return &v
}
