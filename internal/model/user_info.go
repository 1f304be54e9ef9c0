// Package model 定义数据库实体模型
// 本文件定义用户信息模型，包含用户基本资料和认证信息
package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserInfo 用户信息模型
// 对应数据库 user_info 表
type UserInfo struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Email 登录邮箱
	Email string `gorm:"column:email;type:varchar(100);uniqueIndex;not null;comment:邮箱" json:"email"`

	// Name 显示名称
	Name string `gorm:"column:name;type:varchar(50);comment:名称" json:"name"`

	// Password bcrypt 哈希后的密码
	Password string `gorm:"column:password;type:varchar(100);not null;comment:密码" json:"-"`

	// IsAdmin 店铺管理员
	IsAdmin bool `gorm:"column:is_admin;not null;default:false;comment:是否管理员" json:"isAdmin"`

	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`

	// RawPassword 明文密码（不入库），在 BeforeSave 中加密
	RawPassword string `gorm:"-" json:"-"`
}

// TableName 指定表名
func (UserInfo) TableName() string {
	return "user_info"
}

// BeforeSave GORM Hook：创建和更新前把 RawPassword 加密写入 Password
func (u *UserInfo) BeforeSave(tx *gorm.DB) (err error) {
	if u.RawPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.RawPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.Password = string(hash)
		u.RawPassword = ""
	}
	return nil
}

// CheckPassword 校验登录密码
func (u *UserInfo) CheckPassword(plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plaintext)) == nil
}
