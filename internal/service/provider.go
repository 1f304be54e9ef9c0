// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"gemstore_server/internal/config"
	"gemstore_server/internal/dao/db/repository"
	myredis "gemstore_server/internal/dao/redis"
	"gemstore_server/internal/service/auth"
	"gemstore_server/internal/service/chat"
	"gemstore_server/internal/service/conversation"
	"gemstore_server/internal/service/image"
	"gemstore_server/internal/service/message"
	"gemstore_server/internal/service/messaging"
	"gemstore_server/internal/service/readstate"
)

// Services 聚合所有 Service 实例
// 作为依赖注入的入口，Handler 层通过此结构访问各个 Service
type Services struct {
	Messaging MessagingService
	Auth      AuthService
	Image     ImageService

	// Core 供 WebSocket 网关直接使用
	Core *messaging.Service
}

// Deps 构建 Services 所需的外部依赖
type Deps struct {
	Repos  *repository.Repositories
	Cache  myredis.CacheService // 可为 nil
	Broker chat.Broker
	Images image.Storage
	Config config.MessagingConfig
}

// NewServices 创建并注入所有 Service 实例
// 依赖注入流程：
//  1. 存储、已读、汇总三个底层服务共享 Repository
//  2. 网关核心组合底层服务与推送代理
//  3. 认证与图片服务独立创建
func NewServices(d Deps) *Services {
	store := message.NewMessageService(d.Repos, d.Config)
	reads := readstate.NewReadStateService(d.Repos)
	conversations := conversation.NewConversationService(d.Repos)
	core := messaging.NewMessagingService(d.Repos.Order, store, reads, conversations, d.Broker)

	return &Services{
		Messaging: core,
		Auth:      auth.NewAuthService(d.Repos, d.Cache),
		Image:     image.NewImageService(d.Images),
		Core:      core,
	}
}
