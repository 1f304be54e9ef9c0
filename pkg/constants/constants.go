package constants

const (
	CHANNEL_SIZE               = 100     // 通道大小
	FILE_MAX_SIZE              = 5 << 20 // 图片最大大小（5MB）
	REDIS_TIMEOUT              = 10      // redis timeout (分钟)
	REFRESH_TOKEN_EXPIRY_HOURS = 168     // Refresh Token 有效期（小时），168小时 = 7天
	DEFAULT_POLL_INTERVAL_SEC  = 5       // 客户端轮询兜底间隔（秒）
	WS_WRITE_WAIT_SEC          = 10      // WebSocket 单次写超时（秒）
)
