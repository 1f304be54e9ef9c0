package respond

// PollConfigRespond 客户端轮询兜底配置
type PollConfigRespond struct {
	PollIntervalSeconds int `json:"pollIntervalSeconds"`
}
