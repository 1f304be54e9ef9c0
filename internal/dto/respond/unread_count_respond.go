package respond

// UnreadCountRespond 未读数量
type UnreadCountRespond struct {
	Count int64 `json:"count"`
}
