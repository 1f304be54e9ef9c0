package respond

// MarkReadRespond 批量已读结果
type MarkReadRespond struct {
	OrderID uint  `json:"orderId"`
	Count   int64 `json:"count"`
}
