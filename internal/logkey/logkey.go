// Package logkey はslogの属性名をそろえる。
package logkey

const (
	RequestID = "request_id"
	UserID    = "user_id"
	OrderID   = "order_id"
	ProductID = "product_id"
	Status    = "status"
	Error     = "error"
)
