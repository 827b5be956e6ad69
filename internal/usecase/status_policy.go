package usecase

import "storefront/internal/domain/model"

// StatusPolicy は管理者のステータス変更を許すかどうかを決める。
type StatusPolicy interface {
	Allow(from, to model.OrderStatus) bool
}

// 空でなければ何でも通す。既定。
type OpenStatusPolicy struct{}

func (OpenStatusPolicy) Allow(_, to model.OrderStatus) bool {
	return to != ""
}

// TransitionTable は遷移表にあるものだけ通す。表にないラベルは拒否。
type TransitionTable map[model.OrderStatus][]model.OrderStatus

func DefaultTransitionTable() TransitionTable {
	return TransitionTable{
		model.OrderStatusPending: {model.OrderStatusPaid, model.OrderStatusShipped, model.OrderStatusCanceled},
		model.OrderStatusPaid:    {model.OrderStatusShipped, model.OrderStatusCanceled},
		model.OrderStatusShipped: {model.OrderStatusDelivered},
		//終端
		model.OrderStatusDelivered: {},
		model.OrderStatusCanceled:  {},
	}
}

func (t TransitionTable) Allow(from, to model.OrderStatus) bool {
	for _, s := range t[from] {
		if s == to {
			return true
		}
	}
	return false
}

// 起動設定からポリシーを選ぶ
func NewStatusPolicy(strict bool) StatusPolicy {
	if strict {
		return DefaultTransitionTable()
	}
	return OpenStatusPolicy{}
}
