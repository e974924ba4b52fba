package types

type OrderSide string

type OrderState string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

const (
	OrderStateActive   OrderState = "active"
	OrderStateFinished OrderState = "finished"
)

func (s OrderSide) Valid() bool {
	return s == OrderSideBuy || s == OrderSideSell
}

func (s OrderState) Valid() bool {
	return s == OrderStateActive || s == OrderStateFinished
}
