package model

import (
	"strings"
	"time"
)

// Side is the direction of a signal
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// ParseSide returns the side for s, ignoring case and surrounding whitespace
func ParseSide(s string) (Side, bool) {
	switch Side(strings.ToLower(strings.TrimSpace(s))) {
	case SideBuy:
		return SideBuy, true
	case SideSell:
		return SideSell, true
	}
	return "", false
}

// OrderType is the execution style requested by the producer
type OrderType string

const (
	OrderMarket    OrderType = "market"
	OrderBuyLimit  OrderType = "buy_limit"
	OrderBuyStop   OrderType = "buy_stop"
	OrderSellLimit OrderType = "sell_limit"
	OrderSellStop  OrderType = "sell_stop"
)

// OrderTypes lists every order type the terminal understands
var OrderTypes = []OrderType{OrderMarket, OrderBuyLimit, OrderBuyStop, OrderSellLimit, OrderSellStop}

// Status is the approval state of a signal
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
)

// IsTerminal reports whether no further transition is allowed from s
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusDenied
}

// Submission holds validated ingestion fields
type Submission struct {
	Symbol    string
	Side      Side
	OrderType OrderType
	Timeframe string
	Strategy  string
	Price     *float64
	Meta      string
}

// Signal represents one trading instruction candidate
type Signal struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"ts"`
	Symbol    string    `json:"symbol"`
	Side      Side      `json:"side"`
	OrderType OrderType `json:"ordertype"`
	Timeframe string    `json:"timeframe"`
	Strategy  string    `json:"strategy"`
	Price     *float64  `json:"price"`
	Meta      string    `json:"meta"`
	Status    Status    `json:"status"`
}

// Clone returns a copy that shares no memory with s
func (s Signal) Clone() Signal {
	if s.Price != nil {
		p := *s.Price
		s.Price = &p
	}
	return s
}
