package api

import (
	"math"
	"strconv"
	"strings"

	"github.com/jmatosr02/tv-mt4-bridge/internal/model"
)

// RawSubmission holds ingestion fields as received
type RawSubmission struct {
	Symbol    string
	Side      string
	OrderType string
	Timeframe string
	Strategy  string
	Price     string
	Meta      string
}

// Validator handles validation logic separate from HTTP concerns
type Validator struct {
	supportedOrderTypes map[model.OrderType]bool
	strictOrderTypes    bool
}

// NewValidator creates a validator. With strictOrderTypes the order type must
// be one the terminal understands; otherwise any non-empty value passes.
func NewValidator(strictOrderTypes bool) *Validator {
	supported := make(map[model.OrderType]bool, len(model.OrderTypes))
	for _, ot := range model.OrderTypes {
		supported[ot] = true
	}
	return &Validator{
		supportedOrderTypes: supported,
		strictOrderTypes:    strictOrderTypes,
	}
}

// ValidateSubmission validates and sanitizes a webhook submission
func (v *Validator) ValidateSubmission(raw RawSubmission) (model.Submission, error) {
	symbol := v.sanitizeInput(raw.Symbol)
	if symbol == "" {
		return model.Submission{}, model.NewValidationError("symbol", "symbol is required")
	}

	side, ok := model.ParseSide(v.sanitizeInput(raw.Side))
	if !ok {
		return model.Submission{}, model.NewValidationError("side", "side must be buy or sell")
	}

	orderType, err := v.validateOrderType(raw.OrderType)
	if err != nil {
		return model.Submission{}, err
	}

	sub := model.Submission{
		Symbol:    symbol,
		Side:      side,
		OrderType: orderType,
		Timeframe: v.sanitizeInput(raw.Timeframe),
		Strategy:  v.sanitizeInput(raw.Strategy),
		Meta:      v.sanitizeInput(raw.Meta),
	}

	// Market orders fill at the current price; a supplied price is dropped.
	if orderType == model.OrderMarket {
		return sub, nil
	}

	price, err := v.validatePrice(raw.Price)
	if err != nil {
		return model.Submission{}, err
	}
	sub.Price = &price
	return sub, nil
}

// sanitizeInput removes potentially dangerous characters and trims whitespace
func (v *Validator) sanitizeInput(input string) string {
	// Trim whitespace
	input = strings.TrimSpace(input)

	// Remove null bytes and control characters
	input = strings.ReplaceAll(input, "\x00", "")
	input = strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 { // Keep tab, LF, CR
			return -1
		}
		return r
	}, input)

	// Limit length to prevent DoS
	if len(input) > 100 {
		input = input[:100]
	}

	return strings.TrimSpace(input)
}

func (v *Validator) validateOrderType(raw string) (model.OrderType, error) {
	orderType := model.OrderType(strings.ToLower(v.sanitizeInput(raw)))
	if orderType == "" {
		return "", model.NewValidationError("ordertype", "ordertype is required")
	}
	if v.strictOrderTypes && !v.supportedOrderTypes[orderType] {
		return "", model.NewValidationError("ordertype",
			"ordertype must be one of market, buy_limit, buy_stop, sell_limit, sell_stop")
	}
	return orderType, nil
}

func (v *Validator) validatePrice(raw string) (float64, error) {
	priceStr := v.sanitizeInput(raw)
	if priceStr == "" {
		return 0, model.NewValidationError("price", "price is required for pending orders")
	}

	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, model.NewValidationError("price", "price must be a finite number")
	}
	return price, nil
}
