package api

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// looseString accepts a JSON string, number or boolean and keeps its text.
// Webhook templates are inconsistent about quoting values such as price.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = looseString(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*s = looseString(num.String())
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err != nil {
		return err
	}
	*s = looseString(strconv.FormatBool(b))
	return nil
}

// ingestRequest is the webhook body posted to /tv
type ingestRequest struct {
	Secret    looseString `json:"secret"`
	Symbol    looseString `json:"symbol"`
	Side      looseString `json:"side"`
	OrderType looseString `json:"ordertype"`
	Timeframe looseString `json:"timeframe"`
	Strategy  looseString `json:"strategy"`
	Price     looseString `json:"price"`
	Meta      looseString `json:"meta"`
}

func (r ingestRequest) raw() RawSubmission {
	return RawSubmission{
		Symbol:    string(r.Symbol),
		Side:      string(r.Side),
		OrderType: string(r.OrderType),
		Timeframe: string(r.Timeframe),
		Strategy:  string(r.Strategy),
		Price:     string(r.Price),
		Meta:      string(r.Meta),
	}
}

// popRequest is the body posted to /pop
type popRequest struct {
	Secret looseString `json:"secret"`
	ID     looseString `json:"id"`
}

// tradeEventRequest is the body posted to /trade_event
type tradeEventRequest struct {
	Secret looseString `json:"secret"`
	Event  looseString `json:"event"`
	Symbol looseString `json:"symbol"`
	Side   looseString `json:"side"`
	Lot    looseString `json:"lot"`
	Ticket looseString `json:"ticket"`
	Price  looseString `json:"price"`
	SL     looseString `json:"sl"`
	TP     looseString `json:"tp"`
	Profit looseString `json:"profit"`
	Reason looseString `json:"reason"`
}
