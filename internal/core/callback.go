package core

import (
	"encoding/json"
	"strings"

	"github.com/jmatosr02/tv-mt4-bridge/internal/model"
)

// Callback is an approval button press reduced to what the gateway needs
type Callback struct {
	QueryID string
	ChatID  string
	Data    string
}

type chatRef struct {
	ID json.Number `json:"id"`
}

type callbackQuery struct {
	ID      string  `json:"id"`
	Data    string  `json:"data"`
	From    chatRef `json:"from"`
	Message *struct {
		Chat chatRef `json:"chat"`
	} `json:"message"`
}

type update struct {
	CallbackQuery *callbackQuery `json:"callback_query"`
}

// ParseUpdate extracts a Callback from a bot update body. It returns false for
// updates that carry no callback query, such as plain chat messages.
func ParseUpdate(body []byte) (Callback, bool) {
	var u update
	if err := json.Unmarshal(body, &u); err != nil || u.CallbackQuery == nil {
		return Callback{}, false
	}

	q := u.CallbackQuery
	chatID := q.From.ID.String()
	if q.Message != nil && q.Message.Chat.ID != "" {
		chatID = q.Message.Chat.ID.String()
	}
	return Callback{QueryID: q.ID, ChatID: chatID, Data: q.Data}, true
}

// ParseDecision turns an ACTION:id payload into a Decision
func ParseDecision(raw string) model.Decision {
	action, id, found := strings.Cut(strings.TrimSpace(raw), ":")
	id = strings.TrimSpace(id)
	if !found || id == "" {
		return model.Invalid{Raw: raw}
	}

	switch strings.ToUpper(strings.TrimSpace(action)) {
	case model.ActionApprove:
		return model.Approve{ID: id}
	case model.ActionDeny:
		return model.Deny{ID: id}
	default:
		return model.Invalid{Raw: raw}
	}
}
