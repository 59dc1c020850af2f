package model

// Decision is the parsed payload of an approval callback.
// It is one of Approve, Deny or Invalid.
type Decision interface {
	decision()
}

// Approve marks a pending signal as approved
type Approve struct {
	ID string
}

// Deny rejects a pending signal and removes it
type Deny struct {
	ID string
}

// Invalid carries a payload that could not be parsed
type Invalid struct {
	Raw string
}

func (Approve) decision() {}
func (Deny) decision()    {}
func (Invalid) decision() {}

// Callback actions carried in the inline button payload as ACTION:id
const (
	ActionApprove = "APPROVE"
	ActionDeny    = "DENY"
)
