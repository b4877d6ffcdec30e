package gmail

import "fmt"

// DeliveryError represents a failure during message delivery.
type DeliveryError struct {
	Op  string
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("gmail: %s: %v", e.Op, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Mode selects the delivery path.
type Mode string

const (
	// ModeSend submits the message for immediate delivery.
	ModeSend Mode = "send"
	// ModeDraft stores the message as a draft instead of sending it.
	ModeDraft Mode = "draft"
)

// Label is a Gmail label as returned by the provider.
type Label struct {
	ID   string
	Name string
	Type string
}
