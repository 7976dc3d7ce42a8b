package orders

import (
	"encoding/json"
	"fmt"
)

// Payload is the per-type order data. Each order type carries exactly one
// payload shape, resolved at creation time.
type Payload interface {
	payloadType() Type
}

// TopupPayload carries the Syriatel Cash operation number the user paid with.
type TopupPayload struct {
	OperationNo string `json:"operation_no"`
}

// WithdrawPayload carries the Syriatel Cash number receiving the payout.
type WithdrawPayload struct {
	ReceiverNo string `json:"receiver_no"`
}

// EishPayload names the linked platform account a topup/withdraw targets.
type EishPayload struct {
	Username string `json:"username"`
}

// EishCreatePayload is empty: approval assigns credentials from the pool.
type EishCreatePayload struct{}

func (TopupPayload) payloadType() Type      { return TypeBotTopup }
func (WithdrawPayload) payloadType() Type   { return TypeBotWithdraw }
func (EishPayload) payloadType() Type       { return TypeEishTopup }
func (EishCreatePayload) payloadType() Type { return TypeEishCreate }

func MarshalPayload(p Payload) ([]byte, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p)
}

// UnmarshalPayload picks the payload shape from the order type.
func UnmarshalPayload(t Type, raw []byte) (Payload, error) {
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	switch t {
	case TypeBotTopup:
		var p TopupPayload
		err := json.Unmarshal(raw, &p)
		return p, err
	case TypeBotWithdraw:
		var p WithdrawPayload
		err := json.Unmarshal(raw, &p)
		return p, err
	case TypeEishTopup, TypeEishWithdraw:
		var p EishPayload
		err := json.Unmarshal(raw, &p)
		return p, err
	case TypeEishCreate:
		return EishCreatePayload{}, nil
	}
	return nil, fmt.Errorf("unknown order type %q", t)
}
