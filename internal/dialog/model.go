package dialog

// State is the persisted position of one chat inside a multi-step flow.
type State string

const (
	StateIdle State = "idle"

	// Bot balance topup
	StateTopupOp     State = "topup_op"     // awaiting Syriatel operation number
	StateTopupAmount State = "topup_amount" // awaiting amount

	// Bot balance withdraw
	StateWithdrawReceiver State = "withdraw_receiver" // awaiting receiving Syriatel number
	StateWithdrawAmount   State = "withdraw_amount"

	// Eish platform account
	StateEishTopupAmount    State = "eish_topup_amount"
	StateEishWithdrawAmount State = "eish_withdraw_amount"

	// Admin: pool entry creation
	StateAdmPoolUser State = "adm_pool_user"
	StateAdmPoolPass State = "adm_pool_pass"

	// Admin: role management
	StateAdmGrantID  State = "adm_grant_id"
	StateAdmRevokeID State = "adm_revoke_id"

	// Admin: ban/unban
	StateAdmBanID     State = "adm_ban_id"
	StateAdmBanReason State = "adm_ban_reason"
	StateAdmUnbanID   State = "adm_unban_id"

	// Admin: direct wallet adjustment
	StateAdmAdjustID    State = "adm_adjust_id"
	StateAdmAdjustDelta State = "adm_adjust_delta"

	// Admin: Syriatel codes
	StateAdmCodeAdd State = "adm_code_add"

	// Admin: maintenance message
	StateAdmMntMessage State = "adm_mnt_message"
)

type Payload map[string]any

type Item struct {
	ChatID  int64
	State   State
	Payload Payload
}

// GetString reads a string value out of a payload.
func GetString(p Payload, key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetInt64 reads an int64 out of a payload, tolerating the float64 that
// encoding/json round-trips numbers through.
func GetInt64(p Payload, key string) (int64, bool) {
	switch v := p[key].(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	case int:
		return int64(v), true
	}
	return 0, false
}
