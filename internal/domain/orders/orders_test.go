package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserves(t *testing.T) {
	assert.False(t, TypeBotTopup.Reserves())
	assert.False(t, TypeEishTopup.Reserves())
	assert.False(t, TypeEishCreate.Reserves())
	assert.True(t, TypeBotWithdraw.Reserves())
	assert.True(t, TypeEishWithdraw.Reserves())
}

func TestDecisionEffect(t *testing.T) {
	assert.Equal(t, EffectCredit, DecisionEffect(TypeBotTopup, StatusApproved))
	assert.Equal(t, EffectCredit, DecisionEffect(TypeEishTopup, StatusApproved))
	assert.Equal(t, EffectSettle, DecisionEffect(TypeBotWithdraw, StatusApproved))
	assert.Equal(t, EffectSettle, DecisionEffect(TypeEishWithdraw, StatusApproved))
	assert.Equal(t, EffectNone, DecisionEffect(TypeEishCreate, StatusApproved))

	assert.Equal(t, EffectRelease, DecisionEffect(TypeBotWithdraw, StatusRejected))
	assert.Equal(t, EffectRelease, DecisionEffect(TypeEishWithdraw, StatusCanceled))
	assert.Equal(t, EffectNone, DecisionEffect(TypeBotTopup, StatusRejected))
	assert.Equal(t, EffectNone, DecisionEffect(TypeEishCreate, StatusCanceled))
}

func TestPayloadRoundTrip(t *testing.T) {
	raw, err := MarshalPayload(WithdrawPayload{ReceiverNo: "0991112233"})
	require.NoError(t, err)

	p, err := UnmarshalPayload(TypeBotWithdraw, raw)
	require.NoError(t, err)
	wp, ok := p.(WithdrawPayload)
	require.True(t, ok)
	assert.Equal(t, "0991112233", wp.ReceiverNo)
}

func TestUnmarshalPayloadUnknownType(t *testing.T) {
	_, err := UnmarshalPayload(Type("bogus"), []byte(`{}`))
	require.Error(t, err)
}

func TestUnmarshalPayloadEmpty(t *testing.T) {
	p, err := UnmarshalPayload(TypeEishCreate, nil)
	require.NoError(t, err)
	_, ok := p.(EishCreatePayload)
	assert.True(t, ok)
}
