package evaluator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecide(t *testing.T) {
	for _, active := range []bool{true, false} {
		for _, slot := range []bool{true, false} {
			assert.Equal(t, Allowed, Decide(Content{IsPremium: false}, active, slot))
		}
	}
	assert.Equal(t, Allowed, Decide(Content{IsPremium: true}, true, true))
	assert.Equal(t, Allowed, Decide(Content{IsPremium: true}, true, false))
	assert.Equal(t, AllowedAsFreeTrial, Decide(Content{IsPremium: true}, false, true))
	assert.Equal(t, Denied, Decide(Content{IsPremium: true}, false, false))
}

func TestFreeTrialIndex(t *testing.T) {
	assert.Equal(t, -1, FreeTrialIndex(nil))
	assert.Equal(t, -1, FreeTrialIndex([]Content{{}, {}}))
	assert.Equal(t, 1, FreeTrialIndex([]Content{{}, {IsPremium: true}, {IsPremium: true}}))

	assert.False(t, CatalogPosition{Index: 0, FreeTrialIndex: -1}.IsFreeTrialSlot())
	assert.True(t, CatalogPosition{Index: 1, FreeTrialIndex: 1}.IsFreeTrialSlot())
	assert.False(t, CatalogPosition{Index: 2, FreeTrialIndex: 1}.IsFreeTrialSlot())
}

func TestVerdictText(t *testing.T) {
	b, err := json.Marshal(map[string]Verdict{"v": AllowedAsFreeTrial})
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":"allowed_as_free_trial"}`, string(b))

	var v Verdict
	require.NoError(t, v.UnmarshalText([]byte("allowed")))
	assert.Equal(t, Allowed, v)
	assert.Error(t, v.UnmarshalText([]byte("maybe")))

	var zero Verdict
	assert.Equal(t, Denied, zero)
	assert.False(t, zero.CanAccess())
}
