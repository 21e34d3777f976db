package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/show-ticket-office/internal/model"
)

func ptr(v uint64) *uint64 { return &v }

func TestDecideToggle(t *testing.T) {
	alice := uint64(1)
	bob := uint64(2)

	cases := []struct {
		name    string
		status  string
		holder  *uint64
		user    uint64
		outcome ToggleOutcome
		action  toggleAction
	}{
		{"available seat is acquired", model.SeatAvailable, nil, alice, ToggleHeld, actionAcquire},
		{"own hold is released", model.SeatHeld, ptr(alice), alice, ToggleReleased, actionRelease},
		{"foreign hold is refused", model.SeatHeld, ptr(alice), bob, ToggleHeldByOther, actionNone},
		{"sold seat stays sold", model.SeatSold, ptr(alice), alice, ToggleSold, actionNone},
		{"sold seat refuses other buyers too", model.SeatSold, ptr(alice), bob, ToggleSold, actionNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			outcome, action := decideToggle(tc.status, tc.holder, tc.user)
			assert.Equal(t, tc.outcome, outcome)
			assert.Equal(t, tc.action, action)
		})
	}
}

// Two buyers interleave on the same seat: the first toggle wins the
// hold, the second is refused, the first releases, and now the second
// buyer can acquire it.
func TestDecideToggleHandoff(t *testing.T) {
	alice := uint64(1)
	bob := uint64(2)

	outcome, action := decideToggle(model.SeatAvailable, nil, alice)
	assert.Equal(t, ToggleHeld, outcome)
	assert.Equal(t, actionAcquire, action)

	outcome, _ = decideToggle(model.SeatHeld, ptr(alice), bob)
	assert.Equal(t, ToggleHeldByOther, outcome)

	outcome, action = decideToggle(model.SeatHeld, ptr(alice), alice)
	assert.Equal(t, ToggleReleased, outcome)
	assert.Equal(t, actionRelease, action)

	outcome, action = decideToggle(model.SeatAvailable, nil, bob)
	assert.Equal(t, ToggleHeld, outcome)
	assert.Equal(t, actionAcquire, action)
}
