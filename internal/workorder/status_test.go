package workorder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitionTable(t *testing.T) {
	testCases := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"reported to assigned", StatusReported, StatusAssigned, true},
		{"reported to cancelled", StatusReported, StatusCancelled, true},
		{"reported straight to completed", StatusReported, StatusCompleted, false},
		{"reported straight to in_progress", StatusReported, StatusInProgress, false},
		{"assigned to in_progress", StatusAssigned, StatusInProgress, true},
		{"assigned to completed", StatusAssigned, StatusCompleted, false},
		{"in_progress to pending_parts", StatusInProgress, StatusPendingParts, true},
		{"in_progress to completed", StatusInProgress, StatusCompleted, true},
		{"pending_parts back to in_progress", StatusPendingParts, StatusInProgress, true},
		{"pending_parts to completed", StatusPendingParts, StatusCompleted, false},
		{"completed is terminal", StatusCompleted, StatusCancelled, false},
		{"cancelled is terminal", StatusCancelled, StatusReported, false},
		{"self transition not allowed", StatusInProgress, StatusInProgress, false},
		{"unknown status has no edges", Status("bogus"), StatusAssigned, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to))
		})
	}
}

func TestEveryStatusCanReachATerminalState(t *testing.T) {
	// Cancellation must be reachable from every non-terminal state.
	for from := range Transitions {
		if IsTerminal(from) {
			continue
		}
		assert.True(t, CanTransition(from, StatusCancelled), "cancel should be allowed from %s", from)
	}
}

func TestAllowedReturnsACopy(t *testing.T) {
	allowed := Allowed(StatusReported)
	assert.ElementsMatch(t, []Status{StatusAssigned, StatusCancelled}, allowed)

	allowed[0] = Status("mutated")
	assert.ElementsMatch(t, []Status{StatusAssigned, StatusCancelled}, Allowed(StatusReported))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(StatusCompleted))
	assert.True(t, IsTerminal(StatusCancelled))
	assert.False(t, IsTerminal(StatusReported))
	assert.False(t, IsTerminal(Status("bogus")))
}

func TestIsActive(t *testing.T) {
	assert.True(t, IsActive(StatusAssigned))
	assert.True(t, IsActive(StatusInProgress))
	assert.True(t, IsActive(StatusPendingParts))
	assert.False(t, IsActive(StatusReported))
	assert.False(t, IsActive(StatusCompleted))
	assert.False(t, IsActive(StatusCancelled))
}

func TestValidEnums(t *testing.T) {
	assert.True(t, Valid(StatusPendingParts))
	assert.False(t, Valid(Status("En cours")))

	assert.True(t, ValidType(TypePreventive))
	assert.False(t, ValidType(Type("curative")))

	assert.True(t, ValidOrigin(OriginScheduled))
	assert.False(t, ValidOrigin(Origin("")))

	assert.True(t, ValidPriority(PriorityCritical))
	assert.False(t, ValidPriority(Priority("urgent")))

	assert.True(t, ValidSeverity(SeverityModerate))
	assert.False(t, ValidSeverity(Severity("")))
}
