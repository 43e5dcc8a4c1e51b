package machine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStateMachine(t *testing.T) {
	type TestState string

	const (
		StateQueued   TestState = "Queued"
		StateActive   TestState = "Active"
		StateStopped  TestState = "Stopped"
		StateFinished TestState = "Finished"
	)

	t.Run("valid transition", func(t *testing.T) {
		machine := New[TestState](StateQueued,
			From(StateQueued).To(StateActive),
			From(StateActive).To(StateFinished, StateStopped),
		)

		err := machine.ToState(StateActive)
		assert.Equal(t, machine.fromState, StateQueued)
		assert.Nil(t, err)
		assert.True(t, machine.Can(StateActive))
	})

	t.Run("invalid transition", func(t *testing.T) {
		machine := New[TestState](StateActive,
			From(StateQueued).To(StateActive),
			From(StateActive).To(StateFinished, StateStopped),
		)

		err := machine.ToState(StateQueued)
		assert.Equal(t, machine.fromState, StateActive)
		assert.True(t, errors.Is(err, ErrInvalidTransition))
		assert.False(t, machine.Can(StateQueued))
	})

	t.Run("self transition is invalid", func(t *testing.T) {
		machine := New[TestState](StateActive,
			From(StateActive).To(StateFinished, StateStopped),
		)

		err := machine.ToState(StateActive)
		assert.True(t, errors.Is(err, ErrInvalidTransition))
	})
}
