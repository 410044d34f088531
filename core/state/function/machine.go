package function

import (
	"encoding/json"
	"fmt"

	"github.com/eagraf/fnconsole/internal/jsonstate"
)

// Machine holds one function record and applies transitions to it.
type Machine struct {
	state *jsonstate.JSONState
}

func NewMachine(init *State) (*Machine, error) {
	if init.Tags == nil {
		init.Tags = make([]string, 0)
	}
	raw, err := json.Marshal(init)
	if err != nil {
		return nil, err
	}
	state, err := jsonstate.NewJSONState(Schema(), raw)
	if err != nil {
		return nil, fmt.Errorf("invalid function record %s: %w", init.FunctionName, err)
	}
	return &Machine{
		state: state,
	}, nil
}

func (m *Machine) State() (*State, error) {
	var s State
	err := m.state.Unmarshal(&s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *Machine) Bytes() []byte {
	return m.state.Bytes()
}

// ProposeTransition validates t against the current record and applies its patch.
// The record is left untouched if any step fails.
func (m *Machine) ProposeTransition(t Transition) (*State, error) {
	oldState := m.state.Bytes()

	err := t.Validate(oldState)
	if err != nil {
		return nil, fmt.Errorf("transition %s validation failed: %w", t.Type(), err)
	}

	patch, err := t.Patch(oldState)
	if err != nil {
		return nil, err
	}

	err = m.state.ApplyPatch(patch)
	if err != nil {
		return nil, fmt.Errorf("transition %s could not be applied: %w", t.Type(), err)
	}
	return m.State()
}
