package chart

import (
	"fmt"

	"hermannm.dev/enumnames"
)

// State is a step of a single chart render. Every render starts in StateAwaitingQuery and ends in
// one of the terminal states.
type State uint8

const (
	StateAwaitingQuery State = iota + 1
	StateHasData
	StateNoData
	StateRendered
	StateRenderError
)

var stateNames = enumnames.NewMap(map[State]string{
	StateAwaitingQuery: "AWAITING_QUERY",
	StateHasData:       "HAS_DATA",
	StateNoData:        "NO_DATA",
	StateRendered:      "RENDERED",
	StateRenderError:   "RENDER_ERROR",
})

var stateTransitions = map[State][]State{
	// RENDER_ERROR directly from AWAITING_QUERY covers invalid configs and failed queries.
	StateAwaitingQuery: {StateHasData, StateNoData, StateRenderError},
	StateHasData:       {StateRendered, StateRenderError},
}

func (state State) IsValid() bool {
	return stateNames.ContainsEnumValue(state)
}

func (state State) String() string {
	return stateNames.GetNameOrFallback(state, "INVALID_STATE")
}

func (state State) MarshalJSON() ([]byte, error) {
	return stateNames.MarshalToNameJSON(state)
}

func (state *State) UnmarshalJSON(bytes []byte) error {
	return stateNames.UnmarshalFromNameJSON(bytes, state)
}

func (state State) IsTerminal() bool {
	return state.IsValid() && len(stateTransitions[state]) == 0
}

func (state State) CanTransitionTo(next State) bool {
	for _, allowed := range stateTransitions[state] {
		if allowed == next {
			return true
		}
	}
	return false
}

// advance moves to the next state. An illegal transition is a bug in the render flow, so it
// panics and is caught by the render boundary.
func (state *State) advance(next State) {
	if !state.CanTransitionTo(next) {
		panic(fmt.Sprintf("illegal chart render transition from %s to %s", *state, next))
	}
	*state = next
}
