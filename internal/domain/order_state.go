package domain

import "errors"

type OrderState string

// remember to add new states to the validOrderStates map
const (
	OrderStatePending    OrderState = "pending"
	OrderStateInProgress OrderState = "in_progress"
	OrderStateCompleted  OrderState = "completed"
	OrderStateCancelled  OrderState = "cancelled"
)

var validOrderStates = map[OrderState]struct{}{
	OrderStatePending:    {},
	OrderStateInProgress: {},
	OrderStateCompleted:  {},
	OrderStateCancelled:  {},
}

var orderTransitions = map[OrderState]map[OrderState]struct{}{
	OrderStatePending: {
		OrderStateInProgress: {},
		OrderStateCancelled:  {},
	},
	OrderStateInProgress: {
		OrderStateCompleted: {},
	},
	OrderStateCompleted: {},
	OrderStateCancelled: {},
}

func ToOrderState(s string) (OrderState, error) {
	state := OrderState(s)
	if _, ok := validOrderStates[state]; ok {
		return state, nil
	}

	return "", errors.New("invalid order state")
}

func OrderStates() []OrderState {
	result := make([]OrderState, 0, len(validOrderStates))
	for state := range validOrderStates {
		result = append(result, state)
	}
	return result
}

func (s OrderState) CanTransitionTo(to OrderState) bool {
	_, ok := orderTransitions[s][to]
	return ok
}

func (s OrderState) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// Transition checks that the order may move to the given state.
func (o Order) Transition(to OrderState) error {
	if !o.State.CanTransitionTo(to) {
		return &TransitionError{OrderID: o.ID, From: o.State, To: to}
	}
	return nil
}
