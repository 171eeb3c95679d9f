package domain

type (
	// RequestStatus represents the status of a delivery request.
	RequestStatus string
	// DeliveryState represents the state of a delivery.
	DeliveryState string
)

// List of possible delivery request statuses
const (
	RequestOpen       RequestStatus = "OPEN"
	RequestClaimed    RequestStatus = "CLAIMED"
	RequestInProgress RequestStatus = "IN_PROGRESS"
	RequestCancelled  RequestStatus = "CANCELLED"
	RequestFulfilled  RequestStatus = "FULFILLED"
	RequestExpired    RequestStatus = "EXPIRED"
)

// List of possible delivery states
const (
	StateAssigned  DeliveryState = "ASSIGNED"
	StatePickedUp  DeliveryState = "PICKED_UP"
	StateInTransit DeliveryState = "IN_TRANSIT"
	StateDelivered DeliveryState = "DELIVERED"
	StateCancelled DeliveryState = "CANCELLED"
	StateReturned  DeliveryState = "RETURNED"
)

var allowedRequestStatuses = [...]RequestStatus{
	RequestOpen, RequestClaimed, RequestInProgress,
	RequestCancelled, RequestFulfilled, RequestExpired,
}

var allowedDeliveryStates = [...]DeliveryState{
	StateAssigned, StatePickedUp, StateInTransit,
	StateDelivered, StateCancelled, StateReturned,
}

// Valid checks if the RequestStatus is valid
func (s RequestStatus) Valid() bool {
	for _, v := range allowedRequestStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Valid checks if the DeliveryState is valid
func (s DeliveryState) Valid() bool {
	for _, v := range allowedDeliveryStates {
		if s == v {
			return true
		}
	}
	return false
}

// allowedTransitions is the closed transition table of the delivery state
// machine. States absent from a row's value set are unreachable from it.
var allowedTransitions = map[DeliveryState][]DeliveryState{
	StateAssigned:  {StatePickedUp, StateCancelled},
	StatePickedUp:  {StateInTransit, StateCancelled},
	StateInTransit: {StateDelivered, StateCancelled, StateReturned},
	StateDelivered: {},
	StateCancelled: {},
	StateReturned:  {},
}

// Terminal reports whether no transitions leave the state.
func (s DeliveryState) Terminal() bool {
	return len(allowedTransitions[s]) == 0 && s.Valid()
}

// CanTransition reports whether the state machine permits from -> to.
func (s DeliveryState) CanTransition(to DeliveryState) bool {
	for _, v := range allowedTransitions[s] {
		if v == to {
			return true
		}
	}
	return false
}
