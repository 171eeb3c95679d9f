package domain

// Waypoint is one stop on a courier route with its arrival window.
type Waypoint struct {
	Location Coordinate
	Window   TimeWindow
}

// CourierRoute is the sequence of locations and time windows a courier is
// willing to travel through. It is owned and refreshed by the courier and is
// a read-only input to matching.
type CourierRoute struct {
	ID                string
	CourierID         string
	Waypoints         []Waypoint
	CapacityRemaining int
}
