package domain

import (
	"time"

	"courierflow/internal/types"
)

// Coordinate is a geographic point in decimal degrees.
type Coordinate struct {
	Lat float64
	Lng float64
}

// TimeWindow is an inclusive earliest/latest interval.
type TimeWindow struct {
	Earliest time.Time
	Latest   time.Time
}

// Valid reports whether the window is well-formed.
func (w TimeWindow) Valid() bool {
	return !w.Earliest.IsZero() && !w.Latest.IsZero() && !w.Latest.Before(w.Earliest)
}

// Overlaps reports whether two windows share at least one instant.
func (w TimeWindow) Overlaps(o TimeWindow) bool {
	return !w.Earliest.After(o.Latest) && !o.Earliest.After(w.Latest)
}

// DeliveryRequest is a unit of work a requester wants transported,
// open for claiming by a courier.
type DeliveryRequest struct {
	ID          string
	AuthorID    string
	Pickup      Coordinate
	Dropoff     Coordinate
	Window      TimeWindow
	Price       types.Money
	ServiceType string
	Status      RequestStatus
	// Epoch counts assignment generations: it is bumped every time a
	// cancelled delivery returns the request to the open pool.
	Epoch     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Claimable reports whether the request can still be claimed at the given
// instant. EXPIRED and past-window requests are treated as never open.
func (r *DeliveryRequest) Claimable(now time.Time) bool {
	return r.Status == RequestOpen && now.Before(r.Window.Latest)
}

// MatchFilter narrows the open pool a courier is matched against.
type MatchFilter struct {
	// ServiceType keeps only requests of the given type when non-empty.
	ServiceType string
	// MaxUrgency filters out requests whose latest pickup deadline is
	// closer than this lead time. Zero means no urgency filter.
	MaxUrgency time.Duration
}

// Matches reports whether the request passes the filter at the given instant.
func (f MatchFilter) Matches(r *DeliveryRequest, now time.Time) bool {
	if f.ServiceType != "" && r.ServiceType != f.ServiceType {
		return false
	}
	if f.MaxUrgency > 0 && r.Window.Latest.Sub(now) < f.MaxUrgency {
		return false
	}
	return true
}
