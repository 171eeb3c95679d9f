package announce

import "time"

// Event is a single announcement event from the marketplace feed.
type Event struct {
	RequestID      string    `json:"request_id"`
	AuthorID       string    `json:"author_id"`
	Status         string    `json:"status"`
	PickupLat      float64   `json:"pickup_lat"`
	PickupLng      float64   `json:"pickup_lng"`
	DropoffLat     float64   `json:"dropoff_lat"`
	DropoffLng     float64   `json:"dropoff_lng"`
	WindowEarliest time.Time `json:"window_earliest"`
	WindowLatest   time.Time `json:"window_latest"`
	PriceCents     int64     `json:"price_cents"`
	ServiceType    string    `json:"service_type"`
	CreatedAt      time.Time `json:"created_at"`
}
