package handlers

import "time"

type waypointDTO struct {
	Lat            float64   `json:"lat"`
	Lng            float64   `json:"lng"`
	WindowEarliest time.Time `json:"window_earliest"`
	WindowLatest   time.Time `json:"window_latest"`
}

type findCandidatesRequest struct {
	CourierID         string        `json:"courier_id"`
	Waypoints         []waypointDTO `json:"waypoints"`
	CapacityRemaining int           `json:"capacity_remaining"`
	MaxDistanceKm     float64       `json:"max_distance_km"`
	ServiceType       string        `json:"service_type"`
	MaxUrgencyMinutes int           `json:"max_urgency_minutes"`
}

type candidateResponse struct {
	RequestID      string    `json:"request_id"`
	PickupLat      float64   `json:"pickup_lat"`
	PickupLng      float64   `json:"pickup_lng"`
	DropoffLat     float64   `json:"dropoff_lat"`
	DropoffLng     float64   `json:"dropoff_lng"`
	WindowEarliest time.Time `json:"window_earliest"`
	WindowLatest   time.Time `json:"window_latest"`
	PriceCents     int64     `json:"price_cents"`
	ServiceType    string    `json:"service_type"`
	Score          float64   `json:"score"`
	DistanceKm     float64   `json:"distance_km"`
}

type findCandidatesResponse struct {
	Candidates []candidateResponse `json:"candidates"`
}

type claimRequest struct {
	CourierID string `json:"courier_id"`
}

type deliveryResponse struct {
	ID          string     `json:"id"`
	RequestID   string     `json:"request_id"`
	CourierID   string     `json:"courier_id"`
	State       string     `json:"state"`
	Version     int64      `json:"version"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	FeeCents    *int64     `json:"fee_cents,omitempty"`
}

type transitionRequest struct {
	Event           string `json:"event"`
	ExpectedVersion int64  `json:"expected_version"`
	Reason          string `json:"reason,omitempty"`
	RecipientName   string `json:"recipient_name,omitempty"`
	Signature       string `json:"signature,omitempty"`
	PhotoProof      string `json:"photo_proof,omitempty"`
	ByAuthor        bool   `json:"by_author,omitempty"`
}

type appendTrackingRequest struct {
	Note string `json:"note"`
}

type trackingEventResponse struct {
	EventID        string    `json:"event_id"`
	DeliveryID     string    `json:"delivery_id"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status"`
	Description    string    `json:"description"`
	RecordedAt     time.Time `json:"recorded_at"`
}

type trackingHistoryResponse struct {
	Events []trackingEventResponse `json:"events"`
}
