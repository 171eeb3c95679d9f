package kafka

import (
	"strings"
	"time"

	"courierflow/internal/service/announce"
)

// EventDTO is the wire shape of one announcement event.
type EventDTO struct {
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

// ToDomain converts EventDTO to announce.Event.
func ToDomain(dto EventDTO) announce.Event {
	return announce.Event{
		RequestID:      strings.TrimSpace(dto.RequestID),
		AuthorID:       strings.TrimSpace(dto.AuthorID),
		Status:         strings.TrimSpace(dto.Status),
		PickupLat:      dto.PickupLat,
		PickupLng:      dto.PickupLng,
		DropoffLat:     dto.DropoffLat,
		DropoffLng:     dto.DropoffLng,
		WindowEarliest: dto.WindowEarliest,
		WindowLatest:   dto.WindowLatest,
		PriceCents:     dto.PriceCents,
		ServiceType:    strings.TrimSpace(dto.ServiceType),
		CreatedAt:      dto.CreatedAt,
	}
}
