package handlers

import (
	"time"

	"courierflow/internal/domain"
	"courierflow/internal/service/lifecycle"
	"courierflow/internal/service/matching"
)

func routeFromRequest(courierID string, req findCandidatesRequest) domain.CourierRoute {
	waypoints := make([]domain.Waypoint, 0, len(req.Waypoints))
	for _, wp := range req.Waypoints {
		waypoints = append(waypoints, domain.Waypoint{
			Location: domain.Coordinate{Lat: wp.Lat, Lng: wp.Lng},
			Window:   domain.TimeWindow{Earliest: wp.WindowEarliest, Latest: wp.WindowLatest},
		})
	}
	return domain.CourierRoute{
		CourierID:         courierID,
		Waypoints:         waypoints,
		CapacityRemaining: req.CapacityRemaining,
	}
}

func filterFromRequest(req findCandidatesRequest) domain.MatchFilter {
	return domain.MatchFilter{
		ServiceType: req.ServiceType,
		MaxUrgency:  time.Duration(req.MaxUrgencyMinutes) * time.Minute,
	}
}

func candidateToResponse(c matching.Candidate) candidateResponse {
	return candidateResponse{
		RequestID:      c.Request.ID,
		PickupLat:      c.Request.Pickup.Lat,
		PickupLng:      c.Request.Pickup.Lng,
		DropoffLat:     c.Request.Dropoff.Lat,
		DropoffLng:     c.Request.Dropoff.Lng,
		WindowEarliest: c.Request.Window.Earliest,
		WindowLatest:   c.Request.Window.Latest,
		PriceCents:     int64(c.Request.Price),
		ServiceType:    c.Request.ServiceType,
		Score:          c.Score,
		DistanceKm:     c.DistanceKm,
	}
}

func deliveryToResponse(d *domain.Delivery) deliveryResponse {
	resp := deliveryResponse{
		ID:          d.ID,
		RequestID:   d.RequestID,
		CourierID:   d.CourierID,
		State:       string(d.State),
		Version:     d.Version,
		ScheduledAt: d.ScheduledAt,
		CancelledAt: d.CancelledAt,
	}
	if d.Fee != nil {
		fee := int64(*d.Fee)
		resp.FeeCents = &fee
	}
	return resp
}

func eventFromRequest(req transitionRequest) lifecycle.Event {
	return lifecycle.Event{
		Type:          lifecycle.EventType(req.Event),
		Reason:        req.Reason,
		RecipientName: req.RecipientName,
		Signature:     req.Signature,
		PhotoProof:    req.PhotoProof,
		ByAuthor:      req.ByAuthor,
	}
}

func trackingEventToResponse(ev domain.TrackingEvent) trackingEventResponse {
	return trackingEventResponse{
		EventID:        ev.ID,
		DeliveryID:     ev.DeliveryID,
		Status:         string(ev.Status),
		PreviousStatus: string(ev.PreviousStatus),
		Description:    ev.Description,
		RecordedAt:     ev.RecordedAt,
	}
}
