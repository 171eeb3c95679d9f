package matching

import (
	"context"
	"iter"
	"math"
	"sort"
	"time"

	"courierflow/internal/apperr"
	"courierflow/internal/domain"
	"courierflow/internal/geo"
	"courierflow/internal/logx"
	"courierflow/internal/types"
)

// Weights controls how candidate scores are combined. Distance and Price are
// relative shares; PriceCeiling caps price normalisation.
type Weights struct {
	Distance     float64
	Price        float64
	PriceCeiling types.Money
}

// Candidate is one scored open request surfaced to a courier.
type Candidate struct {
	Request    domain.DeliveryRequest
	Score      float64
	DistanceKm float64
}

// Service ranks open delivery requests against courier routes. Pure read
// side: it reserves nothing, so two couriers may legitimately see the same
// candidate at once. Race resolution belongs to the assignment ledger.
type Service struct {
	source           openRequestSource
	weights          Weights
	maxDistanceKm    float64
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// NewService creates a matching Service. maxDistanceKm is the default search
// radius used when a caller passes a non-positive one.
func NewService(source openRequestSource, weights Weights, maxDistanceKm float64, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{
		source:           source,
		weights:          weights,
		maxDistanceKm:    maxDistanceKm,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// FindCandidates returns open requests reachable from the route within
// maxDistanceKm, ordered by descending score. The returned sequence is lazy,
// finite and single-use; the caller decides how many candidates to consume.
func (s *Service) FindCandidates(ctx context.Context, route domain.CourierRoute, maxDistanceKm float64, f domain.MatchFilter) (iter.Seq[Candidate], error) {
	if len(route.Waypoints) == 0 {
		return nil, apperr.ErrInvalid
	}
	if maxDistanceKm <= 0 {
		maxDistanceKm = s.maxDistanceKm
	}

	ctx, cancel := context.WithTimeout(ctx, s.operationTimeout)
	defer cancel()

	now := s.now()
	ranked, err := s.rank(ctx, route, maxDistanceKm, f, now)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("candidates ranked",
		logx.String("route_id", route.ID),
		logx.String("courier_id", route.CourierID),
		logx.Float64("max_distance_km", maxDistanceKm),
		logx.Int("count", len(ranked)),
	)

	idx := 0
	return func(yield func(Candidate) bool) {
		for idx < len(ranked) {
			c := ranked[idx]
			idx++
			if !yield(c) {
				return
			}
		}
	}, nil
}

func (s *Service) rank(ctx context.Context, route domain.CourierRoute, maxDistanceKm float64, f domain.MatchFilter, now time.Time) ([]Candidate, error) {
	if route.CapacityRemaining <= 0 {
		return nil, nil
	}

	open, err := s.source.ListOpenRequests(ctx, f, now)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(open))
	for i := range open {
		req := &open[i]
		if req.AuthorID == route.CourierID {
			continue
		}
		d, ok := closestApproachKm(route, req, maxDistanceKm)
		if !ok {
			continue
		}
		candidates = append(candidates, Candidate{
			Request:    *req,
			Score:      s.score(d, maxDistanceKm, req.Price),
			DistanceKm: d,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.Request.Window.Earliest.Equal(b.Request.Window.Earliest) {
			return a.Request.Window.Earliest.Before(b.Request.Window.Earliest)
		}
		return a.Request.ID < b.Request.ID
	})
	return candidates, nil
}

// closestApproachKm returns the minimum distance from any route waypoint to
// either endpoint of the request. A waypoint only counts when its arrival
// window overlaps the request's scheduled window.
func closestApproachKm(route domain.CourierRoute, req *domain.DeliveryRequest, maxDistanceKm float64) (float64, bool) {
	best := math.Inf(1)
	for _, wp := range route.Waypoints {
		if !req.Window.Overlaps(wp.Window) {
			continue
		}
		d := math.Min(
			geo.DistanceKm(req.Pickup, wp.Location),
			geo.DistanceKm(req.Dropoff, wp.Location),
		)
		if d < best {
			best = d
		}
	}
	if best > maxDistanceKm {
		return 0, false
	}
	return best, true
}

// score combines distance (closer is better) and declared price (higher is
// better) into a 0-100 value.
func (s *Service) score(distanceKm, maxDistanceKm float64, price types.Money) float64 {
	distanceScore := (1 - distanceKm/maxDistanceKm) * 100

	ceiling := s.weights.PriceCeiling
	if ceiling <= 0 {
		ceiling = 1
	}
	priceScore := math.Min(float64(price)/float64(ceiling), 1) * 100

	return s.weights.Distance*distanceScore + s.weights.Price*priceScore
}
