package config

import "time"

const defaultPort = 8080

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "myuser",
	Pass: "mypassword",
	Name: "delivery_engine",
}

var defaultKafka = Kafka{
	Brokers:            nil,
	AnnouncementsTopic: "announcements.events",
	NotificationsTopic: "deliveries.tracking",
	GroupID:            "delivery-engine",
}

var defaultMatching = Matching{
	MaxDistanceKm:     10,
	DistanceWeight:    0.7,
	PriceWeight:       0.3,
	PriceCeilingCents: 50_000,
}

var defaultCancellation = Cancellation{
	LateThreshold:    24 * time.Hour,
	EarlyFeePct:      0,
	LateFeePct:       25,
	InProgressFeePct: 50,
}

var defaultWorker = Worker{
	ExpireInterval: 1 * time.Minute,
}

// DefaultPort returns the default HTTP port.
func DefaultPort() int {
	return defaultPort
}

// DefaultDB returns the default database settings.
func DefaultDB() DB {
	return defaultDB
}

// DefaultKafka returns the default Kafka settings. With no brokers configured
// the Kafka transports stay disabled.
func DefaultKafka() Kafka {
	return defaultKafka
}

// DefaultMatching returns the default matching settings.
func DefaultMatching() Matching {
	return defaultMatching
}

// DefaultCancellation returns the default cancellation fee schedule.
func DefaultCancellation() Cancellation {
	return defaultCancellation
}

// DefaultWorker returns the default worker settings.
func DefaultWorker() Worker {
	return defaultWorker
}

var defaultRateLimit = RateLimit{
	Enabled:    false,
	Rate:       50,
	Burst:      100,
	TTL:        10 * time.Minute,
	MaxBuckets: 10_000,
}

var defaultPprof = Pprof{
	Enabled: false,
	Addr:    "127.0.0.1:6060",
}

// DefaultRateLimit returns the default rate limiting settings. Rate limiting
// is off unless enabled explicitly.
func DefaultRateLimit() RateLimit {
	return defaultRateLimit
}

// DefaultPprof returns the default pprof settings. The debug listener is off
// unless enabled explicitly.
func DefaultPprof() Pprof {
	return defaultPprof
}
