package core

import (
	"context"
	"time"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemStatus is the readiness report served on /readyz.
type SystemStatus struct {
	Status        string            `json:"status"`
	Checks        map[string]string `json:"checks"`
	UptimeSeconds int64             `json:"uptime_seconds"`
}

// CollectSystemStatus pings each dependency with a short timeout. A nil
// redis client is reported as disabled and does not fail readiness.
func CollectSystemStatus(ctx context.Context, db Pinger, redis RedisClientRaw, startedAt time.Time) SystemStatus {
	st := SystemStatus{Status: "ok", Checks: map[string]string{}}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if db == nil {
		st.Checks["postgres"] = "missing"
		st.Status = "unavailable"
	} else if err := db.Ping(ctx); err != nil {
		st.Checks["postgres"] = "down"
		st.Status = "unavailable"
	} else {
		st.Checks["postgres"] = "up"
	}

	if redis == nil {
		st.Checks["redis"] = "disabled"
	} else if err := redis.Ping(ctx).Err(); err != nil {
		st.Checks["redis"] = "down"
		st.Status = "unavailable"
	} else {
		st.Checks["redis"] = "up"
	}

	if !startedAt.IsZero() {
		st.UptimeSeconds = int64(time.Since(startedAt).Seconds())
	}
	return st
}
