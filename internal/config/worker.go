package config

import (
	"time"

	"github.com/spf13/viper"
)

// WorkerConfig configures the redis stream consumer in cmd/worker.
type WorkerConfig struct {
	Group         string
	Consumer      string
	ClaimInterval time.Duration
	ResumeMinAge  time.Duration
}

// JobsConfig holds cron specs (with seconds) for tasks the API schedules.
type JobsConfig struct {
	Enabled           bool
	ResumeGCSchedule  string
	CacheWarmSchedule string
}

func setWorkerDefaults(v *viper.Viper) {
	v.SetDefault("worker.group", "portfolio-workers")
	v.SetDefault("worker.consumer", "worker-1")
	v.SetDefault("worker.claiminterval", "30s")
	v.SetDefault("worker.resumeminage", "1h")

	v.SetDefault("jobs.enabled", true)
	v.SetDefault("jobs.resumegcschedule", "0 30 3 * * *")
	v.SetDefault("jobs.cachewarmschedule", "0 0 */1 * * *")
}
