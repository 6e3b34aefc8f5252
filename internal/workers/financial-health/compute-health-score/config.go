// internal/workers/financial-health/compute-health-score/config.go
package computehealthscore

import (
	"time"

	"github.com/arthverse/arthverse/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(appCfg *config.Config) *Config {
	settings := config.WorkerSettings(appCfg, TaskType)
	return &Config{
		Timeout: config.Duration(settings.Timeout),
	}
}
