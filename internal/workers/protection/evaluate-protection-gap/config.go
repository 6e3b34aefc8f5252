// internal/workers/protection/evaluate-protection-gap/config.go
package evaluateprotectiongap

import (
	"time"

	"github.com/arthverse/arthverse/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(appCfg *config.Config) *Config {
	return &Config{
		Timeout: config.Duration(config.WorkerSettings(appCfg, TaskType).Timeout),
	}
}
