// internal/workers/reporting/index-financial-snapshot/config.go
package indexfinancialsnapshot

import (
	"time"

	"github.com/arthverse/arthverse/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	Index   string
}

func LoadConfig(appCfg *config.Config) *Config {
	return &Config{
		Timeout: config.Duration(config.WorkerSettings(appCfg, TaskType).Timeout),
		Index:   appCfg.Scoring.SnapshotIndex,
	}
}
