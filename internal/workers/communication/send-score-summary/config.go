// internal/workers/communication/send-score-summary/config.go
package sendscoresummary

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/arthverse/arthverse/internal/common/config"
)

type Config struct {
	Timeout      time.Duration
	EmailEnabled bool
	SMSEnabled   bool
	// SMSThreshold is the protection score below which an SMS alert is sent.
	SMSThreshold int
}

func LoadConfig(appCfg *config.Config) *Config {
	return &Config{
		Timeout:      config.Duration(config.WorkerSettings(appCfg, TaskType).Timeout),
		EmailEnabled: appCfg.AWS.SES.Enabled,
		SMSEnabled:   appCfg.AWS.SNS.Enabled,
		SMSThreshold: appCfg.Scoring.SMSScoreThreshold,
	}
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Timeout, validation.Required),
		validation.Field(&c.SMSThreshold, validation.Min(0), validation.Max(100)),
	)
}
