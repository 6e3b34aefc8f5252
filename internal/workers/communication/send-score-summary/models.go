// internal/workers/communication/send-score-summary/models.go
package sendscoresummary

import (
	"github.com/arthverse/arthverse/internal/scoring/healthscore"
	"github.com/arthverse/arthverse/internal/scoring/protection"
)

type Input struct {
	UserID        string                   `json:"userId"`
	Email         string                   `json:"email,omitempty"`
	Phone         string                   `json:"phone,omitempty"`
	HealthScore   *healthscore.ScoreResult `json:"healthScore,omitempty"`
	ProtectionGap *protection.Result       `json:"protectionGap,omitempty"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	EmailSent      bool   `json:"emailSent"`
	EmailMessageID string `json:"emailMessageId,omitempty"`
	SMSSent        bool   `json:"smsSent"`
	SMSMessageID   string `json:"smsMessageId,omitempty"`
}
