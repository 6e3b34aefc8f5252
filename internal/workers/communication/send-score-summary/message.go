// internal/workers/communication/send-score-summary/message.go
package sendscoresummary

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"text/template"

	"github.com/arthverse/arthverse/internal/common/aws"
	"github.com/arthverse/arthverse/internal/scoring/healthscore"
	"github.com/arthverse/arthverse/internal/scoring/protection"
)

const maxEmailInsights = 3

type summary struct {
	Health     *healthscore.ScoreResult
	Protection *protection.Result
	Insights   []healthscore.Insight
}

var textBody = template.Must(template.New("text").Parse(`Your Arthverse financial summary
{{with .Health}}
Financial health score: {{.Score}}/100 ({{.Rating}})
{{.Message}}
{{end}}{{with .Protection}}
Protection score: {{.ProtectionScore}}/100
{{range .UnprotectedAreas}}- {{.}}
{{end}}{{end}}{{if .Insights}}
Top actions:
{{range .Insights}}- {{.Action}}
{{end}}{{end}}`))

var htmlBody = htmltemplate.Must(htmltemplate.New("html").Parse(`<html><body>
<h2>Your Arthverse financial summary</h2>
{{with .Health}}<p><strong>Financial health score:</strong> {{.Score}}/100 ({{.Rating}})</p>
<p>{{.Message}}</p>{{end}}
{{with .Protection}}<p><strong>Protection score:</strong> {{.ProtectionScore}}/100</p>
{{if .UnprotectedAreas}}<ul>{{range .UnprotectedAreas}}<li>{{.}}</li>{{end}}</ul>{{end}}{{end}}
{{if .Insights}}<h3>Top actions</h3><ol>{{range .Insights}}<li>{{.Action}}</li>{{end}}</ol>{{end}}
</body></html>`))

func newSummary(hs *healthscore.ScoreResult, gap *protection.Result) summary {
	s := summary{Health: hs, Protection: gap}
	if hs != nil {
		s.Insights = hs.Insights
		if len(s.Insights) > maxEmailInsights {
			s.Insights = s.Insights[:maxEmailInsights]
		}
	}
	return s
}

func buildEmail(to string, s summary) (aws.Email, error) {
	subject := "Your financial summary"
	switch {
	case s.Health != nil:
		subject = fmt.Sprintf("Your financial health score: %d (%s)", s.Health.Score, s.Health.Rating)
	case s.Protection != nil:
		subject = fmt.Sprintf("Your protection score: %d", s.Protection.ProtectionScore)
	}

	var text, html bytes.Buffer
	if err := textBody.Execute(&text, s); err != nil {
		return aws.Email{}, fmt.Errorf("render text body: %w", err)
	}
	if err := htmlBody.Execute(&html, s); err != nil {
		return aws.Email{}, fmt.Errorf("render html body: %w", err)
	}
	return aws.Email{To: to, Subject: subject, Text: text.String(), HTML: html.String()}, nil
}

const maxSMSLength = 160

// buildSMS states the protection score and the first action item.
func buildSMS(gap *protection.Result) string {
	msg := fmt.Sprintf("Arthverse: your protection score is %d/100.", gap.ProtectionScore)
	if len(gap.ActionItems) > 0 {
		msg += " Next step: " + gap.ActionItems[0]
	}
	if r := []rune(msg); len(r) > maxSMSLength {
		msg = string(r[:maxSMSLength-3]) + "..."
	}
	return msg
}
