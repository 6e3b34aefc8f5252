// internal/api/handlers.go
package api

import (
	"bytes"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"github.com/arthverse/arthverse/internal/common/errors"
	"github.com/arthverse/arthverse/internal/models"
	"github.com/arthverse/arthverse/internal/scoring/healthscore"
	"github.com/arthverse/arthverse/internal/scoring/protection"
)

type healthPreviewRequest struct {
	Questionnaire json.RawMessage `json:"questionnaire"`
	Age           int             `json:"age"`
}

type protectionPreviewRequest struct {
	Profile  *models.RiskProfile      `json:"profile"`
	Policies []models.InsurancePolicy `json:"policies"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (s *Server) health(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) previewHealthScore(ctx *fasthttp.RequestCtx) {
	var req healthPreviewRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeStandardError(ctx, errors.NewInvalidInputError(err))
		return
	}

	doc := bytes.TrimSpace(req.Questionnaire)
	if len(doc) == 0 || bytes.Equal(doc, []byte("null")) {
		writeStandardError(ctx, errors.NewInvalidQuestionnaireError("questionnaire is required"))
		return
	}
	if err := s.validator.ValidateQuestionnaire(doc); err != nil {
		writeStandardError(ctx, errors.NewInvalidQuestionnaireError(errors.Normalize(err).Details))
		return
	}

	q, err := models.DecodeQuestionnaire(doc)
	if err != nil {
		writeStandardError(ctx, errors.NewInvalidQuestionnaireError(err.Error()))
		return
	}
	if req.Age < 0 {
		req.Age = 0
	}

	writeJSON(ctx, fasthttp.StatusOK, healthscore.Compute(q, req.Age))
}

func (s *Server) previewProtectionGap(ctx *fasthttp.RequestCtx) {
	var req protectionPreviewRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeStandardError(ctx, errors.NewInvalidInputError(err))
		return
	}

	for i := range req.Policies {
		if err := req.Policies[i].Validate(); err != nil {
			e := errors.NewInvalidCategoryError(string(req.Policies[i].Category))
			e.Details = err.Error()
			writeStandardError(ctx, e)
			return
		}
	}

	writeJSON(ctx, fasthttp.StatusOK, protection.Evaluate(req.Profile, req.Policies))
}

func (s *Server) checklist(ctx *fasthttp.RequestCtx, category string) {
	c, err := protection.ChecklistFor(models.PolicyCategory(category))
	if err != nil {
		writeStandardError(ctx, errors.NewInvalidCategoryError(category))
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, c)
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, string(errors.ErrCodeInternal), "encode response", err.Error())
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

// writeStandardError answers 400 for every business error; anything
// retryable is a server-side failure.
func writeStandardError(ctx *fasthttp.RequestCtx, e *errors.StandardError) {
	status := fasthttp.StatusBadRequest
	if e.Retryable || e.Code == errors.ErrCodeInternal {
		status = fasthttp.StatusInternalServerError
	}
	writeError(ctx, status, string(e.Code), e.Message, e.Details)
}

func writeError(ctx *fasthttp.RequestCtx, status int, code, message, details string) {
	body, _ := json.Marshal(errorResponse{Code: code, Message: message, Details: details})
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}
