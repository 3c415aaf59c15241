// Package llm is the hosted-model advisor implementation.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/advisor"
	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/config"
	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/logger"
	dm "github.com/urbanpulse/heat_radar/app/heat_radar/pkg/model"
	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/project"
)

// Advisor calls a chat model and degrades to the static rule set whenever
// the call or its output is unusable. It never returns an error to the
// caller; a best-effort answer always comes back.
type Advisor struct {
	chatModel model.ChatModel
	limiter   *rate.Limiter
	static    *advisor.Static
}

// New creates the LLM advisor.
func New(ctx context.Context, cfg *config.Config) (*Advisor, error) {
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("init chat model: %w", err)
	}

	rpm := cfg.Concurrency.RPM
	if rpm <= 0 {
		rpm = 60
	}
	burst := cfg.Concurrency.QPS
	if burst <= 0 {
		burst = 1
	}

	return &Advisor{
		chatModel: chatModel,
		limiter:   rate.NewLimiter(rate.Limit(float64(rpm)/60.0), burst),
		static:    advisor.NewStatic(),
	}, nil
}

var _ advisor.Advisor = (*Advisor)(nil)

const mitigationPrompt = `You are an expert Urban Planner and Climate Scientist.
You are analyzing the locality of %s.

Here is the real-time satellite footprint and backend analysis data for this locality:
- Current Heat Risk Score: %s / 100
- 3-Month Projected Risk: %s / 100
- Resilience Score: %s / 100
- Green Deficit: %s%%
- Cooling Potential: %s%%
- Vulnerable Population: %d
- Top Heat Drivers: %s
- Early Warning Triggered: %s

Based on these metrics, give me 3 highly distinct, non-generic, actionable mitigation strategies specifically designed for this locality to reduce its heat risk within 3 months. Provide three varied techniques: 1 policy intervention, 1 structural/infrastructure intervention, and 1 community-based intervention.
Keep each point to one sentence, crisp and punchy. Return ONLY a JSON string array like this: ["Point 1", "Point 2", "Point 3"].`

// Mitigations implements advisor.Advisor.
func (a *Advisor) Mitigations(ctx context.Context, rec dm.LocalityRecord) ([]string, error) {
	warning := "NO"
	if rec.EarlyWarning {
		warning = "YES"
	}
	prompt := fmt.Sprintf(mitigationPrompt,
		rec.Locality,
		project.FormatMetric(rec.Risk, 1),
		project.FormatMetric(rec.FutureRisk3M, 1),
		project.FormatMetric(rec.ResilienceScore, 1),
		project.FormatMetric(rec.GreenDeficit, 1),
		project.FormatMetric(rec.CoolingPotential, 1),
		rec.PeopleAtRisk,
		strings.Join(rec.TopDrivers, ", "),
		warning,
	)

	content, err := a.generate(ctx, "You are a JSON generator. Output only the JSON string.", prompt)
	if err != nil {
		logger.Log.Errorf("mitigation generation failed for [%s]: %v", rec.Locality, err)
		return advisor.CallFallback(rec.Locality), nil
	}

	var actions []string
	if err := json.Unmarshal([]byte(content), &actions); err != nil || len(actions) == 0 {
		logger.Log.Warnf("unparseable mitigation output for [%s]: %v", rec.Locality, err)
		return advisor.ParseFallback(), nil
	}
	return actions, nil
}

const summaryPrompt = `You are an expert Chief Resilience Officer for %s.
Based on live satellite data, the city average Heat Risk Score is %.1f/100.
A total of %s citizens are currently vulnerable to heat stress.
The most critically at-risk localities are: %s.

Provide a high-level, strategic executive summary (3 short paragraphs) on how the city should allocate budget and resources over the next 3 months to mitigate this city-wide risk. Focus on systemic, macro-level urban policies. Do not use asterisks or markdown, just plain text.`

// CitySummary implements advisor.Advisor.
func (a *Advisor) CitySummary(ctx context.Context, sum advisor.CitySummaryContext) (string, error) {
	prompt := fmt.Sprintf(summaryPrompt,
		sum.City, sum.AvgRisk, project.Population(sum.TotalPeopleAtRisk),
		strings.Join(sum.HighRiskNames, ", "))

	content, err := a.generate(ctx, "You are a municipal climate strategy writer. Output plain text only.", prompt)
	if err != nil {
		logger.Log.Errorf("city summary generation failed: %v", err)
		return a.static.CitySummary(ctx, sum)
	}
	return stripMarkup(content), nil
}

// generate runs one chat completion with rate limiting and bounded retries
// on upstream throttling.
func (a *Advisor) generate(ctx context.Context, system, prompt string) (string, error) {
	maxRetries := 3
	baseDelay := 2 * time.Second
	var lastErr error

	for i := 0; i <= maxRetries; i++ {
		if err := a.limiter.Wait(ctx); err != nil {
			return "", err
		}

		messages := []*schema.Message{
			{Role: schema.System, Content: system},
			{Role: schema.User, Content: prompt},
		}

		resp, err := a.chatModel.Generate(ctx, messages)
		if err != nil {
			lastErr = err
			if isThrottled(err) && i < maxRetries {
				time.Sleep(baseDelay * time.Duration(1<<i))
				continue
			}
			return "", err
		}

		return stripFences(resp.Content), nil
	}
	return "", lastErr
}

func isThrottled(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "too many requests")
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func stripMarkup(s string) string {
	return strings.NewReplacer("*", "", "#", "", "`", "").Replace(s)
}
