// Package insights turns a structured analysis into persisted insight
// records. The mapping is a fixed rule table: titles, content and suggestions
// for the warning/concern tiers are reviewed copy, never model output.
package insights

import (
	"time"

	"wellness-diary/internal/ai"
	"wellness-diary/internal/models"
	"wellness-diary/internal/storage"
)

// Window is how far back the pipeline aggregates journal entries.
const Window = 7 * 24 * time.Hour

// Draft is an insight before persistence assigns identity and timestamps.
type Draft struct {
	Type        string
	Severity    string
	Title       string
	Content     string
	Suggestions []string
}

// Build derives drafts from an analysis. Rules fire independently, in a fixed
// order, so identical analyses always produce the identical batch.
func Build(a *ai.Analysis) []Draft {
	if a == nil {
		return nil
	}

	drafts := []Draft{{
		Type:        models.InsightSummary,
		Severity:    models.SeverityInfo,
		Title:       "Weekly Check-in",
		Content:     a.Summary,
		Suggestions: a.Suggestions,
	}}

	if a.MoodTrend == "declining" || a.OverallMood == "concerning" {
		drafts = append(drafts, Draft{
			Type:     models.InsightAlert,
			Severity: models.SeverityConcern,
			Title:    "Mood Pattern Noticed",
			Content:  "I've noticed your mood has been lower recently. This is very common in the postpartum period, and you're not alone. It might be helpful to talk to someone about how you're feeling.",
			Suggestions: []string{
				"Consider reaching out to your healthcare provider",
				"Talk to a trusted friend or family member",
				"Remember that asking for help is a sign of strength",
			},
		})
	}

	if a.AnxietyLevel == "high" {
		drafts = append(drafts, Draft{
			Type:     models.InsightAlert,
			Severity: models.SeverityWarning,
			Title:    "Anxiety Levels Elevated",
			Content:  "Your recent entries suggest higher anxiety levels. Postpartum anxiety is very common and treatable.",
			Suggestions: []string{
				"Try some gentle breathing exercises",
				"Take short breaks when possible",
				"Consider speaking with a professional if anxiety persists",
			},
		})
	}

	if a.SleepQuality == "poor" {
		drafts = append(drafts, Draft{
			Type:     models.InsightSuggestion,
			Severity: models.SeverityInfo,
			Title:    "Sleep Support",
			Content:  "Sleep deprivation is tough, and it affects everything. Even small improvements can help.",
			Suggestions: []string{
				"Try to sleep when baby sleeps, even for short naps",
				"Ask for help with night duties if possible",
				"Limit screen time before bed",
			},
		})
	}

	if a.OverallMood == "positive" && a.MoodTrend == "improving" {
		drafts = append(drafts, Draft{
			Type:     models.InsightSuggestion,
			Severity: models.SeverityInfo,
			Title:    "You're Doing Great",
			Content:  "Your entries show positive progress. Keep up the wonderful work - you're doing an amazing job as a parent.",
			Suggestions: []string{
				"Continue the habits that are working for you",
				"Celebrate small wins",
				"Share your positive experiences with others",
			},
		})
	}

	return drafts
}

// FirstEscalatable returns the first insight in batch order with severity at
// warning or above, or nil. Emission order wins over severity.
func FirstEscalatable(batch []models.AiInsight) *models.AiInsight {
	for i := range batch {
		if models.SeverityAtLeast(batch[i].Severity, models.SeverityWarning) {
			return &batch[i]
		}
	}
	return nil
}

// Pipeline aggregates the recent journal window, runs one analysis call and
// persists the derived batch.
type Pipeline struct {
	DB       *storage.DB
	Analyzer *ai.Analyzer
}

// Generate runs the pipeline as of now and returns the persisted batch. An
// empty window or an unavailable analysis produces an empty batch and no
// writes; only storage failures return an error.
func (p *Pipeline) Generate(now time.Time) ([]models.AiInsight, error) {
	periodStart := now.Add(-Window)
	entries, err := p.DB.ListEntriesSince(periodStart)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	drafts := Build(p.Analyzer.Analyze(entries))
	if len(drafts) == 0 {
		return nil, nil
	}

	batch := make([]models.AiInsight, 0, len(drafts))
	for _, d := range drafts {
		in := models.AiInsight{
			Type:        d.Type,
			Severity:    d.Severity,
			Title:       d.Title,
			Content:     d.Content,
			Suggestions: d.Suggestions,
			PeriodStart: periodStart,
			PeriodEnd:   now,
			CreatedAt:   now,
		}
		if err := p.DB.CreateInsight(&in); err != nil {
			// Already-persisted insights stay; partial batches are accepted.
			return batch, err
		}
		batch = append(batch, in)
	}
	return batch, nil
}
