// Package ai talks to the OpenAI chat completions API to turn journal history
// into a structured wellness analysis. An unconfigured or failing client
// degrades to nil results, never errors.
package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"wellness-diary/internal/models"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"

	// Entry content is clipped before prompting to keep requests bounded.
	maxPromptContent = 500
)

// Analysis is the structured result of analyzing a window of entries.
type Analysis struct {
	OverallMood  string   `json:"overallMood"`  // positive | neutral | concerning
	MoodTrend    string   `json:"moodTrend"`    // improving | stable | declining
	AnxietyLevel string   `json:"anxietyLevel"` // low | moderate | high
	SleepQuality string   `json:"sleepQuality"` // good | fair | poor | unknown
	KeyThemes    []string `json:"keyThemes"`
	Concerns     []string `json:"concerns"`
	Suggestions  []string `json:"suggestions"`
	Summary      string   `json:"summary"`
}

type Analyzer struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewAnalyzer(apiKey, model string) *Analyzer {
	if model == "" {
		model = defaultModel
	}
	return &Analyzer{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// NewAnalyzerWithBaseURL is used by tests to point the client at a stub server.
func NewAnalyzerWithBaseURL(apiKey, model, baseURL string) *Analyzer {
	a := NewAnalyzer(apiKey, model)
	a.baseURL = strings.TrimSuffix(baseURL, "/")
	return a
}

func (a *Analyzer) IsConfigured() bool {
	return a != nil && a.apiKey != ""
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Analyze runs one analysis call over the ordered entries (oldest first) and
// returns nil when the client is unconfigured, the window is empty, the call
// fails or the reply cannot be parsed. It never retries.
func (a *Analyzer) Analyze(entries []models.JournalEntry) *Analysis {
	if !a.IsConfigured() || len(entries) == 0 {
		return nil
	}

	content, err := a.complete(
		"You are a supportive wellness assistant. Always respond with valid JSON only.",
		analysisPrompt(entries), 1000)
	if err != nil {
		log.Println("ai: analysis failed:", err)
		return nil
	}

	raw := extractJSON(content)
	if raw == "" {
		return nil
	}
	var result Analysis
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		log.Println("ai: unparseable analysis:", err)
		return nil
	}
	return &result
}

// Reflect produces a short reflection on a single entry, used in the
// background after create/edit. Empty string means no reflection.
func (a *Analyzer) Reflect(e *models.JournalEntry) string {
	if !a.IsConfigured() {
		return ""
	}
	content, err := a.complete("", reflectionPrompt(e), 150)
	if err != nil {
		log.Println("ai: reflection failed:", err)
		return ""
	}
	return strings.TrimSpace(content)
}

func (a *Analyzer) complete(system, user string, maxTokens int) (string, error) {
	msgs := make([]chatMessage, 0, 2)
	if system != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: system})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: user})

	body, err := json.Marshal(chatRequest{
		Model:       a.model,
		Messages:    msgs,
		Temperature: 0.7,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", a.baseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OpenAI API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("OpenAI error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no text response found in OpenAI output")
	}
	return parsed.Choices[0].Message.Content, nil
}

var jsonBlockRx = regexp.MustCompile(`(?s)\{.*\}`)

// extractJSON pulls the first JSON object out of a possibly chatty reply.
func extractJSON(s string) string {
	return jsonBlockRx.FindString(s)
}

type promptEntry struct {
	Date    string   `json:"date"`
	Mood    int      `json:"mood"`
	Energy  int      `json:"energy"`
	Anxiety int      `json:"anxiety"`
	Sleep   *float64 `json:"sleep"`
	Content string   `json:"content"`
}

func analysisPrompt(entries []models.JournalEntry) string {
	summaries := make([]promptEntry, 0, len(entries))
	for _, e := range entries {
		content := e.Content
		if len(content) > maxPromptContent {
			content = content[:maxPromptContent]
		}
		summaries = append(summaries, promptEntry{
			Date:    e.Date.Format("2006-01-02"),
			Mood:    e.Mood,
			Energy:  e.Energy,
			Anxiety: e.Anxiety,
			Sleep:   e.Sleep,
			Content: content,
		})
	}
	encoded, _ := json.MarshalIndent(summaries, "", "  ")

	return `You are an AI wellness assistant specialized in postpartum mental health support. Analyze the following journal entries from a new parent and provide insights.

IMPORTANT: You are NOT a therapist or medical professional. Your role is to identify patterns and gently suggest when professional support might be helpful.

Journal Entries (from oldest to newest):
` + string(encoded) + `

Analyze these entries and respond with a JSON object containing:
{
  "overallMood": "positive" | "neutral" | "concerning",
  "moodTrend": "improving" | "stable" | "declining",
  "anxietyLevel": "low" | "moderate" | "high",
  "sleepQuality": "good" | "fair" | "poor" | "unknown",
  "keyThemes": ["array of recurring themes or topics"],
  "concerns": ["any concerning patterns that warrant attention"],
  "suggestions": ["gentle, actionable self-care suggestions"],
  "summary": "A warm, supportive 2-3 sentence summary of what you've observed"
}

Be compassionate and supportive. If you notice signs of postpartum depression or anxiety, gently suggest speaking with a healthcare provider. Focus on patterns, not individual bad days.`
}

func reflectionPrompt(e *models.JournalEntry) string {
	sleep := "not recorded"
	if e.Sleep != nil {
		sleep = fmt.Sprintf("%g", *e.Sleep)
	}
	return fmt.Sprintf(`You are a supportive wellness assistant for a new parent. Briefly analyze this journal entry and provide a short, warm reflection (2-3 sentences max).

Entry:
- Mood: %d/5
- Energy: %d/5
- Anxiety: %d/5
- Sleep: %s hours
- Content: %s

Respond with just the reflection, no JSON or formatting.`,
		e.Mood, e.Energy, e.Anxiety, sleep, e.Content)
}
