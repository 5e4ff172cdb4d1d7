package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// GenAIClient calls a remote generative-language API to produce quiz content.
// The zero APIKey disables the client.
type GenAIClient struct {
	APIKey  string
	Model   string
	BaseURL string
	HTTP    *http.Client
}

type QuizPrompt struct {
	Prompt       string
	NumQuestions int
	Department   string
	Difficulty   string
}

// GenerateResult carries either parsed quiz JSON or, when the model output
// could not be cleaned into JSON, the raw text plus the parse error.
type GenerateResult struct {
	Quiz     json.RawMessage
	RawText  string
	ParseErr error
}

func (c GenAIClient) Enabled() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

func BuildQuizInstruction(p QuizPrompt) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a quiz for the %s department with %d %s-difficulty multiple-choice questions about: %s\n",
		p.Department, p.NumQuestions, p.Difficulty, p.Prompt)
	b.WriteString("Respond with strict JSON only, using exactly these keys:\n")
	b.WriteString(`{"title": string, "description": string, "questions": [{"question": string, "options": [four strings], "correctAnswer": integer 0-3}]}`)
	b.WriteString("\nDo not wrap the JSON in markdown code fences or add any other text.")
	return b.String()
}

// GenerateQuiz performs one synchronous call to the remote model and cleans
// its free-text output into quiz JSON. A malformed model response is not an
// error: the raw text comes back with ParseErr set.
func (c GenAIClient) GenerateQuiz(ctx context.Context, p QuizPrompt) (GenerateResult, error) {
	text, err := c.generateContent(ctx, BuildQuizInstruction(p))
	if err != nil {
		return GenerateResult{}, err
	}
	cleaned := stripCodeFences(text)
	quiz, parseErr := parseQuizJSON(cleaned)
	if parseErr == nil {
		return GenerateResult{Quiz: quiz, RawText: text}, nil
	}
	if span := largestObjectSpan(cleaned); span != "" {
		if quiz, err := parseQuizJSON(span); err == nil {
			return GenerateResult{Quiz: quiz, RawText: text}, nil
		}
	}
	return GenerateResult{RawText: text, ParseErr: parseErr}, nil
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c GenAIClient) generateContent(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(c.BaseURL, "/"), c.Model, c.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", ErrBadGateway("AI service unreachable: " + err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", ErrBadGateway(fmt.Sprintf("AI service returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))))
	}

	var payload generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", ErrBadGateway("AI service returned malformed payload: " + err.Error())
	}
	if len(payload.Candidates) == 0 || len(payload.Candidates[0].Content.Parts) == 0 {
		return "", ErrBadGateway("AI service returned no candidates")
	}
	return payload.Candidates[0].Content.Parts[0].Text, nil
}

// stripCodeFences removes a surrounding markdown code fence, with or without
// a language tag, from the model output.
func stripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		// Drop the language tag line (e.g. "json").
		first := strings.TrimSpace(trimmed[:idx])
		if first == "" || !strings.ContainsAny(first, "{}") {
			trimmed = trimmed[idx+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// largestObjectSpan returns the widest {...} span in text, or "" when no
// braces are present.
func largestObjectSpan(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

func parseQuizJSON(text string) (json.RawMessage, error) {
	var probe map[string]any
	if err := json.Unmarshal([]byte(text), &probe); err != nil {
		return nil, err
	}
	return json.RawMessage(text), nil
}
