package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"quizhub-backend-go/internal/services"
)

const (
	defaultNumQuestions = 5
	defaultDepartment   = "General"
	defaultDifficulty   = "medium"
)

type generateQuizResponse struct {
	Success bool            `json:"success"`
	Quiz    json.RawMessage `json:"quiz,omitempty"`
	Raw     string          `json:"raw,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func (s *Server) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	if !s.AI.Enabled() {
		WriteMessage(w, http.StatusServiceUnavailable, false, "AI feature is currently disabled; set GENAI_API_KEY to enable quiz generation")
		return
	}
	fields, err := decodeFields(r)
	if err != nil {
		WriteMessage(w, http.StatusBadRequest, false, "Invalid payload")
		return
	}
	prompt := strings.TrimSpace(fields["prompt"])
	if prompt == "" {
		WriteMessage(w, http.StatusBadRequest, false, "prompt is required")
		return
	}
	numQuestions, err := strconv.Atoi(strings.TrimSpace(fields["num_questions"]))
	if err != nil || numQuestions <= 0 {
		numQuestions = defaultNumQuestions
	}
	department := strings.TrimSpace(fields["department"])
	if department == "" {
		department = defaultDepartment
	}
	difficulty := strings.TrimSpace(fields["difficulty"])
	if difficulty == "" {
		difficulty = defaultDifficulty
	}

	result, err := s.AI.GenerateQuiz(r.Context(), services.QuizPrompt{
		Prompt:       prompt,
		NumQuestions: numQuestions,
		Department:   department,
		Difficulty:   difficulty,
	})
	if err != nil {
		var serviceErr services.ServiceError
		if errors.As(err, &serviceErr) {
			WriteMessage(w, serviceErr.Status, false, serviceErr.Message)
			return
		}
		WriteMessage(w, http.StatusBadGateway, false, "AI generation failed: "+err.Error())
		return
	}
	if result.ParseErr != nil {
		// Degraded: hand the raw model text to the caller instead of failing.
		WriteJSON(w, http.StatusOK, generateQuizResponse{
			Success: true,
			Raw:     result.RawText,
			Error:   result.ParseErr.Error(),
		})
		return
	}
	WriteJSON(w, http.StatusOK, generateQuizResponse{Success: true, Quiz: result.Quiz})
}
