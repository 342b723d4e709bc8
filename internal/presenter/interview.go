// Package presenter turns API responses into display state.
package presenter

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dharsanguruparan/CareerCopilot/internal/model"
)

// QuestionParser extracts structured questions from the interview
// endpoint's text block. The text format is unversioned, so callers only
// depend on this interface.
type QuestionParser interface {
	Parse(text string) []model.InterviewQuestion
}

var (
	questionBoundary = regexp.MustCompile(`[1-9]\d*\.\s`)
	questionPrefix   = regexp.MustCompile(`^[1-9]\d*\.\s*`)
)

// NumberedParser reads blocks like "1. What is a hash map?\n2. Explain
// REST." A chunk starts at every positive integer followed by a period and
// whitespace, and text before the first boundary is a chunk of its own.
// Each non-blank chunk is one question: its first non-empty line, without
// the leading number.
type NumberedParser struct{}

// Parse implements QuestionParser.
func (NumberedParser) Parse(text string) []model.InterviewQuestion {
	starts := []int{0}
	for _, b := range questionBoundary.FindAllStringIndex(text, -1) {
		if b[0] > 0 {
			starts = append(starts, b[0])
		}
	}
	questions := make([]model.InterviewQuestion, 0, len(starts))
	for i, start := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		line := firstLine(text[start:end])
		if line == "" {
			continue
		}
		q := strings.TrimSpace(questionPrefix.ReplaceAllString(line, ""))
		if q == "" {
			q = line
		}
		questions = append(questions, model.InterviewQuestion{
			Number:     strconv.Itoa(len(questions) + 1),
			Question:   q,
			Difficulty: model.DifficultyMedium,
		})
	}
	return questions
}

func firstLine(chunk string) string {
	for _, line := range strings.Split(chunk, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// InterviewView is what the interview tab renders. When the block is blank,
// Questions is empty and RawText holds it as is.
type InterviewView struct {
	Company   string
	Role      string
	Questions []model.InterviewQuestion
	RawText   string
}

// Fallback reports whether the view shows the raw block.
func (v InterviewView) Fallback() bool {
	return len(v.Questions) == 0
}

// Interview builds the view for a response. A nil parser uses
// NumberedParser.
func Interview(resp model.InterviewResponse, parser QuestionParser) InterviewView {
	if parser == nil {
		parser = NumberedParser{}
	}
	view := InterviewView{
		Company:   resp.Company,
		Role:      resp.Role,
		Questions: parser.Parse(resp.QuestionsText),
	}
	if len(view.Questions) == 0 {
		view.RawText = resp.QuestionsText
	}
	return view
}
