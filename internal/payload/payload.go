// Package payload normalizes raw form input into request bodies.
package payload

import (
	"strconv"
	"strings"

	"github.com/dharsanguruparan/CareerCopilot/internal/model"
)

// Defaults substituted when a resume field resolves to empty. Experience has
// no default.
var (
	DefaultEducation = []string{"Bachelor of Technology"}
	DefaultSkills    = []string{"Python", "JavaScript"}
	DefaultProjects  = []string{"Personal projects"}
)

// DefaultSummary replaces a blank professional summary.
const DefaultSummary = "Enthusiastic professional seeking opportunities"

const (
	MinQuestions     = 1
	MaxQuestions     = 10
	DefaultQuestions = 5
)

// ResumeFields is the raw content of the resume form. List fields hold
// comma- or newline-separated text.
type ResumeFields struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Summary    string `json:"summary"`
	Education  string `json:"education"`
	Skills     string `json:"skills"`
	Projects   string `json:"projects"`
	Experience string `json:"experience"`
}

// VerificationFields is the raw content of the verification form.
type VerificationFields struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Education string `json:"education"`
	Tenth     string `json:"tenth"`
	Twelfth   string `json:"twelfth"`
}

// SplitList splits text on newlines and commas, trims every entry and drops
// the empty ones. Order and duplicates are preserved. The result is never nil.
func SplitList(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == ','
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func listOr(text string, def []string) []string {
	list := SplitList(text)
	if len(list) == 0 && def != nil {
		return append([]string(nil), def...)
	}
	return list
}

// BuildResume trims the scalar fields and resolves the list fields,
// substituting defaults for empty education, skills and projects.
func BuildResume(f ResumeFields) model.ResumeDraft {
	summary := strings.TrimSpace(f.Summary)
	if summary == "" {
		summary = DefaultSummary
	}
	return model.ResumeDraft{
		Name:       strings.TrimSpace(f.Name),
		Email:      strings.TrimSpace(f.Email),
		Phone:      strings.TrimSpace(f.Phone),
		Summary:    summary,
		Education:  listOr(f.Education, DefaultEducation),
		Skills:     listOr(f.Skills, DefaultSkills),
		Projects:   listOr(f.Projects, DefaultProjects),
		Experience: listOr(f.Experience, nil),
	}
}

// BuildVerificationResume builds the resume half of a verification request.
// Education has no default here.
func BuildVerificationResume(f VerificationFields) model.VerificationResume {
	return model.VerificationResume{
		Name:      strings.TrimSpace(f.Name),
		Email:     strings.TrimSpace(f.Email),
		Education: SplitList(f.Education),
		Scores: model.Scores{
			Tenth:   strings.TrimSpace(f.Tenth),
			Twelfth: strings.TrimSpace(f.Twelfth),
		},
	}
}

// BuildSignup trims the identity fields; a blank name falls back to the
// user id.
func BuildSignup(userID, name, imageBase64 string) model.SignupRequest {
	userID = strings.TrimSpace(userID)
	name = strings.TrimSpace(name)
	if name == "" {
		name = userID
	}
	return model.SignupRequest{UserID: userID, Name: name, ImageBase64: imageBase64}
}

// BuildLogin trims the user id.
func BuildLogin(userID, imageBase64 string) model.LoginRequest {
	return model.LoginRequest{UserID: strings.TrimSpace(userID), ImageBase64: imageBase64}
}

// BuildInterview trims company and role and resolves the question count.
func BuildInterview(company, role, count string) model.InterviewRequest {
	return model.InterviewRequest{
		Company:      strings.TrimSpace(company),
		Role:         strings.TrimSpace(role),
		NumQuestions: QuestionCount(count),
	}
}

// QuestionCount parses the requested number of questions. Unparsable or
// zero input falls back to DefaultQuestions; anything else is clamped into
// [MinQuestions, MaxQuestions].
func QuestionCount(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n == 0 {
		return DefaultQuestions
	}
	if n < MinQuestions {
		return MinQuestions
	}
	if n > MaxQuestions {
		return MaxQuestions
	}
	return n
}
