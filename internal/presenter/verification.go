package presenter

import (
	"strconv"
	"strings"

	"github.com/dharsanguruparan/CareerCopilot/internal/model"
)

// Tier is the three-level color band of a credibility score.
type Tier struct {
	Name  string
	Color string
}

var (
	TierGreen = Tier{Name: "green", Color: "#10b981"}
	TierAmber = Tier{Name: "amber", Color: "#f59e0b"}
	TierRed   = Tier{Name: "red", Color: "#ef4444"}
)

// ScoreLabel maps a credibility score to its display label.
func ScoreLabel(score float64) string {
	switch {
	case score >= 90:
		return "Excellent"
	case score >= 80:
		return "Very Good"
	case score >= 70:
		return "Good"
	case score >= 60:
		return "Fair"
	default:
		return "Needs Review"
	}
}

// ScoreTier maps a credibility score to its color band.
func ScoreTier(score float64) Tier {
	switch {
	case score >= 80:
		return TierGreen
	case score >= 60:
		return TierAmber
	default:
		return TierRed
	}
}

// IssueView is an issue with display-ready field and status names.
type IssueView struct {
	Field  string
	Status string
	Class  string
	Detail string
}

// VerificationView is what the verification tab renders.
type VerificationView struct {
	Score          string
	Label          string
	Tier           Tier
	Issues         []IssueView
	Report         string
	RawTextPreview string
}

// Verification builds the view for a verification result.
func Verification(res model.VerificationResult) VerificationView {
	view := VerificationView{
		Score:          FormatNumber(res.Score),
		Label:          ScoreLabel(res.Score),
		Tier:           ScoreTier(res.Score),
		Report:         res.Report,
		RawTextPreview: res.RawTextPreview,
	}
	for _, issue := range res.Issues {
		view.Issues = append(view.Issues, IssueView{
			Field:  Humanize(issue.Field),
			Status: Humanize(issue.Status),
			Class:  "status-" + issue.Status,
			Detail: issue.Detail,
		})
	}
	return view
}

// Humanize replaces underscores with spaces.
func Humanize(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}

// HumanizeDocumentType renders a document type like "marksheet 10th".
func HumanizeDocumentType(t model.DocumentType) string {
	return Humanize(string(t))
}

// FormatNumber prints a score without trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
