package presenter

import (
	"fmt"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"

	"github.com/dharsanguruparan/CareerCopilot/internal/model"
)

// ResumeView is shown after a resume was generated.
type ResumeView struct {
	ResumeID string
	S3Key    string
	URL      string
}

// Resume builds the resume view.
func Resume(resp model.ResumeResponse) ResumeView {
	return ResumeView{ResumeID: resp.ResumeID, S3Key: resp.S3Key, URL: resp.URL}
}

// ReadableText extracts the title and plain text of generated resume
// markup, for terminals that cannot render HTML.
func ReadableText(markup, pageURL string) (string, string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		u = &url.URL{}
	}
	article, err := readability.FromReader(strings.NewReader(markup), u)
	if err != nil {
		return "", "", fmt.Errorf("extract resume text: %w", err)
	}
	return strings.TrimSpace(article.Title), strings.TrimSpace(article.TextContent), nil
}
