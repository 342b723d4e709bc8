package copilot

import (
	"github.com/dharsanguruparan/CareerCopilot/internal/model"
	"github.com/dharsanguruparan/CareerCopilot/internal/payload"
	"github.com/dharsanguruparan/CareerCopilot/internal/presenter"
)

// Tab is a section of the console.
type Tab string

const (
	TabAuth         Tab = "auth"
	TabInterview    Tab = "interview"
	TabResume       Tab = "resume"
	TabVerification Tab = "verification"
)

// Tabs lists the sections in display order.
var Tabs = []Tab{TabAuth, TabInterview, TabResume, TabVerification}

// ParseTab resolves a tab name.
func ParseTab(name string) (Tab, bool) {
	for _, t := range Tabs {
		if string(t) == name {
			return t, true
		}
	}
	return "", false
}

// Protected reports whether the tab needs a session.
func (t Tab) Protected() bool {
	return t != TabAuth
}

// AuthForm holds the signup and login section.
type AuthForm struct {
	UserID string
	Name   string
	Signup *presenter.SignupView
	Login  *presenter.LoginView
	Error  string
}

// InterviewForm holds the interview section.
type InterviewForm struct {
	Company string
	Role    string
	Count   string
	Result  *presenter.InterviewView
	Error   string
}

// ResumeForm holds the resume section. Text is the readable view of the
// generated page once fetched; Artifact is the latest export.
type ResumeForm struct {
	Fields   payload.ResumeFields
	Result   *presenter.ResumeView
	Text     string
	Artifact *model.Artifact
	Error    string
}

// VerificationForm holds the verification section.
type VerificationForm struct {
	Fields payload.VerificationFields
	Result *presenter.VerificationView
	Error  string
}

// State is a snapshot of everything a front end renders.
type State struct {
	Tab          Tab
	Session      model.Session
	LoggedIn     bool
	Auth         AuthForm
	Interview    InterviewForm
	Resume       ResumeForm
	Verification VerificationForm
	Documents    []model.DocumentRecord
}
