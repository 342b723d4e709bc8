// Package copilot runs the user-facing actions: it validates form input,
// builds and encodes the request, dispatches it and keeps the presented
// result as per-section state.
package copilot

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/dharsanguruparan/CareerCopilot/internal/client"
	"github.com/dharsanguruparan/CareerCopilot/internal/documents"
	"github.com/dharsanguruparan/CareerCopilot/internal/encoder"
	"github.com/dharsanguruparan/CareerCopilot/internal/model"
	"github.com/dharsanguruparan/CareerCopilot/internal/payload"
	"github.com/dharsanguruparan/CareerCopilot/internal/presenter"
	"github.com/dharsanguruparan/CareerCopilot/internal/session"
)

// ErrExportDisabled is returned by ExportResume when no exporter is set.
var ErrExportDisabled = errors.New("pdf export is not configured")

// ErrSessionEnded is returned by an action whose response arrived after the
// session it ran under was logged out or replaced. The response is dropped.
var ErrSessionEnded = errors.New("session ended before the response arrived")

// Exporter schedules a PDF export of a generated resume.
type Exporter interface {
	Submit(ctx context.Context, resumeID, url string) (model.Artifact, error)
}

// App holds one user's session and form state.
type App struct {
	api      client.Dispatcher
	parser   presenter.QuestionParser
	exporter Exporter

	sessions *session.Store
	guard    *session.Guard
	docs     *documents.Collection

	mu           sync.Mutex
	generation   uint64
	tab          Tab
	auth         AuthForm
	interview    InterviewForm
	resume       ResumeForm
	verification VerificationForm
}

// Option configures an App.
type Option func(*App)

// WithParser replaces the interview question parser.
func WithParser(p presenter.QuestionParser) Option {
	return func(a *App) { a.parser = p }
}

// WithExporter enables ExportResume.
func WithExporter(e Exporter) Option {
	return func(a *App) { a.exporter = e }
}

// New returns a logged-out App on the auth tab.
func New(api client.Dispatcher, opts ...Option) *App {
	a := &App{
		api:      api,
		parser:   presenter.NumberedParser{},
		sessions: session.NewStore(),
		guard:    session.NewGuard(),
		docs:     documents.NewCollection(),
		tab:      TabAuth,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Sessions exposes the session store.
func (a *App) Sessions() *session.Store { return a.sessions }

// Busy reports whether an action of the given class is in flight.
func (a *App) Busy(action session.Action) bool { return a.guard.Busy(action) }

// SetTab switches the active tab. Protected tabs may be selected while
// logged out; front ends show the authentication notice instead.
func (a *App) SetTab(t Tab) {
	a.mu.Lock()
	a.tab = t
	a.mu.Unlock()
}

// State returns a snapshot for rendering.
func (a *App) State() State {
	sess, ok := a.sessions.Current()
	a.mu.Lock()
	defer a.mu.Unlock()
	return State{
		Tab:          a.tab,
		Session:      sess,
		LoggedIn:     ok,
		Auth:         a.auth,
		Interview:    a.interview,
		Resume:       a.resume,
		Verification: a.verification,
		Documents:    a.docs.List(),
	}
}

// record stores err as the inline message of a section and returns it.
func (a *App) record(field *string, err error) error {
	a.mu.Lock()
	*field = err.Error()
	a.mu.Unlock()
	return err
}

// current returns the session generation. Logout and login bump it.
func (a *App) current() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.generation
}

// settle records err like record, unless the session changed since gen.
func (a *App) settle(gen uint64, field *string, err error) error {
	a.mu.Lock()
	if a.generation == gen {
		*field = err.Error()
	}
	a.mu.Unlock()
	return err
}

// commit applies fn to the form state unless the session changed since gen.
func (a *App) commit(gen uint64, fn func()) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.generation != gen {
		return ErrSessionEnded
	}
	fn()
	return nil
}

// Signup registers the reference face image for userID.
func (a *App) Signup(ctx context.Context, userID, name string, image *model.UploadedFile) (presenter.SignupView, error) {
	ticket, err := a.guard.Begin(session.ActionSignup)
	if err != nil {
		return presenter.SignupView{}, err
	}
	defer ticket.Done()

	a.mu.Lock()
	a.auth.UserID, a.auth.Name, a.auth.Error = userID, name, ""
	a.mu.Unlock()

	if strings.TrimSpace(userID) == "" || image == nil {
		return presenter.SignupView{}, a.record(&a.auth.Error, &ValidationError{Message: "Please enter a userId and upload a reference image"})
	}
	req := payload.BuildSignup(userID, name, encoder.EncodeBytes(image.Data))
	resp, err := a.api.Signup(ctx, req)
	if err != nil {
		return presenter.SignupView{}, a.record(&a.auth.Error, failed(session.ActionSignup, "Signup failed: ", err))
	}
	view := presenter.Signup(resp)
	a.mu.Lock()
	a.auth.Signup = &view
	a.mu.Unlock()
	return view, nil
}

// Login compares image with the reference face of userID. On success the
// session is established and the interview tab becomes active.
func (a *App) Login(ctx context.Context, userID string, image *model.UploadedFile) (presenter.LoginView, error) {
	ticket, err := a.guard.Begin(session.ActionLogin)
	if err != nil {
		return presenter.LoginView{}, err
	}
	defer ticket.Done()

	a.mu.Lock()
	a.auth.UserID, a.auth.Error, a.auth.Login = userID, "", nil
	a.mu.Unlock()

	if strings.TrimSpace(userID) == "" || image == nil {
		return presenter.LoginView{}, a.record(&a.auth.Error, &ValidationError{Message: "Please enter a userId and upload a login image"})
	}
	req := payload.BuildLogin(userID, encoder.EncodeBytes(image.Data))
	resp, err := a.api.LoginByFace(ctx, req)

	var authErr *client.AuthError
	switch {
	case errors.As(err, &authErr):
		view := presenter.Login(resp)
		a.mu.Lock()
		a.auth.Login = &view
		a.mu.Unlock()
		return view, a.record(&a.auth.Error, &ActionError{
			Action:  session.ActionLogin,
			Message: presenter.LoginFailureMessage(authErr.Similarity),
			Err:     err,
		})
	case err != nil:
		return presenter.LoginView{}, a.record(&a.auth.Error, failed(session.ActionLogin, "Login failed: ", err))
	}

	view := presenter.Login(resp)
	a.sessions.Login(req.UserID, resp.Token)
	a.mu.Lock()
	a.auth.Login = &view
	a.tab = TabInterview
	a.generation++
	a.mu.Unlock()
	return view, nil
}

// Logout drops the session, clears the protected sections and returns to
// the auth tab.
func (a *App) Logout() {
	a.sessions.Logout()
	a.docs.Reset()
	a.mu.Lock()
	a.generation++
	a.tab = TabAuth
	a.auth = AuthForm{}
	a.interview = InterviewForm{}
	a.resume = ResumeForm{}
	a.verification = VerificationForm{}
	a.mu.Unlock()
}

// GenerateInterview asks for practice questions for a company and role.
func (a *App) GenerateInterview(ctx context.Context, company, role, count string) (presenter.InterviewView, error) {
	ticket, err := a.guard.Begin(session.ActionInterview)
	if err != nil {
		return presenter.InterviewView{}, err
	}
	defer ticket.Done()

	a.mu.Lock()
	a.interview.Company, a.interview.Role, a.interview.Count, a.interview.Error = company, role, count, ""
	a.mu.Unlock()

	if strings.TrimSpace(company) == "" || strings.TrimSpace(role) == "" {
		return presenter.InterviewView{}, a.record(&a.interview.Error, &ValidationError{Message: "Please select both company and role"})
	}
	gen := a.current()
	if _, err := a.sessions.Require(); err != nil {
		return presenter.InterviewView{}, a.record(&a.interview.Error, err)
	}
	resp, err := a.api.GenerateInterviewQuestions(ctx, payload.BuildInterview(company, role, count))
	if err != nil {
		return presenter.InterviewView{}, a.settle(gen, &a.interview.Error, failed(session.ActionInterview, "Failed to generate interview questions: ", err))
	}
	view := presenter.Interview(resp, a.parser)
	if err := a.commit(gen, func() { a.interview.Result = &view }); err != nil {
		return presenter.InterviewView{}, err
	}
	return view, nil
}

// GenerateResume sends the resume form and keeps the link to the page.
func (a *App) GenerateResume(ctx context.Context, fields payload.ResumeFields) (presenter.ResumeView, error) {
	ticket, err := a.guard.Begin(session.ActionResume)
	if err != nil {
		return presenter.ResumeView{}, err
	}
	defer ticket.Done()

	a.mu.Lock()
	a.resume.Fields, a.resume.Error = fields, ""
	a.mu.Unlock()

	if strings.TrimSpace(fields.Name) == "" || strings.TrimSpace(fields.Email) == "" {
		return presenter.ResumeView{}, a.record(&a.resume.Error, &ValidationError{Message: "Please provide at least name and email"})
	}
	gen := a.current()
	if _, err := a.sessions.Require(); err != nil {
		return presenter.ResumeView{}, a.record(&a.resume.Error, err)
	}
	resp, err := a.api.GenerateResume(ctx, payload.BuildResume(fields))
	if err != nil {
		return presenter.ResumeView{}, a.settle(gen, &a.resume.Error, failed(session.ActionResume, "Failed to generate resume: ", err))
	}
	view := presenter.Resume(resp)
	err = a.commit(gen, func() {
		a.resume.Result = &view
		a.resume.Text = ""
		a.resume.Artifact = nil
	})
	if err != nil {
		return presenter.ResumeView{}, err
	}
	return view, nil
}

// ResumeText fetches the generated page and returns its readable text.
func (a *App) ResumeText(ctx context.Context) (string, error) {
	a.mu.Lock()
	result := a.resume.Result
	a.resume.Error = ""
	a.mu.Unlock()
	if result == nil {
		return "", a.record(&a.resume.Error, &ValidationError{Message: "Generate a resume first"})
	}
	gen := a.current()
	if _, err := a.sessions.Require(); err != nil {
		return "", a.record(&a.resume.Error, err)
	}
	markup, err := a.api.FetchMarkup(ctx, result.URL)
	if err != nil {
		return "", a.settle(gen, &a.resume.Error, failed(session.ActionResume, "Failed to load resume: ", err))
	}
	_, text, err := presenter.ReadableText(markup, result.URL)
	if err != nil {
		return "", a.settle(gen, &a.resume.Error, failed(session.ActionResume, "Failed to load resume: ", err))
	}
	if err := a.commit(gen, func() { a.resume.Text = text }); err != nil {
		return "", err
	}
	return text, nil
}

// ExportResume schedules a PDF export of the last generated resume.
func (a *App) ExportResume(ctx context.Context) (model.Artifact, error) {
	ticket, err := a.guard.Begin(session.ActionExport)
	if err != nil {
		return model.Artifact{}, err
	}
	defer ticket.Done()

	a.mu.Lock()
	result := a.resume.Result
	a.resume.Error = ""
	a.mu.Unlock()

	if result == nil {
		return model.Artifact{}, a.record(&a.resume.Error, &ValidationError{Message: "Generate a resume first"})
	}
	gen := a.current()
	if _, err := a.sessions.Require(); err != nil {
		return model.Artifact{}, a.record(&a.resume.Error, err)
	}
	if a.exporter == nil {
		return model.Artifact{}, a.record(&a.resume.Error, failed(session.ActionExport, "Failed to download PDF: ", ErrExportDisabled))
	}
	artifact, err := a.exporter.Submit(ctx, result.ResumeID, result.URL)
	if err != nil {
		return model.Artifact{}, a.settle(gen, &a.resume.Error, failed(session.ActionExport, "Failed to download PDF: ", err))
	}
	if err := a.commit(gen, func() { a.resume.Artifact = &artifact }); err != nil {
		return model.Artifact{}, err
	}
	return artifact, nil
}

// AddDocument stages a file for verification, replacing any file of the
// same type.
func (a *App) AddDocument(docType model.DocumentType, file model.UploadedFile) {
	a.docs.AddOrReplace(docType, file)
}

// RemoveDocument drops the staged document at index.
func (a *App) RemoveDocument(index int) error {
	return a.docs.Remove(index)
}

// Documents lists the staged documents in order.
func (a *App) Documents() []model.DocumentRecord {
	return a.docs.List()
}

// Verify submits the candidate details and staged documents for a
// credibility check.
func (a *App) Verify(ctx context.Context, fields payload.VerificationFields) (presenter.VerificationView, error) {
	ticket, err := a.guard.Begin(session.ActionVerify)
	if err != nil {
		return presenter.VerificationView{}, err
	}
	defer ticket.Done()

	a.mu.Lock()
	a.verification.Fields, a.verification.Error = fields, ""
	a.mu.Unlock()

	if strings.TrimSpace(fields.Name) == "" {
		return presenter.VerificationView{}, a.record(&a.verification.Error, &ValidationError{Message: "Please provide at least your name"})
	}
	docs := a.docs.List()
	if len(docs) == 0 {
		return presenter.VerificationView{}, a.record(&a.verification.Error, &ValidationError{Message: "Please upload at least one document"})
	}
	gen := a.current()
	if _, err := a.sessions.Require(); err != nil {
		return presenter.VerificationView{}, a.record(&a.verification.Error, err)
	}

	req := model.VerificationRequest{
		Resume:    payload.BuildVerificationResume(fields),
		Documents: make([]model.DocumentPayload, 0, len(docs)),
	}
	for _, doc := range docs {
		req.Documents = append(req.Documents, model.DocumentPayload{
			Type:     doc.Type,
			Filename: doc.File.Filename,
			Base64:   encoder.EncodeBytes(doc.File.Data),
		})
	}
	result, err := a.api.VerifyDocuments(ctx, req)
	if err != nil {
		return presenter.VerificationView{}, a.settle(gen, &a.verification.Error, failed(session.ActionVerify, "Verification failed: ", err))
	}
	view := presenter.Verification(result)
	if err := a.commit(gen, func() { a.verification.Result = &view }); err != nil {
		return presenter.VerificationView{}, err
	}
	return view, nil
}
