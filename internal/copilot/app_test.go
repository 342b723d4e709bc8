package copilot

import (
	"context"
	"encoding/base64"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dharsanguruparan/CareerCopilot/internal/client"
	"github.com/dharsanguruparan/CareerCopilot/internal/model"
	"github.com/dharsanguruparan/CareerCopilot/internal/payload"
	"github.com/dharsanguruparan/CareerCopilot/internal/session"
)

type fakeAPI struct {
	mu    sync.Mutex
	calls int

	login     model.LoginResponse
	loginErr  error
	interview model.InterviewResponse
	resume    model.ResumeResponse
	verify    model.VerificationResult
	err       error
	block     chan struct{}

	lastSignup model.SignupRequest
	lastResume model.ResumeDraft
	lastVerify model.VerificationRequest
}

func (f *fakeAPI) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeAPI) hit() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
}

func (f *fakeAPI) Signup(_ context.Context, req model.SignupRequest) (model.SignupResponse, error) {
	f.hit()
	f.lastSignup = req
	return model.SignupResponse{UserID: req.UserID, RefImageKey: "ref/" + req.UserID + ".jpg"}, f.err
}

func (f *fakeAPI) LoginByFace(context.Context, model.LoginRequest) (model.LoginResponse, error) {
	f.hit()
	return f.login, f.loginErr
}

func (f *fakeAPI) GenerateInterviewQuestions(_ context.Context, req model.InterviewRequest) (model.InterviewResponse, error) {
	f.hit()
	resp := f.interview
	resp.Company, resp.Role = req.Company, req.Role
	return resp, f.err
}

func (f *fakeAPI) GenerateResume(_ context.Context, draft model.ResumeDraft) (model.ResumeResponse, error) {
	f.hit()
	f.lastResume = draft
	return f.resume, f.err
}

func (f *fakeAPI) VerifyDocuments(_ context.Context, req model.VerificationRequest) (model.VerificationResult, error) {
	f.hit()
	f.lastVerify = req
	return f.verify, f.err
}

func (f *fakeAPI) FetchMarkup(context.Context, string) (string, error) {
	f.hit()
	return "<html><body><p>resume</p></body></html>", f.err
}

var face = &model.UploadedFile{Filename: "face.jpg", Data: []byte("jpeg-bytes")}

func loggedIn(t *testing.T, api *fakeAPI, opts ...Option) *App {
	t.Helper()
	api.login = model.LoginResponse{Success: true, Similarity: 97.2, Token: "tok"}
	app := New(api, opts...)
	if _, err := app.Login(context.Background(), "alice", face); err != nil {
		t.Fatalf("login: %v", err)
	}
	return app
}

func TestSignupValidationNeverDispatches(t *testing.T) {
	api := &fakeAPI{}
	app := New(api)
	_, err := app.Signup(context.Background(), "  ", "", face)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Message != "Please enter a userId and upload a reference image" {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := app.Signup(context.Background(), "alice", "", nil); !errors.As(err, &verr) {
		t.Fatalf("expected validation error for missing image, got %v", err)
	}
	if api.count() != 0 {
		t.Fatalf("validation failures must not reach the API")
	}
	if app.State().Auth.Error == "" {
		t.Fatalf("expected inline error")
	}
}

func TestSignupBuildsRequest(t *testing.T) {
	api := &fakeAPI{}
	app := New(api)
	view, err := app.Signup(context.Background(), " alice ", "", face)
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if api.lastSignup.Name != "alice" || api.lastSignup.UserID != "alice" {
		t.Fatalf("unexpected request %+v", api.lastSignup)
	}
	if api.lastSignup.ImageBase64 != base64.StdEncoding.EncodeToString(face.Data) {
		t.Fatalf("image not encoded")
	}
	if view.RefImageKey != "ref/alice.jpg" {
		t.Fatalf("unexpected view %+v", view)
	}
}

func TestSignupFailureMessage(t *testing.T) {
	api := &fakeAPI{err: &client.TransportError{Route: client.RouteSignup, StatusCode: 400, Message: "User exists"}}
	app := New(api)
	_, err := app.Signup(context.Background(), "alice", "", face)
	if err == nil || err.Error() != "Signup failed: User exists" {
		t.Fatalf("unexpected error %v", err)
	}
	var terr *client.TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected wrapped transport error")
	}
}

func TestLoginSuccessSwitchesTab(t *testing.T) {
	app := loggedIn(t, &fakeAPI{})
	st := app.State()
	if !st.LoggedIn || st.Session.UserID != "alice" || st.Session.Token != "tok" {
		t.Fatalf("expected session, got %+v", st.Session)
	}
	if st.Tab != TabInterview {
		t.Fatalf("expected interview tab, got %s", st.Tab)
	}
}

func TestLoginRejectedShowsSimilarity(t *testing.T) {
	api := &fakeAPI{
		login:    model.LoginResponse{Success: false, Similarity: 42},
		loginErr: &client.AuthError{StatusCode: 401, Similarity: 42},
	}
	app := New(api)
	view, err := app.Login(context.Background(), "alice", face)
	if err == nil || err.Error() != "Login failed. Similarity: 42%" {
		t.Fatalf("unexpected error %v", err)
	}
	var aerr *client.AuthError
	if !errors.As(err, &aerr) {
		t.Fatalf("expected AuthError in chain")
	}
	if view.Similarity != "42" {
		t.Fatalf("expected similarity in view, got %+v", view)
	}
	st := app.State()
	if st.LoggedIn || st.Tab != TabAuth {
		t.Fatalf("rejected login must not change session or tab")
	}
}

func TestLoginTransportFailureClearsPreviousResult(t *testing.T) {
	api := &fakeAPI{
		login:    model.LoginResponse{Success: false, Similarity: 42},
		loginErr: &client.AuthError{StatusCode: 401, Similarity: 42},
	}
	app := New(api)
	if _, err := app.Login(context.Background(), "alice", face); err == nil {
		t.Fatalf("expected rejected login")
	}
	if app.State().Auth.Login == nil {
		t.Fatalf("expected similarity view after rejection")
	}

	api.loginErr = &client.TransportError{Route: "/login/face", StatusCode: 502, Message: "bad gateway"}
	_, err := app.Login(context.Background(), "alice", face)
	if err == nil || err.Error() != "Login failed: bad gateway" {
		t.Fatalf("unexpected error %v", err)
	}
	st := app.State()
	if st.Auth.Login != nil {
		t.Fatalf("stale login view kept: %+v", st.Auth.Login)
	}
	if st.Auth.Error != "Login failed: bad gateway" {
		t.Fatalf("unexpected inline error %q", st.Auth.Error)
	}
}

func TestProtectedActionsRequireSession(t *testing.T) {
	api := &fakeAPI{}
	app := New(api)
	ctx := context.Background()
	if _, err := app.GenerateInterview(ctx, "Amazon", "SDE", "5"); !errors.Is(err, session.ErrNotLoggedIn) {
		t.Fatalf("interview: expected ErrNotLoggedIn, got %v", err)
	}
	if _, err := app.GenerateResume(ctx, payload.ResumeFields{Name: "A", Email: "a@x"}); !errors.Is(err, session.ErrNotLoggedIn) {
		t.Fatalf("resume: expected ErrNotLoggedIn, got %v", err)
	}
	app.AddDocument(model.DocDegree, model.UploadedFile{Filename: "d.pdf", Data: []byte("x")})
	if _, err := app.Verify(ctx, payload.VerificationFields{Name: "A"}); !errors.Is(err, session.ErrNotLoggedIn) {
		t.Fatalf("verify: expected ErrNotLoggedIn, got %v", err)
	}
	if api.count() != 0 {
		t.Fatalf("no request should be sent while logged out")
	}
}

func TestGenerateInterview(t *testing.T) {
	api := &fakeAPI{interview: model.InterviewResponse{QuestionsText: "1. What is a hash map?\n2. Explain REST."}}
	app := loggedIn(t, api)
	if _, err := app.GenerateInterview(context.Background(), "Amazon", "", "5"); err == nil || err.Error() != "Please select both company and role" {
		t.Fatalf("expected validation error, got %v", err)
	}
	view, err := app.GenerateInterview(context.Background(), "Amazon", "SDE", "")
	if err != nil {
		t.Fatalf("interview: %v", err)
	}
	if len(view.Questions) != 2 || view.Company != "Amazon" {
		t.Fatalf("unexpected view %+v", view)
	}
	if app.State().Interview.Result == nil {
		t.Fatalf("result not kept in state")
	}
}

func TestGenerateResumeAppliesDefaults(t *testing.T) {
	api := &fakeAPI{resume: model.ResumeResponse{ResumeID: "r1", URL: "https://example.com/r1"}}
	app := loggedIn(t, api)
	if _, err := app.GenerateResume(context.Background(), payload.ResumeFields{Name: "A"}); err == nil {
		t.Fatalf("expected validation error without email")
	}
	view, err := app.GenerateResume(context.Background(), payload.ResumeFields{Name: "A", Email: "a@example.com"})
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if view.ResumeID != "r1" {
		t.Fatalf("unexpected view %+v", view)
	}
	if len(api.lastResume.Skills) != 2 || api.lastResume.Summary != payload.DefaultSummary {
		t.Fatalf("defaults not applied: %+v", api.lastResume)
	}
}

func TestVerifyEncodesDocumentsInOrder(t *testing.T) {
	api := &fakeAPI{verify: model.VerificationResult{Score: 65, Report: "ok"}}
	app := loggedIn(t, api)
	ctx := context.Background()

	if _, err := app.Verify(ctx, payload.VerificationFields{Name: "A"}); err == nil || err.Error() != "Please upload at least one document" {
		t.Fatalf("expected missing documents error, got %v", err)
	}
	app.AddDocument(model.DocMarksheet10th, model.UploadedFile{Filename: "a.pdf", Data: []byte("a")})
	app.AddDocument(model.DocDegree, model.UploadedFile{Filename: "b.pdf", Data: []byte("b")})
	app.AddDocument(model.DocMarksheet10th, model.UploadedFile{Filename: "c.pdf", Data: []byte("c")})

	view, err := app.Verify(ctx, payload.VerificationFields{Name: "A", Tenth: "92"})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	docs := api.lastVerify.Documents
	if len(docs) != 2 || docs[0].Filename != "c.pdf" || docs[1].Type != model.DocDegree {
		t.Fatalf("unexpected documents %+v", docs)
	}
	if docs[0].Base64 != base64.StdEncoding.EncodeToString([]byte("c")) {
		t.Fatalf("document not encoded")
	}
	if view.Label != "Fair" {
		t.Fatalf("unexpected label %q", view.Label)
	}
}

func TestInFlightRejectsSameClass(t *testing.T) {
	api := &fakeAPI{interview: model.InterviewResponse{QuestionsText: "1. Q"}}
	app := loggedIn(t, api)
	api.block = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := app.GenerateInterview(context.Background(), "Amazon", "SDE", "3")
		done <- err
	}()
	deadline := time.Now().Add(2 * time.Second)
	for !app.Busy(session.ActionInterview) {
		if time.Now().After(deadline) {
			t.Fatalf("first request never started")
		}
		time.Sleep(time.Millisecond)
	}
	if _, err := app.GenerateInterview(context.Background(), "Google", "SDE", "3"); !errors.Is(err, session.ErrInFlight) {
		t.Fatalf("expected ErrInFlight, got %v", err)
	}
	close(api.block)
	if err := <-done; err != nil {
		t.Fatalf("first request: %v", err)
	}
}

type fakeExporter struct {
	resumeID, url string
}

func (f *fakeExporter) Submit(_ context.Context, resumeID, url string) (model.Artifact, error) {
	f.resumeID, f.url = resumeID, url
	return model.Artifact{ID: "a1", SourceID: resumeID, Status: model.ArtifactQueued}, nil
}

func TestExportResume(t *testing.T) {
	api := &fakeAPI{resume: model.ResumeResponse{ResumeID: "r1", URL: "https://example.com/r1"}}
	exp := &fakeExporter{}
	app := loggedIn(t, api, WithExporter(exp))
	ctx := context.Background()

	var verr *ValidationError
	if _, err := app.ExportResume(ctx); !errors.As(err, &verr) {
		t.Fatalf("expected validation error before generation, got %v", err)
	}
	if _, err := app.GenerateResume(ctx, payload.ResumeFields{Name: "A", Email: "a@x"}); err != nil {
		t.Fatalf("resume: %v", err)
	}
	artifact, err := app.ExportResume(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if exp.resumeID != "r1" || exp.url != "https://example.com/r1" || artifact.ID != "a1" {
		t.Fatalf("unexpected export %+v %+v", exp, artifact)
	}
	if app.State().Resume.Artifact == nil {
		t.Fatalf("artifact not kept in state")
	}
}

func TestExportWithoutExporter(t *testing.T) {
	api := &fakeAPI{resume: model.ResumeResponse{ResumeID: "r1", URL: "u"}}
	app := loggedIn(t, api)
	if _, err := app.GenerateResume(context.Background(), payload.ResumeFields{Name: "A", Email: "a@x"}); err != nil {
		t.Fatalf("resume: %v", err)
	}
	_, err := app.ExportResume(context.Background())
	if !errors.Is(err, ErrExportDisabled) {
		t.Fatalf("expected ErrExportDisabled, got %v", err)
	}
	if err.Error() != "Failed to download PDF: "+ErrExportDisabled.Error() {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestLogoutResetsState(t *testing.T) {
	app := loggedIn(t, &fakeAPI{})
	app.AddDocument(model.DocDegree, model.UploadedFile{Filename: "d.pdf"})
	app.SetTab(TabVerification)
	app.Logout()
	st := app.State()
	if st.LoggedIn || st.Tab != TabAuth || len(st.Documents) != 0 {
		t.Fatalf("unexpected state after logout %+v", st)
	}
}

func TestTabs(t *testing.T) {
	if TabAuth.Protected() || !TabResume.Protected() {
		t.Fatalf("unexpected protection flags")
	}
	if tab, ok := ParseTab("verification"); !ok || tab != TabVerification {
		t.Fatalf("ParseTab failed")
	}
	if _, ok := ParseTab("admin"); ok {
		t.Fatalf("unknown tab accepted")
	}
}

func TestLogoutDropsLateResult(t *testing.T) {
	api := &fakeAPI{interview: model.InterviewResponse{QuestionsText: "1. Q"}}
	app := loggedIn(t, api)
	api.block = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := app.GenerateInterview(context.Background(), "Amazon", "SDE", "3")
		done <- err
	}()
	deadline := time.Now().Add(2 * time.Second)
	for !app.Busy(session.ActionInterview) || api.count() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("request never started")
		}
		time.Sleep(time.Millisecond)
	}
	app.Logout()
	close(api.block)

	if err := <-done; !errors.Is(err, ErrSessionEnded) {
		t.Fatalf("expected ErrSessionEnded, got %v", err)
	}
	st := app.State()
	if st.Interview.Result != nil || st.Interview.Error != "" {
		t.Fatalf("late response leaked into logged-out state: %+v", st.Interview)
	}
}

func TestLogoutDropsLateFailure(t *testing.T) {
	api := &fakeAPI{}
	app := loggedIn(t, api)
	api.err = &client.TransportError{Route: "/verify", StatusCode: 500, Message: "boom"}
	api.block = make(chan struct{})
	app.AddDocument(model.DocDegree, model.UploadedFile{Filename: "d.pdf", Data: []byte("x")})

	done := make(chan error, 1)
	go func() {
		_, err := app.Verify(context.Background(), payload.VerificationFields{Name: "A"})
		done <- err
	}()
	deadline := time.Now().Add(2 * time.Second)
	for !app.Busy(session.ActionVerify) || api.count() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("request never started")
		}
		time.Sleep(time.Millisecond)
	}
	app.Logout()
	close(api.block)

	if err := <-done; err == nil {
		t.Fatalf("expected the failure to be returned")
	}
	if msg := app.State().Verification.Error; msg != "" {
		t.Fatalf("late failure shown after logout: %q", msg)
	}
}
