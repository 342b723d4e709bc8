package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/dharsanguruparan/CareerCopilot/internal/model"
)

type recorded struct {
	method      string
	path        string
	contentType string
	body        map[string]any
}

func newTestServer(t *testing.T, status int, response string, rec *recorded) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rec != nil {
			rec.method = r.Method
			rec.path = r.URL.Path
			rec.contentType = r.Header.Get("Content-Type")
			data, _ := io.ReadAll(r.Body)
			if len(data) > 0 {
				_ = json.Unmarshal(data, &rec.body)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSignupSendsJSONBody(t *testing.T) {
	var rec recorded
	srv := newTestServer(t, http.StatusOK, `{"userId":"u1","refImageKey":"refs/u1/ref.jpg"}`, &rec)
	c := New(srv.URL+"/", nil, nil)

	resp, err := c.Signup(context.Background(), model.SignupRequest{UserID: "u1", Name: "Ada", ImageBase64: "AQID"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if resp.RefImageKey != "refs/u1/ref.jpg" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if rec.method != http.MethodPost || rec.path != "/signup" || rec.contentType != "application/json" {
		t.Fatalf("unexpected request %+v", rec)
	}
	if rec.body["userId"] != "u1" || rec.body["name"] != "Ada" || rec.body["image_base64"] != "AQID" {
		t.Fatalf("unexpected body %v", rec.body)
	}
}

func TestNon2xxBecomesTransportError(t *testing.T) {
	cases := []struct {
		name     string
		response string
		want     string
	}{
		{"message field", `{"message":"image_base64 required"}`, "image_base64 required"},
		{"error field", `{"error":"user not found"}`, "user not found"},
		{"no body", ``, "Signup failed"},
		{"html body", `<html>bad gateway</html>`, "Signup failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, http.StatusBadRequest, tc.response, nil)
			_, err := New(srv.URL, nil, nil).Signup(context.Background(), model.SignupRequest{})
			var te *TransportError
			if !errors.As(err, &te) {
				t.Fatalf("expected TransportError, got %v", err)
			}
			if te.StatusCode != http.StatusBadRequest || te.Message != tc.want || te.Route != RouteSignup {
				t.Fatalf("unexpected error %+v", te)
			}
		})
	}
}

func TestNetworkFaultBecomesTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, nil, nil).VerifyDocuments(context.Background(), model.VerificationRequest{})
	var te *TransportError
	if !errors.As(err, &te) || te.StatusCode != 0 {
		t.Fatalf("expected network TransportError, got %v", err)
	}
}

func TestLoginSuccess(t *testing.T) {
	var rec recorded
	srv := newTestServer(t, http.StatusOK, `{"success":true,"similarity":98.5,"token":"abc"}`, &rec)
	resp, err := New(srv.URL, nil, nil).LoginByFace(context.Background(), model.LoginRequest{UserID: "u1", ImageBase64: "AQID"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !resp.Success || resp.Token != "abc" || resp.Similarity != 98.5 {
		t.Fatalf("unexpected %+v", resp)
	}
	if rec.path != "/login/face" {
		t.Fatalf("path = %s", rec.path)
	}
}

func TestLoginSemanticFailureOn200(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"success":false,"similarity":42}`, nil)
	resp, err := New(srv.URL, nil, nil).LoginByFace(context.Background(), model.LoginRequest{UserID: "u1"})
	var ae *AuthError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if ae.Similarity != 42 || ae.StatusCode != http.StatusOK {
		t.Fatalf("unexpected %+v", ae)
	}
	if resp.Similarity != 42 || resp.Success {
		t.Fatalf("response should still be returned, got %+v", resp)
	}
	if !strings.Contains(err.Error(), "42") {
		t.Fatalf("error %q should mention similarity", err)
	}
}

func TestLoginRejectedWith401(t *testing.T) {
	srv := newTestServer(t, http.StatusUnauthorized, `{"success":false,"message":"Face not recognized"}`, nil)
	_, err := New(srv.URL, nil, nil).LoginByFace(context.Background(), model.LoginRequest{UserID: "u1"})
	var ae *AuthError
	if !errors.As(err, &ae) || ae.Message != "Face not recognized" {
		t.Fatalf("expected AuthError with message, got %v", err)
	}
}

func TestLoginMissingUserIsTransportError(t *testing.T) {
	srv := newTestServer(t, http.StatusNotFound, `{"error":"user not found"}`, nil)
	_, err := New(srv.URL, nil, nil).LoginByFace(context.Background(), model.LoginRequest{UserID: "ghost"})
	var te *TransportError
	if !errors.As(err, &te) || te.Message != "user not found" {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestGenerateResumeWrapsDraft(t *testing.T) {
	var rec recorded
	srv := newTestServer(t, http.StatusOK, `{"resume_id":"r1","s3_key":"resumes/r1.html","url":"https://example/r1"}`, &rec)
	resp, err := New(srv.URL, nil, nil).GenerateResume(context.Background(), model.ResumeDraft{Name: "Ada", Experience: []string{}})
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if resp.ResumeID != "r1" || resp.S3Key != "resumes/r1.html" || resp.URL != "https://example/r1" {
		t.Fatalf("unexpected %+v", resp)
	}
	user, ok := rec.body["user"].(map[string]any)
	if !ok || user["name"] != "Ada" {
		t.Fatalf("draft not wrapped in user: %v", rec.body)
	}
}

func TestVerifyDecodesResult(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"score":85,"issues":[{"field":"name","status":"not_found","detail":"missing"}],"report":"ok","raw_text_preview":"JOHN"}`, nil)
	res, err := New(srv.URL, nil, nil).VerifyDocuments(context.Background(), model.VerificationRequest{})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if res.Score != 85 || len(res.Issues) != 1 || res.Issues[0].Status != "not_found" || res.RawTextPreview != "JOHN" {
		t.Fatalf("unexpected %+v", res)
	}
}

func TestInvalidSuccessBody(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `not json`, nil)
	_, err := New(srv.URL, nil, nil).GenerateInterviewQuestions(context.Background(), model.InterviewRequest{})
	var te *TransportError
	if !errors.As(err, &te) || te.StatusCode != http.StatusOK {
		t.Fatalf("expected TransportError for undecodable body, got %v", err)
	}
}

func TestFetchMarkup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.Error(w, "gone", http.StatusForbidden)
			return
		}
		io.WriteString(w, "<html><body>resume</body></html>")
	}))
	defer srv.Close()
	c := New("http://unused", nil, nil)

	markup, err := c.FetchMarkup(context.Background(), srv.URL+"/r1.html")
	if err != nil || !strings.Contains(markup, "resume") {
		t.Fatalf("fetch: %q %v", markup, err)
	}
	if _, err := c.FetchMarkup(context.Background(), srv.URL+"/missing"); err == nil {
		t.Fatal("expected error for expired url")
	}
}

func TestMetricsRecorded(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	srv := newTestServer(t, http.StatusOK, `{"success":false,"similarity":10}`, nil)
	c := New(srv.URL, nil, m)
	_, _ = c.LoginByFace(context.Background(), model.LoginRequest{})
	if got := testutil.ToFloat64(m.requests.WithLabelValues(RouteLogin, outcomeRejected)); got != 1 {
		t.Fatalf("rejected login counter = %v", got)
	}
}
