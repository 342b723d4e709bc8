package server

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dharsanguruparan/CareerCopilot/internal/copilot"
	"github.com/dharsanguruparan/CareerCopilot/internal/documents"
	"github.com/dharsanguruparan/CareerCopilot/internal/encoder"
	"github.com/dharsanguruparan/CareerCopilot/internal/export"
	"github.com/dharsanguruparan/CareerCopilot/internal/model"
	"github.com/dharsanguruparan/CareerCopilot/internal/payload"
	"github.com/dharsanguruparan/CareerCopilot/internal/preview"
	"github.com/dharsanguruparan/CareerCopilot/internal/session"
	"github.com/dharsanguruparan/CareerCopilot/internal/signing"
)

const previewRunes = 240

type docView struct {
	Index    int
	Type     model.DocumentType
	Filename string
	Size     int
	Preview  string
}

type artifactView struct {
	model.Artifact
	DownloadURL string
}

type page struct {
	copilot.State
	Tabs          []copilot.Tab
	Locked        bool
	Companies     []string
	Roles         []string
	DocTypes      []model.DocumentType
	Docs          []docView
	Artifact      *artifactView
	ExportEnabled bool
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r)
}

func (s *Server) handleTab(w http.ResponseWriter, r *http.Request) {
	tab, ok := copilot.ParseTab(r.PathValue("name"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.app.SetTab(tab)
	s.render(w, r)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request) {
	st := s.app.State()
	p := page{
		State:         st,
		Tabs:          copilot.Tabs,
		Locked:        st.Tab.Protected() && !st.LoggedIn,
		Companies:     copilot.Companies,
		Roles:         copilot.Roles,
		DocTypes:      documents.CanonicalTypes,
		ExportEnabled: s.exports != nil,
	}
	for i, rec := range st.Documents {
		view := docView{Index: i, Type: rec.Type, Filename: rec.File.Filename, Size: len(rec.File.Data)}
		if text, err := preview.Text(rec.File.Filename, rec.File.Data); err == nil {
			view.Preview = preview.Snippet(text, previewRunes)
		}
		p.Docs = append(p.Docs, view)
	}
	if st.Resume.Artifact != nil && s.exports != nil {
		// The state holds the artifact as submitted; the ledger has its
		// current status.
		current := *st.Resume.Artifact
		if latest, err := s.exports.Artifact(r.Context(), current.ID); err == nil {
			current = latest
		}
		view := &artifactView{Artifact: current}
		if current.Status == model.ArtifactCompleted {
			view.DownloadURL = "/download?" + s.signer.Query(current.ID, s.cfg.SignedURLTTL, time.Now()).Encode()
		}
		p.Artifact = view
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "console.html", p); err != nil {
		log.Printf("render console: %v", err)
	}
}

// done finishes a form post. Action errors are already part of the form
// state, so only a busy action class gets its own response.
func (s *Server) done(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, session.ErrInFlight) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1<<20)
	ctype, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ctype == "multipart/form-data" {
		return r.ParseMultipartForm(s.cfg.MaxUploadBytes)
	}
	return r.ParseForm()
}

// readUpload returns nil when the field carries no file.
func readUpload(r *http.Request, field string) (*model.UploadedFile, error) {
	f, hdr, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, &encoder.EncodingError{Name: hdr.Filename, Err: err}
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &model.UploadedFile{Filename: hdr.Filename, Data: data}, nil
}

func (s *Server) formWithUpload(w http.ResponseWriter, r *http.Request, field string) (*model.UploadedFile, bool) {
	if err := s.parseForm(w, r); err != nil {
		http.Error(w, "invalid form: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	file, err := readUpload(r, field)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return file, true
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	image, ok := s.formWithUpload(w, r, "image")
	if !ok {
		return
	}
	_, err := s.app.Signup(r.Context(), r.FormValue("userId"), r.FormValue("name"), image)
	s.done(w, r, err)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	image, ok := s.formWithUpload(w, r, "image")
	if !ok {
		return
	}
	_, err := s.app.Login(r.Context(), r.FormValue("userId"), image)
	s.done(w, r, err)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.app.Logout()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleInterview(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	_, err := s.app.GenerateInterview(r.Context(), r.FormValue("company"), r.FormValue("role"), r.FormValue("num_questions"))
	s.done(w, r, err)
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	_, err := s.app.GenerateResume(r.Context(), payload.ResumeFields{
		Name:       r.FormValue("name"),
		Email:      r.FormValue("email"),
		Phone:      r.FormValue("phone"),
		Summary:    r.FormValue("summary"),
		Education:  r.FormValue("education"),
		Skills:     r.FormValue("skills"),
		Projects:   r.FormValue("projects"),
		Experience: r.FormValue("experience"),
	})
	s.done(w, r, err)
}

func (s *Server) handleResumeText(w http.ResponseWriter, r *http.Request) {
	_, err := s.app.ResumeText(r.Context())
	s.done(w, r, err)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	_, err := s.app.ExportResume(r.Context())
	s.done(w, r, err)
}

func (s *Server) handleAddDocument(w http.ResponseWriter, r *http.Request) {
	file, ok := s.formWithUpload(w, r, "file")
	if !ok {
		return
	}
	docType := strings.TrimSpace(r.FormValue("type"))
	if docType == "" || file == nil {
		http.Error(w, "document type and file are required", http.StatusBadRequest)
		return
	}
	s.app.AddDocument(model.DocumentType(docType), *file)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleRemoveDocument(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.Error(w, "invalid index", http.StatusBadRequest)
		return
	}
	if err := s.app.RemoveDocument(index); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	_, err := s.app.Verify(r.Context(), payload.VerificationFields{
		Name:      r.FormValue("name"),
		Email:     r.FormValue("email"),
		Education: r.FormValue("education"),
		Tenth:     r.FormValue("tenth"),
		Twelfth:   r.FormValue("twelfth"),
	})
	s.done(w, r, err)
}

func (s *Server) artifact(w http.ResponseWriter, r *http.Request, id string) (model.Artifact, bool) {
	if s.exports == nil {
		http.Error(w, "export disabled", http.StatusNotFound)
		return model.Artifact{}, false
	}
	a, err := s.exports.Artifact(r.Context(), id)
	if errors.Is(err, export.ErrNotFound) {
		http.Error(w, "artifact not found", http.StatusNotFound)
		return model.Artifact{}, false
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return model.Artifact{}, false
	}
	return a, true
}

func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	if !s.app.Sessions().LoggedIn() {
		http.Error(w, session.ErrNotLoggedIn.Error(), http.StatusUnauthorized)
		return
	}
	a, ok := s.artifact(w, r, r.PathValue("id"))
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, a)
}

func (s *Server) handleArtifactLink(w http.ResponseWriter, r *http.Request) {
	if !s.app.Sessions().LoggedIn() {
		http.Error(w, session.ErrNotLoggedIn.Error(), http.StatusUnauthorized)
		return
	}
	a, ok := s.artifact(w, r, r.PathValue("id"))
	if !ok {
		return
	}
	if a.Status != model.ArtifactCompleted {
		http.Error(w, fmt.Sprintf("artifact is %s", a.Status), http.StatusConflict)
		return
	}
	q := s.signer.Query(a.ID, s.cfg.SignedURLTTL, time.Now())
	respondJSON(w, http.StatusOK, map[string]string{
		"url":     "/download?" + q.Encode(),
		"expires": q.Get("expires"),
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id, err := s.signer.Check(r.URL.Query(), time.Now())
	switch {
	case errors.Is(err, signing.ErrExpired):
		http.Error(w, "url expired", http.StatusUnauthorized)
		return
	case err != nil:
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}
	a, ok := s.artifact(w, r, id)
	if !ok {
		return
	}
	if a.Status != model.ArtifactCompleted {
		http.Error(w, "artifact not ready", http.StatusConflict)
		return
	}
	sink := s.exports.Sink()
	if p, ok := sink.(Presigner); ok {
		u, err := p.PresignURL(r.Context(), a.ObjectKey, a.FileName, s.cfg.SignedURLTTL)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		http.Redirect(w, r, u, http.StatusFound)
		return
	}
	o, ok := sink.(Opener)
	if !ok {
		http.Error(w, "artifact unavailable", http.StatusNotFound)
		return
	}
	rc, err := o.Open(r.Context(), a.ObjectKey)
	if err != nil {
		http.Error(w, "artifact unavailable", http.StatusInternalServerError)
		return
	}
	defer rc.Close()
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.FileName}))
	if _, err := io.Copy(w, rc); err != nil {
		log.Printf("download %s: %v", a.ID, err)
	}
}
