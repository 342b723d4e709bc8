package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dharsanguruparan/CareerCopilot/internal/copilot"
	"github.com/dharsanguruparan/CareerCopilot/internal/model"
	"github.com/dharsanguruparan/CareerCopilot/internal/payload"
	"github.com/dharsanguruparan/CareerCopilot/internal/presenter"
	"github.com/dharsanguruparan/CareerCopilot/internal/preview"
	"github.com/dharsanguruparan/CareerCopilot/internal/server"
)

func newSignupCmd(c *cli) *cobra.Command {
	var userID, name, image string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register a reference face image",
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := loadUpload(image)
			if err != nil {
				return err
			}
			view, err := c.app.Signup(cmd.Context(), userID, name, img)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "signed up %s (reference %s)\n", view.UserID, view.RefImageKey)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "User ID")
	cmd.Flags().StringVar(&name, "name", "", "Display name (defaults to the user ID)")
	cmd.Flags().StringVar(&image, "image", "", "Reference face image")
	return cmd
}

func newLoginCmd(c *cli) *cobra.Command {
	var a auth
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Check a face image against the reference",
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := loadUpload(a.face)
			if err != nil {
				return err
			}
			view, err := c.app.Login(cmd.Context(), a.user, image)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "login successful (similarity %s%%)\n", view.Similarity)
			return nil
		},
	}
	a.register(cmd)
	return cmd
}

func newInterviewCmd(c *cli) *cobra.Command {
	var (
		a                    auth
		company, role, count string
	)
	cmd := &cobra.Command{
		Use:   "interview",
		Short: "Generate practice interview questions",
		Long: fmt.Sprintf("Generate practice interview questions.\n\nSuggested companies: %s\nSuggested roles: %s",
			strings.Join(copilot.Companies, ", "), strings.Join(copilot.Roles, ", ")),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.login(cmd, c); err != nil {
				return err
			}
			view, err := c.app.GenerateInterview(cmd.Context(), company, role, count)
			if err != nil {
				return err
			}
			printInterview(cmd.OutOrStdout(), view)
			return nil
		},
	}
	a.register(cmd)
	cmd.Flags().StringVar(&company, "company", "", "Target company")
	cmd.Flags().StringVar(&role, "role", "", "Target role")
	cmd.Flags().StringVar(&count, "count", "5", "Number of questions (1-10)")
	return cmd
}

func printInterview(w io.Writer, view presenter.InterviewView) {
	fmt.Fprintf(w, "%s · %s\n\n", view.Company, view.Role)
	if view.Fallback() {
		fmt.Fprintln(w, view.RawText)
		return
	}
	for _, q := range view.Questions {
		fmt.Fprintf(w, "%s. %s [%s]\n", q.Number, q.Question, q.Difficulty)
	}
}

func newResumeCmd(c *cli) *cobra.Command {
	var (
		a              auth
		fields         payload.ResumeFields
		export, asText bool
	)
	cmd := &cobra.Command{
		Use:   "resume",
		Short: "Generate a resume and optionally export it as PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.login(cmd, c); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			view, err := c.app.GenerateResume(cmd.Context(), fields)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "resume %s\n%s\n", view.ResumeID, view.URL)
			if asText {
				text, err := c.app.ResumeText(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\n%s\n", text)
			}
			if export {
				artifact, err := c.app.ExportResume(cmd.Context())
				if err != nil {
					return err
				}
				printArtifact(out, artifact)
			}
			return nil
		},
	}
	a.register(cmd)
	f := cmd.Flags()
	f.StringVar(&fields.Name, "name", "", "Full name")
	f.StringVar(&fields.Email, "email", "", "Email address")
	f.StringVar(&fields.Phone, "phone", "", "Phone number")
	f.StringVar(&fields.Summary, "summary", "", "Professional summary")
	f.StringVar(&fields.Education, "education", "", "Education entries, comma separated")
	f.StringVar(&fields.Skills, "skills", "", "Skills, comma separated")
	f.StringVar(&fields.Projects, "projects", "", "Projects, comma separated")
	f.StringVar(&fields.Experience, "experience", "", "Experience entries, comma separated")
	f.BoolVar(&export, "export", false, "Render the generated resume to PDF")
	f.BoolVar(&asText, "text", false, "Print the generated resume as plain text")
	return cmd
}

func printArtifact(w io.Writer, a model.Artifact) {
	fmt.Fprintf(w, "pdf %s: %s", a.FileName, a.Status)
	if a.Location != "" {
		fmt.Fprintf(w, " -> %s", a.Location)
	}
	if a.ErrorMessage != "" {
		fmt.Fprintf(w, " (%s)", a.ErrorMessage)
	}
	fmt.Fprintln(w)
}

func newVerifyCmd(c *cli) *cobra.Command {
	var (
		a           auth
		fields      payload.VerificationFields
		docs        []string
		showPreview bool
	)
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify academic documents against the claimed details",
		Example: `  careercopilot verify --user alice --face me.jpg --name "Alice" \
    --tenth 92 --doc marksheet_10th=tenth.pdf --doc degree=degree.pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, spec := range docs {
				docType, path, ok := strings.Cut(spec, "=")
				if !ok || docType == "" || path == "" {
					return fmt.Errorf("invalid --doc %q, expected type=path", spec)
				}
				file, err := loadUpload(path)
				if err != nil {
					return err
				}
				c.app.AddDocument(model.DocumentType(docType), *file)
				if showPreview {
					if text, err := preview.Text(file.Filename, file.Data); err == nil {
						fmt.Fprintf(out, "%s: %s\n", presenter.HumanizeDocumentType(model.DocumentType(docType)), preview.Snippet(text, 200))
					}
				}
			}
			if err := a.login(cmd, c); err != nil {
				return err
			}
			view, err := c.app.Verify(cmd.Context(), fields)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "credibility %s (%s)\n", view.Score, view.Label)
			for _, issue := range view.Issues {
				fmt.Fprintf(out, "  %s: %s %s\n", issue.Field, issue.Status, issue.Detail)
			}
			if view.Report != "" {
				fmt.Fprintf(out, "\n%s\n", view.Report)
			}
			return nil
		},
	}
	a.register(cmd)
	f := cmd.Flags()
	f.StringVar(&fields.Name, "name", "", "Candidate name")
	f.StringVar(&fields.Email, "email", "", "Candidate email")
	f.StringVar(&fields.Education, "education", "", "Education entries, comma separated")
	f.StringVar(&fields.Tenth, "tenth", "", "Claimed 10th score")
	f.StringVar(&fields.Twelfth, "twelfth", "", "Claimed 12th score")
	f.StringArrayVar(&docs, "doc", nil, "Document as type=path (repeatable)")
	f.BoolVar(&showPreview, "preview", false, "Print a text preview of each document")
	return cmd
}

func newExportCmd(c *cli) *cobra.Command {
	var url, resumeID string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render a generated resume URL to PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				return fmt.Errorf("--url is required")
			}
			artifact, err := c.stack.InlineExports().Submit(cmd.Context(), resumeID, url)
			if err != nil {
				return err
			}
			printArtifact(cmd.OutOrStdout(), artifact)
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "Pre-signed resume URL")
	cmd.Flags().StringVar(&resumeID, "resume-id", "", "Resume ID used to name the PDF")
	return cmd
}

func newServeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web console",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			exports, err := c.stack.BackgroundExports(ctx)
			if err != nil {
				return err
			}
			app := copilot.New(c.stack.Client, copilot.WithExporter(exports))
			srv, err := server.New(c.cfg, app, exports, c.stack.Signer, c.stack.Registry)
			if err != nil {
				return err
			}
			return srv.Run(ctx)
		},
	}
}
