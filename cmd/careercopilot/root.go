package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dharsanguruparan/CareerCopilot/internal/bootstrap"
	"github.com/dharsanguruparan/CareerCopilot/internal/config"
	"github.com/dharsanguruparan/CareerCopilot/internal/copilot"
	"github.com/dharsanguruparan/CareerCopilot/internal/encoder"
	"github.com/dharsanguruparan/CareerCopilot/internal/model"
)

// cli carries what every subcommand needs once the root has loaded the
// configuration.
type cli struct {
	envFile string
	cfg     *config.Config
	stack   *bootstrap.Stack
	app     *copilot.App
}

func newRootCommand() *cobra.Command {
	c := &cli{}
	cmd := &cobra.Command{
		Use:   "careercopilot",
		Short: "Career Copilot command line client",
		Long: `careercopilot talks to the Career Copilot API: face signup and login, interview
question generation, resume generation and PDF export, and document verification.
Protected commands log in with --user and --face first; the session token only
lives for the duration of the command.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.stack != nil {
				c.stack.Close()
			}
		},
	}
	cmd.PersistentFlags().StringVar(&c.envFile, "env-file", "", "Load settings from this file instead of ./.env")
	cmd.AddCommand(
		newSignupCmd(c),
		newLoginCmd(c),
		newInterviewCmd(c),
		newResumeCmd(c),
		newVerifyCmd(c),
		newExportCmd(c),
		newServeCmd(c),
	)
	return cmd
}

func (c *cli) setup(ctx context.Context) error {
	var files []string
	if c.envFile != "" {
		files = append(files, c.envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return err
	}
	stack, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.stack = stack
	c.app = copilot.New(stack.Client, copilot.WithExporter(stack.InlineExports()))
	return nil
}

// loadUpload reads a file given on the command line. An empty path means
// no file.
func loadUpload(path string) (*model.UploadedFile, error) {
	if path == "" {
		return nil, nil
	}
	data, err := encoder.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &model.UploadedFile{Filename: filepath.Base(path), Data: data}, nil
}

// auth holds the credentials protected commands log in with.
type auth struct {
	user string
	face string
}

func (a *auth) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&a.user, "user", "", "User ID to log in as")
	cmd.Flags().StringVar(&a.face, "face", "", "Face image used to log in")
}

func (a *auth) login(cmd *cobra.Command, c *cli) error {
	image, err := loadUpload(a.face)
	if err != nil {
		return err
	}
	view, err := c.app.Login(cmd.Context(), a.user, image)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "logged in as %s (similarity %s%%)\n", a.user, view.Similarity)
	return nil
}
