package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"curseupload/internal/adapters/secondary/curseforge"
	"curseupload/internal/config"
	"curseupload/internal/core/domain"
	"curseupload/internal/core/services"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "curseupload",
		Short:         "Publish build artifacts to CurseForge",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newUploadCommand())
	return cmd
}

type uploadOptions struct {
	projectID       string
	file            string
	changelog       string
	changelogFile   string
	changelogType   string
	releaseType     string
	displayName     string
	manualRelease   bool
	gameVersions    []string
	requires        []string
	optional        []string
	embeds          []string
	tools           []string
	incompatible    []string
	additionalFiles []string
	debug           bool
}

func newUploadCommand() *cobra.Command {
	var opts uploadOptions

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload a file and its additional files to a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			initLogger(cfg)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runUpload(ctx, cfg, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.projectID, "project", "", "Numeric id of the CurseForge project")
	flags.StringVar(&opts.file, "file", "", "File to upload")
	flags.StringVar(&opts.changelog, "changelog", "", "Changelog text")
	flags.StringVar(&opts.changelogFile, "changelog-file", "", "Read the changelog from a file")
	flags.StringVar(&opts.changelogType, "changelog-type", "text", "Changelog format: text, markdown or html")
	flags.StringVar(&opts.releaseType, "release-type", "release", "Release type: release, beta or alpha")
	flags.StringVar(&opts.displayName, "display-name", "", "Optional display name of the file")
	flags.BoolVar(&opts.manualRelease, "manual-release", false, "Hold the file until it is released by hand")
	flags.StringSliceVar(&opts.gameVersions, "game-version", nil, "Game, loader or java version (repeatable)")
	flags.StringSliceVar(&opts.requires, "requires", nil, "Slug of a required dependency (repeatable)")
	flags.StringSliceVar(&opts.optional, "optional", nil, "Slug of an optional dependency (repeatable)")
	flags.StringSliceVar(&opts.embeds, "embeds", nil, "Slug of an embedded library (repeatable)")
	flags.StringSliceVar(&opts.tools, "tool", nil, "Slug of a tool relation (repeatable)")
	flags.StringSliceVar(&opts.incompatible, "incompatible", nil, "Slug of an incompatible project (repeatable)")
	flags.StringSliceVar(&opts.additionalFiles, "additional-file", nil, "Extra file uploaded under the main file (repeatable)")
	flags.BoolVar(&opts.debug, "debug", false, "Log the request instead of uploading (overrides CURSEFORGE_DEBUG)")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runUpload(ctx context.Context, cfg *config.Config, opts uploadOptions) error {
	if cfg.CurseForge.APIToken == "" {
		return fmt.Errorf("%w: CURSEFORGE_API_TOKEN", domain.ErrMissingField)
	}

	artifact, err := buildArtifact(opts)
	if err != nil {
		return err
	}

	client := curseforge.NewClient(&cfg.CurseForge)
	session := services.NewUploadSession(ctx, client, cfg.CurseForge.APIToken,
		services.WithDebug(cfg.CurseForge.Debug || opts.debug),
		services.WithLogger(log.StandardLogger()),
	)

	report, err := session.Upload(ctx, artifact)
	if report != nil {
		for _, res := range report.Results {
			switch {
			case res.Err != nil:
				fmt.Printf("FAILED  %s: %v\n", res.File, res.Err)
			case res.DryRun:
				fmt.Printf("DRY-RUN %s\n", res.File)
			default:
				fmt.Printf("OK      %s -> file id %d\n", res.File, res.FileID)
			}
		}
	}
	return err
}

func buildArtifact(opts uploadOptions) (*domain.Artifact, error) {
	projectID, err := strconv.ParseInt(opts.projectID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse project id %q: %w", opts.projectID, err)
	}

	changelog := opts.changelog
	if opts.changelogFile != "" {
		data, err := os.ReadFile(opts.changelogFile)
		if err != nil {
			return nil, fmt.Errorf("read changelog: %w", err)
		}
		changelog = string(data)
	}

	changelogType, err := domain.ParseChangelogType(opts.changelogType)
	if err != nil {
		return nil, err
	}
	releaseType, err := domain.ParseReleaseType(opts.releaseType)
	if err != nil {
		return nil, err
	}

	a := domain.NewArtifact(opts.file, projectID).
		SetChangelog(changelog).
		SetDisplayName(opts.displayName).
		SetManualRelease(opts.manualRelease)
	if err := a.SetChangelogType(changelogType); err != nil {
		return nil, err
	}
	if err := a.SetReleaseType(releaseType); err != nil {
		return nil, err
	}

	for _, v := range opts.gameVersions {
		if err := a.AddGameVersion(v); err != nil {
			return nil, err
		}
	}

	relations := []struct {
		slugs []string
		add   func(string) error
	}{
		{opts.requires, a.Requires},
		{opts.optional, a.Optional},
		{opts.embeds, a.Embeds},
		{opts.tools, a.Tool},
		{opts.incompatible, a.Incompatible},
	}
	for _, r := range relations {
		for _, slug := range r.slugs {
			if err := r.add(slug); err != nil {
				return nil, err
			}
		}
	}

	// Children snapshot the primary's settings, so they are added last.
	for _, f := range opts.additionalFiles {
		if _, err := a.AddAdditionalFile(f); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
