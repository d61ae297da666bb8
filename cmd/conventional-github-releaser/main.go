package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/conventional-github-releaser/pkg/changelog"
	"github.com/conventional-github-releaser/pkg/config"
	"github.com/conventional-github-releaser/pkg/logging"
	"github.com/conventional-github-releaser/pkg/releaser"
	"github.com/conventional-github-releaser/pkg/reporter"
	"github.com/conventional-github-releaser/pkg/vcs"
)

var (
	version = "dev"
	commit  = "none"
)

// errReleasesFailed marks a run where at least one release was rejected. The
// reasons have already been printed.
var errReleasesFailed = errors.New("one or more releases failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReleasesFailed) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "conventional-github-releaser",
		Short: "Make GitHub releases from git metadata",
		Long: `Creates a GitHub release for each version tag, with notes generated from the
conventional commits between that tag and the one before it.`,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, stdout, stderr)
		},
	}

	flags := rootCmd.Flags()
	flags.String("pkg", "", "Path to the package.json used to find the repository")
	flags.StringP("token", "t", "", "GitHub token (default from CONVENTIONAL_GITHUB_RELEASER_TOKEN or GITHUB_TOKEN)")
	flags.BoolP("verbose", "v", false, "Print the result of every release attempt")
	flags.StringP("preset", "p", "", "Changelog preset: "+fmt.Sprint(changelog.PresetNames()))
	flags.IntP("release-count", "r", 1, "How many releases to create from the latest; 0 creates all")
	flags.String("repo", "", "Target repository (owner/repo); defaults to the manifest or git origin")
	flags.String("host", "", "GitHub Enterprise host, e.g. https://github.example.com")
	flags.Bool("draft", false, "Create draft releases")
	flags.String("header-template", "", "File with a custom header template (ignored when a preset is set)")
	flags.String("tag-source", "local", "Where to read tags and commits from: local | github")
	flags.String("range-path", "", "Only include commits touching this path")
	flags.String("merges", "", "Merge commits: include | exclude | only")
	flags.String("config", config.DefaultPath, "Path to config file")
	flags.String("output", "table", "Report format: table | json | inspect")
	flags.StringP("dir", "C", ".", "Repository directory")

	return rootCmd
}

func run(cmd *cobra.Command, stdout, stderr io.Writer) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		if !config.IsNotExist(err) || cmd.Flags().Changed("config") {
			fmt.Fprintf(stderr, "warning: could not load config file: %v (using defaults)\n", err)
		}
		cfg = config.Default()
	}
	cfg = config.MergeEnv(cfg)
	cfg = config.MergeFlags(cfg, cmd.Flags())

	log := logging.New(stderr, cfg.Verbose)
	ctx := cmd.Context()

	rcfg := releaser.Config{Auth: &releaser.Auth{Type: "oauth", Token: cfg.Token}}
	if cfg.Host != "" {
		rcfg.GitHub = &releaser.GitHubOptions{Host: cfg.Host}
	}

	opts := releaser.Options{
		Preset:       cfg.Preset,
		ReleaseCount: cfg.ReleaseCount,
		Range:        cfg.Range,
		Draft:        cfg.Draft,
	}
	if cfg.Pkg != "" {
		opts.Pkg = &releaser.PkgOptions{Path: cfg.Pkg}
	}
	if cfg.Repo != "" {
		opts.Owner, opts.Repo, err = vcs.ParseGitHubRepo(cfg.Repo)
		if err != nil {
			return err
		}
	}
	if cfg.HeaderTemplate != "" {
		data, err := os.ReadFile(cfg.HeaderTemplate)
		if err != nil {
			return fmt.Errorf("read header template: %w", err)
		}
		opts.HeaderTemplate = string(data)
	}

	r, err := newReleaser(rcfg, cfg, opts)
	if err != nil {
		return err
	}
	r.WithLogger(log)

	log.Debugf("releasing from %s (tag source %s, preset %q, release count %d)", cfg.Dir, cfg.TagSource, cfg.Preset, cfg.ReleaseCount)

	var outcomes []releaser.Outcome
	var runErr error
	if err := r.Release(ctx, opts, func(err error, res []releaser.Outcome) {
		runErr, outcomes = err, res
	}); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}

	if cfg.Verbose {
		if err := reporter.New("inspect").Report(stdout, outcomes); err != nil {
			return err
		}
	} else if err := reporter.New(cfg.Output).Report(stdout, outcomes); err != nil {
		return err
	}

	if releaser.Failed(outcomes) {
		for _, o := range outcomes {
			if o.State == releaser.Rejected {
				fmt.Fprintf(stderr, "%s: %v\n", o.Tag, o.Reason)
			}
		}
		return errReleasesFailed
	}
	return nil
}

func newReleaser(rcfg releaser.Config, cfg *config.Config, opts releaser.Options) (*releaser.Releaser, error) {
	switch cfg.TagSource {
	case "", "local":
		return releaser.NewGitHub(rcfg, cfg.Dir)
	case "github":
		if opts.Owner == "" || opts.Repo == "" {
			return nil, fmt.Errorf("--tag-source github needs --repo owner/repo")
		}
		if rcfg.Auth.Token == "" {
			return nil, releaser.ErrNoAuth
		}
		client, err := vcs.NewClient(rcfg.Auth.Token, cfg.Host)
		if err != nil {
			return nil, err
		}
		gh := vcs.NewGitHubClient(client)
		return releaser.New(rcfg, gh.ForRepo(opts.Owner, opts.Repo), gh)
	default:
		return nil, fmt.Errorf("unknown tag source %q (want local or github)", cfg.TagSource)
	}
}
