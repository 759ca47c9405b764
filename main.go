// Command label-mgr-action reconciles a repository's GitHub labels against a
// declarative YAML configuration. It is meant to run as a GitHub Action, so
// every flag defaults from the Action's environment.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	klog "k8s.io/klog/v2"

	"github.com/facelessuser/label-mgr-action/pkg/config"
	gh "github.com/facelessuser/label-mgr-action/pkg/github"
	labelsync "github.com/facelessuser/label-mgr-action/pkg/sync"
)

var Cmd = &cobra.Command{
	Use:  "label-mgr-action",
	Long: "Sync a repository's issue labels with a declarative configuration",
	RunE: run,
}

var args struct {
	mode       string
	debug      string
	token      string
	file       string
	repository string
	ref        string
}

func init() {
	Cmd.Flags().StringVar(&args.mode, "mode", envDefault("INPUT_MODE", "normal"), "sync mode: 'normal' or 'delete'")
	Cmd.Flags().StringVar(&args.debug, "debug", envDefault("INPUT_DEBUG", "disable"), "dry run: 'enable' or 'disable'")
	Cmd.Flags().StringVar(&args.token, "token", os.Getenv("INPUT_TOKEN"), "GitHub access token")
	Cmd.Flags().StringVar(&args.file, "file", envDefault("INPUT_FILE", ".github/labels.yml"), "path to the label configuration")
	Cmd.Flags().StringVar(&args.repository, "repository", os.Getenv("GITHUB_REPOSITORY"), "target repository as owner/name")
	Cmd.Flags().StringVar(&args.ref, "ref", os.Getenv("GITHUB_SHA"), "ref to read the configuration from")
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseOptions(mode, debug string) (labelsync.Options, error) {
	opts := labelsync.Options{}
	switch mode {
	case "delete":
		opts.Delete = true
	case "normal":
	default:
		return opts, fmt.Errorf("unknown mode: %s", mode)
	}
	switch debug {
	case "enable":
		opts.DryRun = true
	case "disable":
	default:
		return opts, fmt.Errorf("unknown value for debug: %s", debug)
	}
	return opts, nil
}

func splitRepository(repository string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(repository, "/")
	if !ok || owner == "" || repo == "" {
		return "", "", fmt.Errorf("could not acquire user name and repository name from %q", repository)
	}
	return owner, repo, nil
}

func main() {
	if err := Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, argv []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	log := klog.FromContext(ctx)

	opts, err := parseOptions(args.mode, args.debug)
	if err != nil {
		return err
	}
	owner, repo, err := splitRepository(args.repository)
	if err != nil {
		return err
	}

	client, err := gh.NewClient(args.token, owner, repo)
	if err != nil {
		return err
	}

	log.Info("reading labels", "file", args.file)
	data, err := client.ReadConfig(ctx, args.file, args.ref)
	if err != nil {
		return err
	}
	manifest, err := config.Load(data)
	if err != nil {
		return err
	}

	res, err := labelsync.New(client, manifest, opts).Sync(ctx)
	if err != nil {
		return err
	}
	log.Info("sync complete", "created", res.Created, "updated", res.Updated,
		"deleted", res.Deleted, "skipped", res.Skipped, "dryRun", opts.DryRun)
	return nil
}
