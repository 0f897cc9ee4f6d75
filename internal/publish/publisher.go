// Package publish turns a materialized project into a public GitHub
// repository with Pages hosting, via the git and gh command-line tools.
package publish

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/pagesmith/internal/execx"
)

// committerName is the fixed committer identity; the request email is
// used as the committer email.
const committerName = "AutoBot"

// defaultBranch is the branch name used for every published repository
// and as the Pages source branch.
const defaultBranch = "main"

// Result holds the externally visible outcome of a successful publish.
type Result struct {
	RepoURL   string
	CommitSHA string
	PagesURL  string
}

// Publisher publishes local project directories to a fixed GitHub account.
type Publisher struct {
	runner   execx.Runner
	username string
	token    string
}

// NewPublisher creates a Publisher for the given account. The token is
// handed to gh through an env overlay on each invocation; the host
// environment is never mutated.
func NewPublisher(runner execx.Runner, username, token string) *Publisher {
	return &Publisher{runner: runner, username: username, token: token}
}

// Publish initializes a git repository over dir, commits its contents,
// creates a public remote repository named projectID, pushes, enables
// Pages on the default branch root, and reads back the commit hash.
//
// Steps run in strict order and each is a hard dependency on the
// previous one. There is no rollback and no retry: a second publish of
// the same projectID fails at remote creation because the repository
// already exists.
func (p *Publisher) Publish(ctx context.Context, dir, projectID, task, email string) (Result, error) {
	steps := []struct {
		name string
		cmd  string
		args []string
		opts execx.Options
	}{
		{"git init", "git", []string{"init"}, execx.Options{Dir: dir}},
		{"git branch", "git", []string{"branch", "-M", defaultBranch}, execx.Options{Dir: dir}},
		{"git config user.name", "git", []string{"config", "user.name", committerName}, execx.Options{Dir: dir}},
		{"git config user.email", "git", []string{"config", "user.email", email}, execx.Options{Dir: dir}},
		{"git add", "git", []string{"add", "."}, execx.Options{Dir: dir}},
		{"git commit", "git", []string{"commit", "-m", fmt.Sprintf("Initial commit for %s", task)}, execx.Options{Dir: dir}},
		{"gh repo create", "gh", []string{
			"repo", "create", projectID,
			"--public", "--source", dir, "--push",
		}, execx.Options{Dir: dir, Env: p.ghEnv()}},
		{"gh enable pages", "gh", []string{
			"api", fmt.Sprintf("repos/%s/%s/pages", p.username, projectID),
			"-f", "source.branch=" + defaultBranch,
			"-f", "source.path=/",
		}, execx.Options{Dir: dir, Env: p.ghEnv()}},
	}

	for _, step := range steps {
		if err := p.run(ctx, step.name, step.cmd, step.args, step.opts); err != nil {
			return Result{}, err
		}
	}

	sha, err := p.headCommit(ctx, dir)
	if err != nil {
		return Result{}, err
	}

	return Result{
		RepoURL:   fmt.Sprintf("https://github.com/%s/%s", p.username, projectID),
		CommitSHA: sha,
		PagesURL:  fmt.Sprintf("https://%s.github.io/%s/", p.username, projectID),
	}, nil
}

// run executes a single publish step, converting non-zero exits into
// step-named errors carrying the tool's stderr.
func (p *Publisher) run(ctx context.Context, name, cmd string, args []string, opts execx.Options) error {
	result, err := p.runner.Run(ctx, cmd, args, opts)
	if err != nil {
		return fmt.Errorf("publish failed at %s: %w", name, err)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("publish failed at %s: exit %d: %s",
			name, result.ExitCode, strings.TrimSpace(result.Stderr))
	}
	return nil
}

// headCommit reads back the hash of the just-created commit.
func (p *Publisher) headCommit(ctx context.Context, dir string) (string, error) {
	result, err := p.runner.Run(ctx, "git", []string{"rev-parse", "HEAD"}, execx.Options{Dir: dir})
	if err != nil {
		return "", fmt.Errorf("publish failed at git rev-parse: %w", err)
	}
	if result.ExitCode != 0 {
		return "", fmt.Errorf("publish failed at git rev-parse: exit %d: %s",
			result.ExitCode, strings.TrimSpace(result.Stderr))
	}

	sha := strings.TrimSpace(result.Stdout)
	if sha == "" {
		return "", fmt.Errorf("publish failed at git rev-parse: empty output")
	}
	return sha, nil
}

func (p *Publisher) ghEnv() map[string]string {
	return map[string]string{"GH_TOKEN": p.token}
}
