package inspect

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/averline/gitprivacy/internal/gitrepo"
	"github.com/averline/gitprivacy/internal/pii"
)

func TestInspectMessageOnly(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	initRepo(t, dir)
	commitFile(t, dir, "a.txt", "hello\n", "fix bug, contact a@x.de and ping 078-05-1120")

	repo, commits := openAndWalk(t, dir)
	require.Len(t, commits, 1)

	ins := New(repo, zap.NewNop(), Options{IncludeDiff: false})
	f := ins.Inspect(ctx, commits[0])

	assert.Equal(t, commits[0].Hash, f.Hash)
	assert.Equal(t, "Test User <test@example.com>", f.Author.String())
	assert.Equal(t, []string{"a@x.de"}, f.Emails)

	var ssn []Finding
	for _, p := range f.PII {
		if p.Detector == pii.DetectorSSN {
			ssn = append(ssn, p)
		}
	}
	require.Len(t, ssn, 1)
	assert.Equal(t, "078-05-1120", ssn[0].Match)
	assert.Equal(t, SourceMessage, ssn[0].Source)
	assert.False(t, f.DiffFailed)
}

func TestInspectDiff(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	initRepo(t, dir)
	commitFile(t, dir, "config.txt", "empty\n", "initial")
	commitFile(t, dir, "config.txt", "empty\nadmin_email = root@corp.example\nhost = 192.168.0.7\n", "add config")

	repo, commits := openAndWalk(t, dir)
	require.Len(t, commits, 2)

	ins := New(repo, zap.NewNop(), Options{IncludeDiff: true})
	f := ins.Inspect(ctx, commits[0]) // newest commit

	assert.Contains(t, f.Emails, "root@corp.example")

	var ipSources []string
	for _, p := range f.PII {
		if p.Detector == pii.DetectorIPAddress {
			ipSources = append(ipSources, p.Source)
			assert.Equal(t, "192.168.0.7", p.Match)
		}
	}
	assert.Equal(t, []string{"config.txt"}, ipSources)
}

func TestInspectRootCommitSkipsDiff(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	initRepo(t, dir)
	commitFile(t, dir, "a.txt", "secret 10.0.0.1\n", "initial")

	repo, commits := openAndWalk(t, dir)
	require.Len(t, commits, 1)

	ins := New(repo, zap.NewNop(), Options{IncludeDiff: true})
	f := ins.Inspect(ctx, commits[0])

	// The IP lives only in the file content; a root commit has no parent
	// diff, so nothing but the message is inspected.
	assert.Empty(t, f.PII)
	assert.False(t, f.DiffFailed)
}

func TestInspectDiffOrderedBeforeMessage(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	initRepo(t, dir)
	commitFile(t, dir, "a.txt", "x\n", "initial")
	commitFile(t, dir, "a.txt", "x\nip 10.0.0.1\n", "change, see 10.0.0.2")

	repo, commits := openAndWalk(t, dir)
	ins := New(repo, zap.NewNop(), Options{IncludeDiff: true, Detectors: []string{pii.DetectorIPAddress}})
	f := ins.Inspect(ctx, commits[0])

	require.Len(t, f.PII, 2)
	assert.Equal(t, "a.txt", f.PII[0].Source)
	assert.Equal(t, "10.0.0.1", f.PII[0].Match)
	assert.Equal(t, SourceMessage, f.PII[1].Source)
	assert.Equal(t, "10.0.0.2", f.PII[1].Match)
}

func TestInspectDiffFailureIsSoft(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	initRepo(t, dir)
	commitFile(t, dir, "a.txt", "x\n", "initial")
	commitFile(t, dir, "a.txt", "y\n", "change, reach me at a@x.de")

	repo, commits := openAndWalk(t, dir)
	require.Len(t, commits, 2)

	// Sabotage the parent hash so the diff subprocess fails.
	bad := commits[0]
	bad.Parents = []string{"0000000000000000000000000000000000000000"}

	ins := New(repo, zap.NewNop(), Options{IncludeDiff: true})
	f := ins.Inspect(ctx, bad)

	assert.True(t, f.DiffFailed)
	// Message findings survive the diff failure.
	assert.Equal(t, []string{"a@x.de"}, f.Emails)
}

func openAndWalk(t *testing.T, dir string) (*gitrepo.Repository, []gitrepo.Commit) {
	t.Helper()
	repo, err := gitrepo.Open(dir, zap.NewNop())
	require.NoError(t, err)

	var commits []gitrepo.Commit
	_, err = repo.WalkHistory(context.Background(), 0, func(c gitrepo.Commit) error {
		commits = append(commits, c)
		return nil
	})
	require.NoError(t, err)
	return repo, commits
}

func initRepo(t *testing.T, dir string) {
	t.Helper()
	runGit(t, dir, "init", "-b", "main")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test User")
}

func commitFile(t *testing.T, dir, path, content, message string) {
	t.Helper()
	fullPath := filepath.Join(dir, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
	require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", message)
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v failed: %v\nOutput: %s", args, err, out)
	}
}
