package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/averline/gitprivacy/cmd/gitprivacy/internal/clierr"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	b := bytes.NewBufferString("")
	cmd.SetOut(b)
	cmd.SetErr(b)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return b.String(), err
}

func TestScanCommandJSON(t *testing.T) {
	dir := t.TempDir()
	initTestRepo(t, dir, "A", "a@x.de")
	commitTestFile(t, dir, "a.txt", "hello\n", "fix bug, contact a@x.de")

	out, err := runCLI(t, "scan", dir, "--format", "json")
	require.NoError(t, err)

	var envelope reportEnvelope
	require.NoError(t, json.Unmarshal([]byte(out), &envelope))

	require.NotNil(t, envelope.ScanResult)
	require.NotNil(t, envelope.ComplianceReport)
	assert.Equal(t, 1, envelope.ScanResult.TotalCommits)
	assert.Equal(t, []string{"a@x.de"}, envelope.ScanResult.Emails)
	assert.False(t, envelope.ComplianceReport.OverallCompliant)
	assert.Nil(t, envelope.ComplianceReport.ForkImpact)
}

func TestScanCommandText(t *testing.T) {
	color.NoColor = true
	dir := t.TempDir()
	initTestRepo(t, dir, "A", "a@x.de")
	commitTestFile(t, dir, "a.txt", "hello\n", "initial")

	out, err := runCLI(t, "scan", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "GDPR Compliance Scan Results")
	assert.Contains(t, out, "Commits analyzed: 1")
	assert.Contains(t, out, "Article 17")
	assert.Contains(t, out, "NON-COMPLIANT")
	assert.Contains(t, out, "Overall severity:")
}

func TestScanCommandArticleSubset(t *testing.T) {
	dir := t.TempDir()
	initTestRepo(t, dir, "A", "a@x.de")
	commitTestFile(t, dir, "a.txt", "hello\n", "initial")

	out, err := runCLI(t, "scan", dir, "--format", "json", "--articles", "6,17")
	require.NoError(t, err)

	var envelope reportEnvelope
	require.NoError(t, json.Unmarshal([]byte(out), &envelope))
	assert.Equal(t, []int{6, 17}, envelope.ComplianceReport.ArticlesChecked)
}

func TestScanCommandIncludeForks(t *testing.T) {
	dir := t.TempDir()
	initTestRepo(t, dir, "A", "a@x.de")
	commitTestFile(t, dir, "a.txt", "hello\n", "initial")

	out, err := runCLI(t, "scan", dir, "--format", "json", "--include-forks")
	require.NoError(t, err)

	var envelope reportEnvelope
	require.NoError(t, json.Unmarshal([]byte(out), &envelope))
	require.NotNil(t, envelope.ComplianceReport.ForkImpact)
	// A local path goes through the local estimator.
	assert.Equal(t, 0, envelope.ComplianceReport.ForkImpact.TotalForks)
	assert.True(t, envelope.ComplianceReport.ForkImpact.ErasureImpossible)
}

func TestScanCommandOutputFile(t *testing.T) {
	dir := t.TempDir()
	initTestRepo(t, dir, "A", "a@x.de")
	commitTestFile(t, dir, "a.txt", "hello\n", "initial")

	reportPath := filepath.Join(t.TempDir(), "report.json")
	out, err := runCLI(t, "scan", dir, "--format", "json", "--output", reportPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Report saved to:")

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var envelope reportEnvelope
	require.NoError(t, json.Unmarshal(data, &envelope))
	assert.Equal(t, 1, envelope.ScanResult.TotalCommits)
}

func TestScanCommandNotARepository(t *testing.T) {
	dir := t.TempDir()

	_, err := runCLI(t, "scan", dir)
	require.Error(t, err)
	assert.Equal(t, 2, clierr.ExitCodeOf(err))
}

func TestScanCommandInvalidArticles(t *testing.T) {
	dir := t.TempDir()
	initTestRepo(t, dir, "A", "a@x.de")

	_, err := runCLI(t, "scan", dir, "--articles", "six")
	require.Error(t, err)
	assert.Equal(t, 1, clierr.ExitCodeOf(err))
}

func TestCheckCommand(t *testing.T) {
	color.NoColor = true
	dir := t.TempDir()
	initTestRepo(t, dir, "A", "a@x.de")
	commitTestFile(t, dir, "a.txt", "hello\n", "initial")

	out, err := runCLI(t, "check", dir, "--article", "17")
	require.NoError(t, err)
	assert.Contains(t, out, "Article 17: NON-COMPLIANT")
	assert.Contains(t, out, "erasure technically impossible")
}

func TestForksCommandLocalPath(t *testing.T) {
	out, err := runCLI(t, "forks", "/tmp/some-repo")
	require.NoError(t, err)
	assert.Contains(t, out, "Total forks:           0")
	assert.Contains(t, out, "Erasure impossible:    true")
}

func TestForksCommandDepthFlag(t *testing.T) {
	// Depth bounds fork traversal; for a forge URL the stand-in figures
	// depend only on the repository, so any depth yields the same report.
	base, err := runCLI(t, "forks", "https://github.com/acme/widgets")
	require.NoError(t, err)

	deep, err := runCLI(t, "forks", "https://github.com/acme/widgets", "--depth", "5")
	require.NoError(t, err)
	assert.Equal(t, base, deep)
}

func initTestRepo(t *testing.T, dir, name, email string) {
	t.Helper()
	runTestGit(t, dir, "init", "-b", "main")
	runTestGit(t, dir, "config", "user.email", email)
	runTestGit(t, dir, "config", "user.name", name)
}

func commitTestFile(t *testing.T, dir, path, content, message string) {
	t.Helper()
	fullPath := filepath.Join(dir, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
	require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
	runTestGit(t, dir, "add", ".")
	runTestGit(t, dir, "commit", "-m", message)
}

func runTestGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v failed: %v\nOutput: %s", args, err, out)
	}
}
