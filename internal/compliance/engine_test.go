package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/averline/gitprivacy/internal/scan"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(zap.NewNop())
	require.NoError(t, err)
	return engine
}

func resultWithPersonalData() *scan.Result {
	return &scan.Result{
		TotalCommits: 3,
		Emails:       []string{"a@x.de"},
		Authors:      []string{"A <a@x.de>"},
		Committers:   []string{"A <a@x.de>"},
		CrossBorder: []scan.CrossBorderIndicator{
			{Type: "platform_transfer"},
		},
	}
}

func TestEvaluateAllArticles(t *testing.T) {
	engine := newEngine(t)
	report := engine.Evaluate(resultWithPersonalData(), nil)

	assert.Equal(t, []int{6, 13, 14, 17, 20}, report.ArticlesChecked)
	assert.False(t, report.OverallCompliant)
	require.Len(t, report.ArticleResults, 5)

	// 13 (art 6) + 20 (art 13) + 12 (art 14) + 25 (art 17) + 8 (art 20).
	assert.Equal(t, 78, report.SeverityScore)
	assert.Equal(t, LevelCritical, report.SeverityLevel)
}

func TestEvaluateArticleSubset(t *testing.T) {
	engine := newEngine(t)
	report := engine.Evaluate(resultWithPersonalData(), []int{6, 17, 20})

	assert.Equal(t, []int{6, 17, 20}, report.ArticlesChecked)
	assert.False(t, report.OverallCompliant)
	assert.Equal(t, 46, report.SeverityScore)
	assert.Equal(t, LevelCritical, report.SeverityLevel)
	require.Len(t, report.ArticleResults, 3)
	assert.Equal(t, 6, report.ArticleResults[0].Article)
	assert.Equal(t, 17, report.ArticleResults[1].Article)
	assert.Equal(t, 20, report.ArticleResults[2].Article)
}

func TestLawfulBasisWithoutPersonalData(t *testing.T) {
	engine := newEngine(t)
	result, err := engine.EvaluateArticle(&scan.Result{}, 6)
	require.NoError(t, err)

	// The consent-mechanism violation applies even to empty history, so
	// the article never comes out compliant.
	assert.False(t, result.Compliant)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, "no_consent_mechanism", result.Violations[0].Type)
	assert.Equal(t, 5, result.SeverityScore)
	assert.Empty(t, result.Recommendations)
	assert.False(t, result.Details["personal_data_detected"])
}

func TestLawfulBasisWithPersonalData(t *testing.T) {
	engine := newEngine(t)
	result, err := engine.EvaluateArticle(resultWithPersonalData(), 6)
	require.NoError(t, err)

	assert.False(t, result.Compliant)
	require.Len(t, result.Violations, 2)
	assert.Equal(t, "missing_lawful_basis", result.Violations[0].Type)
	assert.Equal(t, SeverityHigh, result.Violations[0].Severity)
	assert.Equal(t, "6(1)", result.Violations[0].Article)
	assert.Equal(t, "no_consent_mechanism", result.Violations[1].Type)
	assert.Equal(t, 13, result.SeverityScore)
	assert.Len(t, result.Recommendations, 4)
	assert.True(t, result.Details["personal_data_detected"])
}

func TestDirectCollectionNoticeFixedVerdict(t *testing.T) {
	engine := newEngine(t)
	result, err := engine.EvaluateArticle(&scan.Result{}, 13)
	require.NoError(t, err)

	assert.False(t, result.Compliant)
	assert.Len(t, result.Violations, 4)
	assert.Equal(t, 20, result.SeverityScore)
	assert.Len(t, result.Recommendations, 5)
}

func TestIndirectCollectionNoticeDependsOnCrossBorder(t *testing.T) {
	engine := newEngine(t)

	clean, err := engine.EvaluateArticle(&scan.Result{}, 14)
	require.NoError(t, err)
	assert.True(t, clean.Compliant)
	assert.Empty(t, clean.Violations)
	assert.Equal(t, 0, clean.SeverityScore)
	// Recommendations are advisory and independent of the verdict.
	assert.Len(t, clean.Recommendations, 3)

	flagged, err := engine.EvaluateArticle(resultWithPersonalData(), 14)
	require.NoError(t, err)
	assert.False(t, flagged.Compliant)
	assert.Len(t, flagged.Violations, 2)
	assert.Equal(t, 12, flagged.SeverityScore)
}

func TestErasureAlwaysNonCompliant(t *testing.T) {
	engine := newEngine(t)
	result, err := engine.EvaluateArticle(&scan.Result{}, 17)
	require.NoError(t, err)

	assert.False(t, result.Compliant)
	require.Len(t, result.Violations, 3)
	assert.Equal(t, "erasure_impossible", result.Violations[0].Type)
	assert.Equal(t, SeverityCritical, result.Violations[0].Severity)
	assert.Equal(t, 25, result.SeverityScore)
}

func TestPortabilityFixedVerdict(t *testing.T) {
	engine := newEngine(t)
	result, err := engine.EvaluateArticle(&scan.Result{}, 20)
	require.NoError(t, err)

	assert.False(t, result.Compliant)
	assert.Len(t, result.Violations, 2)
	assert.Equal(t, 8, result.SeverityScore)
	assert.True(t, result.Details["machine_readable"])
	assert.False(t, result.Details["commonly_used_format"])
}

func TestEvaluateArticleUnsupported(t *testing.T) {
	engine := newEngine(t)
	_, err := engine.EvaluateArticle(&scan.Result{}, 99)

	var unsupported *UnsupportedArticleError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, 99, unsupported.Article)
}

func TestEvaluateUnsupportedArticleStub(t *testing.T) {
	engine := newEngine(t)
	report := engine.Evaluate(&scan.Result{}, []int{99})

	assert.False(t, report.OverallCompliant)
	require.Len(t, report.ArticleResults, 1)
	stub := report.ArticleResults[0]
	assert.Equal(t, 99, stub.Article)
	assert.False(t, stub.Supported)
	assert.False(t, stub.Compliant)
	assert.Equal(t, 0, stub.SeverityScore)
	require.Len(t, stub.Violations, 1)
	assert.Equal(t, "unsupported_article", stub.Violations[0].Type)
}

func TestEvaluateDeduplicatesRecommendations(t *testing.T) {
	engine := newEngine(t)
	report := engine.Evaluate(&scan.Result{}, []int{13, 13})

	// The same article evaluated twice contributes its recommendation
	// block once.
	assert.Len(t, report.Recommendations, 5)
}

func TestEvaluateEmptyScan(t *testing.T) {
	engine := newEngine(t)
	report := engine.Evaluate(&scan.Result{}, nil)

	// 5 (art 6) + 20 (art 13) + 0 (art 14) + 25 (art 17) + 8 (art 20).
	assert.Equal(t, 58, report.SeverityScore)
	assert.False(t, report.OverallCompliant)

	byArticle := make(map[int]ArticleResult)
	for _, r := range report.ArticleResults {
		byArticle[r.Article] = r
	}
	assert.True(t, byArticle[14].Compliant)
	assert.False(t, byArticle[17].Compliant)
}

func TestLevelForScore(t *testing.T) {
	cases := []struct {
		score int
		level Level
	}{
		{0, LevelMinimal},
		{4, LevelMinimal},
		{5, LevelLow},
		{9, LevelLow},
		{10, LevelMedium},
		{14, LevelMedium},
		{15, LevelHigh},
		{19, LevelHigh},
		{20, LevelCritical},
		{78, LevelCritical},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.level, LevelForScore(tc.score), "score %d", tc.score)
	}
}
