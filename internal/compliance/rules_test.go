package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRules(t *testing.T) {
	rules, err := LoadRules()
	require.NoError(t, err)

	assert.Equal(t, []int{6, 13, 14, 17, 20}, rules.SupportedArticles())

	rule, ok := rules.Article(17)
	require.True(t, ok)
	assert.Equal(t, "Right to erasure (right to be forgotten)", rule.Title)
	assert.Equal(t, 25, rule.Score)
	require.Len(t, rule.Violations, 3)
	assert.Equal(t, "erasure_impossible", rule.Violations[0].ID)

	_, ok = rules.Article(99)
	assert.False(t, ok)
}

func TestRuleViolationInstantiation(t *testing.T) {
	rules, err := LoadRules()
	require.NoError(t, err)

	rule, ok := rules.Article(6)
	require.True(t, ok)

	v := rule.violation("missing_lawful_basis")
	assert.Equal(t, "missing_lawful_basis", v.Type)
	assert.Equal(t, "6(1)", v.Article)
	assert.Equal(t, SeverityHigh, v.Severity)
	assert.Equal(t, 8, rule.violationScore("missing_lawful_basis"))
	assert.Equal(t, 5, rule.violationScore("no_consent_mechanism"))
}

func TestRuleRecommendationGroups(t *testing.T) {
	rules, err := LoadRules()
	require.NoError(t, err)

	rule, ok := rules.Article(6)
	require.True(t, ok)
	assert.Len(t, rule.recommendationGroup("personal_data"), 4)
	assert.Empty(t, rule.recommendationGroup("missing"))
}
