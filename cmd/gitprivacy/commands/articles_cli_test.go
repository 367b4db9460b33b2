package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/averline/gitprivacy/internal/testutil/golden"
)

func TestArticlesCommandGolden(t *testing.T) {
	cmd := NewRootCmd()
	b := bytes.NewBufferString("")
	cmd.SetOut(b)
	cmd.SetArgs([]string{"articles"})

	require.NoError(t, cmd.Execute())

	testdataDir := golden.TestdataDir(t)
	if *golden.Update {
		golden.Write(t, testdataDir, "articles", b.String())
	}
	want := golden.Read(t, testdataDir, "articles")
	assert.Equal(t, want, b.String())
}
