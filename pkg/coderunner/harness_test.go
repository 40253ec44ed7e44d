package coderunner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/interviewplatform/pkg/apperr"
	"github.com/codeready-toolchain/interviewplatform/pkg/domain"
)

func TestExtractFunctionName(t *testing.T) {
	cases := []struct {
		language, source, want string
	}{
		{"PYTHON", "def two_sum(nums, target):\n    return []", "two_sum"},
		{"PYTHON", "x = 1\n", "solve"},
		{"JAVASCRIPT", "function addOne(n) { return n + 1; }", "addOne"},
		{"RUBY", "def greet(name)\n  name\nend", "greet"},
		{"PHP", "function greet($name) { return $name; }", "greet"},
		{"GO_NOT_A_REAL_LANGUAGE", "whatever", "solve"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, extractFunctionName(tc.language, tc.source), tc.language)
	}
}

func TestBuildHarness_Python(t *testing.T) {
	src, err := buildHarness("PYTHON", "def solve(n):\n    return n * 2", "21")
	require.NoError(t, err)
	assert.Contains(t, src, "def solve(n):")
	assert.Contains(t, src, "print(solve(21))")
}

func TestBuildHarness_Java(t *testing.T) {
	src, err := buildHarness("JAVA", "static int solve(int n) { return n * 2; }", "21")
	require.NoError(t, err)
	assert.Contains(t, src, "public class Main {")
	assert.Contains(t, src, "System.out.println(solve(21));")
}

func TestBuildHarness_UnsupportedLanguage(t *testing.T) {
	_, err := buildHarness("COBOL", "whatever", "1")
	require.Error(t, err)
}

func TestOrderTests_NonHiddenBeforeHidden(t *testing.T) {
	tests := []*domain.TestCase{
		{ID: "hidden-1", IsHidden: true},
		{ID: "visible-1", IsHidden: false},
		{ID: "hidden-2", IsHidden: true},
		{ID: "visible-2", IsHidden: false},
	}
	ordered := orderTests(tests)
	require.Len(t, ordered, 4)
	assert.Equal(t, []string{"visible-1", "visible-2", "hidden-1", "hidden-2"}, []string{
		ordered[0].ID, ordered[1].ID, ordered[2].ID, ordered[3].ID,
	})
}

func TestRun_QuestionHasNoTests(t *testing.T) {
	r := &Runner{}
	_, _, err := r.Run(context.Background(), "PYTHON", "def solve(): pass", nil)
	require.Error(t, err)
	assert.Equal(t, "QUESTION_HAS_NO_TESTS", apperr.CodeOf(err))
}

func TestRun_LanguageUnsupported(t *testing.T) {
	r := &Runner{}
	tests := []*domain.TestCase{{ID: "t1"}}
	_, _, err := r.Run(context.Background(), "COBOL", "whatever", tests)
	require.Error(t, err)
	assert.Equal(t, "LANGUAGE_UNSUPPORTED", apperr.CodeOf(err))
}
