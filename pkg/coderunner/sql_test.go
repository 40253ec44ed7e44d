package coderunner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSQLCase_MatchingRows(t *testing.T) {
	script := `
		CREATE TABLE users (id INTEGER, name TEXT);
		INSERT INTO users VALUES (1, 'ada');
		INSERT INTO users VALUES (2, 'grace');
	`
	passed, got, err := runSQLCase(context.Background(), script, "SELECT id, name FROM users ORDER BY id", "1,ada\n2,grace")
	require.NoError(t, err)
	assert.True(t, passed)
	assert.Equal(t, "1,ada\n2,grace", got)
}

func TestRunSQLCase_Mismatch(t *testing.T) {
	script := `
		CREATE TABLE users (id INTEGER, name TEXT);
		INSERT INTO users VALUES (1, 'ada');
	`
	passed, got, err := runSQLCase(context.Background(), script, "SELECT id, name FROM users", "1,grace")
	require.NoError(t, err)
	assert.False(t, passed)
	assert.Equal(t, "1,ada", got)
}

func TestRunSQLCase_InvalidQueryErrors(t *testing.T) {
	_, _, err := runSQLCase(context.Background(), "CREATE TABLE t (id INTEGER);", "SELECT * FROM nonexistent", "")
	require.Error(t, err)
}

func TestSplitStatements(t *testing.T) {
	stmts := splitStatements("CREATE TABLE t (id INTEGER);\n\nINSERT INTO t VALUES (1);  ")
	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE TABLE t (id INTEGER)", stmts[0])
	assert.Equal(t, "INSERT INTO t VALUES (1)", stmts[1])
}

func TestRunSQL_EmptyTestsErrors(t *testing.T) {
	r := &Runner{}
	_, _, err := r.runSQL(context.Background(), "CREATE TABLE t (id INTEGER);", nil)
	require.Error(t, err)
}
