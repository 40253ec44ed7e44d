package coderunner

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/codeready-toolchain/interviewplatform/pkg/apperr"
	"github.com/codeready-toolchain/interviewplatform/pkg/domain"
)

// runSQL executes SQL submissions against an in-memory engine rather than a
// sandboxed container: a SQL script has no filesystem/network surface to
// isolate, so modernc.org/sqlite's pure-Go, cgo-free driver running
// in-process is both simpler and a smaller attack surface than spinning up
// a database server container per submission.
func (r *Runner) runSQL(ctx context.Context, source string, tests []*domain.TestCase) (bool, string, error) {
	if len(tests) == 0 {
		return false, "", apperr.New(apperr.KindValidation, "QUESTION_HAS_NO_TESTS", "question has no test cases to run against")
	}

	ordered := orderTests(tests)
	var logLines []string
	for i, tc := range ordered {
		passed, got, err := runSQLCase(ctx, source, tc.Input, tc.Expected)
		if err != nil {
			logLines = append(logLines, fmt.Sprintf("test %d: FAILED (%v)", i+1, err))
			return false, strings.Join(logLines, "\n"), nil
		}
		if !passed {
			logLines = append(logLines, fmt.Sprintf("test %d: FAILED expected=%q got=%q", i+1, strings.TrimSpace(tc.Expected), got))
			return false, strings.Join(logLines, "\n"), nil
		}
		logLines = append(logLines, fmt.Sprintf("test %d: PASSED", i+1))
	}
	return true, strings.Join(logLines, "\n"), nil
}

// runSQLCase opens a fresh in-memory database, applies the candidate's
// script (schema + any DML), then runs the test case's query and serializes
// its result set one row per line, columns comma-joined.
func runSQLCase(ctx context.Context, source, query, expected string) (bool, string, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return false, "", fmt.Errorf("open in-memory engine: %w", err)
	}
	defer db.Close()

	for _, stmt := range splitStatements(source) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return false, "", fmt.Errorf("apply script: %w", err)
		}
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return false, "", fmt.Errorf("run query: %w", err)
	}
	defer rows.Close()

	got, err := serializeRows(rows)
	if err != nil {
		return false, "", err
	}
	return strings.TrimSpace(got) == strings.TrimSpace(expected), got, nil
}

// splitStatements naively splits a SQL script on statement-terminating
// semicolons. It does not understand semicolons embedded in string
// literals or procedural bodies, which is acceptable for the flat
// schema/seed/query scripts this harness runs.
func splitStatements(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

func serializeRows(rows *sql.Rows) (string, error) {
	cols, err := rows.Columns()
	if err != nil {
		return "", fmt.Errorf("read columns: %w", err)
	}
	var lines []string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return "", fmt.Errorf("scan row: %w", err)
		}
		parts := make([]string, len(vals))
		for i, v := range vals {
			parts[i] = fmt.Sprintf("%v", v)
		}
		lines = append(lines, strings.Join(parts, ","))
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("iterate rows: %w", err)
	}
	return strings.Join(lines, "\n"), nil
}
