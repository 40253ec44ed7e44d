// interviewctl is the operator CLI for the interview platform, exposing
// the administrative commands spec.md §6 names: create-admin,
// sync-companies-from-jobs, fix-existing-interview-times, and
// send-interview-emails. Each exits 0 on success and non-zero with a
// single-line error on failure, per spec.md §6.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "interviewctl",
		Short: "Operator CLI for the interview platform",
	}

	root.AddCommand(newCreateAdminCmd())
	root.AddCommand(newSyncCompaniesCmd())
	root.AddCommand(newFixInterviewTimesCmd())
	root.AddCommand(newSendInterviewEmailsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
