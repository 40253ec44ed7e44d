package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// newSyncCompaniesCmd reports the distinct company names referenced across
// all jobs. The original sync_companies_from_jobs management command
// dedup'd Job.company_name into a standalone Company model; this domain has
// no separate Company aggregate (domain.Job.Company is a plain string), so
// there is nothing to upsert into — the command degenerates to the
// reporting half of the original's job, surfacing company names an
// operator may want to normalize by hand at the job-posting level.
func newSyncCompaniesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync-companies-from-jobs",
		Short: "List the distinct company names referenced by existing jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			st, _, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			jobs, err := st.Jobs.ListAll(ctx)
			if err != nil {
				return fmt.Errorf("list jobs: %w", err)
			}

			seen := make(map[string]int)
			for _, j := range jobs {
				seen[j.Company]++
			}
			names := make([]string, 0, len(seen))
			for name := range seen {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				fmt.Printf("%s (%d job(s))\n", name, seen[name])
			}
			fmt.Printf("\n%d distinct compan(ies) across %d job(s)\n", len(names), len(jobs))
			return nil
		},
	}
}
