package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// newFixInterviewTimesCmd reconciles every scheduled interview's stored UTC
// window against a fresh civil-to-UTC projection of its bound Slot, fixing
// drift caused by a timezone configuration change after booking. Ported
// from the original fix_existing_interview_times management command, which
// walked interviews with a bound schedule, recomputed start/end in IST, and
// wrote back whatever differed.
func newFixInterviewTimesCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "fix-existing-interview-times",
		Short: "Recompute and correct stored interview windows from their bound slot's civil time",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			st, cfg, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			scheduler, err := openScheduler(st, cfg)
			if err != nil {
				return fmt.Errorf("construct scheduler: %w", err)
			}

			interviews, err := st.Interviews.ListWithSchedule(ctx)
			if err != nil {
				return fmt.Errorf("list scheduled interviews: %w", err)
			}

			var fixed, ok, errored int
			for _, iv := range interviews {
				sched, err := st.Schedules.GetByID(ctx, *iv.ScheduleID)
				if err != nil {
					fmt.Printf("ERROR interview %s: load schedule: %v\n", iv.ID, err)
					errored++
					continue
				}
				slot, err := st.Slots.GetByID(ctx, sched.SlotID)
				if err != nil {
					fmt.Printf("ERROR interview %s: load slot: %v\n", iv.ID, err)
					errored++
					continue
				}
				wantStart, err := scheduler.CivilToUTC(slot.Date, slot.StartTime)
				if err != nil {
					fmt.Printf("ERROR interview %s: project start time: %v\n", iv.ID, err)
					errored++
					continue
				}
				wantEnd, err := scheduler.CivilToUTC(slot.Date, slot.EndTime)
				if err != nil {
					fmt.Printf("ERROR interview %s: project end time: %v\n", iv.ID, err)
					errored++
					continue
				}

				if iv.StartedAt != nil && iv.EndedAt != nil &&
					iv.StartedAt.Equal(wantStart) && iv.EndedAt.Equal(wantEnd) {
					fmt.Printf("OK interview %s already correct\n", iv.ID)
					ok++
					continue
				}

				if dryRun {
					fmt.Printf("WOULD FIX interview %s: %v/%v -> %v/%v\n", iv.ID, iv.StartedAt, iv.EndedAt, wantStart, wantEnd)
					fixed++
					continue
				}
				if err := st.Interviews.UpdateWindow(ctx, iv.ID, wantStart, wantEnd); err != nil {
					fmt.Printf("ERROR interview %s: write window: %v\n", iv.ID, err)
					errored++
					continue
				}
				fmt.Printf("FIXED interview %s: %v/%v -> %v/%v\n", iv.ID, iv.StartedAt, iv.EndedAt, wantStart, wantEnd)
				fixed++
			}

			fmt.Printf("\ntotal=%d fixed=%d already_correct=%d errors=%d\n", len(interviews), fixed, ok, errored)
			if errored > 0 {
				return fmt.Errorf("%d interview(s) failed to reconcile", errored)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without writing")
	return cmd
}
