package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/codeready-toolchain/interviewplatform/pkg/notify"
)

// newSendInterviewEmailsCmd re-sends the "interview scheduled" notification
// for every interview with a bound schedule, for operators recovering from
// an outage in the notify sink at booking time. Reuses the same
// notify.ScheduledMessage shape and IST formatting the booking handler
// sends inline, grounded on pkg/api/handler_interviews.go's notifyScheduled.
func newSendInterviewEmailsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send-interview-emails",
		Short: "Re-send the interview-scheduled notification for every scheduled interview",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			st, cfg, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			ist, err := time.LoadLocation("Asia/Kolkata")
			if err != nil {
				return fmt.Errorf("load IST location: %w", err)
			}

			sink, err := notify.NewFromConfig(cfg.Notify.Provider, notify.SMTPConfig{
				Addr:     cfg.Notify.SMTPAddr,
				User:     cfg.Notify.SMTPUser,
				Password: cfg.Notify.SMTPPassword,
				From:     cfg.Notify.SMTPFrom,
			}, cfg.Notify.HTTPURL, nil)
			if err != nil {
				return fmt.Errorf("construct notify sink: %w", err)
			}

			interviews, err := st.Interviews.ListWithSchedule(ctx)
			if err != nil {
				return fmt.Errorf("list scheduled interviews: %w", err)
			}

			var sent, failed int
			for _, iv := range interviews {
				if iv.StartedAt == nil {
					continue
				}
				cand, err := st.Candidates.GetByID(ctx, iv.CandidateID)
				if err != nil {
					fmt.Printf("ERROR interview %s: load candidate: %v\n", iv.ID, err)
					failed++
					continue
				}
				job, err := st.Jobs.GetByID(ctx, iv.JobID)
				if err != nil {
					fmt.Printf("ERROR interview %s: load job: %v\n", iv.ID, err)
					failed++
					continue
				}
				sess, err := st.Sessions.GetByInterviewID(ctx, iv.ID)
				if err != nil {
					fmt.Printf("ERROR interview %s: load session: %v\n", iv.ID, err)
					failed++
					continue
				}

				msg := notify.ScheduledMessage{
					CandidateEmail: cand.Email,
					CandidateName:  cand.DisplayName,
					JobTitle:       job.Title,
					StartTimeIST:   iv.StartedAt.In(ist).Format("2 Jan 2006, 3:04 PM") + " IST",
					SessionURL:     cfg.BaseURL + "/interview/?session_key=" + sess.SessionKey,
				}
				if err := sink.Send(ctx, msg); err != nil {
					fmt.Printf("ERROR interview %s: send: %v\n", iv.ID, err)
					failed++
					continue
				}
				fmt.Printf("SENT interview %s -> %s\n", iv.ID, cand.Email)
				sent++
			}

			fmt.Printf("\ntotal=%d sent=%d failed=%d\n", len(interviews), sent, failed)
			if failed > 0 {
				return fmt.Errorf("%d notification(s) failed to send", failed)
			}
			return nil
		},
	}
}
