package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tripweave-app/tripweave/internal/client"
	"github.com/tripweave-app/tripweave/internal/suggest"
)

func newSuggestCmd() *cobra.Command {
	var req suggest.Request

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Generate a trip suggestion",
		Example: `  tripctl suggest --user u1 --plan-type bbq --participants "6 friends" \
      --duration "one afternoon" --location "Tokyo" --budget "low"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := newOrchestrator()
			if err != nil {
				return err
			}

			req.UserID = userID
			result, err := o.Generate(cmd.Context(), req)
			if err != nil {
				return describeError(err)
			}

			fmt.Println(result.Suggestion)
			fmt.Println()
			fmt.Printf("Daily quota: %d/%d used, %d remaining\n",
				result.Usage.Used, result.Usage.Limit, result.Usage.Remaining)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.PlanType, "plan-type", "", "kind of plan (trip, bbq, party, ...)")
	cmd.Flags().StringVar(&req.Participants, "participants", "", "who is coming")
	cmd.Flags().StringVar(&req.Duration, "duration", "", "how long the plan runs")
	cmd.Flags().StringVar(&req.Location, "location", "", "where it happens")
	cmd.Flags().StringVar(&req.BudgetRange, "budget", "", "budget range (optional)")
	cmd.Flags().StringVar(&req.Preferences, "preferences", "", "free-form preferences (optional)")

	return cmd
}

// describeError turns typed client errors into readable messages.
func describeError(err error) error {
	var qe *client.QuotaError
	if errors.As(err, &qe) {
		if qe.ResetAt != nil {
			return fmt.Errorf("%s (resets %s)", qe.Message, qe.ResetAt.Format("15:04"))
		}
		return errors.New(qe.Message)
	}

	var ve *client.ValidationError
	if errors.As(err, &ve) {
		return fmt.Errorf("missing required flags: %v", ve.Missing)
	}

	if errors.Is(err, client.ErrAuthRequired) {
		return errors.New("no user id; pass --user or set $TRIPWEAVE_USER")
	}

	return err
}
