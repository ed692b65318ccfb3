package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"healthdash/services"
)

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print today's coach context",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _, log, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck
			defer app.Close()

			_, err = fmt.Fprintln(cmd.OutOrStdout(), app.CoachContext())
			return err
		},
	}
}

func newProgressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Print today's dashboard as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _, log, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck
			defer app.Close()

			return writeJSON(cmd.OutOrStdout(), app.Dashboard())
		},
	}
}

func newAdviseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "advise <message>",
		Short: "Ask the AI coach a question about today",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _, log, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck
			defer app.Close()

			_, err = fmt.Fprintln(cmd.OutOrStdout(), app.Advise(cmd.Context(), strings.Join(args, " ")))
			return err
		},
	}
}

func newPlanCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:       "plan diet|workout",
		Short:     "Print today's plan, generating it when stale",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{services.FlowDiet, services.FlowWorkout},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _, log, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck
			defer app.Close()

			p, ok := app.Profile.Get()
			if !ok {
				return errors.New("set a profile first (PUT /api/profile)")
			}
			ctx, today := cmd.Context(), app.Today()

			switch args[0] {
			case services.FlowDiet:
				if force {
					err = app.DietPlans.Regenerate(ctx, &p, today)
				} else {
					err = app.DietPlans.Fetch(ctx, &p, today)
				}
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), app.DietPlans.State())
			default:
				if force {
					err = app.WorkoutPlans.Regenerate(ctx, &p, today)
				} else {
					err = app.WorkoutPlans.Fetch(ctx, &p, today)
				}
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), app.WorkoutPlans.State())
			}
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "regenerate even if today's plan is cached")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
