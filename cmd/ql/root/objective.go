package root

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"liferpg/internal/engine"
	"liferpg/internal/ui"
)

func newObjectiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "objective",
		Aliases: []string{"obj"},
		Short:   "Manage quarterly objectives",
	}
	cmd.AddCommand(newObjectiveAddCmd(), newObjectiveListCmd(), newObjectiveDoneCmd(), newObjectiveStatusCmd(), newObjectiveRmCmd())
	return cmd
}

func newObjectiveAddCmd() *cobra.Command {
	var roleID, desc, quarter, deadline string
	var year, xp int

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add an objective (defaults to the current quarter)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("title is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			in := engine.CreateObjectiveInput{
				UserID:      s.userID,
				Title:       args[0],
				Description: desc,
				Quarter:     quarter,
				Year:        year,
				XPReward:    xp,
			}
			if roleID != "" {
				in.RoleID = &roleID
			}
			if deadline != "" {
				d, err := time.Parse("2006-01-02", deadline)
				if err != nil {
					return fmt.Errorf("deadline must be YYYY-MM-DD: %w", err)
				}
				in.Deadline = &d
			}

			o, err := s.svc.CreateObjective(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n", ui.Good.Render(ui.IconTarget+" Objective added"), o.Title,
				ui.Muted.Render(fmt.Sprintf("(%s %d, +%d XP)", o.Quarter, o.Year, o.XPReward)), ui.Muted.Render(o.ID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&roleID, "role", "r", "", "Role ID (no role means no XP)")
	cmd.Flags().StringVarP(&quarter, "quarter", "q", "", "Quarter (Q1-Q4)")
	cmd.Flags().IntVarP(&year, "year", "y", 0, "Year")
	cmd.Flags().IntVarP(&xp, "xp", "x", 0, "XP reward")
	cmd.Flags().StringVarP(&desc, "desc", "d", "", "Description")
	cmd.Flags().StringVar(&deadline, "deadline", "", "Deadline (YYYY-MM-DD)")
	return cmd
}

func newObjectiveListCmd() *cobra.Command {
	var quarter string
	var year int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List objectives",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			objs, err := s.svc.ListObjectives(ctx, s.userID, quarter, year)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconTarget, "Objectives"))
			if len(objs) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(empty)"))
				return nil
			}
			for _, o := range objs {
				fmt.Fprintf(out, "- %s %s %s %s\n", ui.ObjectiveStatus(o.Status), o.Title,
					ui.Muted.Render(fmt.Sprintf("%s %d, +%d XP", o.Quarter, o.Year, o.XPReward)), ui.Muted.Render(o.ID))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&quarter, "quarter", "q", "", "Filter by quarter")
	cmd.Flags().IntVarP(&year, "year", "y", 0, "Filter by year")
	return cmd
}

func newObjectiveDoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <objective_id>",
		Short: "Complete an objective",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("objective_id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := s.svc.CompleteObjective(ctx, s.userID, args[0])
			if err != nil {
				return err
			}
			printCompletion(cmd, ui.IconDone+" Achieved", res.Objective.Title, res.CompleteResult)
			return nil
		},
	}
	return cmd
}

func newObjectiveStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <objective_id> <pending|in_progress|failed>",
		Short: "Move an objective to another status",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("objective_id and status are required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := engine.ParseObjectiveStatus(args[1])
			if err != nil {
				return err
			}
			ctx := context.Background()
			s, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			o, err := s.svc.SetObjectiveStatus(ctx, s.userID, args[0], st)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s → %s\n", o.Title, ui.ObjectiveStatus(o.Status))
			return nil
		},
	}
	return cmd
}

func newObjectiveRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <objective_id>",
		Short: "Delete an objective",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("objective_id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := s.svc.DeleteObjective(ctx, s.userID, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render("Objective deleted"))
			return nil
		},
	}
	return cmd
}
