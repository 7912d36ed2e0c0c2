package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"liferpg/internal/engine"
	"liferpg/internal/ui"
)

func newInvestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invest",
		Short: "Track money and time put into skills and objectives",
	}
	cmd.AddCommand(newInvestAddCmd(), newInvestListCmd(), newInvestRmCmd())
	return cmd
}

func newInvestAddCmd() *cobra.Command {
	var (
		objectiveID, skillID string
		typ, status          string
		estimated, url       string
		amount               float64
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Record an investment",
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

			in := engine.CreateInvestmentInput{
				UserID:        s.userID,
				Title:         args[0],
				Type:          typ,
				EstimatedTime: estimated,
				URL:           url,
				Status:        status,
			}
			if objectiveID != "" {
				in.ObjectiveID = &objectiveID
			}
			if skillID != "" {
				in.SkillID = &skillID
			}
			if cmd.Flags().Changed("amount") {
				in.Amount = &amount
			}
			inv, err := s.svc.CreateInvestment(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.Good.Render(ui.IconPlus+" Investment added"), inv.Title,
				ui.Muted.Render(fmt.Sprintf("(%s, %s, id=%s)", inv.Type, inv.Status, inv.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&objectiveID, "objective", "o", "", "Objective ID")
	cmd.Flags().StringVarP(&skillID, "skill", "s", "", "Skill ID")
	cmd.Flags().StringVarP(&typ, "type", "t", "money", "Type (money|time|course|tool|other)")
	cmd.Flags().StringVar(&status, "status", "planned", "Status (planned|in_progress|completed)")
	cmd.Flags().Float64VarP(&amount, "amount", "a", 0, "Amount spent")
	cmd.Flags().StringVar(&estimated, "time", "", "Estimated time (free text, e.g. 20h)")
	cmd.Flags().StringVar(&url, "url", "", "Link")
	return cmd
}

func newInvestListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List investments, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			invs, err := s.svc.ListInvestments(ctx, s.userID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconGift, "Investments"))
			if len(invs) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(empty)"))
				return nil
			}
			for _, inv := range invs {
				line := fmt.Sprintf("- %s %s", inv.Title, ui.Muted.Render(fmt.Sprintf("(%s, %s)", inv.Type, inv.Status)))
				if inv.Amount != nil {
					line += " " + ui.Gold.Render(fmt.Sprintf("%.2f", *inv.Amount))
				}
				if inv.EstimatedTime != nil {
					line += " " + ui.Muted.Render(*inv.EstimatedTime)
				}
				fmt.Fprintf(out, "%s %s\n", line, ui.Muted.Render("id="+inv.ID))
			}
			return nil
		},
	}
	return cmd
}

func newInvestRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <investment_id>",
		Short: "Delete an investment",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("investment_id is required")
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

			if err := s.svc.DeleteInvestment(ctx, s.userID, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render("Investment deleted"))
			return nil
		},
	}
	return cmd
}
