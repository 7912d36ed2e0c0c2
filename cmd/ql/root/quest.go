package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"liferpg/internal/engine"
	"liferpg/internal/storage"
	"liferpg/internal/ui"
)

func newQuestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quest",
		Short: "Manage recurring quests",
	}
	cmd.AddCommand(newQuestAddCmd(), newQuestListCmd(), newQuestDoCmd(), newQuestUndoCmd(), newQuestResetCmd(), newQuestRmCmd())
	return cmd
}

func newQuestAddCmd() *cobra.Command {
	var roleID, desc, freq string
	var xp int

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a quest to a role",
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

			q, err := s.svc.CreateQuest(ctx, engine.CreateQuestInput{
				UserID:      s.userID,
				RoleID:      roleID,
				Title:       args[0],
				Description: desc,
				XPReward:    xp,
				Frequency:   freq,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n", ui.Good.Render(ui.IconPlus+" Quest added"), q.Title,
				ui.Muted.Render(fmt.Sprintf("(+%d XP, %s)", q.XPReward, q.Frequency)), ui.Muted.Render(q.ID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&roleID, "role", "r", "", "Role ID")
	cmd.Flags().IntVarP(&xp, "xp", "x", 10, "XP reward")
	cmd.Flags().StringVarP(&freq, "freq", "f", "daily", "Frequency (daily|weekly|monthly)")
	cmd.Flags().StringVarP(&desc, "desc", "d", "", "Description")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}

func newQuestListCmd() *cobra.Command {
	var roleID string
	var today bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List quests",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			var quests []storage.Quest
			if today {
				quests, err = s.svc.TodayQuests(ctx, s.userID)
			} else {
				var rid *string
				if roleID != "" {
					rid = &roleID
				}
				quests, err = s.svc.ListQuests(ctx, s.userID, rid)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			title := "Quests"
			if today {
				title = "Today's quests"
			}
			fmt.Fprintln(out, ui.Heading(ui.IconQuest, title))
			if len(quests) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(empty)"))
				return nil
			}
			for _, q := range quests {
				box := "[ ]"
				if q.IsCompleted {
					box = ui.Good.Render("[x]")
				}
				fmt.Fprintf(out, "%s %s %s %s %s\n", box, ui.FrequencyIcon(q.Frequency), q.Title,
					ui.Muted.Render(fmt.Sprintf("+%d XP, %s, streak %d", q.XPReward, q.Frequency, q.Streak)),
					ui.Muted.Render(q.ID))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&roleID, "role", "r", "", "Only quests of this role")
	cmd.Flags().BoolVarP(&today, "today", "t", false, "Only daily and weekly quests")
	return cmd
}

func newQuestDoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "do <quest_id>",
		Short: "Complete a quest and collect its XP",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("quest_id is required")
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

			res, err := s.svc.CompleteQuest(ctx, s.userID, args[0])
			if err != nil {
				return err
			}
			printCompletion(cmd, ui.IconDone+" Completed", res.Quest.Title, res.CompleteResult)
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Streak", fmt.Sprintf("%s %d", ui.IconFire, res.Quest.Streak)))
			return nil
		},
	}
	return cmd
}

func newQuestUndoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo <quest_id>",
		Short: "Reopen a completed quest",
		Long: `Reopen a quest that was marked done.

XP already granted and the quest streak are kept; the ledger is append-only.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("quest_id is required")
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

			q, err := s.svc.UncompleteQuest(ctx, s.userID, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Warn.Render(ui.IconUndo+" Reopened"), q.Title)
			return nil
		},
	}
	return cmd
}

func newQuestResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reopen all completed daily quests",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			n, err := s.svc.ResetDailyQuests(ctx, s.userID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d daily quest(s)\n", ui.Good.Render(ui.IconLoop+" Reset"), n)
			return nil
		},
	}
	return cmd
}

// printCompletion renders the XP award and any level change.
func printCompletion(cmd *cobra.Command, verb string, title string, res engine.CompleteResult) {
	out := cmd.OutOrStdout()
	if res.Role == nil {
		fmt.Fprintf(out, "%s %s %s\n", ui.Good.Render(verb), title, ui.Muted.Render("(no XP)"))
		return
	}
	fmt.Fprintf(out, "%s %s %s\n", ui.Good.Render(verb), title, ui.Gold.Render(fmt.Sprintf("+%d XP", res.XPAwarded)))
	fmt.Fprintf(out, "%s %s\n", ui.Key.Render(res.Role.Name+":"), ui.LevelLine(res.Role.Level, res.Role.CurrentXP, res.Role.XPToNextLevel))
	if res.LevelUp {
		fmt.Fprintf(out, "%s %s\n", ui.BadgeLevelUp, ui.Gold.Render(fmt.Sprintf("%s %d → %d", ui.IconTrophy, res.LevelBefore, res.LevelAfter)))
	}
}

func newQuestRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <quest_id>",
		Short: "Delete a quest",
		Long: `Delete a quest and its completion history.

XP the quest already granted stays on the role and in the ledger.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("quest_id is required")
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

			if err := s.svc.DeleteQuest(ctx, s.userID, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render("Quest deleted"))
			return nil
		},
	}
	return cmd
}
