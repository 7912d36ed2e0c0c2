package root

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"liferpg/internal/engine"
	"liferpg/internal/storage"
	"liferpg/internal/ui"
)

func newSkillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skill",
		Short: "Manage role skill trees",
	}
	cmd.AddCommand(newSkillAddCmd(), newSkillListCmd(), newSkillUnlockCmd())
	return cmd
}

func newSkillAddCmd() *cobra.Command {
	var roleID, parentID, desc, costTime string
	var costXP int
	var costMoney float64

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a skill; children start locked until their parent is unlocked",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("name is required")
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

			in := engine.CreateSkillInput{
				UserID:      s.userID,
				RoleID:      roleID,
				Name:        args[0],
				Description: desc,
				CostXP:      costXP,
				CostTime:    costTime,
			}
			if parentID != "" {
				in.ParentSkillID = &parentID
			}
			if cmd.Flags().Changed("cost-money") {
				in.CostMoney = &costMoney
			}

			sk, err := s.svc.CreateSkill(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n", ui.Good.Render(ui.IconSkill+" Skill added"), sk.Name,
				ui.SkillState(sk.IsUnlocked, sk.IsAvailable), ui.Muted.Render(sk.ID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&roleID, "role", "r", "", "Role ID")
	cmd.Flags().StringVarP(&parentID, "parent", "p", "", "Parent skill ID")
	cmd.Flags().StringVarP(&desc, "desc", "d", "", "Description")
	cmd.Flags().IntVar(&costXP, "cost-xp", 0, "XP cost (shown, not deducted)")
	cmd.Flags().Float64Var(&costMoney, "cost-money", 0, "Money cost")
	cmd.Flags().StringVar(&costTime, "cost-time", "", "Time cost, e.g. \"3 months\"")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}

func newSkillListCmd() *cobra.Command {
	var roleID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show skill trees",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			s, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			var rid *string
			if roleID != "" {
				rid = &roleID
			}
			skills, err := s.svc.ListSkills(ctx, s.userID, rid)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconSkill, "Skills"))
			if len(skills) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(empty)"))
				return nil
			}
			for _, line := range skillTree(skills) {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&roleID, "role", "r", "", "Only this role's tree")
	return cmd
}

// skillTree renders each role forest depth-first with two-space indentation.
func skillTree(skills []storage.Skill) []string {
	children := map[string][]int{}
	var roots []int
	for i, s := range skills {
		if s.ParentSkillID == nil {
			roots = append(roots, i)
			continue
		}
		children[*s.ParentSkillID] = append(children[*s.ParentSkillID], i)
	}

	var out []string
	var walk func(i int, depth int)
	walk = func(i int, depth int) {
		s := skills[i]
		cost := fmt.Sprintf("%d XP", s.CostXP)
		if s.CostTime != nil {
			cost += ", " + *s.CostTime
		}
		out = append(out, fmt.Sprintf("%s- %s %s %s %s", strings.Repeat("  ", depth), s.Name,
			ui.SkillState(s.IsUnlocked, s.IsAvailable), ui.Muted.Render("("+cost+")"), ui.Muted.Render(s.ID)))
		for _, c := range children[s.ID] {
			walk(c, depth+1)
		}
	}
	for _, r := range roots {
		walk(r, 0)
	}
	return out
}

func newSkillUnlockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unlock <skill_id>",
		Short: "Unlock an available skill",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("skill_id is required")
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

			res, err := s.svc.UnlockSkill(ctx, s.userID, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", ui.Good.Render(ui.IconOpen+" Unlocked"), res.Skill.Name)
			for _, c := range res.UnlockedChildren {
				fmt.Fprintf(out, "  %s %s\n", ui.Warn.Render(ui.IconSparkle+" now available:"), c.Name)
			}
			return nil
		},
	}
	return cmd
}
