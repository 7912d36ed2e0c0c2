package root

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"liferpg/internal/ui"
)

func newBonusCmd() *cobra.Command {
	var roleID string

	cmd := &cobra.Command{
		Use:   "bonus <xp> <reason...>",
		Short: "Grant ad-hoc bonus XP to a role",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return errors.New("xp and reason are required")
			}
			if _, err := strconv.Atoi(args[0]); err != nil {
				return errors.New("xp must be an integer")
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

			xp, _ := strconv.Atoi(args[0])
			reason := strings.Join(args[1:], " ")
			res, err := s.svc.GrantBonusXP(ctx, s.userID, roleID, xp, reason)
			if err != nil {
				return err
			}
			printCompletion(cmd, ui.IconGift+" Bonus", reason, *res)
			return nil
		},
	}

	cmd.Flags().StringVarP(&roleID, "role", "r", "", "Role ID")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}
