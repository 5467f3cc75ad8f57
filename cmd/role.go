package cmd

import (
	"context"
	"fmt"

	"github.com/vibast-solutions/ms-go-contacts/app/entity"
	"github.com/vibast-solutions/ms-go-contacts/app/repository"
	"github.com/vibast-solutions/ms-go-contacts/app/service"
	"github.com/vibast-solutions/ms-go-contacts/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var roleCmd = &cobra.Command{
	Use:   "role",
	Short: "Inspect and assign user roles",
}

var roleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the seeded roles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withRoleService(cmd, func(ctx context.Context, roles *service.RoleService) error {
			list, err := roles.List(ctx)
			if err != nil {
				return err
			}
			for _, role := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", role.ID, role.Name)
			}
			return nil
		})
	},
}

var roleAssignCmd = &cobra.Command{
	Use:   "assign <email> <role>",
	Short: "Assign a role to an existing user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRoleService(cmd, func(ctx context.Context, roles *service.RoleService) error {
			user, err := roles.Assign(ctx, args[0], entity.RoleName(args[1]))
			if err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{"user_id": user.ID, "role": args[1]}).Info("Role assigned")
			fmt.Fprintf(cmd.OutOrStdout(), "Assigned role %s to %s\n", args[1], user.Email)
			return nil
		})
	},
}

func init() {
	roleCmd.AddCommand(roleListCmd, roleAssignCmd)
	rootCmd.AddCommand(roleCmd)
}

func withRoleService(cmd *cobra.Command, fn func(ctx context.Context, roles *service.RoleService) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := configureLogging(cfg); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(ctx, service.NewRoleService(repository.NewUserRepository(db), repository.NewRoleRepository(db)))
}
