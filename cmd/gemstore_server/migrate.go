package main

import (
	"errors"
	"fmt"
	"strings"

	"gemstore_server/internal/dao/db"
	"gemstore_server/internal/dao/db/repository"
	"gemstore_server/internal/model"
	"gemstore_server/pkg/errorx"

	"github.com/spf13/cobra"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	var adminEmail, adminPassword, adminName string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		Long:  "Migrates user, order and message tables. With --admin-email, also creates a staff account if it does not exist.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *configPath)
			if err != nil {
				return err
			}
			gdb, err := db.Open(&cfg.DatabaseConfig)
			if err != nil {
				return err
			}
			if err := db.Migrate(gdb); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Migrated %s database\n", cfg.DatabaseConfig.Driver)

			if adminEmail == "" {
				return nil
			}
			return seedAdmin(cmd, repository.NewRepositories(gdb), adminEmail, adminPassword, adminName)
		},
	}

	cmd.Flags().StringVar(&adminEmail, "admin-email", "", "create a staff account with this email")
	cmd.Flags().StringVar(&adminPassword, "admin-password", "", "password for the staff account (min 6 chars)")
	cmd.Flags().StringVar(&adminName, "admin-name", "Store Staff", "display name for the staff account")
	return cmd
}

func seedAdmin(cmd *cobra.Command, repos *repository.Repositories, email, password, name string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(password) < 6 {
		return errors.New("--admin-password must be at least 6 characters")
	}

	ctx := cmd.Context()
	if _, err := repos.User.FindByEmail(ctx, email); err == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Staff account %s already exists\n", email)
		return nil
	} else if !errorx.IsNotFound(err) {
		return err
	}

	user := &model.UserInfo{Email: email, Name: name, RawPassword: password, IsAdmin: true}
	if err := repos.User.Create(ctx, user); err != nil {
		return fmt.Errorf("create staff account: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created staff account %s (id=%d)\n", email, user.ID)
	return nil
}
