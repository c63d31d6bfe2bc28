package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/teampilot/internal/core/domain"
	"github.com/custodia-labs/teampilot/internal/core/ports/driving"
	"github.com/custodia-labs/teampilot/internal/core/services"
	"github.com/custodia-labs/teampilot/internal/logger"
)

const (
	adminUserEnv     = "TEAMPILOT_ADMIN_USER"
	adminPasswordEnv = "TEAMPILOT_ADMIN_PASSWORD"
)

var setupDBCmd = &cobra.Command{
	Use:   "setup-db",
	Short: "Create the database schema and seed the first administrator",
	Long: `Create the database schema and seed the first administrator.

Connects to the configured Postgres database, enables the required
extensions and applies any pending migrations. If the TEAMPILOT_ADMIN_USER
and TEAMPILOT_ADMIN_PASSWORD environment variables are set, an enabled
administrator account is created under that name unless one already
exists.

Examples:
  # Apply migrations only
  teampilot setup-db

  # Apply migrations and create the first administrator
  TEAMPILOT_ADMIN_USER=root TEAMPILOT_ADMIN_PASSWORD=changeme teampilot setup-db`,
	RunE: runSetupDB,
}

func runSetupDB(cmd *cobra.Command, _ []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("Database schema is up to date")

	username := os.Getenv(adminUserEnv)
	password := os.Getenv(adminPasswordEnv)
	if username == "" || password == "" {
		logger.Info("Set %s and %s to seed an administrator account", adminUserEnv, adminPasswordEnv)
		return nil
	}

	users := services.NewUserService(store.UserStore())
	user, err := users.CreateUser(cmd.Context(), driving.NewUser{
		Username: username,
		Password: password,
		Name:     "Administrator",
		Staff:    true,
		Admin:    true,
		Enabled:  true,
	})
	switch {
	case errors.Is(err, domain.ErrAlreadyExists):
		logger.Info("User %s already exists, skipping seed", username)
		return nil
	case err != nil:
		return fmt.Errorf("creating administrator: %w", err)
	}

	logger.Info("Created administrator %s (%s)", user.Username, user.ID)
	return nil
}

func init() {
	rootCmd.AddCommand(setupDBCmd)
}
