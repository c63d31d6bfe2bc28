package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/teampilot/internal/core/ports/driving"
	"github.com/custodia-labs/teampilot/internal/core/services"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
	Long:  `Commands for managing Teampilot user accounts.`,
}

var userAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Create a user account",
	Long: `Create a user account.

Prompts for the password twice; input is hidden when running in a
terminal. Accounts created this way are enabled immediately. Staff or
administrator rights are granted with the flags.

Examples:
  # A regular account that can chat and search
  teampilot user add alice

  # A staff account that can also manage documents
  teampilot user add bob --staff --name "Bob the Builder"`,
	Args: cobra.ExactArgs(1),
	RunE: runUserAdd,
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	staff, err := cmd.Flags().GetBool("staff")
	if err != nil {
		return fmt.Errorf("getting staff flag: %w", err)
	}
	admin, err := cmd.Flags().GetBool("admin")
	if err != nil {
		return fmt.Errorf("getting admin flag: %w", err)
	}
	name, err := cmd.Flags().GetString("name")
	if err != nil {
		return fmt.Errorf("getting name flag: %w", err)
	}
	email, err := cmd.Flags().GetString("email")
	if err != nil {
		return fmt.Errorf("getting email flag: %w", err)
	}

	// One shared reader for both prompts; a fresh reader per prompt would
	// drop input the first read buffered ahead.
	stdin := bufio.NewReader(cmd.InOrStdin())
	password, err := promptPassword(cmd, stdin, "Password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword(cmd, stdin, "Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	users := services.NewUserService(store.UserStore())
	user, err := users.CreateUser(cmd.Context(), driving.NewUser{
		Username: args[0],
		Password: password,
		Name:     name,
		Email:    email,
		Staff:    staff,
		Admin:    admin,
		Enabled:  true,
	})
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}

	cmd.Printf("Created user %s (%s)\n", user.Username, user.ID)
	return nil
}

// promptPassword reads a password without echo when the command's input is
// a terminal, falling back to a plain line read so the command also works
// in scripts.
func promptPassword(cmd *cobra.Command, stdin *bufio.Reader, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)

	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(password), nil
	}

	input, err := stdin.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimSpace(input), nil
}

func init() {
	userAddCmd.Flags().String("name", "", "full name")
	userAddCmd.Flags().String("email", "", "email address")
	userAddCmd.Flags().Bool("staff", false, "grant document management rights")
	userAddCmd.Flags().Bool("admin", false, "grant user administration rights")
	userCmd.AddCommand(userAddCmd)
	rootCmd.AddCommand(userCmd)
}
