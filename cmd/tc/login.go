package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/amonks/timeclock/entry"
	"github.com/spf13/cobra"
)

// PasswordEnv supplies the password when --password is not given.
const PasswordEnv = "TC_PASSWORD"

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and remember the account",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the signed-in account",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var (
	loginEmail    string
	loginPassword string
)

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd)
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (or $"+PasswordEnv+")")
}

func runLogin(cmd *cobra.Command, args []string) error {
	email := strings.TrimSpace(loginEmail)
	password := loginPassword
	if password == "" {
		password = os.Getenv(PasswordEnv)
	}
	if email == "" || password == "" {
		return validationf("--email and --password are required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	account, err := client.SignIn(cmd.Context(), email, password)
	if err != nil {
		return err
	}
	if account.Email == "" {
		account.Email = email
	}
	if err := accountStore().Update(func(saved *entry.Account) error {
		*saved = account
		return nil
	}); err != nil {
		return fmt.Errorf("save account: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (user %s, %s)\n", account.Email, account.UserID, account.Role)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	store := accountStore()
	exists, err := store.Exists()
	if err != nil {
		return err
	}
	if !exists {
		fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
		return nil
	}
	if err := store.Remove(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
	return nil
}
