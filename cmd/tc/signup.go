package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/amonks/timeclock/api"
	"github.com/amonks/timeclock/entry"
	"github.com/amonks/timeclock/tracker"
	"github.com/spf13/cobra"
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Register an account",
	Args:  cobra.NoArgs,
	RunE:  runSignup,
}

var signupRequest api.SignUpRequest
var signupRole string

func init() {
	rootCmd.AddCommand(signupCmd)
	signupCmd.Flags().StringVar(&signupRequest.EmployeeID, "employee-id", "", "Employee number")
	signupCmd.Flags().StringVar(&signupRequest.Name, "name", "", "Full name")
	signupCmd.Flags().StringVar(&signupRequest.Email, "email", "", "Email address")
	signupCmd.Flags().StringVar(&signupRequest.Password, "password", "", "Password (or $"+PasswordEnv+")")
	signupCmd.Flags().StringVar(&signupRequest.Designation, "designation", "", "Job title")
	signupCmd.Flags().StringVar(&signupRole, "role", string(entry.RoleEmployee), "Role: employee or admin")
}

func runSignup(cmd *cobra.Command, args []string) error {
	request := signupRequest
	if request.Password == "" {
		request.Password = os.Getenv(PasswordEnv)
	}
	request.Name = strings.TrimSpace(request.Name)
	request.Email = strings.TrimSpace(request.Email)
	if request.Name == "" || request.Email == "" || request.Password == "" {
		return validationf("--name, --email and --password are required")
	}
	role, err := entry.ParseRole(signupRole)
	if err != nil {
		return &tracker.ValidationError{Err: err}
	}
	request.Role = role

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	message, err := client.SignUp(cmd.Context(), request)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), message)
	return nil
}
