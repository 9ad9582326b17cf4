package main

import (
	"fmt"
	"os"

	_ "time/tzdata"

	"github.com/spf13/cobra"
)

// @title           Employee ID Card Portal API
// @version         1.0
// @description     Public application intake and status lookup, plus the admin dashboard API for reviewing applications and managing employee records.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "idportal",
		Short:         "Employee ID card application portal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), configPath)
		},
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (yaml, json or toml)")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), configPath)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create the document table on SQL backends",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(cmd.Context(), configPath)
		},
	})

	cmd.AddCommand(adminCmd(&configPath))
	return cmd
}

func adminCmd(configPath *string) *cobra.Command {
	var email, name, role, password string

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a dashboard admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("IDPORTAL_ADMIN_PASSWORD")
			}
			return createAdmin(cmd.Context(), *configPath, email, name, role, password)
		},
	}
	create.Flags().StringVar(&email, "email", "", "Sign-in email")
	create.Flags().StringVar(&name, "name", "", "Display name")
	create.Flags().StringVar(&role, "role", "admin", "super_admin, admin or operator")
	create.Flags().StringVar(&password, "password", "", "Password (defaults to $IDPORTAL_ADMIN_PASSWORD)")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("name")

	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage dashboard admin accounts",
	}
	cmd.AddCommand(create)
	return cmd
}
