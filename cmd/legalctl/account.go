package main

import (
	"context" // Cancellation and deadlines

	"legal_practice/internal/wire" // JSON shapes

	"github.com/spf13/cobra" // CLI commands
)

var registerInput wire.RegisterInput

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and print its session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		session, err := client.Register(ctx, registerInput)
		if err != nil {
			return err
		}
		return printJSON(session)
	},
}

var loginEmail, loginPassword string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and print the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		session, err := client.Login(ctx, loginEmail, loginPassword)
		if err != nil {
			return err
		}
		return printJSON(session)
	},
}

func init() {
	f := registerCmd.Flags()
	f.StringVar(&registerInput.Email, "email", "", "account email")
	f.StringVar(&registerInput.Password, "password", "", "account password")
	f.StringVar(&registerInput.FirstName, "first-name", "", "first name")
	f.StringVar(&registerInput.LastName, "last-name", "", "last name")
	f.StringVar(&registerInput.UserType, "user-type", "", "lawyer, client or admin")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("password")

	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(registerCmd, loginCmd)
}
