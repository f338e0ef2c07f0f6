package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/challenge-solver/internal/config"
)

var hashCommand = &cobra.Command{
	Use:   "hash-password",
	Short: "Hash an operator password for OPERATOR_PASSWORD_HASH",
	Long:  "Reads a password from stdin and prints its bcrypt hash, suitable for the OPERATOR_PASSWORD_HASH environment variable.",
	RunE:  runHashCmd,
}

var hashCost int

func init() {
	hashCommand.Flags().IntVar(&hashCost, "cost", 12, "bcrypt cost (10-14)")
	rootCmd.AddCommand(hashCommand)
}

func runHashCmd(cmd *cobra.Command, _ []string) error {
	reader := bufio.NewReader(cmd.InOrStdin())
	password, err := reader.ReadString('\n')
	if err != nil && password == "" {
		return fmt.Errorf("failed to read password: %w", err)
	}
	password = strings.TrimRight(password, "\r\n")
	if password == "" {
		return fmt.Errorf("password is empty")
	}

	creds := &config.CredentialConfig{BcryptCost: hashCost}
	hash, err := creds.HashPassword(password)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}
