package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/frahmantamala/interview-console/internal/credentials"
	"github.com/frahmantamala/interview-console/internal/session"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the bearer token used by CLI commands",
}

var tokenValue string

var setTokenCmd = &cobra.Command{
	Use:   "set",
	Short: "Store a backend bearer token in the OS keyring",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}

		token := tokenValue
		if token == "" {
			token, err = readToken(cmd)
			if err != nil {
				return err
			}
		}

		sess, err := session.Decode(token, time.Now())
		if err != nil {
			return fmt.Errorf("token rejected: %w", err)
		}
		if err := credentials.SaveToken(cfg.Backend.BaseURL, token); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Token stored for %s (company %s, user %s)\n", cfg.Backend.BaseURL, sess.CompanyID, sess.UserID)
		return nil
	},
}

var showTokenCmd = &cobra.Command{
	Use:   "show",
	Short: "Show who the stored token belongs to",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		token, err := credentials.LoadToken(cfg.Backend.BaseURL)
		if err != nil {
			return err
		}
		sess, err := session.Decode(token, time.Now())
		if err != nil {
			return fmt.Errorf("stored token is not usable: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "backend: %s\ncompany: %s\nuser: %s\n", cfg.Backend.BaseURL, sess.CompanyID, sess.UserID)
		return nil
	},
}

var clearTokenCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		if err := credentials.DeleteToken(cfg.Backend.BaseURL); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Token removed")
		return nil
	},
}

// readToken prompts without echo on a terminal and reads one line otherwise.
func readToken(cmd *cobra.Command) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(cmd.OutOrStdout(), "Token: ")
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", fmt.Errorf("reading token: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading token: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func init() {
	setTokenCmd.Flags().StringVar(&tokenValue, "token", "", "Token value; prompted for when omitted")

	tokenCmd.AddCommand(setTokenCmd)
	tokenCmd.AddCommand(showTokenCmd)
	tokenCmd.AddCommand(clearTokenCmd)
}
