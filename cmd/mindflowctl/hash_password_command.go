package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/phrazzld/mindflow-api/internal/domain"
	"github.com/phrazzld/mindflow-api/internal/service/auth"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

func newHashPasswordCommand() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:         "hash-password [password]",
		Short:       "Print the bcrypt hash of a password (read from stdin when omitted)",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return errors.New("no password given")
				}
				password = strings.TrimRight(line, "\r\n")
			}

			if n := len(password); n < domain.MinPasswordLength || n > domain.MaxPasswordLength {
				return fmt.Errorf("password must be %d to %d characters",
					domain.MinPasswordLength, domain.MaxPasswordLength)
			}

			hash, err := auth.NewBcryptHasher(cost).Hash(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}

	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost factor")
	return cmd
}
