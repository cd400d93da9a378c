package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"asakatsu/internal/credentials"
)

func newTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the Toggl API token stored in the OS keyring",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set [TOKEN]",
		Short: "Store the token; reads the first line of stdin when no argument is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tok := ""
			if len(args) == 1 {
				tok = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return errors.New("no token given on the command line or stdin")
				}
				tok = strings.TrimSpace(line)
			}
			if err := credentials.SetToken(tok); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Toggl API token stored in keyring")
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete",
		Short: "Remove the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := credentials.DeleteToken()
			if errors.Is(err, credentials.ErrNotFound) {
				fmt.Fprintln(cmd.OutOrStdout(), "No token stored")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Toggl API token removed from keyring")
			return nil
		},
	})
	return cmd
}
