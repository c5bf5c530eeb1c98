package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [permission...]",
	Short: "Query permission statuses (defaults to the required set)",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newStack()
		if err != nil {
			return err
		}
		defer s.close()

		perms, err := parsePermissions(s, args)
		if err != nil {
			return err
		}

		statuses := s.orchestrator.Status(cmd.Context(), perms)
		for _, p := range perms {
			fmt.Printf("%-24s %s\n", p, statuses[p])
		}
		if s.orchestrator.CriticalPermissionsGranted(cmd.Context()) {
			fmt.Println("critical permissions: satisfied")
		} else {
			fmt.Println("critical permissions: missing")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
