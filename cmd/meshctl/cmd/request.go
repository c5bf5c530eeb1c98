package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var requestCmd = &cobra.Command{
	Use:   "request [permission...]",
	Short: "Run a request flow under the configured policy",
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
		policy, err := cfg.RequestPolicy()
		if err != nil {
			return err
		}

		result := s.orchestrator.Request(cmd.Context(), perms, policy)
		fmt.Printf("flow:        %s\n", result.FlowID)
		fmt.Printf("all granted: %v\n", result.AllGranted)
		for _, p := range perms {
			if status, ok := result.Statuses[p]; ok {
				fmt.Printf("%-24s %s\n", p, status)
			}
		}
		if len(result.RequiresSettings) > 0 {
			fmt.Printf("requires settings: %v\n", result.RequiresSettings)
		}
		if result.ErrorMessage != "" {
			fmt.Printf("error: %s\n", result.ErrorMessage)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(requestCmd)
}
