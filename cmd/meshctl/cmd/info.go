package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show platform info and the permission sets derived from it",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newStack()
		if err != nil {
			return err
		}
		defer s.close()

		info := s.orchestrator.PlatformInfo()
		fmt.Printf("family:       %s\n", info.Family)
		fmt.Printf("os version:   %s\n", info.OSVersion)
		fmt.Printf("device model: %s\n", info.DeviceModel)
		fmt.Printf("tier:         %s\n", info.Tier)
		fmt.Printf("capabilities:")
		for _, c := range info.Capabilities.List() {
			fmt.Printf(" %s", c)
		}
		fmt.Println()

		fmt.Printf("required:")
		for _, p := range s.orchestrator.RequiredPermissions() {
			fmt.Printf(" %s", p)
		}
		fmt.Println()
		fmt.Printf("critical:")
		for _, p := range s.orchestrator.CriticalPermissions() {
			fmt.Printf(" %s", p)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
