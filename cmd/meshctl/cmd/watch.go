package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-mesh/meshkit/pkg/permission"
)

var flagSimulate bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream permission change events until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newStack()
		if err != nil {
			return err
		}
		defer s.close()

		unsubscribe := s.orchestrator.Listen(func(c permission.Change) {
			fmt.Printf("%s  %-24s %s -> %s\n",
				c.Timestamp.Format(time.TimeOnly), c.Permission, c.Previous, c.Status)
		})
		defer unsubscribe()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt)

		if flagSimulate {
			go simulateChanges(s)
		}

		fmt.Println("watching permission changes (ctrl-c to stop)")
		<-stop
		return nil
	},
}

// simulateChanges drives the host through a plausible grant sequence so the
// watch output has something to show.
func simulateChanges(s *stack) {
	script := []struct {
		perm   permission.Permission
		status permission.Status
	}{
		{permission.Bluetooth, permission.StatusGranted},
		{permission.Location, permission.StatusGranted},
		{permission.Notification, permission.StatusDenied},
		{permission.Notification, permission.StatusPermanentlyDenied},
	}
	for _, step := range script {
		time.Sleep(time.Second)
		_ = s.host.EmitChange(step.perm, step.status)
	}
}

func init() {
	watchCmd.Flags().BoolVar(&flagSimulate, "simulate", false, "emit a scripted change sequence")
	rootCmd.AddCommand(watchCmd)
}
