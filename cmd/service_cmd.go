package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"conferencehall/internal/bootstrap"
	"conferencehall/internal/usecase/cfp"
)

// runWithService binds run to svc when one is injected, otherwise to the
// service built by the fx application.
func runWithService(svc *cfp.Service, run func(cmd *cobra.Command, svc *cfp.Service) error) func(cmd *cobra.Command, args []string) error {
	if svc != nil {
		return func(cmd *cobra.Command, _ []string) error {
			return run(cmd, svc)
		}
	}
	return withApp(func(cmd *cobra.Command, _ *bootstrap.App, appSvc *cfp.Service) error {
		if appSvc == nil {
			return errors.New("cfp service is not configured")
		}
		return run(cmd, appSvc)
	})
}

func stringFlag(cmd *cobra.Command, name string) string {
	value, _ := cmd.Flags().GetString(name)
	return strings.TrimSpace(value)
}

func userFlag(cmd *cobra.Command) (string, error) {
	user := stringFlag(cmd, "user")
	if user == "" {
		return "", errors.New("--user is required")
	}
	return user, nil
}
