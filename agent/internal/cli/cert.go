package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ckuran148/Jolt/agent/internal/config"
	"github.com/Ckuran148/Jolt/agent/internal/security"
)

func newCertCmd(opts *options) *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "cert",
		Short: "Inspect the checklist API's TLS certificate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cs := security.Check(cmd.Context(), cfg.Agent.Jolt)

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return writeJSON(out, cs)
			}
			if cs == nil {
				fmt.Fprintf(out, "%s is not https; nothing to inspect\n", cfg.Agent.Jolt.Endpoint)
				return nil
			}
			fmt.Fprintf(out, "%s  %s\n", cs.Endpoint, cs.Status)
			if cs.Status != security.StatusUnreachable {
				fmt.Fprintf(out, "  issuer: %s\n  expires: %s (%d days)\n", orDash(cs.Issuer), cs.NotAfter, cs.DaysLeft)
			}
			fmt.Fprintf(out, "  auth: %s\n", cs.AuthType)
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "config.yaml", "Path to the agent config file")
	return cmd
}
