// Package cli implements the tanggapctl command tree, the terminal
// counterpart of the Cepat Tanggap admin panel.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wanziee/cepat-tanggap-admin/internal/client"
	"github.com/wanziee/cepat-tanggap-admin/internal/session"
)

// Execute runs the CLI.
func Execute() int {
	rootCmd, err := newRootCmd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() (*cobra.Command, error) {
	var host string

	sessionPath, err := session.DefaultSessionPath()
	if err != nil {
		return nil, err
	}

	var gate *session.Gate
	var api *client.Client

	rootCmd := &cobra.Command{
		Use:           "tanggapctl",
		Short:         "Cepat Tanggap admin CLI",
		Long:          "Command-line admin panel for the Cepat Tanggap civic-complaint and kas system.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if !cmd.Flags().Changed("host") {
				if v := os.Getenv("TANGGAP_HOST"); v != "" {
					host = v
				}
			}
			api = client.New(host)
			gate = session.NewGate(api, session.NewFileStore(sessionPath))
		},
	}

	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:3000", "API host URL")

	deps := func() (*session.Gate, *client.Client) { return gate, api }

	rootCmd.AddCommand(
		newLoginCmd(deps),
		newLogoutCmd(deps),
		newWhoamiCmd(deps),
		newUsersCmd(deps),
		newLaporanCmd(deps),
		newRekapCmd(deps),
		newKasCmd(deps),
	)

	return rootCmd, nil
}

// depsFunc defers gate/client construction until after flag resolution.
type depsFunc func() (*session.Gate, *client.Client)

// errAksesDitolak is the denial notice for an authenticated account
// whose role is outside the admin set. It is not a login prompt: the
// session stays in place.
var errAksesDitolak = fmt.Errorf("Akses Ditolak: Anda tidak memiliki izin untuk mengakses halaman ini")

// errBelumLogin asks the caller to authenticate first.
var errBelumLogin = fmt.Errorf("belum login: jalankan \"tanggapctl login <email-atau-nik>\"")

// requireGate restores the session and enforces the role gate before a
// protected command runs.
func requireGate(cmd *cobra.Command, gate *session.Gate) error {
	if !gate.Restore(cmd.Context()) {
		return errBelumLogin
	}
	if !gate.Allowed() {
		return errAksesDitolak
	}
	return nil
}
