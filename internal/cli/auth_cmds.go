package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newLoginCmd(deps depsFunc) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <email-atau-nik>",
		Short: "Masuk dengan akun pengurus (admin, RT atau RW)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gate, _ := deps()
			identifier := strings.TrimSpace(args[0])

			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				raw, err := term.ReadPassword(int(os.Stdin.Fd()))
				fmt.Fprintln(cmd.OutOrStdout())
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				password = string(raw)
			}

			if err := gate.Login(cmd.Context(), identifier, password); err != nil {
				return err
			}

			user := gate.Current()
			fmt.Fprintf(cmd.OutOrStdout(), "Login berhasil: %s (%s)\n", user.Nama, strings.ToUpper(user.Role))
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(deps depsFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Keluar dan hapus sesi tersimpan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gate, _ := deps()
			gate.Restore(cmd.Context())
			gate.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Logout berhasil")
			return nil
		},
	}
}

func newWhoamiCmd(deps depsFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Tampilkan identitas sesi saat ini",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gate, _ := deps()
			if !gate.Restore(cmd.Context()) {
				return errBelumLogin
			}

			user := gate.Current()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:    %d\n", user.ID)
			fmt.Fprintf(out, "Nama:  %s\n", user.Nama)
			fmt.Fprintf(out, "Email: %s\n", user.Email)
			fmt.Fprintf(out, "NIK:   %s\n", user.NIK)
			fmt.Fprintf(out, "Role:  %s\n", user.Role)
			if !gate.Allowed() {
				fmt.Fprintln(out, "Catatan: akun ini tidak memiliki akses panel admin.")
			}
			return nil
		},
	}
}
