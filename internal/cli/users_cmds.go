package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wanziee/cepat-tanggap-admin/internal/client"
)

func newUsersCmd(deps depsFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Kelola akun warga dan pengurus",
	}
	cmd.AddCommand(newUsersListCmd(deps), newUsersAddCmd(deps), newUsersDeleteCmd(deps))
	return cmd
}

func newUsersListCmd(deps depsFunc) *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Daftar akun",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gate, api := deps()
			if err := requireGate(cmd, gate); err != nil {
				return err
			}

			users, err := api.ListUsers(cmd.Context(), role)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNIK\tNAMA\tEMAIL\tRT/RW\tROLE")
			for _, u := range users {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s/%s\t%s\n",
					u.ID, u.NIK, u.Nama, u.Email, u.RT, u.RW, u.Role)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "Filter berdasarkan role (admin, rt, rw, warga)")
	return cmd
}

func newUsersAddCmd(deps depsFunc) *cobra.Command {
	var in client.CreateUserInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Tambah warga baru",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gate, api := deps()
			if err := requireGate(cmd, gate); err != nil {
				return err
			}

			user, err := api.CreateUser(cmd.Context(), in)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Warga berhasil ditambahkan: %s (ID %d)\n", user.Nama, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.NIK, "nik", "", "NIK (16 digit)")
	cmd.Flags().StringVar(&in.Nama, "nama", "", "Nama lengkap")
	cmd.Flags().StringVar(&in.Email, "email", "", "Alamat email")
	cmd.Flags().StringVar(&in.Password, "password", "", "Password awal")
	cmd.Flags().StringVar(&in.NoHP, "no-hp", "", "Nomor HP")
	cmd.Flags().StringVar(&in.RT, "rt", "", "RT")
	cmd.Flags().StringVar(&in.RW, "rw", "", "RW")
	cmd.Flags().StringVar(&in.Alamat, "alamat", "", "Alamat")
	for _, f := range []string{"nik", "nama", "email", "password", "no-hp", "rt", "rw", "alamat"} {
		cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newUsersDeleteCmd(deps depsFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Hapus akun",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gate, api := deps()
			if err := requireGate(cmd, gate); err != nil {
				return err
			}

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("ID user tidak valid: %s", args[0])
			}

			if err := api.DeleteUser(cmd.Context(), id); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "User %d berhasil dihapus\n", id)
			return nil
		},
	}
}
