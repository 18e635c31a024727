package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newLaporanCmd(deps depsFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "laporan",
		Short: "Tinjau dan tindak lanjuti laporan warga",
	}
	cmd.AddCommand(newLaporanListCmd(deps), newLaporanShowCmd(deps), newLaporanStatusCmd(deps))
	return cmd
}

func newLaporanListCmd(deps depsFunc) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Daftar laporan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gate, api := deps()
			if err := requireGate(cmd, gate); err != nil {
				return err
			}

			laporans, err := api.ListLaporan(cmd.Context(), status)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tJUDUL\tPELAPOR\tSTATUS\tTANGGAL")
			for _, l := range laporans {
				pelapor := "-"
				if l.User != nil {
					pelapor = l.User.Nama
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					l.ID, l.Judul, pelapor, strings.ToUpper(l.Status), l.CreatedAt.Format("2006-01-02"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter status (pending, diproses, selesai, ditolak)")
	return cmd
}

func newLaporanShowCmd(deps depsFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Detail satu laporan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gate, api := deps()
			if err := requireGate(cmd, gate); err != nil {
				return err
			}

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("ID laporan tidak valid: %s", args[0])
			}

			l, err := api.GetLaporan(cmd.Context(), id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Laporan #%d [%s]\n", l.ID, strings.ToUpper(l.Status))
			fmt.Fprintf(out, "Judul:     %s\n", l.Judul)
			fmt.Fprintf(out, "Isi:       %s\n", l.Isi)
			if l.Lokasi != "" {
				fmt.Fprintf(out, "Lokasi:    %s\n", l.Lokasi)
			}
			if l.User != nil {
				fmt.Fprintf(out, "Pelapor:   %s (NIK %s)\n", l.User.Nama, l.User.NIK)
			}
			fmt.Fprintf(out, "Dibuat:    %s\n", l.CreatedAt.Format("2006-01-02 15:04"))
			if l.Tanggapan != "" {
				fmt.Fprintf(out, "Tanggapan: %s\n", l.Tanggapan)
			}
			return nil
		},
	}
}

func newLaporanStatusCmd(deps depsFunc) *cobra.Command {
	var tanggapan, photoPath string

	cmd := &cobra.Command{
		Use:   "status <id> <pending|diproses|selesai|ditolak>",
		Short: "Ubah status laporan dengan tanggapan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			gate, api := deps()
			if err := requireGate(cmd, gate); err != nil {
				return err
			}

			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("ID laporan tidak valid: %s", args[0])
			}
			status := args[1]

			var photo *os.File
			var photoName string
			if photoPath != "" {
				photo, err = os.Open(photoPath)
				if err != nil {
					return fmt.Errorf("buka foto: %w", err)
				}
				defer photo.Close()
				photoName = photo.Name()
			}

			if photo != nil {
				err = api.UpdateLaporanStatus(cmd.Context(), id, status, tanggapan, photo, photoName)
			} else {
				err = api.UpdateLaporanStatus(cmd.Context(), id, status, tanggapan, nil, "")
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Laporan %d diperbarui ke status %s\n", id, status)
			return nil
		},
	}

	cmd.Flags().StringVar(&tanggapan, "tanggapan", "", "Teks tanggapan untuk pelapor")
	cmd.Flags().StringVar(&photoPath, "photo", "", "Foto pendukung (opsional)")
	return cmd
}
