package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wanziee/cepat-tanggap-admin/internal/client"
	"github.com/wanziee/cepat-tanggap-admin/internal/ledger"
)

func newRekapCmd(deps depsFunc) *cobra.Command {
	var rt string

	cmd := &cobra.Command{
		Use:   "rekap",
		Short: "Rekap kas bulanan dengan saldo berjalan",
		Long: "Mengambil seluruh entri kas untuk satu lingkup RT, menghitung ulang " +
			"saldo berjalan secara lokal, dan menampilkan rekap per bulan.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gate, api := deps()
			if err := requireGate(cmd, gate); err != nil {
				return err
			}

			entries, err := api.ListRekapKas(cmd.Context(), rt)
			if err != nil {
				return err
			}

			rekap := ledger.BuildRekap(entries)
			out := cmd.OutOrStdout()

			if len(rekap.Months) == 0 {
				fmt.Fprintln(out, "Belum ada data kas untuk ditampilkan.")
				return nil
			}

			for _, m := range rekap.Months {
				title := "Rekap Kas Bulan " + strings.ReplaceAll(m.Label, "-", " ")
				if rt != "" {
					title += " RT " + rt
				}
				fmt.Fprintln(out, title)

				w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "TANGGAL\tKETERANGAN\tJENIS\tJUMLAH\tSALDO")
				for _, e := range m.Entries {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
						e.Tanggal.Format("2006-01-02"), e.Keterangan, e.Jenis,
						formatRupiah(e.Jumlah), formatRupiah(e.Saldo))
				}
				w.Flush()

				fmt.Fprintf(out, "Total Pemasukan:   %s\n", formatRupiah(m.TotalPemasukan))
				fmt.Fprintf(out, "Total Pengeluaran: %s\n", formatRupiah(m.TotalPengeluaran))
				fmt.Fprintf(out, "Saldo Terakhir:    %s\n\n", formatRupiah(m.SaldoAkhir))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rt, "rt", "", "Lingkup RT")
	cmd.AddCommand(newRekapAddCmd(deps))
	return cmd
}

func newRekapAddCmd(deps depsFunc) *cobra.Command {
	var in client.CreateRekapKasInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Catat satu entri kas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gate, api := deps()
			if err := requireGate(cmd, gate); err != nil {
				return err
			}

			in.UserID = gate.Current().ID
			entry, err := api.CreateRekapKas(cmd.Context(), in)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Entri kas %d tercatat: %s %s (%s)\n",
				entry.ID, entry.Jenis, formatRupiah(entry.Jumlah), entry.Tanggal.Format("2006-01-02"))
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Keterangan, "keterangan", "", "Keterangan entri")
	cmd.Flags().StringVar(&in.Jenis, "jenis", "", "Jenis entri (pemasukan atau pengeluaran)")
	cmd.Flags().Int64Var(&in.Jumlah, "jumlah", 0, "Jumlah dalam rupiah")
	cmd.Flags().StringVar(&in.Tanggal, "tanggal", "", "Tanggal entri (YYYY-MM-DD)")
	cmd.Flags().StringVar(&in.RT, "rt", "", "RT")
	cmd.Flags().StringVar(&in.RW, "rw", "", "RW")
	for _, f := range []string{"keterangan", "jenis", "jumlah", "tanggal", "rt", "rw"} {
		cmd.MarkFlagRequired(f)
	}
	return cmd
}

// formatRupiah renders an amount as Rp with dot thousand separators,
// e.g. Rp1.250.000.
func formatRupiah(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}

	digits := strconv.FormatInt(v, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}

	if neg {
		return "-Rp" + b.String()
	}
	return "Rp" + b.String()
}
