package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newKasCmd(deps depsFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kas",
		Short: "Dokumen kas bulanan (PDF)",
	}
	cmd.AddCommand(newKasListCmd(deps), newKasUploadCmd(deps))
	return cmd
}

func newKasListCmd(deps depsFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Daftar dokumen kas bulanan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gate, api := deps()
			if err := requireGate(cmd, gate); err != nil {
				return err
			}

			docs, err := api.ListKasBulanan(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAMA FILE\tDESKRIPSI\tRT/RW\tDIUNGGAH OLEH\tTANGGAL")
			for _, d := range docs {
				uploader := "-"
				if d.Uploader != nil {
					uploader = d.Uploader.Nama
				}
				scope := "-"
				if d.RelatedRT != "" && d.RelatedRW != "" {
					scope = fmt.Sprintf("RT %s/RW %s", d.RelatedRT, d.RelatedRW)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					d.ID, d.Filename, d.Description, scope, uploader, d.UploadDate.Format("2006-01-02"))
			}
			return w.Flush()
		},
	}
}

func newKasUploadCmd(deps depsFunc) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "upload <file.pdf>",
		Short: "Unggah laporan kas bulanan (PDF)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gate, api := deps()
			if err := requireGate(cmd, gate); err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("buka file: %w", err)
			}
			defer f.Close()

			if err := api.UploadKasBulanan(cmd.Context(), f, filepath.Base(args[0]), description); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "File berhasil diunggah")
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Deskripsi laporan")
	cmd.MarkFlagRequired("description")
	return cmd
}
