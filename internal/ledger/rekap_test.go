package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRekap(t *testing.T) {
	entries := []Entry{
		{ID: 1, Tanggal: tgl("2024-01-05"), Jenis: Pemasukan, Jumlah: 100000},
		{ID: 2, Tanggal: tgl("2024-01-10"), Jenis: Pengeluaran, Jumlah: 30000},
		{ID: 3, Tanggal: tgl("2024-02-01"), Jenis: Pemasukan, Jumlah: 50000},
	}

	rekap := BuildRekap(entries)

	t.Run("months newest first with Indonesian labels", func(t *testing.T) {
		assert.Equal(t, []string{"Februari-2024", "Januari-2024"}, rekap.Labels())
	})

	t.Run("per-month aggregates", func(t *testing.T) {
		jan, ok := rekap.Bucket("Januari-2024")
		require.True(t, ok)
		assert.Equal(t, int64(100000), jan.TotalPemasukan)
		assert.Equal(t, int64(30000), jan.TotalPengeluaran)
		assert.Equal(t, int64(70000), jan.SaldoAkhir)

		feb, ok := rekap.Bucket("Februari-2024")
		require.True(t, ok)
		assert.Equal(t, int64(50000), feb.TotalPemasukan)
		assert.Equal(t, int64(0), feb.TotalPengeluaran)
		assert.Equal(t, int64(120000), feb.SaldoAkhir)
	})

	t.Run("entries within a month are most recent first", func(t *testing.T) {
		jan, ok := rekap.Bucket("Januari-2024")
		require.True(t, ok)
		require.Len(t, jan.Entries, 2)
		assert.Equal(t, 2, jan.Entries[0].ID)
		assert.Equal(t, 1, jan.Entries[1].ID)
	})

	t.Run("closing saldo is the latest entry's saldo", func(t *testing.T) {
		jan, _ := rekap.Bucket("Januari-2024")
		assert.Equal(t, jan.Entries[0].Saldo, jan.SaldoAkhir)
	})
}

func TestBuildRekapPartition(t *testing.T) {
	entries := []Entry{
		{ID: 1, Tanggal: tgl("2023-12-28"), Jenis: Pemasukan, Jumlah: 100},
		{ID: 2, Tanggal: tgl("2024-01-03"), Jenis: Pengeluaran, Jumlah: 40},
		{ID: 3, Tanggal: tgl("2024-01-15"), Jenis: Pemasukan, Jumlah: 25},
		{ID: 4, Tanggal: tgl("2024-03-02"), Jenis: Pemasukan, Jumlah: 60},
	}

	rekap := BuildRekap(entries)

	seen := map[int]int{}
	total := 0
	for _, m := range rekap.Months {
		for _, e := range m.Entries {
			seen[e.ID]++
			total++
		}
	}
	assert.Equal(t, len(entries), total)
	for _, e := range entries {
		assert.Equal(t, 1, seen[e.ID], "entry %d must appear exactly once", e.ID)
	}

	// Year boundary sorts numerically, not by label text.
	assert.Equal(t, []string{"Maret-2024", "Januari-2024", "Desember-2023"}, rekap.Labels())
}

func TestBuildRekapEmpty(t *testing.T) {
	rekap := BuildRekap(nil)
	assert.Empty(t, rekap.Months)
	assert.Empty(t, rekap.Labels())

	_, ok := rekap.Bucket("Januari-2024")
	assert.False(t, ok)
}

func TestMonthKeyLabel(t *testing.T) {
	assert.Equal(t, "Agustus-2025", MonthKey{Year: 2025, Month: 8}.Label())
	assert.Equal(t, "Desember-2023", MonthKey{Year: 2023, Month: 12}.Label())
}
