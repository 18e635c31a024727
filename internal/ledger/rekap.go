package ledger

import (
	"fmt"
	"sort"
	"time"
)

// Indonesian month names, indexed by time.Month.
var namaBulan = [...]string{
	time.January:   "Januari",
	time.February:  "Februari",
	time.March:     "Maret",
	time.April:     "April",
	time.May:       "Mei",
	time.June:      "Juni",
	time.July:      "Juli",
	time.August:    "Agustus",
	time.September: "September",
	time.October:   "Oktober",
	time.November:  "November",
	time.December:  "Desember",
}

// MonthKey identifies a calendar month. Ordering is always numeric on
// (Year, Month); the label is render-only.
type MonthKey struct {
	Year  int
	Month time.Month
}

// Label renders the key as "<NamaBulan>-<Year>", e.g. "Januari-2024".
func (k MonthKey) Label() string {
	return fmt.Sprintf("%s-%d", namaBulan[k.Month], k.Year)
}

func monthOf(e Entry) MonthKey {
	return MonthKey{Year: e.Tanggal.Year(), Month: e.Tanggal.Month()}
}

// MonthRekap is one month's bucket: entries most-recent-first plus the
// month's aggregates. SaldoAkhir is the saldo of the month's latest entry.
type MonthRekap struct {
	Key              MonthKey `json:"-"`
	Label            string   `json:"label"`
	Entries          []Entry  `json:"entries"`
	TotalPemasukan   int64    `json:"total_pemasukan"`
	TotalPengeluaran int64    `json:"total_pengeluaran"`
	SaldoAkhir       int64    `json:"saldo_akhir"`
}

// Rekap groups recomputed entries by calendar month, most recent month
// first.
type Rekap struct {
	Months []MonthRekap `json:"months"`
}

// BuildRekap recomputes saldo over entries and buckets them by month.
// Within each bucket entries are ordered most recent first; months are
// ordered newest first by (year, month), never by label text.
func BuildRekap(entries []Entry) Rekap {
	asc := Recompute(entries)

	// Reverse into presentation order. The canonical order is total, so
	// the descending pass cannot disagree with the fold on ties.
	desc := make([]Entry, len(asc))
	for i, e := range asc {
		desc[len(asc)-1-i] = e
	}

	buckets := make(map[MonthKey]*MonthRekap)
	var keys []MonthKey
	for _, e := range desc {
		k := monthOf(e)
		b, ok := buckets[k]
		if !ok {
			b = &MonthRekap{Key: k, Label: k.Label()}
			buckets[k] = b
			keys = append(keys, k)
		}
		b.Entries = append(b.Entries, e)
		switch e.Jenis {
		case Pemasukan:
			b.TotalPemasukan += e.Jumlah
		case Pengeluaran:
			b.TotalPengeluaran += e.Jumlah
		}
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Year != keys[j].Year {
			return keys[i].Year > keys[j].Year
		}
		return keys[i].Month > keys[j].Month
	})

	rekap := Rekap{Months: make([]MonthRekap, 0, len(keys))}
	for _, k := range keys {
		b := buckets[k]
		// First entry in descending order is the month's latest.
		b.SaldoAkhir = b.Entries[0].Saldo
		rekap.Months = append(rekap.Months, *b)
	}
	return rekap
}

// Bucket returns the month whose label matches, or false.
func (r Rekap) Bucket(label string) (MonthRekap, bool) {
	for _, m := range r.Months {
		if m.Label == label {
			return m, true
		}
	}
	return MonthRekap{}, false
}

// Labels lists the available month labels, newest first.
func (r Rekap) Labels() []string {
	labels := make([]string, len(r.Months))
	for i, m := range r.Months {
		labels[i] = m.Label
	}
	return labels
}
