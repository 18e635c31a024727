// Package ledger rebuilds running balances and monthly summaries for the
// rekap kas. Saldo values arriving from storage or the wire are never
// trusted; they are always recomputed from jenis, jumlah and the canonical
// entry order.
package ledger

import (
	"sort"
	"time"
)

// Jenis classifies an entry as cash in or cash out.
type Jenis string

const (
	Pemasukan   Jenis = "pemasukan"
	Pengeluaran Jenis = "pengeluaran"
)

// ValidJenis reports whether j is one of the two entry kinds.
func ValidJenis(j Jenis) bool {
	return j == Pemasukan || j == Pengeluaran
}

// Entry is a single itemized kas transaction. Jumlah is a magnitude in
// rupiah; the sign is implied by Jenis. Saldo is derived, never an input.
type Entry struct {
	ID         int       `json:"id"`
	Tanggal    time.Time `json:"tanggal"`
	Keterangan string    `json:"keterangan"`
	Jenis      Jenis     `json:"jenis"`
	Jumlah     int64     `json:"jumlah"`
	Saldo      int64     `json:"saldo"`
	RT         string    `json:"rt,omitempty"`
	RW         string    `json:"rw,omitempty"`
	UserID     int       `json:"user_id,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

// Signed returns the entry amount with its sign applied.
func (e Entry) Signed() int64 {
	if e.Jenis == Pengeluaran {
		return -e.Jumlah
	}
	return e.Jumlah
}

// sortKey is the canonical entry order: tanggal, then created_at, then id.
// Entries without a creation timestamp borrow their nominal date so that
// the tie-break stays total.
func sortKey(e Entry) (time.Time, time.Time, int) {
	created := e.CreatedAt
	if created.IsZero() {
		created = e.Tanggal
	}
	return e.Tanggal, created, e.ID
}

func less(a, b Entry) bool {
	at, ac, ai := sortKey(a)
	bt, bc, bi := sortKey(b)
	if !at.Equal(bt) {
		return at.Before(bt)
	}
	if !ac.Equal(bc) {
		return ac.Before(bc)
	}
	return ai < bi
}

// Recompute returns a copy of entries in canonical ascending order with
// every Saldo re-derived from a zero opening balance. The input slice is
// left untouched and any saldo it carried is ignored.
func Recompute(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })

	var saldo int64
	for i := range out {
		saldo += out[i].Signed()
		out[i].Saldo = saldo
	}
	return out
}
