package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatRupiah(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "Rp0"},
		{500, "Rp500"},
		{1000, "Rp1.000"},
		{70000, "Rp70.000"},
		{120000, "Rp120.000"},
		{1250000, "Rp1.250.000"},
		{-30000, "-Rp30.000"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, formatRupiah(c.in))
	}
}
