// Package main is the entry point for the tanggapctl binary.
package main

import (
	"os"

	"github.com/wanziee/cepat-tanggap-admin/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
