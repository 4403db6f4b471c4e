package main

import (
	"os"

	"github.com/phoenixsheppard28/vendorcafe-csv/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
