package main

import (
	"os"

	"github.com/darkkaiser/phone-price-server/cmd/phone-price-server/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
