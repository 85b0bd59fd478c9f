package main

import (
	"os"

	"github.com/ustclug/revlines/pkg/revlinesctl"
)

func main() {
	if err := revlinesctl.NewCmdRoot().Execute(); err != nil {
		os.Exit(1)
	}
}
