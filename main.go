package main

import (
	"os"

	"github.com/scan-io-git/teardown/cmd"
)

func main() {
	code := cmd.Execute()
	os.Exit(code)
}
