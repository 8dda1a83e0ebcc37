// cmd/sqlstudio/main.go
package main

import (
	"os"

	"github.com/nhath/sqlstudio/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
