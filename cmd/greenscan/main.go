// greenscan is the operator CLI: resolve and search products, score a
// product document and maintain the local food table.
package main

import (
	"os"

	"github.com/greenscan/backend/cmd/greenscan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
