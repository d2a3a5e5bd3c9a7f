// catlog - Android logcat parser
//
// catlog parses logcat text dumps into structured records, reconstructs
// them, and merges several dumps into one chronological stream.
package main

import (
	"os"

	"github.com/ccollicutt/catlog/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
