// LogSoul - Log Time-Window Search
//
// LogSoul prints the lines of chronologically ordered log files that fall
// inside a time window, binary searching each file for the window start.
package main

import (
	"os"

	"github.com/ccollicutt/logsoul/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
