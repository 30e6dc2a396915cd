// Command qbridge builds circuit programs in the circuit runtime and archives
// the results.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/qbridge/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil && !cli.Reported(err) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
