// Command beamsheet groups structural beams selected in the model, keeps them in
// a record store and lays them out into an Excel report.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
