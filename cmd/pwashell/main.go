// Command pwashell serves a pwashell app and maintains its offline
// manifest.
//
//	pwashell serve --dir public --live-reload
//	pwashell manifest generate public --name movies
//	pwashell manifest clean public
//	pwashell version
//
// Settings come from flags, PWASHELL_* environment variables and an
// optional pwashell.yaml, in that order of precedence.
package main

import (
	"fmt"
	"os"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
