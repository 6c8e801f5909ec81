// Command biogas-balance computes feedstock yield and digester water balances
// for a biogas plant, from the command line or over HTTP.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
