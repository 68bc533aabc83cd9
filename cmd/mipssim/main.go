// Command mipssim drives the five-stage pipeline core the same way
// the teacher's cmd/vm drove its single-cycle interpreter, generalized
// to a cobra command tree per the pack's CLI idiom.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
