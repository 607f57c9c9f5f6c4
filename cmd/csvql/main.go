// Command csvql runs SELECT queries over a directory of CSV files.
//
// Usage:
//
//	csvql query "SELECT name FROM student WHERE age > 18" --data-dir ./data
//	csvql shell --data-dir ./data
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
