package main

import (
	"fmt"
	"os"
)

func main() {
	c := &cli{}
	if err := c.execute(c.rootCmd()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
