package main

import (
	"fmt"

	wiki2html "github.com/alnah/go-wiki2html"
)

// runStyles lists the built-in page styles.
func runStyles(args []string, env *Environment) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: styles takes no arguments", ErrUsage)
	}
	for _, name := range wiki2html.StyleNames() {
		if name == wiki2html.DefaultStyle {
			fmt.Fprintf(env.Stdout, "%s (default)\n", name)
			continue
		}
		fmt.Fprintln(env.Stdout, name)
	}
	return nil
}
