package cmd

import (
	"fmt"
	"os"

	"github.com/etnz/folio/renderer"
)

// markdownWidth is the word wrap width of terminal output.
const markdownWidth = 100

// printMarkdown prints markdown to stdout, rendered for the terminal.
// The raw markdown is printed if rendering fails.
func printMarkdown(md string) {
	out, err := renderer.Terminal(md, markdownWidth)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}
