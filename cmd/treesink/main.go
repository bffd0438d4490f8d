// Command treesink parses HTML from a file or stdin into the reference host
// tree and prints the result, either as an html5lib-style tree dump or as
// re-serialized markup.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/heathj/treesink"
	"github.com/heathj/treesink/hosttree"
)

var (
	fragment   = flag.Bool("fragment", false, "parse as a body fragment instead of a document")
	chunkSize  = flag.Int("chunk", 0, "feed the input in chunks of this many bytes, 0 for one chunk (document mode)")
	showErrors = flag.Bool("errors", false, "print parse errors to stderr")
	showQuirks = flag.Bool("quirks", false, "print the quirks mode to stderr (document mode)")
	render     = flag.Bool("render", false, "print re-serialized HTML instead of the tree dump")
	verbose    = flag.BoolP("verbose", "v", false, "enable debug logging")
)

func main() {
	flag.Parse()
	if err := run(flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "treesink:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	input, err := readInput(args)
	if err != nil {
		return err
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}

	tree := hosttree.New()
	opts := []treesink.Option{treesink.WithLogger(log)}

	if *fragment {
		if err := treesink.ParseFragment(input, tree.Document, tree.Callbacks(), opts...); err != nil {
			return err
		}
	} else {
		s, err := treesink.NewSession(tree.Document, tree.Callbacks(), opts...)
		if err != nil {
			return err
		}
		for _, chunk := range chunks(input, *chunkSize) {
			if err := s.Feed(chunk); err != nil {
				return err
			}
		}
		if err := s.Finish(); err != nil {
			return err
		}
		if *showQuirks {
			fmt.Fprintln(os.Stderr, "quirks mode:", s.QuirksMode())
		}
	}

	if *showErrors {
		for _, e := range tree.Errors {
			fmt.Fprintln(os.Stderr, "parse error:", e)
		}
	}

	root := tree.Document
	if *fragment {
		// Fragment content accumulates under the synthetic html
		// element; present its children as the result.
		for _, c := range tree.Document.Children {
			if c.Type == hosttree.ElementNode {
				root = c
				break
			}
		}
	}
	if *render {
		fmt.Println(hosttree.Render(root))
	} else {
		fmt.Println(hosttree.Dump(root))
	}
	return nil
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 0 {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(args[0])
}

func chunks(input []byte, size int) [][]byte {
	if size <= 0 || size >= len(input) {
		return [][]byte{input}
	}
	var out [][]byte
	for len(input) > size {
		out = append(out, input[:size])
		input = input[size:]
	}
	return append(out, input)
}
