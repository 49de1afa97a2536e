package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"techblog/internal/content"
	"techblog/internal/markdown"
)

const (
	formatHTML = "html"
	formatJSON = "json"
	formatTOC  = "toc"
)

type renderOptions struct {
	format string
	style  string
	output string
}

func newRenderCmd() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a markdown file",
		Long: `Render a markdown file to HTML, to the block document as JSON, or to its
table of contents. Front matter is ignored. Use "-" to read from stdin.

Examples:
  blogctl render content/posts/react-hooks.md
  blogctl render post.md --format json -o post.json
  blogctl render post.md --format toc`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", formatHTML, "output format (html, json, toc)")
	cmd.Flags().StringVar(&opts.style, "style", markdown.DefaultCodeStyle, "chroma style for code blocks")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file path (default: stdout)")
	return cmd
}

func runRender(cmd *cobra.Command, path string, opts *renderOptions) error {
	if opts.format != formatHTML && opts.format != formatJSON && opts.format != formatTOC {
		return fmt.Errorf("unsupported format %q (want html, json or toc)", opts.format)
	}

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	source := content.Body(data)

	var out []byte
	switch opts.format {
	case formatHTML:
		out = []byte(markdown.NewHTMLRenderer(opts.style).Render(markdown.Render(source)))
	case formatJSON:
		out, err = json.MarshalIndent(markdown.Render(source), "", "  ")
	case formatTOC:
		toc := markdown.ExtractTOC(source)
		if toc == nil {
			toc = []markdown.TOCEntry{}
		}
		out, err = json.MarshalIndent(toc, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s output: %w", opts.format, err)
	}
	out = append(out, '\n')

	if opts.output == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(opts.output, out, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.output, err)
	}
	return nil
}
