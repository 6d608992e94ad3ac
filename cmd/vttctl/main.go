// Command vttctl generates, parses and queries WebVTT subtitle documents
// using the same code paths as the API server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/therealutkarshpriyadarshi/streamtv/internal/subtitle"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	timeout time.Duration
	jsonOut bool
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "vttctl",
		Short:         "Generate, parse and query WebVTT subtitles",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(out)
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Network fetch timeout")
	root.PersistentFlags().BoolVarP(&opts.jsonOut, "json", "j", false, "Print JSON instead of text")

	root.AddCommand(newGenerateCmd(opts))
	root.AddCommand(newParseCmd(opts))
	root.AddCommand(newCueCmd(opts))
	return root
}

func newGenerateCmd(opts *options) *cobra.Command {
	var language string
	var asDataURL bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print a generated subtitle document (english or arabic)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, ok := subtitle.Generate(language)
			if !ok {
				return fmt.Errorf("no generated subtitles for language %q", language)
			}
			if asDataURL {
				doc = subtitle.DataURL(doc)
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), doc)
			return err
		},
	}
	cmd.Flags().StringVarP(&language, "language", "l", "english", "Subtitle language")
	cmd.Flags().BoolVar(&asDataURL, "data-url", false, "Print as a data URL")
	return cmd
}

func newParseCmd(opts *options) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "parse <file|url>",
		Short: "Parse a WebVTT document and print its cues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := load(cmd.Context(), opts, args[0], strict)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if opts.jsonOut {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			for _, cue := range result.Cues {
				fmt.Fprintf(w, "%s --> %s\t%s\n",
					subtitle.FormatTimestamp(cue.Start),
					subtitle.FormatTimestamp(cue.End),
					strings.ReplaceAll(cue.Text, "\n", " / "))
			}
			for _, d := range result.Diagnostics {
				fmt.Fprintf(cmd.ErrOrStderr(), "line %d: %s: %q\n", d.Line, d.Reason, d.Text)
			}
			fmt.Fprintf(w, "%d cues\n", len(result.Cues))
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Report skipped timing lines")
	return cmd
}

func newCueCmd(opts *options) *cobra.Command {
	var at float64

	cmd := &cobra.Command{
		Use:   "cue <file|url>",
		Short: "Print the cue shown at a playback position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := load(cmd.Context(), opts, args[0], false)
			if err != nil {
				return err
			}

			text, ok := subtitle.CurrentCue(result.Cues, at)
			w := cmd.OutOrStdout()
			if opts.jsonOut {
				return json.NewEncoder(w).Encode(map[string]interface{}{"time": at, "found": ok, "text": text})
			}
			if !ok {
				fmt.Fprintln(w, "(no cue)")
				return nil
			}
			fmt.Fprintln(w, text)
			return nil
		},
	}
	cmd.Flags().Float64Var(&at, "at", 0, "Playback position in seconds")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

// load reads src as a data URL, an http(s) URL or a local file
func load(ctx context.Context, opts *options, src string, strict bool) (*subtitle.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if subtitle.IsDataURL(src) || strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		loader := subtitle.NewLoader(opts.timeout, 0)
		return loader.LoadResult(ctx, src, strict)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", src, err)
	}

	result := &subtitle.Result{Source: "file"}
	if strict {
		result.Cues, result.Diagnostics = subtitle.ParseStrict(string(data))
	} else {
		result.Cues = subtitle.Parse(string(data))
	}
	return result, nil
}
