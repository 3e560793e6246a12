package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"github.com/tidwall/pretty"
)

// Some color ANSI codes
const (
	reset      = "\033[0m"
	yellow     = "\033[33m"
	green      = "\033[32m"
	white      = "\033[37m"
	dimWhite   = "\033[37;2m"
	brightBlue = "\033[34;1m"
)

var defaultStyle = pretty.Style{
	Key:    [2]string{brightBlue, reset},
	String: [2]string{green, reset},
	Number: [2]string{white, reset},
	True:   [2]string{yellow, reset},
	False:  [2]string{yellow, reset},
	Null:   [2]string{dimWhite, reset},
}

type outputOptions struct {
	compact bool
	indent  int
	color   string
}

func (o *outputOptions) addFlags(flags *pflag.FlagSet) {
	flags.BoolVar(&o.compact, "compact", false, "output JSON on a single line")
	flags.IntVar(&o.indent, "indent", 2, "indentation width (ignored with --compact)")
	flags.StringVar(&o.color, "color", "auto", "colorize output: auto, always, never")
}

func (o *outputOptions) validate() error {
	switch o.color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid --color value: %q (use auto, always, or never)", o.color)
	}
	if o.indent < 0 {
		return fmt.Errorf("invalid --indent value: %d", o.indent)
	}
	return nil
}

// useColor decides whether output to w is colorized.
func (o *outputOptions) useColor(w io.Writer) bool {
	switch o.color {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// writeJSON formats the JSON text data and writes it to w, followed by a
// newline.
func (o *outputOptions) writeJSON(w io.Writer, data []byte) error {
	if o.compact {
		data = append(pretty.Ugly(data), '\n')
	} else {
		data = pretty.PrettyOptions(data, &pretty.Options{
			Width:  80,
			Indent: fmt.Sprintf("%*s", o.indent, ""),
		})
	}
	if o.useColor(w) {
		data = pretty.Color(data, &defaultStyle)
		if f, ok := w.(*os.File); ok {
			w = colorable.NewColorable(f)
		}
	}
	_, err := w.Write(data)
	return err
}
