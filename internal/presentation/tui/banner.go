package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the wizard banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{`  ___                __      ___                _ `, "#34d399"},
		{` | _ \__ _ __ _ ___  \ \    / (_)_____ _ _ _ __| |`, "#2dd4bf"},
		{` |  _/ _' / _' / -_)  \ \/\/ /| |_ / _' | '_/ _' |`, "#22d3ee"},
		{` |_| \__,_\__, \___|   \_/\_/ |_/__\__,_|_| \__,_|`, "#38bdf8"},
		{`          |___/                                   `, "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
