package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{" _       _        _        ", "#34d399"},
	{"(_)_ __ | |_ __ _| | _____ ", "#2dd4bf"},
	{"| | '_ \\| __/ _` | |/ / _ \\", "#22d3ee"},
	{"| | | | | || (_| |   <  __/", "#38bdf8"},
	{"|_|_| |_|\\__\\__,_|_|\\_\\___|", "#60a5fa"},
}

// PrintBanner writes the intake banner, colored when w is a color terminal.
func PrintBanner(w io.Writer, subtitle string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()

	fmt.Fprintln(w)
	for _, line := range bannerLines {
		fmt.Fprintln(w, out.String(line.text).Foreground(p.Color(line.color)))
	}
	if subtitle != "" {
		fmt.Fprintln(w, out.String("  "+subtitle).Faint())
	}
	fmt.Fprintln(w)
}

