package main

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	ansiBold  = "\033[1m"
	ansiReset = "\033[0m"
)

var titleCaser = cases.Title(language.English)

// genreLabel renders a stored lowercase genre for display.
func genreLabel(genre string) string {
	return titleCaser.String(strings.TrimSpace(genre))
}

func genreLabels(genres []string) string {
	labels := make([]string, 0, len(genres))
	for _, g := range genres {
		labels = append(labels, genreLabel(g))
	}
	return strings.Join(labels, ", ")
}

func formatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func formatAge(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

func formatRuntime(minutes int) string {
	if minutes <= 0 {
		return "-"
	}
	h, m := minutes/60, minutes%60
	if h == 0 {
		return strconv.Itoa(m) + "m"
	}
	return strconv.Itoa(h) + "h " + strconv.Itoa(m) + "m"
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func bold(writer io.Writer, s string) string {
	if !shouldColorize(writer) {
		return s
	}
	return ansiBold + s + ansiReset
}
