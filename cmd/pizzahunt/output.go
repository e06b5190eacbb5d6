package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"pizzahunt/internal/api"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func styled(colorize bool, style, value string) string {
	if !colorize {
		return value
	}
	return style + value + ansiReset
}

// formatTimestamp renders an API timestamp as "Jan 2nd, 2006 at 3:04 pm" in
// local time. Unparseable values are returned unchanged.
func formatTimestamp(value string) string {
	if value == "" {
		return ""
	}
	t, err := api.ParseTime(value)
	if err != nil {
		return value
	}
	return formatDate(t.Local())
}

func formatDate(t time.Time) string {
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	period := "am"
	if t.Hour() >= 12 {
		period = "pm"
	}
	return fmt.Sprintf("%s %d%s, %d at %d:%02d %s",
		t.Format("Jan"), t.Day(), ordinalSuffix(t.Day()), t.Year(), hour, t.Minute(), period)
}

func ordinalSuffix(day int) string {
	if day%100 >= 11 && day%100 <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}

func printPizza(out io.Writer, pizza api.Pizza) {
	colorize := shouldColorize(out)
	fmt.Fprintln(out, styled(colorize, ansiBold, pizza.PizzaName))
	fmt.Fprintf(out, "  ID:       %s\n", pizza.ID)
	fmt.Fprintf(out, "  By:       %s\n", pizza.CreatedBy)
	fmt.Fprintf(out, "  Created:  %s\n", formatTimestamp(pizza.CreatedAt))
	fmt.Fprintf(out, "  Size:     %s\n", pizza.Size)
	fmt.Fprintf(out, "  Toppings: %s\n", joinOrDash(pizza.Toppings))

	if len(pizza.Comments) == 0 {
		fmt.Fprintln(out, "  No comments yet")
		return
	}
	fmt.Fprintf(out, "  Comments (%d):\n", len(pizza.Comments))
	for _, comment := range pizza.Comments {
		printComment(out, comment, "    ", colorize)
	}
}

func printComment(out io.Writer, comment api.Comment, indent string, colorize bool) {
	fmt.Fprintf(out, "%s%s %s\n", indent,
		styled(colorize, ansiBold, comment.WrittenBy),
		styled(colorize, ansiDim, "on "+formatTimestamp(comment.CreatedAt)+" ["+comment.ID+"]"))
	fmt.Fprintf(out, "%s  %s\n", indent, comment.CommentBody)
	for _, reply := range comment.Replies {
		fmt.Fprintf(out, "%s  ↳ %s: %s %s\n", indent, reply.WrittenBy, reply.ReplyBody,
			styled(colorize, ansiDim, "("+formatTimestamp(reply.CreatedAt)+") ["+reply.ReplyID+"]"))
	}
}
