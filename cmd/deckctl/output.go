package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/vytor/flashdeck/internal/models"
	"gopkg.in/yaml.v3"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func render(out io.Writer, format string, v any, table func(io.Writer) error) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case formatTable, "":
		return table(out)
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
}

func cardTable(cards []models.FormattedFlashCard, current int) func(io.Writer) error {
	return func(out io.Writer) error {
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "\tID\tFAV\tQUESTION\tOPTIONS\tBACK")
		for i, c := range cards {
			marker := ""
			if i == current {
				marker = ">"
			}
			fav := ""
			if c.Favorite {
				fav = "*"
			}
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%d\t%s\n", marker, c.ID, fav, c.Front.Question, len(c.Front.Options), c.Back)
		}
		return tw.Flush()
	}
}

func printCard(out io.Writer, index, total int, c *models.FormattedFlashCard) {
	if c == nil {
		fmt.Fprintln(out, "deck is empty")
		return
	}
	fmt.Fprintf(out, "[%d/%d] #%d %s\n", index+1, total, c.ID, c.Front.Question)
	for i, opt := range c.Front.Options {
		fmt.Fprintf(out, "  %c) %s\n", 'A'+i, opt)
	}
	fmt.Fprintf(out, "  => %s\n", c.Back)
}
