package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/bamsammich/hashdex/internal/hasher"
)

var algorithmsCmd = &cobra.Command{
	Use:   "algorithms",
	Short: "List the supported hash algorithms",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Fprintln(os.Stdout, renderAlgorithms())
	},
}

func renderAlgorithms() string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"NAME", "BITS", "DEFAULT"})

	for _, info := range hasher.Algorithms() {
		def := ""
		if info.Default {
			def = "*"
		}
		tw.AppendRow(table.Row{info.Name, strconv.Itoa(info.Bits), def})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}
