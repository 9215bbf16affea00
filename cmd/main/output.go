package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/CTAG07/babble/pkg/babble"
	"github.com/CTAG07/babble/pkg/corpus"
	"github.com/dustin/go-humanize"
)

func printStats(w io.Writer, stats babble.WordStats) {
	fmt.Fprintln(w, "Statistics:")
	fmt.Fprintf(w, "%s capitalized words\n", humanize.Comma(int64(stats.Capitalized)))
	fmt.Fprintf(w, "%s words with comma\n", humanize.Comma(int64(stats.WithComma)))
	fmt.Fprintf(w, "%s words with period, exclamation or question marks\n", humanize.Comma(int64(stats.WithEnding)))
	fmt.Fprintf(w, "%s clean words\n", humanize.Comma(int64(stats.Clean)))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s words total\n", humanize.Comma(int64(stats.Total)))
	fmt.Fprintln(w, "-------")
}

func printGraph(w io.Writer, model *babble.Model) error {
	fmt.Fprintln(w, "Word Graph:")
	return model.Export(w)
}

func printDocuments(w io.Writer, docs []corpus.DocumentInfo) error {
	if len(docs) == 0 {
		_, err := fmt.Fprintln(w, "No documents stored.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCHARACTERS\tADDED")
	for _, d := range docs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Name, humanize.Comma(int64(d.Length)), humanize.Time(d.AddedAt))
	}
	return tw.Flush()
}
