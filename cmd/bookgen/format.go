package main

import (
	"strconv"
	"strings"

	"bookgen/internal/book"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
)

const groupingThreshold = 10000

// formatCount groups thousands only from 10,000 up, so small counts stay
// compact.
func formatCount(n int64) string {
	if n >= groupingThreshold || n <= -groupingThreshold {
		return humanize.Comma(n)
	}
	return strconv.FormatInt(n, 10)
}

func renderBooks(books []book.Book) (string, error) {
	data := pterm.TableData{{"#", "ISBN", "Title", "Authors", "Publisher", "Likes", "Reviews"}}
	for _, b := range books {
		data = append(data, []string{
			formatCount(b.Index + 1),
			b.ISBN,
			b.Title,
			strings.Join(b.Authors, ", "),
			b.Publisher,
			formatCount(int64(b.Likes)),
			formatCount(int64(b.Reviews)),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}
