package csv

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/vegarsti/reader"
)

var header = []string{"index", "selected", "minX", "minY", "maxX", "maxY", "text"}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FromFragments writes one row per fragment. selected may be shorter than
// fragments; missing entries count as not selected.
func FromFragments(fragments []reader.Fragment, selected []bool) string {
	s := &bytes.Buffer{}
	writer := csv.NewWriter(s)
	writer.Write(header)
	for i, f := range fragments {
		writer.Write([]string{
			strconv.Itoa(i),
			strconv.FormatBool(i < len(selected) && selected[i]),
			formatFloat(f.Box.XLeft),
			formatFloat(f.Box.YBottom),
			formatFloat(f.Box.XRight),
			formatFloat(f.Box.YTop),
			f.Text,
		})
	}
	writer.Flush()
	return s.String()
}
