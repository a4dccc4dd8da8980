package metrics

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteCSV writes a download/upload history pair with a fixed column
// order, oldest sample first. Index 0 is the oldest retained sample.
func WriteCSV(w io.Writer, down, up []float64) error {
	writer := csv.NewWriter(w)

	header := []string{"index", "down_bps", "up_bps", "total_bps"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for i := range down {
		var u float64
		if i < len(up) {
			u = up[i]
		}
		record := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(down[i], 'f', 3, 64),
			strconv.FormatFloat(u, 'f', 3, 64),
			strconv.FormatFloat(down[i]+u, 'f', 3, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
