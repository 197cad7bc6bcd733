package output

import (
	"fmt"
	"os"
)

func Success(message string, args ...interface{}) {
	fmt.Printf("bids-hub: "+message+"\n", args...)
}

func Error(err error) {
	fmt.Fprintf(os.Stderr, "error: %s\n", err)
}

func Warning(message string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "warning: "+message+"\n", args...)
}

// Table prints rows with columns padded to the widest cell.
func Table(data [][]string) {
	if len(data) == 0 {
		return
	}

	cols := len(data[0])
	widths := make([]int, cols)
	for _, row := range data {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	format := ""
	for i, width := range widths {
		if i == len(widths)-1 {
			format += "%-" + fmt.Sprintf("%d", width) + "s"
		} else {
			format += "%-" + fmt.Sprintf("%d", width) + "s  "
		}
	}
	format += "\n"

	for _, row := range data {
		fmt.Printf(format, toInterface(row)...)
	}
}

func toInterface(strs []string) []interface{} {
	intf := make([]interface{}, len(strs))
	for i, s := range strs {
		intf[i] = s
	}
	return intf
}
