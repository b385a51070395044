package google

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// findKeyRow returns the 1-based sheet row whose first column equals key,
// skipping the header row, or 0 when absent.
func findKeyRow(values [][]interface{}, key string) int {
	for i, row := range values {
		if i == 0 || len(row) == 0 {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(row[0])) == key {
			return i + 1
		}
	}
	return 0
}

func buildRow(key string, values []decimal.Decimal) []any {
	row := make([]any, 0, len(values)+1)
	row = append(row, key)
	for _, v := range values {
		row = append(row, v.InexactFloat64())
	}
	return row
}

// rowOfRange extracts the first row number of an A1 range such as "Totais!A7:D7".
func rowOfRange(a1 string) (int, bool) {
	if i := strings.LastIndex(a1, "!"); i >= 0 {
		a1 = a1[i+1:]
	}
	if i := strings.Index(a1, ":"); i >= 0 {
		a1 = a1[:i]
	}
	digits := strings.TrimLeft(a1, "ABCDEFGHIJKLMNOPQRSTUVWXYZ$")
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		switch n := v.(type) {
		case float64:
			out[i] = strconv.FormatFloat(n, 'f', -1, 64)
		default:
			out[i] = strings.TrimSpace(fmt.Sprint(v))
		}
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
