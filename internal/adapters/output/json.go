package output

import (
	"encoding/json"
	"os"
)

// JSONPrinter prints results as indented JSON.
type JSONPrinter struct{}

// Print renders JSON output.
func (JSONPrinter) Print(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
