package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/nkp-tools/nkp-as-built/pkg/collector"
)

// JSONRenderer writes the inventory as indented JSON.
type JSONRenderer struct{}

// Render writes inv followed by a newline. Node inventories that were not
// collected appear as null.
func (r *JSONRenderer) Render(w io.Writer, inv *collector.Inventory) error {
	data, err := json.MarshalIndent(inv, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal inventory: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
