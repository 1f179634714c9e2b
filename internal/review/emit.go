package review

import (
	"encoding/json"
	"fmt"
	"io"
)

// Emit writes the result as a single JSON object followed by a newline. The
// labels slice is forced non-nil so the workflow never sees "labels_added":
// null.
func Emit(w io.Writer, res Result) error {
	if res.LabelsAdded == nil {
		res.LabelsAdded = []string{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("failed to encode review result: %w", err)
	}
	return nil
}
