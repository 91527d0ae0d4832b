package records

import (
	"bufio"
	"encoding/json"
	"io"
)

// encodeIndent is the indentation used for written JSON arrays.
const encodeIndent = "  "

// Encode writes records to w as a JSON array with two-space indentation.
// Non-ASCII text and HTML characters are written unescaped.
func Encode(w io.Writer, recs []Record) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", encodeIndent)

	if recs == nil {
		recs = []Record{}
	}
	if err := enc.Encode(recs); err != nil {
		return err
	}
	return bw.Flush()
}
