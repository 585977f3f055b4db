package core

import (
	"encoding/json"
	"io"
)

// MarshalFindings writes findings as indented JSON. Keys are masked unless
// reveal is set; the caller's slice is not modified.
func MarshalFindings(w io.Writer, findings []Finding, reveal bool) error {
	out := make([]Finding, len(findings))
	copy(out, findings)
	if !reveal {
		for i := range out {
			out[i].Key = Mask(out[i].Key)
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// UnmarshalFindings decodes findings JSON as written by MarshalFindings.
func UnmarshalFindings(r io.Reader) ([]Finding, error) {
	var fs []Finding
	if err := json.NewDecoder(r).Decode(&fs); err != nil {
		return nil, err
	}
	return fs, nil
}
