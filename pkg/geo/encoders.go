package geo

import (
	"bytes"
	"encoding/json"
	"os"
)

// Indent is the indentation used by the pretty JSON interop format.
const Indent = "    "

// JSONDumps serializes v to a JSON string, pretty-printed with 4-space
// indentation when pretty is set.
func JSONDumps(v any, pretty bool) (string, error) {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(v, "", Indent)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// JSONLoads deserializes a JSON string into v.
func JSONLoads(data string, v any) error {
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	return dec.Decode(v)
}

// JSONDump writes v to a JSON file.
func JSONDump(v any, filepath string, pretty bool) error {
	s, err := JSONDumps(v, pretty)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, []byte(s), 0644)
}

// JSONLoad reads v from a JSON file.
func JSONLoad(filepath string, v any) error {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return err
	}
	return JSONLoads(string(data), v)
}
