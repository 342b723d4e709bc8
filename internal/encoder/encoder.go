// Package encoder turns file contents into the base64 text embedded in JSON
// request bodies. The output never carries a "data:...;base64," prefix.
package encoder

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
)

// EncodingError reports a file that could not be read for encoding.
type EncodingError struct {
	Name string
	Err  error
}

func (e *EncodingError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("encode file: %v", e.Err)
	}
	return fmt.Sprintf("encode %s: %v", e.Name, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// Encode reads r to the end and returns its standard base64 encoding.
func Encode(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", &EncodingError{Err: err}
	}
	return EncodeBytes(data), nil
}

// EncodeBytes encodes an in-memory file.
func EncodeBytes(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// ReadFile loads a file that will be encoded later.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &EncodingError{Name: path, Err: err}
	}
	return data, nil
}

// EncodeFile opens path and encodes its contents.
func EncodeFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &EncodingError{Name: path, Err: err}
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", &EncodingError{Name: path, Err: err}
	}
	return EncodeBytes(data), nil
}
