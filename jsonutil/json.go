package jsonutil

import (
	"encoding/json"
	"os"

	"github.com/beewatch/hivetune/errors"
)

// EncodeToFile marshals content as JSON and writes it to filename,
// truncating any existing file.
func EncodeToFile(filename string, content interface{}) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "unable to create %s", filename)
	}
	defer errors.Defer(&err, f.Close)

	if err := json.NewEncoder(f).Encode(content); err != nil {
		return errors.Wrapf(err, "unable to encode %s", filename)
	}
	return nil
}

// DecodeFrom reads a single JSON document from filename into content.
func DecodeFrom(filename string, content interface{}) error {
	f, err := os.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "unable to open %s", filename)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(content); err != nil {
		return errors.Wrapf(err, "unable to decode %s", filename)
	}
	return nil
}
