package serialization

import (
	"compress/gzip"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/kiteco/cefr/golib/errors"
	"github.com/kiteco/cefr/golib/fileutil"
	yaml "gopkg.in/yaml.v2"
)

// Encoder matches gob.Encoder, json.Encoder and yaml.Encoder
type Encoder interface {
	Encode(interface{}) error
}

// Encode writes obj to path using the format given by the file extension:
// .json, .gob, .yml or .yaml, optionally followed by .gz. The path may be local
// or an s3 uri.
func Encode(path string, obj interface{}) (err error) {
	w, err := fileutil.NewBufferedWriter(path)
	if err != nil {
		return err
	}
	defer errors.Defer(&err, w.Close)
	return EncodeAs(w, path, obj)
}

// EncodeAs is like Encode but writes to w, using path only to pick the format.
func EncodeAs(w io.Writer, path string, obj interface{}) (err error) {
	if strings.HasSuffix(path, ".gz") {
		path = strings.TrimSuffix(path, ".gz")
		gz := gzip.NewWriter(w)
		defer errors.Defer(&err, gz.Close)
		w = gz
	}

	var e Encoder
	switch {
	case strings.HasSuffix(path, ".json"):
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		e = enc
	case strings.HasSuffix(path, ".gob"):
		e = gob.NewEncoder(w)
	case strings.HasSuffix(path, ".yml"), strings.HasSuffix(path, ".yaml"):
		enc := yaml.NewEncoder(w)
		defer errors.Defer(&err, enc.Close)
		e = enc
	default:
		return fmt.Errorf("could not find encoder for %s", path)
	}
	return e.Encode(obj)
}
