package serialization

import (
	"compress/gzip"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/kiteco/cefr/golib/fileutil"
	yaml "gopkg.in/yaml.v2"
)

// Decoder matches gob.Decoder, json.Decoder and yaml.Decoder
type Decoder interface {
	Decode(interface{}) error
}

// Decode loads a single object from path into obj, which must be a pointer.
// If the path ends with .gz the contents are decompressed first; the encoding
// is then picked from the remaining extension (.json, .gob, .yml, .yaml).
//
//   params := DefaultParams()
//   err := serialization.Decode("params.yml", &params)
func Decode(path string, obj interface{}) error {
	r, err := fileutil.NewReader(path)
	if err != nil {
		return fmt.Errorf("error loading %s: %v", path, err)
	}
	defer r.Close()
	return DecodeAs(r, path, obj)
}

// DecodeAs is like Decode but reads from r, using path only to pick the format.
func DecodeAs(r io.Reader, path string, obj interface{}) error {
	inpath := path
	if strings.HasSuffix(path, ".gz") {
		path = strings.TrimSuffix(path, ".gz")
		gz, err := gzip.NewReader(r)
		if err != nil {
			return fmt.Errorf("error loading %s: %v", inpath, err)
		}
		defer gz.Close()
		r = gz
	}

	var d Decoder
	switch {
	case strings.HasSuffix(path, ".json"):
		d = json.NewDecoder(r)
	case strings.HasSuffix(path, ".gob"):
		d = gob.NewDecoder(r)
	case strings.HasSuffix(path, ".yml"), strings.HasSuffix(path, ".yaml"):
		d = yaml.NewDecoder(r)
	default:
		return fmt.Errorf("could not find decoder for %s", inpath)
	}

	if err := d.Decode(obj); err != nil {
		return fmt.Errorf("error decoding %s: %v", inpath, err)
	}
	return nil
}
