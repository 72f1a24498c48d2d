package fileutil

import (
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/kiteco/cefr/golib/awsutil"
)

// IsRemote returns true for http(s) URLs and s3 URIs.
func IsRemote(path string) bool {
	return IsHTTP(path) || awsutil.IsS3URI(path)
}

// IsHTTP returns true for http and https URLs.
func IsHTTP(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// NewReader opens a local or remote path for reading. Paths that look like
// "s3://bucket/path/to/object" are read from S3, http(s) URLs are fetched with
// a GET, and anything else is opened from the local filesystem.
func NewReader(path string) (io.ReadCloser, error) {
	switch {
	case awsutil.IsS3URI(path):
		return awsutil.NewS3Reader(path)
	case IsHTTP(path):
		resp, err := http.Get(path)
		if err != nil {
			return nil, fmt.Errorf("error getting %s: %v", path, err)
		}
		if resp.StatusCode != http.StatusOK {
			defer resp.Body.Close()
			io.Copy(ioutil.Discard, resp.Body)
			return nil, fmt.Errorf("error getting %s: status code %d", path, resp.StatusCode)
		}
		return resp.Body, nil
	default:
		return os.Open(path)
	}
}

// ReadFile reads the contents of a local or remote path.
func ReadFile(path string) ([]byte, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return ioutil.ReadAll(r)
}

// NamedWriteCloser is a file-like object extending io.WriteCloser with a string Name() similar to os.File.Name()
type NamedWriteCloser = awsutil.NamedWriteCloser

// NewBufferedWriter opens a local or remote path for writing. If the path starts with
// "s3://", then this will write to a local buffer, copying to s3 on close. Otherwise,
// this will write to the local FS, creating parent directories as needed.
func NewBufferedWriter(path string) (NamedWriteCloser, error) {
	if awsutil.IsS3URI(path) {
		return awsutil.NewBufferedS3Writer(path)
	}
	if IsHTTP(path) {
		return nil, fmt.Errorf("cannot write to %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.Create(path)
}
