package awsutil

import (
	"fmt"
	"io"
	"io/ioutil"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/kiteco/cefr/golib/envutil"
)

// bucket locations are looked up from this region
var lookupRegion = envutil.GetenvDefault("AWS_REGION", "us-east-1")

// IsS3URI returns true if the path is an s3 uri.
func IsS3URI(path string) bool {
	return strings.HasPrefix(path, "s3://")
}

// ValidateURI checks whether the given uri points to S3 and names both a
// bucket and a key.
func ValidateURI(uri string) (*url.URL, error) {
	s3url, err := url.Parse(uri)
	if err != nil {
		return nil, err
	}
	if s3url.Scheme != "s3" {
		return nil, fmt.Errorf("%s is not an s3 uri", uri)
	}
	if s3url.Host == "" || strings.TrimPrefix(s3url.Path, "/") == "" {
		return nil, fmt.Errorf("%s must be of the form s3://bucket/key", uri)
	}
	return s3url, nil
}

// NewS3Reader returns an io.ReadCloser over the object at uri, which has
// the form s3://bucket-name/path/to/file.
func NewS3Reader(uri string) (io.ReadCloser, error) {
	s3url, err := ValidateURI(uri)
	if err != nil {
		return nil, err
	}

	client, err := bucketClient(s3url.Host)
	if err != nil {
		return nil, err
	}

	out, err := client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(s3url.Host),
		Key:    aws.String(objectKey(s3url)),
	})
	if err != nil {
		return nil, fmt.Errorf("error getting %s: %v", uri, err)
	}
	return out.Body, nil
}

// S3PutObject writes the contents of r to the object at uri.
func S3PutObject(r io.ReadSeeker, uri string) error {
	s3url, err := ValidateURI(uri)
	if err != nil {
		return err
	}

	client, err := bucketClient(s3url.Host)
	if err != nil {
		return err
	}

	_, err = client.PutObject(&s3.PutObjectInput{
		Bucket: aws.String(s3url.Host),
		Key:    aws.String(objectKey(s3url)),
		Body:   r,
	})
	return err
}

// NamedWriteCloser is a file-like object extending io.WriteCloser with a string Name() similar to os.File.Name()
type NamedWriteCloser interface {
	io.WriteCloser
	Name() string
}

type bufferedS3Writer struct {
	f     *os.File
	s3uri *url.URL
}

// Write writes to the local buffer file
func (w bufferedS3Writer) Write(p []byte) (int, error) {
	return w.f.Write(p)
}

// Close uploads the buffered data to s3 and removes the buffer file
func (w bufferedS3Writer) Close() error {
	defer os.Remove(w.f.Name())
	defer w.f.Close()

	if _, err := w.f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	return S3PutObject(w.f, w.s3uri.String())
}

func (w bufferedS3Writer) Name() string {
	return w.s3uri.String()
}

// NewBufferedS3Writer returns a writer that buffers to a temp file and
// uploads to S3 on Close.
func NewBufferedS3Writer(uri string) (NamedWriteCloser, error) {
	s3url, err := ValidateURI(uri)
	if err != nil {
		return nil, err
	}

	f, err := ioutil.TempFile("", "s3buffer")
	if err != nil {
		return nil, err
	}
	return bufferedS3Writer{f: f, s3uri: s3url}, nil
}

// --

func objectKey(s3url *url.URL) string {
	return strings.TrimPrefix(s3url.Path, "/")
}

// bucketClient returns a client configured for the region the bucket lives in.
func bucketClient(bucket string) (*s3.S3, error) {
	sess, err := session.NewSession()
	if err != nil {
		return nil, err
	}

	loc, err := s3.New(sess, aws.NewConfig().WithRegion(lookupRegion)).GetBucketLocation(&s3.GetBucketLocationInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to determine region of %s: %v", bucket, err)
	}

	region := "us-east-1"
	if loc.LocationConstraint != nil && *loc.LocationConstraint != "" {
		region = *loc.LocationConstraint
	}
	return s3.New(sess, aws.NewConfig().WithRegion(region)), nil
}
