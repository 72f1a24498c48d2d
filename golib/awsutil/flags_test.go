package awsutil

import "flag"

// Tests that talk to S3 need credentials and a network connection, so they
// only run with "go test -aws".

var awsTests bool

func init() {
	flag.BoolVar(&awsTests, "aws", false, "run tests that rely on AWS connectivity and credentials")
}
