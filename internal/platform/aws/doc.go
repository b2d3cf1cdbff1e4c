// Package aws provides the AWS-backed collaborators of the validation engine.
//
// [EC2Client] implements metadata.Collaborator on top of the EC2 API. Calls
// are paced by a token-bucket limiter and SDK-level retries are disabled so
// that the metadata cache owns the retry policy; API errors are classified
// into not-found, transient and fatal by error code. [S3Client] reads cluster
// documents addressed as s3://bucket/key.
package aws
