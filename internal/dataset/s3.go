package dataset

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectGetter is the part of *s3.Client the source needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// maxObjectBytes bounds how much of the object is read.
const maxObjectBytes = 64 << 20

// S3Source fetches a dataset document from a bucket. The key's extension
// selects the format as for FileSource.
type S3Source struct {
	Client ObjectGetter
	Bucket string
	Key    string
}

// NewS3Client builds a client from the default AWS credential chain.
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

func (s S3Source) Name() string { return "s3://" + s.Bucket + "/" + s.Key }

func (s S3Source) Load(ctx context.Context) (Raw, error) {
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return Raw{}, fmt.Errorf("get %s: %w", s.Name(), err)
	}
	defer out.Body.Close()

	b, err := io.ReadAll(io.LimitReader(out.Body, maxObjectBytes))
	if err != nil {
		return Raw{}, fmt.Errorf("read %s: %w", s.Name(), err)
	}
	return Decode(b, path.Ext(s.Key))
}
