package s3

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// AvatarPresigner hands out short-lived PUT URLs so avatar uploads go
// straight to object storage instead of through the API.
type AvatarPresigner struct {
	presignClient *s3.PresignClient
	bucketName    string
}

func NewAvatarPresigner() (*AvatarPresigner, error) {
	endpoint := os.Getenv("S3_ENDPOINT")
	region := os.Getenv("AWS_REGION")
	bucketName := os.Getenv("S3_BUCKET_NAME")
	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	usePathStyle := os.Getenv("S3_USE_PATH_STYLE") == "true"

	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL:               endpoint,
			SigningRegion:     region,
			HostnameImmutable: true,
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(
		context.TODO(),
		config.WithRegion(region),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)

	if err != nil {
		return nil, err
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = usePathStyle
	})

	return &AvatarPresigner{
		presignClient: s3.NewPresignClient(s3Client),
		bucketName:    bucketName,
	}, nil
}

// PresignAvatarUpload returns the upload URL and the object key the avatar
// will land on. The URL is valid for 15 minutes.
func (p *AvatarPresigner) PresignAvatarUpload(ctx context.Context, userID uuid.UUID) (uploadURL string, objectKey string, err error) {
	objectKey = fmt.Sprintf("avatars/%s/%s", userID, uuid.New())

	request, err := p.presignClient.PresignPutObject(
		ctx,
		&s3.PutObjectInput{
			Bucket: aws.String(p.bucketName),
			Key:    aws.String(objectKey),
		},
		func(opts *s3.PresignOptions) {
			opts.Expires = 15 * time.Minute
		},
	)

	if err != nil {
		return "", "", err
	}

	return request.URL, objectKey, nil
}
