package storage

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSClient stores objects in a Google Cloud Storage bucket.
type GCSClient struct {
	client     *storage.Client
	bucketName string
}

// NewGCSClient authenticates with credentialsFile, or with application default
// credentials when it is empty.
func NewGCSClient(ctx context.Context, projectID, bucketName, credentialsFile string) (*GCSClient, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	if projectID != "" {
		opts = append(opts, option.WithQuotaProject(projectID))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcs client: %w", err)
	}

	return &GCSClient{
		client:     client,
		bucketName: bucketName,
	}, nil
}

func (c *GCSClient) urlPrefix() string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/", c.bucketName)
}

func (c *GCSClient) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	writer := c.client.Bucket(c.bucketName).Object(key).NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return "", fmt.Errorf("gcs write %s: %w", key, err)
	}
	// The object is only committed on Close.
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("gcs commit %s: %w", key, err)
	}

	return c.urlPrefix() + key, nil
}

func (c *GCSClient) Delete(ctx context.Context, url string) error {
	key, err := keyFromURL(url, c.urlPrefix())
	if err != nil {
		return err
	}
	err = c.client.Bucket(c.bucketName).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("gcs delete %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying client.
func (c *GCSClient) Close() error {
	return c.client.Close()
}
