// Package storage provides the object-store sink for scraped documents and
// pipeline artifacts, backed by Azure Blob Storage. Writes are idempotent:
// putting the same key again replaces the existing blob.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// System manages blob storage operations for documents and metadata.
type System interface {
	// EnsureContainer creates the configured container if it does not exist.
	EnsureContainer(ctx context.Context) error
	// Put uploads data to a blob at the given key with the specified content
	// type and user metadata, replacing any existing blob. It returns the
	// blob URI. Server-side encryption under the configured scope is
	// requested on every upload.
	Put(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) (string, error)
	// Exists reports whether a blob exists at the given key.
	Exists(ctx context.Context, key string) (bool, error)
}

type azure struct {
	client    *azblob.Client
	container string
	scope     string
	logger    *slog.Logger
}

// New creates a storage system from the given configuration. It validates
// the connection string and creates the Azure client but performs no
// network calls until first use.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &azure{
		client:    client,
		container: cfg.ContainerName,
		scope:     cfg.EncryptionScope,
		logger:    logger.With("system", "storage"),
	}, nil
}

func (a *azure) EnsureContainer(ctx context.Context) error {
	_, err := a.client.CreateContainer(ctx, a.container, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			return nil
		}
		return fmt.Errorf("create container %s: %w", a.container, err)
	}

	a.logger.Info("storage container created", "container", a.container)
	return nil
}

func (a *azure) Put(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}

	opts := &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: &contentType,
		},
	}
	if a.scope != "" {
		opts.CPKScopeInfo = &blob.CPKScopeInfo{
			EncryptionScope: &a.scope,
		}
	}
	if len(metadata) > 0 {
		opts.Metadata = make(map[string]*string, len(metadata))
		for k, v := range metadata {
			opts.Metadata[k] = to.Ptr(v)
		}
	}

	if _, err := a.client.UploadBuffer(ctx, a.container, key, data, opts); err != nil {
		return "", fmt.Errorf("upload blob %s: %w", key, err)
	}

	return a.URI(key), nil
}

func (a *azure) Exists(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	blobClient := a.client.
		ServiceClient().
		NewContainerClient(a.container).
		NewBlobClient(key)

	_, err := blobClient.GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("check blob existence %s: %w", key, err)
	}

	return true, nil
}

// URI returns the azblob URI for a key within the configured container.
func (a *azure) URI(key string) string {
	return fmt.Sprintf("azblob://%s/%s", a.container, key)
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}
