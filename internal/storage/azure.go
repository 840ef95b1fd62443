package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/sirupsen/logrus"
)

// AzureBlobStore keeps blobs in an Azure Storage container
type AzureBlobStore struct {
	client        *azblob.Client
	containerName string
}

var _ BlobStore = (*AzureBlobStore)(nil)

// NewAzureBlobStore connects to the account with the default Azure credential chain
// (managed identity, workload identity, CLI) and creates the container if needed.
func NewAzureBlobStore(ctx context.Context, accountName, containerName string) (*AzureBlobStore, error) {
	if accountName == "" {
		return nil, fmt.Errorf("storage account name is required")
	}
	if containerName == "" {
		return nil, fmt.Errorf("storage container name is required")
	}

	credential, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}

	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", accountName)
	client, err := azblob.NewClient(serviceURL, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure blob client: %w", err)
	}

	store := &AzureBlobStore{
		client:        client,
		containerName: containerName,
	}

	if err := store.ensureContainer(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *AzureBlobStore) ensureContainer(ctx context.Context) error {
	_, err := s.client.CreateContainer(ctx, s.containerName, nil)
	if err != nil {
		if !strings.Contains(err.Error(), "ContainerAlreadyExists") {
			return fmt.Errorf("failed to create container %s: %w", s.containerName, err)
		}
		logrus.Debugf("Container %s already exists", s.containerName)
		return nil
	}

	logrus.Infof("Created container %s", s.containerName)
	return nil
}

// Store uploads data under name, replacing any existing blob
func (s *AzureBlobStore) Store(ctx context.Context, name string, data []byte) error {
	_, err := s.client.UploadBuffer(ctx, s.containerName, name, data, &azblob.UploadBufferOptions{
		BlockSize:   int64(1024 * 1024),
		Concurrency: 3,
	})
	if err != nil {
		return fmt.Errorf("failed to upload blob %s: %w", name, err)
	}

	logrus.Debugf("Stored %s (%d bytes) in container %s", name, len(data), s.containerName)
	return nil
}

// Retrieve downloads a blob
func (s *AzureBlobStore) Retrieve(ctx context.Context, name string) ([]byte, error) {
	response, err := s.client.DownloadStream(ctx, s.containerName, name, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download blob %s: %w", name, err)
	}
	defer response.Body.Close()

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", name, err)
	}

	return data, nil
}

// List returns the names of blobs starting with prefix
func (s *AzureBlobStore) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	pager := s.client.NewListBlobsFlatPager(s.containerName, &azblob.ListBlobsFlatOptions{
		Prefix: &prefix,
	})

	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list blobs under %s: %w", prefix, err)
		}

		for _, blob := range page.Segment.BlobItems {
			if blob.Name != nil {
				names = append(names, *blob.Name)
			}
		}
	}

	return names, nil
}
