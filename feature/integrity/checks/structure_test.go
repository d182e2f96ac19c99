package checks

import (
	"context"
	"errors"
	"testing"

	"craft-catalog/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestRequiredPrefixes(t *testing.T) {
	assert.Equal(t, []string{"catalog", "canonical"}, RequiredPrefixes("catalog/", "canonical/catalog.json"))
	assert.Equal(t, []string{"catalog"}, RequiredPrefixes("/catalog/", "catalog/canonical.json"))
	assert.Equal(t, []string{"snapshots"}, RequiredPrefixes("snapshots", "catalog.json"))
}

func TestCheckStructure(t *testing.T) {
	prefixes := []string{"catalog", "canonical"}

	t.Run("Bucket Missing", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "catalog").Return(false, nil)

		_, err := CheckStructure(context.Background(), mockClient, "catalog", prefixes)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("Bucket Error", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "catalog").Return(false, errors.New("timeout"))

		_, err := CheckStructure(context.Background(), mockClient, "catalog", prefixes)
		assert.ErrorContains(t, err, "timeout")
	})

	t.Run("All Missing", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "catalog").Return(true, nil)
		ch := make(chan minio.ObjectInfo)
		close(ch)
		mockClient.On("ListObjects", mock.Anything, "catalog", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

		missing, err := CheckStructure(context.Background(), mockClient, "catalog", prefixes)
		assert.NoError(t, err)
		assert.Equal(t, prefixes, missing)
	})

	t.Run("All Present", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "catalog").Return(true, nil)

		for _, prefix := range prefixes {
			ch := make(chan minio.ObjectInfo, 1)
			ch <- minio.ObjectInfo{Key: prefix + "/items.json"}
			close(ch)
			p := prefix
			mockClient.On("ListObjects", mock.Anything, "catalog", mock.MatchedBy(func(opts minio.ListObjectsOptions) bool {
				return opts.Prefix == p+"/"
			})).Return((<-chan minio.ObjectInfo)(ch))
		}

		missing, err := CheckStructure(context.Background(), mockClient, "catalog", prefixes)
		assert.NoError(t, err)
		assert.Empty(t, missing)
	})
}

func TestFixStructure(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("PutObject", mock.Anything, "catalog", "canonical/", mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, nil)

	err := FixStructure(context.Background(), mockClient, "catalog", zap.NewNop(), []string{"canonical"})
	assert.NoError(t, err)
	mockClient.AssertNumberOfCalls(t, "PutObject", 1)

	t.Run("Upload Error", func(t *testing.T) {
		failing := new(mocks.Client)
		failing.On("PutObject", mock.Anything, "catalog", mock.Anything, mock.Anything, int64(0), mock.Anything).
			Return(minio.UploadInfo{}, errors.New("denied"))

		err := FixStructure(context.Background(), failing, "catalog", zap.NewNop(), []string{"catalog", "canonical"})
		assert.ErrorContains(t, err, "denied")
		failing.AssertNumberOfCalls(t, "PutObject", 1)
	})
}
