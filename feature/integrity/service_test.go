package integrity

import (
	"context"
	"regexp"
	"testing"

	"craft-catalog/core/storage/mocks"
	"craft-catalog/feature/catalog"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// setupMockDB creates a mock GORM DB for testing.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func testCatalogConfig(t *testing.T) catalog.Config {
	return catalog.Config{
		DataDir:         t.TempDir(),
		SnapshotPrefix:  "catalog/",
		CanonicalObject: "canonical/catalog.json",
	}
}

func emptyListing() <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo)
	close(ch)
	return ch
}

func TestService_Structure(t *testing.T) {
	mockClient := new(mocks.Client)
	svc := NewService(mockClient, "test-bucket", zap.NewNop(), nil, testCatalogConfig(t))

	assert.Equal(t, []string{"catalog", "canonical"}, svc.Prefixes())

	t.Run("CheckStructure", func(t *testing.T) {
		mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
		// one ListObjects call per required prefix
		mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(emptyListing())

		missing, err := svc.CheckStructure(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, []string{"catalog", "canonical"}, missing)
	})

	t.Run("FixStructure", func(t *testing.T) {
		mockClient.On("PutObject", mock.Anything, "test-bucket", mock.Anything, mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, nil)
		err := svc.FixStructure(context.Background(), []string{"catalog"})
		assert.NoError(t, err)
	})
}

func TestService_NoStorage(t *testing.T) {
	svc := NewService(nil, "test-bucket", zap.NewNop(), nil, testCatalogConfig(t))

	_, err := svc.CheckStructure(context.Background())
	assert.Error(t, err)
	assert.Error(t, svc.FixStructure(context.Background(), []string{"catalog"}))
}

func TestService_CheckAll(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(emptyListing())

	db, sqlMock := setupMockDB(t)
	cols := []string{"Field", "Type", "Null", "Key", "Default", "Extra"}
	sqlMock.ExpectQuery(regexp.QuoteMeta("SHOW COLUMNS FROM `catalog_items`")).WillReturnRows(sqlmock.NewRows(cols))
	sqlMock.ExpectQuery(regexp.QuoteMeta("SHOW COLUMNS FROM `catalog_crafts`")).WillReturnRows(sqlmock.NewRows(cols))

	svc := NewService(mockClient, "test-bucket", zap.NewNop(), db, testCatalogConfig(t))
	report := svc.CheckAll(context.Background())

	require.Contains(t, report, "structure")
	require.Contains(t, report, "documents")
	require.Contains(t, report, "schema")
	assert.Equal(t, "ok", report["structure"].(map[string]any)["status"])
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestService_CheckAll_Failures(t *testing.T) {
	svc := NewService(nil, "test-bucket", zap.NewNop(), nil, catalog.Config{})
	report := svc.CheckAll(context.Background())

	for _, name := range []string{"structure", "documents", "schema"} {
		section, ok := report[name].(map[string]any)
		require.True(t, ok, name)
		assert.Equal(t, "error", section["status"], name)
	}
}
