package checks

import (
	"context"
	"fmt"
	"path"
	"strings"

	"craft-catalog/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// RequiredPrefixes returns the object prefixes the catalog publishes to: the snapshot
// prefix and the folder of the canonical dataset.
func RequiredPrefixes(snapshotPrefix, canonicalObject string) []string {
	var prefixes []string
	seen := make(map[string]struct{})
	for _, p := range []string{snapshotPrefix, path.Dir(canonicalObject)} {
		p = strings.Trim(p, "/")
		if p == "" || p == "." {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		prefixes = append(prefixes, p)
	}
	return prefixes
}

// CheckStructure returns the required prefixes that hold no object.
func CheckStructure(ctx context.Context, client storage.Client, bucket string, prefixes []string) ([]string, error) {
	missing := []string{}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", bucket)
	}

	for _, prefix := range prefixes {
		opts := minio.ListObjectsOptions{
			Prefix:    prefix + "/",
			Recursive: false,
			MaxKeys:   1,
		}

		found := false
		for obj := range client.ListObjects(ctx, bucket, opts) {
			if obj.Err != nil {
				return nil, fmt.Errorf("failed to list %s: %w", prefix, obj.Err)
			}
			found = true
			break
		}

		if !found {
			missing = append(missing, prefix)
		}
	}

	return missing, nil
}

// FixStructure writes an empty marker object for every missing prefix.
func FixStructure(ctx context.Context, client storage.Client, bucket string, logger *zap.Logger, missing []string) error {
	for _, prefix := range missing {
		marker := strings.Trim(prefix, "/") + "/"
		if err := storage.PutBytes(ctx, client, bucket, marker, nil, "application/x-directory"); err != nil {
			logger.Error("Failed to create prefix", zap.String("prefix", prefix), zap.Error(err))
			return err
		}
		logger.Info("Created missing prefix", zap.String("prefix", prefix))
	}
	return nil
}
