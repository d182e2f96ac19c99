package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"craft-catalog/feature/catalog/identity"
	"craft-catalog/feature/catalog/models"

	"go.uber.org/zap"
)

func (s *Store) loadItems() {
	path := s.ItemsPath()
	doc, ok, err := readDocument[models.Item](path)
	if err != nil {
		s.quarantine(path, err)
		return
	}
	if !ok {
		s.logger.Info("No items document, starting empty", zap.String("path", path))
		return
	}
	for _, item := range doc.Records {
		if strings.TrimSpace(item.Name) == "" {
			s.logger.Warn("Dropping stored item without a name", zap.String("key", item.Key))
			s.dirty = true
			continue
		}
		key := identity.ItemKey(item)
		if item.Key != key {
			s.logger.Warn("Stored item key drifted, re-keying",
				zap.String("name", item.Name),
				zap.String("stored", item.Key),
				zap.String("computed", key))
			item.Key = key
			s.dirty = true
		}
		if prev, dup := s.items[key]; dup {
			s.logger.Warn("Duplicate stored item, keeping higher confidence",
				zap.String("name", item.Name), zap.String("key", key))
			s.dirty = true
			if prev.Confidence >= item.Confidence {
				continue
			}
		}
		s.items[key] = item
	}
	s.itemsUpdated = doc.Metadata.LastUpdated
}

func (s *Store) loadCrafts() {
	path := s.CraftsPath()
	doc, ok, err := readDocument[models.Craft](path)
	if err != nil {
		s.quarantine(path, err)
		return
	}
	if !ok {
		s.logger.Info("No crafts document, starting empty", zap.String("path", path))
		return
	}
	for _, craft := range doc.Records {
		if strings.TrimSpace(craft.Name) == "" {
			s.logger.Warn("Dropping stored craft without a name", zap.String("key", craft.Key))
			s.dirty = true
			continue
		}
		key := identity.CraftKey(craft)
		if craft.Key != key {
			s.logger.Warn("Stored craft key drifted, re-keying",
				zap.String("name", craft.Name),
				zap.String("stored", craft.Key),
				zap.String("computed", key))
			craft.Key = key
			s.dirty = true
		}
		if prev, dup := s.crafts[key]; dup {
			s.logger.Warn("Duplicate stored craft, keeping higher confidence",
				zap.String("name", craft.Name), zap.String("key", key))
			s.dirty = true
			if prev.Confidence >= craft.Confidence {
				continue
			}
		}
		s.crafts[key] = craft
	}
	s.craftsUpdated = doc.Metadata.LastUpdated
}

// quarantine moves an unreadable document aside so the next save cannot overwrite the
// only copy of its data. The store half stays empty.
func (s *Store) quarantine(path string, cause error) {
	if s.opts.ReadOnly {
		s.logger.Error("Unreadable catalog document, treating as empty",
			zap.String("path", path), zap.Error(cause))
		return
	}
	target := fmt.Sprintf("%s.corrupt-%d", path, s.now().Unix())
	if err := os.Rename(path, target); err != nil {
		s.logger.Error("Unreadable catalog document, starting empty; quarantine failed",
			zap.String("path", path), zap.Error(cause), zap.NamedError("renameError", err))
		return
	}
	s.logger.Error("Unreadable catalog document, starting empty",
		zap.String("path", path),
		zap.String("quarantine", target),
		zap.Error(cause))
}

// Save rewrites both documents from the in-memory maps.
func (s *Store) Save() error {
	if s.opts.ReadOnly {
		return ErrReadOnly
	}
	now := s.now().UTC()
	items := s.Items()
	crafts := s.Crafts()

	itemDoc := models.ItemDocument{Metadata: s.metadata(now, len(items)), Records: items}
	if err := writeDocument(s.ItemsPath(), itemDoc); err != nil {
		return fmt.Errorf("save items: %w", err)
	}
	craftDoc := models.CraftDocument{Metadata: s.metadata(now, len(crafts)), Records: crafts}
	if err := writeDocument(s.CraftsPath(), craftDoc); err != nil {
		return fmt.Errorf("save crafts: %w", err)
	}

	s.itemsUpdated, s.craftsUpdated = now, now
	s.dirty = false
	s.logger.Debug("Catalog store saved",
		zap.Int("items", len(items)),
		zap.Int("crafts", len(crafts)))
	return nil
}

func (s *Store) metadata(now time.Time, count int) models.DocumentMetadata {
	return models.DocumentMetadata{
		Version:     models.DocumentVersion,
		Source:      s.opts.Source,
		LastUpdated: now,
		Count:       count,
	}
}

// writeDocument writes doc to a temporary file in the target directory, syncs it and
// renames it over path.
func writeDocument[T any](path string, doc models.Document[T]) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
