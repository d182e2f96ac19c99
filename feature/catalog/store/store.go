package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"craft-catalog/feature/catalog/identity"
	"craft-catalog/feature/catalog/models"

	"github.com/gofrs/flock"
	"go.uber.org/zap"
)

const (
	ItemsFile  = "items.json"
	CraftsFile = "crafts.json"
	LockFile   = ".catalog.lock"
)

var (
	// ErrLocked is returned by Open when another process holds the store directory.
	ErrLocked = errors.New("catalog store is locked by another process")
	// ErrReadOnly is returned by Save on a store opened read-only.
	ErrReadOnly = errors.New("catalog store is read-only")
)

// Options configures Open.
type Options struct {
	// Dir holds items.json, crafts.json and the lock file.
	Dir string
	// Source is written into the metadata of both documents.
	Source string
	// ReadOnly skips the lock and refuses to save.
	ReadOnly bool
}

// Store is the in-memory key→record map for items and crafts.
type Store struct {
	opts   Options
	logger *zap.Logger
	now    func() time.Time
	lock   *flock.Flock

	items  map[string]models.Item
	crafts map[string]models.Craft

	itemsUpdated  time.Time
	craftsUpdated time.Time
	dirty         bool
}

// Open creates the store directory, takes the writer lock and loads both documents.
// A missing or unreadable document leaves that half of the store empty; only directory
// or lock failures are returned.
func Open(opts Options, logger *zap.Logger, now func() time.Time) (*Store, error) {
	if opts.Dir == "" {
		return nil, errors.New("store directory is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}

	s := &Store{
		opts:   opts,
		logger: logger,
		now:    now,
		items:  make(map[string]models.Item),
		crafts: make(map[string]models.Craft),
	}

	if !opts.ReadOnly {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
		s.lock = flock.New(filepath.Join(opts.Dir, LockFile))
		ok, err := s.lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("acquire store lock: %w", err)
		}
		if !ok {
			return nil, ErrLocked
		}
	}

	s.loadItems()
	s.loadCrafts()

	logger.Info("Catalog store opened",
		zap.String("dir", opts.Dir),
		zap.Int("items", len(s.items)),
		zap.Int("crafts", len(s.crafts)),
		zap.Bool("readOnly", opts.ReadOnly))
	return s, nil
}

// Dir returns the directory holding the documents.
func (s *Store) Dir() string { return s.opts.Dir }

// ItemsPath returns the path of items.json.
func (s *Store) ItemsPath() string { return filepath.Join(s.opts.Dir, ItemsFile) }

// CraftsPath returns the path of crafts.json.
func (s *Store) CraftsPath() string { return filepath.Join(s.opts.Dir, CraftsFile) }

// Dirty reports whether the in-memory state differs from what was last saved.
func (s *Store) Dirty() bool { return s.dirty }

// Counts returns the number of stored items and crafts.
func (s *Store) Counts() (items, crafts int) {
	return len(s.items), len(s.crafts)
}

// LastUpdated returns the metadata timestamps of the last load or save.
func (s *Store) LastUpdated() (items, crafts time.Time) {
	return s.itemsUpdated, s.craftsUpdated
}

// Item looks up an item by content key.
func (s *Store) Item(key string) (models.Item, bool) {
	item, ok := s.items[key]
	return item, ok
}

// PutItem stores item under item.Key, replacing any record with that key.
func (s *Store) PutItem(item models.Item) {
	s.items[item.Key] = item
	s.dirty = true
}

// DeleteItem removes the item stored under key.
func (s *Store) DeleteItem(key string) bool {
	if _, ok := s.items[key]; !ok {
		return false
	}
	delete(s.items, key)
	s.dirty = true
	return true
}

// Items returns all items sorted by normalized name, then key.
func (s *Store) Items() []models.Item {
	out := make([]models.Item, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	sortItems(out)
	return out
}

// ItemsByName returns the items whose normalized name equals the normalized name given.
func (s *Store) ItemsByName(name string) []models.Item {
	want := identity.NormalizeName(name)
	var out []models.Item
	for _, item := range s.items {
		if identity.NormalizeName(item.Name) == want {
			out = append(out, item)
		}
	}
	sortItems(out)
	return out
}

// Craft looks up a craft by content key.
func (s *Store) Craft(key string) (models.Craft, bool) {
	craft, ok := s.crafts[key]
	return craft, ok
}

// PutCraft stores craft under craft.Key, replacing any record with that key.
func (s *Store) PutCraft(craft models.Craft) {
	s.crafts[craft.Key] = craft
	s.dirty = true
}

// DeleteCraft removes the craft stored under key.
func (s *Store) DeleteCraft(key string) bool {
	if _, ok := s.crafts[key]; !ok {
		return false
	}
	delete(s.crafts, key)
	s.dirty = true
	return true
}

// Crafts returns all crafts sorted by normalized name, then key.
func (s *Store) Crafts() []models.Craft {
	out := make([]models.Craft, 0, len(s.crafts))
	for _, craft := range s.crafts {
		out = append(out, craft)
	}
	sortCrafts(out)
	return out
}

// CraftsByBaseName returns the crafts sharing base, compared with identity.BaseName.
func (s *Store) CraftsByBaseName(name string) []models.Craft {
	want := identity.BaseName(name)
	var out []models.Craft
	for _, craft := range s.crafts {
		if identity.BaseName(craft.Name) == want {
			out = append(out, craft)
		}
	}
	sortCrafts(out)
	return out
}

// Flush saves when there are unsaved changes.
func (s *Store) Flush() error {
	if !s.dirty || s.opts.ReadOnly {
		return nil
	}
	return s.Save()
}

// Close flushes pending changes and releases the writer lock.
func (s *Store) Close() error {
	err := s.Flush()
	if s.lock != nil {
		if uerr := s.lock.Unlock(); uerr != nil {
			s.logger.Warn("Failed to release store lock", zap.Error(uerr))
		}
	}
	return err
}

func sortItems(items []models.Item) {
	sort.Slice(items, func(i, j int) bool {
		ni, nj := identity.NormalizeName(items[i].Name), identity.NormalizeName(items[j].Name)
		if ni != nj {
			return ni < nj
		}
		return items[i].Key < items[j].Key
	})
}

func sortCrafts(crafts []models.Craft) {
	sort.Slice(crafts, func(i, j int) bool {
		ni, nj := identity.NormalizeName(crafts[i].Name), identity.NormalizeName(crafts[j].Name)
		if ni != nj {
			return ni < nj
		}
		return crafts[i].Key < crafts[j].Key
	})
}

// readDocument loads one document. A missing file yields ok=false and no error.
func readDocument[T any](path string) (doc models.Document[T], ok bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return doc, false, nil
		}
		return doc, false, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, false, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return doc, true, nil
}
