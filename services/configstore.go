package services

import (
	"context"
	"log"
	"sort"
	"sync"

	"github.com/getsentry/sentry-go"
	"gorm.io/gorm"

	"roomvizapi/models"
)

// ConfigStoreProvider persists saved room configurations. Save/List/Delete
// is the whole contract; configs are immutable once saved.
type ConfigStoreProvider interface {
	Save(ctx context.Context, cfg *models.SavedRoomConfig) (uint, error)
	List(ctx context.Context, ownerID uint) ([]models.SavedRoomConfig, error)
	Delete(ctx context.Context, ownerID uint, id uint) error
}

type GormConfigStore struct {
	DB *gorm.DB
}

func (s *GormConfigStore) Save(ctx context.Context, cfg *models.SavedRoomConfig) (uint, error) {
	if err := s.DB.WithContext(ctx).Create(cfg).Error; err != nil {
		return 0, err
	}
	return cfg.ID, nil
}

func (s *GormConfigStore) List(ctx context.Context, ownerID uint) ([]models.SavedRoomConfig, error) {
	var configs []models.SavedRoomConfig
	err := s.DB.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at desc").Find(&configs).Error
	return configs, err
}

func (s *GormConfigStore) Delete(ctx context.Context, ownerID uint, id uint) error {
	return s.DB.WithContext(ctx).Where("owner_id = ?", ownerID).Delete(&models.SavedRoomConfig{}, id).Error
}

// MemoryConfigStore is the local-only degradation target when the database
// is unreachable. Same shape, process lifetime only.
type MemoryConfigStore struct {
	mu      sync.Mutex
	nextID  uint
	configs map[uint]models.SavedRoomConfig
}

func NewMemoryConfigStore() *MemoryConfigStore {
	// ids far above anything postgres will hand out, so a later recovery
	// does not collide
	return &MemoryConfigStore{nextID: 1_000_000_000, configs: map[uint]models.SavedRoomConfig{}}
}

func (s *MemoryConfigStore) Save(ctx context.Context, cfg *models.SavedRoomConfig) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	cfg.ID = s.nextID
	s.configs[cfg.ID] = *cfg
	return cfg.ID, nil
}

func (s *MemoryConfigStore) List(ctx context.Context, ownerID uint) ([]models.SavedRoomConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.SavedRoomConfig
	for _, cfg := range s.configs {
		if cfg.OwnerID == ownerID {
			out = append(out, cfg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *MemoryConfigStore) Delete(ctx context.Context, ownerID uint, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cfg, ok := s.configs[id]; ok && cfg.OwnerID == ownerID {
		delete(s.configs, id)
	}
	return nil
}

// ResilientConfigStore tries the database first and silently degrades to the
// local store when it errors. Persistence trouble is logged and captured but
// never surfaced to the visualizer flow.
type ResilientConfigStore struct {
	Primary  ConfigStoreProvider
	Fallback *MemoryConfigStore
}

func NewResilientConfigStore(db *gorm.DB) *ResilientConfigStore {
	return &ResilientConfigStore{
		Primary:  &GormConfigStore{DB: db},
		Fallback: NewMemoryConfigStore(),
	}
}

func (s *ResilientConfigStore) Save(ctx context.Context, cfg *models.SavedRoomConfig) (uint, error) {
	id, err := s.Primary.Save(ctx, cfg)
	if err == nil {
		return id, nil
	}
	log.Printf("config store unavailable on save, using local store: %v", err)
	sentry.CaptureException(err)
	return s.Fallback.Save(ctx, cfg)
}

func (s *ResilientConfigStore) List(ctx context.Context, ownerID uint) ([]models.SavedRoomConfig, error) {
	configs, err := s.Primary.List(ctx, ownerID)
	if err == nil {
		local, _ := s.Fallback.List(ctx, ownerID)
		return append(configs, local...), nil
	}
	log.Printf("config store unavailable on list, using local store: %v", err)
	sentry.CaptureException(err)
	return s.Fallback.List(ctx, ownerID)
}

func (s *ResilientConfigStore) Delete(ctx context.Context, ownerID uint, id uint) error {
	// a locally saved config only exists in the fallback
	_ = s.Fallback.Delete(ctx, ownerID, id)
	if err := s.Primary.Delete(ctx, ownerID, id); err != nil {
		log.Printf("config store unavailable on delete: %v", err)
		sentry.CaptureException(err)
	}
	return nil
}
