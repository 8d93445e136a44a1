package registry

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/oryx-ai/modelhub/internal/settings"
	"github.com/oryx-ai/modelhub/pkg/api"
)

const (
	// SettingsScope and SettingsKey locate the persisted snapshot in the
	// settings store.
	SettingsScope = "user"
	SettingsKey   = "modelRegistry"
)

// Service loads and saves registries through the settings store. The store
// owns the canonical snapshot; every Load hands back a fresh disposable
// Registry.
type Service struct {
	store  settings.Store
	logger *zap.Logger
}

func NewService(store settings.Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Load reads the persisted snapshot and overlays it on the defaults. A
// missing snapshot yields the default registry; a corrupt one is discarded
// with a warning rather than failing the command.
func (s *Service) Load(ctx context.Context) (*Registry, error) {
	var snap api.RegistryState
	err := s.store.Get(ctx, SettingsScope, SettingsKey, &snap)
	if errors.Is(err, settings.ErrNotFound) {
		return New(), nil
	}
	if err != nil {
		s.logger.Warn("discarding unreadable registry snapshot", zap.Error(err))
		return New(), nil
	}
	return FromSnapshot(&snap), nil
}

// Save persists the registry's full snapshot. Writes are whole-object
// replacements; there is no partial update path.
func (s *Service) Save(ctx context.Context, r *Registry) error {
	if err := s.store.Set(ctx, SettingsScope, SettingsKey, r.Snapshot()); err != nil {
		return fmt.Errorf("failed to persist registry: %w", err)
	}
	return nil
}
