package db

import (
	"context"

	"github.com/pkg/errors"
)

// Storage keys. They match the names used by earlier browser-based versions so
// exported and stored documents stay interchangeable.
const (
	DataKey         = "classAssistantData"
	LastSelectedKey = "lastSelectedClass"
	BackupKey       = "classAssistantDataBackup"
)

// StateRepository stores the serialized class list and the last selected class
// name under two keys of a KeyValueStore.
type StateRepository struct {
	store KeyValueStore
}

// NewStateRepository returns a repository over store.
func NewStateRepository(store KeyValueStore) *StateRepository {
	return &StateRepository{store: store}
}

// Load reads both keys. found is false when no class list was ever saved.
func (r *StateRepository) Load(ctx context.Context) ([]byte, string, bool, error) {
	data, found, err := r.store.Get(ctx, DataKey)
	if err != nil {
		return nil, "", false, errors.Wrap(err, "load class data")
	}
	if !found {
		return nil, "", false, nil
	}
	last, _, err := r.store.Get(ctx, LastSelectedKey)
	if err != nil {
		return nil, "", false, errors.Wrap(err, "load last selected class")
	}
	return []byte(data), last, true, nil
}

// Save writes payload together with the selected class name. An empty name
// deletes the stored selection.
func (r *StateRepository) Save(ctx context.Context, payload []byte, lastSelected string) error {
	pairs := map[string]string{DataKey: string(payload)}
	if lastSelected != "" {
		pairs[LastSelectedKey] = lastSelected
	}
	if err := r.store.SetMany(ctx, pairs); err != nil {
		return errors.Wrap(err, "save class data")
	}
	if lastSelected == "" {
		return errors.Wrap(r.store.Delete(ctx, LastSelectedKey), "clear last selected class")
	}
	return nil
}

// Backup copies payload to BackupKey, replacing any earlier backup.
func (r *StateRepository) Backup(ctx context.Context, payload []byte) error {
	return errors.Wrap(r.store.SetMany(ctx, map[string]string{BackupKey: string(payload)}), "back up class data")
}

// Clear removes both keys.
func (r *StateRepository) Clear(ctx context.Context) error {
	return errors.Wrap(r.store.Delete(ctx, DataKey, LastSelectedKey), "clear class data")
}
