package workbench

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/miaoxn/soliditytool/internal/logsink"
	"github.com/miaoxn/soliditytool/internal/storage"
)

// Save stores the current contract. The active record is updated in place;
// otherwise a new record is created and becomes active.
func (w *Workbench) Save(ctx context.Context) (*storage.SavedContract, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.address == "" || strings.TrimSpace(w.abiText) == "" {
		w.log(logsink.Error, "Address and ABI required")
		return nil, ErrIncomplete
	}
	if w.store == nil {
		return nil, ErrNoStore
	}

	record := &storage.SavedContract{
		ID:        w.activeID,
		Name:      w.name,
		Address:   w.address,
		ABI:       w.abiText,
		CreatedAt: w.now().UnixMilli(),
		Notes:     copyNotes(w.notes),
	}
	if strings.TrimSpace(record.Name) == "" {
		record.Name = UntitledName
	}
	if w.chain != nil {
		record.NetworkID = w.chain.ChainID()
	}

	updating := record.ID != ""
	if !updating {
		record.ID = w.newID()
	}

	if err := w.store.SaveContract(ctx, record); err != nil {
		w.log(logsink.Error, fmt.Sprintf("Save failed: %v", err))
		return nil, fmt.Errorf("failed to save contract: %w", err)
	}

	if updating {
		w.log(logsink.Success, fmt.Sprintf("Updated: %s", record.Name))
	} else {
		w.log(logsink.Success, fmt.Sprintf("Saved: %s", record.Name))
		w.activeID = record.ID
	}
	w.logger.Debug("Contract saved", zap.String("id", record.ID), zap.Bool("update", updating))
	return record, nil
}

// Load makes a saved record the active one.
func (w *Workbench) Load(ctx context.Context, id string) (*storage.SavedContract, error) {
	if w.store == nil {
		return nil, ErrNoStore
	}
	record, err := w.store.GetContract(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load contract %s: %w", id, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.name = record.Name
	w.address = record.Address
	w.abiText = record.ABI
	w.notes = copyNotes(record.Notes)
	w.activeID = record.ID
	if err := w.reparse(); err != nil {
		w.logger.Warn("Saved ABI does not parse", zap.String("id", record.ID), zap.Error(err))
	}

	w.log(logsink.Info, fmt.Sprintf("Loaded: %s", record.Name))
	return record, nil
}

// Delete removes a saved record. Deleting the active record resets the
// workbench to its initial state.
func (w *Workbench) Delete(ctx context.Context, id string) error {
	if w.store == nil {
		return ErrNoStore
	}
	if err := w.store.DeleteContract(ctx, id); err != nil {
		return fmt.Errorf("failed to delete contract %s: %w", id, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.activeID == id {
		w.activeID = ""
		w.name = DefaultName
		w.address = ""
		w.abiText = ""
		w.notes = make(map[string]string)
		_ = w.reparse()
	}
	return nil
}

// SetNote sets the note of a function. An empty note removes it. When a
// saved record is active the note is persisted right away, without touching
// the record's other fields.
func (w *Workbench) SetNote(ctx context.Context, fn, text string) error {
	w.mu.Lock()
	if text == "" {
		delete(w.notes, fn)
	} else {
		w.notes[fn] = text
	}
	activeID := w.activeID
	notes := copyNotes(w.notes)
	w.mu.Unlock()

	if activeID == "" || w.store == nil {
		return nil
	}

	record, err := w.store.GetContract(ctx, activeID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to persist note: %w", err)
	}
	record.Notes = notes
	if err := w.store.SaveContract(ctx, record); err != nil {
		return fmt.Errorf("failed to persist note: %w", err)
	}
	return nil
}
