package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AndrewOchs/TravelLog/internal/domain"
)

const journalColumns = "id, photo_id, entry_text, created_date, updated_date"

// JournalStore persists free-text journal entries. The schema allows
// multiple rows per photo id; the repository keeps the relationship 1:1.
type JournalStore struct {
	db *sql.DB
}

func NewJournalStore(db *sql.DB) *JournalStore {
	return &JournalStore{db: db}
}

// Insert adds an entry and returns its assigned id.
func (s *JournalStore) Insert(ctx context.Context, entry *domain.JournalEntry) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO journal_entries (photo_id, entry_text, created_date, updated_date)
		VALUES (?, ?, ?, ?)
	`, entry.PhotoID, entry.EntryText, entry.CreatedDate, entry.UpdatedDate)
	if err != nil {
		return 0, fmt.Errorf("failed to insert journal entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return id, nil
}

// Update overwrites the row matching entry.ID; silent no-op when absent.
func (s *JournalStore) Update(ctx context.Context, entry *domain.JournalEntry) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE journal_entries SET photo_id = ?, entry_text = ?, created_date = ?, updated_date = ?
		WHERE id = ?
	`, entry.PhotoID, entry.EntryText, entry.CreatedDate, entry.UpdatedDate, entry.ID)
	if err != nil {
		return fmt.Errorf("failed to update journal entry: %w", err)
	}
	return nil
}

// DeleteByID removes the entry. Absent ids are a no-op.
func (s *JournalStore) DeleteByID(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM journal_entries WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete journal entry: %w", err)
	}
	return nil
}

// DeleteByPhotoID removes every entry owned by a photo.
func (s *JournalStore) DeleteByPhotoID(ctx context.Context, photoID int64) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM journal_entries WHERE photo_id = ?
	`, photoID)
	if err != nil {
		return fmt.Errorf("failed to delete journal entries for photo: %w", err)
	}
	return nil
}

// GetByID returns the entry or nil when absent.
func (s *JournalStore) GetByID(ctx context.Context, id int64) (*domain.JournalEntry, error) {
	entry := &domain.JournalEntry{}
	err := s.db.QueryRowContext(ctx, `
		SELECT `+journalColumns+` FROM journal_entries WHERE id = ?
	`, id).Scan(&entry.ID, &entry.PhotoID, &entry.EntryText, &entry.CreatedDate, &entry.UpdatedDate)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get journal entry: %w", err)
	}

	return entry, nil
}

// ListByPhotoID returns every entry for a photo, newest created first with id
// as tiebreak. Under the 1:1 invariant the first element is "the" entry;
// ordering here is what makes the pick deterministic if duplicates ever
// slipped in.
func (s *JournalStore) ListByPhotoID(ctx context.Context, photoID int64) ([]*domain.JournalEntry, error) {
	return s.listEntries(ctx, `
		SELECT `+journalColumns+` FROM journal_entries
		WHERE photo_id = ? ORDER BY created_date DESC, id DESC
	`, photoID)
}

// GetByPhotoID returns the photo's entry under the 1:1 invariant, or nil when
// the photo has none.
func (s *JournalStore) GetByPhotoID(ctx context.Context, photoID int64) (*domain.JournalEntry, error) {
	entries, err := s.ListByPhotoID(ctx, photoID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return entries[0], nil
}

// ListAll returns every entry, newest created first.
func (s *JournalStore) ListAll(ctx context.Context) ([]*domain.JournalEntry, error) {
	return s.listEntries(ctx, `
		SELECT `+journalColumns+` FROM journal_entries ORDER BY created_date DESC, id DESC
	`)
}

func (s *JournalStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM journal_entries").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count journal entries: %w", err)
	}
	return n, nil
}

func (s *JournalStore) CountByPhotoID(ctx context.Context, photoID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM journal_entries WHERE photo_id = ?", photoID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count journal entries for photo: %w", err)
	}
	return n, nil
}

// PhotoIDsWithJournal returns the set of photo ids that have at least one
// entry. Bulk existence check so list views avoid a lookup per photo.
func (s *JournalStore) PhotoIDsWithJournal(ctx context.Context) (map[int64]bool, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT photo_id FROM journal_entries
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query photo ids with journals: %w", err)
	}
	defer closeRows(rows)

	ids := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan photo id: %w", err)
		}
		ids[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating photo ids: %w", err)
	}
	return ids, nil
}

func (s *JournalStore) listEntries(ctx context.Context, query string, args ...any) ([]*domain.JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer closeRows(rows)

	var entries []*domain.JournalEntry
	for rows.Next() {
		entry := &domain.JournalEntry{}
		if err := rows.Scan(&entry.ID, &entry.PhotoID, &entry.EntryText, &entry.CreatedDate, &entry.UpdatedDate); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal entries: %w", err)
	}
	return entries, nil
}
