package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndrewOchs/TravelLog/internal/domain"
)

func insertTestPhoto(t *testing.T, photos *PhotoStore) int64 {
	t.Helper()
	id, err := photos.Insert(context.Background(), testPhoto("TX", "Texas", "Austin", 1))
	require.NoError(t, err)
	return id
}

func TestJournalStoreInsertAndGet(t *testing.T) {
	d := openTestDB(t)
	photos := NewPhotoStore(d)
	journals := NewJournalStore(d)
	ctx := context.Background()

	photoID := insertTestPhoto(t, photos)

	id, err := journals.Insert(ctx, &domain.JournalEntry{
		PhotoID:     photoID,
		EntryText:   "Great trip",
		CreatedDate: 1000,
		UpdatedDate: 1000,
	})
	require.NoError(t, err)
	assert.NotZero(t, id)

	entry, err := journals.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, photoID, entry.PhotoID)
	assert.Equal(t, "Great trip", entry.EntryText)
	assert.EqualValues(t, 1000, entry.CreatedDate)
}

func TestJournalStoreGetByID_NotFound(t *testing.T) {
	d := openTestDB(t)
	journals := NewJournalStore(d)

	entry, err := journals.GetByID(context.Background(), 4242)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestJournalStoreUpdate(t *testing.T) {
	d := openTestDB(t)
	photos := NewPhotoStore(d)
	journals := NewJournalStore(d)
	ctx := context.Background()

	photoID := insertTestPhoto(t, photos)
	id, err := journals.Insert(ctx, &domain.JournalEntry{PhotoID: photoID, EntryText: "v1", CreatedDate: 1, UpdatedDate: 1})
	require.NoError(t, err)

	err = journals.Update(ctx, &domain.JournalEntry{ID: id, PhotoID: photoID, EntryText: "v2", CreatedDate: 1, UpdatedDate: 2})
	require.NoError(t, err)

	entry, err := journals.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "v2", entry.EntryText)
	assert.EqualValues(t, 1, entry.CreatedDate)
	assert.EqualValues(t, 2, entry.UpdatedDate)
}

func TestJournalStoreDeleteByID_Idempotent(t *testing.T) {
	d := openTestDB(t)
	photos := NewPhotoStore(d)
	journals := NewJournalStore(d)
	ctx := context.Background()

	photoID := insertTestPhoto(t, photos)
	id, err := journals.Insert(ctx, &domain.JournalEntry{PhotoID: photoID, EntryText: "x", CreatedDate: 1, UpdatedDate: 1})
	require.NoError(t, err)

	require.NoError(t, journals.DeleteByID(ctx, id))
	assert.NoError(t, journals.DeleteByID(ctx, id))
}

func TestJournalStoreGetByPhotoID_PicksNewestWhenDuplicated(t *testing.T) {
	d := openTestDB(t)
	photos := NewPhotoStore(d)
	journals := NewJournalStore(d)
	ctx := context.Background()

	photoID := insertTestPhoto(t, photos)

	// The schema permits duplicates; simulate the store-level anomaly.
	_, err := journals.Insert(ctx, &domain.JournalEntry{PhotoID: photoID, EntryText: "old", CreatedDate: 100, UpdatedDate: 100})
	require.NoError(t, err)
	_, err = journals.Insert(ctx, &domain.JournalEntry{PhotoID: photoID, EntryText: "new", CreatedDate: 200, UpdatedDate: 200})
	require.NoError(t, err)

	entry, err := journals.GetByPhotoID(ctx, photoID)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "new", entry.EntryText)

	all, err := journals.ListByPhotoID(ctx, photoID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestJournalStoreGetByPhotoID_NoEntry(t *testing.T) {
	d := openTestDB(t)
	photos := NewPhotoStore(d)
	journals := NewJournalStore(d)

	photoID := insertTestPhoto(t, photos)

	entry, err := journals.GetByPhotoID(context.Background(), photoID)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestJournalStoreDeleteByPhotoID(t *testing.T) {
	d := openTestDB(t)
	photos := NewPhotoStore(d)
	journals := NewJournalStore(d)
	ctx := context.Background()

	photoID := insertTestPhoto(t, photos)
	_, err := journals.Insert(ctx, &domain.JournalEntry{PhotoID: photoID, EntryText: "a", CreatedDate: 1, UpdatedDate: 1})
	require.NoError(t, err)
	_, err = journals.Insert(ctx, &domain.JournalEntry{PhotoID: photoID, EntryText: "b", CreatedDate: 2, UpdatedDate: 2})
	require.NoError(t, err)

	require.NoError(t, journals.DeleteByPhotoID(ctx, photoID))

	n, err := journals.CountByPhotoID(ctx, photoID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestJournalStorePhotoIDsWithJournal(t *testing.T) {
	d := openTestDB(t)
	photos := NewPhotoStore(d)
	journals := NewJournalStore(d)
	ctx := context.Background()

	withJournal := insertTestPhoto(t, photos)
	without := insertTestPhoto(t, photos)

	_, err := journals.Insert(ctx, &domain.JournalEntry{PhotoID: withJournal, EntryText: "x", CreatedDate: 1, UpdatedDate: 1})
	require.NoError(t, err)

	ids, err := journals.PhotoIDsWithJournal(ctx)
	require.NoError(t, err)
	assert.True(t, ids[withJournal])
	assert.False(t, ids[without])
}

func TestJournalStoreCascadeDeleteWithPhoto(t *testing.T) {
	d := openTestDB(t)
	photos := NewPhotoStore(d)
	journals := NewJournalStore(d)
	ctx := context.Background()

	photoID := insertTestPhoto(t, photos)
	journalID, err := journals.Insert(ctx, &domain.JournalEntry{PhotoID: photoID, EntryText: "x", CreatedDate: 1, UpdatedDate: 1})
	require.NoError(t, err)

	require.NoError(t, photos.DeleteByID(ctx, photoID))

	entry, err := journals.GetByID(ctx, journalID)
	require.NoError(t, err)
	assert.Nil(t, entry)

	byPhoto, err := journals.GetByPhotoID(ctx, photoID)
	require.NoError(t, err)
	assert.Nil(t, byPhoto)
}
