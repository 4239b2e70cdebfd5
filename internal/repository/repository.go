// Package repository is the single gateway UI code talks to. It mediates
// between the photo/journal stores and the photo file layout, enforces the
// 1:1 photo/journal invariant, and republishes every data change to watchers.
package repository

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/AndrewOchs/TravelLog/internal/domain"
	"github.com/AndrewOchs/TravelLog/internal/imaging"
	"github.com/AndrewOchs/TravelLog/internal/photofiles"
	"github.com/AndrewOchs/TravelLog/internal/watch"
)

// photoRepository is the subset of store.PhotoStore the facade requires.
type photoRepository interface {
	Insert(ctx context.Context, photo *domain.Photo) (int64, error)
	UpdateCity(ctx context.Context, id int64, cityName string) error
	DeleteByID(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Photo, error)
	ListAll(ctx context.Context) ([]*domain.Photo, error)
	ListByState(ctx context.Context, stateCode string) ([]*domain.Photo, error)
	ListByCity(ctx context.Context, cityName string) ([]*domain.Photo, error)
	ListByStateAndCity(ctx context.Context, stateCode, cityName string) ([]*domain.Photo, error)
	Count(ctx context.Context) (int, error)
	CountByState(ctx context.Context, stateCode string) (int, error)
	CountByCity(ctx context.Context, cityName string) (int, error)
	ListStates(ctx context.Context) ([]domain.StateInfo, error)
	ListCitiesByState(ctx context.Context, stateCode string) ([]string, error)
	StatePhotoCounts(ctx context.Context) ([]domain.StatePhotoCount, error)
	CityPhotoCountsByState(ctx context.Context, stateCode string) ([]domain.CityPhotoCount, error)
	AllCityPhotoCounts(ctx context.Context) ([]domain.CityPhotoCount, error)
}

// journalRepository is the subset of store.JournalStore the facade requires.
type journalRepository interface {
	Insert(ctx context.Context, entry *domain.JournalEntry) (int64, error)
	Update(ctx context.Context, entry *domain.JournalEntry) error
	DeleteByID(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.JournalEntry, error)
	ListByPhotoID(ctx context.Context, photoID int64) ([]*domain.JournalEntry, error)
	GetByPhotoID(ctx context.Context, photoID int64) (*domain.JournalEntry, error)
	ListAll(ctx context.Context) ([]*domain.JournalEntry, error)
	Count(ctx context.Context) (int, error)
	PhotoIDsWithJournal(ctx context.Context) (map[int64]bool, error)
}

type Repository struct {
	photos   photoRepository
	journals journalRepository
	files    *photofiles.Store
	hub      *watch.Hub
	logger   *slog.Logger

	// Serializes SaveJournal's read-modify-write per photo id. Without it,
	// two concurrent saves for the same photo can both observe "no entry"
	// and both insert, breaking the 1:1 invariant. Entries are never
	// evicted; one mutex per journaled photo is negligible on-device.
	journalMu sync.Mutex
	journalLk map[int64]*sync.Mutex
}

func New(photos photoRepository, journals journalRepository, files *photofiles.Store, logger *slog.Logger) *Repository {
	return &Repository{
		photos:    photos,
		journals:  journals,
		files:     files,
		hub:       watch.NewHub(),
		logger:    logger,
		journalLk: make(map[int64]*sync.Mutex),
	}
}

// SavePhoto copies the source image into the state/city layout, generates a
// thumbnail, and inserts the metadata row. No row is written when the file
// copy fails, and copied files are removed when the insert fails.
func (r *Repository) SavePhoto(ctx context.Context, sourcePath, stateCode, stateName, cityName string, capturedAt time.Time) (int64, error) {
	city := strings.TrimSpace(cityName)

	r.logger.Info("saving photo",
		"source", sourcePath, "state", stateCode, "city", city, "captured_at", capturedAt)

	src, err := os.Open(sourcePath)
	if err != nil {
		return 0, fmt.Errorf("failed to open source image %s: %w", sourcePath, err)
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			r.logger.Error("failed to close source image", "error", cerr)
		}
	}()

	photoPath, thumbPath, err := r.files.Ingest(ctx, src, stateCode, city)
	if err != nil {
		return 0, fmt.Errorf("failed to copy photo into storage: %w", err)
	}

	if err := imaging.WriteThumbnail(photoPath, thumbPath, imaging.DefaultMaxDim); err != nil {
		// Source may be in a format the decoder doesn't know; keep the
		// full-size copy as the thumbnail like the gallery expects.
		r.logger.Warn("thumbnail generation failed, copying full image", "photo", photoPath, "error", err)
		if cerr := imaging.Copy(photoPath, thumbPath); cerr != nil {
			r.removeFiles(ctx, photoPath)
			return 0, fmt.Errorf("failed to write thumbnail: %w", cerr)
		}
	}

	photo := &domain.Photo{
		URI:          photoPath,
		StateCode:    stateCode,
		StateName:    stateName,
		CityName:     city,
		CapturedDate: capturedAt.UnixMilli(),
		AddedDate:    time.Now().UnixMilli(),
		ThumbnailURI: thumbPath,
	}

	id, err := r.photos.Insert(ctx, photo)
	if err != nil {
		r.removeFiles(ctx, photoPath, thumbPath)
		return 0, fmt.Errorf("failed to insert photo record: %w", err)
	}

	r.logger.Info("photo saved", "photo_id", id, "uri", photoPath)
	r.hub.Notify()
	return id, nil
}

// SaveJournal creates the photo's journal entry on first save and updates it
// on every save after that, preserving the entry id and created timestamp.
func (r *Repository) SaveJournal(ctx context.Context, photoID int64, text string) (int64, error) {
	lk := r.journalLock(photoID)
	lk.Lock()
	defer lk.Unlock()

	entries, err := r.journals.ListByPhotoID(ctx, photoID)
	if err != nil {
		return 0, fmt.Errorf("failed to look up journal for photo %d: %w", photoID, err)
	}

	now := time.Now().UnixMilli()
	var id int64
	if len(entries) > 0 {
		// 1:1 invariant: the newest entry is "the" entry even if a
		// store-level anomaly left more than one.
		entry := entries[0]
		entry.EntryText = text
		entry.UpdatedDate = now
		if err := r.journals.Update(ctx, entry); err != nil {
			return 0, fmt.Errorf("failed to update journal entry %d: %w", entry.ID, err)
		}
		id = entry.ID
	} else {
		id, err = r.journals.Insert(ctx, &domain.JournalEntry{
			PhotoID:     photoID,
			EntryText:   text,
			CreatedDate: now,
			UpdatedDate: now,
		})
		if err != nil {
			return 0, fmt.Errorf("failed to insert journal entry for photo %d: %w", photoID, err)
		}
	}

	r.hub.Notify()
	return id, nil
}

// DeleteJournal removes an entry by id. Absent ids are a successful no-op.
func (r *Repository) DeleteJournal(ctx context.Context, journalID int64) error {
	if err := r.journals.DeleteByID(ctx, journalID); err != nil {
		return err
	}
	r.hub.Notify()
	return nil
}

// DeletePhoto removes the photo row (the store cascades the journal entry
// away) and then best-effort deletes the backing files. File cleanup never
// fails the operation; a second delete of the same id is a no-op.
func (r *Repository) DeletePhoto(ctx context.Context, photoID int64) error {
	photo, err := r.photos.GetByID(ctx, photoID)
	if err != nil {
		return fmt.Errorf("failed to look up photo %d: %w", photoID, err)
	}
	if photo == nil {
		return nil
	}

	if err := r.photos.DeleteByID(ctx, photoID); err != nil {
		return err
	}

	r.removeFiles(ctx, photo.URI, photo.ThumbnailURI)

	r.logger.Info("photo deleted", "photo_id", photoID)
	r.hub.Notify()
	return nil
}

// UpdatePhotoCity changes the photo's city. The backing files stay in the
// directory for the city at ingestion time; file layout is advisory only.
func (r *Repository) UpdatePhotoCity(ctx context.Context, photoID int64, newCity string) error {
	city := strings.TrimSpace(newCity)
	if city == "" {
		return fmt.Errorf("city name must not be empty")
	}

	if err := r.photos.UpdateCity(ctx, photoID, city); err != nil {
		return err
	}

	r.hub.Notify()
	return nil
}

func (r *Repository) journalLock(photoID int64) *sync.Mutex {
	r.journalMu.Lock()
	defer r.journalMu.Unlock()
	lk, ok := r.journalLk[photoID]
	if !ok {
		lk = &sync.Mutex{}
		r.journalLk[photoID] = lk
	}
	return lk
}

func (r *Repository) removeFiles(ctx context.Context, paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := r.files.Remove(ctx, p); err != nil {
			r.logger.Error("failed to delete photo file", "path", p, "error", err)
		}
	}
}
