package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/AndrewOchs/TravelLog/internal/domain"
	"github.com/AndrewOchs/TravelLog/internal/watch"
)

// Snapshot reads. Each has a Watch counterpart below that re-emits after
// every write.

func (r *Repository) Photos(ctx context.Context) ([]*domain.Photo, error) {
	return r.photos.ListAll(ctx)
}

func (r *Repository) PhotoByID(ctx context.Context, id int64) (*domain.Photo, error) {
	return r.photos.GetByID(ctx, id)
}

func (r *Repository) PhotosByState(ctx context.Context, stateCode string) ([]*domain.Photo, error) {
	return r.photos.ListByState(ctx, stateCode)
}

func (r *Repository) PhotosByCity(ctx context.Context, cityName string) ([]*domain.Photo, error) {
	return r.photos.ListByCity(ctx, trimCity(cityName))
}

func (r *Repository) PhotosByStateAndCity(ctx context.Context, stateCode, cityName string) ([]*domain.Photo, error) {
	return r.photos.ListByStateAndCity(ctx, stateCode, trimCity(cityName))
}

func (r *Repository) PhotoCount(ctx context.Context) (int, error) {
	return r.photos.Count(ctx)
}

func (r *Repository) PhotoCountByState(ctx context.Context, stateCode string) (int, error) {
	return r.photos.CountByState(ctx, stateCode)
}

func (r *Repository) PhotoCountByCity(ctx context.Context, cityName string) (int, error) {
	return r.photos.CountByCity(ctx, trimCity(cityName))
}

func (r *Repository) States(ctx context.Context) ([]domain.StateInfo, error) {
	return r.photos.ListStates(ctx)
}

func (r *Repository) CitiesByState(ctx context.Context, stateCode string) ([]string, error) {
	return r.photos.ListCitiesByState(ctx, stateCode)
}

func (r *Repository) StatePhotoCounts(ctx context.Context) ([]domain.StatePhotoCount, error) {
	return r.photos.StatePhotoCounts(ctx)
}

func (r *Repository) CityPhotoCounts(ctx context.Context, stateCode string) ([]domain.CityPhotoCount, error) {
	return r.photos.CityPhotoCountsByState(ctx, stateCode)
}

func (r *Repository) AllCityPhotoCounts(ctx context.Context) ([]domain.CityPhotoCount, error) {
	return r.photos.AllCityPhotoCounts(ctx)
}

func (r *Repository) JournalByID(ctx context.Context, id int64) (*domain.JournalEntry, error) {
	return r.journals.GetByID(ctx, id)
}

func (r *Repository) JournalByPhotoID(ctx context.Context, photoID int64) (*domain.JournalEntry, error) {
	return r.journals.GetByPhotoID(ctx, photoID)
}

func (r *Repository) Journals(ctx context.Context) ([]*domain.JournalEntry, error) {
	return r.journals.ListAll(ctx)
}

func (r *Repository) JournalCount(ctx context.Context) (int, error) {
	return r.journals.Count(ctx)
}

func (r *Repository) PhotoIDsWithJournal(ctx context.Context) (map[int64]bool, error) {
	return r.journals.PhotoIDsWithJournal(ctx)
}

// PhotosWithJournalInfo returns every photo, newest captured first, paired
// with its journal existence flag using one bulk lookup instead of a query
// per photo.
func (r *Repository) PhotosWithJournalInfo(ctx context.Context) ([]domain.PhotoWithJournalInfo, error) {
	photos, err := r.photos.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	withJournal, err := r.journals.PhotoIDsWithJournal(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load journal flags: %w", err)
	}

	infos := make([]domain.PhotoWithJournalInfo, 0, len(photos))
	for _, p := range photos {
		infos = append(infos, domain.PhotoWithJournalInfo{Photo: p, HasJournal: withJournal[p.ID]})
	}
	return infos, nil
}

// Watch variants: continuously-updated sequences that emit a fresh snapshot
// immediately and again after every repository write. Channels close when
// ctx is cancelled.

func (r *Repository) WatchPhotos(ctx context.Context) <-chan []*domain.Photo {
	return watch.Observe(ctx, r.hub, r.Photos)
}

func (r *Repository) WatchPhotoByID(ctx context.Context, id int64) <-chan *domain.Photo {
	return watch.Observe(ctx, r.hub, func(ctx context.Context) (*domain.Photo, error) {
		return r.PhotoByID(ctx, id)
	})
}

func (r *Repository) WatchPhotosByState(ctx context.Context, stateCode string) <-chan []*domain.Photo {
	return watch.Observe(ctx, r.hub, func(ctx context.Context) ([]*domain.Photo, error) {
		return r.PhotosByState(ctx, stateCode)
	})
}

func (r *Repository) WatchJournalByPhotoID(ctx context.Context, photoID int64) <-chan *domain.JournalEntry {
	return watch.Observe(ctx, r.hub, func(ctx context.Context) (*domain.JournalEntry, error) {
		return r.JournalByPhotoID(ctx, photoID)
	})
}

func (r *Repository) WatchStatePhotoCounts(ctx context.Context) <-chan []domain.StatePhotoCount {
	return watch.Observe(ctx, r.hub, r.StatePhotoCounts)
}

func (r *Repository) WatchCityPhotoCounts(ctx context.Context, stateCode string) <-chan []domain.CityPhotoCount {
	return watch.Observe(ctx, r.hub, func(ctx context.Context) ([]domain.CityPhotoCount, error) {
		return r.CityPhotoCounts(ctx, stateCode)
	})
}

func (r *Repository) WatchPhotoIDsWithJournal(ctx context.Context) <-chan map[int64]bool {
	return watch.Observe(ctx, r.hub, r.PhotoIDsWithJournal)
}

func (r *Repository) WatchPhotosWithJournalInfo(ctx context.Context) <-chan []domain.PhotoWithJournalInfo {
	return watch.Observe(ctx, r.hub, r.PhotosWithJournalInfo)
}

func trimCity(cityName string) string {
	return strings.TrimSpace(cityName)
}
