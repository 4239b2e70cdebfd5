package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/AndrewOchs/TravelLog/internal/domain"
)

const photoColumns = "id, uri, state_code, state_name, city_name, latitude, longitude, captured_date, added_date, thumbnail_uri"

// PhotoStore persists photo metadata rows. City-name filters and groupings
// trim whitespace in SQL so that rows written before write-time normalization
// existed still land in the right bucket.
type PhotoStore struct {
	db *sql.DB
}

func NewPhotoStore(db *sql.DB) *PhotoStore {
	return &PhotoStore{db: db}
}

// Insert adds a photo row and returns its assigned id. When photo.ID is
// non-zero the row replaces any existing row with that id (controlled
// re-insert only, not the normal flow).
func (s *PhotoStore) Insert(ctx context.Context, photo *domain.Photo) (int64, error) {
	var (
		result sql.Result
		err    error
	)
	if photo.ID != 0 {
		result, err = s.db.ExecContext(ctx, `
			INSERT OR REPLACE INTO photos (id, uri, state_code, state_name, city_name, latitude, longitude, captured_date, added_date, thumbnail_uri)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, photo.ID, photo.URI, photo.StateCode, photo.StateName, photo.CityName,
			photo.Latitude, photo.Longitude, photo.CapturedDate, photo.AddedDate, photo.ThumbnailURI)
	} else {
		result, err = s.db.ExecContext(ctx, `
			INSERT INTO photos (uri, state_code, state_name, city_name, latitude, longitude, captured_date, added_date, thumbnail_uri)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, photo.URI, photo.StateCode, photo.StateName, photo.CityName,
			photo.Latitude, photo.Longitude, photo.CapturedDate, photo.AddedDate, photo.ThumbnailURI)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert photo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return id, nil
}

// Update overwrites the row matching photo.ID. Updating an absent id is a
// silent no-op; callers must ensure the id is valid.
func (s *PhotoStore) Update(ctx context.Context, photo *domain.Photo) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE photos SET uri = ?, state_code = ?, state_name = ?, city_name = ?, latitude = ?, longitude = ?, captured_date = ?, added_date = ?, thumbnail_uri = ?
		WHERE id = ?
	`, photo.URI, photo.StateCode, photo.StateName, photo.CityName,
		photo.Latitude, photo.Longitude, photo.CapturedDate, photo.AddedDate, photo.ThumbnailURI, photo.ID)
	if err != nil {
		return fmt.Errorf("failed to update photo: %w", err)
	}
	return nil
}

// UpdateCity updates only the city_name column. File layout is not touched.
func (s *PhotoStore) UpdateCity(ctx context.Context, id int64, cityName string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE photos SET city_name = ? WHERE id = ?
	`, cityName, id)
	if err != nil {
		return fmt.Errorf("failed to update photo city: %w", err)
	}
	return nil
}

// DeleteByID removes the row. Deleting an absent id is a no-op, not an error.
// Foreign keys cascade the delete to the photo's journal entries.
func (s *PhotoStore) DeleteByID(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM photos WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return nil
}

// GetByID returns the photo or nil when the id does not exist.
func (s *PhotoStore) GetByID(ctx context.Context, id int64) (*domain.Photo, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+photoColumns+` FROM photos WHERE id = ?
	`, id)
	photo, err := scanPhoto(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	return photo, nil
}

// ListAll returns every photo, newest captured first.
func (s *PhotoStore) ListAll(ctx context.Context) ([]*domain.Photo, error) {
	return s.listPhotos(ctx, `
		SELECT `+photoColumns+` FROM photos ORDER BY captured_date DESC
	`)
}

// ListByState returns photos for one state code, newest captured first.
func (s *PhotoStore) ListByState(ctx context.Context, stateCode string) ([]*domain.Photo, error) {
	return s.listPhotos(ctx, `
		SELECT `+photoColumns+` FROM photos WHERE state_code = ? ORDER BY captured_date DESC
	`, stateCode)
}

// ListByCity returns photos whose trimmed city name matches cityName.
func (s *PhotoStore) ListByCity(ctx context.Context, cityName string) ([]*domain.Photo, error) {
	return s.listPhotos(ctx, `
		SELECT `+photoColumns+` FROM photos WHERE TRIM(city_name) = ? ORDER BY captured_date DESC
	`, cityName)
}

// ListByStateAndCity returns photos matching both the state code and the
// trimmed city name.
func (s *PhotoStore) ListByStateAndCity(ctx context.Context, stateCode, cityName string) ([]*domain.Photo, error) {
	return s.listPhotos(ctx, `
		SELECT `+photoColumns+` FROM photos WHERE state_code = ? AND TRIM(city_name) = ? ORDER BY captured_date DESC
	`, stateCode, cityName)
}

func (s *PhotoStore) Count(ctx context.Context) (int, error) {
	return s.countQuery(ctx, "SELECT COUNT(*) FROM photos")
}

func (s *PhotoStore) CountByState(ctx context.Context, stateCode string) (int, error) {
	return s.countQuery(ctx, "SELECT COUNT(*) FROM photos WHERE state_code = ?", stateCode)
}

func (s *PhotoStore) CountByCity(ctx context.Context, cityName string) (int, error) {
	return s.countQuery(ctx, "SELECT COUNT(*) FROM photos WHERE TRIM(city_name) = ?", cityName)
}

// ListStates returns the distinct states that have at least one photo,
// ordered by state name.
func (s *PhotoStore) ListStates(ctx context.Context) ([]domain.StateInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT state_code, state_name FROM photos ORDER BY state_name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list states: %w", err)
	}
	defer closeRows(rows)

	var states []domain.StateInfo
	for rows.Next() {
		var si domain.StateInfo
		if err := rows.Scan(&si.StateCode, &si.StateName); err != nil {
			return nil, fmt.Errorf("failed to scan state: %w", err)
		}
		states = append(states, si)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating states: %w", err)
	}
	return states, nil
}

// ListCitiesByState returns the distinct trimmed city names within a state,
// ordered alphabetically.
func (s *PhotoStore) ListCitiesByState(ctx context.Context, stateCode string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT TRIM(city_name) FROM photos WHERE state_code = ? ORDER BY TRIM(city_name) ASC
	`, stateCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}
	defer closeRows(rows)

	var cities []string
	for rows.Next() {
		var city string
		if err := rows.Scan(&city); err != nil {
			return nil, fmt.Errorf("failed to scan city: %w", err)
		}
		cities = append(cities, city)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cities: %w", err)
	}
	return cities, nil
}

// StatePhotoCounts returns photo counts grouped by state, largest first.
// Drives the map view.
func (s *PhotoStore) StatePhotoCounts(ctx context.Context) ([]domain.StatePhotoCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT state_code, state_name, COUNT(*) AS photo_count
		FROM photos
		GROUP BY state_code, state_name
		ORDER BY photo_count DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query state photo counts: %w", err)
	}
	defer closeRows(rows)

	var counts []domain.StatePhotoCount
	for rows.Next() {
		var c domain.StatePhotoCount
		if err := rows.Scan(&c.StateCode, &c.StateName, &c.PhotoCount); err != nil {
			return nil, fmt.Errorf("failed to scan state photo count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating state photo counts: %w", err)
	}
	return counts, nil
}

// CityPhotoCountsByState returns photo counts for one state grouped by
// trimmed city name, largest first. Grouping on the raw column would split
// "Austin" and "Austin " into separate buckets.
func (s *PhotoStore) CityPhotoCountsByState(ctx context.Context, stateCode string) ([]domain.CityPhotoCount, error) {
	return s.cityCounts(ctx, `
		SELECT state_code, TRIM(city_name) AS city_name, COUNT(*) AS photo_count
		FROM photos
		WHERE state_code = ?
		GROUP BY TRIM(city_name)
		ORDER BY photo_count DESC
	`, stateCode)
}

// AllCityPhotoCounts returns photo counts grouped by (state, trimmed city),
// largest first.
func (s *PhotoStore) AllCityPhotoCounts(ctx context.Context) ([]domain.CityPhotoCount, error) {
	return s.cityCounts(ctx, `
		SELECT state_code, TRIM(city_name) AS city_name, COUNT(*) AS photo_count
		FROM photos
		GROUP BY state_code, TRIM(city_name)
		ORDER BY photo_count DESC
	`)
}

func (s *PhotoStore) cityCounts(ctx context.Context, query string, args ...any) ([]domain.CityPhotoCount, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query city photo counts: %w", err)
	}
	defer closeRows(rows)

	var counts []domain.CityPhotoCount
	for rows.Next() {
		var c domain.CityPhotoCount
		if err := rows.Scan(&c.StateCode, &c.CityName, &c.PhotoCount); err != nil {
			return nil, fmt.Errorf("failed to scan city photo count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating city photo counts: %w", err)
	}
	return counts, nil
}

func (s *PhotoStore) listPhotos(ctx context.Context, query string, args ...any) ([]*domain.Photo, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	defer closeRows(rows)

	var photos []*domain.Photo
	for rows.Next() {
		photo, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		photos = append(photos, photo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating photos: %w", err)
	}
	return photos, nil
}

func (s *PhotoStore) countQuery(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count photos: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPhoto(row rowScanner) (*domain.Photo, error) {
	photo := &domain.Photo{}
	err := row.Scan(&photo.ID, &photo.URI, &photo.StateCode, &photo.StateName, &photo.CityName,
		&photo.Latitude, &photo.Longitude, &photo.CapturedDate, &photo.AddedDate, &photo.ThumbnailURI)
	if err != nil {
		return nil, err
	}
	return photo, nil
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		slog.Error("failed to close rows", "error", err)
	}
}
