package domain

// Photo is one ingested image and its travel context. URI and ThumbnailURI
// are absolute paths into the app-private photo root. CapturedDate and
// AddedDate are epoch milliseconds.
type Photo struct {
	ID           int64
	URI          string
	StateCode    string
	StateName    string
	CityName     string
	Latitude     *float64
	Longitude    *float64
	CapturedDate int64
	AddedDate    int64
	ThumbnailURI string
}

// JournalEntry is a free-text note attached to exactly one photo. The store
// does not enforce the 1:1 relationship; the repository does.
type JournalEntry struct {
	ID          int64
	PhotoID     int64
	EntryText   string
	CreatedDate int64
	UpdatedDate int64
}

// StateInfo identifies a state without full photo details.
type StateInfo struct {
	StateCode string
	StateName string
}

// StatePhotoCount is the number of photos taken in one state.
type StatePhotoCount struct {
	StateCode  string
	StateName  string
	PhotoCount int
}

// CityPhotoCount is the number of photos taken in one city of a state.
// CityName is always trimmed, even when stored rows are not.
type CityPhotoCount struct {
	StateCode  string
	CityName   string
	PhotoCount int
}

// PhotoWithJournalInfo pairs a photo with its journal existence flag so list
// views don't need one journal lookup per photo.
type PhotoWithJournalInfo struct {
	Photo      *Photo
	HasJournal bool
}
