package entities

// Book is one entry of an account's library. BookID is assigned by the
// client and only unique within a library; ID is the row key.
type Book struct {
	ID           uint          `gorm:"primaryKey" json:"-"`
	AccountID    uint          `gorm:"index;not null" json:"-"`
	Position     int           `gorm:"not null" json:"-"`
	BookID       int64         `gorm:"not null" json:"id"`
	Title        string        `gorm:"size:1024" json:"title"`
	Author       string        `gorm:"size:512" json:"author"`
	CurrentPage  int           `json:"currentPage"`
	TotalPages   int           `json:"totalPages"`
	CoverBlobID  *string       `gorm:"size:64" json:"coverBlobId"` // nil means no cover
	DataBlobID   *string       `gorm:"size:64" json:"dataBlobId"`  // nil means no document
	LastReadPage int           `json:"lastReadPage"`
	AddTime      int64         `json:"addTime"`
	LastReadTime int64         `json:"lastReadTime"`
	Settings     *BookSettings `gorm:"serializer:json" json:"settings,omitempty"`
}

// BlobIDs returns the non-nil blob references of the book.
func (b Book) BlobIDs() []string {
	ids := make([]string, 0, 2)
	if b.CoverBlobID != nil && *b.CoverBlobID != "" {
		ids = append(ids, *b.CoverBlobID)
	}
	if b.DataBlobID != nil && *b.DataBlobID != "" {
		ids = append(ids, *b.DataBlobID)
	}
	return ids
}

// BookSettings are the reader's per-book display preferences. Every leaf
// is a pointer so an absent field stays absent and an explicit zero stays
// zero.
type BookSettings struct {
	Bionic           *BionicSettings    `json:"bionic,omitempty"`
	ReadAloud        *ReadAloudSettings `json:"readAloud,omitempty"`
	ReadingDirection *string            `json:"readingDirection,omitempty"`
	Scale            *float64           `json:"scale,omitempty"`
	ColorMode        *ColorModeSettings `json:"colorMode,omitempty"`
}

type BionicSettings struct {
	On                  *bool    `json:"on,omitempty"`
	HighlightSize       *float64 `json:"highlightSize,omitempty"`
	HighlightJump       *float64 `json:"highlightJump,omitempty"`
	HighlightMultiplier *float64 `json:"highlightMultiplier,omitempty"`
	LowlightOpacity     *float64 `json:"lowlightOpacity,omitempty"`
}

type ReadAloudSettings struct {
	On           *bool `json:"on,omitempty"`
	LocalAlways  *bool `json:"localAlways,omitempty"`
	PlayFullPage *bool `json:"playFullPage,omitempty"`
}

type ColorModeSettings struct {
	On   *bool   `json:"on,omitempty"`
	Mode *string `json:"mode,omitempty"`
}
