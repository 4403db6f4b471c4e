package usecase

import (
	"github.com/dustin/go-humanize"

	"github.com/phoenixsheppard28/vendorcafe-csv/internal/invoice/entity"
)

// Options tune the aggregation engine.
type Options struct {
	Column         string
	CurrencySymbol string
	StrictColumn   bool
}

// FileInfo describes the held file without its content.
type FileInfo struct {
	Name      string
	Size      int64
	SizeLabel string
	MediaType string
}

// Snapshot is the widget state as the page renders it.
type Snapshot struct {
	SessionID    string
	File         *FileInfo
	CanAggregate bool
	SummaryOpen  bool
	Result       *entity.AggregationResult
	LastError    string
}

// sizeLabel renders a byte count as kilobytes with one decimal ("12.3 KB").
func sizeLabel(size int64) string {
	if size < 0 {
		size = 0
	}
	return humanize.FormatFloat("#.#", float64(size)/1024) + " KB"
}

func newSnapshot(s entity.Session) Snapshot {
	snap := Snapshot{
		SessionID:   s.ID,
		SummaryOpen: s.SummaryOpen,
		LastError:   s.LastError,
	}

	if f, ok := s.Intake.Held(); ok {
		snap.File = &FileInfo{
			Name:      f.Name,
			Size:      f.Size,
			SizeLabel: sizeLabel(f.Size),
			MediaType: f.MediaType,
		}
		snap.CanAggregate = true
	}

	if s.Result != nil {
		res := *s.Result
		snap.Result = &res
	}

	return snap
}
