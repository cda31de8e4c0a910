package folio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// SyncCursor is the persisted resume point of the incremental activity sync.
// The watermark only advances after a fetch window has been merged, so a
// crash or a failed window replays from a safe point.
type SyncCursor struct {
	Watermark Date `json:"watermark"`
	Complete  bool `json:"complete"`
}

// Store persists the ledger blobs, the stock split registry and the sync
// cursor as JSON files under a single data directory. Blobs are loaded
// wholesale at sync start and rewritten wholesale at sync end; this is a
// snapshot, not an append log.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created on first
// save.
func NewStore(dir string) *Store { return &Store{dir: dir} }

const (
	tradesFile    = "trades.json"
	dividendsFile = "dividends.json"
	splitsFile    = "splits.json"
	cursorFile    = "cursor.json"
)

// LoadLedger restores the trade and dividend blobs and rebuilds the hash
// indices. A missing blob yields an empty collection: first runs start from
// nothing.
func (s *Store) LoadLedger() (*Ledger, error) {
	ledger := NewLedger()

	var trades []*Trade
	if err := s.readJSON(tradesFile, &trades); err != nil {
		return nil, err
	}
	for _, t := range trades {
		ledger.AddTrade(t)
	}

	var dividends []*Dividend
	if err := s.readJSON(dividendsFile, &dividends); err != nil {
		return nil, err
	}
	for _, d := range dividends {
		ledger.AddDividend(d)
	}
	return ledger, nil
}

// SaveLedger serializes the full in-memory collections back to the two blobs,
// overwriting the prior snapshot.
func (s *Store) SaveLedger(l *Ledger) error {
	if err := s.writeJSON(tradesFile, encodeRecords(l.Trades())); err != nil {
		return err
	}
	return s.writeJSON(dividendsFile, encodeRecords(l.Dividends()))
}

// LoadSplits restores the stock split registry; missing file means no splits.
func (s *Store) LoadSplits() ([]*StockSplit, error) {
	var splits []*StockSplit
	if err := s.readJSON(splitsFile, &splits); err != nil {
		return nil, err
	}
	return splits, nil
}

// SaveSplits writes the split registry back, preserving Applied flags.
func (s *Store) SaveSplits(splits []*StockSplit) error {
	return s.writeJSON(splitsFile, splits)
}

// LoadCursor restores the watermark cursor, or returns a cursor at the given
// origin date on first run.
func (s *Store) LoadCursor(origin Date) (SyncCursor, error) {
	var cursor SyncCursor
	if err := s.readJSON(cursorFile, &cursor); err != nil {
		return SyncCursor{}, err
	}
	if cursor.Watermark.IsZero() {
		cursor = SyncCursor{Watermark: origin}
	}
	return cursor, nil
}

// SaveCursor persists the watermark cursor.
func (s *Store) SaveCursor(c SyncCursor) error {
	return s.writeJSON(cursorFile, c)
}

// readJSON decodes one JSON file into v; a missing file is not an error.
func (s *Store) readJSON(name string, v any) error {
	content, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not read %s: %w", name, err)
	}
	if err := json.Unmarshal(content, v); err != nil {
		return fmt.Errorf("could not decode %s: %w", name, err)
	}
	return nil
}

// writeJSON marshals v and atomically-ish rewrites the file.
func (s *Store) writeJSON(name string, v any) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("could not create store directory %q: %w", s.dir, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode %s: %w", name, err)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("could not write %s: %w", name, err)
	}
	return nil
}

// encodeRecords pre-marshals records through their canonical MarshalJSON so
// the blob keeps a stable field order per record.
func encodeRecords[T json.Marshaler](records []T) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(records))
	for _, r := range records {
		b, err := r.MarshalJSON()
		if err != nil {
			continue
		}
		out = append(out, bytes.TrimSpace(b))
	}
	return out
}
