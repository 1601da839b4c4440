// Package journal records the sequence of snapshots a client session went
// through so a game can be stepped through afterwards.
package journal

import (
	"compress/gzip"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/magefree/mage-client-go/internal/session"
)

// FileExtension is appended to the session ID to name journal files.
const FileExtension = ".journal"

const formatVersion = 1

// ErrEmpty is returned when saving a journal with nothing recorded.
var ErrEmpty = errors.New("journal is empty")

// Entry is one recorded snapshot.
type Entry struct {
	At       time.Time
	Trigger  string
	Snapshot session.Snapshot
}

// Journal is an in-memory recording with a playback cursor.
type Journal struct {
	SessionID string
	Entries   []Entry
	cursor    int
	mu        sync.RWMutex
}

// New creates an empty journal for a session.
func New(sessionID string) *Journal {
	return &Journal{SessionID: sessionID}
}

// Record appends a snapshot. trigger names the notification that produced
// it.
func (j *Journal) Record(trigger string, snap session.Snapshot) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.Entries = append(j.Entries, Entry{At: time.Now(), Trigger: trigger, Snapshot: snap.Clone()})
}

// Size returns the number of recorded entries.
func (j *Journal) Size() int {
	j.mu.RLock()
	defer j.mu.RUnlock()

	return len(j.Entries)
}

// At returns the entry at index.
func (j *Journal) At(index int) (Entry, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if index < 0 || index >= len(j.Entries) {
		return Entry{}, false
	}
	return j.Entries[index], true
}

// Rewind moves the cursor to the beginning.
func (j *Journal) Rewind() {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.cursor = 0
}

// Next returns the entry under the cursor and advances it.
func (j *Journal) Next() (Entry, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.cursor >= len(j.Entries) {
		return Entry{}, false
	}
	e := j.Entries[j.cursor]
	j.cursor++
	return e, true
}

// Previous moves the cursor back and returns the entry there.
func (j *Journal) Previous() (Entry, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.cursor <= 0 {
		return Entry{}, false
	}
	j.cursor--
	return j.Entries[j.cursor], true
}

// Skip moves the cursor by count entries, clamped to the recording, and
// returns the entry there.
func (j *Journal) Skip(count int) (Entry, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if len(j.Entries) == 0 {
		return Entry{}, false
	}
	j.cursor += count
	if j.cursor >= len(j.Entries) {
		j.cursor = len(j.Entries) - 1
	}
	if j.cursor < 0 {
		j.cursor = 0
	}
	return j.Entries[j.cursor], true
}

type header struct {
	SessionID  string
	SavedAt    time.Time
	Version    int
	EntryCount int
}

// Path returns where the journal of sessionID lives under directory.
func Path(directory, sessionID string) string {
	return filepath.Join(directory, sessionID+FileExtension)
}

// Save writes the journal to directory as gzip-compressed gob.
func (j *Journal) Save(directory string) (string, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if len(j.Entries) == 0 {
		return "", ErrEmpty
	}
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	path := Path(directory, j.SessionID)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	zw := gzip.NewWriter(file)
	enc := gob.NewEncoder(zw)

	h := header{SessionID: j.SessionID, SavedAt: time.Now(), Version: formatVersion, EntryCount: len(j.Entries)}
	if err := enc.Encode(&h); err != nil {
		return "", fmt.Errorf("failed to encode header: %w", err)
	}
	for i := range j.Entries {
		if err := enc.Encode(&j.Entries[i]); err != nil {
			return "", fmt.Errorf("failed to encode entry %d: %w", i, err)
		}
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("failed to flush journal: %w", err)
	}
	return path, nil
}

// Load reads a journal written by Save.
func Load(path string) (*Journal, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	zr, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer zr.Close()

	dec := gob.NewDecoder(zr)
	var h header
	if err := dec.Decode(&h); err != nil {
		return nil, fmt.Errorf("failed to decode header: %w", err)
	}
	if h.Version != formatVersion {
		return nil, fmt.Errorf("unsupported journal version: %d", h.Version)
	}

	j := New(h.SessionID)
	j.Entries = make([]Entry, 0, h.EntryCount)
	for i := 0; i < h.EntryCount; i++ {
		var e Entry
		if err := dec.Decode(&e); err != nil {
			return nil, fmt.Errorf("failed to decode entry %d: %w", i, err)
		}
		j.Entries = append(j.Entries, e)
	}
	return j, nil
}

// Recorder records the session while enabled and saves it on Finish.
type Recorder struct {
	logger    *zap.Logger
	directory string
	journal   *Journal
}

// NewRecorder starts recording sessionID. Journals are saved under
// directory.
func NewRecorder(sessionID, directory string, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("started session journal", zap.String("session_id", sessionID))
	return &Recorder{logger: logger, directory: directory, journal: New(sessionID)}
}

// Journal returns the recording in progress.
func (r *Recorder) Journal() *Journal {
	return r.journal
}

// Record appends one snapshot.
func (r *Recorder) Record(trigger string, snap session.Snapshot) {
	r.journal.Record(trigger, snap)
	r.logger.Debug("recorded snapshot",
		zap.String("trigger", trigger),
		zap.Int("entries", r.journal.Size()),
	)
}

// Finish saves the recording. An empty recording is not written.
func (r *Recorder) Finish() error {
	path, err := r.journal.Save(r.directory)
	if errors.Is(err, ErrEmpty) {
		r.logger.Debug("nothing recorded, journal not saved")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to save journal: %w", err)
	}
	r.logger.Info("saved session journal",
		zap.String("path", path),
		zap.Int("entries", r.journal.Size()),
	)
	return nil
}
