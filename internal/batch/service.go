package batch

import (
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/katie878/motion-tracking/internal/kinematics"
	"github.com/katie878/motion-tracking/internal/store"
	"github.com/katie878/motion-tracking/internal/stream"
)

var (
	// ErrInvalidFPS rejects a batch before any file is parsed.
	ErrInvalidFPS = errors.New("frame rate must be a finite positive number")
	// ErrBatchFailed is the single generic failure for the whole batch;
	// there is no per-file attribution and no retry.
	ErrBatchFailed = errors.New("failed to read uploaded files")
)

// Upload is one file submitted to a batch. Open decouples the service
// from any platform file type; the content is read fully into memory.
type Upload struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// Event is broadcast to stream subscribers when a batch completes.
type Event struct {
	Workspace   string             `json:"workspace"`
	Files       []store.FileRecord `json:"files"`
	CompletedAt time.Time          `json:"completed_at"`
}

type Service struct {
	store *store.Store
	hub   *stream.Hub
}

func NewService(st *store.Store, hub *stream.Hub) *Service {
	return &Service{store: st, hub: hub}
}

// Process parses every upload concurrently and stores the results as one
// unit. Parses are pure and share nothing, so they run unlocked; the
// batch waits for all of them, and a single unreadable file fails the
// whole batch with no partial results. There is no cancellation once a
// batch is submitted.
func (s *Service) Process(workspace string, fps float64, uploads []Upload) ([]store.FileRecord, error) {
	if !kinematics.ValidFPS(fps) {
		return nil, ErrInvalidFPS
	}

	results := make([]kinematics.FileMetrics, len(uploads))
	readErrs := make([]error, len(uploads))

	var wg sync.WaitGroup
	for i := range uploads {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], readErrs[i] = parseOne(uploads[i], fps)
		}(i)
	}
	wg.Wait()

	for _, err := range readErrs {
		if err != nil {
			return nil, ErrBatchFailed
		}
	}

	records := s.store.AddFiles(results)

	if s.hub != nil {
		payload, _ := json.Marshal(Event{Workspace: workspace, Files: records, CompletedAt: time.Now()})
		s.hub.Broadcast(workspace, payload)
	}
	return records, nil
}

func parseOne(u Upload, fps float64) (kinematics.FileMetrics, error) {
	rc, err := u.Open()
	if err != nil {
		return kinematics.FileMetrics{}, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return kinematics.FileMetrics{}, err
	}
	return kinematics.ParseTrack(u.Name, string(data), fps), nil
}
