package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/katie878/motion-tracking/internal/kinematics"

	"github.com/google/uuid"
)

var (
	ErrFileNotFound  = errors.New("file record not found")
	ErrGroupNotFound = errors.New("group not found")
)

// Group is a fixed classification bucket files are assigned to. Groups
// are never persisted; they live for the process lifetime only.
type Group struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FileRecord wraps the immutable metrics of one uploaded file with its
// mutable placement: the group it belongs to and its position within
// that group's display order.
type FileRecord struct {
	ID string `json:"id"`
	kinematics.FileMetrics
	GroupID    string    `json:"group_id"`
	Order      int       `json:"order"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// GroupView is a group together with its member records sorted by their
// intra-group order.
type GroupView struct {
	Group
	Files []FileRecord `json:"files"`
}

// Store holds all session results in memory. A default group always
// exists and receives newly uploaded files at the tail of its order.
type Store struct {
	mu         sync.RWMutex
	files      map[string]*FileRecord
	uploadSeq  []string
	groups     map[string]Group
	groupSeq   []string
	defaultGID string
	now        func() time.Time
}

func New() *Store {
	s := &Store{
		files:  map[string]*FileRecord{},
		groups: map[string]Group{},
		now:    time.Now,
	}
	g := Group{ID: uuid.NewString(), Name: "Ungrouped"}
	s.groups[g.ID] = g
	s.groupSeq = []string{g.ID}
	s.defaultGID = g.ID
	return s
}

func (s *Store) DefaultGroupID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultGID
}

// AddFiles stores one record per metrics entry, appended to the default
// group in the given order. Returns copies of the created records.
func (s *Store) AddFiles(metrics []kinematics.FileMetrics) []FileRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.groupCountLocked(s.defaultGID)
	created := make([]FileRecord, 0, len(metrics))
	for _, m := range metrics {
		rec := &FileRecord{
			ID:          uuid.NewString(),
			FileMetrics: m,
			GroupID:     s.defaultGID,
			Order:       next,
			UploadedAt:  s.now(),
		}
		next++
		s.files[rec.ID] = rec
		s.uploadSeq = append(s.uploadSeq, rec.ID)
		created = append(created, *rec)
	}
	return created
}

// Files returns all records sorted by the given field. An unknown sort
// key falls back to upload order; dir "desc" reverses. Ties are left to
// the sort implementation, there is no secondary key.
func (s *Store) Files(sortKey, dir string) []FileRecord {
	s.mu.RLock()
	out := make([]FileRecord, 0, len(s.uploadSeq))
	for _, id := range s.uploadSeq {
		out = append(out, *s.files[id])
	}
	s.mu.RUnlock()

	if less := lessFunc(sortKey, out); less != nil {
		sort.Slice(out, less)
	}
	if dir == "desc" {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

func lessFunc(sortKey string, recs []FileRecord) func(i, j int) bool {
	switch sortKey {
	case "file_name":
		return func(i, j int) bool { return recs[i].FileName < recs[j].FileName }
	case "points":
		return func(i, j int) bool { return recs[i].Points < recs[j].Points }
	case "skipped":
		return func(i, j int) bool { return recs[i].Skipped < recs[j].Skipped }
	case "duration_sec":
		return func(i, j int) bool { return recs[i].DurationSec < recs[j].DurationSec }
	case "average_speed":
		return func(i, j int) bool { return recs[i].AverageSpeed < recs[j].AverageSpeed }
	case "max_speed":
		return func(i, j int) bool { return recs[i].MaxSpeed < recs[j].MaxSpeed }
	case "max_displacement":
		return func(i, j int) bool { return recs[i].MaxDisplacement < recs[j].MaxDisplacement }
	case "total_path":
		return func(i, j int) bool { return recs[i].TotalPath < recs[j].TotalPath }
	default:
		return nil
	}
}

func (s *Store) Get(id string) (FileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.files[id]
	if !ok {
		return FileRecord{}, ErrFileNotFound
	}
	return *rec, nil
}

func (s *Store) CreateGroup(name string) Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := Group{ID: uuid.NewString(), Name: name}
	s.groups[g.ID] = g
	s.groupSeq = append(s.groupSeq, g.ID)
	return g
}

// Groups returns every group in creation order with its members sorted
// by intra-group order.
func (s *Store) Groups() []GroupView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	views := make([]GroupView, 0, len(s.groupSeq))
	for _, gid := range s.groupSeq {
		view := GroupView{Group: s.groups[gid]}
		for _, id := range s.uploadSeq {
			if s.files[id].GroupID == gid {
				view.Files = append(view.Files, *s.files[id])
			}
		}
		sort.Slice(view.Files, func(i, j int) bool { return view.Files[i].Order < view.Files[j].Order })
		views = append(views, view)
	}
	return views
}

// AssignGroup moves a record to another group: the source group's
// remaining orders are compacted back to a dense 0..n-1 run and the
// record is appended at the destination's tail.
func (s *Store) AssignGroup(fileID, groupID string) (FileRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.files[fileID]
	if !ok {
		return FileRecord{}, ErrFileNotFound
	}
	if _, ok := s.groups[groupID]; !ok {
		return FileRecord{}, ErrGroupNotFound
	}
	if rec.GroupID == groupID {
		return *rec, nil
	}

	source := rec.GroupID
	rec.GroupID = groupID
	rec.Order = s.groupCountLocked(groupID) - 1 // already counted as member

	s.renumberLocked(source)
	return *rec, nil
}

func (s *Store) groupCountLocked(groupID string) int {
	n := 0
	for _, r := range s.files {
		if r.GroupID == groupID {
			n++
		}
	}
	return n
}

func (s *Store) renumberLocked(groupID string) {
	var members []*FileRecord
	for _, id := range s.uploadSeq {
		if s.files[id].GroupID == groupID {
			members = append(members, s.files[id])
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Order < members[j].Order })
	for i, m := range members {
		m.Order = i
	}
}

// Reset drops every record and user-created group, keeping only a fresh
// default group. The analog of reloading the original page.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = map[string]*FileRecord{}
	s.uploadSeq = nil
	s.groups = map[string]Group{s.defaultGID: s.groups[s.defaultGID]}
	s.groupSeq = []string{s.defaultGID}
}
