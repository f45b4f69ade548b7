// Package localstore keeps progress records in a single JSON document on disk.
package localstore

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/ielts/core/progress"
)

// ProgressKey is the key of the progress records in the document.
const ProgressKey = "readingProgress"

type document map[string]json.RawMessage

// Store is a durable key-value document. The whole document is rewritten after every mutation;
// keys other than ProgressKey are written back untouched.
type Store struct {
	path     string
	mutex    sync.RWMutex
	doc      document
	progress map[string]progress.Record
}

// Open reads the document at path. A missing file is an empty document.
func Open(path string) (*Store, error) {
	s := &Store{path: path, doc: make(document), progress: make(map[string]progress.Record)}

	b, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading store")
	}
	if len(b) == 0 {
		return s, nil
	}

	if err = json.Unmarshal(b, &s.doc); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	if s.doc == nil {
		s.doc = make(document)
	}
	if raw, ok := s.doc[ProgressKey]; ok {
		if err = json.Unmarshal(raw, &s.progress); err != nil {
			return nil, errors.Wrapf(err, "decoding %s", ProgressKey)
		}
		if s.progress == nil {
			s.progress = make(map[string]progress.Record)
		}
	}
	return s, nil
}

func (s *Store) Path() string {
	return s.path
}

// flush writes the document to a temp file and renames it over the previous one. Callers hold the write lock.
func (s *Store) flush() error {
	recs, err := json.Marshal(s.progress)
	if err != nil {
		return errors.Wrap(err, "encoding progress")
	}
	doc := make(document, len(s.doc)+1)
	for k, v := range s.doc {
		doc[k] = v
	}
	doc[ProgressKey] = recs
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding store")
	}

	dir := filepath.Dir(s.path)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "creating store dir")
	}
	tmp, err := ioutil.TempFile(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err = tmp.Write(b); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "writing store")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "closing store")
	}
	return errors.Wrap(os.Rename(tmp.Name(), s.path), "replacing store")
}

type progressRepository struct {
	store *Store
}

func NewProgressRepository(store *Store) progress.Repository {
	return &progressRepository{store: store}
}

func (repo *progressRepository) GetProgress(_ context.Context, userID string) (progress.Record, error) {
	repo.store.mutex.RLock()
	defer repo.store.mutex.RUnlock()

	if rec, ok := repo.store.progress[userID]; ok {
		return rec.Clone(), nil
	}
	return progress.Record{}, progress.ErrNotFound
}

// SetProgress is all or nothing: when the document cannot be written, the previous record is kept.
func (repo *progressRepository) SetProgress(_ context.Context, userID string, rec progress.Record) error {
	repo.store.mutex.Lock()
	defer repo.store.mutex.Unlock()

	prev, existed := repo.store.progress[userID]
	repo.store.progress[userID] = rec.Clone()
	if err := repo.store.flush(); err != nil {
		if existed {
			repo.store.progress[userID] = prev
		} else {
			delete(repo.store.progress, userID)
		}
		return err
	}
	return nil
}

func (repo *progressRepository) QueryAllProgress(_ context.Context) (map[string]progress.Record, error) {
	repo.store.mutex.RLock()
	defer repo.store.mutex.RUnlock()

	all := make(map[string]progress.Record, len(repo.store.progress))
	for userID, rec := range repo.store.progress {
		all[userID] = rec.Clone()
	}
	return all, nil
}
