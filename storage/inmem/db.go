package inmem

import (
	"sync"

	"github.com/trezcool/ielts/core/progress"
)

// DB keeps progress records in memory. It is lost when the process exits.
type DB struct {
	mutex    sync.RWMutex
	progress map[string]progress.Record
}

func NewDB() *DB {
	return &DB{progress: make(map[string]progress.Record)}
}
