package common

import (
	"sync"

	"github.com/puzpuzpuz/xsync"
)

// UserLocker serializes point-moving operations of the same user inside one
// process. Mutexes are created on first use and kept for the process
// lifetime; the user space is small enough that this never matters.
type UserLocker struct {
	mutexes *xsync.MapOf[string, *sync.Mutex]
}

func NewUserLocker() *UserLocker {
	return &UserLocker{mutexes: xsync.NewMapOf[*sync.Mutex]()}
}

func (l *UserLocker) Lock(userID string) {
	mutex, _ := l.mutexes.LoadOrStore(userID, &sync.Mutex{})
	mutex.Lock()
}

func (l *UserLocker) Unlock(userID string) {
	mutex, ok := l.mutexes.Load(userID)
	if !ok {
		return
	}

	mutex.Unlock()
}
