package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/hiring-pipeline/internal/models"
)

// RecordPtr is satisfied by pointers to record structs embedding models.Base.
type RecordPtr[T any] interface {
	*T
	Meta() *models.Base
	TableName() string
	Indexes() map[string]string
}

// Collection is the keyed record store consumed by the hiring services.
// Create assigns the id and timestamps; Update hands the current record to
// mutate and persists the result, refreshing UpdatedAt.
type Collection[T any] interface {
	Create(ctx context.Context, rec *T) error
	GetAll(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id string) (*T, error)
	Update(ctx context.Context, id string, mutate func(*T) error) (*T, error)
	Delete(ctx context.Context, id string) error
	GetByIndex(ctx context.Context, index, value string) ([]T, error)
}

// Store groups collections behind one transactional boundary. Atomic runs fn
// against a store bound to a single transaction; nested calls join the
// outer transaction. AfterCommit defers fn until that transaction commits,
// and drops it when the attempt rolls back or is retried. Outside a
// transaction fn runs at once.
type Store interface {
	Atomic(ctx context.Context, fn func(tx Store) error) error
	AfterCommit(fn func())
	Close() error
}

type commitHooks struct {
	fns []func()
}

func (h *commitHooks) add(fn func()) {
	h.fns = append(h.fns, fn)
}

func (h *commitHooks) run() {
	for _, fn := range h.fns {
		fn()
	}
}

// Table returns the collection of T held by s.
func Table[T any, PT RecordPtr[T]](s Store) Collection[T] {
	switch st := s.(type) {
	case *gormStore:
		return &gormCollection[T, PT]{db: st.db}
	case *badgerStore:
		return &badgerCollection[T, PT]{store: st}
	}
	panic(fmt.Sprintf("repositories: unsupported store %T", s))
}

// RecordNotFoundError is returned for any operation addressing a missing id.
type RecordNotFoundError struct {
	Table string
	ID    string
}

func (e *RecordNotFoundError) Error() string {
	return fmt.Sprintf("%s record %q not found", e.Table, e.ID)
}

// IsNotFound reports whether err carries a RecordNotFoundError.
func IsNotFound(err error) bool {
	var nf *RecordNotFoundError
	return errors.As(err, &nf)
}

// ErrConcurrentUpdate is returned when a record changed between the read and
// the write of an Update.
var ErrConcurrentUpdate = errors.New("record was modified concurrently")

func unknownIndexError(table, index string) error {
	return fmt.Errorf("%s has no index %q", table, index)
}

func hasIndex[T any, PT RecordPtr[T]](index string) bool {
	_, ok := PT(new(T)).Indexes()[index]
	return ok
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// stamp prepares a record for its first write.
func stamp(meta *models.Base) {
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	ts := now()
	meta.CreatedAt = ts
	meta.UpdatedAt = ts
	meta.Revision = 1
}

// restamp carries identity over a mutation and bumps the revision.
func restamp(meta *models.Base, id string, createdAt time.Time, revision int64) {
	meta.ID = id
	meta.CreatedAt = createdAt
	meta.UpdatedAt = now()
	meta.Revision = revision + 1
}
