package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// BadgerOptions configures the embedded store.
type BadgerOptions struct {
	// Path is the data directory. Ignored when InMemory is set.
	Path       string
	InMemory   bool
	SyncWrites bool
	// Logger receives badger's internal logs. Nil disables them.
	Logger *slog.Logger
}

// badgerLogger adapts slog.Logger to badger.Logger.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// OpenBadgerStore opens a badger database and wraps it as a Store.
func OpenBadgerStore(opts BadgerOptions) (Store, error) {
	if !opts.InMemory && opts.Path == "" {
		return nil, errors.New("path is required for persistent badger store")
	}

	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(opts.Path, 0750); err != nil {
			return nil, fmt.Errorf("failed to create badger directory %s: %w", opts.Path, err)
		}
		bopts = badger.DefaultOptions(opts.Path)
	}

	bopts = bopts.WithSyncWrites(opts.SyncWrites).WithNumVersionsToKeep(1)
	if opts.Logger != nil {
		bopts = bopts.WithLogger(&badgerLogger{logger: opts.Logger})
	} else {
		bopts = bopts.WithLogger(nil)
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	return &badgerStore{db: db}, nil
}

// badgerStore keeps records as JSON under rec/<table>/<id> and maintains
// secondary index keys under idx/<table>/<index>/<value>/<id>.
type badgerStore struct {
	db    *badger.DB
	txn   *badger.Txn
	hooks *commitHooks
}

// Atomic implements Store. A transaction conflict is retried once.
func (s *badgerStore) Atomic(ctx context.Context, fn func(tx Store) error) error {
	if s.txn != nil {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	run := func() error {
		hooks := &commitHooks{}
		err := s.db.Update(func(txn *badger.Txn) error {
			return fn(&badgerStore{db: s.db, txn: txn, hooks: hooks})
		})
		if err == nil {
			hooks.run()
		}
		return err
	}

	err := run()
	if errors.Is(err, badger.ErrConflict) {
		slog.Warn("retrying badger transaction after conflict")
		err = run()
	}
	return err
}

// AfterCommit implements Store.
func (s *badgerStore) AfterCommit(fn func()) {
	if s.txn == nil {
		fn()
		return
	}
	s.hooks.add(fn)
}

// Close implements Store.
func (s *badgerStore) Close() error {
	if s.txn != nil {
		return errors.New("cannot close store from inside a transaction")
	}
	return s.db.Close()
}

func (s *badgerStore) update(fn func(txn *badger.Txn) error) error {
	if s.txn != nil {
		return fn(s.txn)
	}
	err := s.db.Update(fn)
	if errors.Is(err, badger.ErrConflict) {
		err = s.db.Update(fn)
	}
	return err
}

func (s *badgerStore) view(fn func(txn *badger.Txn) error) error {
	if s.txn != nil {
		return fn(s.txn)
	}
	return s.db.View(fn)
}

func recordPrefix(table string) []byte {
	return []byte("rec/" + table + "/")
}

func recordKey(table, id string) []byte {
	return []byte("rec/" + table + "/" + id)
}

func indexPrefix(table, index, value string) []byte {
	return []byte("idx/" + table + "/" + index + "/" + url.PathEscape(value) + "/")
}

func indexKey(table, index, value, id string) []byte {
	return append(indexPrefix(table, index, value), id...)
}

type badgerCollection[T any, PT RecordPtr[T]] struct {
	store *badgerStore
}

func (c *badgerCollection[T, PT]) table() string {
	return PT(new(T)).TableName()
}

func (c *badgerCollection[T, PT]) get(txn *badger.Txn, id string) (*T, error) {
	item, err := txn.Get(recordKey(c.table(), id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, &RecordNotFoundError{Table: c.table(), ID: id}
		}
		return nil, fmt.Errorf("failed to find %s: %w", c.table(), err)
	}

	var rec T
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &rec)
	}); err != nil {
		return nil, fmt.Errorf("failed to decode %s %q: %w", c.table(), id, err)
	}
	return &rec, nil
}

func (c *badgerCollection[T, PT]) put(txn *badger.Txn, rec *T) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.table(), err)
	}
	id := PT(rec).Meta().ID
	if err := txn.Set(recordKey(c.table(), id), data); err != nil {
		return err
	}
	for index, value := range PT(rec).Indexes() {
		if err := txn.Set(indexKey(c.table(), index, value, id), nil); err != nil {
			return err
		}
	}
	return nil
}

func (c *badgerCollection[T, PT]) dropIndexes(txn *badger.Txn, id string, indexes map[string]string) error {
	for index, value := range indexes {
		if err := txn.Delete(indexKey(c.table(), index, value, id)); err != nil {
			return err
		}
	}
	return nil
}

// Create implements Collection.
func (c *badgerCollection[T, PT]) Create(ctx context.Context, rec *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	meta := PT(rec).Meta()
	stamp(meta)

	err := c.store.update(func(txn *badger.Txn) error {
		_, err := txn.Get(recordKey(c.table(), meta.ID))
		if err == nil {
			return fmt.Errorf("%s record %q already exists", c.table(), meta.ID)
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return c.put(txn, rec)
	})
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", c.table(), err)
	}
	return nil
}

// GetAll implements Collection.
func (c *badgerCollection[T, PT]) GetAll(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []T
	err := c.store.view(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := recordPrefix(c.table())
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec T
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", c.table(), err)
	}

	sortRecords[T, PT](records)
	return records, nil
}

// GetByID implements Collection.
func (c *badgerCollection[T, PT]) GetByID(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rec *T
	err := c.store.view(func(txn *badger.Txn) error {
		var err error
		rec, err = c.get(txn, id)
		return err
	})
	return rec, err
}

// Update implements Collection.
func (c *badgerCollection[T, PT]) Update(ctx context.Context, id string, mutate func(*T) error) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var updated *T
	err := c.store.update(func(txn *badger.Txn) error {
		current, err := c.get(txn, id)
		if err != nil {
			return err
		}

		before := PT(current).Indexes()
		meta := PT(current).Meta()
		revision, createdAt := meta.Revision, meta.CreatedAt
		if err := mutate(current); err != nil {
			return err
		}
		restamp(PT(current).Meta(), id, createdAt, revision)

		if err := c.dropIndexes(txn, id, before); err != nil {
			return err
		}
		if err := c.put(txn, current); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete implements Collection.
func (c *badgerCollection[T, PT]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return c.store.update(func(txn *badger.Txn) error {
		current, err := c.get(txn, id)
		if err != nil {
			return err
		}
		if err := c.dropIndexes(txn, id, PT(current).Indexes()); err != nil {
			return err
		}
		return txn.Delete(recordKey(c.table(), id))
	})
}

// GetByIndex implements Collection.
func (c *badgerCollection[T, PT]) GetByIndex(ctx context.Context, index, value string) ([]T, error) {
	if !hasIndex[T, PT](index) {
		return nil, unknownIndexError(c.table(), index)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []T
	err := c.store.view(func(txn *badger.Txn) error {
		prefix := indexPrefix(c.table(), index, value)

		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		var ids []string
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			ids = append(ids, strings.TrimPrefix(string(it.Item().Key()), string(prefix)))
		}
		it.Close()

		for _, id := range ids {
			rec, err := c.get(txn, id)
			if err != nil {
				return err
			}
			records = append(records, *rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query %s by %s: %w", c.table(), index, err)
	}

	sortRecords[T, PT](records)
	return records, nil
}

func sortRecords[T any, PT RecordPtr[T]](records []T) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := PT(&records[i]).Meta(), PT(&records[j]).Meta()
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
