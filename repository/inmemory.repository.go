package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"sync"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrSaveFailed = errors.New("save failed")
)

// Option configures a MemoryRepository.
type Option func(config *repoConfig)

// WithStore sets a Store used to persist the repository.
//
// There are no transactions or any consistency guarantees at all! If a store fails on Save,
// the change is reverted in memory, but a concurrent reader might have seen it already.
func WithStore(store Store) Option {
	return func(config *repoConfig) {
		config.store = store
	}
}

// WithStoreFilename overwrites the file name a Store uses to persist the repository.
// It defaults to the name of the entity type, e.g. Office.json.
func WithStoreFilename(name string) Option {
	return func(config *repoConfig) {
		config.filename = name
	}
}

type repoConfig struct {
	store    Store
	filename string
}

// id are the types allowed as a primary key.
type id interface {
	~string | ~int | ~int64
}

// NewMemoryRepository returns a repository for entity E, using idOf to get the primary key of an entity.
// If the Store fails to load existing data, NewMemoryRepository panics.
// Loading from an empty Store is not an error.
func NewMemoryRepository[E any, ID id](idOf func(E) ID, opts ...Option) *MemoryRepository[E, ID] {
	repo := &MemoryRepository[E, ID]{
		Mutex: &sync.Mutex{},
		Data:  make(map[ID]E),
		idOf:  idOf,
		repoConfig: repoConfig{
			store:    noopStore{},
			filename: reflect.TypeOf(new(E)).Elem().Name() + ".json",
		},
	}

	for _, opt := range opts {
		opt(&repo.repoConfig)
	}

	err := repo.store.Load(repo.filename, &repo.Data)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		panic("could not load data for memory repository from store: " + err.Error())
	}

	return repo
}

// MemoryRepository keeps entities in a map. Embed it to build a repository for a domain.
type MemoryRepository[E any, ID id] struct {
	// Mutex is embedded, so that repositories who extend MemoryRepository can lock the same mutex as other methods.
	*sync.Mutex

	// Data is the repository's collection. It is exposed in case you're extending the repository.
	// If you write to Data, USE the Mutex to lock first.
	Data map[ID]E
	idOf func(E) ID

	repoConfig
}

func (repo *MemoryRepository[E, ID]) FindByID(_ context.Context, id ID) (E, error) { //nolint:ireturn // valid use of generics
	repo.Lock()
	defer repo.Unlock()

	e, found := repo.Data[id]
	if !found {
		return *new(E), ErrNotFound
	}

	return e, nil
}

// Save creates or overwrites entity.
func (repo *MemoryRepository[E, ID]) Save(_ context.Context, entity E) error {
	repo.Lock()
	defer repo.Unlock()

	id := repo.idOf(entity)
	if id == *new(ID) {
		return fmt.Errorf("%w: missing id", ErrSaveFailed)
	}

	old, existed := repo.Data[id]
	repo.Data[id] = entity

	if err := repo.store.Store(repo.filename, repo.Data); err != nil {
		if existed {
			repo.Data[id] = old
		} else {
			delete(repo.Data, id)
		}

		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	return nil
}

func (repo *MemoryRepository[E, ID]) DeleteByID(_ context.Context, id ID) error {
	repo.Lock()
	defer repo.Unlock()

	old, found := repo.Data[id]
	if !found {
		return ErrNotFound
	}

	delete(repo.Data, id)

	if err := repo.store.Store(repo.filename, repo.Data); err != nil {
		repo.Data[id] = old

		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	return nil
}

// All returns the entities in no particular order.
func (repo *MemoryRepository[E, ID]) All(ctx context.Context) ([]E, error) {
	return repo.FindBy(ctx, func(E) bool { return true })
}

// FindBy returns all entities match returns true for, in no particular order.
// It fails, if ctx is done.
func (repo *MemoryRepository[E, ID]) FindBy(ctx context.Context, match func(E) bool) ([]E, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("could not find: %w", err)
	}

	repo.Lock()
	defer repo.Unlock()

	entities := []E{}

	for _, e := range repo.Data {
		if match(e) {
			entities = append(entities, e)
		}
	}

	return entities, nil
}

func (repo *MemoryRepository[E, ID]) Count(_ context.Context) (int, error) {
	repo.Lock()
	defer repo.Unlock()

	return len(repo.Data), nil
}
