// Package recordstore implements the per-scope Record Store: the account and
// visit collections of one browser session, held in memory and written
// through to a repository.SessionStorage after every mutation. Each write
// stores both collections together with a revision stamp.
package recordstore

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	domainerrors "elogbook/internal/domain/errors"
	"elogbook/internal/domain/entity"
	"elogbook/internal/domain/repository"
	"elogbook/internal/domain/service"
	"elogbook/internal/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Options configures stores and the provider that builds them.
type Options struct {
	Storage repository.SessionStorage

	// Hasher turns seed secrets into their stored form. Nil stores them verbatim.
	Hasher service.PasswordHasher

	// Location decides which calendar day "today" is. Defaults to UTC.
	Location *time.Location

	// Now defaults to time.Now.
	Now func() time.Time

	Logger *slog.Logger

	// IdleTimeout evicts cached stores not opened for this long. Zero keeps them.
	IdleTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return o
}

// Store is the Record Store of one scope. It implements repository.Workspace.
// Every operation holds mu, so requests from several tabs of the same scope
// are serialised.
type Store struct {
	mu sync.Mutex

	scope   string
	storage repository.SessionStorage
	hasher  service.PasswordHasher
	loc     *time.Location
	now     func() time.Time
	logger  *slog.Logger

	accounts      []entity.Account
	visits        []entity.VisitEntry
	nextAccountID int
	nextVisitID   int

	// revision is the stamp of the last commit this store read or wrote.
	// stale is set when a write failed and the backend may hold newer data.
	revision []byte
	stale    bool

	lastUsed time.Time
}

var _ repository.Workspace = (*Store)(nil)

// maxLoadAttempts bounds the retries when another writer commits the scope
// while it is being loaded.
const maxLoadAttempts = 3

// state is an in-memory snapshot used to roll back a failed commit.
type state struct {
	accounts      []entity.Account
	visits        []entity.VisitEntry
	nextAccountID int
	nextVisitID   int
}

// Load builds the store of scope from storage. Missing or unreadable
// collections start from the seed, and the whole scope is written back before
// Load returns.
func Load(ctx context.Context, scope string, opts Options) (*Store, error) {
	if opts.Storage == nil {
		return nil, errors.New("record store requires a session storage")
	}
	opts = opts.withDefaults()

	s := &Store{
		scope:   scope,
		storage: opts.Storage,
		hasher:  opts.Hasher,
		loc:     opts.Location,
		now:     opts.Now,
		logger:  opts.Logger.With(slog.String("scope", scope)),
	}
	s.lastUsed = s.now()

	if err := s.load(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

// load replaces the in-memory collections with the stored ones. The caller
// holds mu or owns s exclusively.
func (s *Store) load(ctx context.Context) error {
	for attempt := 1; ; attempt++ {
		err := s.loadOnce(ctx)
		if errors.Is(err, domainerrors.ErrScopeChanged) && attempt < maxLoadAttempts {
			continue
		}

		return err
	}
}

func (s *Store) loadOnce(ctx context.Context) error {
	revision, err := s.read(ctx, repository.RevisionKey)
	if err != nil {
		return err
	}
	accounts, accountsOK, err := loadCollection[entity.Account](ctx, s, repository.AccountsKey)
	if err != nil {
		return err
	}
	visits, visitsOK, err := loadCollection[entity.VisitEntry](ctx, s, repository.VisitsKey)
	if err != nil {
		return err
	}

	// A commit landing between the reads would mix two versions.
	again, err := s.read(ctx, repository.RevisionKey)
	if err != nil {
		return err
	}
	if !bytes.Equal(revision, again) {
		return errors.WithStack(domainerrors.ErrScopeChanged)
	}

	complete := revision != nil && accountsOK && visitsOK
	if !complete {
		seed, err := newSeed(s.today(), s.daysAgo(1), s.daysAgo(2), s.hasher)
		if err != nil {
			return err
		}
		if !accountsOK {
			accounts = seed.accounts
		}
		if !visitsOK {
			visits = seed.visits
		}
	}

	s.restore(state{
		accounts:      accounts,
		visits:        visits,
		nextAccountID: nextID(accounts, func(a entity.Account) int { return a.ID }),
		nextVisitID:   nextID(visits, func(v entity.VisitEntry) int { return v.ID }),
	})
	s.revision = revision
	s.stale = !complete

	if complete {
		return nil
	}

	return s.persist(ctx)
}

// read returns the raw value under key, or nil when the key is absent.
func (s *Store) read(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.storage.Get(ctx, s.scope, key)
	if errors.Is(err, repository.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, domainerrors.NewStorageExecuteError(err, "load "+key)
	}

	return raw, nil
}

// loadCollection decodes the collection under key. It reports false when the
// key is absent or its value is corrupt.
func loadCollection[T any](ctx context.Context, s *Store, key string) ([]T, bool, error) {
	raw, err := s.read(ctx, key)
	if err != nil || raw == nil {
		return nil, false, err
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		s.logger.WarnContext(ctx, "Stored collection is corrupt, reseeding",
			slog.String("key", key),
			slog.String("code", domainerrors.ErrStorageCorrupt.ErrorCode()),
			slog.Any("error", err),
		)

		return nil, false, nil
	}
	if items == nil {
		items = []T{}
	}

	return items, true, nil
}

// nextID is max(id)+1, or 1 for an empty collection.
func nextID[T any](items []T, id func(T) int) int {
	next := 1
	for _, item := range items {
		if v := id(item); v >= next {
			next = v + 1
		}
	}

	return next
}

// refresh extends the scope's expiry and reloads the store when the backend
// no longer holds the revision it last saw.
func (s *Store) refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastUsed = s.now()

	if err := s.storage.Touch(ctx, s.scope); err != nil {
		return domainerrors.NewStorageExecuteError(err, "touch scope")
	}

	revision, err := s.read(ctx, repository.RevisionKey)
	if err != nil {
		return err
	}
	if !s.stale && revision != nil && bytes.Equal(revision, s.revision) {
		return nil
	}

	s.logger.InfoContext(ctx, "Scope changed in storage, reloading")
	s.stale = true

	return s.load(ctx)
}

// persist writes both collections with a fresh revision. The write only
// succeeds while the backend still holds the revision this store last saw.
func (s *Store) persist(ctx context.Context) error {
	accounts, err := json.Marshal(s.accounts)
	if err != nil {
		return errors.WithStack(err)
	}
	visits, err := json.Marshal(s.visits)
	if err != nil {
		return errors.WithStack(err)
	}
	next := []byte(uuid.NewString())

	err = s.storage.SetMany(ctx, s.scope, map[string][]byte{
		repository.AccountsKey: accounts,
		repository.VisitsKey:   visits,
		repository.RevisionKey: next,
	}, &repository.Guard{Key: repository.RevisionKey, Value: s.revision})
	if err != nil {
		s.stale = true
		if errors.Is(err, repository.ErrGuardFailed) {
			return errors.WithStack(domainerrors.ErrScopeChanged)
		}

		return domainerrors.NewStorageExecuteError(err, "save scope")
	}

	s.revision = next
	s.stale = false

	return nil
}

func (s *Store) snapshot() state {
	return state{
		accounts:      slices.Clone(s.accounts),
		visits:        slices.Clone(s.visits),
		nextAccountID: s.nextAccountID,
		nextVisitID:   s.nextVisitID,
	}
}

func (s *Store) restore(st state) {
	s.accounts = st.accounts
	s.visits = st.visits
	s.nextAccountID = st.nextAccountID
	s.nextVisitID = st.nextVisitID
}

// commit persists the scope, restoring prev on failure.
func (s *Store) commit(ctx context.Context, prev state) error {
	if err := s.persist(ctx); err != nil {
		s.restore(prev)
		s.logger.ErrorContext(ctx, "Failed to persist scope, rolled back", slog.Any("error", err))

		return err
	}

	return nil
}

func (s *Store) today() string {
	return util.DateString(s.now(), s.loc)
}

func (s *Store) daysAgo(n int) string {
	return util.DateString(s.now().In(s.loc).AddDate(0, 0, -n), s.loc)
}

func (s *Store) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return now.Sub(s.lastUsed)
}

// Scope returns the scope ID the store belongs to.
func (s *Store) Scope() string {
	return s.scope
}

func (s *Store) Accounts() repository.AccountRepository {
	return &accountRepository{s: s}
}

func (s *Store) Visits() repository.VisitRepository {
	return &visitRepository{s: s}
}

func (s *Store) Session() repository.SessionRepository {
	return &sessionRepository{s: s}
}

func cloneAll[T any](items []T) []*T {
	out := make([]*T, len(items))
	for i := range items {
		item := items[i]
		out[i] = &item
	}

	return out
}

func filter[T any](items []T, keep func(*T) bool) []*T {
	out := make([]*T, 0)
	for i := range items {
		if keep(&items[i]) {
			item := items[i]
			out = append(out, &item)
		}
	}

	return out
}
