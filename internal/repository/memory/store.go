// Package memory is a process-local implementation of every repository
// contract. It backs the "memory" storage driver and the service tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/maxviazov/composer-workspace-service/internal/model"
	"github.com/maxviazov/composer-workspace-service/internal/pagination"
	"github.com/maxviazov/composer-workspace-service/internal/repository"
)

type data struct {
	nextNotificationID int64
	notifications      []model.Notification
	projects           map[string]model.BotProject
	// targets is keyed by lower-cased name.
	targets map[string]model.PublishTarget
	history []model.PublishRecord
}

func (d *data) clone() *data {
	out := &data{
		nextNotificationID: d.nextNotificationID,
		notifications:      append([]model.Notification(nil), d.notifications...),
		projects:           make(map[string]model.BotProject, len(d.projects)),
		targets:            make(map[string]model.PublishTarget, len(d.targets)),
		history:            append([]model.PublishRecord(nil), d.history...),
	}
	for k, v := range d.projects {
		out.projects[k] = v
	}
	for k, v := range d.targets {
		out.targets[k] = v
	}
	return out
}

// Store holds all workspace records behind one lock.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	d    *data
	now  func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		d: &data{
			nextNotificationID: 1,
			projects:           map[string]model.BotProject{},
			targets:            map[string]model.PublishTarget{},
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Ping always succeeds; the store has no external dependency.
func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

// WithinTx serialises units of work and restores the previous state when fn
// fails. Writes made outside WithinTx while fn runs are lost on rollback.
func (s *Store) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.d.clone()
	s.mu.RUnlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.d = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) Notifications() repository.NotificationRepository { return notificationStore{s} }
func (s *Store) Projects() repository.ProjectRepository           { return projectStore{s} }
func (s *Store) Targets() repository.PublishTargetRepository      { return targetStore{s} }
func (s *Store) History() repository.PublishHistoryRepository     { return historyStore{s} }

var (
	_ repository.Pinger    = (*Store)(nil)
	_ repository.TxManager = (*Store)(nil)
)

type notificationStore struct{ s *Store }

func (r notificationStore) Create(_ context.Context, n model.Notification) (model.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n.ID = r.s.d.nextNotificationID
	r.s.d.nextNotificationID++
	if n.CreatedAt.IsZero() {
		n.CreatedAt = r.s.now()
	}
	r.s.d.notifications = append(r.s.d.notifications, n)
	return n, nil
}

func (r notificationStore) GetByID(_ context.Context, id int64) (model.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, n := range r.s.d.notifications {
		if n.ID == id {
			return n, nil
		}
	}
	return model.Notification{}, repository.ErrNotFound
}

func (r notificationStore) List(_ context.Context, f repository.NotificationFilter, p repository.Page) (repository.PageResult[model.Notification], error) {
	r.s.mu.RLock()
	matched := make([]model.Notification, 0, len(r.s.d.notifications))
	for _, n := range r.s.d.notifications {
		if f.Severity == nil || n.Severity == *f.Severity {
			matched = append(matched, n)
		}
	}
	r.s.mu.RUnlock()

	return repository.PageResult[model.Notification]{
		Items: pagination.Window(matched, p.Index, p.Size),
		Total: len(matched),
	}, nil
}

func (r notificationStore) DeleteAll(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := int64(len(r.s.d.notifications))
	r.s.d.notifications = nil
	return n, nil
}

type projectStore struct{ s *Store }

func (r projectStore) Upsert(_ context.Context, p model.BotProject) (model.BotProject, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.DateModifiedLabel = ""
	r.s.d.projects[p.Name] = p
	return p, nil
}

func (r projectStore) ListRecent(_ context.Context, limit int) ([]model.BotProject, error) {
	r.s.mu.RLock()
	out := make([]model.BotProject, 0, len(r.s.d.projects))
	for _, p := range r.s.d.projects {
		out = append(out, p)
	}
	r.s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].DateModified.Equal(out[j].DateModified) {
			return out[i].DateModified.After(out[j].DateModified)
		}
		return out[i].Name < out[j].Name
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r projectStore) Delete(_ context.Context, name string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.projects[name]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.d.projects, name)
	return nil
}

type targetStore struct{ s *Store }

func key(name string) string { return strings.ToLower(name) }

func (r targetStore) Create(_ context.Context, t model.PublishTarget) (model.PublishTarget, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.d.targets[key(t.Name)]; exists {
		return model.PublishTarget{}, repository.ErrAlreadyExists
	}
	now := r.s.now()
	t.CreatedAt, t.UpdatedAt = now, now
	r.s.d.targets[key(t.Name)] = t
	return t, nil
}

func (r targetStore) Update(_ context.Context, current string, t model.PublishTarget) (model.PublishTarget, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.d.targets[key(current)]
	if !ok {
		return model.PublishTarget{}, repository.ErrNotFound
	}
	if key(t.Name) != key(current) {
		if _, taken := r.s.d.targets[key(t.Name)]; taken {
			return model.PublishTarget{}, repository.ErrAlreadyExists
		}
	}
	delete(r.s.d.targets, key(current))
	t.CreatedAt = old.CreatedAt
	t.UpdatedAt = r.s.now()
	r.s.d.targets[key(t.Name)] = t

	if t.Name != old.Name {
		for i := range r.s.d.history {
			if r.s.d.history[i].Target == old.Name {
				r.s.d.history[i].Target = t.Name
			}
		}
	}
	return t, nil
}

func (r targetStore) GetByName(_ context.Context, name string) (model.PublishTarget, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.d.targets[key(name)]
	if !ok {
		return model.PublishTarget{}, repository.ErrNotFound
	}
	return t, nil
}

func (r targetStore) List(_ context.Context) ([]model.PublishTarget, error) {
	r.s.mu.RLock()
	out := make([]model.PublishTarget, 0, len(r.s.d.targets))
	for _, t := range r.s.d.targets {
		out = append(out, t)
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return key(out[i].Name) < key(out[j].Name) })
	return out, nil
}

func (r targetStore) Delete(_ context.Context, name string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.d.targets[key(name)]
	if !ok {
		return repository.ErrNotFound
	}
	delete(r.s.d.targets, key(name))

	kept := r.s.d.history[:0]
	for _, rec := range r.s.d.history {
		if rec.Target != t.Name {
			kept = append(kept, rec)
		}
	}
	r.s.d.history = kept
	return nil
}

type historyStore struct{ s *Store }

func (r historyStore) Append(_ context.Context, rec model.PublishRecord) (model.PublishRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.d.targets[key(rec.Target)]
	if !ok {
		return model.PublishRecord{}, repository.ErrNotFound
	}
	rec.Target = t.Name
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = r.s.now()
	}
	r.s.d.history = append(r.s.d.history, rec)
	return rec, nil
}

func (r historyStore) ListByTarget(_ context.Context, target string, p repository.Page) (repository.PageResult[model.PublishRecord], error) {
	r.s.mu.RLock()
	var matched []model.PublishRecord
	// newest first: history is appended in time order
	for i := len(r.s.d.history) - 1; i >= 0; i-- {
		if key(r.s.d.history[i].Target) == key(target) {
			matched = append(matched, r.s.d.history[i])
		}
	}
	r.s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return repository.PageResult[model.PublishRecord]{
		Items: pagination.Window(matched, p.Index, p.Size),
		Total: len(matched),
	}, nil
}
