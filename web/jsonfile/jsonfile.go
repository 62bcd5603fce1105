// Package jsonfile provides a user store backed by a single JSON
// document on disk. Every operation is a whole-file read-modify-write
// under one mutex, so writes within this process cannot interleave.
// Across processes the file is last-write-wins at file granularity,
// not record granularity: two processes updating different users can
// silently drop one writer's change. That limitation is accepted; this
// backend exists for deployments where SQLite is unavailable but a
// data directory survives restarts.
package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/textforge/humanizer/models"
	"github.com/textforge/humanizer/web"
)

type document struct {
	Users map[string]models.User `json:"users"`
}

type repo struct {
	mu   *sync.Mutex
	path string
}

func New(path string) (web.UserRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return nil, err
	}

	r := repo{
		mu:   &sync.Mutex{},
		path: path,
	}

	// Fail now rather than on first request if the file is unreadable.
	if _, err := r.load(); err != nil {
		return nil, err
	}

	return &r, nil
}

func (r *repo) Get(ctx context.Context, id string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return models.User{}, err
	}

	user, ok := doc.Users[id]
	if !ok {
		return models.User{}, web.ErrNotFound
	}

	return user, nil
}

func (r *repo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return err
	}

	if _, ok := doc.Users[user.ID]; ok {
		return web.ErrAlreadyExists
	}

	doc.Users[user.ID] = *user

	return r.save(doc)
}

func (r *repo) UpdateSubscription(ctx context.Context, id string, isSubscribed bool, subscriptionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return err
	}

	user, ok := doc.Users[id]
	if !ok {
		user = models.User{ID: id}
	}

	user.IsSubscribed = isSubscribed
	user.SubscriptionID = subscriptionID
	doc.Users[id] = user

	return r.save(doc)
}

func (r *repo) load() (*document, error) {
	doc := document{Users: make(map[string]models.User)}

	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return &doc, nil
	}

	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return &doc, nil
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	if doc.Users == nil {
		doc.Users = make(map[string]models.User)
	}

	return &doc, nil
}

func (r *repo) save(doc *document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tmp := r.path + ".tmp"

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}

	return os.Rename(tmp, r.path)
}
