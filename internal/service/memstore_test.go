package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"merch-nexus/internal/apperror"
	"merch-nexus/internal/domain"
	"merch-nexus/internal/repository"

	"github.com/google/uuid"
)

// memStore is an in-memory stand-in for the PostgreSQL store. Slices keep
// insertion order the way the seq column does.
type memStore struct {
	users       map[uuid.UUID]*domain.User
	products    []*domain.Product
	collections []*domain.Collection
	saved       []*domain.SavedProduct

	// failWith, when set, is returned by every repository call.
	failWith error
	// failCollectionDelete fails only the final delete of a collection.
	failCollectionDelete error
}

func newMemStore() *memStore {
	return &memStore{users: make(map[uuid.UUID]*domain.User)}
}

func (s *memStore) repositories() repository.Repositories {
	return repository.Repositories{
		Users:         &memUsers{s},
		Products:      &memProducts{s},
		Collections:   &memCollections{s},
		SavedProducts: &memSavedProducts{s},
	}
}

func (s *memStore) addUser() *domain.User {
	ts := time.Now().UTC()
	u := &domain.User{ID: uuid.New(), Email: uuid.NewString() + "@example.com", SubscriptionTier: domain.TierFree, CreatedAt: ts, UpdatedAt: ts}
	s.users[u.ID] = u
	return u
}

func (s *memStore) addProduct(p domain.Product) *domain.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Keywords == nil {
		p.Keywords = []string{}
	}
	s.products = append(s.products, &p)
	return &p
}

type memSnapshot struct {
	users       map[uuid.UUID]domain.User
	collections []domain.Collection
	saved       []domain.SavedProduct
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{users: make(map[uuid.UUID]domain.User, len(s.users))}
	for id, u := range s.users {
		snap.users[id] = *u
	}
	for _, c := range s.collections {
		snap.collections = append(snap.collections, *c)
	}
	for _, sp := range s.saved {
		snap.saved = append(snap.saved, *sp)
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.users = make(map[uuid.UUID]*domain.User, len(snap.users))
	for id, u := range snap.users {
		u := u
		s.users[id] = &u
	}
	s.collections = nil
	for i := range snap.collections {
		c := snap.collections[i]
		s.collections = append(s.collections, &c)
	}
	s.saved = nil
	for i := range snap.saved {
		sp := snap.saved[i]
		s.saved = append(s.saved, &sp)
	}
}

// memUnitOfWork rolls the store back to a snapshot when the callback fails.
// The store is single-threaded, so a read snapshot is just a counted call.
type memUnitOfWork struct {
	store     *memStore
	snapshots int
}

func (u *memUnitOfWork) WithinSnapshot(ctx context.Context, fn func(repos repository.Repositories) error) error {
	u.snapshots++
	return fn(u.store.repositories())
}

func (u *memUnitOfWork) WithinTx(ctx context.Context, fn func(repos repository.Repositories) error) error {
	snap := u.store.snapshot()
	if err := fn(u.store.repositories()); err != nil {
		u.store.restore(snap)
		return err
	}
	return nil
}

type memUsers struct{ s *memStore }

func (m *memUsers) Create(ctx context.Context, user *domain.User) error {
	if m.s.failWith != nil {
		return m.s.failWith
	}
	u := *user
	m.s.users[u.ID] = &u
	return nil
}

func (m *memUsers) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.s.failWith != nil {
		return nil, m.s.failWith
	}
	u, ok := m.s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (m *memUsers) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.s.failWith != nil {
		return false, m.s.failWith
	}
	_, ok := m.s.users[id]
	return ok, nil
}

func (m *memUsers) UpdateProfile(ctx context.Context, id uuid.UUID, patch domain.ProfilePatch, now time.Time) (*domain.User, error) {
	if m.s.failWith != nil {
		return nil, m.s.failWith
	}
	u, ok := m.s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	if patch.FullName.Set {
		u.FullName = patch.FullName.Value
	}
	if patch.AvatarURL.Set {
		u.AvatarURL = patch.AvatarURL.Value
	}
	u.UpdatedAt = now
	out := *u
	return &out, nil
}

type memProducts struct{ s *memStore }

func (m *memProducts) Create(ctx context.Context, product *domain.Product) error {
	if m.s.failWith != nil {
		return m.s.failWith
	}
	m.s.addProduct(*product)
	return nil
}

func (m *memProducts) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	if m.s.failWith != nil {
		return nil, m.s.failWith
	}
	for _, p := range m.s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (m *memProducts) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := m.FindByID(ctx, id)
	if err == repository.ErrProductNotFound {
		return false, nil
	}
	return err == nil, err
}

func matchesCriteria(p *domain.Product, c domain.SearchCriteria) bool {
	if c.Query != nil && strings.TrimSpace(*c.Query) != "" &&
		!strings.Contains(strings.ToLower(p.Title), strings.ToLower(*c.Query)) {
		return false
	}
	if c.Category != nil && *c.Category != "" && p.Category != *c.Category {
		return false
	}
	if c.MinPrice != nil && p.Price < *c.MinPrice {
		return false
	}
	if c.MaxPrice != nil && p.Price > *c.MaxPrice {
		return false
	}
	if c.MinRating != nil && (p.Rating == nil || *p.Rating < *c.MinRating) {
		return false
	}
	if c.CompetitionLevel != nil && *c.CompetitionLevel != "" &&
		(p.CompetitionLevel == nil || *p.CompetitionLevel != *c.CompetitionLevel) {
		return false
	}
	return true
}

func (m *memProducts) Search(ctx context.Context, c domain.SearchCriteria) ([]*domain.Product, int, error) {
	if m.s.failWith != nil {
		return nil, 0, m.s.failWith
	}
	var matched []*domain.Product
	for _, p := range m.s.products {
		if matchesCriteria(p, c) {
			matched = append(matched, p)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	offset := (c.Page - 1) * c.Limit
	page := []*domain.Product{}
	for i := offset; i < len(matched) && i < offset+c.Limit; i++ {
		page = append(page, matched[i])
	}
	return page, len(matched), nil
}

type memCollections struct{ s *memStore }

func (m *memCollections) Create(ctx context.Context, collection *domain.Collection) error {
	if m.s.failWith != nil {
		return m.s.failWith
	}
	if _, ok := m.s.users[collection.UserID]; !ok {
		return apperror.ReferentialIntegrity("failed to create collection: user does not exist", nil)
	}
	c := *collection
	m.s.collections = append(m.s.collections, &c)
	return nil
}

func (m *memCollections) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Collection, error) {
	if m.s.failWith != nil {
		return nil, m.s.failWith
	}
	out := []*domain.Collection{}
	for _, c := range m.s.collections {
		if c.UserID == ownerID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memCollections) find(ownerID, id uuid.UUID) (*domain.Collection, error) {
	if m.s.failWith != nil {
		return nil, m.s.failWith
	}
	for _, c := range m.s.collections {
		if c.ID == id && c.UserID == ownerID {
			return c, nil
		}
	}
	return nil, repository.ErrCollectionNotFoundOrForbidden
}

func (m *memCollections) FindOwned(ctx context.Context, ownerID, id uuid.UUID) (*domain.Collection, error) {
	c, err := m.find(ownerID, id)
	if err != nil {
		return nil, err
	}
	out := *c
	return &out, nil
}

func (m *memCollections) LockOwned(ctx context.Context, ownerID, id uuid.UUID) (*domain.Collection, error) {
	return m.FindOwned(ctx, ownerID, id)
}

func (m *memCollections) Update(ctx context.Context, ownerID, id uuid.UUID, patch domain.CollectionPatch, now time.Time) (*domain.Collection, error) {
	c, err := m.find(ownerID, id)
	if err != nil {
		return nil, err
	}
	if patch.Name.Set {
		c.Name = patch.Name.Value
	}
	if patch.Description.Set {
		c.Description = patch.Description.Value
	}
	if patch.Color.Set {
		c.Color = patch.Color.Value
	}
	c.UpdatedAt = now
	out := *c
	return &out, nil
}

func (m *memCollections) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if m.s.failCollectionDelete != nil {
		return m.s.failCollectionDelete
	}
	if _, err := m.find(ownerID, id); err != nil {
		return err
	}
	kept := m.s.collections[:0]
	for _, c := range m.s.collections {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	m.s.collections = kept
	return nil
}

type memSavedProducts struct{ s *memStore }

func (m *memSavedProducts) Create(ctx context.Context, saved *domain.SavedProduct) error {
	if m.s.failWith != nil {
		return m.s.failWith
	}
	sp := *saved
	if sp.Tags == nil {
		sp.Tags = []string{}
	}
	m.s.saved = append(m.s.saved, &sp)
	return nil
}

func (m *memSavedProducts) List(ctx context.Context, userID uuid.UUID, collectionID *uuid.UUID) ([]*domain.SavedProduct, error) {
	if m.s.failWith != nil {
		return nil, m.s.failWith
	}
	out := []*domain.SavedProduct{}
	for _, sp := range m.s.saved {
		if sp.UserID != userID {
			continue
		}
		if collectionID != nil && (sp.CollectionID == nil || *sp.CollectionID != *collectionID) {
			continue
		}
		cp := *sp
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memSavedProducts) find(userID, id uuid.UUID) (*domain.SavedProduct, error) {
	if m.s.failWith != nil {
		return nil, m.s.failWith
	}
	for _, sp := range m.s.saved {
		if sp.ID == id && sp.UserID == userID {
			return sp, nil
		}
	}
	return nil, repository.ErrSavedProductNotFound
}

func (m *memSavedProducts) FindOwned(ctx context.Context, userID, id uuid.UUID) (*domain.SavedProduct, error) {
	sp, err := m.find(userID, id)
	if err != nil {
		return nil, err
	}
	out := *sp
	return &out, nil
}

func (m *memSavedProducts) Update(ctx context.Context, userID, id uuid.UUID, patch domain.SavedProductPatch, now time.Time) (*domain.SavedProduct, error) {
	sp, err := m.find(userID, id)
	if err != nil {
		return nil, err
	}
	if patch.CollectionID.Set {
		sp.CollectionID = patch.CollectionID.Value
	}
	if patch.Notes.Set {
		sp.Notes = patch.Notes.Value
	}
	if patch.Tags.Set {
		sp.Tags = patch.Tags.Value
	}
	sp.UpdatedAt = now
	out := *sp
	return &out, nil
}

func (m *memSavedProducts) DetachCollection(ctx context.Context, collectionID uuid.UUID, now time.Time) (int64, error) {
	if m.s.failWith != nil {
		return 0, m.s.failWith
	}
	var n int64
	for _, sp := range m.s.saved {
		if sp.CollectionID != nil && *sp.CollectionID == collectionID {
			sp.CollectionID = nil
			sp.UpdatedAt = now
			n++
		}
	}
	return n, nil
}

func (m *memSavedProducts) Delete(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	if _, err := m.find(userID, id); err != nil {
		if err == repository.ErrSavedProductNotFound {
			return false, nil
		}
		return false, err
	}
	kept := m.s.saved[:0]
	for _, sp := range m.s.saved {
		if sp.ID != id {
			kept = append(kept, sp)
		}
	}
	m.s.saved = kept
	return true, nil
}
