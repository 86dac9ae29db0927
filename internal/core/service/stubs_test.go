package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dealspot/dealspot/internal/core/domain"
	"github.com/dealspot/dealspot/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs shared by the service tests.
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users map[string]*domain.User // by id
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) add(u *domain.User) *domain.User {
	r.users[u.ID] = cloneUser(u)
	return u
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	copy := cloneUser(user)
	copy.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Find(_ context.Context, _ ports.UserFilter, _ domain.Sort, _ domain.Page) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Count(_ context.Context, _ ports.UserFilter) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *stubUserRepo) SetBlocked(_ context.Context, id string, blocked bool, reason string, at *time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Blocked, u.BlockedReason, u.BlockedAt = blocked, reason, at
	return nil
}

func (r *stubUserRepo) SetRole(_ context.Context, id, role string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	return nil
}

type stubDealRepo struct {
	deals     map[string]*domain.Deal
	seq       int
	findErr   error
	expired   int64
	expiredAt time.Time
}

func newStubDealRepo() *stubDealRepo {
	return &stubDealRepo{deals: make(map[string]*domain.Deal)}
}

func cloneDeal(d *domain.Deal) *domain.Deal {
	clone := *d
	return &clone
}

func (r *stubDealRepo) Create(_ context.Context, d *domain.Deal) error {
	r.seq++
	d.ID = fmt.Sprintf("deal-%d", r.seq)
	r.deals[d.ID] = cloneDeal(d)
	return nil
}

func (r *stubDealRepo) Update(_ context.Context, d *domain.Deal) error {
	if _, ok := r.deals[d.ID]; !ok {
		return domain.ErrDealNotFound
	}
	r.deals[d.ID] = cloneDeal(d)
	return nil
}

func (r *stubDealRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.deals[id]; !ok {
		return domain.ErrDealNotFound
	}
	delete(r.deals, id)
	return nil
}

func (r *stubDealRepo) FindByID(_ context.Context, id string) (*domain.Deal, error) {
	d, ok := r.deals[id]
	if !ok {
		return nil, domain.ErrDealNotFound
	}
	return cloneDeal(d), nil
}

func (r *stubDealRepo) FindBySlug(_ context.Context, slug string) (*domain.Deal, error) {
	for _, d := range r.deals {
		if d.Slug == slug {
			return cloneDeal(d), nil
		}
	}
	return nil, domain.ErrDealNotFound
}

func (r *stubDealRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	for _, d := range r.deals {
		if d.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubDealRepo) matches(f ports.DealFilter, d *domain.Deal) bool {
	if f.UserStoreID != "" && d.UserStoreID != f.UserStoreID {
		return false
	}
	if f.StoreID != "" && d.StoreID != f.StoreID {
		return false
	}
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, d.Status) {
		return false
	}
	return true
}

func (r *stubDealRepo) Find(_ context.Context, f ports.DealFilter, _ domain.Sort, page domain.Page) ([]*domain.Deal, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []*domain.Deal
	for i := 1; i <= r.seq; i++ {
		d, ok := r.deals[fmt.Sprintf("deal-%d", i)]
		if ok && r.matches(f, d) {
			out = append(out, cloneDeal(d))
		}
	}
	if page.Skip >= int64(len(out)) {
		return []*domain.Deal{}, nil
	}
	out = out[page.Skip:]
	if page.Limit > 0 && int64(len(out)) > page.Limit {
		out = out[:page.Limit]
	}
	return out, nil
}

func (r *stubDealRepo) Count(_ context.Context, f ports.DealFilter) (int64, error) {
	var n int64
	for _, d := range r.deals {
		if r.matches(f, d) {
			n++
		}
	}
	return n, nil
}

func (r *stubDealRepo) AdjustVotes(_ context.Context, id string, likes, dislikes int64) (*domain.Deal, error) {
	d, ok := r.deals[id]
	if !ok {
		return nil, domain.ErrDealNotFound
	}
	d.LikeCount += likes
	d.DislikeCount += dislikes
	return cloneDeal(d), nil
}

func (r *stubDealRepo) AdjustCommentCount(_ context.Context, id string, by int64) error {
	d, ok := r.deals[id]
	if !ok {
		return domain.ErrDealNotFound
	}
	d.CommentCount += by
	return nil
}

func (r *stubDealRepo) ExpirePast(_ context.Context, now time.Time) (int64, error) {
	r.expiredAt = now
	return r.expired, nil
}

type stubStoreRepo struct {
	stores map[string]*domain.Store
	seq    int
}

func newStubStoreRepo(stores ...*domain.Store) *stubStoreRepo {
	r := &stubStoreRepo{stores: make(map[string]*domain.Store)}
	for _, s := range stores {
		r.stores[s.ID] = s
	}
	return r
}

func (r *stubStoreRepo) Create(_ context.Context, s *domain.Store) error {
	r.seq++
	s.ID = fmt.Sprintf("store-%d", r.seq)
	clone := *s
	r.stores[s.ID] = &clone
	return nil
}

func (r *stubStoreRepo) Update(_ context.Context, s *domain.Store) error {
	clone := *s
	r.stores[s.ID] = &clone
	return nil
}

func (r *stubStoreRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.stores[id]; !ok {
		return domain.ErrStoreNotFound
	}
	delete(r.stores, id)
	return nil
}

func (r *stubStoreRepo) FindByID(_ context.Context, id string) (*domain.Store, error) {
	s, ok := r.stores[id]
	if !ok {
		return nil, domain.ErrStoreNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *stubStoreRepo) FindBySlug(_ context.Context, slug string) (*domain.Store, error) {
	for _, s := range r.stores {
		if s.Slug == slug {
			clone := *s
			return &clone, nil
		}
	}
	return nil, domain.ErrStoreNotFound
}

func (r *stubStoreRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	_, err := r.FindBySlug(ctx, slug)
	return err == nil, nil
}

func (r *stubStoreRepo) Find(_ context.Context, _ ports.StoreFilter, _ domain.Sort, _ domain.Page) ([]*domain.Store, error) {
	out := make([]*domain.Store, 0, len(r.stores))
	for _, s := range r.stores {
		out = append(out, s)
	}
	return out, nil
}

func (r *stubStoreRepo) Count(_ context.Context, _ ports.StoreFilter) (int64, error) {
	return int64(len(r.stores)), nil
}

type stubTypeRepo struct {
	types map[string]*domain.DealType
}

func newStubTypeRepo(types ...*domain.DealType) *stubTypeRepo {
	r := &stubTypeRepo{types: make(map[string]*domain.DealType)}
	for _, t := range types {
		r.types[t.ID] = t
	}
	return r
}

func (r *stubTypeRepo) Create(_ context.Context, t *domain.DealType) error {
	t.ID = "type-" + t.Slug
	r.types[t.ID] = t
	return nil
}

func (r *stubTypeRepo) Update(_ context.Context, t *domain.DealType) error {
	r.types[t.ID] = t
	return nil
}

func (r *stubTypeRepo) Delete(_ context.Context, id string) error {
	delete(r.types, id)
	return nil
}

func (r *stubTypeRepo) FindByID(_ context.Context, id string) (*domain.DealType, error) {
	t, ok := r.types[id]
	if !ok {
		return nil, domain.ErrDealTypeNotFound
	}
	return t, nil
}

func (r *stubTypeRepo) FindBySlug(_ context.Context, slug string) (*domain.DealType, error) {
	for _, t := range r.types {
		if t.Slug == slug {
			return t, nil
		}
	}
	return nil, domain.ErrDealTypeNotFound
}

func (r *stubTypeRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	_, err := r.FindBySlug(ctx, slug)
	return err == nil, nil
}

func (r *stubTypeRepo) All(_ context.Context) ([]*domain.DealType, error) {
	out := make([]*domain.DealType, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, t)
	}
	return out, nil
}

type stubUserStoreRepo struct {
	byOwner map[string]*domain.UserStore
	findErr error
	created int
}

func newStubUserStoreRepo(stores ...*domain.UserStore) *stubUserStoreRepo {
	r := &stubUserStoreRepo{byOwner: make(map[string]*domain.UserStore)}
	for _, s := range stores {
		r.byOwner[s.OwnerID] = s
	}
	return r
}

func (r *stubUserStoreRepo) Create(_ context.Context, s *domain.UserStore) error {
	if _, ok := r.byOwner[s.OwnerID]; ok {
		return domain.ErrUserStoreExists
	}
	s.ID = "us-" + s.OwnerID
	r.byOwner[s.OwnerID] = s
	r.created++
	return nil
}

func (r *stubUserStoreRepo) Update(_ context.Context, s *domain.UserStore) error {
	r.byOwner[s.OwnerID] = s
	return nil
}

func (r *stubUserStoreRepo) FindByOwner(_ context.Context, ownerID string) (*domain.UserStore, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	s, ok := r.byOwner[ownerID]
	if !ok {
		return nil, domain.ErrUserStoreNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *stubUserStoreRepo) FindByID(_ context.Context, id string) (*domain.UserStore, error) {
	for _, s := range r.byOwner {
		if s.ID == id {
			clone := *s
			return &clone, nil
		}
	}
	return nil, domain.ErrUserStoreNotFound
}

func (r *stubUserStoreRepo) matching(filter ports.UserStoreFilter) []*domain.UserStore {
	var out []*domain.UserStore
	for _, s := range r.byOwner {
		if filter.Approved != nil && s.Approved != *filter.Approved {
			continue
		}
		clone := *s
		out = append(out, &clone)
	}
	slices.SortFunc(out, func(a, b *domain.UserStore) int { return strings.Compare(a.ID, b.ID) })
	return out
}

// window applies a skip/limit page to an in-memory result.
func window[T any](items []T, page domain.Page) []T {
	if page.Skip >= int64(len(items)) {
		return []T{}
	}
	items = items[page.Skip:]
	if page.Limit > 0 && int64(len(items)) > page.Limit {
		items = items[:page.Limit]
	}
	return items
}

func (r *stubUserStoreRepo) Find(_ context.Context, filter ports.UserStoreFilter, page domain.Page) ([]*domain.UserStore, error) {
	return window(r.matching(filter), page), nil
}

func (r *stubUserStoreRepo) Count(_ context.Context, filter ports.UserStoreFilter) (int64, error) {
	return int64(len(r.matching(filter))), nil
}

func (r *stubUserStoreRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	for _, s := range r.byOwner {
		if s.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

type stubReactionRepo struct {
	values map[string]int
}

func newStubReactionRepo() *stubReactionRepo {
	return &stubReactionRepo{values: make(map[string]int)}
}

func (r *stubReactionRepo) Put(_ context.Context, rx *domain.Reaction) (int, error) {
	key := string(rx.Kind) + ":" + rx.TargetID + ":" + rx.UserID
	prev := r.values[key]
	r.values[key] = rx.Value
	return prev, nil
}

type stubSettingsRepo struct {
	settings domain.Settings
	saved    int
}

func newStubSettingsRepo() *stubSettingsRepo {
	return &stubSettingsRepo{settings: domain.DefaultSettings()}
}

func (r *stubSettingsRepo) Get(_ context.Context) (*domain.Settings, error) {
	s := r.settings
	return &s, nil
}

func (r *stubSettingsRepo) Save(_ context.Context, s *domain.Settings) error {
	r.settings = *s
	r.saved++
	return nil
}

type stubCommentRepo struct {
	comments map[string]*domain.Comment
	seq      int
}

func newStubCommentRepo() *stubCommentRepo {
	return &stubCommentRepo{comments: make(map[string]*domain.Comment)}
}

func (r *stubCommentRepo) Create(_ context.Context, c *domain.Comment) error {
	r.seq++
	c.ID = fmt.Sprintf("c-%d", r.seq)
	clone := *c
	r.comments[c.ID] = &clone
	return nil
}

func (r *stubCommentRepo) FindByID(_ context.Context, id string) (*domain.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCommentRepo) SoftDelete(_ context.Context, id string) error {
	c, ok := r.comments[id]
	if !ok {
		return domain.ErrCommentNotFound
	}
	c.Deleted = true
	return nil
}

func (r *stubCommentRepo) AdjustLikes(_ context.Context, id string, by int64) (*domain.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	c.LikeCount += by
	clone := *c
	return &clone, nil
}

func (r *stubCommentRepo) Find(_ context.Context, f ports.CommentFilter, _ domain.Sort, _ domain.Page) ([]*domain.Comment, error) {
	var out []*domain.Comment
	for i := 1; i <= r.seq; i++ {
		c, ok := r.comments[fmt.Sprintf("c-%d", i)]
		if !ok || (f.DealID != "" && c.DealID != f.DealID) || (c.Deleted && !f.IncludeDeleted) {
			continue
		}
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubCommentRepo) Count(ctx context.Context, f ports.CommentFilter) (int64, error) {
	list, _ := r.Find(ctx, f, domain.Sort{}, domain.Page{})
	return int64(len(list)), nil
}

type stubSubscriberRepo struct {
	byEmail map[string]*domain.Subscriber
}

func newStubSubscriberRepo() *stubSubscriberRepo {
	return &stubSubscriberRepo{byEmail: make(map[string]*domain.Subscriber)}
}

func (r *stubSubscriberRepo) Create(_ context.Context, s *domain.Subscriber) error {
	if _, ok := r.byEmail[s.Email]; ok {
		return domain.ErrSubscriberExists
	}
	s.ID = "sub-" + s.Email
	clone := *s
	r.byEmail[s.Email] = &clone
	return nil
}

func (r *stubSubscriberRepo) Update(_ context.Context, s *domain.Subscriber) error {
	clone := *s
	r.byEmail[s.Email] = &clone
	return nil
}

func (r *stubSubscriberRepo) FindByEmail(_ context.Context, email string) (*domain.Subscriber, error) {
	s, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrSubscriberMissing
	}
	clone := *s
	return &clone, nil
}

func (r *stubSubscriberRepo) Find(_ context.Context, _ ports.SubscriberFilter, _ domain.Sort, _ domain.Page) ([]*domain.Subscriber, error) {
	out := make([]*domain.Subscriber, 0, len(r.byEmail))
	for _, s := range r.byEmail {
		out = append(out, s)
	}
	return out, nil
}

func (r *stubSubscriberRepo) Count(_ context.Context, _ ports.SubscriberFilter) (int64, error) {
	return int64(len(r.byEmail)), nil
}

type stubCache struct {
	mu    sync.Mutex
	items map[string]any
	sets  int
}

func newStubCache() *stubCache {
	return &stubCache{items: make(map[string]any)}
}

func (c *stubCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	if !ok {
		return false, nil
	}
	*dst.(*domain.Stats) = *v.(*domain.Stats)
	return true, nil
}

func (c *stubCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	c.sets++
	return nil
}
