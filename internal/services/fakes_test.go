package services

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"dorm-portal/internal/authz"
	"dorm-portal/internal/entities"
	"dorm-portal/internal/repositories"
	apperrors "dorm-portal/pkg/errors"
	"dorm-portal/pkg/eventbus"
	"dorm-portal/pkg/types"
	"dorm-portal/pkg/utils"
)

func ctxAs(actor authz.Actor) context.Context {
	return utils.WithActor(context.Background(), actor)
}

func testActor(role authz.Role, room string, positions ...authz.Position) authz.Actor {
	return authz.Actor{ID: uuid.New(), Name: "Тест " + string(role), Role: role, Positions: positions, Room: room}
}

// ===== публикация событий =====

type capturePublisher struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (p *capturePublisher) Publish(_ context.Context, e eventbus.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *capturePublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Name())
	}
	return out
}

func (p *capturePublisher) last() eventbus.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return nil
	}
	return p.events[len(p.events)-1]
}

// ===== транзакции и кеш =====

type fakeTx struct{}

func (fakeTx) RunInTransaction(_ context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string]string{}} }

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch v := value.(type) {
	case string:
		c.data[key] = v
	default:
		c.data[key] = "1"
	}
	return nil
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return "", repositories.ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *fakeCache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, _ := strconv.ParseInt(c.data[key], 10, 64)
	n++
	c.data[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func (c *fakeCache) Expire(_ context.Context, _ string, _ time.Duration) (bool, error) {
	return true, nil
}

// ===== пользователи =====

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]entities.User
}

func newFakeUserRepo(users ...entities.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[uuid.UUID]entities.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func resident(name, room string, confirmed bool) entities.User {
	return entities.User{
		ID:            uuid.New(),
		Email:         strings.ToLower(name) + "@dorm.test",
		Name:          name,
		Role:          string(authz.RoleMember),
		Room:          null.NewString(room, room != ""),
		RoomConfirmed: confirmed,
		RegisteredAt:  time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *fakeUserRepo) get(id uuid.UUID) entities.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id]
}

func (r *fakeUserRepo) sorted(keep func(u entities.User) bool) []entities.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.User
	for _, u := range r.users {
		if keep(u) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *fakeUserRepo) GetUsers(_ context.Context, _ types.Filter) ([]entities.User, uint64, error) {
	all := r.sorted(func(entities.User) bool { return true })
	return all, uint64(len(all)), nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, _ pgx.Tx, id uuid.UUID) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*entities.User, error) {
	return r.FindByID(ctx, tx, id)
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	found := r.sorted(func(u entities.User) bool { return strings.EqualFold(u.Email, email) })
	if len(found) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &found[0], nil
}

func (r *fakeUserRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]entities.User, error) {
	want := map[uuid.UUID]bool{}
	for _, id := range ids {
		want[id] = true
	}
	return r.sorted(func(u entities.User) bool { return want[u.ID] }), nil
}

func (r *fakeUserRepo) ListByRoom(_ context.Context, _ pgx.Tx, room string) ([]entities.User, error) {
	return r.sorted(func(u entities.User) bool { return u.RoomConfirmed && u.Room.String == room }), nil
}

func (r *fakeUserRepo) ListPendingRooms(_ context.Context) ([]entities.User, error) {
	return r.sorted(func(u entities.User) bool { return u.PendingRoom.Valid }), nil
}

func (r *fakeUserRepo) ListByPositions(_ context.Context, keys []string) ([]entities.User, error) {
	return r.sorted(func(u entities.User) bool {
		for _, p := range u.Positions {
			for _, k := range keys {
				if p == k {
					return true
				}
			}
		}
		return false
	}), nil
}

func (r *fakeUserRepo) ListForCourseSweep(_ context.Context) ([]entities.User, error) {
	return r.sorted(func(u entities.User) bool {
		return u.Role == string(authz.RoleMember) && u.EntryGroup.Valid && u.StudyYears.Valid
	}), nil
}

func (r *fakeUserRepo) Create(_ context.Context, _ pgx.Tx, user *entities.User) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return nil, apperrors.ErrConflict
		}
	}
	u := *user
	u.ID = uuid.New()
	if u.RegisteredAt.IsZero() {
		u.RegisteredAt = time.Now()
	}
	r.users[u.ID] = u
	return &u, nil
}

func (r *fakeUserRepo) mutate(id uuid.UUID, fn func(u *entities.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	fn(&u)
	r.users[id] = u
	return nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, _ pgx.Tx, user *entities.User) error {
	return r.mutate(user.ID, func(u *entities.User) {
		u.Name, u.Group, u.EntryGroup, u.StudyYears = user.Name, user.Group, user.EntryGroup, user.StudyYears
	})
}

func (r *fakeUserRepo) UpdateRoom(_ context.Context, _ pgx.Tx, id uuid.UUID, room, pendingRoom string, confirmed bool) error {
	return r.mutate(id, func(u *entities.User) {
		u.Room = null.NewString(room, room != "")
		u.PendingRoom = null.NewString(pendingRoom, pendingRoom != "")
		u.RoomConfirmed = confirmed
	})
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, _ pgx.Tx, id uuid.UUID, role string) error {
	return r.mutate(id, func(u *entities.User) { u.Role = role })
}

func (r *fakeUserRepo) UpdatePositions(_ context.Context, _ pgx.Tx, id uuid.UUID, positions []string) error {
	return r.mutate(id, func(u *entities.User) { u.Positions = positions })
}

func (r *fakeUserRepo) UpdateGroup(_ context.Context, _ pgx.Tx, id uuid.UUID, group string) error {
	return r.mutate(id, func(u *entities.User) { u.Group = null.StringFrom(group) })
}

func (r *fakeUserRepo) SetFrozen(_ context.Context, _ pgx.Tx, id uuid.UUID, frozen bool) error {
	return r.mutate(id, func(u *entities.User) { u.IsFrozen = frozen })
}

func (r *fakeUserRepo) Delete(_ context.Context, _ pgx.Tx, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

// ===== отработки =====

type fakeShiftRepo struct {
	mu       sync.Mutex
	nextID   uint64
	active   map[uint64]entities.WorkShift
	archived []entities.ArchivedWorkShift
}

func newFakeShiftRepo() *fakeShiftRepo {
	return &fakeShiftRepo{active: map[uint64]entities.WorkShift{}}
}

func (r *fakeShiftRepo) Create(_ context.Context, _ pgx.Tx, shift *entities.WorkShift) (*entities.WorkShift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	s := *shift
	s.ID = r.nextID
	s.CreatedAt = time.Now()
	r.active[s.ID] = s
	return &s, nil
}

func (r *fakeShiftRepo) FindByID(_ context.Context, id uint64) (*entities.WorkShift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.active[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &s, nil
}

func (r *fakeShiftRepo) FindForUpdate(ctx context.Context, _ pgx.Tx, id uint64) (*entities.WorkShift, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeShiftRepo) Complete(_ context.Context, _ pgx.Tx, id uint64, days int, byID uuid.UUID, byName string) (*entities.WorkShift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.active[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if s.CompletedDays+days > s.Days {
		return nil, apperrors.ErrConflict
	}
	s.CompletedDays += days
	s.CompletedBy = null.StringFrom(byID.String())
	s.CompletedByName = null.StringFrom(byName)
	s.CompletedAt = null.TimeFrom(time.Now())
	r.active[id] = s
	return &s, nil
}

func (r *fakeShiftRepo) ListActiveByUser(_ context.Context, _ pgx.Tx, userID uuid.UUID) ([]entities.WorkShift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.WorkShift
	for _, s := range r.active {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeShiftRepo) ListAll(_ context.Context) ([]entities.WorkShift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.WorkShift, 0, len(r.active))
	for _, s := range r.active {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeShiftRepo) List(ctx context.Context, _ types.Filter) ([]entities.WorkShift, uint64, error) {
	all, _ := r.ListAll(ctx)
	return all, uint64(len(all)), nil
}

func (r *fakeShiftRepo) Summaries(ctx context.Context) ([]repositories.UserShiftSummary, error) {
	all, _ := r.ListAll(ctx)
	byUser := map[uuid.UUID]*repositories.UserShiftSummary{}
	var order []uuid.UUID
	for _, s := range all {
		sm, ok := byUser[s.UserID]
		if !ok {
			sm = &repositories.UserShiftSummary{UserID: s.UserID, UserName: s.UserName}
			byUser[s.UserID] = sm
			order = append(order, s.UserID)
		}
		sm.Shifts++
		sm.Remaining += s.Remaining()
		sm.Completed += s.CompletedDays
	}
	out := make([]repositories.UserShiftSummary, 0, len(order))
	for _, id := range order {
		out = append(out, *byUser[id])
	}
	return out, nil
}

func (r *fakeShiftRepo) Archive(_ context.Context, _ pgx.Tx, ids []uint64, reason string, archivedBy null.String) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		s, ok := r.active[id]
		if !ok {
			continue
		}
		delete(r.active, id)
		r.archived = append(r.archived, entities.ArchivedWorkShift{
			WorkShift:     s,
			ArchivedAt:    time.Now(),
			ArchiveReason: reason,
			ArchivedBy:    archivedBy,
		})
		n++
	}
	return n, nil
}

func (r *fakeShiftRepo) ListArchived(_ context.Context, userID *uuid.UUID) ([]entities.ArchivedWorkShift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.ArchivedWorkShift
	for _, a := range r.archived {
		if userID == nil || a.UserID == *userID {
			out = append(out, a)
		}
	}
	return out, nil
}

// ===== чистота =====

type scoreKey struct {
	floor int
	date  string
	room  string
}

type fakeCleanlinessRepo struct {
	mu       sync.Mutex
	scores   map[scoreKey]entities.CleanlinessScore
	settings *entities.CleanlinessSettings
	reads    int
}

func newFakeCleanlinessRepo() *fakeCleanlinessRepo {
	return &fakeCleanlinessRepo{scores: map[scoreKey]entities.CleanlinessScore{}, settings: &entities.CleanlinessSettings{}}
}

func keyOf(floor int, date time.Time, room string) scoreKey {
	return scoreKey{floor: floor, date: date.Format("2006-01-02"), room: room}
}

func (r *fakeCleanlinessRepo) FindScore(_ context.Context, _ pgx.Tx, floor int, date time.Time, room string) (*entities.CleanlinessScore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.scores[keyOf(floor, date, room)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &s, nil
}

func (r *fakeCleanlinessRepo) UpsertScore(_ context.Context, _ pgx.Tx, score *entities.CleanlinessScore) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scores[keyOf(score.Floor, score.Date, score.Room)] = *score
	return nil
}

func (r *fakeCleanlinessRepo) DeleteScore(_ context.Context, _ pgx.Tx, floor int, date time.Time, room string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := keyOf(floor, date, room)
	if _, ok := r.scores[k]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.scores, k)
	return nil
}

func (r *fakeCleanlinessRepo) filter(keep func(s entities.CleanlinessScore) bool) []entities.CleanlinessScore {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.CleanlinessScore
	for _, s := range r.scores {
		if keep(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func inRange(d, from, to time.Time) bool {
	return !d.Before(from) && !d.After(to)
}

func (r *fakeCleanlinessRepo) ListByFloor(_ context.Context, floor int, from, to time.Time) ([]entities.CleanlinessScore, error) {
	return r.filter(func(s entities.CleanlinessScore) bool { return s.Floor == floor && inRange(s.Date, from, to) }), nil
}

func (r *fakeCleanlinessRepo) ListByRoom(_ context.Context, room string, from, to time.Time) ([]entities.CleanlinessScore, error) {
	return r.filter(func(s entities.CleanlinessScore) bool { return s.Room == room && inRange(s.Date, from, to) }), nil
}

func (r *fakeCleanlinessRepo) GetSettings(_ context.Context) (*entities.CleanlinessSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	s := *r.settings
	return &s, nil
}

func (r *fakeCleanlinessRepo) SaveSettings(_ context.Context, settings *entities.CleanlinessSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := *settings
	r.settings = &s
	return nil
}

// ===== объявления =====

type fakeAnnouncementRepo struct {
	mu     sync.Mutex
	nextID uint64
	items  map[uint64]entities.Announcement
}

func newFakeAnnouncementRepo() *fakeAnnouncementRepo {
	return &fakeAnnouncementRepo{items: map[uint64]entities.Announcement{}}
}

func (r *fakeAnnouncementRepo) List(_ context.Context, archived bool) ([]entities.Announcement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.Announcement
	for _, a := range r.items {
		if a.ArchivedAt.Valid == archived {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeAnnouncementRepo) FindByID(_ context.Context, id uint64) (*entities.Announcement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &a, nil
}

func (r *fakeAnnouncementRepo) Create(_ context.Context, a *entities.Announcement) (*entities.Announcement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c := *a
	c.ID = r.nextID
	c.Date = time.Now()
	c.UpdatedAt = c.Date
	r.items[c.ID] = c
	return &c, nil
}

func (r *fakeAnnouncementRepo) Update(_ context.Context, a *entities.Announcement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[a.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.items[a.ID] = *a
	return nil
}

func (r *fakeAnnouncementRepo) Delete(_ context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeAnnouncementRepo) ArchiveExpired(_ context.Context, now time.Time) ([]entities.Announcement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.Announcement
	for id, a := range r.items {
		if !a.ArchivedAt.Valid && a.ExpiresAt.Valid && !a.ExpiresAt.Time.After(now) {
			a.ArchivedAt = null.TimeFrom(now)
			r.items[id] = a
			out = append(out, a)
		}
	}
	return out, nil
}

// ===== уведомления =====

type fakeNotificationRepo struct {
	mu     sync.Mutex
	nextID uint64
	items  []entities.Notification
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *entities.Notification) (*entities.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c := *n
	c.ID = r.nextID
	c.CreatedAt = time.Now()
	r.items = append(r.items, c)
	return &c, nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID uuid.UUID, _, _ uint64) ([]entities.Notification, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.Notification
	for _, n := range r.items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, uint64(len(out)), nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, userID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, item := range r.items {
		if item.UserID == userID && !item.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, userID uuid.UUID, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id && r.items[i].UserID == userID {
			r.items[i].IsRead = true
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for i := range r.items {
		if r.items[i].UserID == userID && !r.items[i].IsRead {
			r.items[i].IsRead = true
			n++
		}
	}
	return n, nil
}

func (r *fakeNotificationRepo) Delete(_ context.Context, userID uuid.UUID, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id && r.items[i].UserID == userID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

type sentMessage struct {
	UserID  uuid.UUID
	Type    string
	Payload interface{}
}

type fakeWS struct {
	mu     sync.Mutex
	online map[uuid.UUID]bool
	sent   []sentMessage
}

func (w *fakeWS) SendNotification(userID uuid.UUID, payload interface{}, messageType string) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.online[userID] {
		return 0, nil
	}
	w.sent = append(w.sent, sentMessage{UserID: userID, Type: messageType, Payload: payload})
	return 1, nil
}

// ===== задачи совета =====

type fakeTaskRepo struct {
	mu     sync.Mutex
	nextID uint64
	items  map[uint64]entities.CouncilTask
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{items: map[uint64]entities.CouncilTask{}}
}

func (r *fakeTaskRepo) List(_ context.Context) ([]entities.CouncilTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.CouncilTask, 0, len(r.items))
	for _, t := range r.items {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTaskRepo) FindByID(_ context.Context, _ pgx.Tx, id uint64) (*entities.CouncilTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &t, nil
}

func (r *fakeTaskRepo) Create(_ context.Context, task *entities.CouncilTask) (*entities.CouncilTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	t := *task
	t.ID = r.nextID
	t.CreatedAt = time.Now()
	r.items[t.ID] = t
	return &t, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, _ pgx.Tx, task *entities.CouncilTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[task.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.items[task.ID] = *task
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// ===== журнал =====

type fakeLogRepo struct {
	mu      sync.Mutex
	entries []entities.LogEntry
}

func (r *fakeLogRepo) Create(_ context.Context, entry *entities.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeLogRepo) List(_ context.Context, _ types.Filter) ([]entities.LogEntry, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entities.LogEntry(nil), r.entries...), uint64(len(r.entries)), nil
}

func statusOf(err error) int {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}
	return 0
}
