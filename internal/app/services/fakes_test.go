package services

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/rahulm/classtrack/internal/app/models"
	"github.com/rahulm/classtrack/internal/db"
	"github.com/rahulm/classtrack/internal/pkg/apperrors"
)

// fakeStudentStore is an in-memory StudentStore keyed by id and username.
type fakeStudentStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*models.Student

	failUpsert error
}

func newFakeStudentStore() *fakeStudentStore {
	return &fakeStudentStore{rows: map[int64]*models.Student{}}
}

func (f *fakeStudentStore) byUsername(username string) *models.Student {
	for _, s := range f.rows {
		if s.Username == username {
			return s
		}
	}
	return nil
}

func (f *fakeStudentStore) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStudentStore) GetAll(ctx context.Context) ([]*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Student, 0, len(f.rows))
	for _, s := range f.rows {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeStudentStore) Create(ctx context.Context, tx pgx.Tx, s *models.Student) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	cp := *s
	cp.ID = f.nextID
	f.rows[cp.ID] = &cp
	return cp.ID, nil
}

func (f *fakeStudentStore) UpsertByUsername(ctx context.Context, tx pgx.Tx, s *models.Student) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpsert != nil {
		return 0, f.failUpsert
	}
	if existing := f.byUsername(s.Username); existing != nil {
		// Marks survive the merge untouched.
		marks := existing.Marks
		id := existing.ID
		cp := *s
		cp.ID = id
		cp.Marks = marks
		f.rows[id] = &cp
		return id, nil
	}
	f.nextID++
	cp := *s
	cp.ID = f.nextID
	if cp.Marks == nil {
		cp.Marks = models.Marks{}
	}
	f.rows[cp.ID] = &cp
	return cp.ID, nil
}

func (f *fakeStudentStore) UpdateAttendanceMarks(ctx context.Context, id int64, attendance string, marks models.Marks) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.rows[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	s.Attendance = attendance
	s.Marks = marks
	return nil
}

func (f *fakeStudentStore) Delete(ctx context.Context, tx pgx.Tx, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return false, nil
	}
	delete(f.rows, id)
	return true, nil
}

func (f *fakeStudentStore) Count(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.rows)), nil
}

func (f *fakeStudentStore) AttendanceValues(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.rows))
	for _, s := range f.rows {
		out = append(out, s.Attendance)
	}
	return out, nil
}

// fakeUserStore is an in-memory UserStore keyed by username.
type fakeUserStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[string]*models.User

	failCreate error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{rows: map[string]*models.User{}}
}

func (f *fakeUserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[username]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) UsernameExists(ctx context.Context, tx pgx.Tx, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.rows[username]
	return ok, nil
}

func (f *fakeUserStore) Create(ctx context.Context, tx pgx.Tx, user *models.User) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate != nil {
		return 0, f.failCreate
	}
	f.nextID++
	cp := *user
	cp.ID = f.nextID
	f.rows[cp.Username] = &cp
	return cp.ID, nil
}

func (f *fakeUserStore) DeleteByStudentID(ctx context.Context, tx pgx.Tx, studentID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for name, u := range f.rows {
		if u.StudentID == studentID && u.Role == models.RoleStudent {
			delete(f.rows, name)
		}
	}
	return nil
}

func (f *fakeUserStore) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, u := range f.rows {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// fakeTxRunner runs the function directly with a nil transaction. The fakes
// above do not distinguish pooled from transactional calls.
type fakeTxRunner struct{}

func (fakeTxRunner) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	return fn(ctx, nil)
}
