package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"staffadmin/internal/model"
)

// memoryEmployeeRepository keeps employees in process memory. Records are not
// shared across processes and vanish on restart.
type memoryEmployeeRepository struct {
	mu     sync.RWMutex
	nextID uint
	rows   map[uint]model.Employee
	now    func() time.Time
}

func NewMemoryEmployeeRepository() EmployeeRepository {
	return &memoryEmployeeRepository{
		nextID: 1,
		rows:   make(map[uint]model.Employee),
		now:    time.Now,
	}
}

func (r *memoryEmployeeRepository) Create(_ context.Context, e *model.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e.ID = r.nextID
	r.nextID++
	now := r.now()
	e.CreatedAt, e.UpdatedAt = now, now
	r.rows[e.ID] = cloneEmployee(*e)
	return nil
}

func (r *memoryEmployeeRepository) GetByID(_ context.Context, id uint) (*model.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := cloneEmployee(e)
	return &out, nil
}

func (r *memoryEmployeeRepository) List(_ context.Context, filter EmployeeFilter) ([]model.Employee, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	matched := make([]model.Employee, 0, len(r.rows))
	for _, e := range r.rows {
		if filter.CreatedByID != nil && (e.CreatedByID == nil || *e.CreatedByID != *filter.CreatedByID) {
			continue
		}
		if filter.Position != "" && e.Position != filter.Position {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(e.Name), search) {
			continue
		}
		matched = append(matched, cloneEmployee(e))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	start := min(filter.Offset, len(matched))
	end := len(matched)
	if filter.Limit > 0 {
		end = min(start+filter.Limit, len(matched))
	}
	return matched[start:end], total, nil
}

func (r *memoryEmployeeRepository) Update(_ context.Context, e *model.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.rows[e.ID]
	if !ok {
		return ErrNotFound
	}
	updated := cloneEmployee(*e)
	updated.CreatedByID = current.CreatedByID
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = r.now()
	r.rows[e.ID] = updated
	return nil
}

func (r *memoryEmployeeRepository) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		return ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *memoryEmployeeRepository) DeleteMany(_ context.Context, ids []uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, id := range ids {
		if _, ok := r.rows[id]; ok {
			delete(r.rows, id)
			n++
		}
	}
	return n, nil
}

// cloneEmployee copies the pointer fields so callers cannot mutate stored rows.
func cloneEmployee(e model.Employee) model.Employee {
	if e.NRC != nil {
		nrc := *e.NRC
		e.NRC = &nrc
	}
	if e.CreatedByID != nil {
		id := *e.CreatedByID
		e.CreatedByID = &id
	}
	return e
}
