package user

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrEmailExists   = errors.New("email already exists")
	ErrMissingFields = errors.New("name and email are required")
	ErrInvalidGender = errors.New("gender must be Male or Female")
)

// ListQuery selects a page of users. Search is a case-insensitive substring
// match against name or email; empty Search matches everything.
type ListQuery struct {
	Search string
	Page   int
	Limit  int
}

type Repository interface {
	Create(user User) (User, error)
	List(q ListQuery) ([]User, int, error)
	GetByID(id string) (User, error)
	GetByEmail(email string) (User, error)
	Update(id string, user User) (User, error)
	Delete(id string) error
	Count() (int, error)
	Aggregate(p Pipeline) ([]Group, error)
}

type InMemoryRepository struct {
	mu    sync.RWMutex
	users []User
}

func NewInMemoryRepository(seed []User) *InMemoryRepository {
	repo := &InMemoryRepository{users: make([]User, 0, len(seed))}
	repo.users = append(repo.users, seed...)
	return repo
}

func (r *InMemoryRepository) Create(user User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	r.users = append(r.users, user)
	return user, nil
}

func (r *InMemoryRepository) List(q ListQuery) ([]User, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]User, 0, len(r.users))
	for _, user := range r.users {
		if matchesSearch(user, q.Search) {
			matched = append(matched, user)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := (q.Page - 1) * q.Limit
	if start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}

	page := make([]User, end-start)
	copy(page, matched[start:end])
	return page, total, nil
}

func (r *InMemoryRepository) GetByID(id string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}

	return User{}, ErrNotFound
}

func (r *InMemoryRepository) GetByEmail(email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}

	return User{}, ErrNotFound
}

func (r *InMemoryRepository) Update(id string, update User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, user := range r.users {
		if user.ID == id {
			update.ID = user.ID
			update.CreatedAt = user.CreatedAt
			r.users[i] = update
			return update, nil
		}
	}

	return User{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, user := range r.users {
		if user.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}

	return ErrNotFound
}

func (r *InMemoryRepository) Count() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.users), nil
}

func (r *InMemoryRepository) Aggregate(p Pipeline) ([]Group, error) {
	if len(p.GroupBy) == 0 {
		return nil, errors.New("aggregate: empty group specification")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	groups := make(map[GroupKey]int)
	for _, user := range r.users {
		key := GroupKey{}
		for _, field := range p.GroupBy {
			switch field {
			case FieldCity:
				key.City = user.Location.City
			case FieldState:
				key.State = user.Location.State
			case FieldCountry:
				key.Country = user.Location.Country
			case FieldGender:
				key.Gender = user.Gender
			case FieldSignupMonth:
				key.Month = int(user.CreatedAt.Month())
			}
		}
		groups[key]++
	}

	result := make([]Group, 0, len(groups))
	for key, count := range groups {
		result = append(result, Group{Key: key, Count: count})
	}

	sortGroups(result, p)
	return result, nil
}

func matchesSearch(user User, search string) bool {
	if search == "" {
		return true
	}
	search = strings.ToLower(search)
	return strings.Contains(strings.ToLower(user.Name), search) ||
		strings.Contains(strings.ToLower(user.Email), search)
}

func sortGroups(groups []Group, p Pipeline) {
	sort.SliceStable(groups, func(i, j int) bool {
		if p.Sort == SortCountDesc && groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return lessKey(groups[i].Key, groups[j].Key, p.GroupBy)
	})
}

func lessKey(a, b GroupKey, fields []Field) bool {
	for _, field := range fields {
		switch field {
		case FieldCity:
			if a.City != b.City {
				return a.City < b.City
			}
		case FieldState:
			if a.State != b.State {
				return a.State < b.State
			}
		case FieldCountry:
			if a.Country != b.Country {
				return a.Country < b.Country
			}
		case FieldGender:
			if a.Gender != b.Gender {
				return a.Gender < b.Gender
			}
		case FieldSignupMonth:
			if a.Month != b.Month {
				return a.Month < b.Month
			}
		}
	}
	return false
}
