package user

import (
	"strings"
	"time"
)

const (
	defaultPage  = 1
	defaultLimit = 20
)

type Service struct {
	repo Repository
}

// UpdateFields carries a partial update; nil fields are left untouched. A
// non-nil Location replaces the whole sub-object.
type UpdateFields struct {
	Name     *string
	Email    *string
	Phone    *string
	Location *Location
	Gender   *string
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(user User) (User, error) {
	user.Name = strings.TrimSpace(user.Name)
	user.Email = normalizeEmail(user.Email)

	if user.Name == "" || user.Email == "" {
		return User{}, ErrMissingFields
	}

	if user.Gender == "" {
		user.Gender = GenderMale
	}
	if user.Gender != GenderMale && user.Gender != GenderFemale {
		return User{}, ErrInvalidGender
	}

	if _, err := s.repo.GetByEmail(user.Email); err == nil {
		return User{}, ErrEmailExists
	} else if err != ErrNotFound {
		return User{}, err
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	return s.repo.Create(user)
}

func (s *Service) List(q ListQuery) ([]User, int, error) {
	if q.Page < 1 {
		q.Page = defaultPage
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}

	return s.repo.List(q)
}

func (s *Service) GetByID(id string) (User, error) {
	return s.repo.GetByID(id)
}

func (s *Service) Update(id string, fields UpdateFields) (User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return User{}, err
	}

	if fields.Name != nil {
		user.Name = strings.TrimSpace(*fields.Name)
		if user.Name == "" {
			return User{}, ErrMissingFields
		}
	}
	if fields.Email != nil {
		email := normalizeEmail(*fields.Email)
		if email == "" {
			return User{}, ErrMissingFields
		}
		if email != user.Email {
			if existing, err := s.repo.GetByEmail(email); err == nil && existing.ID != id {
				return User{}, ErrEmailExists
			} else if err != nil && err != ErrNotFound {
				return User{}, err
			}
		}
		user.Email = email
	}
	if fields.Phone != nil {
		user.Phone = *fields.Phone
	}
	if fields.Location != nil {
		user.Location = *fields.Location
	}
	if fields.Gender != nil {
		if *fields.Gender != GenderMale && *fields.Gender != GenderFemale {
			return User{}, ErrInvalidGender
		}
		user.Gender = *fields.Gender
	}

	return s.repo.Update(id, user)
}

func (s *Service) Delete(id string) error {
	return s.repo.Delete(id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
