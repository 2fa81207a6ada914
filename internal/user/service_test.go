package user

import (
	"testing"
	"time"
)

func TestCreateNormalizesAndDefaults(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	service := NewService(repo)

	created, err := service.Create(User{Name: "  Alice  ", Email: "  Alice@Example.COM "})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if created.Name != "Alice" {
		t.Errorf("expected trimmed name, got %q", created.Name)
	}
	if created.Email != "alice@example.com" {
		t.Errorf("expected lowercased email, got %q", created.Email)
	}
	if created.Gender != GenderMale {
		t.Errorf("expected default gender Male, got %q", created.Gender)
	}
	if created.ID == "" {
		t.Error("expected store-assigned id")
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected createdAt to be stamped")
	}
}

func TestCreateMissingFields(t *testing.T) {
	service := NewService(NewInMemoryRepository(nil))

	cases := []User{
		{Name: "", Email: "a@x.com"},
		{Name: "   ", Email: "a@x.com"},
		{Name: "A", Email: ""},
		{Name: "A", Email: "   "},
	}
	for _, c := range cases {
		if _, err := service.Create(c); err != ErrMissingFields {
			t.Errorf("expected ErrMissingFields for %+v, got %v", c, err)
		}
	}
}

func TestCreateInvalidGender(t *testing.T) {
	service := NewService(NewInMemoryRepository(nil))

	if _, err := service.Create(User{Name: "A", Email: "a@x.com", Gender: "Other"}); err != ErrInvalidGender {
		t.Fatalf("expected ErrInvalidGender, got %v", err)
	}
}

func TestCreateDuplicateEmailCaseInsensitive(t *testing.T) {
	service := NewService(NewInMemoryRepository(nil))

	if _, err := service.Create(User{Name: "A", Email: "a@x.com"}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := service.Create(User{Name: "B", Email: "A@X.COM"}); err != ErrEmailExists {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestListOrderingFilterAndPaging(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	service := NewService(repo)

	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	seed := []User{
		{Name: "Anna", Email: "anna@x.com", CreatedAt: base},
		{Name: "Bob", Email: "bob@x.com", CreatedAt: base.Add(time.Hour)},
		{Name: "Joanna", Email: "jo@x.com", CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, u := range seed {
		if _, err := service.Create(u); err != nil {
			t.Fatalf("seed create failed: %v", err)
		}
	}

	users, total, err := service.List(ListQuery{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 || len(users) != 3 {
		t.Fatalf("expected 3 users, got %d (total %d)", len(users), total)
	}
	if users[0].Name != "Joanna" || users[2].Name != "Anna" {
		t.Errorf("expected newest-first ordering, got %q..%q", users[0].Name, users[2].Name)
	}

	// substring filter matches name or email, case-insensitively
	users, total, err = service.List(ListQuery{Search: "ANN"})
	if err != nil {
		t.Fatalf("filtered list failed: %v", err)
	}
	if total != 2 || len(users) != 2 {
		t.Fatalf("expected 2 matches for ANN, got %d (total %d)", len(users), total)
	}

	// total is independent of the pagination window
	users, total, err = service.List(ListQuery{Search: "ann", Page: 1, Limit: 1})
	if err != nil {
		t.Fatalf("paged list failed: %v", err)
	}
	if len(users) != 1 || total != 2 {
		t.Fatalf("expected page of 1 with total 2, got %d (total %d)", len(users), total)
	}

	// out-of-range pages return an empty page, not an error
	users, total, err = service.List(ListQuery{Page: 5, Limit: 20})
	if err != nil {
		t.Fatalf("out-of-range list failed: %v", err)
	}
	if len(users) != 0 || total != 3 {
		t.Fatalf("expected empty page with total 3, got %d (total %d)", len(users), total)
	}
}

func TestUpdateMergesPartialFields(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	service := NewService(repo)

	created, err := service.Create(User{
		Name:     "Alice",
		Email:    "alice@x.com",
		Phone:    "111",
		Location: Location{City: "Lahore", Country: "Pakistan"},
		Gender:   GenderFemale,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	phone := "222"
	updated, err := service.Update(created.ID, UpdateFields{Phone: &phone})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.Phone != "222" {
		t.Errorf("phone not updated: %q", updated.Phone)
	}
	if updated.Name != "Alice" || updated.Email != "alice@x.com" || updated.Gender != GenderFemale {
		t.Errorf("untouched fields changed: %+v", updated)
	}
	if updated.ID != created.ID || !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("id or createdAt mutated: %+v", updated)
	}

	// location is replaced as a whole when present
	loc := Location{City: "Karachi"}
	updated, err = service.Update(created.ID, UpdateFields{Location: &loc})
	if err != nil {
		t.Fatalf("location update failed: %v", err)
	}
	if updated.Location.City != "Karachi" || updated.Location.Country != "" {
		t.Errorf("location not replaced: %+v", updated.Location)
	}
}

func TestUpdateEmailUniqueness(t *testing.T) {
	service := NewService(NewInMemoryRepository(nil))

	a, _ := service.Create(User{Name: "A", Email: "a@x.com"})
	if _, err := service.Create(User{Name: "B", Email: "b@x.com"}); err != nil {
		t.Fatalf("seed create failed: %v", err)
	}

	taken := "B@X.com"
	if _, err := service.Update(a.ID, UpdateFields{Email: &taken}); err != ErrEmailExists {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}

	// re-submitting the user's own email is not a conflict
	own := "A@x.com"
	if _, err := service.Update(a.ID, UpdateFields{Email: &own}); err != nil {
		t.Fatalf("self email update failed: %v", err)
	}
}

func TestUpdateNotFoundDoesNotAlterStore(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	service := NewService(repo)

	if _, err := service.Create(User{Name: "A", Email: "a@x.com"}); err != nil {
		t.Fatalf("seed create failed: %v", err)
	}

	name := "Ghost"
	if _, err := service.Update("missing", UpdateFields{Name: &name}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if count, _ := repo.Count(); count != 1 {
		t.Fatalf("store altered by failed update, count %d", count)
	}
}

func TestDeleteSecondCallNotFound(t *testing.T) {
	service := NewService(NewInMemoryRepository(nil))

	created, err := service.Create(User{Name: "A", Email: "a@x.com"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := service.Delete(created.ID); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}
	if err := service.Delete(created.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
