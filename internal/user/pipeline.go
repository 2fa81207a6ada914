package user

// Field names a groupable attribute of a user record.
type Field string

const (
	FieldCity        Field = "city"
	FieldState       Field = "state"
	FieldCountry     Field = "country"
	FieldGender      Field = "gender"
	FieldSignupMonth Field = "month"
)

type Sort int

const (
	// SortCountDesc orders groups by descending count, ties broken by key.
	SortCountDesc Sort = iota
	// SortKeyAsc orders groups by the first group key ascending.
	SortKeyAsc
)

// Pipeline is a declarative grouping specification executed by a Repository.
// It carries no store-specific syntax so callers stay independent of the
// underlying query language.
type Pipeline struct {
	GroupBy []Field
	Sort    Sort
}

// GroupKey holds the values of the grouped fields; only the fields named in
// the pipeline are populated.
type GroupKey struct {
	City    string
	State   string
	Country string
	Gender  string
	Month   int
}

type Group struct {
	Key   GroupKey
	Count int
}
