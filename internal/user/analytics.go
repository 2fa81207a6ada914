package user

import "time"

type LocationCount struct {
	Country string `json:"country"`
	State   string `json:"state"`
	City    string `json:"city"`
	Count   int    `json:"count"`
}

type CityCount struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}

type StateCount struct {
	State string `json:"state"`
	Count int    `json:"count"`
}

type CountryCount struct {
	Country string `json:"country"`
	Count   int    `json:"count"`
}

type GenderCount struct {
	Gender string `json:"gender"`
	Total  int    `json:"total"`
}

type MonthCount struct {
	Month string `json:"month"`
	Total int    `json:"total"`
}

type Dashboard struct {
	TotalUsers        int            `json:"totalUsers"`
	UsersByCity       []CityCount    `json:"usersByCity"`
	UsersByState      []StateCount   `json:"usersByState"`
	UsersByCountry    []CountryCount `json:"usersByCountry"`
	UsersByGender     []GenderCount  `json:"usersByGender"`
	UsersByMonth      []MonthCount   `json:"usersByMonth"`
	NotificationsSent int            `json:"notificationsSent"`
}

// Analytics computes on-demand breakdowns over the user store. Nothing is
// cached; every call reflects the records present at query time.
type Analytics struct {
	repo Repository
}

func NewAnalytics(repo Repository) *Analytics {
	return &Analytics{repo: repo}
}

// UsersByLocation groups users by the (country, state, city) triple, most
// populous groups first.
func (a *Analytics) UsersByLocation() ([]LocationCount, error) {
	groups, err := a.repo.Aggregate(Pipeline{
		GroupBy: []Field{FieldCountry, FieldState, FieldCity},
		Sort:    SortCountDesc,
	})
	if err != nil {
		return nil, err
	}

	breakdown := make([]LocationCount, 0, len(groups))
	for _, g := range groups {
		breakdown = append(breakdown, LocationCount{
			Country: g.Key.Country,
			State:   g.Key.State,
			City:    g.Key.City,
			Count:   g.Count,
		})
	}

	return breakdown, nil
}

// Dashboard assembles the full analytics view. Each location dimension is
// grouped independently so a city spanning several states still reports a
// single combined count.
func (a *Analytics) Dashboard() (Dashboard, error) {
	total, err := a.repo.Count()
	if err != nil {
		return Dashboard{}, err
	}

	byCity, err := a.repo.Aggregate(Pipeline{GroupBy: []Field{FieldCity}, Sort: SortCountDesc})
	if err != nil {
		return Dashboard{}, err
	}
	byState, err := a.repo.Aggregate(Pipeline{GroupBy: []Field{FieldState}, Sort: SortCountDesc})
	if err != nil {
		return Dashboard{}, err
	}
	byCountry, err := a.repo.Aggregate(Pipeline{GroupBy: []Field{FieldCountry}, Sort: SortCountDesc})
	if err != nil {
		return Dashboard{}, err
	}
	byGender, err := a.repo.Aggregate(Pipeline{GroupBy: []Field{FieldGender}, Sort: SortCountDesc})
	if err != nil {
		return Dashboard{}, err
	}
	byMonth, err := a.repo.Aggregate(Pipeline{GroupBy: []Field{FieldSignupMonth}, Sort: SortKeyAsc})
	if err != nil {
		return Dashboard{}, err
	}

	dashboard := Dashboard{
		TotalUsers:     total,
		UsersByCity:    make([]CityCount, 0, len(byCity)),
		UsersByState:   make([]StateCount, 0, len(byState)),
		UsersByCountry: make([]CountryCount, 0, len(byCountry)),
		UsersByGender:  make([]GenderCount, 0, len(byGender)),
		UsersByMonth:   make([]MonthCount, 0, len(byMonth)),
	}

	for _, g := range byCity {
		dashboard.UsersByCity = append(dashboard.UsersByCity, CityCount{City: g.Key.City, Count: g.Count})
	}
	for _, g := range byState {
		dashboard.UsersByState = append(dashboard.UsersByState, StateCount{State: g.Key.State, Count: g.Count})
	}
	for _, g := range byCountry {
		dashboard.UsersByCountry = append(dashboard.UsersByCountry, CountryCount{Country: g.Key.Country, Count: g.Count})
	}
	for _, g := range byGender {
		dashboard.UsersByGender = append(dashboard.UsersByGender, GenderCount{Gender: g.Key.Gender, Total: g.Count})
	}
	for _, g := range byMonth {
		dashboard.UsersByMonth = append(dashboard.UsersByMonth, MonthCount{Month: monthAbbrev(g.Key.Month), Total: g.Count})
	}

	return dashboard, nil
}

func monthAbbrev(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return time.Month(month).String()[:3]
}
