package queries

// Dashboard report queries. None take parameters.
type (
	GetDashboardStatsQuery struct{}
	GetPieChartsQuery      struct{}
	GetBarChartsQuery      struct{}
	GetLineChartsQuery     struct{}
)

func (GetDashboardStatsQuery) Validate() error { return nil }
func (GetPieChartsQuery) Validate() error      { return nil }
func (GetBarChartsQuery) Validate() error      { return nil }
func (GetLineChartsQuery) Validate() error     { return nil }
