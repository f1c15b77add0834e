package domain

type ReportStats struct {
	Minutes int                  `json:"minutes"`
	Total   int64                `json:"total"`
	ByType  map[ReportType]int64 `json:"byType"`
}

type StatsRequest struct {
	Minutes int `query:"minutes" validate:"min=1,max=1440"` // сутки max
}
