package domain

type DailyStats struct {
	Day         string `json:"day"`
	Employees   int64  `json:"employees"`
	QRCount     int64  `json:"qr"`
	ManualCount int64  `json:"manual"`
}

type StatsRequest struct {
	Day string `query:"day" validate:"omitempty,datetime=2006-01-02"`
}
