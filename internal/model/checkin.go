package model

type Checkin struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	CheckinDate string `json:"checkin_date"`
	Mood        int    `json:"mood"`
	Wins        string `json:"wins"`
	Struggles   string `json:"struggles"`
	Focus       string `json:"focus"`
	CreatedAt   string `json:"created_at"`
}

type Streak struct {
	Type            string `json:"type"`
	CurrentCount    int    `json:"current_count"`
	LongestCount    int    `json:"longest_count"`
	LastCheckinDate string `json:"last_checkin_date,omitempty"`
}

type CheckinRequest struct {
	Mood      int    `json:"mood"`
	Wins      string `json:"wins"`
	Struggles string `json:"struggles"`
	Focus     string `json:"focus"`
}

type CheckinResponse struct {
	Checkin      Checkin `json:"checkin"`
	Streak       Streak  `json:"streak"`
	PointsEarned int64   `json:"points_earned"`
	StreakBonus  int64   `json:"streak_bonus"`
	AlreadyToday bool    `json:"already_today"`
}

type GetStreakRequest struct {
	UserID string `json:"user_id"`
}

type GetStreakResponse struct {
	Streak Streak `json:"streak"`
}

type GetCheckinsRequest struct {
	UserID string `json:"user_id"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

type GetCheckinsResponse struct {
	Checkins []Checkin `json:"checkins"`
}
