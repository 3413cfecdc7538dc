package model

type UserStatistic struct {
	User        User  `json:"user"`
	Value       int64 `json:"value"`
	CurrentRank int   `json:"current_rank"`
}

type GetLeaderBoardRequest struct {
	OrderedBy string `json:"ordered_by"`
	Offset    int    `json:"offset"`
	Limit     int    `json:"limit"`
}

type GetLeaderBoardResponse struct {
	LeaderBoard []UserStatistic `json:"leaderboard"`
}

type GetMyRankRequest struct {
	OrderedBy string `json:"ordered_by"`
}

type GetMyRankResponse struct {
	Rank uint64 `json:"rank"`
}
