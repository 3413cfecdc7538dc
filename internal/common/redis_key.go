package common

func RedisKeyPointLeaderBoard() string {
	return "leaderboard:point"
}

func RedisKeyStreakLeaderBoard() string {
	return "leaderboard:streak"
}
