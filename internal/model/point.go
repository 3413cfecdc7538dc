package model

type PointTransaction struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Amount    int64          `json:"amount"`
	Type      string         `json:"type"`
	Reason    string         `json:"reason"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt string         `json:"created_at"`
}

type GetBalanceRequest struct {
	UserID string `json:"user_id"`
}

type GetBalanceResponse struct {
	Balance int64 `json:"balance"`
}

type GetPointHistoryRequest struct {
	UserID string `json:"user_id"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

type GetPointHistoryResponse struct {
	Transactions []PointTransaction `json:"transactions"`
}

type GrantPointsRequest struct {
	UserID string `json:"user_id"`
	Amount int64  `json:"amount"`
	Reason string `json:"reason"`
}

type GrantPointsResponse struct {
	Balance int64 `json:"balance"`
}
