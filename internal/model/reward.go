package model

type Reward struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url"`
	PointCost    int64  `json:"point_cost"`
	Quantity     *int64 `json:"quantity,omitempty"`
	ClaimedCount int64  `json:"claimed_count"`
	IsActive     bool   `json:"is_active"`
	ExpiresAt    string `json:"expires_at,omitempty"`
}

type Redemption struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	RewardID    string `json:"reward_id"`
	Status      string `json:"status"`
	PointCost   int64  `json:"point_cost"`
	AdminNotes  string `json:"admin_notes,omitempty"`
	FulfilledAt string `json:"fulfilled_at,omitempty"`
	CreatedAt   string `json:"created_at"`
	Reward      Reward `json:"reward,omitempty"`
}

type GetRewardsRequest struct {
	IncludeInactive bool `json:"include_inactive"`
}

type GetRewardsResponse struct {
	Rewards []Reward `json:"rewards"`
}

type RedeemRewardRequest struct {
	RewardID string `json:"reward_id"`
}

type RedeemRewardResponse struct {
	Redemption Redemption `json:"redemption"`
	Balance    int64      `json:"balance"`
}

type GetMyRedemptionsRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetMyRedemptionsResponse struct {
	Redemptions []Redemption `json:"redemptions"`
}

type GetPendingRedemptionsRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetPendingRedemptionsResponse struct {
	Redemptions []Redemption `json:"redemptions"`
}

type FulfillRedemptionRequest struct {
	ID         string `json:"id"`
	AdminNotes string `json:"admin_notes"`
}

type FulfillRedemptionResponse struct{}

type CancelRedemptionRequest struct {
	ID         string `json:"id"`
	AdminNotes string `json:"admin_notes"`
}

type CancelRedemptionResponse struct {
	Refunded int64 `json:"refunded"`
}

type CreateRewardRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	PointCost   int64  `json:"point_cost"`
	Quantity    *int64 `json:"quantity"`
	ExpiresAt   string `json:"expires_at"`
}

type CreateRewardResponse struct {
	ID string `json:"id"`
}

type UpdateRewardRequest struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	PointCost   int64  `json:"point_cost"`
	Quantity    *int64 `json:"quantity"`
	IsActive    *bool  `json:"is_active"`
	ExpiresAt   string `json:"expires_at"`
}

type UpdateRewardResponse struct{}

type DeleteRewardRequest struct {
	ID string `json:"id"`
}

type DeleteRewardResponse struct{}
