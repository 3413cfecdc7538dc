package model

type Milestone struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Points           int64  `json:"points"`
	Type             string `json:"type"`
	RequirementValue int    `json:"requirement_value"`
	Icon             string `json:"icon"`
	IsActive         bool   `json:"is_active"`
	SortOrder        int    `json:"sort_order"`
}

type UserMilestone struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	MilestoneID string    `json:"milestone_id"`
	Notes       string    `json:"notes"`
	CompletedAt string    `json:"completed_at"`
	VerifiedBy  string    `json:"verified_by,omitempty"`
	Milestone   Milestone `json:"milestone,omitempty"`
}

type GetMilestonesRequest struct {
	IncludeInactive bool `json:"include_inactive"`
}

type GetMilestonesResponse struct {
	Milestones []Milestone `json:"milestones"`
}

type GetMyMilestonesRequest struct{}

type GetMyMilestonesResponse struct {
	UserMilestones []UserMilestone `json:"user_milestones"`
}

type ClaimMilestoneRequest struct {
	MilestoneID string `json:"milestone_id"`
}

type ClaimMilestoneResponse struct {
	UserMilestone UserMilestone `json:"user_milestone"`
	PointsEarned  int64         `json:"points_earned"`
}

type SubmitMilestoneRequest struct {
	MilestoneID string `json:"milestone_id"`
	Notes       string `json:"notes"`
}

type SubmitMilestoneResponse struct {
	UserMilestone UserMilestone `json:"user_milestone"`
}

type GetPendingMilestonesRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetPendingMilestonesResponse struct {
	UserMilestones []UserMilestone `json:"user_milestones"`
}

type ApproveMilestoneRequest struct {
	ID string `json:"id"`
}

type ApproveMilestoneResponse struct {
	PointsAwarded int64 `json:"points_awarded"`
}

type RejectMilestoneRequest struct {
	ID string `json:"id"`
}

type RejectMilestoneResponse struct{}

type CreateMilestoneRequest struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	Points           int64  `json:"points"`
	Type             string `json:"type"`
	RequirementValue int    `json:"requirement_value"`
	Icon             string `json:"icon"`
	SortOrder        int    `json:"sort_order"`
}

type CreateMilestoneResponse struct {
	ID string `json:"id"`
}

type UpdateMilestoneRequest struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Points           int64  `json:"points"`
	RequirementValue int    `json:"requirement_value"`
	Icon             string `json:"icon"`
	IsActive         *bool  `json:"is_active"`
	SortOrder        int    `json:"sort_order"`
}

type UpdateMilestoneResponse struct{}

type DeleteMilestoneRequest struct {
	ID string `json:"id"`
}

type DeleteMilestoneResponse struct{}
