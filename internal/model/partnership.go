package model

type Partnership struct {
	ID         string `json:"id"`
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}

type RequestPartnershipRequest struct {
	ReceiverID string `json:"receiver_id"`
}

type RequestPartnershipResponse struct {
	Partnership Partnership `json:"partnership"`
}

type AcceptPartnershipRequest struct {
	ID string `json:"id"`
}

type AcceptPartnershipResponse struct{}

type EndPartnershipRequest struct {
	ID string `json:"id"`
}

type EndPartnershipResponse struct{}

type GetPartnershipsRequest struct{}

type GetPartnershipsResponse struct {
	Partnerships []Partnership `json:"partnerships"`
}
