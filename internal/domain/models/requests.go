package models

// Requests for the HTTP endpoints. Custom tags (asset_symbol, investor_type,
// content_type) are registered by the api package.

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=80"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=1,max=80"`
	CurrentPassword string  `json:"currentPassword" validate:"required_with=NewPassword"`
	NewPassword     string  `json:"newPassword" validate:"omitempty,min=8,max=72"`
}

type SavePreferencesRequest struct {
	InterestedAssets []string `json:"interestedAssets" validate:"required,min=1,max=10,dive,asset_symbol"`
	InvestorType     string   `json:"investorType" validate:"required,investor_type"`
	ContentTypes     []string `json:"contentTypes" validate:"required,min=1,max=6,dive,content_type"`
}

type FeedbackRequest struct {
	Type      string  `json:"type" validate:"required,oneof=up down"`
	Section   string  `json:"section" validate:"required,oneof=coinPrices marketNews aiInsight meme"`
	ContentID *string `json:"contentId" validate:"omitempty,max=128"`
	Comment   *string `json:"comment" validate:"omitempty,max=500"`
}

type FeedbackListRequest struct {
	Limit int `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=100"`
}

type MemeRequest struct {
	Assets string `query:"assets" json:"assets" validate:"omitempty,max=200"`
}

type DashboardStreamRequest struct {
	Interval int `query:"interval" json:"interval" validate:"omitempty,gte=15,lte=600"`
}
