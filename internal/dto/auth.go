package dto

type RegisterRequest struct {
	RestaurantID int64  `json:"restaurant_id"`
	Email        string `json:"email"`
	Password     string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type OperatorResponse struct {
	ID           string `json:"id"`
	RestaurantID int64  `json:"restaurant_id"`
	Email        string `json:"email"`
}

type AuthResponse struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	TokenType    string           `json:"token_type"`
	ExpiresIn    int64            `json:"expires_in"`
	Operator     OperatorResponse `json:"operator"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
