package handler

// Request bodies for the auth endpoints.

type SignupStartRequest struct {
	ProductID       string `json:"product_id"`
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	MobileNumber    string `json:"mobile_number"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type SignupSendOTPRequest struct {
	FlowID  string `json:"flow_id"`
	Channel string `json:"channel"` // "email" or "phone"
}

type SignupFlowRequest struct {
	FlowID string `json:"flow_id"`
}

type SignupVerifyOTPRequest struct {
	FlowID string `json:"flow_id"`
	Code   string `json:"code"`
}

type LoginRequest struct {
	Identifier string `json:"identifier"` // email or phone
	Password   string `json:"password"`
}

type LoginOTPRequest struct {
	Identifier string `json:"identifier"`
}

type LoginOTPVerifyRequest struct {
	Identifier string `json:"identifier"`
	Code       string `json:"code"`
}
