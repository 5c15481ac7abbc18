package domain

import "time"

// Signup stages. The staged record carries its current stage and every
// transition is checked server-side, so a stale or replayed step request
// cannot move a flow backwards or skip verification.
const (
	StageStaged     = "staged"      // form validated, product checked, data staged
	StageOTPPending = "otp_pending" // OTP dispatched, waiting for the code
	StageComplete   = "complete"    // identity verified, staging destroyed
)

// OTP channels.
const (
	ChannelEmail = "email"
	ChannelPhone = "phone"
)

// OTP intents. Signup may provision a new identity; login must target an
// existing one.
const (
	IntentSignup = "signup"
	IntentLogin  = "login"
)

// StagedSignup is the ephemeral signup payload bridging the two-phase flow:
// created when the form validates, read by the OTP step, destroyed on
// completion or abandonment. It lives in Redis as a single JSON record under
// a well-known key derived from FlowID and is never written to the database.
type StagedSignup struct {
	FlowID       string    `json:"flow_id"`
	Stage        string    `json:"stage"`
	ProductID    string    `json:"product_id"`
	FullName     string    `json:"full_name"`
	MobileNumber string    `json:"mobile_number"` // raw 10-digit form input
	Email        string    `json:"email"`
	Password     string    `json:"password"`
	Channel      string    `json:"channel,omitempty"` // set once a channel is selected
	CreatedAt    time.Time `json:"created_at"`
}

// IdentifierFor returns the raw identifier to dispatch over the given
// channel. Normalization is the OTP coordinator's job.
func (s *StagedSignup) IdentifierFor(channel string) string {
	if channel == ChannelEmail {
		return s.Email
	}
	return s.MobileNumber
}

// Metadata is the bag smuggled through the provider on signup dispatch so the
// insert trigger can populate the profile at user-creation time. The phone
// rides along raw; the trigger copes with not-yet-normalized numbers and the
// reconciliation pass writes the canonical form.
func (s *StagedSignup) Metadata() map[string]string {
	return map[string]string{
		"full_name":    s.FullName,
		"product_id":   s.ProductID,
		"phone_number": s.MobileNumber,
	}
}

// OTPReceipt is the opaque acknowledgement of a dispatched code. The OTP
// value itself never crosses this boundary.
type OTPReceipt struct {
	Channel     string    `json:"channel"`
	Recipient   string    `json:"recipient"` // masked for display
	RequestedAt time.Time `json:"requested_at"`
}
