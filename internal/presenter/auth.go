package presenter

import (
	"fmt"

	"github.com/dharsanguruparan/CareerCopilot/internal/model"
)

// SignupView is shown after a successful signup.
type SignupView struct {
	UserID      string
	RefImageKey string
}

// Signup builds the signup view.
func Signup(resp model.SignupResponse) SignupView {
	return SignupView{UserID: resp.UserID, RefImageKey: resp.RefImageKey}
}

// LoginView is shown after any answered login attempt.
type LoginView struct {
	Success    bool
	Similarity string
	Token      string
	Detail     string
}

// Login builds the login view.
func Login(resp model.LoginResponse) LoginView {
	view := LoginView{
		Success:    resp.Success,
		Similarity: FormatNumber(resp.Similarity),
		Token:      resp.Token,
	}
	if !resp.Success {
		view.Detail = "Face doesn't match reference image"
		if resp.Message != "" {
			view.Detail = resp.Message
		}
	}
	return view
}

// LoginFailureMessage is the inline error for a rejected face login.
func LoginFailureMessage(similarity float64) string {
	return fmt.Sprintf("Login failed. Similarity: %s%%", FormatNumber(similarity))
}
