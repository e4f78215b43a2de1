package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/Logesh-Devops/caconnect-clientui/pkg/models"
)

// LoginResponse is the response from POST login/.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type,omitempty"`
	Role        models.Role `json:"role"`
}

// Login exchanges credentials for an access token and role. It does not
// store the token; callers decide whether the role is acceptable first.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	if err := c.checkVar("email", email, "required,email"); err != nil {
		return nil, err
	}
	if err := c.checkVar("password", password, "required"); err != nil {
		return nil, err
	}

	form := url.Values{
		"email":    {email},
		"password": {password},
	}

	var result LoginResponse
	if err := c.sendForm(ctx, "POST", c.identityURL+"/login/", form, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetProfile fetches the authenticated user's profile.
func (c *Client) GetProfile(ctx context.Context) (*models.Principal, error) {
	var result models.Principal
	if err := c.getJSON(ctx, c.identityURL+"/profile/", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateName updates the profile's first and last name.
func (c *Client) UpdateName(ctx context.Context, firstName, lastName string) error {
	if err := c.checkVar("first_name", firstName, "required"); err != nil {
		return err
	}

	form := url.Values{
		"first_name": {firstName},
		"last_name":  {lastName},
	}
	return c.sendForm(ctx, "PUT", c.identityURL+"/profile/name", form, nil)
}

// UpdatePassword changes the account password.
func (c *Client) UpdatePassword(ctx context.Context, current, newPassword, confirm string) error {
	if err := c.checkVar("current_password", current, "required"); err != nil {
		return err
	}
	if err := c.checkVar("new_password", newPassword, "required,min=8"); err != nil {
		return err
	}
	if newPassword != confirm {
		return &ValidationError{Field: "confirm_password", Detail: "passwords do not match"}
	}

	form := url.Values{
		"current_password": {current},
		"new_password":     {newPassword},
		"confirm_password": {confirm},
	}
	return c.sendForm(ctx, "PUT", c.identityURL+"/profile/password", form, nil)
}

// Toggle2FA enables or disables two-factor authentication.
func (c *Client) Toggle2FA(ctx context.Context, enable bool) error {
	form := url.Values{
		"enable_2fa": {strconv.FormatBool(enable)},
	}
	return c.sendForm(ctx, "PUT", c.identityURL+"/profile/2fa", form, nil)
}

// Verify2FA verifies a one-time password during login.
func (c *Client) Verify2FA(ctx context.Context, otp string) error {
	if err := c.checkVar("otp", otp, "required,numeric"); err != nil {
		return err
	}

	form := url.Values{
		"otp": {otp},
	}
	return c.sendForm(ctx, "POST", c.identityURL+"/profile/2fa/verify", form, nil)
}
