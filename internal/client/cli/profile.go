package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/shopclient/pkg/api"
)

func (c *Cli) runProfile(ctx context.Context) error {
	c.io.Println("=== Profile ===")
	c.io.Println()

	// Перечитываем профиль с сервера; невалидная сессия
	// молча сбрасывает состояние
	c.session.FetchProfile(ctx)

	user := c.session.User()
	if user == nil {
		c.io.Println("Not authenticated. Run 'shopclient login' first.")
		return nil
	}

	c.io.Printf("ID:        %s\n", user.ID)
	c.io.Printf("Email:     %s\n", user.Email)
	c.io.Printf("Username:  %s\n", user.Username)
	c.io.Printf("Name:      %s %s\n", user.FirstName, user.LastName)
	if user.Phone != "" {
		c.io.Printf("Phone:     %s\n", user.Phone)
	}
	if user.AddressLine != "" {
		c.io.Printf("Address:   %s, %s %s, %s\n", user.AddressLine, user.PostalCode, user.City, user.Country)
	}
	c.io.Printf("Verified:  %t\n", user.IsVerified)
	if user.IsStaff {
		c.io.Println("Role:      staff")
	}

	return nil
}

func (c *Cli) runUpdateProfile(ctx context.Context) error {
	c.io.Println("=== Update Profile ===")
	c.io.Println("Leave a field empty to keep its current value.")
	c.io.Println()

	if !c.session.IsAuthenticated() {
		return fmt.Errorf("not authenticated, run 'shopclient login' first")
	}

	var req api.ProfileUpdateRequest

	fields := []struct {
		prompt string
		target **string
	}{
		{"First name: ", &req.FirstName},
		{"Last name: ", &req.LastName},
		{"Phone: ", &req.Phone},
		{"Address line: ", &req.AddressLine},
		{"City: ", &req.City},
		{"Postal code: ", &req.PostalCode},
		{"Country: ", &req.Country},
	}

	changed := false
	for _, f := range fields {
		value, err := c.io.ReadInput(f.prompt)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if value != "" {
			v := value
			*f.target = &v
			changed = true
		}
	}

	if !changed {
		c.io.Println("Nothing to update.")
		return nil
	}

	// Сервер принимает patch, полный профиль перечитывается store
	if err := c.session.UpdateProfile(ctx, req); err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Profile updated.")

	return nil
}
