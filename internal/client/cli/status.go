package cli

import (
	"context"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Authentication Status ===")
	c.io.Println()

	if !c.session.IsAuthenticated() {
		c.io.Println("Status: Not authenticated")
		c.io.Println()
		c.io.Println("Run 'shopclient login' to authenticate.")
		return nil
	}

	c.io.Println("Status: Authenticated")
	if user := c.session.User(); user != nil {
		c.io.Printf("Username: %s\n", user.Username)
		c.io.Printf("Email: %s\n", user.Email)
		if user.TwoFactorEnabled {
			c.io.Println("Two-factor: enabled")
		}
		if !user.IsVerified {
			c.io.Println("⚠️  Email is not verified.")
		}
	}

	return nil
}
