package cli

import (
	"context"
	"fmt"
	"strings"
)

func (c *Cli) runLogin(ctx context.Context) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	// Запрашиваем email
	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	// Запрашиваем пароль
	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	c.io.Println()
	c.io.Println("Authenticating...")

	challenge, err := c.session.Login(ctx, email, password)
	if err != nil {
		return err
	}

	// Сервер потребовал второй фактор — вход еще не завершен
	if challenge != nil {
		if err := c.runTwoFactor(ctx, challenge.TempToken); err != nil {
			return err
		}
	}

	user := c.session.User()
	if user == nil {
		return fmt.Errorf("login did not establish a session")
	}

	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.io.Printf("Signed in as: %s <%s>\n", user.Username, user.Email)

	return nil
}

// runTwoFactor завершает вход вторым фактором.
// Ввод "email" вместо кода запрашивает отправку кода на почту,
// "backup" переключает на резервный код.
func (c *Cli) runTwoFactor(ctx context.Context, tempToken string) error {
	c.io.Println()
	c.io.Println("Two-factor authentication required.")
	c.io.Println("Enter the code from your authenticator app.")
	c.io.Println("Type 'email' to receive a code by email, 'backup' to use a backup code.")

	isBackupCode := false
	for {
		input, err := c.io.ReadInput("Code: ")
		if err != nil {
			return fmt.Errorf("failed to read code: %w", err)
		}

		switch strings.ToLower(input) {
		case "email":
			if err := c.session.Send2FAEmail(ctx, tempToken); err != nil {
				c.io.Printf("Failed to send email code: %v\n", err)
				continue
			}
			c.io.Println("Code sent. Check your inbox.")
			continue
		case "backup":
			isBackupCode = true
			c.io.Println("Enter one of your backup codes.")
			continue
		case "":
			continue
		}

		if err := c.session.Verify2FA(ctx, tempToken, input, isBackupCode); err != nil {
			return fmt.Errorf("two-factor verification failed: %w", err)
		}
		return nil
	}
}
