package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runSocial(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: shopclient social <list|disconnect PROVIDER>")
	}

	switch args[0] {
	case "list":
		return c.runSocialList(ctx)
	case "disconnect":
		if len(args) < 2 {
			return fmt.Errorf("usage: shopclient social disconnect PROVIDER")
		}
		return c.runSocialDisconnect(ctx, args[1])
	default:
		return fmt.Errorf("unknown social subcommand: %s", args[0])
	}
}

func (c *Cli) runSocialList(ctx context.Context) error {
	c.io.Println("=== Linked Accounts ===")
	c.io.Println()

	if !c.session.IsAuthenticated() {
		return fmt.Errorf("not authenticated, run 'shopclient login' first")
	}

	// Ошибки запроса store только логирует, список останется пустым
	c.session.FetchSocialAccounts(ctx)

	accounts := c.session.SocialAccounts()
	if len(accounts) == 0 {
		c.io.Println("No linked accounts.")
		return nil
	}

	for _, acc := range accounts {
		c.io.Printf("%-10s linked %s\n", acc.Provider, acc.ConnectedAt.Format("2006-01-02"))
	}

	return nil
}

func (c *Cli) runSocialDisconnect(ctx context.Context, provider string) error {
	if !c.session.IsAuthenticated() {
		return fmt.Errorf("not authenticated, run 'shopclient login' first")
	}

	if err := c.session.DisconnectSocialAccount(ctx, provider); err != nil {
		return fmt.Errorf("failed to disconnect %s: %w", provider, err)
	}

	c.io.Printf("✓ Disconnected %s.\n", provider)

	return nil
}
