package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/shopclient/internal/client/iocli"
	"github.com/iudanet/shopclient/internal/client/session"
)

// Cli связывает терминальные команды с session store.
// CLI играет роль внешнего UI слоя: читает наблюдаемое состояние
// и вызывает императивные операции store.
type Cli struct {
	io      iocli.IO
	session session.Store
}

func New(io iocli.IO, store session.Store) *Cli {
	return &Cli{
		io:      io,
		session: store,
	}
}

// Run выполняет команду.
// Перед любой командой загружается персистированное состояние —
// решения об авторизации до гидрации не принимаются.
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	if err := c.session.Hydrate(ctx); err != nil {
		return fmt.Errorf("failed to hydrate session: %w", err)
	}

	switch command {
	case "register":
		return c.runRegister(ctx)
	case "login":
		return c.runLogin(ctx)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "profile":
		return c.runProfile(ctx)
	case "update":
		return c.runUpdateProfile(ctx)
	case "social":
		return c.runSocial(ctx, args)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

func PrintUsage() {
	fmt.Println("Storefront Client")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  shopclient [OPTIONS] COMMAND")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version      Show version information")
	fmt.Println("  --server URL   API server URL (default: http://localhost:8000)")
	fmt.Println("  --db PATH      Path to local database (default: shopclient.db)")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  register               Create a new account")
	fmt.Println("  login                  Login with email and password")
	fmt.Println("  logout                 Logout and clear local session")
	fmt.Println("  status                 Show authentication status")
	fmt.Println("  profile                Show current profile")
	fmt.Println("  update                 Update profile fields")
	fmt.Println("  social list            List linked social accounts")
	fmt.Println("  social disconnect P    Disconnect social provider P")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  shopclient login")
	fmt.Println("  shopclient --server https://shop.example.com login")
	fmt.Println("  shopclient social disconnect google")
}
