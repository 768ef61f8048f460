package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/goliatone/go-print"
	"github.com/spf13/cobra"

	"admindash/auth"
	"admindash/internal/config"
	"admindash/internal/persistence"
	"admindash/internal/server"
)

func newUserAddCmd() *cobra.Command {
	var (
		username   string
		email      string
		name       string
		password   string
		role       string
		phone      string
		printToken bool
	)

	cmd := &cobra.Command{
		Use:   "useradd",
		Short: "Create a dashboard account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserAdd(cmd.Context(), auth.RegisterUserMessage{
				Username: username,
				Email:    email,
				Name:     name,
				Password: password,
				Role:     role,
				Phone:    phone,
			}, printToken)
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "account username")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&role, "role", string(auth.RoleMember), "account role")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	cmd.Flags().BoolVar(&printToken, "print-token", false, "print an access token for the new account")

	return cmd
}

func runUserAdd(ctx context.Context, message auth.RegisterUserMessage, printToken bool) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	logger := server.NewLogger(slog.LevelWarn)
	authLog := server.NewAuthLogger(logger)

	db, err := persistence.Open(ctx, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := persistence.Migrate(ctx, db); err != nil {
		return err
	}

	repo := auth.NewRepositoryManager(db)
	hasher := auth.NewPasswordHasher(cfg.GetBcryptCost())

	handler := auth.NewRegisterUserHandler(repo, hasher, authLog)
	user, err := handler.Execute(ctx, message)
	if err != nil {
		return err
	}

	fmt.Println(print.MaybePrettyJSON(user.Public()))

	if printToken {
		provider := auth.NewUserProvider(repo.Users(), hasher, authLog)
		tokens := auth.NewTokenService(
			[]byte(cfg.GetSigningKey()),
			cfg.GetTokenExpiration(),
			cfg.GetIssuer(),
			cfg.GetAudience(),
			authLog,
		)
		auther := auth.NewAuthenticator(provider, tokens, authLog)

		token, err := auther.Impersonate(ctx, user.Email)
		if err != nil {
			return err
		}
		fmt.Println(token)
	}

	return nil
}
