// main.go
//
// Content editor and site server for a single-document static website
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of sitecms.
// sitecms is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// sitecms is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with sitecms.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.


package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/localnerve/sitecms/data"
	"github.com/localnerve/sitecms/internal/config"
	"github.com/localnerve/sitecms/internal/console"
	"github.com/localnerve/sitecms/internal/database"
	"github.com/localnerve/sitecms/internal/document"
	"github.com/localnerve/sitecms/internal/form"
	"github.com/localnerve/sitecms/internal/persist"
	"github.com/localnerve/sitecms/internal/remote"
	"github.com/localnerve/sitecms/internal/services"
	"github.com/localnerve/sitecms/internal/session"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	envFile string
	siteURL string
)

// app is everything a command needs, built once per invocation.
type app struct {
	cfg      *config.Config
	db       *gorm.DB
	settings *services.SettingsStore
	history  *services.SaveHistory
	term     *console.Terminal
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "siteadmin",
		Short:         "Edit the site document from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", os.Getenv("ENV_FILE"), "dotenv file to load before reading configuration")
	rootCmd.PersistentFlags().StringVar(&siteURL, "site-url", "", "site server base URL (overrides SITE_URL)")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "edit",
			Short: "Log in and edit the site document",
			RunE:  runEdit,
		},
		&cobra.Command{
			Use:   "login",
			Short: "Check the admin password and store a repository access token",
			RunE:  runLogin,
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Delete the stored repository access token",
			RunE:  runLogout,
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the site document as a form",
			RunE:  runShow,
		},
		historyCommand(),
		initCommand(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func historyCommand() *cobra.Command {
	var limit int
	var snapshot string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent saves, or print the document kept with one",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			if snapshot != "" {
				saved, err := a.history.Snapshot(cmd.Context(), snapshot)
				if err != nil {
					return err
				}
				a.term.Printf("%s\n", saved)
				return nil
			}

			rows, err := a.history.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				a.term.Printf("No saves recorded.\n")
			}
			for _, r := range rows {
				a.term.Printf("%s  %s  %-8s %-8s %s\n",
					r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.SaveID, r.Backend, r.State, r.Message)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of saves to list")
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "print the document saved by this save id")
	return cmd
}

func initCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter site document and 404 page into the site root",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			term := console.NewTerminal(os.Stdin, os.Stdout)

			if _, err := os.Stat(cfg.DataPath()); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to replace it", cfg.DataPath())
			}

			password, err := term.Secret("New admin password:")
			if err != nil {
				return err
			}
			again, err := term.Secret("Repeat admin password:")
			if err != nil {
				return err
			}
			if password == "" || password != again {
				return errors.New("passwords are empty or do not match")
			}

			doc, err := document.Parse(data.SeedDocument)
			if err != nil {
				return err
			}
			store := document.NewStore(doc)
			if err := store.Set(persist.PasswordHashPath, persist.Digest(password)); err != nil {
				return err
			}
			out, err := store.Snapshot()
			if err != nil {
				return err
			}

			if err := os.MkdirAll(cfg.SiteRoot, 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(cfg.DataPath(), out, 0o644); err != nil {
				return err
			}
			notFound := filepath.Join(cfg.SiteRoot, cfg.NotFoundPage)
			if _, err := os.Stat(notFound); errors.Is(err, os.ErrNotExist) {
				if err := os.WriteFile(notFound, data.SeedNotFoundPage, 0o644); err != nil {
					return err
				}
			}

			term.Printf("Wrote %s.\n", cfg.DataPath())
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing document")
	return cmd
}

func loadConfig() (*config.Config, error) {
	if err := config.LoadEnvFile(envFile); err != nil {
		return nil, err
	}
	if siteURL != "" {
		os.Setenv("SITE_URL", siteURL)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// setup loads configuration and opens the state database.
func setup() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		database.Close(db)
		return nil, fmt.Errorf("failed to migrate state database: %w", err)
	}

	return &app{
		cfg:      cfg,
		db:       db,
		settings: &services.SettingsStore{DB: db},
		history:  &services.SaveHistory{DB: db},
		term:     console.NewTerminal(os.Stdin, os.Stdout),
	}, nil
}

func (a *app) close() {
	if err := database.Close(a.db); err != nil {
		log.Printf("Failed to close state database: %v", err)
	}
}

func (a *app) target() remote.Target {
	return remote.Target{
		Owner:  a.cfg.GitHubOwner,
		Repo:   a.cfg.GitHubRepo,
		Path:   a.cfg.GitHubPath,
		Branch: a.cfg.GitHubBranch,
	}
}

// openSession fetches the published document and prefills the stored token.
func (a *app) openSession(ctx context.Context) (*session.Session, error) {
	sess := &session.Session{
		Source: &document.HTTPSource{URL: a.cfg.DocumentURL(), Client: a.cfg.HTTPClient()},
		Tokens: a.settings,
	}
	if a.cfg.RemoteConfigured() {
		sess.Check = func(ctx context.Context, token string) error {
			_, err := remote.NewClient(a.cfg.GitHubAPIURL, token, a.target(), a.cfg.RequestTimeout).Get(ctx)
			return err
		}
	}
	if err := sess.Open(ctx); err != nil {
		return nil, err
	}
	return sess, nil
}

// login asks for the admin password, and for a token when a remote is configured.
func (a *app) login(ctx context.Context, sess *session.Session) error {
	password, err := a.term.Secret("Admin password:")
	if err != nil {
		return err
	}

	var token string
	if a.cfg.RemoteConfigured() {
		prompt := "Repository access token (blank for none):"
		if sess.StoredToken() != "" {
			prompt = "Repository access token (blank to keep stored):"
		}
		if token, err = a.term.Secret(prompt); err != nil {
			return err
		}
	}

	return sess.Login(ctx, password, token)
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	sess, err := a.openSession(cmd.Context())
	if err != nil {
		return err
	}
	if err := a.login(cmd.Context(), sess); err != nil {
		return err
	}

	if sess.Token() != "" {
		a.term.Printf("Logged in. Saves go to %s/%s.\n", a.cfg.GitHubOwner, a.cfg.GitHubRepo)
	} else {
		a.term.Printf("Logged in. Saves go to %s.\n", a.cfg.SaveURL())
	}
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	if !a.term.Confirm(session.LogoutPrompt) {
		return nil
	}
	if err := a.settings.ClearToken(cmd.Context()); err != nil {
		return err
	}
	a.term.Printf("Logged out.\n")
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	sess, err := a.openSession(cmd.Context())
	if err != nil {
		return err
	}
	sync := form.NewSynchronizer(sess.Store())
	console.Render(os.Stdout, sync.Tree(), sync.IsInvalid)
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	sess, err := a.openSession(ctx)
	if err != nil {
		return err
	}
	if err := a.login(ctx, sess); err != nil {
		return err
	}

	sync := form.NewSynchronizer(sess.Store())

	backends := []persist.Backend{}
	if a.cfg.RemoteConfigured() {
		backends = append(backends, persist.NewRemoteBackend(a.cfg.GitHubAPIURL, a.target(), a.cfg.RequestTimeout, sess.Token))
	}
	backends = append(backends,
		&persist.LocalBackend{URL: a.cfg.SaveURL(), Client: a.cfg.HTTPClient()},
		&persist.DownloadBackend{Dir: a.cfg.DownloadDir},
	)

	editor := &console.Editor{
		Session: sess,
		Sync:    sync,
		Saver: &persist.Coordinator{
			Store:    sess.Store(),
			Validity: sync,
			Backends: backends,
			History:  a.history,
			Observe: func(s persist.State) {
				if s != persist.Idle {
					a.term.Printf("[%s]\n", s)
				}
			},
		},
		Term: a.term,
	}

	return editor.Run(ctx)
}
