package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spacesedan/commentsense/config"
	"github.com/spacesedan/commentsense/internal/analysis"
	"github.com/spacesedan/commentsense/internal/auth"
	"github.com/spacesedan/commentsense/internal/clients"
	"github.com/spacesedan/commentsense/internal/db"
	"github.com/spacesedan/commentsense/internal/models"
	"github.com/spacesedan/commentsense/internal/report"
	"github.com/spacesedan/commentsense/internal/sentiment"
	"github.com/spf13/cobra"
)

func analyzeCmd(cfg config.Config) *cobra.Command {
	var (
		videoURL    string
		age         int
		filter      string
		format      string
		maxComments int
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze the comments of a YouTube video",
		RunE: func(cmd *cobra.Command, args []string) error {
			bucket, err := sentiment.ParseBucket(filter)
			if err != nil {
				return err
			}
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			if maxComments > 0 {
				cfg.MaxComments = maxComments
			}
			ageSet := cmd.Flags().Changed("age")
			return runAnalyze(cmd.Context(), cfg, videoURL, ageSet, age, bucket, f)
		},
	}

	cmd.Flags().StringVar(&videoURL, "url", "", "YouTube video URL")
	cmd.Flags().IntVar(&age, "age", 0, "viewer age (default: age of the logged in viewer)")
	cmd.Flags().StringVar(&filter, "filter", string(sentiment.BucketAll), "show comments by sentiment: all, positive, neutral, negative")
	cmd.Flags().StringVar(&format, "format", string(report.FormatText), "output format: text, markdown, html, json, yaml")
	cmd.Flags().IntVar(&maxComments, "max", 0, "maximum comments to fetch (default: MAX_COMMENTS)")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func registerCmd(cfg config.Config) *cobra.Command {
	var in auth.RegisterInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a viewer account",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := authService(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if _, err := svc.Register(cmd.Context(), in); err != nil {
				return err
			}
			fmt.Println("Registration successful")
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "full name")
	cmd.Flags().StringVar(&in.Email, "email", "", "email address")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "phone number")
	cmd.Flags().IntVar(&in.Age, "age", 0, fmt.Sprintf("age (%d-%d)", auth.MIN_AGE, auth.MAX_AGE))
	cmd.Flags().StringVar(&in.Gender, "gender", "Other", "Male, Female or Other")
	cmd.Flags().StringVar(&in.Password, "password", "", "password")
	for _, f := range []string{"name", "email", "age", "password"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func loginCmd(cfg config.Config) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the viewer for later analyses",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := authService(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			session, err := svc.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			defer session.Close()

			if err := saveSession(session); err != nil {
				return err
			}
			fmt.Printf("Login successful. Logged in as %s\n", session.Viewer.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func logoutCmd(cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Invalidate the current login and forget the viewer",
		RunE: func(cmd *cobra.Command, args []string) error {
			stored, err := loadSession()
			if errors.Is(err, errNotLoggedIn) {
				fmt.Println("Not logged in")
				return nil
			}
			if err == nil {
				err = revokeSession(cmd.Context(), cfg, stored)
			}
			if err != nil {
				slog.Warn("[Main] Could not invalidate the stored login, forgetting it locally",
					slog.String("error", err.Error()))
			}

			if err := clearSession(); err != nil {
				return err
			}
			fmt.Println("Logged out")
			return nil
		},
	}
}

func whoamiCmd(cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in viewer",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := resumeSession(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer session.Close()
			fmt.Printf("Logged in as %s <%s>, age %d\n", session.Viewer.Name, session.Viewer.Email, session.Viewer.Age)
			return nil
		},
	}
}

func runAnalyze(ctx context.Context, cfg config.Config, videoURL string, ageSet bool, age int, bucket sentiment.Bucket, format report.Format) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var session *auth.Session
	if ageSet {
		if age < 0 {
			return fmt.Errorf("age must not be negative")
		}
		session = auth.NewSession(models.Viewer{Age: age})
	} else {
		s, err := resumeSession(ctx, cfg)
		if err != nil {
			return fmt.Errorf("%w (pass --age to analyze without logging in)", err)
		}
		session = s
	}
	defer session.Close()

	analyzer, cleanup, err := buildAnalyzer(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := analyzer.Analyze(ctx, session, analysis.Request{VideoURL: videoURL})
	switch {
	case errors.Is(err, sentiment.ErrScoringUnavailable):
		return fmt.Errorf("sentiment scoring is unavailable, analysis aborted: %w", err)
	case err != nil:
		return err
	}

	return report.Render(os.Stdout, result, format, bucket)
}

// buildAnalyzer wires the pipeline from configuration. The returned cleanup
// closes any connections it opened.
func buildAnalyzer(ctx context.Context, cfg config.Config) (*analysis.Analyzer, func(), error) {
	youtube := clients.NewYouTubeClient(cfg.YouTubeAPIKey, cfg.YouTubeAccessToken)

	var scorer sentiment.Scorer
	switch cfg.Scorer {
	case config.SCORER_REMOTE:
		scorer = sentiment.RemoteScorer{Service: clients.NewPolarityClient(cfg.PolarityServiceURL)}
	case config.SCORER_VADER:
		scorer = sentiment.NewVaderScorer()
	default:
		return nil, nil, fmt.Errorf("unknown scorer %q", cfg.Scorer)
	}

	analyzer := &analysis.Analyzer{
		Comments:     youtube,
		Descriptions: youtube,
		Scorer:       scorer,
		MaxComments:  cfg.MaxComments,
		Workers:      cfg.ScoringWorkers,
	}

	cleanup := func() {}
	if cfg.ValkeyAddress != "" {
		cache, err := clients.NewValkeyClient(ctx, clients.ValkeyOptions{
			Address:  cfg.ValkeyAddress,
			Password: cfg.ValkeyPassword,
			UseTLS:   cfg.ValkeyTLS,
			TTL:      cfg.CommentCacheTTL,
		})
		if err != nil {
			slog.Warn("[Main] Comment cache unavailable, continuing without it",
				slog.String("error", err.Error()))
		} else {
			analyzer.Cache = cache
			cleanup = cache.Close
		}
	}

	return analyzer, cleanup, nil
}

func authService(ctx context.Context, cfg config.Config) (*auth.Service, error) {
	client, err := clients.NewDynamoDBClient(ctx, cfg.AWSRegion, cfg.AWSEndpoint)
	if err != nil {
		return nil, err
	}
	return auth.NewService(db.NewDynamoViewerRepository(client, cfg.ViewersTable)), nil
}

func revokeSession(ctx context.Context, cfg config.Config, stored *storedSession) error {
	svc, err := authService(ctx, cfg)
	if err != nil {
		return err
	}
	return svc.Logout(ctx, stored.Email, stored.SessionID)
}

func resumeSession(ctx context.Context, cfg config.Config) (*auth.Session, error) {
	stored, err := loadSession()
	if err != nil {
		return nil, err
	}
	svc, err := authService(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return svc.Resume(ctx, stored.Email, stored.SessionID)
}
