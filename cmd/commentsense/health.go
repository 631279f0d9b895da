package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spacesedan/commentsense/config"
	"github.com/spacesedan/commentsense/internal/clients"
	"github.com/spacesedan/commentsense/internal/db"
	"github.com/spacesedan/commentsense/internal/monitoring"
	"github.com/spf13/cobra"
)

func healthCmd(cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the YouTube API, scorer, cache and viewer table are reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses := monitoring.RunChecks(cmd.Context(), healthChecks(cmd.Context(), cfg)...)
			printStatuses(os.Stdout, statuses)
			if !monitoring.AllHealthy(statuses) {
				return errors.New("one or more dependencies are unhealthy")
			}
			return nil
		},
	}
}

func healthChecks(ctx context.Context, cfg config.Config) []monitoring.Check {
	youtube := clients.NewYouTubeClient(cfg.YouTubeAPIKey, cfg.YouTubeAccessToken)
	checks := []monitoring.Check{{Name: "youtube", Probe: youtube.HealthCheck}}

	if cfg.Scorer == config.SCORER_REMOTE {
		checks = append(checks, monitoring.Check{
			Name:  "polarity-service",
			Probe: clients.NewPolarityClient(cfg.PolarityServiceURL).HealthCheck,
		})
	}

	if cfg.ValkeyAddress != "" {
		checks = append(checks, monitoring.Check{Name: "valkey", Probe: func(pctx context.Context) error {
			cache, err := clients.NewValkeyClient(pctx, clients.ValkeyOptions{
				Address:  cfg.ValkeyAddress,
				Password: cfg.ValkeyPassword,
				UseTLS:   cfg.ValkeyTLS,
				TTL:      cfg.CommentCacheTTL,
			})
			if err != nil {
				return err
			}
			defer cache.Close()
			return cache.Ping(pctx)
		}})
	}
	checks = append(checks, monitoring.Check{Name: "dynamodb", Probe: func(pctx context.Context) error {
		client, err := clients.NewDynamoDBClient(pctx, cfg.AWSRegion, cfg.AWSEndpoint)
		if err != nil {
			return err
		}
		return db.TableHealthCheck(client, cfg.ViewersTable)(pctx)
	}})
	return checks
}

func printStatuses(w io.Writer, statuses []monitoring.Status) {
	for _, s := range statuses {
		if s.Healthy {
			fmt.Fprintf(w, "%-18s ok (%s)\n", s.Name, s.Elapsed.Round(time.Millisecond))
			continue
		}
		fmt.Fprintf(w, "%-18s FAIL %s\n", s.Name, s.Error)
	}
}
