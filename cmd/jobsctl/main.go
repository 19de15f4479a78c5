// Command jobsctl is the operator CLI for job triage and dead-letter
// replay: paginated job listing beyond the single dead-letter flow, and
// the replay/replay-all/replay-user/stats operations of spec §4.6,
// grounded on the teacher's admin job listing and dashboard counters.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	asynqadp "github.com/restorehq/control-plane/internal/adapter/queue/asynq"
	"github.com/restorehq/control-plane/internal/adapter/repo/postgres"
	"github.com/restorehq/control-plane/internal/config"
	"github.com/restorehq/control-plane/internal/domain"
	"github.com/restorehq/control-plane/internal/usecase"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		fatal(err)
	}
	defer pool.Close()

	jobRepo := postgres.NewJobRepo(pool)
	deadLetterRepo := postgres.NewDeadLetterRepo(pool)

	queue, err := asynqadp.New(cfg.RedisURL, cfg.QueueMaxAttempts)
	if err != nil {
		fatal(err)
	}
	ledgerRepo := postgres.NewLedgerRepo(pool)
	replaySvc := &usecase.ReplayService{Jobs: jobRepo, DeadLetters: deadLetterRepo, Ledger: ledgerRepo, Queue: queue}

	switch os.Args[1] {
	case "jobs":
		runJobs(ctx, os.Args[2:], jobRepo, deadLetterRepo)
	case "replay":
		runReplay(ctx, os.Args[2:], deadLetterRepo, replaySvc, cfg.DLQRetentionDays)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `jobsctl - operator CLI

Usage:
  jobsctl jobs list [--status=queued|running|succeeded|failed] [--limit=50] [--offset=0]
  jobsctl jobs stats
  jobsctl replay list [--limit=50] [--offset=0]
  jobsctl replay replay [--reason=""] <dead-letter-id>
  jobsctl replay replay-all
  jobsctl replay replay-user <owner-id>
  jobsctl replay cleanup`)
}

func runJobs(ctx context.Context, args []string, jobs domain.JobRepository, deadLetters domain.DeadLetterRepository) {
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}
	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("jobs list", flag.ExitOnError)
		status := fs.String("status", "", "filter by status")
		limit := fs.Int("limit", 50, "page size")
		offset := fs.Int("offset", 0, "page offset")
		_ = fs.Parse(args[1:])
		page, err := jobs.List(ctx, *offset, *limit, domain.JobStatus(*status))
		if err != nil {
			fatal(err)
		}
		emitYAML(page)
	case "stats":
		total, err := jobs.Count(ctx)
		if err != nil {
			fatal(err)
		}
		succeeded, _ := jobs.CountByStatus(ctx, domain.JobSucceeded)
		failed, _ := jobs.CountByStatus(ctx, domain.JobFailed)
		running, _ := jobs.CountByStatus(ctx, domain.JobRunning)
		avgMS, _ := jobs.AverageTotalMS(ctx)
		dlqTotal, dlqOldest, err := deadLetters.Stats(ctx)
		if err != nil {
			fatal(err)
		}
		emitYAML(map[string]interface{}{
			"jobs_total":         total,
			"jobs_succeeded":     succeeded,
			"jobs_failed":        failed,
			"jobs_running":       running,
			"average_total_ms":   avgMS,
			"dead_letter_total":  dlqTotal,
			"dead_letter_oldest": dlqOldest.String(),
		})
	default:
		usage()
		os.Exit(2)
	}
}

func runReplay(ctx context.Context, args []string, deadLetters domain.DeadLetterRepository, svc *usecase.ReplayService, retentionDays int) {
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}
	const operatorID = "jobsctl"
	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("replay list", flag.ExitOnError)
		limit := fs.Int("limit", 50, "page size")
		offset := fs.Int("offset", 0, "page offset")
		_ = fs.Parse(args[1:])
		entries, err := deadLetters.List(ctx, *offset, *limit)
		if err != nil {
			fatal(err)
		}
		emitYAML(entries)
	case "replay":
		fs := flag.NewFlagSet("replay", flag.ExitOnError)
		reason := fs.String("reason", "", "reason recorded in the replay audit trail")
		_ = fs.Parse(args[1:])
		rest := fs.Args()
		if len(rest) != 1 {
			usage()
			os.Exit(2)
		}
		if err := svc.Replay(ctx, rest[0], operatorID, *reason, domain.EnqueueOptions{}); err != nil {
			fatal(err)
		}
		fmt.Println("replayed", rest[0])
	case "replay-all":
		succeeded, failed, err := svc.ReplayAll(ctx, operatorID)
		if err != nil {
			fatal(err)
		}
		emitYAML(map[string]interface{}{"succeeded": succeeded, "failed": failed})
	case "replay-user":
		rest := args[1:]
		if len(rest) != 1 {
			usage()
			os.Exit(2)
		}
		succeeded, failed, err := svc.ReplayUser(ctx, rest[0], operatorID)
		if err != nil {
			fatal(err)
		}
		emitYAML(map[string]interface{}{"succeeded": succeeded, "failed": failed})
	case "cleanup":
		removed, err := cleanupExpired(ctx, deadLetters, retentionDays)
		if err != nil {
			fatal(err)
		}
		emitYAML(map[string]interface{}{"removed": removed, "retention_days": retentionDays})
	default:
		usage()
		os.Exit(2)
	}
}

// cleanupExpired removes dead-letter entries older than the configured
// retention window (spec §4.6, config's DLQ_RETENTION_DAYS), paging
// through the full set since there is no bulk purge port.
func cleanupExpired(ctx context.Context, deadLetters domain.DeadLetterRepository, retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	const pageSize = 100
	removed := 0
	offset := 0
	for {
		entries, err := deadLetters.List(ctx, offset, pageSize)
		if err != nil {
			return removed, err
		}
		if len(entries) == 0 {
			break
		}
		removedThisPage := 0
		for _, e := range entries {
			if e.FailedAt.Before(cutoff) {
				if err := deadLetters.Remove(ctx, e.ID); err != nil {
					return removed, err
				}
				removed++
				removedThisPage++
			}
		}
		// Removing entries shifts the list left, so only advance the offset
		// by the entries that remain; otherwise the next page would skip
		// over survivors that slid into the just-removed slots.
		if len(entries) < pageSize {
			break
		}
		offset += len(entries) - removedThisPage
	}
	return removed, nil
}

func emitYAML(v interface{}) {
	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	if err := enc.Encode(v); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "jobsctl:", err)
	os.Exit(1)
}
