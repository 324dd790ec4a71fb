package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/opsroster/scheduler/config"
	"github.com/opsroster/scheduler/internal/dto"
	"github.com/opsroster/scheduler/internal/repository"
	"github.com/opsroster/scheduler/internal/scheduling"
	"github.com/opsroster/scheduler/internal/service"
	"github.com/opsroster/scheduler/pkg/database"
	applogger "github.com/opsroster/scheduler/pkg/logger"
)

// recalc-fairness rebuilds the persisted fairness ledger snapshot from
// assignment history as of a given date. Operators reach for it after a
// bulk assignment correction or an incident that left the ledger
// inconsistent with what Recompute would derive fresh.
//
// -inspect-schedule is a read-only diagnostic: it dumps a schedule's
// audit log to stdout without touching the ledger, for operators who
// need to check a generation's selection trail from a shell rather than
// the API.
func main() {
	asOf := flag.String("as-of", "", "recompute the ledger as of this date (YYYY-MM-DD), defaults to today")
	inspectSchedule := flag.String("inspect-schedule", "", "print the audit log for this schedule ID and exit, skipping recompute")
	flag.Parse()

	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var asOfDate time.Time
	if *asOf == "" {
		asOfDate = time.Now().UTC()
	} else {
		asOfDate, err = time.Parse("2006-01-02", *asOf)
		if err != nil {
			logger.Fatal("invalid -as-of date", zap.String("value", *asOf), zap.Error(err))
		}
	}

	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	logger.Info("database connected")

	repo := repository.NewRepository(db)

	if *inspectSchedule != "" {
		entries, err := repo.AuditEntry.ListBySchedule(context.Background(), *inspectSchedule)
		if err != nil {
			logger.Fatal("list audit entries failed", zap.Error(err))
		}
		for _, e := range entries {
			chosen := ""
			if e.ChosenMemberID != nil {
				chosen = *e.ChosenMemberID
			}
			fmt.Printf("%s  kind=%s  shift=%s  chosen=%s  tie_break=%s  candidates=%d  warnings=%v\n",
				e.CreatedAt.Format(time.RFC3339), e.Kind, e.ShiftLabel, chosen, e.TieBreakReason, len(e.Candidates), e.Warnings)
		}
		if closeDB, _ := db.DB(); closeDB != nil {
			closeDB.Close()
		}
		return
	}

	schedCfg := scheduling.SchedulingConfig{
		Timezone:           cfg.Scheduling.Timezone,
		FairnessWindowDays: cfg.Scheduling.FairnessWindowDays,
		Plan:               scheduling.CanonicalDayShiftPlan(),
	}
	fairnessSvc := service.NewFairnessService(repo, schedCfg, logger)

	n, err := fairnessSvc.Recompute(context.Background(), &dto.RecomputeFairnessRequest{AsOf: asOfDate})
	if err != nil {
		logger.Fatal("recompute failed", zap.Error(err))
	}

	logger.Info("fairness ledger recomputed",
		zap.String("as_of", asOfDate.Format("2006-01-02")),
		zap.Int("rows_written", n),
	)

	if closeDB, _ := db.DB(); closeDB != nil {
		closeDB.Close()
	}
}
