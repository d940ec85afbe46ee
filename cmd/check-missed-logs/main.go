package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/config"
	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/coverage"
	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/repository"
	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/pkg/database"
	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/pkg/logger"
)

// check-missed-logs runs a coverage sweep from the command line and
// prints the open gap count per care home. Intended for cron and
// one-off operational checks.
func main() {
	careHomeID := flag.String("carehome", "", "sweep a single care home id (default: all)")
	dateStr := flag.String("date", "", "sweep date as YYYY-MM-DD (default: today)")
	flag.Parse()

	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, "console", "check-missed-logs")
	if err != nil {
		log, _ = zap.NewDevelopment()
	}
	defer log.Sync()

	var date time.Time
	if *dateStr != "" {
		parsed, err := time.Parse("2006-01-02", *dateStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -date %q: expected YYYY-MM-DD\n", *dateStr)
			os.Exit(1)
		}
		date = parsed
	}

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	careHomesRepo := repository.NewPostgresCareHomesRepository(db)
	serviceUsersRepo := repository.NewPostgresServiceUsersRepository(db)
	summariesRepo := repository.NewPostgresShiftSummariesRepository(db)
	gapsRepo := repository.NewPostgresCoverageGapsRepository(db)

	tracker := coverage.NewTracker(careHomesRepo, serviceUsersRepo, summariesRepo, gapsRepo,
		cfg.Location(), cfg.Coverage.BackfillWindowDays, log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if *careHomeID != "" {
		open, err := tracker.Sweep(ctx, *careHomeID, date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sweep failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("care home %s: %d open missed log(s)\n", *careHomeID, len(open))
		for _, gap := range open {
			fmt.Printf("  %s  %s  service user %s\n",
				gap.Date.Format("2006-01-02"), gap.Shift, gap.ServiceUserID)
		}
		return
	}

	reports, err := tracker.SweepAll(ctx, date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sweep failed: %v\n", err)
		os.Exit(1)
	}
	total := 0
	for _, report := range reports {
		fmt.Printf("%-40s %d open missed log(s)\n", report.CareHomeName, report.OpenGaps)
		total += report.OpenGaps
	}
	fmt.Printf("total: %d open missed log(s) across %d care home(s)\n", total, len(reports))
}
