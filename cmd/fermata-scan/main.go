// Headless library scanner: refreshes the track cache from the
// configured sources without starting the player. Useful from cron or
// after moving files around.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/jvautrin/fermata/internal/config"
	"github.com/jvautrin/fermata/internal/library"
	"github.com/jvautrin/fermata/internal/state"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fermata-scan: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	sources := cfg.Sources()
	if len(sources) == 0 {
		return fmt.Errorf("no library_sources or default_folder configured")
	}

	stateMgr, err := state.Open()
	if err != nil {
		return fmt.Errorf("opening state database: %w", err)
	}
	defer stateMgr.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	lib := library.New(stateMgr.DB())
	stats, err := lib.Refresh(ctx, sources, printProgress)
	if err != nil {
		return fmt.Errorf("scanning: %w", err)
	}

	fmt.Println()
	printStats(stats)

	total, err := lib.TrackCount()
	if err != nil {
		return err
	}
	fmt.Printf("library: %s tracks\n", humanize.Comma(int64(total)))
	return nil
}

func printProgress(p library.ScanProgress) {
	switch p.Phase {
	case "scanning":
		fmt.Println("scanning sources...")
	case "processing":
		if p.Total > 0 {
			fmt.Printf("\rprocessing %d/%d  %s\033[K", p.Current, p.Total, p.CurrentFile)
		}
	case "cleaning":
		fmt.Print("\rcleaning up removed files...\033[K")
	}
}

func printStats(stats *library.ScanStats) {
	sources := make([]string, 0, len(stats.BySource))
	for source := range stats.BySource {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	for _, source := range sources {
		s := stats.BySource[source]
		fmt.Printf("%s: %d added, %d updated, %d removed\n",
			source, s.Added, s.Updated, s.Removed)
	}
}
