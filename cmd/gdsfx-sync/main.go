// Command gdsfx-sync downloads the sound effect library into the game folder
// without starting the desktop app.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"

	"github.com/ytget/gdsfx/internal/cdn"
	"github.com/ytget/gdsfx/internal/config"
	"github.com/ytget/gdsfx/internal/download"
	"github.com/ytget/gdsfx/internal/library"
	"github.com/ytget/gdsfx/internal/model"
	"github.com/ytget/gdsfx/internal/platform"
)

func main() {
	overrides, err := config.ResolveOverrides()
	if err != nil {
		log.Fatalf("Error: %s", err)
	}

	defaultFolder := overrides.GameFolder
	if defaultFolder == "" {
		defaultFolder, _ = platform.GameFolder()
	}
	defaultCDN := overrides.CDNURL
	if defaultCDN == "" {
		defaultCDN = cdn.DefaultBaseURL
	}
	defaultParallel := config.DefaultMaxParallel
	if overrides.MaxParallel > 0 {
		defaultParallel = overrides.MaxParallel
	}

	var (
		folder    string
		cdnURL    string
		cache     string
		from      int
		to        int
		parallel  int
		force     bool
		list      bool
		deleteAll bool
		verbose   bool
	)

	flag.StringVar(&folder, "folder", defaultFolder, "Game folder sound files are written to")
	flag.StringVar(&cdnURL, "cdn", defaultCDN, "Base URL of the sound CDN")
	flag.StringVar(&cache, "cache", defaultCacheDir(), "Folder the library manifest is cached in")
	flag.IntVar(&from, "from", config.DefaultDownloadFrom, "First sound id to download")
	flag.IntVar(&to, "to", config.DefaultDownloadTo, "Download sound ids below this one")
	flag.IntVar(&parallel, "parallel", defaultParallel, "Number of parallel downloads")
	flag.BoolVar(&force, "force", false, "Fetch the library manifest even when the cache is current")
	flag.BoolVar(&list, "list", false, "Print library statistics and exit")
	flag.BoolVar(&deleteAll, "delete", false, "Delete every downloaded sound and exit")
	flag.BoolVar(&verbose, "v", false, "Log every request")
	flag.Parse()

	logger := log.New(io.Discard, "", 0)
	if verbose {
		logger = log.New(os.Stderr, "gdsfx-sync: ", log.LstdFlags)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := cdn.NewClient(cdnURL, cdn.WithLogger(logger))
	svc := download.NewService(client, folder, min(max(parallel, 1), config.MaxParallelLimit), logger)

	if deleteAll {
		deleted, err := svc.DeleteAll()
		fmt.Printf("Deleted %d sounds from %s\n", deleted, folder)
		if err != nil {
			log.Fatalf("Error: %s", err)
		}
		return
	}

	lib, err := library.NewLoader(client, cache, logger).Load(ctx, force)
	if err != nil {
		log.Fatalf("Cannot load library: %s", err)
	}

	if list {
		printStats(lib, svc)
		return
	}

	var sounds []*library.Entry
	for _, sound := range lib.Root.Sounds() {
		if sound.ID >= from && sound.ID < to && !svc.Exists(sound.ID) {
			sounds = append(sounds, sound)
		}
	}
	if len(sounds) == 0 {
		fmt.Println("All sounds are already downloaded")
		return
	}

	if failed := downloadSounds(ctx, svc, sounds); failed > 0 {
		log.Fatalf("%d of %d sounds failed to download", failed, len(sounds))
	}
}

// downloadSounds downloads sounds and returns how many failed
func downloadSounds(ctx context.Context, svc *download.Service, sounds []*library.Entry) int {
	bar := progressbar.NewOptions(len(sounds),
		progressbar.OptionSetDescription("Downloading sounds"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionClearOnFinish(),
	)

	svc.SetUpdateCallback(func(task *model.DownloadTask) {
		if !task.Status.IsFinished() {
			return
		}
		if task.Status != model.TaskStatusCompleted {
			fmt.Fprintf(os.Stderr, "\n%s (%d): %s\n", task.GetDisplayTitle(), task.SoundID, task.LastError)
		}
		_ = bar.Add(1)
	})

	failed := 0
	for _, sound := range sounds {
		if _, err := svc.AddTask(sound); err != nil {
			log.Printf("Cannot queue sound %d: %s", sound.ID, err)
			failed++
		}
	}

	if err := svc.Wait(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "\nInterrupted, stopping downloads...")
			for _, task := range svc.GetAllTasks() {
				_ = svc.StopTask(task.ID)
			}
			_ = svc.Wait(context.Background())
		}
		return len(sounds)
	}
	_ = bar.Finish()

	for _, task := range svc.GetAllTasks() {
		if task.Status != model.TaskStatusCompleted {
			failed++
		}
	}
	fmt.Printf("Downloaded %d sounds\n", len(sounds)-failed)
	return failed
}

func printStats(lib *library.Library, svc *download.Service) {
	stats := library.Aggregate(lib.Root)
	downloaded := 0
	for _, sound := range lib.Root.Sounds() {
		if svc.Exists(sound.ID) {
			downloaded++
		}
	}

	fmt.Printf("Library version: %d\n", lib.Version)
	fmt.Printf("Files:           %s\n", humanize.Comma(stats.Files))
	fmt.Printf("Size:            %s\n", stats.FormatBytes())
	fmt.Printf("Duration:        %ss\n", stats.FormatDuration())
	fmt.Printf("Downloaded:      %s\n", humanize.Comma(int64(downloaded)))
	if lib.Orphans > 0 {
		fmt.Printf("Dropped records: %d\n", lib.Orphans)
	}
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "gdsfx")
}
