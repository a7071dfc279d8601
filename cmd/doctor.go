package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/posterbot/internal/config"
	"github.com/nextlevelbuilder/posterbot/internal/tmdb"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check environment and configuration health",
		Run: func(cmd *cobra.Command, args []string) {
			runDoctor()
		},
	}
}

func runDoctor() {
	fmt.Println("posterbot doctor")
	fmt.Printf("  Version:  %s\n", Version)
	fmt.Printf("  OS:       %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Printf("  Go:       %s\n", runtime.Version())
	fmt.Println()

	cfgPath := resolveConfigPath()
	fmt.Printf("  Config:   %s", cfgPath)
	if _, err := os.Stat(cfgPath); err != nil {
		fmt.Println(" (NOT FOUND, using defaults + env)")
	} else {
		fmt.Println(" (OK)")
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("  Config load error: %s\n", err)
		return
	}

	fmt.Println()
	fmt.Println("  Credentials:")
	checkCredential("Telegram", cfg.Telegram.Token)
	checkCredential("TMDb", cfg.TMDB.APIKey)

	fmt.Println()
	fmt.Println("  Polling:")
	fmt.Printf("    %-12s %ds\n", "Timeout:", cfg.Poll.TimeoutSec)
	fmt.Printf("    %-12s %d\n", "Batch:", cfg.Poll.BatchLimit)
	fmt.Printf("    %-12s %d failures, then %ds cooldown\n", "Backoff:", cfg.Poll.MaxFailures, cfg.Poll.CooldownSec)

	// One cheap live call proves the key, endpoint, and network at once.
	if cfg.TMDB.APIKey != "" {
		fmt.Println()
		fmt.Print("  Catalog:  ")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := tmdb.NewClient(cfg.TMDB).TrendingMovies(ctx); err != nil {
			fmt.Printf("UNREACHABLE (%s)\n", err)
		} else {
			fmt.Println("OK")
		}
	}

	fmt.Println()
	fmt.Println("Doctor check complete.")
}

func checkCredential(name, secret string) {
	if secret == "" {
		fmt.Printf("    %-12s (not configured)\n", name+":")
		return
	}
	masked := secret
	if len(secret) > 8 {
		masked = secret[:4] + strings.Repeat("*", len(secret)-8) + secret[len(secret)-4:]
	}
	fmt.Printf("    %-12s %s\n", name+":", masked)
}
