package common

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/banner"
)

// PrintBanner displays the application startup banner
func PrintBanner(config *Config, logger arbor.ILogger) {
	version := GetVersion()
	build := BuildTime

	b := banner.New().
		SetStyle(banner.StyleDouble).
		SetBorderColor(banner.ColorGreen).
		SetTextColor(banner.ColorWhite).
		SetBold(true).
		SetWidth(80)

	fmt.Printf("\n")
	b.PrintTopLine()
	b.PrintCenteredText("LINKCHECK")
	b.PrintCenteredText("Concurrent Link Checker")
	b.PrintSeparatorLine()
	b.PrintKeyValue("Version", version, 15)
	b.PrintKeyValue("Build", build, 15)
	b.PrintKeyValue("Environment", config.Environment, 15)
	b.PrintKeyValue("Inputs", fmt.Sprintf("%d", len(config.Run.Inputs)), 15)
	b.PrintBottomLine()
	fmt.Printf("\n")

	logger.Info().
		Str("version", version).
		Str("build", build).
		Str("environment", config.Environment).
		Int("inputs", len(config.Run.Inputs)).
		Msg("Application started")

	fmt.Printf("Configuration:\n")
	fmt.Printf("   - max_concurrency: %d (per host: %d)\n", config.Run.MaxConcurrency, config.Run.MaxConcurrencyPerHost)
	fmt.Printf("   - method: %s\n", config.Run.Method)
	fmt.Printf("   - cache: %v\n", config.Cache.Enabled)

	logger.Info().
		Int("max_concurrency", config.Run.MaxConcurrency).
		Int("max_concurrency_per_host", config.Run.MaxConcurrencyPerHost).
		Str("method", config.Run.Method).
		Bool("cache_enabled", config.Cache.Enabled).
		Msg("Configuration loaded")

	printCapabilities(config, logger)
	fmt.Printf("\n")
}

// printCapabilities displays the enabled optional checks
func printCapabilities(config *Config, logger arbor.ILogger) {
	fmt.Printf("Enabled checks:\n")

	enabled := []string{}
	if config.Run.IncludeFragments {
		fmt.Printf("   - fragment verification\n")
		enabled = append(enabled, "fragments")
	}
	if config.Run.IncludeMail {
		fmt.Printf("   - mail (SMTP) reachability\n")
		enabled = append(enabled, "mail")
	}
	if config.Run.IncludeVerbatim {
		fmt.Printf("   - verbatim plaintext link scanning\n")
		enabled = append(enabled, "verbatim")
	}
	if config.Schedule.Enabled {
		fmt.Printf("   - scheduled re-checks (%s)\n", config.Schedule.Cron)
		enabled = append(enabled, "schedule")
	}
	if len(enabled) == 0 {
		fmt.Printf("   - (none beyond the base GET/HEAD reachability check)\n")
	}

	logger.Info().Strs("enabled_checks", enabled).Msg("Capabilities")
}

// PrintShutdownBanner displays the application shutdown banner
func PrintShutdownBanner(logger arbor.ILogger) {
	b := banner.New().
		SetStyle(banner.StyleDouble).
		SetBorderColor(banner.ColorGreen).
		SetTextColor(banner.ColorWhite).
		SetBold(true).
		SetWidth(42)

	b.PrintTopLine()
	b.PrintCenteredText("RUN COMPLETE")
	b.PrintCenteredText("LINKCHECK")
	b.PrintBottomLine()
	fmt.Println()

	logger.Info().Msg("Application shutting down")
}

// PrintColorizedMessage prints a message with specified color to stdout; it does not log
// (the logger argument is unused, and the PrintX helpers log separately)
func PrintColorizedMessage(color, message string, logger arbor.ILogger) {
	fmt.Printf("%s%s%s\n", color, message, banner.ColorReset)
}

// PrintSuccess prints a success message in green and logs it
func PrintSuccess(message string) {
	logger := GetLogger()
	PrintColorizedMessage(banner.ColorGreen, fmt.Sprintf("[ok] %s", message), logger)
	logger.Info().Str("type", "success").Msg(message)
}

// PrintError prints an error message in red and logs it
func PrintError(message string) {
	logger := GetLogger()
	PrintColorizedMessage(banner.ColorRed, fmt.Sprintf("[fail] %s", message), logger)
	logger.Error().Str("type", "error").Msg(message)
}

// PrintWarning prints a warning message in yellow and logs it
func PrintWarning(message string) {
	logger := GetLogger()
	PrintColorizedMessage(banner.ColorYellow, fmt.Sprintf("[warn] %s", message), logger)
	logger.Warn().Str("type", "warning").Msg(message)
}

// PrintInfo prints an info message in cyan and logs it
func PrintInfo(message string) {
	logger := GetLogger()
	PrintColorizedMessage(banner.ColorCyan, fmt.Sprintf("[info] %s", message), logger)
	logger.Info().Str("type", "info").Msg(message)
}
