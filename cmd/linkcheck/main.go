package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/linkcheck/internal/common"
	"github.com/ternarybob/linkcheck/internal/httpclient"
	"github.com/ternarybob/linkcheck/internal/models"
	"github.com/ternarybob/linkcheck/internal/services/aggregator"
	"github.com/ternarybob/linkcheck/internal/services/cache"
	"github.com/ternarybob/linkcheck/internal/services/checker"
	"github.com/ternarybob/linkcheck/internal/services/collector"
	"github.com/ternarybob/linkcheck/internal/services/filter"
	"github.com/ternarybob/linkcheck/internal/services/governor"
	"github.com/ternarybob/linkcheck/internal/services/mail"
	"github.com/ternarybob/linkcheck/internal/services/quirks"
	"github.com/ternarybob/linkcheck/internal/services/scheduler"
	badgerstore "github.com/ternarybob/linkcheck/internal/storage/badger"
)

var (
	configFiles []string
	extraInputs []string
	showVersion bool
	watchOnce   bool
)

func init() {
	pflag.StringArrayVarP(&configFiles, "config", "c", nil, "configuration file path (repeatable, later files override earlier ones)")
	pflag.StringArrayVarP(&extraInputs, "input", "i", nil, "an input to check: URL, file path, glob pattern, or '-' for stdin (repeatable, added to config file's run.inputs)")
	pflag.BoolVarP(&showVersion, "version", "v", false, "print version information")
	pflag.BoolVar(&watchOnce, "no-watch", false, "run once even if schedule.enabled is set in config")
}

func main() {
	pflag.Parse()

	if showVersion {
		fmt.Printf("linkcheck version %s\n", common.GetVersion())
		os.Exit(0)
	}

	common.InstallCrashHandler("./logs")
	defer common.RecoverWithCrashFile()

	var configPath string
	if len(configFiles) > 0 {
		configPath = configFiles[len(configFiles)-1]
	}

	config, err := common.LoadFromFile(configPath)
	if err != nil {
		tmp := arbor.NewLogger()
		tmp.Fatal().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}
	config.Run.Inputs = append(config.Run.Inputs, extraInputs...)

	logger := common.SetupLogger(config)
	common.PrintBanner(config, logger)

	if len(config.Run.Inputs) == 0 {
		logger.Fatal().Msg("No inputs configured — pass --input or set run.inputs in the config file")
		os.Exit(1)
	}

	httpClient, err := httpclient.New(httpclient.Options{Timeout: config.Run.Timeout})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build HTTP client")
	}

	f := filter.New(filter.Config{
		Include:          config.Filter.Include,
		Exclude:          config.Filter.Exclude,
		Schemes:          config.Run.Schemes,
		ExcludePrivate:   config.Filter.ExcludePrivate,
		ExcludeLinkLocal: config.Filter.ExcludeLinkLocal,
		ExcludeLoopback:  config.Filter.ExcludeLoopback,
		ExcludeMail:      config.Filter.ExcludeMail,
		ExcludeFile:      config.Filter.ExcludeFile,
		ExcludePath:      config.Filter.ExcludePath,
		IncludeVerbatim:  config.Run.IncludeVerbatim,
	}, logger)

	respCache, closeCache := buildCache(config, logger)
	defer closeCache()

	gov := governor.New(config.Run.MaxConcurrency, config.Run.MaxConcurrencyPerHost, config.Run.RequestsPerSecond)
	quirksReg := quirks.Default()

	mailChecker := &mail.Checker{
		ProbeSMTP:  config.Run.IncludeMail,
		Timeout:    config.Run.Timeout,
		HeloDomain: "linkcheck.local",
	}

	checkerCfg := checker.Config{
		Method:               models.Method(config.Run.Method),
		AcceptedStatusCodes:  toCodeSet(config.Run.AcceptedStatusCodes),
		MaxRedirects:         config.Run.MaxRedirects,
		RequestTimeout:       config.Run.Timeout,
		IncludeFragments:     config.Run.IncludeFragments,
		IncludeMail:          config.Run.IncludeMail,
		UserAgent:            config.Run.UserAgent,
		Headers:              config.Run.Headers,
		GithubToken:          models.NewSecret(config.Run.GithubToken),
		MaxRetries:           &config.Run.MaxRetries,
		RetryWaitTime:        config.Run.RetryWaitTime,
		RetryWaitTimeMax:     config.Run.RetryWaitTimeMax,
		RetryableStatusCodes: config.Run.RetryableStatusCodes,
	}
	if config.Run.BasicAuthUser != "" {
		checkerCfg.BasicAuth = &models.Credentials{
			BasicAuthUser:   config.Run.BasicAuthUser,
			BasicAuthSecret: models.NewSecret(config.Run.BasicAuthSecret),
		}
	}

	client := checker.New(httpClient, f, respCache, gov, quirksReg, mailChecker, checkerCfg, logger)
	coll := collector.New(httpClient, config.Run.IncludeVerbatim, logger)

	runOnce := func() error {
		return runPipeline(context.Background(), coll, client, config, logger)
	}

	if config.Schedule.Enabled && !watchOnce {
		sched := scheduler.New(logger, runOnce)
		if err := sched.Start(config.Schedule.Cron); err != nil {
			logger.Fatal().Err(err).Msg("Failed to start scheduler")
		}
		sched.TriggerNow()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		sched.Stop()
	} else {
		if err := runOnce(); err != nil {
			logger.Error().Err(err).Msg("Run failed")
		}
	}

	saveCache(config, respCache, logger)
	common.PrintShutdownBanner(logger)
	common.Stop()
}

// runPipeline streams every input's yielded requests through a bounded pool
// of checker workers: the collector's yield callback is the producer,
// feeding a buffered channel that workers (wrapped in common.SafeGo so a
// panic in one checked link doesn't take down the run) drain concurrently,
// giving internal/services/governor's global/per-host semaphores (C8)
// actual concurrent contention to bound rather than a single caller moving
// through requests one at a time.
func runPipeline(ctx context.Context, coll *collector.Collector, client *checker.Client, config *common.Config, logger arbor.ILogger) error {
	agg := aggregator.New()

	workers := config.Run.MaxConcurrency
	if workers <= 0 {
		workers = 1
	}

	reqCh := make(chan models.Request, workers*2)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		workerName := fmt.Sprintf("checker-worker-%d", i)
		common.SafeGo(logger, workerName, func() {
			defer wg.Done()
			for req := range reqCh {
				resp := client.Check(ctx, req)
				agg.Record(resp)
				logReq(logger, req, resp)
			}
		})
	}

	for _, raw := range config.Run.Inputs {
		in := classifyInput(raw)
		err := coll.Collect(ctx, in, func(req models.Request) {
			select {
			case reqCh <- req:
			case <-ctx.Done():
			}
		})
		if err != nil {
			logger.Warn().Err(err).Str("input", raw).Msg("Failed to collect input")
		}
	}
	close(reqCh)
	wg.Wait()

	printSummary(agg.Stats())
	return nil
}

func logReq(logger arbor.ILogger, req models.Request, resp models.Response) {
	event := logger.Info()
	if resp.Status.IsFailure() {
		event = logger.Warn()
	}
	event.Str("uri", req.Uri.String()).Str("source", req.Source).Str("status", resp.Status.String()).Msg("Checked link")
}

func printSummary(stats models.Stats) {
	fmt.Printf("\nSummary:\n")
	fmt.Printf("   Total:       %d\n", stats.Total)
	fmt.Printf("   Successful:  %d (redirected: %d)\n", stats.Successful, stats.Redirected)
	fmt.Printf("   Cached:      %d\n", stats.Cached)
	fmt.Printf("   Excluded:    %d\n", stats.Excluded)
	fmt.Printf("   Unsupported: %d\n", stats.Unsupported)
	fmt.Printf("   Failed:      %d (timeouts: %d)\n", stats.Failed, stats.Timeouts)
	fmt.Printf("   Retries:     %d\n", stats.Retries)
	for _, f := range stats.Failures {
		fmt.Printf("   FAIL %s (%s): %s\n", f.Uri.String(), f.RequestSource, f.Status.String())
	}
}

func buildCache(config *common.Config, logger arbor.ILogger) (*cache.Cache, func()) {
	if !config.Cache.Enabled {
		return cache.New(config.Cache.MaxCacheAge, config.Cache.MaxCacheAgeError, nil, logger), func() {}
	}

	var store cache.Store
	var db *badgerstore.DB
	if config.Cache.BadgerPath != "" {
		var err error
		db, err = badgerstore.Open(logger, badgerstore.Config{Path: config.Cache.BadgerPath, ResetOnStartup: config.Cache.ResetOnStartup})
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to open badger cache store, falling back to in-memory cache")
		} else {
			store = badgerstore.NewCacheStore(db)
		}
	}

	c := cache.New(config.Cache.MaxCacheAge, config.Cache.MaxCacheAgeError, store, logger)
	if config.Cache.Path != "" {
		if err := c.LoadCSV(config.Cache.Path); err != nil {
			logger.Warn().Err(err).Str("path", config.Cache.Path).Msg("Failed to load cache snapshot")
		}
	}

	return c, func() {
		if db != nil {
			db.Close()
		}
	}
}

func saveCache(config *common.Config, c *cache.Cache, logger arbor.ILogger) {
	if !config.Cache.Enabled || config.Cache.Path == "" {
		return
	}
	if err := c.SaveCSV(config.Cache.Path); err != nil {
		logger.Warn().Err(err).Str("path", config.Cache.Path).Msg("Failed to save cache snapshot")
	}
}

func toCodeSet(codes []int) map[int]bool {
	if len(codes) == 0 {
		return nil
	}
	set := make(map[int]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	return set
}

// classifyInput turns one run.inputs string into a models.Input, inferring
// its kind from simple lexical cues rather than requiring the user to tag
// each entry: "-" is stdin, anything with "://" is a remote URL, anything
// containing a glob meta-character is a filesystem glob, an existing
// directory becomes the glob "<dir>/**/*", and everything else is treated
// as a plain file path.
func classifyInput(raw string) models.Input {
	switch {
	case raw == "-":
		return models.Input{Kind: models.InputKindStdin}
	case strings.Contains(raw, "://"):
		return models.Input{Kind: models.InputKindRemoteURL, RemoteURL: raw}
	case strings.ContainsAny(raw, "*?["):
		return models.Input{Kind: models.InputKindFsGlob, GlobPattern: raw}
	default:
		if info, err := os.Stat(raw); err == nil && info.IsDir() {
			return models.Input{Kind: models.InputKindFsGlob, GlobPattern: raw + "/**/*"}
		}
		return models.Input{Kind: models.InputKindFsPath, Path: raw}
	}
}
