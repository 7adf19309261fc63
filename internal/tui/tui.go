package tui

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"sitegrab/internal/app"
	"sitegrab/internal/config"
	"sitegrab/internal/fetch"
)

type Result struct {
	Options    app.Options
	SaveConfig bool
	ConfigPath string
	Config     config.Config
	RunNow     bool
}

func Run() (Result, error) {
	printBanner()
	state := newFormState()

	if err := manageConfigs(state); err != nil {
		return Result{}, err
	}

	form := buildForm(state).WithTheme(huh.ThemeDracula())
	if err := form.Run(); err != nil {
		return Result{}, err
	}

	return buildResult(state)
}

func printBanner() {
	fmt.Print(`
      _ _                       _
  ___(_) |_ ___  __ _ _ __ __ _| |__
 / __| | __/ _ \/ _` + "`" + ` | '__/ _` + "`" + ` | '_ \
 \__ \ | ||  __/ (_| | | | (_| | |_) |
 |___/_|\__\___|\__, |_|  \__,_|_.__/
                |___/
`)
}

func manageConfigs(state *formState) error {
	for {
		files, err := listConfigFiles()
		if err != nil {
			return fmt.Errorf("failed to list configs: %w", err)
		}

		if len(files) == 0 {
			return nil // No configs, just proceed
		}

		var selectedFile string
		opts := []huh.Option[string]{
			huh.NewOption("Start fresh (no config)", ""),
		}
		for _, f := range files {
			opts = append(opts, huh.NewOption(fmt.Sprintf("Manage %s", f), f))
		}

		selectForm := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Manage Configurations").
					Description("Select a config to load or manage, or start fresh.").
					Options(opts...).
					Value(&selectedFile),
			),
		).WithTheme(huh.ThemeDracula())

		if err := selectForm.Run(); err != nil {
			return err // User cancelled
		}

		if selectedFile == "" {
			return nil // User chose to start fresh
		}

		var action string
		actionForm := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title(fmt.Sprintf("Action for %s", selectedFile)).
					Options(
						huh.NewOption("Load this config", "load"),
						huh.NewOption("Rename this config", "rename"),
						huh.NewOption("Clone this config", "clone"),
						huh.NewOption("Delete this config", "delete"),
						huh.NewOption("Back to list", "back"),
					).
					Value(&action),
			),
		).WithTheme(huh.ThemeDracula())

		if err := actionForm.Run(); err != nil {
			return err
		}

		shouldExit, err := executeConfigAction(action, selectedFile, state)
		if err != nil {
			return err
		}
		if shouldExit {
			return nil
		}
	}
}

func listConfigFiles() ([]string, error) {
	var files []string
	for _, dir := range config.SearchDirs() {
		matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	return files, nil
}

func executeConfigAction(action, selectedFile string, state *formState) (bool, error) {
	switch action {
	case "load":
		data, err := os.ReadFile(selectedFile)
		if err != nil {
			return false, fmt.Errorf("failed to read %s: %w", selectedFile, err)
		}
		var cfg config.Config
		if err := json.Unmarshal(data, &cfg); err != nil {
			return false, fmt.Errorf("failed to parse %s: %w", selectedFile, err)
		}
		state.fromConfig(cfg)
		state.configPath = selectedFile
		return true, nil // Exit loop

	case "rename":
		var newName string
		if err := huh.NewInput().Title("New filename").Value(&newName).Validate(validateNewFilename).Run(); err != nil {
			return false, err
		}
		newName = ensureJSONExtension(newName)
		if err := os.Rename(selectedFile, newName); err != nil {
			return false, fmt.Errorf("failed to rename: %w", err)
		}

	case "clone":
		var newName string
		if err := huh.NewInput().Title("Clone as").Value(&newName).Validate(validateNewFilename).Run(); err != nil {
			return false, err
		}
		newName = ensureJSONExtension(newName)
		data, err := os.ReadFile(selectedFile)
		if err != nil {
			return false, fmt.Errorf("failed to read %s: %w", selectedFile, err)
		}
		if err := os.WriteFile(newName, data, 0600); err != nil {
			return false, fmt.Errorf("failed to write %s: %w", newName, err)
		}

	case "delete":
		var confirmDelete bool
		if err := huh.NewConfirm().Title(fmt.Sprintf("Really delete %s?", selectedFile)).Affirmative("Yes, delete it.").Negative("No, keep it.").Value(&confirmDelete).Run(); err != nil {
			return false, err
		}
		if confirmDelete {
			if err := os.Remove(selectedFile); err != nil {
				return false, fmt.Errorf("failed to delete %s: %w", selectedFile, err)
			}
		}
	}

	// For rename, clone, delete, back -> continue loop
	return false, nil
}

type formState struct {
	urlStr          string
	sitemapURL      string
	mode            string
	depthStr        string
	concurrencyStr  string
	timeoutSecStr   string
	memThresholdStr string
	userAgent       string
	waitFor         string
	headless        bool
	outputDir       string
	hashCollisions  bool
	progress        bool
	configPath      string
	finalAction     string
}

func newFormState() *formState {
	return &formState{
		mode:            "static",
		depthStr:        "3",
		concurrencyStr:  "10",
		timeoutSecStr:   "45",
		memThresholdStr: "70",
		userAgent:       app.DefaultUserAgent,
		waitFor:         "body",
		headless:        true,
		progress:        true,
		configPath:      "config.json",
		finalAction:     "run",
	}
}

func (s *formState) fromConfig(cfg config.Config) {
	if cfg.URL != "" {
		s.urlStr = cfg.URL
	}
	if cfg.SitemapURL != "" {
		s.sitemapURL = cfg.SitemapURL
	}
	if cfg.Mode != "" {
		s.mode = cfg.Mode
	}
	if cfg.CrawlDepth > 0 {
		s.depthStr = strconv.Itoa(cfg.CrawlDepth)
	}
	if cfg.Concurrency > 0 {
		s.concurrencyStr = strconv.Itoa(cfg.Concurrency)
	}
	if cfg.TimeoutSeconds > 0 {
		s.timeoutSecStr = strconv.Itoa(cfg.TimeoutSeconds)
	}
	if cfg.MemoryThresholdPercent > 0 {
		s.memThresholdStr = strconv.FormatFloat(cfg.MemoryThresholdPercent, 'f', -1, 64)
	}
	if cfg.UserAgent != "" {
		s.userAgent = cfg.UserAgent
	}
	if cfg.WaitForSelector != "" {
		s.waitFor = cfg.WaitForSelector
	}
	if cfg.Headless != nil {
		s.headless = *cfg.Headless
	}
	if cfg.OutputDir != "" {
		s.outputDir = cfg.OutputDir
	}
	s.hashCollisions = cfg.HashCollisions
}

func buildForm(state *formState) *huh.Form {
	return huh.NewForm(
		buildTargetGroup(state),
		buildCrawlGroup(state),
		buildNetworkGroup(state),
		buildOutputGroup(state),
		buildFinishGroup(state),
	)
}

func buildTargetGroup(state *formState) *huh.Group {
	return huh.NewGroup(
		huh.NewInput().Title("Seed URL").Placeholder("https://example.com/docs").Value(&state.urlStr).
			Description("Page to start crawling from. Leave empty when using a sitemap."),
		huh.NewInput().Title("Sitemap URL").Description("Optional: seed the crawl from a sitemap instead.").Value(&state.sitemapURL),
		huh.NewSelect[string]().Title("Mode").Description("Fetching strategy.").Value(&state.mode).Options(
			huh.NewOption("static", "static"),
			huh.NewOption("dynamic", "dynamic"),
		),
	).Title("Target")
}

func buildCrawlGroup(state *formState) *huh.Group {
	return huh.NewGroup(
		huh.NewInput().Title("Crawl Depth").Description("Link levels to follow from the seeds.").Value(&state.depthStr).Validate(validateIntString(0, 100)),
		huh.NewInput().Title("Concurrency").Description("Maximum concurrent fetches per batch.").Value(&state.concurrencyStr).Validate(validateIntString(1, 1000)),
		huh.NewInput().Title("Memory threshold (%)").Description("Concurrency degrades above this memory usage.").Value(&state.memThresholdStr).Validate(validateFloatString(1, 100)),
	).Title("Crawl Settings")
}

func buildNetworkGroup(state *formState) *huh.Group {
	return huh.NewGroup(
		huh.NewInput().Title("Timeout (seconds)").Value(&state.timeoutSecStr).
			Validate(validateIntString(1, 3600)),
		huh.NewInput().Title("Wait-for selector").Description("Dynamic mode: wait for this element.").Value(&state.waitFor),
		huh.NewConfirm().Title("Headless").Description("Hide browser window (dynamic)?").Value(&state.headless),
		huh.NewInput().Title("User-Agent").Value(&state.userAgent),
	).Title("Network & Browser")
}

func buildOutputGroup(state *formState) *huh.Group {
	return huh.NewGroup(
		huh.NewInput().Title("Output dir").Description("Optional: defaults to output/<host>").Placeholder("output/<host>").Value(&state.outputDir),
		huh.NewConfirm().Title("Hash colliding names").Description("Suffix colliding filenames with a content hash instead of skipping?").Value(&state.hashCollisions),
		huh.NewConfirm().Title("Progress bar").Description("Show a per-batch progress bar?").Value(&state.progress),
	).Title("Output")
}

func buildFinishGroup(state *formState) *huh.Group {
	return huh.NewGroup(
		huh.NewSelect[string]().Title("Action").Value(&state.finalAction).Options(
			huh.NewOption("Run crawl now", "run"),
			huh.NewOption("Save config and run", "save_and_run"),
			huh.NewOption("Only save config", "save_only"),
		),
		huh.NewInput().Title("Config path").
			Description("Path for 'Save' actions.").
			Value(&state.configPath).
			Validate(func(s string) error {
				isSaveAction := state.finalAction == "save_and_run" || state.finalAction == "save_only"
				if !isSaveAction {
					return nil
				}
				return validateNewFilename(s)
			}),
	).Title("Finish")
}

func buildResult(state *formState) (Result, error) {
	if strings.TrimSpace(state.urlStr) == "" && strings.TrimSpace(state.sitemapURL) == "" {
		return Result{}, errors.New("a seed url or sitemap url is required")
	}
	depth, err := parseNonNegativeInt(state.depthStr, "crawl depth must be an integer >= 0")
	if err != nil {
		return Result{}, err
	}
	concurrency, err := parsePositiveInt(state.concurrencyStr, "concurrency must be a positive integer")
	if err != nil {
		return Result{}, err
	}
	timeoutSec, err := parsePositiveInt(state.timeoutSecStr, "timeout must be a positive integer")
	if err != nil {
		return Result{}, err
	}
	memThreshold, err := parseNonNegativeFloat(state.memThresholdStr, "memory threshold must be a number >= 0")
	if err != nil {
		return Result{}, err
	}

	cfg := config.Config{
		URL:                    strings.TrimSpace(state.urlStr),
		SitemapURL:             strings.TrimSpace(state.sitemapURL),
		Mode:                   state.mode,
		OutputDir:              strings.TrimSpace(state.outputDir),
		CrawlDepth:             depth,
		Concurrency:            concurrency,
		TimeoutSeconds:         timeoutSec,
		UserAgent:              strings.TrimSpace(state.userAgent),
		WaitForSelector:        strings.TrimSpace(state.waitFor),
		Headless:               &state.headless,
		MemoryThresholdPercent: memThreshold,
		HashCollisions:         state.hashCollisions,
	}

	opts := app.Options{
		URL:             strings.TrimSpace(state.urlStr),
		SitemapURL:      strings.TrimSpace(state.sitemapURL),
		Mode:            fetch.Mode(strings.ToLower(strings.TrimSpace(state.mode))),
		OutputDir:       strings.TrimSpace(state.outputDir),
		MaxDepth:        depth,
		Concurrency:     concurrency,
		Timeout:         time.Duration(timeoutSec) * time.Second,
		UserAgent:       strings.TrimSpace(state.userAgent),
		WaitFor:         strings.TrimSpace(state.waitFor),
		Headless:        state.headless,
		MemoryThreshold: memThreshold,
		HashCollisions:  state.hashCollisions,
		Progress:        state.progress,
	}

	res := Result{
		Options:    opts,
		ConfigPath: state.configPath,
		Config:     cfg,
	}

	switch state.finalAction {
	case "run":
		res.RunNow = true
	case "save_and_run":
		res.RunNow = true
		res.SaveConfig = true
	case "save_only":
		res.SaveConfig = true
	}

	if res.SaveConfig {
		if err := writeConfig(state.configPath, cfg); err != nil {
			return Result{}, err
		}
	}

	return res, nil
}

func writeConfig(path string, cfg config.Config) error {
	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

func parsePositiveInt(s, errMsg string) (int, error) {
	val, err := parseInt(s)
	if err != nil || val <= 0 {
		return 0, errors.New(errMsg)
	}
	return val, nil
}

func parseNonNegativeInt(s, errMsg string) (int, error) {
	val, err := parseInt(s)
	if err != nil || val < 0 {
		return 0, errors.New(errMsg)
	}
	return val, nil
}

func parseNonNegativeFloat(s, errMsg string) (float64, error) {
	val, err := parseFloat(s)
	if err != nil || val < 0 {
		return 0, errors.New(errMsg)
	}
	return val, nil
}

func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	var v int
	_, err := fmt.Sscanf(s, "%d", &v)
	return v, err
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func validateIntString(minVal, maxVal int) func(string) error {
	return func(s string) error {
		v, err := parseInt(s)
		if err != nil {
			return errors.New("must be an integer")
		}
		if v < minVal || v > maxVal {
			return fmt.Errorf("must be between %d and %d", minVal, maxVal)
		}
		return nil
	}
}

func validateNewFilename(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("filename cannot be empty")
	}
	if strings.ContainsAny(s, `/\:*?"<>|`) {
		return errors.New("invalid characters")
	}
	target := ensureJSONExtension(s)
	if _, err := os.Stat(target); err == nil {
		return errors.New("file already exists")
	}
	return nil
}

func ensureJSONExtension(s string) string {
	if !strings.HasSuffix(s, ".json") {
		return s + ".json"
	}
	return s
}

func validateFloatString(minVal, maxVal float64) func(string) error {
	return func(s string) error {
		v, err := parseFloat(s)
		if err != nil {
			return errors.New("must be a number")
		}
		if v < minVal || v > maxVal {
			return fmt.Errorf("must be between %.2f and %.2f", minVal, maxVal)
		}
		return nil
	}
}
