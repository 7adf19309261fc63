package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"sitegrab/internal/config"
)

func RunConfigWizard() error {
	reader := bufio.NewReader(os.Stdin)
	fmt.Println("Config wizard (press Enter to accept defaults)")

	path := promptString(reader, "Config file path", config.DefaultConfigFile)
	urlStr := promptString(reader, "Seed URL", "")
	sitemapStr := promptString(reader, "Sitemap URL (optional)", "")
	mode := promptString(reader, "Mode (static|dynamic)", "static")
	outputDir := promptString(reader, "Output dir (optional)", "")
	depth := promptInt(reader, "Crawl depth", 3)
	concurrency := promptInt(reader, "Concurrency", 10)
	timeout := promptInt(reader, "Timeout seconds", 45)
	headless := promptBool(reader, "Headless (true/false)", true)

	cfg := config.Config{
		URL:            strings.TrimSpace(urlStr),
		SitemapURL:     strings.TrimSpace(sitemapStr),
		Mode:           mode,
		OutputDir:      strings.TrimSpace(outputDir),
		CrawlDepth:     depth,
		Concurrency:    concurrency,
		TimeoutSeconds: timeout,
		Headless:       &headless,
	}

	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", path)
	return nil
}

func promptString(reader *bufio.Reader, label, def string) string {
	if def != "" {
		fmt.Printf("%s [%s]: ", label, def)
	} else {
		fmt.Printf("%s: ", label)
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		return def
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}

func promptInt(reader *bufio.Reader, label string, def int) int {
	fmt.Printf("%s [%d]: ", label, def)
	line, err := reader.ReadString('\n')
	if err != nil {
		return def
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	var val int
	_, err = fmt.Sscanf(line, "%d", &val)
	if err != nil {
		return def
	}
	return val
}

func promptBool(reader *bufio.Reader, label string, def bool) bool {
	defStr := "false"
	if def {
		defStr = "true"
	}
	fmt.Printf("%s [%s]: ", label, defStr)
	line, err := reader.ReadString('\n')
	if err != nil {
		return def
	}
	line = strings.TrimSpace(strings.ToLower(line))
	if line == "" {
		return def
	}
	return line == "true" || line == "1" || line == "yes" || line == "y"
}
