package runner

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/textforge/humanizer/tlmt"
	"github.com/textforge/humanizer/tlmt/gonoop"
	"github.com/textforge/humanizer/tlmt/goposthog"
)

const (
	RunModeWeb = iota + 1
)

var ErrInvalidRunMode = errors.New("invalid run mode")

type Runner interface {
	Run(context.Context) error
	Close(context.Context) error
}

type Config struct {
	Addr         string
	DataFolder   string
	Debug        bool
	RunMode      int
	StoreBackend string
	Ephemeral    bool

	GeminiAPIKey        string
	LemonSqueezyAPIKey  string
	LemonSqueezyStoreID string
	WebhookSecret       string
}

func ParseConfig() *Config {
	cfg := Config{}

	var storeBackend string

	flag.StringVar(&cfg.Addr, "addr", "", "address to listen on [default: :$PORT or :3005]")
	flag.StringVar(&cfg.DataFolder, "data-folder", "", "data folder for the user store [default: $DATA_FOLDER or ./data]")
	flag.BoolVar(&cfg.Debug, "debug", false, "enable debug logging")
	flag.StringVar(&storeBackend, "store", "", "user store backend: sqlite, json or memory [default: $STORE_BACKEND or sqlite]")

	flag.Parse()

	if cfg.Addr == "" {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3005"
		}

		cfg.Addr = ":" + port
	}

	if cfg.DataFolder == "" {
		cfg.DataFolder = getEnv("DATA_FOLDER", "data")
	}

	if storeBackend == "" {
		storeBackend = os.Getenv("STORE_BACKEND")
	}

	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(storeBackend))

	cfg.Ephemeral = os.Getenv("EPHEMERAL_FS") == "1"

	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.LemonSqueezyAPIKey = os.Getenv("LEMON_SQUEEZY_API_KEY")
	cfg.LemonSqueezyStoreID = os.Getenv("LEMON_SQUEEZY_STORE_ID")
	cfg.WebhookSecret = os.Getenv("LEMON_SQUEEZY_WEBHOOK_SECRET")

	cfg.RunMode = RunModeWeb

	return &cfg
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}

	return value
}

var (
	telemetryOnce sync.Once
	telemetry     tlmt.Telemetry
)

// Telemetry returns the process-wide telemetry sink. Selection happens
// once; subsequent calls return the cached instance.
func Telemetry() tlmt.Telemetry {
	telemetryOnce.Do(func() {
		if os.Getenv("DISABLE_TELEMETRY") == "1" {
			telemetry = gonoop.New()

			return
		}

		apiKey := os.Getenv("POSTHOG_API_KEY")
		if apiKey == "" {
			telemetry = gonoop.New()

			return
		}

		val, err := goposthog.New(apiKey, getEnv("POSTHOG_ENDPOINT", "https://eu.i.posthog.com"))
		if err != nil || val == nil {
			telemetry = gonoop.New()

			return
		}

		telemetry = val
	})

	return telemetry
}

func wrapText(text string, width int) []string {
	var lines []string

	currentLine := ""
	currentWidth := 0

	for _, r := range text {
		runeWidth := runewidth.RuneWidth(r)
		if currentWidth+runeWidth > width {
			lines = append(lines, currentLine)
			currentLine = string(r)
			currentWidth = runeWidth
		} else {
			currentLine += string(r)
			currentWidth += runeWidth
		}
	}

	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return lines
}

func banner(messages []string, width int) string {
	if width <= 0 {
		var err error

		width, _, err = term.GetSize(0)
		if err != nil {
			width = 80
		}
	}

	if width < 20 {
		width = 20
	}

	contentWidth := width - 4

	var wrappedLines []string
	for _, message := range messages {
		wrappedLines = append(wrappedLines, wrapText(message, contentWidth)...)
	}

	var builder strings.Builder

	builder.WriteString("╔" + strings.Repeat("═", width-2) + "╗\n")

	for _, line := range wrappedLines {
		lineWidth := runewidth.StringWidth(line)
		paddingRight := contentWidth - lineWidth

		if paddingRight < 0 {
			paddingRight = 0
		}

		builder.WriteString(fmt.Sprintf("║ %s%s ║\n", line, strings.Repeat(" ", paddingRight)))
	}

	builder.WriteString("╚" + strings.Repeat("═", width-2) + "╝\n")

	return builder.String()
}

func Banner() {
	message1 := "✍️  Humanizer"
	message2 := "Rewrites text with an LLM and scores AI likelihood."

	fmt.Fprintln(os.Stderr, banner([]string{message1, message2}, 0))
}
