// Package main provides the surf headless browse runner. It opens a browser
// session, navigates to a target page, optionally runs scripted interactions,
// and prints the resulting page state snapshot for agent or CI consumption.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	appconfig "github.com/entrhq/surf/pkg/config"
	"github.com/entrhq/surf/pkg/llm"
	"github.com/entrhq/surf/pkg/llm/openai"
	"github.com/entrhq/surf/pkg/security/urlpolicy"
	"github.com/entrhq/surf/pkg/tools/browser"
	"github.com/entrhq/surf/pkg/types"
)

const (
	version      = "0.1.0"
	defaultModel = "gpt-4o"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	ConfigFile  string
	URL         string
	Session     string
	Question    string
	Headed      bool
	Timeout     time.Duration
	ShowVersion bool
}

func main() {
	cliConfig := parseFlags()

	if cliConfig.ShowVersion {
		fmt.Printf("surf v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\nShutting down gracefully...")
		cancel()
	}()

	if err := run(ctx, cliConfig); err != nil {
		cancel()
		log.Printf("Run failed: %v", err)
		os.Exit(1)
	}
	cancel()
}

// parseFlags parses command line flags
func parseFlags() *CLIConfig {
	cliConfig := &CLIConfig{}

	flag.StringVar(&cliConfig.APIKey, "api-key", os.Getenv("OPENAI_API_KEY"), "OpenAI API key (for -question)")
	flag.StringVar(&cliConfig.BaseURL, "base-url", os.Getenv("OPENAI_BASE_URL"), "OpenAI API base URL")
	flag.StringVar(&cliConfig.Model, "model", defaultModel, "LLM model to use for page analysis")
	flag.StringVar(&cliConfig.ConfigFile, "config", "", "Path to a run configuration file (YAML)")
	flag.StringVar(&cliConfig.URL, "url", "", "URL to open (required if no config file)")
	flag.StringVar(&cliConfig.Session, "session", "main", "Browser session name")
	flag.StringVar(&cliConfig.Question, "question", "", "Question to answer about the page via the LLM")
	flag.BoolVar(&cliConfig.Headed, "headed", false, "Run the browser with a visible window")
	flag.DurationVar(&cliConfig.Timeout, "timeout", 2*time.Minute, "Run timeout")
	flag.BoolVar(&cliConfig.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "surf - Headless Browser State Runner\n\n")
		fmt.Fprintf(os.Stderr, "Usage: surf [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Snapshot a page\n")
		fmt.Fprintf(os.Stderr, "  surf -url https://example.com\n\n")
		fmt.Fprintf(os.Stderr, "  # Run a scripted browse from a config file\n")
		fmt.Fprintf(os.Stderr, "  surf -config browse.yaml\n\n")
		fmt.Fprintf(os.Stderr, "  # Ask a question about a page\n")
		fmt.Fprintf(os.Stderr, "  surf -url https://example.com/pricing -question \"What does the Pro plan cost?\"\n\n")
	}

	flag.Parse()
	return cliConfig
}

// run executes the browse run
func run(ctx context.Context, cliConfig *CLIConfig) error {
	runConfig, err := loadRunConfig(cliConfig)
	if err != nil {
		return fmt.Errorf("failed to load run configuration: %w", err)
	}

	if validationErr := runConfig.Validate(); validationErr != nil {
		return fmt.Errorf("invalid run configuration: %w", validationErr)
	}

	if initErr := appconfig.Initialize(""); initErr != nil {
		return fmt.Errorf("failed to initialize configuration: %w", initErr)
	}

	if runConfig.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, runConfig.Timeout)
		defer cancel()
	}

	manager := browser.NewSessionManager()
	if policyErr := applyRunPolicy(manager, runConfig); policyErr != nil {
		return fmt.Errorf("invalid URL policy: %w", policyErr)
	}
	if initErr := manager.Initialize(); initErr != nil {
		return fmt.Errorf("failed to initialize browser runtime: %w", initErr)
	}
	defer func() {
		if shutdownErr := manager.Shutdown(); shutdownErr != nil {
			log.Printf("Shutdown error: %v", shutdownErr)
		}
	}()

	session, err := manager.StartSession(runConfig.Session, browser.SessionOptions{
		Headless: runConfig.Headless,
	})
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	if err := navigate(manager, session, runConfig.URL); err != nil {
		return err
	}

	for i, step := range runConfig.Steps {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if stepErr := runStep(manager, session, step); stepErr != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step.Action, stepErr)
		}
	}

	state, err := session.CaptureState(browser.StateOptions{
		TokenBudget: manager.StateTokenBudget(),
		MaxElements: runConfig.MaxElements,
	}, manager.Tokenizer())
	if err != nil {
		return fmt.Errorf("failed to capture page state: %w", err)
	}
	fmt.Println(state.Render())

	if runConfig.ExtractFormat != "" {
		content, extractErr := session.ExtractContent(browser.ExtractOptions{
			Format: browser.ExtractFormat(runConfig.ExtractFormat),
		})
		if extractErr != nil {
			return fmt.Errorf("failed to extract content: %w", extractErr)
		}
		fmt.Printf("\nExtracted content (%s):\n%s\n", runConfig.ExtractFormat, content)
	}

	if runConfig.Question != "" {
		answer, askErr := askQuestion(ctx, cliConfig, session, runConfig.Question)
		if askErr != nil {
			return askErr
		}
		fmt.Printf("\nAnswer:\n%s\n", answer)
	}

	return nil
}

// navigate validates the URL against the policy and loads it.
func navigate(manager *browser.SessionManager, session *browser.Session, url string) error {
	if err := manager.ValidateURL(url); err != nil {
		return err
	}
	if err := session.Navigate(url, browser.NavigateOptions{WaitUntil: "load"}); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

// runStep executes a single scripted action against the session.
func runStep(manager *browser.SessionManager, session *browser.Session, step Step) error {
	switch step.Action {
	case "navigate":
		return navigate(manager, session, step.URL)

	case "click":
		selector, err := resolveTarget(session, step)
		if err != nil {
			return err
		}
		return session.Click(browser.ClickOptions{Selector: selector})

	case "fill":
		selector, err := resolveTarget(session, step)
		if err != nil {
			return err
		}
		return session.Fill(browser.FillOptions{Selector: selector, Value: step.Value})

	case "wait":
		return session.Wait(browser.WaitOptions{Selector: step.Selector, State: step.State})

	case "refresh":
		state, err := session.CaptureState(browser.StateOptions{
			TokenBudget: manager.StateTokenBudget(),
		}, manager.Tokenizer())
		if err != nil {
			return err
		}
		fmt.Println(state.Render())
		return nil

	default:
		return fmt.Errorf("unknown action: %s", step.Action)
	}
}

// resolveTarget turns a step's index or selector into a CSS selector.
func resolveTarget(session *browser.Session, step Step) (string, error) {
	if step.Selector != "" {
		return step.Selector, nil
	}
	element, err := session.ResolveElement(step.Index)
	if err != nil {
		return "", err
	}
	return element.Selector, nil
}

// askQuestion answers a question about the current page via the LLM.
func askQuestion(ctx context.Context, cliConfig *CLIConfig, session *browser.Session, question string) (string, error) {
	provider, err := newProvider(cliConfig)
	if err != nil {
		return "", err
	}

	content, err := session.ExtractContent(browser.ExtractOptions{Format: browser.FormatText})
	if err != nil {
		return "", fmt.Errorf("failed to extract page content: %w", err)
	}

	messages := []*types.Message{
		types.NewSystemMessage("You answer questions about web pages using only the provided page content. If the content does not contain the answer, say so."),
		types.NewUserMessage(fmt.Sprintf("Page URL: %s\n\nPage content:\n%s\n\nQuestion: %s",
			session.CurrentURL, content, question)),
	}

	response, err := provider.Complete(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("page analysis failed: %w", err)
	}
	return response.Content, nil
}

// newProvider creates the LLM provider from CLI configuration.
func newProvider(cliConfig *CLIConfig) (llm.Provider, error) {
	opts := []openai.ProviderOption{
		openai.WithModel(cliConfig.Model),
	}
	if cliConfig.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cliConfig.BaseURL))
	}

	provider, err := openai.NewProvider(cliConfig.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}
	return provider, nil
}

// applyRunPolicy installs a URL policy from run config overrides, falling
// back to the configured browser section patterns. A policy that fails to
// compile aborts the run rather than browsing without it.
func applyRunPolicy(manager *browser.SessionManager, runConfig *RunConfig) error {
	allowed := runConfig.AllowedURLs
	denied := runConfig.DeniedURLs

	if len(allowed) == 0 && len(denied) == 0 {
		if section := appconfig.GetBrowser(); section != nil {
			allowed, denied = section.GetURLPatterns()
		}
	}
	if len(allowed) == 0 && len(denied) == 0 {
		return nil
	}

	policy, err := urlpolicy.New(allowed, denied)
	if err != nil {
		return err
	}
	manager.SetURLPolicy(policy)
	return nil
}

// loadRunConfig loads the run configuration from file or CLI arguments
func loadRunConfig(cliConfig *CLIConfig) (*RunConfig, error) {
	if cliConfig.ConfigFile != "" {
		return loadRunConfigFromFile(cliConfig.ConfigFile)
	}

	if cliConfig.URL == "" {
		return nil, fmt.Errorf("url is required when not using a config file")
	}

	runConfig := DefaultRunConfig()
	runConfig.URL = cliConfig.URL
	runConfig.Session = cliConfig.Session
	runConfig.Headless = !cliConfig.Headed
	runConfig.Question = cliConfig.Question
	runConfig.Timeout = cliConfig.Timeout
	return runConfig, nil
}
