package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	ErrEmptyEnvironmentVariable    = errors.New("empty environment variable")
	ErrInvalidValue                = errors.New("invalid environment variable value")
	ErrInsecureWebhookInProduction = errors.New("webhook verification cannot be disabled in production")
)

const (
	ToolExecutorREST = "rest"
	ToolExecutorMCP  = "mcp"

	WorkflowProviderHTTP   = "http"
	WorkflowProviderOpenAI = "openai"
	WorkflowProviderGemini = "gemini"
)

// Config holds all application configuration
type Config struct {
	Environment  string
	Server       ServerConfig
	OpenAI       OpenAIConfig
	Tools        ToolsConfig
	Workflow     WorkflowConfig
	Orchestrator OrchestratorConfig
	Carrier      CarrierConfig
	Notify       NotifyConfig
	Management   ManagementConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           int
	LogLevel       string
	AllowedOrigins []string
}

// OpenAIConfig holds realtime backend credentials and endpoints
type OpenAIConfig struct {
	APIKey               string
	WebhookSecret        string
	InsecureSkipVerify   bool
	RealtimeBaseURL      string
	RealtimeWSURL        string
	Model                string
	Voice                string
	CallControlTimeout   time.Duration
	SidebandDialAttempts int
}

// ToolsConfig selects the tool execution backend
type ToolsConfig struct {
	Executor   string
	ExecuteURL string
	MCPURL     string
	Timeout    time.Duration
}

// WorkflowConfig selects the business backend the orchestrator talks to
type WorkflowConfig struct {
	Provider       string
	URL            string
	APIKey         string
	Model          string
	GoogleAIAPIKey string
	Timeout        time.Duration
}

// OrchestratorConfig holds conversation guardrail limits. Nil keyword lists
// mean the built-in defaults.
type OrchestratorConfig struct {
	MaxTurns           int
	MaxCallDuration    time.Duration
	EscalationKeywords []string
	ProhibitedPhrases  []string
}

// CarrierConfig holds the media-stream carrier settings
type CarrierConfig struct {
	PublicHost    string
	AccountSID    string
	AuthToken     string
	PhoneNumber   string
	AIAudioFormat string
}

// Enabled reports whether the carrier media-stream path is served.
func (c CarrierConfig) Enabled() bool {
	return c.PublicHost != ""
}

// RESTEnabled reports whether carrier REST credentials are present.
func (c CarrierConfig) RESTEnabled() bool {
	return c.AccountSID != "" && c.AuthToken != ""
}

// NotifyConfig holds escalation notification targets
type NotifyConfig struct {
	ManagerPhone string
	ResendAPIKey string
	ManagerEmail string
	EmailSender  string
}

// ManagementConfig guards the call management routes
type ManagementConfig struct {
	APIToken string
}

// IsProduction reports whether GO_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads and validates all required environment variables
func Load() (*Config, error) {
	if os.Getenv("GO_ENV") != "production" {
		if err := godotenv.Load("env.local"); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env.local: %w", err)
		}
	}

	cfg := &Config{
		Environment: getEnvWithDefault("GO_ENV", "development"),
	}

	var err error

	// Server configuration
	if cfg.Server.Port, err = getIntWithDefault("SERVER_PORT", 8080); err != nil {
		return nil, err
	}
	cfg.Server.LogLevel = getEnvWithDefault("LOG_LEVEL", "info")
	cfg.Server.AllowedOrigins = getListEnv("CORS_ALLOWED_ORIGINS")

	// Realtime backend configuration
	if cfg.OpenAI.APIKey, err = requireEnv("OPENAI_API_KEY"); err != nil {
		return nil, err
	}
	if cfg.OpenAI.InsecureSkipVerify, err = getBoolWithDefault("WEBHOOK_INSECURE_SKIP_VERIFY", false); err != nil {
		return nil, err
	}
	if cfg.OpenAI.InsecureSkipVerify {
		if cfg.IsProduction() {
			return nil, ErrInsecureWebhookInProduction
		}
		cfg.OpenAI.WebhookSecret = os.Getenv("OPENAI_WEBHOOK_SECRET")
	} else if cfg.OpenAI.WebhookSecret, err = requireEnv("OPENAI_WEBHOOK_SECRET"); err != nil {
		return nil, err
	}
	cfg.OpenAI.RealtimeBaseURL = strings.TrimRight(getEnvWithDefault("OPENAI_REALTIME_BASE_URL", "https://api.openai.com/v1/realtime"), "/")
	cfg.OpenAI.RealtimeWSURL = strings.TrimRight(getEnvWithDefault("OPENAI_REALTIME_WS_URL", "wss://api.openai.com/v1/realtime"), "/")
	cfg.OpenAI.Model = getEnvWithDefault("OPENAI_REALTIME_MODEL", "gpt-realtime")
	cfg.OpenAI.Voice = getEnvWithDefault("OPENAI_VOICE", "alloy")
	if cfg.OpenAI.CallControlTimeout, err = getDurationWithDefault("CALL_CONTROL_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.OpenAI.SidebandDialAttempts, err = getIntWithDefault("SIDEBAND_DIAL_ATTEMPTS", 3); err != nil {
		return nil, err
	}

	// Tool execution configuration
	cfg.Tools.Executor = strings.ToLower(getEnvWithDefault("TOOL_EXECUTOR", ToolExecutorREST))
	if err := oneOf("TOOL_EXECUTOR", cfg.Tools.Executor, ToolExecutorREST, ToolExecutorMCP); err != nil {
		return nil, err
	}
	cfg.Tools.ExecuteURL = getEnvWithDefault("CRM_EXECUTE_URL", "http://localhost:3100/execute")
	cfg.Tools.MCPURL = getEnvWithDefault("CRM_MCP_URL", "http://localhost:3100/mcp")
	if cfg.Tools.Timeout, err = getDurationWithDefault("TOOL_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	// Carrier configuration
	cfg.Carrier.PublicHost = os.Getenv("PUBLIC_HOST")
	cfg.Carrier.AccountSID = os.Getenv("TWILIO_ACCOUNT_SID")
	cfg.Carrier.AuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
	cfg.Carrier.PhoneNumber = os.Getenv("TWILIO_PHONE_NUMBER")
	cfg.Carrier.AIAudioFormat = strings.ToLower(getEnvWithDefault("AI_AUDIO_FORMAT", "pcm16"))
	if err := oneOf("AI_AUDIO_FORMAT", cfg.Carrier.AIAudioFormat, "g711_ulaw", "pcm16", "pcm16_24k"); err != nil {
		return nil, err
	}

	// Business backend configuration, only needed when the carrier path runs
	cfg.Workflow.Provider = strings.ToLower(getEnvWithDefault("WORKFLOW_PROVIDER", WorkflowProviderHTTP))
	if err := oneOf("WORKFLOW_PROVIDER", cfg.Workflow.Provider, WorkflowProviderHTTP, WorkflowProviderOpenAI, WorkflowProviderGemini); err != nil {
		return nil, err
	}
	cfg.Workflow.URL = os.Getenv("AGENT_WORKFLOW_URL")
	cfg.Workflow.APIKey = os.Getenv("AGENT_WORKFLOW_API_KEY")
	cfg.Workflow.Model = os.Getenv("WORKFLOW_MODEL")
	cfg.Workflow.GoogleAIAPIKey = os.Getenv("GOOGLE_AI_API_KEY")
	if cfg.Workflow.Timeout, err = getDurationWithDefault("WORKFLOW_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.Carrier.Enabled() {
		switch cfg.Workflow.Provider {
		case WorkflowProviderHTTP:
			if cfg.Workflow.URL, err = requireEnv("AGENT_WORKFLOW_URL"); err != nil {
				return nil, err
			}
		case WorkflowProviderGemini:
			if cfg.Workflow.GoogleAIAPIKey, err = requireEnv("GOOGLE_AI_API_KEY"); err != nil {
				return nil, err
			}
		}
	}

	// Orchestrator configuration
	if cfg.Orchestrator.MaxTurns, err = getIntWithDefault("MAX_CONVERSATION_TURNS", 25); err != nil {
		return nil, err
	}
	if cfg.Orchestrator.MaxCallDuration, err = getDurationWithDefault("MAX_CALL_DURATION", 30*time.Minute); err != nil {
		return nil, err
	}
	cfg.Orchestrator.EscalationKeywords = getListEnv("ESCALATION_KEYWORDS")
	cfg.Orchestrator.ProhibitedPhrases = getListEnv("PROHIBITED_PHRASES")

	// Notifications
	cfg.Notify.ManagerPhone = os.Getenv("MANAGER_PHONE_NUMBER")
	cfg.Notify.ResendAPIKey = os.Getenv("RESEND_API_KEY")
	cfg.Notify.ManagerEmail = os.Getenv("MANAGER_EMAIL")
	cfg.Notify.EmailSender = getEnvWithDefault("DEFAULT_EMAIL_SENDER", "alerts@callrelay.local")

	cfg.Management.APIToken = os.Getenv("MANAGEMENT_API_TOKEN")

	return cfg, nil
}

// requireEnv retrieves an environment variable or returns an error if empty
func requireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set: %w", key, ErrEmptyEnvironmentVariable)
	}
	return value, nil
}

// getEnvWithDefault retrieves an environment variable or returns a default value
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntWithDefault(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("failed to parse %s=%q: %w", key, raw, ErrInvalidValue)
	}
	return value, nil
}

func getBoolWithDefault(key string, defaultValue bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("failed to parse %s=%q: %w", key, raw, ErrInvalidValue)
	}
	return value, nil
}

func getDurationWithDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("failed to parse %s=%q: %w", key, raw, ErrInvalidValue)
	}
	return value, nil
}

// getListEnv splits a comma separated variable, returning nil when unset.
func getListEnv(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func oneOf(key, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s, got %q: %w", key, strings.Join(allowed, ", "), value, ErrInvalidValue)
}
