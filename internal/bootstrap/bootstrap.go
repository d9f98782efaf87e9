package bootstrap

import (
	"context"
	"fmt"
	"io"
	"time"

	"callrelay/internal/calls/registry"
	"callrelay/internal/clients/googleai"
	"callrelay/internal/clients/mail"
	"callrelay/internal/clients/openai"
	"callrelay/internal/clients/twilio"
	"callrelay/internal/clients/workflow"
	"callrelay/internal/config"
	"callrelay/internal/notify"
	"callrelay/internal/observability"
	"callrelay/internal/orchestrator"
	"callrelay/internal/relay"
	"callrelay/internal/tools"
	"callrelay/internal/voice/audio"
	"callrelay/internal/webhooks/verifier"

	callsHandler "callrelay/internal/calls/handler"
	callsProcessor "callrelay/internal/calls/processor"
	voiceCallHandler "callrelay/internal/voicecall/handler"
	voiceCallProcessor "callrelay/internal/voicecall/processor"
)

// drainGrace is how long a closing session keeps both legs open so a last
// reply can still be spoken.
const drainGrace = 2 * time.Second

// Dependencies holds all initialized application dependencies
type Dependencies struct {
	// Core
	Logger   *observability.Logger
	Registry *registry.Registry

	// Processors
	CallProcessor *callsProcessor.CallProcessor

	// Handlers
	CallsHandler     callsHandler.Handler
	VoiceCallHandler *voiceCallHandler.Handler

	// Management routes are open when empty.
	ManagementToken string

	// closers run after live calls have ended
	closers []io.Closer
}

// Initialize sets up all application dependencies
func Initialize(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Logger:          logger,
		Registry:        registry.New(),
		ManagementToken: cfg.Management.APIToken,
	}

	// Initialize tool executor
	var executor tools.Executor
	switch cfg.Tools.Executor {
	case config.ToolExecutorMCP:
		mcpExecutor := tools.NewMCPExecutor(cfg.Tools.MCPURL, cfg.Tools.Timeout, logger)
		deps.closers = append(deps.closers, mcpExecutor)
		executor = mcpExecutor
	default:
		executor = tools.NewRESTExecutor(cfg.Tools.ExecuteURL, cfg.Tools.Timeout, logger)
	}

	aiFormat, err := audio.ParseFormat(cfg.Carrier.AIAudioFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to parse AI audio format: %w", err)
	}
	relayer := relay.New(executor, relay.Config{
		ToolTimeout: cfg.Tools.Timeout,
		AIFormat:    aiFormat,
		DrainGrace:  drainGrace,
	}, logger)

	// Initialize realtime backend clients
	callControl := openai.NewCallControlClient(cfg.OpenAI.APIKey, cfg.OpenAI.RealtimeBaseURL, cfg.OpenAI.CallControlTimeout, logger)
	dialer := openai.NewRealtimeDialer(cfg.OpenAI.APIKey, cfg.OpenAI.RealtimeWSURL)

	var carrierControl callsProcessor.CarrierControl
	var twilioClient *twilio.Client
	if cfg.Carrier.RESTEnabled() {
		twilioClient = twilio.NewClient(cfg.Carrier.AccountSID, cfg.Carrier.AuthToken, cfg.Carrier.PhoneNumber, logger)
		carrierControl = twilioClient
	}

	// Initialize call processor and handler
	deps.CallProcessor = callsProcessor.New(
		callControl,
		carrierControl,
		deps.Registry,
		relayer,
		func(ctx context.Context, callID string) (relay.Conn, error) {
			conn, err := dialer.DialCall(ctx, callID)
			if err != nil {
				return nil, err
			}
			return conn, nil
		},
		callsProcessor.Config{
			Model:        cfg.OpenAI.Model,
			Voice:        cfg.OpenAI.Voice,
			DialAttempts: cfg.OpenAI.SidebandDialAttempts,
		},
		logger,
	)

	var verifierOpts []verifier.Option
	if cfg.OpenAI.InsecureSkipVerify {
		verifierOpts = append(verifierOpts, verifier.WithInsecureSkipVerify())
	}
	webhookVerifier := verifier.New(cfg.OpenAI.WebhookSecret, logger, verifierOpts...)
	deps.CallsHandler = callsHandler.New(deps.CallProcessor, webhookVerifier, logger)

	if !cfg.Carrier.Enabled() {
		logger.Info(ctx, "PUBLIC_HOST not set, carrier media-stream path disabled")
		return deps, nil
	}

	// Initialize business backend
	backend, err := newBackend(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	// Initialize escalation notifiers and orchestrator
	notifier, err := newNotifier(cfg, twilioClient, logger)
	if err != nil {
		return nil, err
	}
	orch := orchestrator.New(backend, notifier, orchestrator.Config{
		MaxTurns:           cfg.Orchestrator.MaxTurns,
		MaxCallDuration:    cfg.Orchestrator.MaxCallDuration,
		EscalationKeywords: cfg.Orchestrator.EscalationKeywords,
		ProhibitedPhrases:  cfg.Orchestrator.ProhibitedPhrases,
	}, logger)

	// Initialize voice call processor and handler
	voiceCallProc := voiceCallProcessor.NewVoiceCallProcessor(
		deps.Registry,
		relayer,
		orch,
		func(ctx context.Context, model string) (relay.Conn, error) {
			conn, err := dialer.DialModel(ctx, model)
			if err != nil {
				return nil, err
			}
			return conn, nil
		},
		voiceCallProcessor.Config{
			Model:        cfg.OpenAI.Model,
			Voice:        cfg.OpenAI.Voice,
			AudioFormat:  aiFormat,
			DialAttempts: cfg.OpenAI.SidebandDialAttempts,
		},
		logger,
	)
	voiceHandler := voiceCallHandler.New(voiceCallProc, voiceCallHandler.Config{
		PublicHost:     cfg.Carrier.PublicHost,
		TransferTarget: cfg.Notify.ManagerPhone,
	}, logger)
	deps.VoiceCallHandler = &voiceHandler

	return deps, nil
}

func newBackend(ctx context.Context, cfg *config.Config, logger *observability.Logger) (orchestrator.Backend, error) {
	switch cfg.Workflow.Provider {
	case config.WorkflowProviderOpenAI:
		return openai.NewChatBackend(cfg.OpenAI.APIKey, cfg.Workflow.Model, logger), nil
	case config.WorkflowProviderGemini:
		backend, err := googleai.NewGeminiBackend(ctx, cfg.Workflow.GoogleAIAPIKey, cfg.Workflow.Model, "", logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini backend: %w", err)
		}
		return backend, nil
	default:
		return workflow.NewHTTPBackend(cfg.Workflow.URL, cfg.Workflow.APIKey, cfg.Workflow.Timeout, logger), nil
	}
}

// newNotifier fans escalations out to every configured channel, falling back
// to the log.
func newNotifier(cfg *config.Config, twilioClient *twilio.Client, logger *observability.Logger) (orchestrator.Notifier, error) {
	var notifiers notify.Multi
	if twilioClient != nil && cfg.Notify.ManagerPhone != "" {
		notifiers = append(notifiers, notify.NewSMSNotifier(twilioClient, cfg.Notify.ManagerPhone))
	}
	if cfg.Notify.ResendAPIKey != "" && cfg.Notify.ManagerEmail != "" {
		mailClient, err := mail.NewResendClient(cfg.Notify.ResendAPIKey, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create resend client: %w", err)
		}
		notifiers = append(notifiers, notify.NewEmailNotifier(mailClient, cfg.Notify.EmailSender, cfg.Notify.ManagerEmail))
	}
	if len(notifiers) == 0 {
		return notify.NewLogNotifier(logger), nil
	}
	return notifiers, nil
}

// Cleanup ends every live call, waits for their sessions to finish, then
// closes shared clients
func (d *Dependencies) Cleanup(ctx context.Context) {
	if d.CallProcessor != nil {
		if err := d.CallProcessor.Shutdown(ctx); err != nil {
			d.Logger.Error(ctx, "call sessions did not finish before shutdown", err)
		}
	}
	for _, c := range d.closers {
		if err := c.Close(); err != nil {
			d.Logger.Error(ctx, "failed to close client", err)
		}
	}
}
