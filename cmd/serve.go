package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/garmin-mcp/internal/garmin"
	"github.com/teemow/garmin-mcp/internal/instrumentation"
	"github.com/teemow/garmin-mcp/internal/mcp/oauth"
	"github.com/teemow/garmin-mcp/internal/server"
	"github.com/teemow/garmin-mcp/internal/tools/activity_tools"
	"github.com/teemow/garmin-mcp/internal/tools/challenge_tools"
	"github.com/teemow/garmin-mcp/internal/tools/data_tools"
	"github.com/teemow/garmin-mcp/internal/tools/device_tools"
	"github.com/teemow/garmin-mcp/internal/tools/gear_tools"
	"github.com/teemow/garmin-mcp/internal/tools/health_tools"
	"github.com/teemow/garmin-mcp/internal/tools/profile_tools"
	"github.com/teemow/garmin-mcp/internal/tools/training_tools"
	"github.com/teemow/garmin-mcp/internal/tools/weight_tools"
	"github.com/teemow/garmin-mcp/internal/tools/womens_health_tools"
	"github.com/teemow/garmin-mcp/internal/tools/workout_tools"
)

// ServeOptions holds the serve command configuration after flags and
// environment variables are merged.
type ServeOptions struct {
	Debug     bool
	Transport string
	HTTPAddr  string
	Yolo      bool
	BaseURL   string

	// GitHub OAuth app credentials for identity delegation
	GitHubClientID     string
	GitHubClientSecret string

	// AllowedGitHubUser is the single GitHub login permitted to call tools
	AllowedGitHubUser string

	// RegistrationToken gates dynamic client registration when set
	RegistrationToken string

	// TrustProxy enables X-Forwarded-For handling in the rate limiter
	TrustProxy bool

	// Garmin credentials and token file location
	GarminEmail     string
	GarminPassword  string
	GarminTokenPath string

	// Metrics server configuration
	MetricsEnabled bool
	MetricsAddr    string
}

func newServeCmd() *cobra.Command {
	opts := ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server exposing Garmin Connect
data as tools for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport with OAuth 2.1 authentication

Safety Mode:
  By default, the server operates in read-only mode, providing only safe
  operations. Use --yolo to enable write operations (weigh-ins, workout
  creation, activity upload, deletions).

Garmin Credentials:
  GARMIN_EMAIL and GARMIN_PASSWORD env vars, or a previously persisted
  session token file (GARMINTOKENS env var or --garmin-tokens flag,
  default ~/.garminconnect).

OAuth Configuration (streamable-http transport):
  Base URL (required for deployed instances):
    --base-url https://your-domain.com OR MCP_BASE_URL env var
    Auto-detected for localhost (development only)

  GitHub identity (recommended):
    --github-client-id and --github-client-secret flags
    OR GITHUB_CLIENT_ID and GITHUB_CLIENT_SECRET env vars
    Without them every bearer token is anonymous and the server runs open.

  Access control:
    --allowed-github-user OR MCP_ALLOWED_GITHUB_USER env var restricts
    tool calls to a single GitHub login. Requires GitHub identity.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.applyEnv()
			return runServe(opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&opts.Transport, "transport", "stdio", "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&opts.HTTPAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&opts.Yolo, "yolo", false, "Enable write operations (weigh-ins, workout creation, uploads, deletions). Default is read-only mode.")
	cmd.Flags().StringVar(&opts.BaseURL, "base-url", "", "Public base URL for OAuth (HTTP transport only). Required for deployed instances. Can also use MCP_BASE_URL env var. Example: https://mcp.example.com")
	cmd.Flags().StringVar(&opts.GitHubClientID, "github-client-id", "", "GitHub OAuth app client ID for identity delegation. Can also use GITHUB_CLIENT_ID env var.")
	cmd.Flags().StringVar(&opts.GitHubClientSecret, "github-client-secret", "", "GitHub OAuth app client secret. Can also use GITHUB_CLIENT_SECRET env var.")
	cmd.Flags().StringVar(&opts.AllowedGitHubUser, "allowed-github-user", "", "Single GitHub login permitted to invoke tools. Can also use MCP_ALLOWED_GITHUB_USER env var. Empty runs the server open.")
	cmd.Flags().StringVar(&opts.RegistrationToken, "oauth-registration-token", "", "Registration access token required for dynamic client registration. Can also use MCP_OAUTH_REGISTRATION_TOKEN env var.")
	cmd.Flags().BoolVar(&opts.TrustProxy, "oauth-trust-proxy", false, "Trust X-Forwarded-For / X-Real-IP headers for rate limiting. Only enable behind a trusted reverse proxy.")
	cmd.Flags().StringVar(&opts.GarminTokenPath, "garmin-tokens", "", "Path to the persisted Garmin session token file. Can also use GARMINTOKENS env var. Default: ~/.garminconnect")
	cmd.Flags().BoolVar(&opts.MetricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&opts.MetricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

// applyEnv fills unset options from the environment.
func (o *ServeOptions) applyEnv() {
	if o.BaseURL == "" {
		o.BaseURL = os.Getenv("MCP_BASE_URL")
	}
	if o.GitHubClientID == "" {
		o.GitHubClientID = os.Getenv("GITHUB_CLIENT_ID")
	}
	if o.GitHubClientSecret == "" {
		o.GitHubClientSecret = os.Getenv("GITHUB_CLIENT_SECRET")
	}
	if o.AllowedGitHubUser == "" {
		o.AllowedGitHubUser = os.Getenv("MCP_ALLOWED_GITHUB_USER")
	}
	if o.RegistrationToken == "" {
		o.RegistrationToken = os.Getenv("MCP_OAUTH_REGISTRATION_TOKEN")
	}
	if o.GarminTokenPath == "" {
		o.GarminTokenPath = os.Getenv("GARMINTOKENS")
	}
	if o.GarminTokenPath == "" {
		o.GarminTokenPath = garmin.DefaultTokenPath()
	}
	o.GarminEmail = os.Getenv("GARMIN_EMAIL")
	o.GarminPassword = os.Getenv("GARMIN_PASSWORD")
	if os.Getenv("METRICS_ENABLED") == "false" {
		o.MetricsEnabled = false
	}
	if addr := os.Getenv("METRICS_ADDR"); addr != "" && o.MetricsAddr == server.DefaultMetricsAddr {
		o.MetricsAddr = addr
	}
}

func runServe(opts ServeOptions) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			if opts.Transport != "stdio" {
				log.Printf("Error during instrumentation shutdown: %v", err)
			}
		}
	}()

	// Start metrics server if enabled and not in stdio mode
	var metricsServer *server.MetricsServer
	if opts.Transport != "stdio" && opts.MetricsEnabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    opts.MetricsAddr,
			Enabled:                 true,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		// Use ready channel to confirm metrics server started successfully
		metricsReady := make(chan struct{})
		metricsErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && err != http.ErrServerClosed {
				metricsErr <- err
			}
			close(metricsErr)
		}()

		select {
		case <-metricsReady:
			log.Printf("Metrics server started on %s", metricsServer.Addr())
		case err := <-metricsErr:
			return fmt.Errorf("metrics server failed to start: %w", err)
		case <-time.After(5 * time.Second):
			return fmt.Errorf("metrics server startup timed out")
		}
	}

	// Establish the Garmin Connect session. A persisted token file is
	// enough; credentials are only required when no session exists yet.
	session := garmin.NewSession(opts.GarminTokenPath, opts.GarminEmail, opts.GarminPassword, nil, nil)
	if err := session.Load(); err != nil {
		return fmt.Errorf("failed to load Garmin session tokens: %w", err)
	}
	if !session.HasStoredTokens() && opts.GarminEmail == "" {
		return fmt.Errorf("no Garmin session found at %s and GARMIN_EMAIL/GARMIN_PASSWORD are not set", opts.GarminTokenPath)
	}

	garminClient := garmin.NewClient(session, nil)

	// Create server context shared by all tool handlers
	serverContext := server.NewServerContext(shutdownCtx, garminClient)

	// Set metrics and audit logger on server context for tool instrumentation
	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(nil, instrConfig.AuditLogging))
	}
	defer func() {
		// Shutdown metrics server first
		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				log.Printf("Error during metrics server shutdown: %v", err)
			}
		}
		if err := serverContext.Shutdown(); err != nil {
			if opts.Transport != "stdio" {
				log.Printf("Error during server context shutdown: %v", err)
			}
		}
	}()

	// Create MCP server
	mcpSrv := mcpserver.NewMCPServer("garmin-mcp", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false),
	)

	// readOnly is the inverse of yolo
	readOnly := !opts.Yolo

	// Log the mode for visibility (only for non-stdio transports)
	if opts.Transport != "stdio" {
		if readOnly {
			log.Println("Starting server in READ-ONLY mode (use --yolo to enable write operations)")
		} else {
			log.Println("Starting server with WRITE operations enabled (--yolo flag is set)")
		}
	}

	// Register all tools
	if err := registerAllTools(mcpSrv, serverContext, readOnly); err != nil {
		return err
	}

	// Start the appropriate server based on transport type
	switch opts.Transport {
	case "stdio":
		return runStdioServer(mcpSrv)
	case "streamable-http":
		fmt.Printf("Starting garmin-mcp server with %s transport...\n", opts.Transport)
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, opts)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", opts.Transport)
	}
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// registerAllTools registers all MCP tools
func registerAllTools(mcpSrv *mcpserver.MCPServer, ctx *server.ServerContext, readOnly bool) error {
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Activities",
			register: func() error {
				return activity_tools.RegisterActivityTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Health",
			register: func() error {
				return health_tools.RegisterHealthTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Profile",
			register: func() error {
				return profile_tools.RegisterProfileTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Devices",
			register: func() error {
				return device_tools.RegisterDeviceTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Gear",
			register: func() error {
				return gear_tools.RegisterGearTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Weight",
			register: func() error {
				return weight_tools.RegisterWeightTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Challenges",
			register: func() error {
				return challenge_tools.RegisterChallengeTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Training",
			register: func() error {
				return training_tools.RegisterTrainingTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Workouts",
			register: func() error {
				return workout_tools.RegisterWorkoutTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Data",
			register: func() error {
				return data_tools.RegisterDataTools(mcpSrv, ctx, readOnly)
			},
		},
		{
			name: "Women's Health",
			register: func() error {
				return womens_health_tools.RegisterWomensHealthTools(mcpSrv, ctx, readOnly)
			},
		},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s tools: %w", reg.name, err)
		}
	}

	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, serverContext *server.ServerContext, opts ServeOptions) error {
	// Determine base URL from flag, environment variable, or auto-detection
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://%s", opts.HTTPAddr)
		if opts.HTTPAddr[0] == ':' {
			baseURL = fmt.Sprintf("http://localhost%s", opts.HTTPAddr)
		}
		log.Printf("No base URL configured, using auto-detected: %s", baseURL)
		log.Printf("For deployed instances, set --base-url flag or MCP_BASE_URL env var")
	} else {
		log.Printf("Using configured base URL: %s", baseURL)
	}

	oauthConfig := oauth.DefaultConfig(baseURL)
	oauthConfig.GitHubAuth = oauth.GitHubAuthConfig{
		ClientID:     opts.GitHubClientID,
		ClientSecret: opts.GitHubClientSecret,
	}
	oauthConfig.AllowedUser = opts.AllowedGitHubUser
	oauthConfig.Security.RegistrationAccessToken = opts.RegistrationToken
	oauthConfig.RateLimit.TrustProxy = opts.TrustProxy

	oauthServer, err := server.NewOAuthHTTPServer(mcpSrv, serverContext, oauthConfig)
	if err != nil {
		return fmt.Errorf("failed to create OAuth HTTP server: %w", err)
	}

	fmt.Printf("Streamable HTTP server with OAuth 2.1 authentication starting on %s\n", opts.HTTPAddr)
	fmt.Printf("  HTTP endpoint: /mcp\n")
	fmt.Printf("  Health endpoints: /health, /healthz, /readyz\n")
	fmt.Printf("  OAuth metadata: /.well-known/oauth-authorization-server\n")
	fmt.Printf("  Authorization Server: %s\n", baseURL)
	if opts.MetricsEnabled {
		fmt.Printf("  Metrics endpoint: %s/metrics\n", opts.MetricsAddr)
	}

	if opts.GitHubClientID != "" && opts.GitHubClientSecret != "" {
		fmt.Println("\n✓ GitHub identity delegation: ENABLED")
		if opts.AllowedGitHubUser != "" {
			fmt.Printf("  Tool access restricted to GitHub user %q\n", opts.AllowedGitHubUser)
		} else {
			fmt.Println("  No allow-list configured; any authenticated GitHub user may call tools")
		}
	} else {
		fmt.Println("\n⚠ GitHub identity delegation: DISABLED")
		fmt.Println("  Bearer tokens are anonymous. To enable, provide --github-client-id and --github-client-secret")
	}

	fmt.Println("\nClients must complete the OAuth flow to access this server.")
	fmt.Println("The MCP client (e.g., Cursor, Claude Desktop) will handle the OAuth flow automatically.")

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := oauthServer.Start(opts.HTTPAddr); err != nil {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		fmt.Println("Shutdown signal received, stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := oauthServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
		fmt.Println("HTTP server stopped normally")
	}

	fmt.Println("HTTP server gracefully stopped")
	return nil
}
