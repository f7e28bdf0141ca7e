// Command trolls-escape starts the Trolls Escape game server.
//
// Modes:
//  1. "server" (default) serves the REST API, the WebSocket feed and /mcp
//  2. "stdio-mcp" serves MCP over stdio, backed by an external or internal HTTP API
//
// The -preset flag picks the maze new sessions start from; -session and
// -seed pre-create a reproducible game that clients can join by ID.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/trolls-escape/api"
	"github.com/wricardo/trolls-escape/game/config"
	"github.com/wricardo/trolls-escape/game/engine"
	"github.com/wricardo/trolls-escape/game/service"
	"github.com/wricardo/trolls-escape/game/session"
	"github.com/wricardo/trolls-escape/transport/mcp"
	"github.com/wricardo/trolls-escape/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "2.0.0"
	AppName = "Trolls Escape Server"
)

const externalAPI = "http://localhost:8080"

var (
	port         = flag.Int("port", 8080, "HTTP server port")
	host         = flag.String("host", "localhost", "HTTP server host")
	configDir    = flag.String("config-dir", envOr("CONFIG_DIR", "configs"), "Directory containing maze presets")
	preset       = flag.String("preset", envOr("TROLLS_PRESET", ""), "Preset used when a session names none (default classic)")
	sessionID    = flag.String("session", "", "Create a session with this ID at startup")
	seed         = flag.Int64("seed", 0, "Seed for the startup session, 0 uses the preset or the clock")
	sessionTTL   = flag.Duration("session-ttl", 24*time.Hour, "Drop sessions idle for longer than this")
	debug        = flag.Bool("debug", false, "Enable debug logging")
	version      = flag.Bool("version", false, "Show version information")
	ngrokEnabled = flag.Bool("ngrok", false, "Expose the server through an ngrok tunnel")
	ngrokAuth    = flag.String("ngrok-auth", "", "Ngrok auth token (or NGROK_AUTHTOKEN)")
	ngrokDomain  = flag.String("ngrok-domain", "", "Custom ngrok domain (or NGROK_DOMAIN)")
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s v%s\n\n", AppName, Version)
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] [server|stdio-mcp]\n\nOptions:\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -preset hard\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -session demo -seed 7 -port 9090\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s stdio-mcp\n", os.Args[0])
	}
}

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment variables from .env file")
	} else if !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	flag.Parse()
	if *version {
		fmt.Printf("%s v%s\n", AppName, Version)
		return
	}
	if *debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	mode := "server"
	if flag.NArg() > 0 {
		mode = flag.Arg(0)
	}
	log.Printf("Starting %s v%s (mode: %s)", AppName, Version, mode)

	// One context for the hub, the session sweeper and the tunnel.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gameService, err := initializeServices(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	switch mode {
	case "stdio-mcp", "mcp-stdio", "mcp":
		runStdioMCP(ctx, gameService)
	case "server", "http":
		runHTTPServer(ctx, gameService)
	default:
		log.Fatalf("Unknown mode: %s. Use 'server' (default) or 'stdio-mcp'", mode)
	}
}

// initializeServices wires presets and sessions into the game service,
// applies the -preset and -session flags and starts the idle sweeper.
func initializeServices(ctx context.Context) (service.GameService, error) {
	configManager, err := config.NewManager(*configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}
	if *preset != "" {
		if err := configManager.SetDefault(*preset); err != nil {
			return nil, fmt.Errorf("preset %q: %w", *preset, err)
		}
	}
	logPreset(configManager.GetDefault())

	sessionManager := session.NewManager()
	if *sessionID != "" {
		sess, err := sessionManager.Create(*sessionID, configManager.GetDefault(), *seed)
		if err != nil {
			return nil, fmt.Errorf("startup session: %w", err)
		}
		log.Printf("[SESSION] created session=%s seed=%d at startup", sess.ID, sess.Seed)
	}

	go sessionCleanupRoutine(ctx, sessionManager, time.Hour, *sessionTTL)
	return service.NewGameService(sessionManager, configManager), nil
}

func logPreset(preset *engine.GameConfig) {
	if len(preset.Layout) > 0 {
		log.Printf("Default preset %q: fixed %dx%d arena", preset.Name, len(preset.Layout[0]), len(preset.Layout))
		return
	}
	log.Printf("Default preset %q: %dx%d maze, %d trolls", preset.Name, preset.Width, preset.Height, preset.Pursuers)
}

// sessionCleanupRoutine drops sessions idle for longer than maxAge, checking
// every interval until ctx is done.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(maxAge); removed > 0 {
				log.Printf("[SESSION] cleaned up %d expired sessions", removed)
			}
		}
	}
}

// newHandler mounts the game API, the WebSocket feed and the /mcp endpoint.
// The MCP tools call back into the API at baseURL.
func newHandler(ctx context.Context, gameService service.GameService, baseURL string) http.Handler {
	hub := websocket.NewHub()
	go hub.Run(ctx)

	tools := mcp.NewClient(baseURL).GetMCPServer()
	mux := http.NewServeMux()
	mux.Handle("/", api.NewServer(gameService, hub))
	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(tools.HandleMessage(r.Context(), body)); err != nil {
			log.Printf("[MCP] write response: %v", err)
		}
	})
	return mux
}

// runHTTPServer serves the game until ctx is cancelled, optionally mirrored
// through an ngrok tunnel.
func runHTTPServer(ctx context.Context, gameService service.GameService) {
	addr := fmt.Sprintf("%s:%d", *host, *port)
	handler := newHandler(ctx, gameService, "http://"+addr)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logEndpoints("http://"+addr, "ws://"+addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	if *ngrokEnabled || os.Getenv("NGROK_ENABLED") == "true" || os.Getenv("NGROK_ENABLED") == "1" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			serveTunnel(ctx, handler)
		}()
	}

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	wg.Wait()
	log.Println("Server stopped")
}

func logEndpoints(httpURL, wsURL string) {
	log.Printf("REST API: %s/api", httpURL)
	log.Printf("WebSocket: %s/ws?session=<session_id>", wsURL)
	log.Printf("MCP endpoint: %s/mcp", httpURL)
}

// serveTunnel exposes handler through ngrok until ctx is done. A missing
// auth token only disables the tunnel.
func serveTunnel(ctx context.Context, handler http.Handler) {
	authToken := *ngrokAuth
	if authToken == "" {
		authToken = envOr("NGROK_AUTHTOKEN", os.Getenv("NGROK_AUTH_TOKEN"))
	}
	if authToken == "" {
		log.Println("WARNING: ngrok enabled but no auth token (use -ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	domain := *ngrokDomain
	if domain == "" {
		domain = os.Getenv("NGROK_DOMAIN")
	}
	var endpoint ngrokConfig.Tunnel
	if domain != "" {
		endpoint = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
	} else {
		endpoint = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, endpoint, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}
	go func() {
		<-ctx.Done()
		tun.Close()
	}()

	url := tun.URL()
	log.Printf("🚀 Ngrok tunnel established: %s", url)
	logEndpoints(url, "wss://"+strings.TrimPrefix(url, "https://"))
	if err := http.Serve(tun, handler); err != nil && ctx.Err() == nil {
		log.Printf("Ngrok server error: %v", err)
	}
}

// apiAvailable reports whether a game server already answers at baseURL.
func apiAvailable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/api/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// startInternalAPI serves the game on a random loopback port for the stdio
// tools and returns its base URL.
func startInternalAPI(ctx context.Context, gameService service.GameService) (string, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	baseURL := "http://" + listener.Addr().String()
	httpServer := &http.Server{Handler: newHandler(ctx, gameService, baseURL)}

	go func() {
		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("Internal HTTP server error: %v", err)
		}
	}()
	go func() {
		<-ctx.Done()
		httpServer.Close()
	}()
	return baseURL, nil
}

// runStdioMCP serves the MCP tools over stdio. It reuses a server already
// running on localhost:8080, otherwise it starts an internal one so the
// sessions of this process stay reachable.
func runStdioMCP(ctx context.Context, gameService service.GameService) {
	baseURL := externalAPI
	if apiAvailable(externalAPI) {
		log.Printf("Using external API server at %s", externalAPI)
	} else {
		var err error
		if baseURL, err = startInternalAPI(ctx, gameService); err != nil {
			log.Fatalf("Failed to start internal API: %v", err)
		}
		log.Printf("Started internal API server at %s", baseURL)
	}

	if err := server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer()); err != nil {
		log.Fatalf("MCP stdio server error: %v", err)
	}
}
