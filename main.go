// Command oasis-tiles starts the Oasis Tiles host process.
//
// The host is the bridge between a rendering front-end and the rules engine.
// It runs in one of two modes:
//  1. "server" (default): REST API, WebSocket state push and an /mcp endpoint on one listener
//  2. "stdio-mcp": MCP over stdio, proxying to -api-url or to an internal API on a loopback port
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
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/oasis-tiles/api"
	"github.com/wricardo/oasis-tiles/game/config"
	"github.com/wricardo/oasis-tiles/game/service"
	"github.com/wricardo/oasis-tiles/game/session"
	"github.com/wricardo/oasis-tiles/transport/mcp"
	"github.com/wricardo/oasis-tiles/transport/websocket"
)

const (
	Version = "1.0.0"
	AppName = "Oasis Tiles Server"
)

var (
	port       = flag.Int("port", 8080, "HTTP server port")
	host       = flag.String("host", "localhost", "HTTP server host")
	configDir  = flag.String("config-dir", getConfigDirDefault(), "Directory containing *.toml tilesets")
	apiURL     = flag.String("api-url", "", "REST API used by stdio-mcp mode (default: try http://<host>:<port>, else start an internal API)")
	sessionTTL = flag.Duration("session-ttl", 24*time.Hour, "Remove sessions idle for longer than this")
	debug      = flag.Bool("debug", false, "Enable debug logging")
	version    = flag.Bool("version", false, "Show version information")
)

// getConfigDirDefault honors CONFIG_DIR, then falls back to "configs".
func getConfigDirDefault() string {
	if dir := os.Getenv("CONFIG_DIR"); dir != "" {
		return dir
	}
	return "configs"
}

func init() {
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintf(out, "%s v%s\n\n", AppName, Version)
		fmt.Fprintf(out, "Usage: %s [OPTIONS] [server|stdio-mcp]\n\n", os.Args[0])
		fmt.Fprintln(out, "Modes:")
		fmt.Fprintln(out, "  server, http          REST API, WebSocket and /mcp endpoint (default)")
		fmt.Fprintln(out, "  stdio-mcp, mcp        MCP tools over stdin/stdout")
		fmt.Fprintln(out, "\nOptions:")
		flag.PrintDefaults()
	}
}

// loadEnv reads .env from the working directory when there is one
func loadEnv() {
	err := godotenv.Load()
	switch {
	case err == nil:
		log.Println("Loaded environment variables from .env file")
	case !os.IsNotExist(err):
		log.Printf("Warning: Error loading .env file: %v", err)
	}
}

func main() {
	loadEnv()
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

	gameService, err := initializeServices()
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	switch mode {
	case "server", "http":
		runHTTPServer(gameService)
	case "stdio-mcp", "mcp-stdio", "mcp":
		runStdioMCP(gameService)
	default:
		log.Fatalf("Unknown mode: %s. Use 'server' (default) or 'stdio-mcp'", mode)
	}
}

// initializeServices wires the tileset and session managers into the game
// service and starts the idle-session cleanup loop.
func initializeServices() (service.GameService, error) {
	configManager, err := config.NewManager(*configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}
	log.Printf("Loaded %d tileset(s) from %s", configManager.Count(), *configDir)

	sessionManager := session.NewManager()
	go sessionCleanupRoutine(sessionManager, *sessionTTL)

	return service.NewGameService(sessionManager, configManager), nil
}

func sessionCleanupRoutine(manager *session.Manager, ttl time.Duration) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if removed := manager.CleanupExpiredSessions(ttl); removed > 0 {
			log.Printf("Cleaned up %d expired sessions", removed)
		}
	}
}

// newHTTPHandler mounts the REST API, the WebSocket hub and the /mcp
// endpoint. mcpBaseURL is the address the MCP tools call back into.
func newHTTPHandler(gameService service.GameService, mcpBaseURL string) http.Handler {
	hub := websocket.NewHub()
	apiServer := api.NewServer(gameService, hub)
	go hub.Run()

	mux := http.NewServeMux()
	mux.Handle("/", apiServer)
	mux.HandleFunc("/mcp", mcpHandler(mcp.NewClient(mcpBaseURL)))
	return mux
}

// mcpHandler serves one JSON-RPC message per POST
func mcpHandler(client *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := client.GetMCPServer().HandleMessage(r.Context(), body)

		data, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}
}

func runHTTPServer(gameService service.GameService) {
	addr := fmt.Sprintf("%s:%d", *host, *port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      newHTTPHandler(gameService, "http://"+addr),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	log.Printf("Received signal: %v. Shutting down...", <-stop)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}

// apiAvailable reports whether a healthy API answers at baseURL
func apiAvailable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/api/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// startInternalAPI serves the REST API on a random loopback port and returns
// its base URL.
func startInternalAPI(gameService service.GameService) (string, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("failed to get available port: %w", err)
	}
	baseURL := "http://" + listener.Addr().String()

	httpServer := &http.Server{Handler: newHTTPHandler(gameService, baseURL)}
	go func() {
		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Printf("Internal HTTP server error: %v", err)
		}
	}()
	return baseURL, nil
}

// runStdioMCP serves MCP over stdio. Tools call -api-url when given, an
// already running server on -host/-port when one answers, and otherwise an
// internal API owned by this process.
func runStdioMCP(gameService service.GameService) {
	baseURL := *apiURL
	if baseURL == "" {
		local := fmt.Sprintf("http://%s:%d", *host, *port)
		if apiAvailable(local) {
			log.Printf("Using API server at %s", local)
			baseURL = local
		} else {
			internal, err := startInternalAPI(gameService)
			if err != nil {
				log.Fatalf("Failed to start internal API: %v", err)
			}
			log.Printf("No API server at %s, started internal API on %s", local, internal)
			baseURL = internal
		}
	}

	log.Printf("MCP stdio server ready (API: %s)", baseURL)
	if err := server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer()); err != nil {
		log.Fatalf("MCP stdio server error: %v", err)
	}
}
