package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/mpilhlt/ecobrd/internal/extract"
	"github.com/mpilhlt/ecobrd/internal/handlers"
	"github.com/mpilhlt/ecobrd/internal/llm"
	"github.com/mpilhlt/ecobrd/internal/middleware"
	"github.com/mpilhlt/ecobrd/internal/models"

	"github.com/danielgtaylor/huma/v2/adapters/humagin"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine, the key may come from the environment or a flag.
	_ = godotenv.Load()

	// Create a CLI app
	cli := humacli.New(func(hooks humacli.Hooks, options *models.Options) {

		println()
		println("=== Starting EcoCart + BRD Backend ...")
		fmt.Printf("    Options are debug:%v host:%v port:%v model:%s endpoint:%s\n",
			options.Debug, options.Host, options.Port, options.Model, options.ModelEndpoint)

		if err := options.Resolve(); err != nil {
			fmt.Printf("    Invalid options: %v\n", err)
			os.Exit(1)
		}

		level := slog.LevelInfo
		if options.Debug {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		relay := &handlers.Relay{
			Extractor: extract.NewExtractor(extract.Config{
				Tesseract:     options.Tesseract,
				TesseractLang: options.TesseractLang,
			}, logger),
			Model: llm.NewClient(llm.Config{
				APIKey:   options.APIKey,
				Endpoint: options.ModelEndpoint,
				Model:    options.Model,
				Timeout:  options.Timeout(),
			}, logger),
			Logger:               logger,
			EcoFallbackOnFailure: options.EcoFallbackOnFailure,
		}

		// Create a new router & API
		if !options.Debug {
			gin.SetMode(gin.ReleaseMode)
		}
		router := gin.New()
		router.Use(gin.Recovery())
		router.Use(middleware.RequestLog(logger))
		router.Use(middleware.CORS(options.Origins()))
		router.Use(middleware.BodyLimit(handlers.MaxUploadBytes))
		api := humagin.New(router, handlers.NewConfig())

		// Add routes to the API
		err := handlers.AddRoutes(relay, api)
		if err != nil {
			fmt.Printf("    Unable to add routes: %v\n", err)
			os.Exit(1)
		}

		// Create the HTTP server
		server := &http.Server{
			Addr:              fmt.Sprintf("%s:%d", options.Host, options.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			// Leave room for the model call on top of reading the upload.
			WriteTimeout: options.Timeout() + 30*time.Second,
		}

		// Start server
		hooks.OnStart(func() {
			fmt.Printf("=== Starting API server on port %d...\n\n", options.Port)
			err := server.ListenAndServe()
			if err != nil && err != http.ErrServerClosed {
				fmt.Printf("listen error: %s\n", err)
			} else {
				fmt.Printf("    API server on port %d stopped.\n", options.Port)
			}
		})

		// Gracefully shutdown server
		hooks.OnStop(func() {
			fmt.Printf("\n=== Shutting down API server on port %d...\n", options.Port)

			// Create a context with a timeout for the shutdown process
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// Attempt to gracefully shut down the server
			if err := server.Shutdown(ctx); err != nil {
				fmt.Printf("Shutdown error: %v\n", err)
			}
			fmt.Print("=== EcoCart + BRD Backend stopped.\n\n")
		})
	})

	// Run the CLI. When passed no commands, it starts the server.
	cli.Run()
}
