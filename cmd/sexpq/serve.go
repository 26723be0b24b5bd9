package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lemonberrylabs/sexpq/pkg/api"
	grpcapi "github.com/lemonberrylabs/sexpq/pkg/api/grpc"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP and gRPC query APIs",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().Int("port", 8787, "HTTP server port (env SEXPQ_PORT)")
	cmd.Flags().Int("grpc-port", 8788, "gRPC server port (env SEXPQ_GRPC_PORT)")
	cmd.Flags().String("host", "0.0.0.0", "Bind address (env SEXPQ_HOST)")
	cmd.Flags().Bool("access-log", true, "Log every request (env SEXPQ_ACCESS_LOG)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadServeConfig(cmd)
	if err != nil {
		return err
	}

	server := api.New(api.Config{AccessLog: cfg.AccessLog})

	// Start gRPC server
	grpcServer := grpcapi.New(nil, cfg.AccessLog)
	go func() {
		log.Printf("gRPC server listening on %s", cfg.GRPCAddr())
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			log.Fatalf("gRPC server error: %v", err)
		}
	}()

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down sexpq...")
		grpcServer.GracefulStop()
		if err := server.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	log.Printf("sexpq %s listening on %s", version, cfg.HTTPAddr())
	return server.Listen(cfg.HTTPAddr())
}
