package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"vidarc/config"
	"vidarc/storage"

	"github.com/spf13/cobra"
)

var minioCmd = &cobra.Command{
	Use:   "minio",
	Short: "Test the MinIO connection",
	Long:  `Verify that the configured MinIO instance is reachable, that the bucket exists, and that a small round-trip write succeeds.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		fmt.Printf("MinIO config: %s, Bucket: %s\n", cfg.MinioEndpoint, cfg.MinioBucket)

		store, err := storage.NewObjectStorage(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to MinIO: %v", err)
		}
		fmt.Println("MinIO connection successful!")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.Check(ctx); err != nil {
			log.Fatalf("MinIO round-trip test failed: %v", err)
		}
		fmt.Println("MinIO round-trip test successful!")
	},
}

func init() {
	rootCmd.AddCommand(minioCmd)
}
