package cmd

import (
	"fmt"
	"log"

	"vidarc/config"
	"vidarc/db"

	"github.com/spf13/cobra"
)

var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Test the Redis connection",
	Long:  `Verify that the configured Redis instance is reachable and supports basic read/write operations.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		fmt.Printf("Redis config: %s:%s, DB: %d\n", cfg.RedisHost, cfg.RedisPort, cfg.RedisDB)

		client, err := db.ConnectRedis(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer client.Close()
		fmt.Println("Redis connection successful!")

		if err := db.TestRedis(client); err != nil {
			log.Fatalf("Redis operation test failed: %v", err)
		}
		fmt.Println("Redis read/write test successful!")
	},
}

func init() {
	rootCmd.AddCommand(redisCmd)
}
