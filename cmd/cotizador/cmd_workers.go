package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/duolink/cotizador/app/jobs"
	"github.com/duolink/cotizador/app/repositories"
	"github.com/duolink/cotizador/pkg/cache"
	"github.com/duolink/cotizador/pkg/logger"
	"github.com/duolink/cotizador/pkg/queue"
)

var queueWorkersFlag int

// cotizador queue:work — run the queue workers standalone. The server
// process runs its own workers; this exists for deployments that split
// web and worker roles.
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Start the queue workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bootDB()
		if err != nil {
			return err
		}
		if err := cache.Connect(); err != nil {
			logger.Warn("queue:work: redis unavailable, using in-memory driver", "error", err)
		}
		if rdb := cache.Client(); rdb != nil {
			queue.SetDriver(queue.NewRedisDriver(rdb))
		}
		queue.UseDB(db)
		jobs.Register(repositories.NewContactRepository(db))

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		workers := queueWorkersFlag
		if workers < 1 {
			workers = 5
		}

		fmt.Printf("Queue workers started (%d). Press Ctrl+C to stop.\n", workers)
		queue.StartWorkers(ctx, workers)

		<-ctx.Done()
		fmt.Println("\nQueue workers stopped.")
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 5, "Number of concurrent workers")
}
