package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/internal/config"
	"github.com/prestigeCareManagementSoftwares/PrestigeCareHomeManagement/pkg/redisx"
)

// tail-gap-events follows the coverage gap stream and prints each event,
// acknowledging as it goes. Useful for verifying the notifier end to end
// and as a template for real downstream consumers.
func main() {
	group := flag.String("group", "gap-events-tail", "consumer group name")
	consumer := flag.String("consumer", "tail-1", "consumer name within the group")
	flag.Parse()

	cfg := config.Load()

	client := redisx.NewClient(&redisx.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := redisx.Ping(ctx, client); err != nil {
		fmt.Fprintf(os.Stderr, "redis unavailable: %v\n", err)
		os.Exit(1)
	}
	if err := redisx.CreateConsumerGroup(ctx, client, cfg.Coverage.GapStream, *group); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create consumer group: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("following %s as %s/%s\n", cfg.Coverage.GapStream, *group, *consumer)
	for ctx.Err() == nil {
		messages, err := redisx.ReadFromStream(ctx, client, cfg.Coverage.GapStream, *group, *consumer, 10)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			fmt.Fprintf(os.Stderr, "read failed: %v\n", err)
			continue
		}
		for _, msg := range messages {
			fmt.Printf("%s %v\n", msg.ID, msg.Values["data"])
			client.XAck(ctx, cfg.Coverage.GapStream, *group, msg.ID)
		}
	}
}
