package main

import (
	"context"
	"log"

	"github.com/vkuzmenko/passkeeper/internal/cli"
	"github.com/vkuzmenko/passkeeper/internal/config"
)

func main() {
	ctx := context.Background()

	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
