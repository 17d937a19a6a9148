package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/gophreg/internal/server"
	"github.com/dmitrijs2005/gophreg/internal/server/config"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	ctx := context.Background()
	cfg := config.LoadConfig()
	gin.SetMode(cfg.GinMode)

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
