package main

import (
	"log"
	"os"
	"time"

	"github.com/findhari93-sketch/NeramNewApp-sub004/api"
	"github.com/findhari93-sketch/NeramNewApp-sub004/server"
	"github.com/joho/godotenv"
	"github.com/urfave/cli"
)

// @title neram payments API
// @version 0.1
// @description Payment authorization, Razorpay webhooks and admission flow for the Neram coaching platform.

// @host api.neramclasses.com
// @BasePath /
// @schemes http https

// @securityDefinitions.apiKey ApiKeyAuth
// @in header
// @name Authorization

func main() {
	_ = godotenv.Load("dev.env")

	app := cli.NewApp()
	app.Name = "Neram Payments Service"
	app.Version = "1.00"
	app.Compiled = time.Now()
	app.Authors = []cli.Author{
		{
			Name: "Neram Classes",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "backend-up",
			Usage: "This command starts the backend service",
			Action: func(c *cli.Context) error {
				StartServer(api.GetRoutes())
				return nil
			},
		},
	}
	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func StartServer(routes []*server.Route) {
	ctx := server.GetAppContext()
	ctx.CreatePostgresConnection()
	ctx.CreateSMTPConnection()
	ctx.CreateRazorpayIntegration()
	ctx.CreateLinkedInIntegration()
	ctx.CreateFirebaseAuth()
	ctx.CreateNewSessionS3()

	server.UpServer(routes, ctx)
}
