package main

import (
	"Ninety/config"
	"Ninety/pkg/database"
	"Ninety/pkg/jwt"
	"Ninety/pkg/log"
	"Ninety/pkg/server"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	path := fmt.Sprintf("configs/config.%s.yaml", env)

	cliApp := &cli.App{
		Name:  "api-server",
		Usage: "Ninety points backend",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: path, Usage: "config file"},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "start http server and expiry reaper",
				Action: func(ctx *cli.Context) error {
					appProvider, err := InitServer(config.New(ctx.String("config")))
					if err != nil {
						return err
					}
					return server.Run(ctx, appProvider)
				},
			},
			{
				Name:  "notify-worker",
				Usage: "consume notifications from rocketmq and push to LINE",
				Action: func(ctx *cli.Context) error {
					proc, err := InitWorker(config.New(ctx.String("config")))
					if err != nil {
						return err
					}
					return server.RunWorker(ctx, proc)
				},
			},
			{
				Name:  "sweep",
				Usage: "refund expired pending redemptions once",
				Action: func(ctx *cli.Context) error {
					reaper := InitSweeper(config.New(ctx.String("config")))
					n, err := reaper.RunOnce(ctx.Context)
					if err != nil {
						return err
					}
					log.L.Info("sweep finished", zap.Int("refunded", n))
					return nil
				},
			},
			{
				Name:  "migrate",
				Usage: "create tables and bootstrap admins",
				Action: func(ctx *cli.Context) error {
					cfg := config.New(ctx.String("config"))
					return database.Migrate(database.NewDB(cfg), cfg.App.Admins)
				},
			},
			{
				Name:  "machine-token",
				Usage: "issue a bearer token for a machine or an admin",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "subject", Usage: "machine id or admin LINE user id", Required: true},
					&cli.StringFlag{Name: "role", Value: jwt.RoleMachine, Usage: "machine or admin"},
					&cli.DurationFlag{Name: "expire", Value: 0, Usage: "0 means never"},
				},
				Action: func(ctx *cli.Context) error {
					cfg := config.New(ctx.String("config"))
					token, err := jwt.GenerateToken([]byte(cfg.Jwt.Secret), cfg.Jwt.Issuer,
						ctx.String("subject"), ctx.String("role"), ctx.Duration("expire"))
					if err != nil {
						return err
					}
					fmt.Println(token)
					return nil
				},
			},
		},
	}
	if err := cliApp.Run(os.Args); err != nil {
		log.L.Fatal("failed to run command", zap.Error(err))
	}
}
