package main

import (
	"github.com/urfave/cli/v2"
)

func (s *srv) loadApp() {
	s.app = cli.NewApp()
	s.app.Action = cli.ShowAppHelp
	s.app.Name = "Scratchcard"
	s.app.Usage = "Loyalty scratch card backend"
	s.app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "Path to the toml configuration file",
			EnvVars: []string{"CONFIG_FILE"},
		},
		&cli.Int64Flag{
			Name:    "node",
			Usage:   "Snowflake node id, unique per running process",
			Value:   1,
			EnvVars: []string{"NODE_ID"},
		},
	}
	s.app.Before = s.loadConfig
	s.app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Category:    "Api",
			Description: `Used for start service api, it serves the shopkeeper and customer apis.`,
		},
		{
			Action:      s.startNotifier,
			Name:        "notifier",
			Usage:       "Start service notifier",
			Category:    "Worker",
			Description: `Used to start worker that sends sms to customers when they earn cards.`,
		},
		{
			Action:      s.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate the database",
			Category:    "Tool",
			Description: `Used to apply the sql migrations to the database.`,
		},
		{
			Action:    s.startToken,
			Name:      "token",
			Usage:     "Generate an access token",
			ArgsUsage: "<user_id>",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "role",
					Usage:    "shopkeeper or customer",
					Required: true,
				},
			},
			Category:    "Tool",
			Description: `Used to generate development access tokens.`,
		},
	}
}
