package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "Stride"
	app.Usage = ""
	app.Commands = []*cli.Command{
		{
			Action:      server.startApi,
			Name:        "api",
			Usage:       "Start the api service",
			Flags:       []cli.Flag{configFlag},
			Category:    "Api",
			Description: `Starts the main service with all apis.`,
		},
		{
			Action:      server.startMigrate,
			Name:        "migrate",
			Usage:       "Migrate database tables",
			Flags:       []cli.Flag{configFlag},
			Category:    "Database",
			Description: `Creates or updates all database tables, then exits.`,
		},
	}

	s.app = app
}

var configFlag = &cli.StringFlag{
	Name:  "config",
	Usage: "Path of the configuration file",
	Value: "config.toml",
}
