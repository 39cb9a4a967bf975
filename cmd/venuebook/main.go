package main

import (
	"fmt"
	"os"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/venuebook/internal/adminkey"
	"github.com/smallbiznis/venuebook/internal/clock"
	"github.com/smallbiznis/venuebook/internal/config"
	"github.com/smallbiznis/venuebook/internal/migration"
	"github.com/smallbiznis/venuebook/internal/observability"
	"github.com/smallbiznis/venuebook/internal/server"
	"github.com/smallbiznis/venuebook/pkg/db"
	"go.uber.org/fx"
)

func main() {
	// venuebook hash-admin-key <key> prints a value for ADMIN_KEY_HASH.
	if len(os.Args) == 3 && os.Args[1] == "hash-admin-key" {
		encoded, err := adminkey.Hash(os.Args[2])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(encoded)
		return
	}

	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.SnowflakeNode)
}
