package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/trezcool/ielts/core"
	logsvc "github.com/trezcool/ielts/services/logger"
	"github.com/trezcool/ielts/storage"
	"github.com/trezcool/ielts/storage/database"
)

func main() {
	conf := core.NewConfig()
	stdLogger := log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(false)

	cli := commandLine{
		conf:   conf,
		logger: logger,
		out:    os.Stdout,
		openDB: func(ctx context.Context) (*sql.DB, error) {
			if err := database.CreateIfNotExist(ctx, conf); err != nil {
				return nil, err
			}
			db, err := database.Open(ctx, conf)
			if err != nil {
				return nil, err
			}
			return db.DB, nil
		},
		openStorage: func(ctx context.Context) (storage.Storage, error) {
			return storage.Open(ctx, conf)
		},
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			stdLogger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
