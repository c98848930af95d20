package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/localnerve/sitecms/internal/config"
	"github.com/localnerve/sitecms/internal/database"
	"github.com/localnerve/sitecms/internal/database/dbtest"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	flag.Parse()

	usage := `
Run a sitecms state database container with the environment variables from the .env file.
Prints the STATE_DB_* settings that point siteadmin at it, then waits for a signal.

Usage:

testcontainers [-h] [-f ENV_FILE_PATH]

ENV_FILE_PATH: path to the .env file

example
  testcontainers -f /path/to/something/.env
`
	// if -h flag print usage and return
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		log.Printf("Loading environment variables from %s\n", envFilename)
		if err := config.LoadEnvFile(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v\n", err)
		}
	} else {
		log.Printf("No environment file specified, using current environment variables\n")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	stateDB, err := dbtest.Start(ctx)
	if err != nil {
		log.Fatalf("Failed to create state database container: %v\n", err)
	}

	db, err := database.Connect(stateDB.Config)
	if err == nil {
		err = database.AutoMigrate(db)
		database.Close(db)
	}
	if err != nil {
		stateDB.Terminate(context.Background())
		log.Fatalf("Failed to migrate state database: %v\n", err)
	}

	for _, line := range stateDB.Env() {
		fmt.Fprintln(os.Stdout, line)
	}

	<-ctx.Done()
	log.Printf("\nReceived signal, terminating state database container...\n")
	if err := stateDB.Terminate(context.Background()); err != nil {
		log.Printf("Failed to terminate state database container: %v\n", err)
	}
}
