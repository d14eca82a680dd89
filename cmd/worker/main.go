package main

import (
	"context"
	"log"
	"os"

	firebase "firebase.google.com/go/v4"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"roomvizapi/dbhelper"
	"roomvizapi/services"
	"roomvizapi/tasks"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on the environment")
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: os.Getenv("ASYNC_BROKER_ADDRESS")},
		asynq.Config{Concurrency: 10, Queues: map[string]int{
			"analyze": 7,
			"default": 3,
		}},
	)

	awsService := &services.AWSService{}
	if err := awsService.InitPresignClient(context.Background()); err != nil {
		log.Fatal("[Queue] Failed to initialize AWS provider: S3")
	}

	var app *firebase.App
	if os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" {
		var err error
		app, err = firebase.NewApp(context.Background(), nil)
		if err != nil {
			log.Fatalf("error initializing firebase app: %v\n", err)
			return
		}
	}

	db := dbhelper.SetupDB()

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeRoomScanAnalysis, func(ctx context.Context, t *asynq.Task) error {
		return tasks.HandleRoomScanAnalysisTask(ctx, t, db, awsService, app)
	})

	if err := srv.Run(mux); err != nil {
		log.Fatal(err)
	}
}
