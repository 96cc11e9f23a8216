package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/uritmix/studio-api/internal/auth"
	"github.com/uritmix/studio-api/internal/bootstrap"
	"github.com/uritmix/studio-api/internal/config"
	"github.com/uritmix/studio-api/internal/database"
	"github.com/uritmix/studio-api/internal/handler"
	"github.com/uritmix/studio-api/internal/notify"
	"github.com/uritmix/studio-api/internal/queue"
	"github.com/uritmix/studio-api/internal/repository"
	"github.com/uritmix/studio-api/internal/router"
	"github.com/uritmix/studio-api/internal/utils"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable: rate limiting and response cache disabled")
	}

	persons := repository.NewPersonRepo(db)
	codes := repository.NewConfirmationCodeRepo(db)
	tokens := repository.NewRefreshTokenRepo(db)
	rooms := repository.NewRoomRepo(db)
	lessons := repository.NewLessonRepo(db)
	abonnements := repository.NewAbonnementRepo(db)
	sold := repository.NewSoldAbonnementRepo(db)
	events := repository.NewEventRepo(db)

	issuer := utils.NewTokenIssuer(utils.TokenOptions{
		AccessSecret:     cfg.AccessTokenSecret,
		RefreshSecret:    cfg.RefreshTokenSecret,
		AccessTTLSecond:  cfg.AccessTTLSecond,
		RefreshTTLSecond: cfg.RefreshTTLSecond,
	})
	sender := notify.NewSender(cfg.ActivatePersonURL, cfg.ResetPasswordURL)
	authSvc := auth.NewService(persons, codes, tokens, issuer, sender)

	if err := bootstrap.EnsureAdmin(context.Background(), persons, cfg); err != nil {
		log.Fatalf("admin bootstrap: %v", err)
	}

	go func() {
		if err := queue.StartCodeConsumer(); err != nil {
			log.Printf("code consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e, router.Handlers{
		Auth:       handler.NewAuthHandler(authSvc),
		Person:     handler.NewPersonHandler(persons),
		Room:       handler.NewRoomHandler(rooms),
		Lesson:     handler.NewLessonHandler(lessons, persons),
		Abonnement: handler.NewAbonnementHandler(abonnements, sold, persons),
		Event:      handler.NewEventHandler(events, lessons, rooms),
	}, cfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
