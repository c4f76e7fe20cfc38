package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/altonotch/dilli/internal/audit"
	"github.com/altonotch/dilli/internal/config"
	"github.com/altonotch/dilli/internal/database"
	"github.com/altonotch/dilli/internal/flow"
	"github.com/altonotch/dilli/internal/i18n"
	"github.com/altonotch/dilli/internal/redis"
	"github.com/altonotch/dilli/internal/repository"
	"github.com/altonotch/dilli/internal/resolver"
	"github.com/altonotch/dilli/internal/units"
)

// The bot reads messages on stdin and prints replies to stdout, one exchange
// per line. A real transport adapter goes in front of the same engine.
func main() {
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	setLogLevel(cfg.LogLevel)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Msg("database connected")

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	userRepo := repository.NewUserRepository(db.DB)
	cityRepo := repository.NewCityRepository(db.DB)
	storeRepo := repository.NewStoreRepository(db.DB)
	productRepo := repository.NewProductRepository(db.DB)
	reportRepo := repository.NewReportRepository(db.DB)
	sessionStore := repository.NewSessionStore(redisClient, cfg.SessionTTL())

	engine := flow.New(flow.Deps{
		Users:         userRepo,
		Sessions:      sessionStore,
		Reports:       reportRepo,
		Resolver:      resolver.New(cityRepo, storeRepo, productRepo, log.Logger),
		Units:         units.NewCatalog(),
		Tr:            i18n.NewCatalog(),
		Audit:         audit.New(log.Logger),
		Log:           log.Logger,
		SenderSalt:    cfg.SenderSalt,
		DefaultLocale: cfg.DefaultLocale,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	fmt.Println("dilli bot ready; messages read from stdin as <sender> <text>")
	for {
		select {
		case <-quit:
			log.Info().Msg("shutting down")
			return
		case line, ok := <-lines:
			if !ok {
				log.Info().Msg("stdin closed")
				return
			}
			sender, body, found := strings.Cut(strings.TrimSpace(line), " ")
			if !found || sender == "" {
				fmt.Println("usage: <sender> <text>")
				continue
			}

			in := flow.Inbound{SenderID: sender, Text: body}
			if strings.HasPrefix(body, "btn:") {
				in.Text = ""
				in.ButtonID = strings.TrimPrefix(body, "btn:")
			}

			reply, err := engine.HandleMessage(context.Background(), in)
			if err != nil {
				log.Error().Err(err).Str("sender", sender).Msg("failed to handle message")
				continue
			}
			fmt.Println(reply.Text)
			for _, b := range reply.Buttons {
				fmt.Printf("  [%s] %s\n", b.ID, b.Title)
			}
		}
	}
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
