package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	ginzap "github.com/gin-contrib/zap"

	"github.com/flarexio/grocerize"
	"github.com/flarexio/grocerize/conf"
	"github.com/flarexio/grocerize/item"
	"github.com/flarexio/grocerize/mailer"
	"github.com/flarexio/grocerize/persistence"

	transHTTP "github.com/flarexio/grocerize/transport/http"
	transPubSub "github.com/flarexio/grocerize/transport/pubsub"
)

var (
	Version   string = "0.0.0"
	BuildTime string
	GitCommit string
)

var versionCmd = &cli.Command{
	Name:    "version",
	Aliases: []string{"ver", "v"},
	Usage:   "Show version",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "all",
			Aliases: []string{"a"},
			Usage:   "Show all infomation (include: Version, BuildTime, GitCommit)",
			Value:   false,
		},
	},
	Action: func(ctx *cli.Context) error {
		if !ctx.Bool("all") {
			fmt.Println(ctx.App.Version)
		} else {
			cli.ShowVersion(ctx)
		}
		return nil
	},
}

var configCmd = &cli.Command{
	Name:  "config",
	Usage: "Load and validate the configuration",
	Action: func(ctx *cli.Context) error {
		if err := conf.LoadEnv(ctx); err != nil {
			return err
		}

		cfg, err := conf.LoadConfig()
		if err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		fmt.Printf("Path: %s\n", conf.Path)
		fmt.Printf("Persistence: %s\n", cfg.Persistence.Driver)
		fmt.Printf("Mail: %s\n", cfg.Mail.Driver)
		fmt.Printf("EventBus: %s\n", cfg.EventBus.Provider)

		return nil
	},
}

func main() {
	cli.VersionPrinter = func(cli *cli.Context) {
		fmt.Println("Version: " + cli.App.Version)
		fmt.Println("BuildTime: " + BuildTime)
		fmt.Println("GitCommit: " + GitCommit)
	}

	app := &cli.App{
		Name:     "grocerize",
		Usage:    "The amazing grocery list",
		Version:  Version,
		Commands: []*cli.Command{versionCmd, configCmd},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "path",
				Usage:   "Specifies the working directory",
				EnvVars: []string{"GROCERIZE_PATH"},
			},
			&cli.IntFlag{
				Name:    "port",
				Usage:   "Specifies the HTTP service port",
				Value:   8080,
				EnvVars: []string{"GROCERIZE_HTTP_PORT"},
			},
			&cli.StringFlag{
				Name:    "nats",
				Usage:   "Overrides the event bus URL",
				EnvVars: []string{"NATS_URL"},
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(cli *cli.Context) error {
	err := conf.LoadEnv(cli)
	if err != nil {
		return err
	}

	cfg, err := conf.LoadConfig()
	if err != nil {
		return err
	}

	if url := cli.String("nats"); url != "" {
		cfg.EventBus.URL = url
	}

	conf.ReplaceGlobals(cfg)

	log, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer log.Sync()

	zap.ReplaceGlobals(log)

	r, closer, err := newApp(cfg, log)
	if err != nil {
		return err
	}
	defer closer()

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(conf.Port),
		Handler: r,
	}

	go func() {
		log.Info("http server started", zap.String("addr", srv.Addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(err.Error(), zap.String("transport", "http"))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sign := <-quit

	log.Info("shutdown", zap.String("signal", sign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return srv.Shutdown(ctx)
}

// newApp wires persistence, mail, events and both HTTP surfaces. The
// returned func releases the infrastructure.
func newApp(cfg *conf.Config, log *zap.Logger) (*gin.Engine, func(), error) {
	var closers []func() error
	closer := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Warn(err.Error())
			}
		}
	}

	// Add Persistence
	repo, err := persistence.NewItemRepository(cfg.Persistence)
	if err != nil {
		log.Error(err.Error(),
			zap.String("infra", "persistence"),
			zap.String("driver", cfg.Persistence.Driver.String()),
		)
		return nil, nil, err
	}
	closers = append(closers, repo.Close)

	// Add Mail
	sender, err := mailer.NewSender(cfg.Mail, log)
	if err != nil {
		log.Error(err.Error(),
			zap.String("infra", "mail"),
			zap.String("driver", cfg.Mail.Driver.String()),
		)
		closer()
		return nil, nil, err
	}

	// Add Event Publisher
	var events item.EventPublisher
	{
		log := log.With(
			zap.String("infra", "pubsub"),
			zap.String("provider", cfg.EventBus.Provider.String()),
		)

		switch cfg.EventBus.Provider {
		case conf.NATS:
			events, err = transPubSub.NewNATSPublisher(cfg.EventBus.URL, cfg.EventBus.Subject, cfg.Name)
			if err != nil {
				log.Error(err.Error())
				closer()
				return nil, nil, err
			}

			log.Info("connected")

		default:
			events = transPubSub.NewNopPublisher()
		}

		closers = append(closers, events.Close)
	}

	// Add Service and Middlewares
	svc := grocerize.NewService(repo, sender, net.DefaultResolver, events)
	svc = grocerize.LoggingMiddleware(log)(svc)

	// Add Endpoints
	endpoints := grocerize.NewEndpointSet(svc)

	// Add HTTP Transport
	r := gin.New()
	r.Use(
		ginzap.Ginzap(log, time.RFC3339, true),
		ginzap.RecoveryWithZap(log, true),
	)

	transHTTP.LoadTemplates(r)

	store := transHTTP.NewSessionStore(cfg.Session)
	pages := transHTTP.NewPages(endpoints, cfg.Site, store, cfg.Session.Name)
	transHTTP.RegisterPages(r, pages)

	apiV1 := r.Group("/api/v1")
	transHTTP.RegisterAPI(apiV1, endpoints)

	return r, closer, nil
}
