package main

import (
	"context"
	"errors"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/nats-io/nats.go"
	"github.com/urfave/cli/v3"

	"github.com/seekshiva/codechecker/api"
	"github.com/seekshiva/codechecker/internal"
	"github.com/seekshiva/codechecker/internal/database"
	"github.com/seekshiva/codechecker/internal/gatherer/natsgath"
	"github.com/seekshiva/codechecker/internal/gatherer/sqsgath"
	"github.com/seekshiva/codechecker/internal/queue"
)

const natsQueueGroup = "codechecker"

func workerCommand() *cli.Command {
	return &cli.Command{
		Name:  "worker",
		Usage: "grade submissions requested over NATS or SQS",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "source", Value: "nats", Usage: "request source: nats or sqs"},
			&cli.IntFlag{Name: "workers", Usage: "concurrent gradings, overrides the config"},
			&cli.BoolFlag{Name: "migrate", Usage: "create missing tables before starting"},
		},
		Action: work,
	}
}

func work(ctx context.Context, cmd *cli.Command) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()
	cfg := rt.cfg

	if n := cmd.Int("workers"); n > 0 {
		cfg.Workers = int(n)
	}
	if cfg.Postgres.DSN == "" {
		return errors.New("postgres dsn is required for the worker")
	}

	rt.log.Info("connecting to postgres")
	store, err := database.ConnectPostgres(ctx, cfg.Postgres.DSN)
	if err != nil {
		return err
	}
	defer store.Close()
	if cmd.Bool("migrate") {
		if err := store.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	t, err := rt.newTester(store)
	if err != nil {
		return err
	}

	var (
		src       queue.Source
		gatherers queue.GathererFactory
	)
	switch cmd.String("source") {
	case "nats":
		rt.log.Info("connecting to nats", "url", cfg.NATS.URL)
		nc, err := nats.Connect(cfg.NATS.URL, nats.Name("codechecker"))
		if err != nil {
			return fmt.Errorf("failed to connect to nats: %w", err)
		}
		defer nc.Drain()

		natsSrc, err := queue.NewNATSSource(nc, cfg.NATS.Subject, natsQueueGroup)
		if err != nil {
			return err
		}
		src = natsSrc
		gatherers = func(req api.GradeReq) internal.ResultGatherer {
			subject := req.ResSubject
			if subject == "" {
				subject = cfg.NATS.ResultsPrefix + req.EvalUuid
			}
			return natsgath.New(nc, req.EvalUuid, subject, rt.log)
		}

	case "sqs":
		if cfg.SQS.QueueURL == "" {
			return errors.New("sqs queue_url is required for the sqs source")
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.SQS.Region))
		if err != nil {
			return fmt.Errorf("unable to load SDK config: %w", err)
		}
		client := sqs.NewFromConfig(awsCfg)
		src = queue.NewSQSSource(client, cfg.SQS.QueueURL)
		gatherers = func(req api.GradeReq) internal.ResultGatherer {
			url := req.ResSqsUrl
			if url == "" {
				url = cfg.SQS.ResultsQueueURL
			}
			if url == "" {
				return internal.NopGatherer{}
			}
			return sqsgath.NewSqsResponseQueueGatherer(ctx, client, req.EvalUuid, url, rt.log)
		}

	default:
		return fmt.Errorf("unknown source %q", cmd.String("source"))
	}

	rt.log.Info("worker started", "source", cmd.String("source"), "workers", cfg.Workers)
	return queue.NewWorker(store, t, gatherers, cfg.Workers, rt.log).Run(ctx, src)
}
