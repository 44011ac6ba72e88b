package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/dmaher/shoplite/internal/config"
	"github.com/dmaher/shoplite/internal/importer"
	"github.com/dmaher/shoplite/internal/jobs"
	"github.com/dmaher/shoplite/internal/store"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("component", "worker").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	db, err := store.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer db.Close()

	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: cfg.RedisAddr}, asynq.Config{
		Concurrency: 8,
		Queues: map[string]int{
			"imports": 10,
			"default": 5,
		},
	})
	mux := asynq.NewServeMux()

	mux.HandleFunc(jobs.TaskImportProducts, func(ctx context.Context, t *asynq.Task) error {
		var p jobs.ImportProductsPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			logger.Error().Err(err).Msg("bad import payload")
			return err
		}
		log := logger.With().Str("merchant", p.MerchantID).Str("file", p.Filename).Logger()

		start := time.Now()
		inserted, rejected, err := importProducts(ctx, db, p)
		if err != nil {
			if isRetryable(err) {
				log.Warn().Err(err).Dur("took", time.Since(start)).Msg("import failed, will retry")
				return err
			}
			log.Error().Err(err).Dur("took", time.Since(start)).Msg("import failed permanently, dropping job")
			return nil
		}
		log.Info().Int("inserted", inserted).Int("rejected", rejected).
			Dur("took", time.Since(start)).Msg("import done")
		return nil
	})

	logger.Info().Msg("worker running")
	if err := srv.Run(mux); err != nil {
		logger.Fatal().Err(err).Msg("worker stopped")
	}
}

func importProducts(ctx context.Context, db *store.Store, p jobs.ImportProductsPayload) (inserted, rejected int, err error) {
	mid, err := uuid.Parse(p.MerchantID)
	if err != nil {
		return 0, 0, err
	}
	res, err := importer.ParseProducts(bytes.NewReader(p.CSV))
	if err != nil {
		return 0, 0, err
	}

	params := make([]store.CreateProductParams, 0, len(res.Rows))
	for _, row := range res.Rows {
		params = append(params, store.CreateProductParams{
			MerchantID: mid,
			Name:       row.Name,
			Category:   row.Category,
			Price:      row.Price,
			Cost:       row.Cost,
		})
	}
	n, err := db.BulkInsertProducts(ctx, params)
	if err != nil {
		return 0, 0, err
	}
	return n, len(res.Errors), nil
}

// isRetryable separates transient failures (connectivity) from permanent
// ones (bad csv, unknown merchant). Permanent failures are dropped rather
// than retried forever.
func isRetryable(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, hint := range []string{"timeout", "connection", "network", "dns", "too many clients"} {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}
