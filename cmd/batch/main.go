// Command batch turns a JSON-lines file of generation requests into saved drafts.
// Each input line yields one JSON result line on stdout, in input order.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"stay_reviews/internal/adapters/cupid"
	"stay_reviews/internal/adapters/events"
	"stay_reviews/internal/adapters/observability"
	redisad "stay_reviews/internal/adapters/redis"
	"stay_reviews/internal/app"
	"stay_reviews/internal/domain"
	"stay_reviews/internal/nlg"
	"stay_reviews/internal/shared"
	mysqlrepo "stay_reviews/internal/storage/mysql"
)

const maxLineBytes = 1 << 20

type batcher interface {
	GenerateBatch(ctx context.Context, reqs []domain.GenerationRequest, workers int) []app.BatchResult
}

type resultLine struct {
	Line  int           `json:"line"`
	Draft *domain.Draft `json:"draft,omitempty"`
	Error string        `json:"error,omitempty"`
}

func main() {
	in := flag.String("in", "-", "JSON-lines request file (- for stdin)")
	workers := flag.Int("workers", 0, "concurrent generations (default BATCH_WORKERS)")
	flag.Parse()

	cfg := shared.Load()

	// logs go to stderr; stdout carries results
	log.Logger = observability.NewLoggerTo(os.Stderr, cfg.AppEnv, cfg.LogLevel)
	if *workers <= 0 {
		*workers = cfg.Workers
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src := io.Reader(os.Stdin)
	if *in != "-" {
		f, err := os.Open(*in)
		if err != nil {
			log.Fatal().Err(err).Str("in", *in).Msg("open input")
		}
		defer f.Close()
		src = f
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()

	var hotels domain.HotelDirectory
	if cfg.CupidKey != "" {
		c, err := cupid.New(cfg.CupidBase, cfg.CupidKey, cfg.CupidRPS)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Cupid client")
		}
		hotels = c
	}

	var publisher domain.EventPublisher = events.Noop{}
	if cfg.NATSURL != "" {
		p, err := events.Connect(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			log.Fatal().Err(err).Msg("nats connect")
		}
		defer p.Close()
		publisher = p
	}

	opts := []nlg.Option{nlg.WithScoring(cfg.Scoring)}
	if cfg.GeneratorSeed != 0 {
		opts = append(opts, nlg.WithSeed(cfg.GeneratorSeed))
	}
	svc := app.NewReviewService(nlg.New(opts...), mysqlrepo.New(db), cache, hotels, publisher, cfg.CacheTTL())

	log.Info().Str("in", *in).Int("workers", *workers).Msg("batch starting")
	ok, failed, err := run(ctx, src, os.Stdout, svc, *workers)
	if err != nil {
		log.Fatal().Err(err).Msg("batch failed")
	}
	log.Info().Int("ok", ok).Int("failed", failed).Msg("batch completed")
}

// run reads every request, generates them in one bounded batch and writes one result
// per non-blank input line. Lines are numbered from 1.
func run(ctx context.Context, r io.Reader, w io.Writer, svc batcher, workers int) (ok, failed int, err error) {
	var (
		results []resultLine
		reqs    []domain.GenerationRequest
		slots   []int // slots[i] is the results index of reqs[i]
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var req domain.GenerationRequest
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			results = append(results, resultLine{Line: n, Error: fmt.Sprintf("decode: %v", err)})
			continue
		}
		slots = append(slots, len(results))
		results = append(results, resultLine{Line: n})
		reqs = append(reqs, req)
	}
	if err := sc.Err(); err != nil {
		return 0, 0, fmt.Errorf("read input: %w", err)
	}

	for i, br := range svc.GenerateBatch(ctx, reqs, workers) {
		res := &results[slots[i]]
		res.Draft, res.Error = br.Draft, br.Error
	}

	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, res := range results {
		if res.Error != "" {
			failed++
		} else {
			ok++
		}
		if err := enc.Encode(res); err != nil {
			return ok, failed, fmt.Errorf("write result line %d: %w", res.Line, err)
		}
	}
	return ok, failed, bw.Flush()
}
