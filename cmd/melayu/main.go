package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/malaynlp/melayu/config"
	"github.com/malaynlp/melayu/corpus"
	"github.com/malaynlp/melayu/server"
	"github.com/malaynlp/melayu/stemmer"
	"github.com/malaynlp/melayu/store"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config.yaml (defaults apply when empty)")
	addr := flag.String("addr", "", "HTTP listen address, overrides config")
	oneShot := flag.Bool("stem", false, "Stem the remaining arguments and exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("load .env: %v", err)
	}

	if *oneShot {
		sm, err := stemmer.New()
		if err != nil {
			log.Fatalf("init stemmer: %v", err)
		}
		for _, w := range flag.Args() {
			fmt.Printf("%s\t%s\n", w, sm.Stem(w))
		}
		return
	}

	var err error
	cfg := config.Default()
	if *cfgPath != "" {
		cfg, err = config.Load(*cfgPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}
	if *addr != "" {
		cfg.Server.Address = *addr
	}

	zl, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync()
	sugar := zl.Sugar()

	stemOpts := []stemmer.Option{stemmer.WithLogger(sugar)}
	if path := cfg.Stemmer.ExceptionsPath; path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			sugar.Fatalw("read exception table", "path", path, "err", err)
		}
		stemOpts = append(stemOpts, stemmer.WithExceptionTable(raw))
	}
	sm, err := stemmer.New(stemOpts...)
	if err != nil {
		sugar.Fatalw("init stemmer", "err", err)
	}

	var st *store.Store
	if cfg.Store.DSN != "" {
		st, err = store.New(cfg.Store.DSN)
		if err != nil {
			sugar.Fatalw("open store", "dsn", cfg.Store.DSN, "err", err)
		}
		defer st.Close()
	}

	proc := corpus.NewProcessor(sm, sugar, cfg.Corpus.DropStopwords)
	srv := server.New(cfg, sm, proc, st, sugar)

	go func() {
		sugar.Infow("listening", "addr", cfg.Server.Address)
		if err := srv.Listen(cfg.Server.Address); err != nil {
			sugar.Fatalw("serve", "err", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	sugar.Info("shutting down")
	if err := srv.Shutdown(); err != nil {
		sugar.Errorw("shutdown", "err", err)
	}
}
