package main

import (
	"blackjack-table/server/engine"
	"blackjack-table/server/store"
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	mrand "math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"fortio.org/cli"
	"fortio.org/log"
	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
)

//
// ===== bootstrap =====
//

func mustEnv(keys ...string) {
	for _, k := range keys {
		if os.Getenv(k) == "" {
			log.Fatalf("Missing required env var %s. Put it in .env (dev) or set it on the host (prod).", k)
		}
	}
}
func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
func atoiDef(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
func atofDef(s string, def float64) float64 {
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return f
}
func asBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func colorEnabled() bool {
	return os.Getenv("NO_COLOR") == "" && strings.TrimSpace(os.Getenv("USE_COLOR")) != "0"
}

func main() {
	_ = godotenv.Load()

	difficulty := flag.Int("difficulty", atoiDef(os.Getenv("BLACKJACK_DIFFICULTY"), 0),
		"Preselect the dealer `1-4` and skip the prompt")
	simulate := flag.Int("simulate", atoiDef(os.Getenv("SIM_ROUNDS"), 0),
		"Play `N` bot rounds per difficulty and print statistics")
	serve := flag.Bool("serve", false, "Serve the stats API over the round ledger")
	migrate := flag.Bool("migrate", false, "Apply the ledger schema and exit")
	cli.ProgramName = "blackjack"
	cli.MaxArgs = 0
	cli.Main()

	if !colorEnabled() {
		pterm.DisableColor()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watchSignals(cancel)

	if *migrate {
		mustEnv("DATABASE_URL")
		db := openDB(ctx, true)
		defer db.Close(context.Background())
		if err := store.Migrate(ctx, db); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		log.Infof("migrated")
		return
	}

	if *serve {
		mustEnv("DATABASE_URL")
		db := openDB(ctx, true)
		defer db.Close(context.Background())
		port := getenv("PORT", "8080")
		srv := &http.Server{Addr: ":" + port, Handler: Router(db), ReadTimeout: 15 * time.Second, WriteTimeout: 15 * time.Second}
		go func() {
			<-ctx.Done()
			_ = srv.Shutdown(context.Background())
		}()
		log.Infof("listening on http://localhost:%s (Ctrl+C to stop)", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
		return
	}

	seed, err := deckSeedFromEnvOrCrypto()
	if err != nil {
		log.Fatalf("%v", err)
	}
	log.Infof("deck seed %d", seed)
	rng := newRNG(seed)

	led := &ledger{}
	if os.Getenv("DATABASE_URL") != "" {
		led.db = openDB(ctx, false)
		if led.db != nil {
			defer led.db.Close(context.Background())
		}
	}
	eloStart := atofDef(os.Getenv("ELO_START"), 1500)
	eloK := atofDef(os.Getenv("ELO_K"), 24)

	if *simulate > 0 {
		results, bot, err := runSimulation(ctx, simConfig{
			rounds:       *simulate,
			standOn:      atoiDef(os.Getenv("SIM_STAND_ON"), 17),
			rng:          rng,
			eloStart:     eloStart,
			eloK:         eloK,
			judgeSamples: atoiDef(os.Getenv("SIM_JUDGE_SAMPLES"), 0),
			judgeEps:     atofDef(os.Getenv("SIM_JUDGE_EPS"), 0.02),
		}, led)
		printSimulation(os.Stdout, results, bot)
		if err != nil {
			log.Fatalf("simulation: %v", err)
		}
		return
	}

	d := engine.Difficulty(*difficulty)
	if *difficulty != 0 && !d.Valid() {
		log.Warnf("ignoring difficulty %d: %v", *difficulty, engine.ErrInvalidDifficulty)
		d = 0
	}
	_, err = runSession(ctx, sessionConfig{
		in:         os.Stdin,
		out:        os.Stdout,
		rng:        rng,
		difficulty: d,
		clear:      colorEnabled(),
		eloStart:   eloStart,
		eloK:       eloK,
	}, led)
	if err != nil {
		log.Fatalf("session: %v", err)
	}
}

// openDB connects to DATABASE_URL. Outside of the DB-only modes a failure
// only disables the ledger.
func openDB(ctx context.Context, required bool) *store.DB {
	fail := func(what string, err error) *store.DB {
		if required {
			log.Fatalf("%s: %v", what, err)
		}
		log.Warnf("DB disabled (%s failed): %v; continuing", what, err)
		return nil
	}
	db, err := store.Open(getenv("DATABASE_URL", ""))
	if err != nil {
		return fail("open", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close(ctx)
		return fail("ping", err)
	}
	if asBool(os.Getenv("AUTO_MIGRATE")) {
		if err := store.Migrate(ctx, db); err != nil {
			db.Close(ctx)
			return fail("migrate", err)
		}
		log.Infof("migrated")
	}
	return db
}

func watchSignals(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c
	cancel()
}

//
// ===== randomness =====
//

type seedStream struct{ state uint64 }

func newSeedStream(base uint64) seedStream { return seedStream{state: base} }
func (s *seedStream) next() uint64 {
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z ^= z >> 30
	z *= 0xBF58476D1CE4E5B9
	z ^= z >> 27
	z *= 0x94D049BB133111EB
	z ^= z >> 31
	return z
}

// newRNG expands one seed into the two PCG words.
func newRNG(seed uint64) *mrand.Rand {
	s := newSeedStream(seed)
	return mrand.New(mrand.NewPCG(s.next(), s.next()))
}

func secureBaseSeed() (uint64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("random source: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}
func deckSeedFromEnvOrCrypto() (uint64, error) {
	if s := os.Getenv("DECK_SEED"); s != "" {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			return uint64(v), nil
		}
		log.Warnf("DECK_SEED %q is not an integer; using a random seed", s)
	}
	return secureBaseSeed()
}
