// Package simulator plays many bot-only matches concurrently and collects
// per-seat statistics.
package simulator

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/yahtzee/dice"
	"github.com/lox/yahtzee/internal/bot"
	"github.com/lox/yahtzee/internal/game"
	"github.com/lox/yahtzee/internal/randutil"
	"github.com/lox/yahtzee/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// Seat is one bot taking part in every simulated match.
type Seat struct {
	Name     string
	Strategy string
}

// Config holds configuration for running simulations
type Config struct {
	Games   int
	Workers int
	Seed    int64
	Seats   []Seat
	Rules   dice.Rules
	Timeout time.Duration // Per game; zero disables
	Logger  *log.Logger
}

// Results are the per-seat statistics of a finished run.
type Results struct {
	Games int
	Seed  int64
	Rules dice.Rules
	Seats []*statistics.Statistics
}

// Simulator runs bot matches
type Simulator struct {
	config Config
	logger *log.Logger
}

// New creates a new simulator with the given configuration
func New(config Config) (*Simulator, error) {
	if config.Games < 1 {
		return nil, fmt.Errorf("games must be positive, got %d", config.Games)
	}
	if len(config.Seats) == 0 {
		return nil, fmt.Errorf("at least one seat is required")
	}
	for _, seat := range config.Seats {
		if _, err := bot.New(seat.Strategy, randutil.New(0)); err != nil {
			return nil, fmt.Errorf("seat %s: %w", seat.Name, err)
		}
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.Rules.Name == "" {
		config.Rules = dice.Classic
	}
	if config.Logger == nil {
		config.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Simulator{config: config, logger: config.Logger.WithPrefix("simulator")}, nil
}

type gameResult struct {
	standings []game.Standing
	cards     []game.Scorecard
}

// Run plays every game and aggregates the results in game order, so the
// same seed gives the same statistics for any worker count.
func (s *Simulator) Run(ctx context.Context) (*Results, error) {
	results := make([]gameResult, s.config.Games)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)
	for n := range s.config.Games {
		g.Go(func() error {
			r, err := s.playGame(ctx, n)
			if err != nil {
				return err
			}
			results[n] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seats := make([]*statistics.Statistics, len(s.config.Seats))
	for i, seat := range s.config.Seats {
		seats[i] = statistics.New(seat.Name)
	}
	for _, r := range results {
		for i, st := range r.standings {
			seats[i].Add(st, r.cards[i])
		}
	}
	for _, st := range seats {
		if err := st.Validate(); err != nil {
			return nil, fmt.Errorf("statistics validation failed: %w", err)
		}
	}

	s.logger.Debug("Simulation complete", "games", s.config.Games, "seed", s.config.Seed)
	return &Results{
		Games: s.config.Games,
		Seed:  s.config.Seed,
		Rules: s.config.Rules,
		Seats: seats,
	}, nil
}

// playGame plays game n from its own derived seed. Each call owns its
// match, roller and bots.
func (s *Simulator) playGame(ctx context.Context, n int) (gameResult, error) {
	seed := randutil.Derive(s.config.Seed, n)

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	names := make([]string, len(s.config.Seats))
	bots := make([]bot.Bot, len(s.config.Seats))
	for i, seat := range s.config.Seats {
		names[i] = seat.Name
		b, err := bot.New(seat.Strategy, randutil.New(randutil.Derive(seed, i+1)))
		if err != nil {
			return gameResult{}, err
		}
		bots[i] = b
	}

	m, err := game.NewMatch(
		game.NewRandRoller(randutil.New(seed)),
		names,
		game.WithRules(s.config.Rules),
		game.WithID(fmt.Sprintf("sim-%d", n)),
		game.WithLogger(s.config.Logger),
	)
	if err != nil {
		return gameResult{}, err
	}

	if err := bot.Play(ctx, m, bots, s.config.Logger); err != nil {
		return gameResult{}, fmt.Errorf("game %d (seed %d): %w", n+1, seed, err)
	}

	players := m.Players()
	cards := make([]game.Scorecard, len(players))
	for i, p := range players {
		cards[i] = p.Card
	}
	return gameResult{standings: m.Standings(), cards: cards}, nil
}

// PrintSummary writes a report of the results to w
func PrintSummary(w io.Writer, r *Results) {
	fmt.Fprintf(w, "\n=== %d GAMES, %s RULES, SEED %d ===\n", r.Games, r.Rules.Name, r.Seed)

	for _, s := range r.Seats {
		low, high := s.ConfidenceInterval95()
		fmt.Fprintf(w, "\n--- %s ---\n", s.Name)
		fmt.Fprintf(w, "Mean: %.2f points (median %.1f)\n", s.Mean(), s.Median())
		fmt.Fprintf(w, "Std Dev: %.2f, Std Error: %.2f\n", s.StdDev(), s.StdError())
		fmt.Fprintf(w, "95%% CI: [%.2f, %.2f]\n", low, high)
		fmt.Fprintf(w, "Percentiles: P5=%.0f, P25=%.0f, P75=%.0f, P95=%.0f\n",
			s.Percentile(0.05), s.Percentile(0.25), s.Percentile(0.75), s.Percentile(0.95))
		fmt.Fprintf(w, "Win rate: %.1f%%, bonus rate: %.1f%%, yahtzee rate: %.1f%%\n",
			s.WinRate()*100, s.BonusRate()*100, s.YahtzeeRate()*100)

		fmt.Fprintf(w, "Category averages:\n")
		for _, c := range dice.Categories() {
			fmt.Fprintf(w, "  %-15s %6.2f  (scratched %.1f%%)\n", c.Name(), s.CategoryMean(c), s.ScratchRate(c)*100)
		}
	}
}
