// Package uci implements the Universal Chess Interface front-end.
package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/hailam/rayfish/internal/board"
	"github.com/hailam/rayfish/internal/book"
	"github.com/hailam/rayfish/internal/engine"
	"github.com/hailam/rayfish/internal/storage"
)

// Engine identification
const (
	engineName   = "Rayfish"
	engineAuthor = "the Rayfish authors"
)

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine   *engine.Engine
	tm       *engine.TimeManager
	position *board.Position

	// The position before the "moves" list and the moves played from it
	setup  *board.Position
	played []board.Move

	// Opening book. bookLive is cleared on the first miss of a game.
	book     *book.Book
	bookLive bool

	// Option persistence, nil store when disabled
	opts    *storage.Options
	store   *storage.Storage
	persist bool

	// Search state
	cancel     context.CancelFunc
	searchDone chan struct{}

	outMu sync.Mutex
	out   io.Writer
}

// New creates a UCI handler writing to out. opts seeds the engine settings;
// store may be nil, in which case the Persist option has no effect.
func New(eng *engine.Engine, bk *book.Book, opts *storage.Options, store *storage.Storage, out io.Writer) *UCI {
	if opts == nil {
		opts = storage.DefaultOptions()
	}
	eng.SetThreads(opts.Threads)

	return &UCI{
		engine:   eng,
		tm:       engine.NewTimeManager(opts.MoveTime),
		position: board.NewPosition(eng.Cache().Keys()),
		setup:    board.NewPosition(eng.Cache().Keys()),
		book:     bk,
		bookLive: true,
		opts:     opts,
		store:    store,
		out:      out,
	}
}

func (u *UCI) println(a ...any) {
	u.outMu.Lock()
	defer u.outMu.Unlock()
	fmt.Fprintln(u.out, a...)
}

func (u *UCI) printf(format string, a ...any) {
	u.outMu.Lock()
	defer u.outMu.Unlock()
	fmt.Fprintf(u.out, format, a...)
}

// Run reads commands from in until "quit" or end of input. A running search
// is stopped before Run returns.
func (u *UCI) Run(ctx context.Context, in io.Reader) error {
	defer u.handleStop()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		log.Debug().Str("cmd", line).Msg("uci command")

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(ctx, args)
		case "stop":
			u.handleStop()
		case "quit":
			return nil
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			u.handleDisplay()
		case "perft":
			u.handlePerft(args)
		case "divide":
			u.handleDivide(args)
		default:
			u.printf("info string unknown command %s\n", cmd)
		}
	}
	return scanner.Err()
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.println("id name " + engineName)
	u.println("id author " + engineAuthor)
	u.println()
	u.printf("option name Hash type spin default %d min 1 max 4096\n", u.opts.HashMB)
	u.printf("option name Threads type spin default %d min 1 max 256\n", u.opts.Threads)
	u.printf("option name MoveTime type spin default %d min 10 max 600000\n", u.opts.MoveTime.Milliseconds())
	u.printf("option name OwnBook type check default %t\n", u.opts.OwnBook)
	u.printf("option name Persist type check default %t\n", u.persist)
	u.println("uciok")
}

// handleNewGame resets the engine for a new game.
func (u *UCI) handleNewGame() {
	u.handleStop()
	u.engine.Clear()
	u.position = board.NewPosition(u.engine.Cache().Keys())
	u.setup, u.played = u.position.Clone(), nil
	u.bookLive = true
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	movesAt := lo.IndexOf(args, "moves")
	setup := args
	var moves []string
	if movesAt >= 0 {
		setup, moves = args[:movesAt], args[movesAt+1:]
	}

	keys := u.engine.Cache().Keys()
	var pos *board.Position
	switch setup[0] {
	case "startpos":
		pos = board.NewPosition(keys)
	case "fen":
		var err error
		pos, err = board.ParseFEN(strings.Join(setup[1:], " "), keys)
		if err != nil {
			u.printf("info string invalid fen: %v\n", err)
			return
		}
	default:
		return
	}

	setupPos := pos.Clone()
	var played []board.Move
	for _, s := range moves {
		m, err := board.ParseMove(pos, s)
		if err == nil {
			pos.Make(m)
			if pos.LeftInCheck() {
				pos.Unmake(m)
				err = board.ErrIllegalMove
			}
		}
		if err != nil {
			u.printf("info string invalid move %s: %v\n", s, err)
			break
		}
		played = append(played, m)
	}

	u.position = pos
	u.setup, u.played = setupPos, played
}

// parseGoOptions parses "go" command arguments.
func parseGoOptions(args []string) engine.UCILimits {
	var limits engine.UCILimits

	ms := func(i int) time.Duration {
		if i+1 >= len(args) {
			return 0
		}
		n, _ := strconv.Atoi(args[i+1])
		return time.Duration(n) * time.Millisecond
	}
	num := func(i int) int {
		if i+1 >= len(args) {
			return 0
		}
		n, _ := strconv.Atoi(args[i+1])
		return n
	}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			limits.Depth = num(i)
			i++
		case "movetime":
			limits.MoveTime = ms(i)
			i++
		case "infinite":
			limits.Infinite = true
		case "wtime":
			limits.Time[board.White] = ms(i)
			i++
		case "btime":
			limits.Time[board.Black] = ms(i)
			i++
		case "winc":
			limits.Inc[board.White] = ms(i)
			i++
		case "binc":
			limits.Inc[board.Black] = ms(i)
			i++
		case "movestogo":
			limits.MovesToGo = num(i)
			i++
		}
	}

	return limits
}

// handleGo answers from the book or starts a search on a goroutine.
func (u *UCI) handleGo(ctx context.Context, args []string) {
	u.handleStop()

	pos := u.position.Clone()
	if u.opts.OwnBook && u.bookLive {
		if m, ok := u.book.Probe(pos); ok {
			u.printf("bestmove %s\n", m)
			return
		}
		u.bookLive = false
		log.Debug().Msg("left book")
	}

	ply := (pos.FullMoveNumber - 1) * 2
	if pos.SideToMove == board.Black {
		ply++
	}
	limits := u.tm.Limits(parseGoOptions(args), pos.SideToMove, ply, time.Now())

	searchCtx, cancel := context.WithCancel(ctx)
	u.cancel = cancel
	u.searchDone = make(chan struct{})
	u.engine.OnInfo = u.sendInfo

	go func() {
		defer close(u.searchDone)
		defer cancel()

		m, ok := u.engine.SearchWithLimits(searchCtx, pos, limits)
		if !ok {
			u.println("bestmove 0000")
			return
		}
		u.printf("bestmove %s\n", m)
	}()
}

// sendInfo outputs search info in UCI format.
func (u *UCI) sendInfo(info engine.SearchInfo) {
	parts := []string{"depth " + strconv.Itoa(info.Depth)}

	switch {
	case info.Score > engine.MateScore-engine.MaxPly:
		parts = append(parts, "score mate "+strconv.Itoa((engine.MateScore-info.Score+1)/2))
	case info.Score < -engine.MateScore+engine.MaxPly:
		parts = append(parts, "score mate "+strconv.Itoa(-(engine.MateScore+info.Score+1)/2))
	default:
		parts = append(parts, "score cp "+strconv.Itoa(info.Score))
	}

	parts = append(parts,
		"nodes "+strconv.FormatUint(info.Nodes, 10),
		"time "+strconv.FormatInt(info.Time.Milliseconds(), 10),
	)
	if info.Time > 0 {
		parts = append(parts, "nps "+strconv.FormatUint(uint64(float64(info.Nodes)/info.Time.Seconds()), 10))
	}
	if info.HashFull > 0 {
		parts = append(parts, "hashfull "+strconv.Itoa(info.HashFull))
	}
	parts = append(parts, "pv "+info.Move.String())

	u.println("info " + strings.Join(parts, " "))
}

// handleStop stops the current search and waits for its bestmove.
func (u *UCI) handleStop() {
	if u.cancel == nil {
		return
	}
	u.cancel()
	<-u.searchDone
	u.cancel = nil
}

// handleSetOption processes "setoption name <name> [value <value>]".
func (u *UCI) handleSetOption(args []string) {
	nameAt := lo.IndexOf(args, "name")
	valueAt := lo.IndexOf(args, "value")
	if nameAt < 0 {
		return
	}

	var name, value string
	if valueAt > nameAt {
		name = strings.Join(args[nameAt+1:valueAt], " ")
		value = strings.Join(args[valueAt+1:], " ")
	} else {
		name = strings.Join(args[nameAt+1:], " ")
	}

	u.handleStop()

	switch strings.ToLower(name) {
	case "hash":
		mb, err := strconv.Atoi(value)
		if err != nil || mb < 1 {
			u.printf("info string invalid hash size %q\n", value)
			return
		}
		u.opts.HashMB = mb
		u.engine.SetCache(engine.NewCache(mb, u.engine.Cache().Keys()))
	case "threads":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			u.printf("info string invalid thread count %q\n", value)
			return
		}
		u.opts.Threads = n
		u.engine.SetThreads(n)
	case "movetime":
		ms, err := strconv.Atoi(value)
		if err != nil || ms < 1 {
			u.printf("info string invalid move time %q\n", value)
			return
		}
		u.opts.MoveTime = time.Duration(ms) * time.Millisecond
		u.tm.MoveTime = u.opts.MoveTime
	case "ownbook":
		u.opts.OwnBook = strings.EqualFold(value, "true")
	case "persist":
		u.persist = strings.EqualFold(value, "true")
	default:
		u.printf("info string unknown option %s\n", name)
		return
	}

	u.saveOptions()
}

func (u *UCI) saveOptions() {
	if !u.persist || u.store == nil {
		return
	}
	if err := u.store.SaveOptions(u.opts); err != nil {
		log.Error().Err(err).Msg("saving options")
		u.printf("info string %v\n", err)
	}
}

// handleDisplay prints the board, the moves played since the last position
// setup and the legal moves.
func (u *UCI) handleDisplay() {
	pos := u.position
	legal := board.GenerateLegalMoves(pos)
	san := lo.Map(legal.Slice(), func(m board.Move, _ int) string {
		return m.ToSAN(pos)
	})

	u.printf("%s", pos.String())
	if len(u.played) > 0 {
		u.printf("Moves: %s\n", strings.Join(board.MovesToSAN(u.setup.Clone(), u.played), " "))
	}
	u.printf("Legal moves (%d): %s\n", len(san), strings.Join(san, " "))
	u.printf("Eval: %s\n", engine.ScoreToString(u.engine.Evaluate(pos)))
}

func depthArg(args []string, def int) int {
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil && d > 0 {
			return d
		}
	}
	return def
}

// handlePerft runs a perft test.
func (u *UCI) handlePerft(args []string) {
	depth := depthArg(args, 5)

	start := time.Now()
	nodes := board.Perft(u.position.Clone(), depth)
	elapsed := time.Since(start)

	u.printf("Nodes: %d\n", nodes)
	u.printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		u.printf("NPS: %.0f\n", float64(nodes)/elapsed.Seconds())
	}
}

// handleDivide prints the perft count below each root move.
func (u *UCI) handleDivide(args []string) {
	pos := u.position.Clone()
	entries := board.Divide(pos, depthArg(args, 1))
	for _, e := range entries {
		u.printf("%s: %d\n", e.Move, e.Nodes)
	}
	u.printf("Total: %d\n", lo.SumBy(entries, func(e board.DivideEntry) uint64 { return e.Nodes }))
}
