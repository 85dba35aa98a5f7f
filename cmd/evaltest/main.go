package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/crystal-mush/mushcode/pkg/boltstore"
	"github.com/crystal-mush/mushcode/pkg/config"
	"github.com/crystal-mush/mushcode/pkg/eval"
	"github.com/crystal-mush/mushcode/pkg/eval/functions"
	"github.com/crystal-mush/mushcode/pkg/flatfile"
	"github.com/crystal-mush/mushcode/pkg/gamedb"
	"github.com/crystal-mush/mushcode/pkg/sqlstore"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	dbPath := flag.String("db", "", "Path to TinyMUSH flatfile")
	player := flag.Int("player", 1, "DBRef number to use as player context")
	expr := flag.String("e", "", "Expression to evaluate (non-interactive mode)")
	batch := flag.String("batch", "", "File with expressions to evaluate (one per line)")
	confPath := flag.String("config", "", "YAML config file (live-reloaded on change)")
	boltPath := flag.String("bolt", "", "bbolt store for structures and named registers")
	sqlPath := flag.String("sql", "", "SQLite database backing the sql() function")
	metricsAddr := flag.String("metrics", "", "Listen address for prometheus metrics (e.g. :9100)")
	flag.Parse()

	conf, err := config.Load(*confPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	var db *gamedb.Database

	if *dbPath != "" {
		fmt.Fprintf(os.Stderr, "Loading database from %s...\n", *dbPath)
		f, err := os.Open(*dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
			os.Exit(1)
		}
		db, err = flatfile.Parse(f)
		f.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing database: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Loaded %d objects, %d attr definitions\n",
			len(db.Objects), len(db.AttrNames))
	} else {
		// Create minimal empty database for testing
		db = gamedb.NewDatabase()
		// Create a minimal God object (#1)
		db.Objects[1] = &gamedb.Object{
			DBRef:    1,
			Name:     "Wizard",
			Location: 0,
			Contents: gamedb.Nothing,
			Exits:    gamedb.Nothing,
			Link:     0,
			Next:     gamedb.Nothing,
			Owner:    1,
			Parent:   gamedb.Nothing,
			Zone:     gamedb.Nothing,
			Flags:    [3]int{int(gamedb.TypePlayer) | gamedb.FlagWizard, 0, 0},
		}
		// Create Room Zero (#0)
		db.Objects[0] = &gamedb.Object{
			DBRef:    0,
			Name:     "Room Zero",
			Location: gamedb.Nothing,
			Contents: 1,
			Exits:    gamedb.Nothing,
			Link:     gamedb.Nothing,
			Next:     gamedb.Nothing,
			Owner:    1,
			Parent:   gamedb.Nothing,
			Zone:     gamedb.Nothing,
			Flags:    [3]int{int(gamedb.TypeRoom), 0, 0},
		}
		fmt.Fprintf(os.Stderr, "Using minimal test database (no flatfile loaded)\n")
	}

	w := &world{db: db}

	if *boltPath != "" {
		store, err := boltstore.Open(*boltPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening bolt store: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		w.store = store

		// Restore persisted structure state
		defs, err := store.LoadStructDefs()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading structure definitions: %v\n", err)
			os.Exit(1)
		}
		insts, err := store.LoadStructInstances()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading structure instances: %v\n", err)
			os.Exit(1)
		}
		functions.LoadStructStore(defs, insts)
	}

	if *sqlPath != "" {
		sqldb, err := sqlstore.Open(*sqlPath, conf.SQLQueryLimit, conf.SQLTimeout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening SQL store: %v\n", err)
			os.Exit(1)
		}
		defer sqldb.Close()
		w.sqldb = sqldb
	} else if conf.SQLDatabase != "" {
		sqldb, err := sqlstore.Open(conf.SQLDatabase, conf.SQLQueryLimit, conf.SQLTimeout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening SQL store: %v\n", err)
			os.Exit(1)
		}
		defer sqldb.Close()
		w.sqldb = sqldb
	}

	// Set up eval context
	ctx := eval.NewEvalContext(db)
	ctx.Player = gamedb.DBRef(*player)
	ctx.Cause = gamedb.DBRef(*player)
	ctx.Caller = gamedb.DBRef(*player)
	ctx.GameState = w
	conf.Apply(ctx)
	functions.RegisterAll(ctx)

	// Color only when writing to a terminal
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		ctx.AnsiColors = false
	}

	if *confPath != "" {
		err := config.Watch(*confPath, func(c *config.Conf) {
			c.Apply(ctx)
		})
		if err != nil {
			log.Printf("WARNING: %v", err)
		}
	}

	if *metricsAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
				log.Printf("metrics listener: %v", err)
			}
		}()
	}

	// Restore named registers persisted by a previous run
	if w.store != nil {
		names, values, err := w.store.LoadNamedRegisters()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading named registers: %v\n", err)
		} else if len(names[ctx.Player]) > 0 {
			ns := names[ctx.Player]
			vs := values[ctx.Player]
			for i := range ns {
				ctx.SetRegister(ns[i], vs[i])
			}
			if ctx.RData != nil {
				ctx.RData.Dirty = 0
			}
		}
	}

	// saveRegs write-through: snapshot named registers after a mutation
	regDirty := func() int {
		if ctx.RData == nil {
			return 0
		}
		return ctx.RData.Dirty
	}
	lastDirty := regDirty()
	saveRegs := func() {
		if w.store == nil || regDirty() == lastDirty {
			return
		}
		lastDirty = regDirty()
		if err := w.store.SaveNamedRegisters(ctx.Player, ctx.RData.XNames, ctx.RData.XRegs); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving named registers: %v\n", err)
		}
	}

	if *expr != "" {
		// Single expression mode
		result := ctx.Exec(*expr, eval.EvFCheck|eval.EvEval, nil)
		fmt.Println(result)
		saveRegs()
		return
	}

	if *batch != "" {
		// Batch mode
		f, err := os.Open(*batch)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening batch file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		lineNum := 0
		for scanner.Scan() {
			lineNum++
			line := scanner.Text()
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			// Format: expression | expected_result (optional)
			parts := strings.SplitN(line, " | ", 2)
			expression := parts[0]
			result := ctx.Exec(expression, eval.EvFCheck|eval.EvEval, nil)

			if len(parts) == 2 {
				expected := parts[1]
				status := "PASS"
				if result != expected {
					status = "FAIL"
				}
				fmt.Printf("[%s] Line %d: %s\n", status, lineNum, expression)
				if status == "FAIL" {
					fmt.Printf("  Expected: %s\n", expected)
					fmt.Printf("  Got:      %s\n", result)
				}
			} else {
				fmt.Printf("Line %d: %s => %s\n", lineNum, expression, result)
			}

			// Reset function counters between expressions
			ctx.FuncInvkCtr = 0
			ctx.FuncNestLev = 0
		}
		saveRegs()
		return
	}

	// Interactive REPL mode
	fmt.Printf("%s Eval Engine Test Harness\n", ctx.MudName)
	fmt.Printf("Player context: #%d\n", *player)
	fmt.Println("Type MUSH expressions to evaluate. Ctrl+C to exit.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("mush> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		// Reset counters each eval
		ctx.FuncInvkCtr = 0
		ctx.FuncNestLev = 0

		result := ctx.Exec(line, eval.EvFCheck|eval.EvEval, nil)
		fmt.Println(result)

		// Show any notifications
		if len(ctx.Notifications) > 0 {
			for _, n := range ctx.Notifications {
				fmt.Printf("  [notify #%d]: %s\n", n.Target, n.Message)
			}
			ctx.Notifications = nil
		}
		saveRegs()
	}
	saveRegs()
}
