// Command planner is the local trip-planning CLI: it assembles an itinerary
// draft in a local slot and mirrors it to the itinerary API when a token is
// configured. Without a token everything still works, local-only.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	filedraft "github.com/lakbay-tourism/itinerary-api/internal/adapters/file/draftslot"
	memdraft "github.com/lakbay-tourism/itinerary-api/internal/adapters/memory/draftslot"
	redisdraft "github.com/lakbay-tourism/itinerary-api/internal/adapters/redis/draftslot"
	"github.com/lakbay-tourism/itinerary-api/internal/adapters/httpclient"
	"github.com/lakbay-tourism/itinerary-api/internal/app/draft"
	"github.com/lakbay-tourism/itinerary-api/internal/app/planner"
	"github.com/lakbay-tourism/itinerary-api/internal/domain"
	"github.com/lakbay-tourism/itinerary-api/internal/ports/out/draftslot"
	"github.com/lakbay-tourism/itinerary-api/internal/ports/out/itineraryclient"
)

const usage = `usage: planner <command> [flags]

commands:
  start    begin a new plan, discarding the current draft
  add      add a spot to a day
  remove   remove a spot (from one day, or everywhere)
  time     set a spot's display time
  show     print the current draft
  cost     print the projected cost breakdown
  confirm  final sync and clear the draft

environment:
  PLANNER_API_URL     itinerary API base URL (empty = local-only)
  PLANNER_TOKEN       bearer token for the API
  PLANNER_SUBJECT     subject the token belongs to (default "cli")
  PLANNER_SLOT        draft storage: file (default), redis, memory
  PLANNER_DRAFT_FILE  path for the file slot (default ~/.lakbay/draft.json)
  REDIS_ADDR          address for the redis slot (default localhost:6379)
`

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	slot, err := newSlot()
	if err != nil {
		fatal(err)
	}
	draftSvc := draft.NewService(slot, log)

	var remote itineraryclient.Client
	hasRemote := false
	owner := domain.SubjectID("")
	if base := os.Getenv("PLANNER_API_URL"); base != "" {
		hasRemote = true
		token := os.Getenv("PLANNER_TOKEN")
		remote = httpclient.NewClient(base, httpclient.StaticToken(token), nil)
		if token != "" {
			owner = domain.SubjectID(getenv("PLANNER_SUBJECT", "cli"))
		}
	}
	plannerSvc := planner.NewService(draftSvc, remote, log)

	// The process exits right after the command finishes, so the deferred
	// post-confirm clear must run in-call instead of on a timer goroutine.
	plannerSvc.SetScheduler(func(d time.Duration, fn func()) {
		time.Sleep(d)
		fn()
	})

	ctx := context.Background()
	if err := run(ctx, os.Args[1], os.Args[2:], draftSvc, plannerSvc, owner, hasRemote); err != nil {
		fatal(err)
	}
}

func run(ctx context.Context, cmd string, args []string, draftSvc *draft.Service, svc *planner.Service, owner domain.SubjectID, hasRemote bool) error {
	switch cmd {
	case "start":
		fs := flag.NewFlagSet("start", flag.ExitOnError)
		title := fs.String("title", "", "trip title")
		start := fs.String("start", "", "start date (YYYY-MM-DD)")
		end := fs.String("end", "", "end date (YYYY-MM-DD)")
		_ = fs.Parse(args)

		it, err := svc.StartPlan(ctx, owner, draft.NewItineraryInput{
			Title: *title,
			Start: *start,
			End:   *end,
		})
		if errors.Is(err, planner.ErrNotAuthenticated) {
			if hasRemote {
				fmt.Fprintln(os.Stderr, "warning: no token configured, plan is local-only")
			}
		} else if err != nil {
			return err
		}
		printItinerary(it)
		return nil

	case "add":
		fs := flag.NewFlagSet("add", flag.ExitOnError)
		title := fs.String("title", "", "spot title (required)")
		day := fs.Int("day", 1, "day to add the spot to")
		at := fs.String("at", "", "display time (HH:mm)")
		location := fs.String("location", "", "spot location")
		price := fs.Float64("price", 0, "cached nightly price")
		_ = fs.Parse(args)
		if *title == "" {
			return errors.New("add: -title is required")
		}

		in := draft.SpotInput{Title: *title, Location: *location, Time: *at}
		if *price > 0 {
			in.PricePerNight = price
		}
		it, sp, err := svc.AddSpot(ctx, owner, in, *day)
		if err != nil {
			return err
		}
		fmt.Printf("added %s (%s) to day %d\n", sp.Title, sp.ID, *day)
		printItinerary(it)
		return nil

	case "remove":
		fs := flag.NewFlagSet("remove", flag.ExitOnError)
		id := fs.String("id", "", "spot id (required)")
		day := fs.Int("day", 0, "restrict to one day (0 = all days)")
		_ = fs.Parse(args)
		if *id == "" {
			return errors.New("remove: -id is required")
		}

		var it *domain.Itinerary
		var err error
		if *day > 0 {
			it, err = svc.RemoveSpotInDay(ctx, owner, domain.SpotID(*id), *day)
		} else {
			it, err = svc.RemoveSpot(ctx, owner, domain.SpotID(*id))
		}
		if err != nil {
			return err
		}
		if it == nil {
			return planner.ErrNoDraft
		}
		printItinerary(it)
		return nil

	case "time":
		fs := flag.NewFlagSet("time", flag.ExitOnError)
		id := fs.String("id", "", "spot id (required)")
		at := fs.String("at", "", "display time HH:mm (required)")
		day := fs.Int("day", 0, "restrict to one day (0 = all days)")
		_ = fs.Parse(args)
		if *id == "" || *at == "" {
			return errors.New("time: -id and -at are required")
		}

		var it *domain.Itinerary
		var err error
		if *day > 0 {
			it, err = svc.SetSpotTimeInDay(ctx, owner, domain.SpotID(*id), *at, *day)
		} else {
			it, err = svc.SetSpotTime(ctx, owner, domain.SpotID(*id), *at)
		}
		if err != nil {
			return err
		}
		if it == nil {
			return planner.ErrNoDraft
		}
		printItinerary(it)
		return nil

	case "show":
		it := draftSvc.Read(ctx)
		if it == nil {
			return planner.ErrNoDraft
		}
		printItinerary(it)
		return nil

	case "cost":
		it := draftSvc.Read(ctx)
		if it == nil {
			return planner.ErrNoDraft
		}
		printCost(domain.Quote(*it))
		return nil

	case "confirm":
		if err := svc.ConfirmBooking(ctx, owner); err != nil {
			return err
		}
		fmt.Println("booking confirmed")
		return nil

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func newSlot() (draftslot.Slot, error) {
	switch getenv("PLANNER_SLOT", "file") {
	case "memory":
		return memdraft.NewSlot(), nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: getenv("REDIS_ADDR", "localhost:6379")})
		return redisdraft.NewSlot(client, "planner:draft"), nil
	case "file":
		path := os.Getenv("PLANNER_DRAFT_FILE")
		if path == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(home, ".lakbay", "draft.json")
		}
		return filedraft.NewSlot(path), nil
	default:
		return nil, fmt.Errorf("unknown PLANNER_SLOT %q", os.Getenv("PLANNER_SLOT"))
	}
}

func printItinerary(it *domain.Itinerary) {
	fmt.Printf("itinerary %s\n", it.ID)
	if it.Title != "" {
		fmt.Printf("  title: %s\n", it.Title)
	}
	if it.Start != "" || it.End != "" {
		fmt.Printf("  dates: %s .. %s (%d days, %d nights)\n", it.Start, it.End, domain.DaysCount(*it), domain.Nights(*it))
	}
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	for _, day := range it.Days.SortedDays() {
		fmt.Fprintf(w, "  day %d\n", day)
		for _, sp := range it.Days[day] {
			t := sp.Time
			if t == "" {
				t = "--:--"
			}
			fmt.Fprintf(w, "\t%s\t%s\t(%s)\n", t, sp.Title, sp.ID)
		}
	}
	_ = w.Flush()
}

func printCost(bd domain.CostBreakdown) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	for _, line := range bd.Lines {
		fmt.Fprintf(w, "%s\t%s x %s\t%s\n", line.Spot.Title, line.Unit.String(), strconv.Itoa(bd.Nights), line.Amount.String())
	}
	fmt.Fprintf(w, "subtotal\t\t%s\n", bd.Subtotal.String())
	fmt.Fprintf(w, "taxes\t\t%s\n", bd.Taxes.String())
	fmt.Fprintf(w, "fees\t\t%s\n", bd.Fees.String())
	fmt.Fprintf(w, "total\t\t%s\n", bd.Total.String())
	_ = w.Flush()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "planner: %v\n", err)
	os.Exit(1)
}
