// Command kathak-analyze inspects recorded capture sessions offline: it
// prints quality statistics for a take and writes an HTML chart report.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/ayusman/kathak/internal/analysis"
	"github.com/ayusman/kathak/internal/store"
)

func main() {
	dbPath := flag.String("db", defaultDBPath(), "path to the kathak database")
	sessionID := flag.String("session", "", "session ID to analyze (default: most recent)")
	compareID := flag.String("compare", "", "second session ID to compare against")
	output := flag.String("o", "", "write an HTML chart report to this file")
	list := flag.Bool("list", false, "list recorded sessions and exit")
	flag.Parse()

	st, err := store.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	if *list {
		listSessions(st)
		return
	}

	id := *sessionID
	if id == "" {
		id = latestSessionID(st)
	}

	data, err := analysis.Load(st, id)
	if err != nil {
		log.Fatalf("Failed to load session: %v", err)
	}
	report := data.Analyze()
	printReport(report)

	if *compareID != "" {
		other, err := analysis.Load(st, *compareID)
		if err != nil {
			log.Fatalf("Failed to load comparison session: %v", err)
		}
		printComparison(analysis.Compare(data, other))
	}

	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatalf("Failed to create report file: %v", err)
		}
		defer f.Close()

		if err := data.RenderHTML(f, report); err != nil {
			log.Fatalf("Failed to render report: %v", err)
		}
		fmt.Printf("\nChart report written to %s\n", *output)
	}
}

func defaultDBPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "kathak.db"
	}
	return filepath.Join(homeDir, ".kathak", "kathak.db")
}

func listSessions(st *store.Store) {
	sessions, err := st.Sessions().List()
	if err != nil {
		log.Fatalf("Failed to list sessions: %v", err)
	}
	if len(sessions) == 0 {
		fmt.Println("No recorded sessions")
		return
	}

	for _, s := range sessions {
		status := "recording"
		if s.EndedAt != nil {
			status = s.EndedAt.Sub(s.StartedAt).Truncate(time.Second).String()
		}
		fmt.Printf("%s  %-30s  %s  %5d frames  %s\n",
			s.ID, s.Name, s.RigVersion, s.Frames, status)
	}
}

func latestSessionID(st *store.Store) string {
	sessions, err := st.Sessions().List()
	if err != nil {
		log.Fatalf("Failed to list sessions: %v", err)
	}
	if len(sessions) == 0 {
		log.Fatal("No recorded sessions to analyze")
	}
	return sessions[0].ID
}

func printReport(r *analysis.Report) {
	fmt.Printf("Session %s (%s)\n", r.SessionID, r.Name)
	fmt.Printf("  rig %s, %d frames, %.1fs, %.1f FPS effective\n",
		r.RigVersion, r.Frames, float64(r.DurationMs)/1000, r.EffectiveFPS)

	fmt.Println("\nBone activity:")
	for _, bs := range r.Bones {
		if bs.Max-bs.Min == 0 {
			continue
		}
		fmt.Printf("  %-28s %s  range %7.3f  jitter %.4f -> %.4f  lag %.4f\n",
			bs.Bone, bs.Axis, bs.Max-bs.Min, bs.RawJitter, bs.SmoothedJitter, bs.TrackingError)
	}

	if len(r.Findings) > 0 {
		fmt.Println("\nFindings:")
		for _, f := range r.Findings {
			fmt.Printf("  - %s\n", f)
		}
	}
}

func printComparison(c *analysis.Comparison) {
	fmt.Printf("\nComparison with %s: similarity %.3f\n", c.SessionB, c.Similarity)
	limit := 10
	if len(c.Bones) < limit {
		limit = len(c.Bones)
	}
	for _, bc := range c.Bones[:limit] {
		fmt.Printf("  %-28s %s  distance %.4f\n", bc.Bone, bc.Axis, bc.Distance)
	}
}
