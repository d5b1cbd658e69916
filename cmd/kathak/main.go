package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/ayusman/kathak/internal/app"
	"github.com/ayusman/kathak/internal/rig"
	"github.com/ayusman/kathak/internal/server"
	"github.com/ayusman/kathak/internal/solver"
	"github.com/ayusman/kathak/internal/store"
	"github.com/ayusman/kathak/internal/tray"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	noTray := flag.Bool("no-tray", false, "run without the system tray (headless)")
	flag.Parse()

	fmt.Println("Kathak - Webcam Motion Capture")

	// Initialize the store
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dbDir := filepath.Join(homeDir, ".kathak")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dbDir, "kathak.db")
	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Restore persisted settings
	rigVersion := rig.VRM1
	if v, err := st.Settings().GetDefault(store.SettingRigVersion, rig.VRM1.String()); err == nil {
		rigVersion = rig.ParseVersion(v)
	}
	cameraID := 0
	if v, err := st.Settings().GetDefault(store.SettingCameraID, "0"); err == nil {
		if id, err := strconv.Atoi(v); err == nil {
			cameraID = id
		}
	}

	a := app.New(app.Config{
		Store:      st,
		CameraID:   cameraID,
		RigVersion: rigVersion,
		Solver:     solver.DefaultConfig(),
	})

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	// Configure the server and route solved poses to its WebSocket hub
	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Camera:    a.Camera(),
	})
	a.SetPublisher(srv.Pose())

	go func() {
		fmt.Printf("Starting server on %s\n", *addr)
		if err := srv.ListenAndServe(*addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start capture pipeline: %v", err)
	}
	a.SetEnabled(true)

	if *noTray {
		// Headless mode: block forever, the server goroutine does the work
		select {}
	}

	runTray(a, srv, *addr)
	a.Stop()
}

// runTray wires the system tray menu to the application and blocks until
// the user quits.
func runTray(a *app.App, srv *server.Server, addr string) {
	t := tray.New()

	// Keep the connected-avatar count in the menu current
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			t.SetClientCount(srv.Pose().ClientCount())
		}
	}()

	t.OnToggle(func(enabled bool) {
		a.SetEnabled(enabled)
	})

	t.OnRecord(func(recording bool) {
		if recording {
			if err := a.StartRecording(""); err != nil {
				log.Printf("Failed to start recording: %v", err)
			}
		} else {
			if err := a.StopRecording(); err != nil {
				log.Printf("Failed to stop recording: %v", err)
			}
		}
	})

	t.OnDashboard(func() {
		openBrowser(dashboardURL(addr))
	})

	t.OnQuit(func() {
		log.Println("Shutting down")
	})

	t.Run()
}

// dashboardURL turns a listen address like ":8080" into a browsable URL.
func dashboardURL(addr string) string {
	if addr != "" && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.kathak/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".kathak", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
