package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/DurjaMan27/hand-tracker/internal/app"
	"github.com/DurjaMan27/hand-tracker/internal/config"
	"github.com/DurjaMan27/hand-tracker/internal/eventlog"
	"github.com/DurjaMan27/hand-tracker/internal/gesture"
	"github.com/DurjaMan27/hand-tracker/internal/server"
	"github.com/DurjaMan27/hand-tracker/internal/server/api"
	"github.com/DurjaMan27/hand-tracker/internal/store"
	"github.com/DurjaMan27/hand-tracker/internal/tray"
)

// phasePollInterval is how often the tray's gesture line is refreshed.
const phasePollInterval = 200 * time.Millisecond

func main() {
	fmt.Println("Hand Tracker - gesture zoom and rotate")

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	st, err := store.New(cfg.DBPath())
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	base := cfg.Gesture()
	if cfg.TuningFile != "" {
		tuning, err := config.LoadTuning(cfg.TuningFile)
		if err != nil {
			log.Fatalf("Failed to load tuning: %v", err)
		}
		base = tuning.Apply(base)
		fmt.Printf("Applied tuning from: %s\n", cfg.TuningFile)
	}

	settings, err := api.NewSettings(base, st)
	if err != nil {
		log.Fatalf("Failed to initialize settings: %v", err)
	}

	events := eventlog.New(eventlog.Options{File: cfg.LogFile})
	defer events.Close()

	a, err := app.New(app.Config{
		CameraID: cfg.CameraID,
		FPS:      cfg.FPS,
		Gesture:  settings.Current(),
		Events:   events,
	})
	if err != nil {
		log.Fatalf("Failed to initialize pipeline: %v", err)
	}
	settings.OnChange(func(g gesture.Config) {
		if err := a.SetGestureConfig(g); err != nil {
			log.Printf("Error applying gesture tuning: %v", err)
		}
	})

	srvCfg := server.Config{
		StaticDir:     cfg.WebDir,
		Settings:      settings,
		SessionLogger: events.ForSession,
	}
	if srvCfg.StaticDir == "" {
		srvCfg.StaticDir = findWebDir(cfg.DataDir)
	}
	if srvCfg.StaticDir != "" {
		fmt.Printf("Serving static files from: %s\n", srvCfg.StaticDir)
	}

	if err := a.Start(); err != nil {
		log.Printf("Camera pipeline disabled: %v", err)
	} else {
		srvCfg.State = a
		defer a.Stop()
	}

	srv := server.New(srvCfg)

	if !cfg.Tray {
		fmt.Printf("Starting server on %s\n", cfg.Addr)
		if err := srv.ListenAndServe(cfg.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
		return
	}

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Addr)
		if err := srv.ListenAndServe(cfg.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	runTray(a, viewerURL(cfg.Addr))
}

// runTray blocks on the system tray until the user quits.
func runTray(a *app.App, url string) {
	t := tray.New()
	t.OnToggle(a.SetEnabled)
	t.OnReset(a.ResetObject)
	t.OnViewer(func() {
		if err := openBrowser(url); err != nil {
			log.Printf("Failed to open %s: %v", url, err)
		}
	})

	done := make(chan struct{})
	t.OnQuit(func() { close(done) })

	go func() {
		ticker := time.NewTicker(phasePollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				t.SetPhase(a.Phase())
			}
		}
	}()

	t.Run()
}

func viewerURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and <dataDir>/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	for _, p := range []string{"web", "../web", "../../web", filepath.Join(dataDir, "web")} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}
