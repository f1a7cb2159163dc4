package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/paolosand/ascii-drone/internal/app"
	"github.com/paolosand/ascii-drone/internal/audio"
	"github.com/paolosand/ascii-drone/internal/gesture"
	"github.com/paolosand/ascii-drone/internal/music"
	"github.com/paolosand/ascii-drone/internal/render"
	"github.com/paolosand/ascii-drone/internal/server"
	"github.com/paolosand/ascii-drone/internal/store"
	"github.com/paolosand/ascii-drone/internal/tray"
)

func main() {
	addr := flag.String("addr", envOr("ASCII_DRONE_ADDR", ":8080"), "HTTP listen address")
	cameraID := flag.Int("camera", 0, "camera device id")
	cols := flag.Int("cols", render.DefaultCols, "ASCII grid columns")
	rows := flag.Int("rows", render.DefaultRows, "ASCII grid rows")
	noTray := flag.Bool("no-tray", false, "run without the system tray")
	flag.Parse()

	fmt.Println("ASCII Drone - gesture-driven ambient installation")

	// Initialize the store
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dbDir := filepath.Join(homeDir, ".ascii-drone")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(filepath.Join(dbDir, "ascii-drone.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Persisted camera id wins unless the flag was set explicitly.
	camID := *cameraID
	if !flagWasSet("camera") {
		camID = int(st.Settings().GetFloat(store.SettingCameraID, float64(camID)))
	}

	engine := audio.NewEngine(nil)
	menu := music.NewMenu(audio.DefaultKey)
	converter := render.NewConverter(*cols, *rows)
	defer converter.Close()

	a := app.New(app.Config{
		Store:     st,
		CameraID:  camID,
		Audio:     engine,
		Menu:      menu,
		Converter: converter,
	})
	a.RestoreState()

	// Audio bring-up. A failure is not fatal: the engine retries from the
	// tray toggle, which is this platform's user-driven trigger.
	if err := engine.Init(); err != nil {
		log.Printf("Audio init failed, will retry on next enable: %v", err)
	}
	defer engine.Close()

	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Audio:     engine,
		Menu:      menu,
		Camera:    a.Camera(),
	})
	a.OnGrid(srv.Events().BroadcastGrid)

	a.SetEnabled(true)
	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}
	defer a.Stop()

	go func() {
		fmt.Printf("Starting server on %s\n", *addr)
		if err := srv.ListenAndServe(*addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if *noTray {
		a.OnEvent(srv.Events().BroadcastEvent)
		select {}
	}

	t := tray.New()

	// Fan gesture events out to the WebSocket feed, and mirror committed key
	// changes into the tray without retitling on every frame.
	lastKey := engine.CurrentKey().Name
	a.OnEvent(func(ev gesture.Event) {
		srv.Events().BroadcastEvent(ev)
		if key := engine.CurrentKey().Name; key != lastKey {
			lastKey = key
			t.SetCurrentKey(key)
		}
	})
	t.OnToggle(func(enabled bool) {
		a.SetEnabled(enabled)
		if enabled {
			if err := engine.Init(); err != nil {
				log.Printf("Audio init failed: %v", err)
			}
		}
	})
	t.OnSettings(func() {
		log.Printf("Control page at http://localhost%s", *addr)
	})
	t.OnQuit(func() {
		a.Stop()
	})
	t.SetCurrentKey(engine.CurrentKey().Name)

	// Blocks until Quit is selected.
	t.Run()
}

// envOr returns the environment value for key, or the fallback when unset.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// flagWasSet reports whether the named flag appeared on the command line.
func flagWasSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.ascii-drone/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
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

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".ascii-drone", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
