package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"
	"time"

	"github.com/hailam/goplay/internal/book"
	"github.com/hailam/goplay/internal/engine"
	"github.com/hailam/goplay/internal/gtp"
	"github.com/hailam/goplay/internal/storage"
)

// defaultBookName is looked up in the standard book locations when no
// -book flag is given.
const defaultBookName = "goplay.book"

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	bookPath   = flag.String("book", "", "path to an opening book file")
	dbDir      = flag.String("db", "", "directory for the preferences database")
	seed       = flag.Int64("seed", 0, "random seed (0 uses the current time)")
	noStore    = flag.Bool("no-store", false, "run without the preferences database")
)

func main() {
	flag.Parse()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	prefs := storage.DefaultPreferences()
	var store *storage.Storage
	if !*noStore {
		var err error
		if *dbDir != "" {
			store, err = storage.NewStorageAt(*dbDir)
		} else {
			store, err = storage.NewStorage()
		}
		if err != nil {
			log.Printf("Warning: preferences database unavailable: %v", err)
			store = nil
		} else {
			defer store.Close()
			if loaded, err := store.LoadPreferences(); err == nil {
				prefs = loaded
			}
			if first, err := store.IsFirstLaunch(); err == nil && first {
				store.MarkFirstLaunchComplete()
			}
		}
	}

	engineSeed := *seed
	if engineSeed == 0 {
		engineSeed = prefs.RandomSeed
	}
	if engineSeed == 0 {
		engineSeed = time.Now().UnixNano()
	}
	eng := engine.New(engineSeed)

	bk, bkPath := loadBook(prefs)
	if bk != nil {
		eng.SetBook(bk)
		log.Printf("Opening book loaded (%d positions)", bk.Size())
	}

	protocol := gtp.New(eng)
	protocol.Name = prefs.EngineName
	if store != nil {
		protocol.SetRecorder(store)
	}
	if bk != nil {
		protocol.SetBook(bk)
	}
	if err := protocol.Run(os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}

	// persist what the session taught the book
	if bk != nil {
		if err := bk.Save(bkPath); err != nil {
			log.Printf("Failed to save book to %s: %v", bkPath, err)
		}
	}
}

// loadBook tries the -book flag, the stored preference, and the
// standard locations, in that order, returning the book and the path
// it was loaded from.
func loadBook(prefs *storage.UserPreferences) (*book.Book, string) {
	var candidates []string
	if *bookPath != "" {
		candidates = append(candidates, *bookPath)
	}
	if prefs.BookPath != "" {
		candidates = append(candidates, prefs.BookPath)
	}
	if dir, err := storage.GetBookDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, defaultBookName))
	}
	candidates = append(candidates, defaultBookName)

	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		bk, err := book.Load(path)
		if err != nil {
			log.Printf("Failed to load book from %s: %v", path, err)
			continue
		}
		return bk, path
	}

	return nil, ""
}
