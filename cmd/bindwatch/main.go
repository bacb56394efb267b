// Command bindwatch watches a YAML settings file and prints property
// changes as they happen. With key arguments it binds only those keys
// through the default manager; with none it subscribes to every change.
//
// Usage:
//
//	bindwatch -file settings.yaml [key ...]
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-drift/bind/pkg/binding"
	"github.com/go-drift/bind/pkg/errors"
	"github.com/go-drift/bind/pkg/settings"
)

func main() {
	file := flag.String("file", "settings.yaml", "settings file to watch")
	verbose := flag.Bool("verbose", false, "include stack traces in error output")
	flag.Parse()

	errors.SetHandler(&errors.LogHandler{Verbose: *verbose})

	store := settings.NewStore(*file)
	if err := store.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "bindwatch: %v\n", err)
		os.Exit(1)
	}

	printChange := func(change binding.PropertyChange) {
		if change.Value == nil {
			fmt.Printf("%s removed\n", change.Name)
			return
		}
		fmt.Printf("%s = %v\n", change.Name, change.Value)
	}

	if keys := flag.Args(); len(keys) > 0 {
		// Route the named keys through the default weak event manager.
		for _, key := range keys {
			binding.BindProperty(nil, store.Source(), key, printChange)
		}
	} else {
		unsub := store.AddPropertyListener(printChange)
		defer unsub()
	}

	stop, err := store.Watch()
	if err != nil {
		fmt.Fprintf(os.Stderr, "bindwatch: failed to watch %s: %v\n", *file, err)
		os.Exit(1)
	}
	defer stop()

	fmt.Printf("Watching %s (Ctrl+C to stop)...\n", *file)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\nStopped.")
}
