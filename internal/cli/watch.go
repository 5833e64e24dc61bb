package cli

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/clashkit/clashkit/internal/coreconf"
	"github.com/clashkit/clashkit/internal/watcher"
	"github.com/clashkit/clashkit/internal/yamlx"
)

type watchOptions struct {
	debounceMs int
}

func newWatchCmd() *cobra.Command {
	opts := watchOptions{debounceMs: 300}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the config file and re-normalize it after external edits",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(opts)
		},
	}
	cmd.Flags().IntVar(&opts.debounceMs, "debounce-ms", 300, "debounce window for file events")
	return cmd
}

func runWatch(opts watchOptions) error {
	store := yamlx.FileStore{}
	path, err := store.ConfigPath()
	if err != nil {
		return err
	}
	// Normalize once up front so a guarded file never re-triggers a write.
	cfg := openGuard()
	if err := cfg.Save(); err != nil {
		return err
	}

	mu := &sync.Mutex{}
	reguard := func() {
		mu.Lock()
		defer mu.Unlock()
		m, err := yamlx.ReadMapping(path)
		if err != nil {
			log.Printf("reload config: %v", err)
			return
		}
		before, err := yaml.Marshal(m)
		if err != nil {
			log.Printf("snapshot config: %v", err)
			return
		}
		re := coreconf.NewFromMapping(m, store, loadSettings())
		after, err := yaml.Marshal(re.Document())
		if err != nil {
			log.Printf("snapshot config: %v", err)
			return
		}
		if bytes.Equal(before, after) {
			return
		}
		if err := re.Save(); err != nil {
			log.Printf("save normalized config: %v", err)
			return
		}
		log.Printf("normalized %s after external edit", path)
	}

	closer, err := watcher.Watch(path, time.Duration(opts.debounceMs)*time.Millisecond, reguard)
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	defer func() { _ = closer.Close() }()
	log.Printf("watching %s (debounce_ms=%d)", path, opts.debounceMs)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}
