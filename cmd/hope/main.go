// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the hope order-preserving encoder: a trainer, a
msgpack lookup server and an interactive REPL.

hope learns a dictionary of frequent substrings from a sample of keys and
assigns each dictionary interval a binary code. Encoding two keys and
comparing the codes bit by bit gives the same order as comparing the keys,
so the encoded keys can replace the originals in sorted indexes.

# Usage

Train a 3-gram dictionary from a key file and save it:

	hope -keys keys.txt -type 3gram -limit 10000 -dict hope.dict -save

Serve lookups from a saved dictionary over stdin/stdout:

	hope -dict hope.dict

Try lookups and encodings by hand:

	hope -dict hope.dict -c

Key files are either text (one key per line, .txt), binary key corpora
(.bin, an int32 count followed by uint16-length-prefixed keys), or a
directory of dict_NNNN.bin word-list chunks given with -chunks.

# Configuration

Defaults come from a TOML file, created on first run in the user config
directory:

	[selector]
	type = "3gram"
	num_limit = 10000
	workers = 8

	[sample]
	percent = 100
	seed = 1

	[server]
	max_query_len = 4096
	max_batch = 1024

	[cli]
	show_hex = true
	encode = false

Flags given on the command line override the file.

# IPC Protocol

See package server for the message layout. Requests and responses are
msgpack maps; the server answers each request in order and exits when stdin
closes.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bastiangx/hope/internal/cli"
	"github.com/bastiangx/hope/internal/logger"
	"github.com/bastiangx/hope/pkg/config"
	"github.com/bastiangx/hope/pkg/dictionary"
	"github.com/bastiangx/hope/pkg/dictree"
	"github.com/bastiangx/hope/pkg/selector"
	"github.com/bastiangx/hope/pkg/server"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
)

const (
	Version = "0.1.0"
	AppName = "hope"
	gh      = "https://github.com/bastiangx/hope"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run the interactive REPL instead of the server")
	configPath := flag.String("config", "", "Path to a TOML config file")
	keysPath := flag.String("keys", "", "Key corpus to train on (.txt or .bin)")
	chunkDir := flag.String("chunks", "", "Directory of dict_NNNN.bin chunks to train on")
	selType := flag.String("type", "", "Symbol selector: single, double, 3gram, 4gram")
	numLimit := flag.Int("limit", 0, "Symbol budget for n-gram selection")
	samplePct := flag.Int("sample", 0, "Percent of keys to sample for training (1-100)")
	dictPath := flag.String("dict", "", "Dictionary file to load, or to write with -save")
	save := flag.Bool("save", false, "Write the trained dictionary to -dict")
	resetConfig := flag.Bool("reset-config", false, "Recreate the default config file and exit")
	writeConfig := flag.Bool("write-config", false, "Store -type, -limit and -sample in the active config file")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	if *resetConfig {
		if err := config.RebuildConfigFile(); err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		os.Exit(0)
	}

	cfg, usedConfig, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(usedConfig))

	if *selType != "" {
		cfg.Selector.Type = *selType
	}
	if *numLimit > 0 {
		cfg.Selector.NumLimit = *numLimit
	}
	if *samplePct > 0 {
		cfg.Sample.Percent = *samplePct
	}
	if _, err := cfg.Selector.SelectorType(); err != nil {
		log.Fatalf("Invalid selector: %v", err)
	}
	cfg.Validate()

	if *writeConfig {
		if usedConfig == "" {
			log.Fatal("No config file to write to")
		}
		var typ *string
		var limit, pct *int
		if *selType != "" {
			typ = &cfg.Selector.Type
		}
		if *numLimit > 0 {
			limit = &cfg.Selector.NumLimit
		}
		if *samplePct > 0 {
			pct = &cfg.Sample.Percent
		}
		if err := cfg.Update(usedConfig, typ, limit, pct); err != nil {
			log.Fatalf("Failed to update config: %v", err)
		}
	}

	var counter dictree.Counter
	dict, err := loadDictionary(cfg, *keysPath, *chunkDir, *dictPath, &counter)
	if err != nil {
		log.Fatalf("Failed to prepare dictionary: %v", err)
	}

	if *save {
		if *dictPath == "" {
			log.Fatal("-save needs -dict")
		}
		if err := dict.Save(*dictPath); err != nil {
			log.Fatalf("Failed to save dictionary: %v", err)
		}
		log.Infof("Saved %d entries to %s", dict.Len(), *dictPath)
	}

	if *cliMode {
		log.SetReportTimestamp(false)
		h := cli.NewInputHandler(dict, cfg.CLI, cfg.Server.MaxQueryLen, os.Stdin, os.Stdout)
		if err := h.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	if isatty.IsTerminal(os.Stdin.Fd()) {
		log.Warn("Server reads msgpack requests from stdin; use -c for interactive mode")
	}
	showStartupInfo(dict)
	srv := server.NewServer(dict, cfg.Server, os.Stdin, os.Stdout)
	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// loadDictionary trains from keys when a corpus is given and otherwise
// loads a saved dictionary.
func loadDictionary(cfg *config.Config, keysPath, chunkDir, dictPath string, counter *dictree.Counter) (*dictionary.Dictionary, error) {
	var keys []string
	var err error
	switch {
	case keysPath != "":
		keys, err = dictionary.LoadKeys(keysPath)
	case chunkDir != "":
		keys, err = dictionary.LoadChunkDir(chunkDir)
	case dictPath != "":
		return dictionary.Load(dictPath)
	default:
		return nil, fmt.Errorf("nothing to load: pass -keys, -chunks or -dict")
	}
	if err != nil {
		return nil, err
	}

	sample := dictionary.SampleKeys(keys, cfg.Sample.Percent, cfg.Sample.Seed)
	typ, err := cfg.Selector.SelectorType()
	if err != nil {
		return nil, err
	}
	log.Debug("Training",
		"keys", len(keys),
		"sample", len(sample),
		"selector", typ,
		"limit", cfg.Selector.NumLimit,
		"workers", cfg.Selector.Workers)

	start := time.Now()
	dict, err := dictionary.Train(sample, dictionary.TrainOptions{
		Selector: typ,
		NumLimit: cfg.Selector.NumLimit,
		Workers:  cfg.Selector.Workers,
		Observer: counter,
	})
	if err != nil {
		return nil, err
	}
	c := counter.Counts()
	log.Debug("Dictionary built",
		"entries", dict.Len(),
		"node4", c.Node4, "node16", c.Node16, "node48", c.Node48, "node256", c.Node256,
		"took", time.Since(start))
	return dict, nil
}

func printVersion() {
	l := logger.NewWithConfig(os.Stderr, "", log.InfoLevel, false, false, log.TextFormatter)
	l.SetStyles(logger.Styles())

	l.Print("")
	l.Print("[ hope ] order-preserving key encoder")
	l.Print("", "version", Version)
	l.Print("")
	l.Print("selectors", "available", []string{
		selector.SingleCharType.String(),
		selector.DoubleCharType.String(),
		selector.NGram3Type.String(),
		selector.NGram4Type.String(),
	})
	l.Print("use -h or --help to see available options")
	l.Print("Github Repo", "gh", gh)
}

// showStartupInfo writes basic info about the loaded dictionary to stderr.
func showStartupInfo(dict *dictionary.Dictionary) {
	l := logger.New(AppName)
	l.SetLevel(log.InfoLevel)
	stats := dict.Stats()

	l.Infof("Version: %s", Version)
	l.Infof("Process ID: [ %d ]", os.Getpid())
	l.Info("dictionary", "entries", dict.Len(), "selector", dict.Selector(), "nodes", stats.Nodes())
	l.Info("status: ready")
}
