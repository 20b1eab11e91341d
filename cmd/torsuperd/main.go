// SPDX-License-Identifier: MIT

// Command torsuperd is the supervisor's driver binary: it wires a
// Controller together from flags and an optional YAML bootstrap file,
// starts it, and then dispatches line-oriented commands read from stdin
// until it is told to shut down.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/apimgr/torsuper/internal/applog"
	"github.com/apimgr/torsuper/internal/config"
	"github.com/apimgr/torsuper/internal/controller"
	"github.com/apimgr/torsuper/internal/metrics"
	"github.com/apimgr/torsuper/internal/version"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, in *os.File, out, logOut *os.File) int {
	fs := flag.NewFlagSet("torsuperd", flag.ContinueOnError)
	program := fs.String("program", "tor", "path to the tor executable")
	workingDirectory := fs.String("working-directory", "", "directory holding torrc, pid file, and hidden service state")
	workingDirectoryShort := fs.String("working-dir", "", "alias for --working-directory")
	noWindowSupport := fs.Bool("no-window-support", false, "the tor binary was built without a console window (Windows only)")
	configPath := fs.String("config", "", "optional YAML bootstrap file (program/working_directory/hidden_services)")
	logLevel := fs.String("log-level", "info", "debug, info, warn, or error")
	showVersion := fs.Bool("version", false, "print version information and exit")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *showVersion {
		fmt.Fprintln(out, version.String())
		return 0
	}
	if *workingDirectory == "" {
		*workingDirectory = *workingDirectoryShort
	}

	logger := applog.New(logOut, applog.ParseLevel(*logLevel))

	cfg, programFromFile, workDirFromFile, noWindowFromFile, err := loadBootstrap(*configPath)
	if err != nil {
		logger.Error("loading bootstrap config", applog.Err(err))
		return 1
	}
	if *program == "tor" && programFromFile != "" {
		*program = programFromFile
	}
	if *workingDirectory == "" {
		*workingDirectory = workDirFromFile
	}
	if !*noWindowSupport {
		*noWindowSupport = noWindowFromFile
	}
	if *workingDirectory == "" {
		logger.Error("missing required setting", applog.String("flag", "--working-directory"))
		return 2
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	ctl := controller.New(*program, *workingDirectory, *noWindowSupport, logger, m)
	if err := ctl.Start(cfg); err != nil {
		logger.Error("starting controller", applog.Err(err))
		return 1
	}

	return dispatch(ctl, cfg, in, out, logger)
}

func loadBootstrap(path string) (config.Configuration, string, string, bool, error) {
	if path == "" {
		return config.Configuration{}, "", "", false, nil
	}
	f, err := config.LoadFile(path)
	if err != nil {
		return nil, "", "", false, err
	}
	return f.ToConfiguration(), f.Program, f.WorkingDirectory, f.NoWindowSupport, nil
}

// dispatch runs the stdin command loop. cfg is
// the live, in-memory configuration; create_service mutates it in place.
func dispatch(ctl *controller.Controller, cfg config.Configuration, in *os.File, out *os.File, logger *applog.Logger) int {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "shutdown":
			if err := ctl.Stop(); err != nil {
				logger.Error("shutdown", applog.Err(err))
				return 1
			}
			return 0

		case "reload":
			if err := ctl.Update(cfg); err != nil {
				logger.Error("reload", applog.Err(err))
				fmt.Fprintf(out, "error: %v\n", err)
			}

		case "create_service":
			hs, err := parseCreateService(fields[1:])
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			cfg = append(cfg, hs)
			if err := ctl.CreateHiddenService(cfg); err != nil {
				logger.Error("create_service", applog.Err(err))
				fmt.Fprintf(out, "error: %v\n", err)
			}

		case "backup":
			printBackup(ctl, cfg, out)

		default:
			fmt.Fprintf(out, "unknown: %s\n", line)
		}
	}

	if err := scanner.Err(); err != nil {
		logger.Error("reading stdin", applog.Err(err))
		return 1
	}
	// stdin closed without a "shutdown" line: stop cleanly anyway.
	if err := ctl.Stop(); err != nil {
		logger.Error("shutdown on stdin close", applog.Err(err))
		return 1
	}
	return 0
}

func parseCreateService(args []string) (config.HiddenService, error) {
	if len(args) != 4 {
		return config.HiddenService{}, fmt.Errorf("create_service needs 4 arguments: name svc_port host_addr host_port, got %d", len(args))
	}
	svcPort, err := strconv.ParseUint(args[1], 10, 16)
	if err != nil {
		return config.HiddenService{}, fmt.Errorf("svc_port: %w", err)
	}
	hostPort, err := strconv.ParseUint(args[3], 10, 16)
	if err != nil {
		return config.HiddenService{}, fmt.Errorf("host_port: %w", err)
	}
	hs := config.HiddenService{
		ServiceName: args[0],
		ServicePort: uint16(svcPort),
		HostAddress: args[2],
		HostPort:    uint16(hostPort),
	}
	return hs, hs.Validate()
}

// printBackup prints names and sizes only, never contents - "backup"
// is explicitly a manifest listing, not a secret dump.
func printBackup(ctl *controller.Controller, cfg config.Configuration, out *os.File) {
	names := make([]string, len(cfg))
	for i, hs := range cfg {
		names[i] = hs.ServiceName
	}
	manifest, err := ctl.Backup(names)
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	for _, name := range names {
		files := manifest[name]
		fmt.Fprintf(out, "%s:\n", name)
		for _, f := range files {
			fmt.Fprintf(out, "  %s\n", f.String())
		}
	}
}
