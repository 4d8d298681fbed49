// Command dmxld plays a lighting show against a rig of DMX512
// fixtures over sACN or Art-Net. The CLI, the optional HTTP preview
// façade, and show discovery are ambient glue around the
// render/composition/scheduling core in internal/; shows themselves
// are in-memory clip graphs, not a file format this binary parses.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/roguenand/dmxld/internal/config"
	"github.com/roguenand/dmxld/internal/engine"
	"github.com/roguenand/dmxld/internal/logging"
	"github.com/roguenand/dmxld/internal/preview"
)

var (
	appName    = "dmxld"
	appVersion = "dev" // injected at build time via -ldflags
)

func main() {
	args, action := parseFlags()
	if action != "" {
		return
	}
	if err := run(args); err != nil {
		log.Fatalln(err)
	}
}

type parsedArgs struct {
	configFile    string
	protocol      string
	colorStrategy string
	logLevel      string
	previewHost   string
	previewPort   string
}

func parseFlags() (parsedArgs, string) {
	return parseFlagsWithArgs(os.Args[1:])
}

func parseFlagsWithArgs(args []string) (parsedArgs, string) {
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	configFile := fs.String("config", "", "path to a dmxld.yaml configuration file")
	protocol := fs.String("protocol", "", "transport protocol: sacn or artnet")
	colorStrategy := fs.String("color-strategy", "", "color conversion strategy: balanced, preserve_rgb, max_white")
	logLevel := fs.String("log-level", "", "log level (debug, info, warn, error)")
	previewHost := fs.String("preview-host", "", "preview HTTP server host")
	previewPort := fs.String("preview-port", "", "preview HTTP server port")
	help := fs.Bool("help", false, "show help")
	version := fs.Bool("version", false, "show version")

	_ = fs.Parse(args)

	if *help {
		fs.Usage()
		return parsedArgs{}, "help"
	}
	if *version {
		fmt.Printf("%s %s\n", appName, appVersion)
		return parsedArgs{}, "version"
	}

	return parsedArgs{
		configFile:    *configFile,
		protocol:      *protocol,
		colorStrategy: *colorStrategy,
		logLevel:      *logLevel,
		previewHost:   *previewHost,
		previewPort:   *previewPort,
	}, ""
}

func run(args parsedArgs) error {
	cfg, err := config.LoadWithOverrides(config.LoadOptions{
		ConfigFile:    args.configFile,
		Protocol:      args.protocol,
		ColorStrategy: args.colorStrategy,
		LogLevel:      args.logLevel,
		PreviewHost:   args.previewHost,
		PreviewPort:   args.previewPort,
	})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.SetLevelFromString(cfg.Logging.Level)
	logging.Info("%s %s starting (protocol=%s fps=%d)", appName, appVersion, cfg.Engine.Protocol, cfg.Engine.FPS)

	r, show, err := demoShow(cfg)
	if err != nil {
		return fmt.Errorf("build demo show: %w", err)
	}

	eng := engine.NewEngine(cfg)
	eng.SetRig(r)

	if cfg.Preview.Enabled {
		srv := preview.NewServer(eng)
		addr := fmt.Sprintf("%s:%s", cfg.Preview.Host, cfg.Preview.Port)
		go func() {
			logging.Info("preview façade listening on %s", addr)
			if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
				logging.Error("preview server: %v", err)
			}
		}()
	}

	if err := eng.PlaySync(show); err != nil {
		return fmt.Errorf("play: %w", err)
	}

	logging.Info("show finished")
	return nil
}
