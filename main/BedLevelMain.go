// bedlevel loads a probed bed mesh, fills the unprobed points and reports
// the leveling compensation it would apply.
//
// Usage:
//
//	bedlevel -config bedlevel.toml [options]
//
// Examples:
//
//	# Ingest probe results, enable leveling and print the mesh
//	bedlevel -config bedlevel.toml -probe probe.csv -enable -report
//
//	# Store the current mesh in slot 2 and render a heat map
//	bedlevel -config bedlevel.toml -save-slot 2 -heatmap mesh.html
package main

import (
	"bedlevel/common/config"
	"bedlevel/common/file"
	"bedlevel/common/logger"
	"bedlevel/common/utils/sys"
	"bedlevel/project"
	"bedlevel/project/util"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tarm/serial"
)

func main() {
	os.Exit(bedlevel())
}

// bedlevel returns the process exit code so the deferred logger flush and
// panic handler run before the process exits. A recovered panic exits 1.
func bedlevel() (code int) {
	configFile := flag.String("config", "", "Leveling configuration file (TOML)")
	probeFile := flag.String("probe", "", "CSV of x,y,z probe results to ingest")
	enable := flag.Bool("enable", false, "Enable bed leveling after loading the mesh")
	report := flag.Bool("report", false, "Print the mesh report")
	machine := flag.Bool("machine", false, "Print the mesh in the machine readable format")
	heatmap := flag.String("heatmap", "", "Write an HTML heat map of the mesh")
	saveSlot := flag.Int("save-slot", -1, "Store the mesh in this slot")
	loadSlot := flag.Int("load-slot", -1, "Load the mesh from this slot")
	flag.Parse()

	cfg := config.Default()
	base := ""
	var warnings []string
	var loadErr error
	if *configFile != "" {
		cfg, warnings, loadErr = config.Load(util.ExpandUser(*configFile))
		base = filepath.Dir(util.ExpandUser(*configFile))
	}
	logger.InitFromConfig(cfg.Log)
	defer logger.Sync()
	defer sys.CatchPanic()
	code = 1

	if loadErr != nil {
		logger.Errorf("%v", loadErr)
		return 1
	}
	for _, w := range warnings {
		logger.Warnf("%s", w)
	}
	logger.Debugf("main thread %d running on %s", sys.GetGID(), sys.GetCpuInfo())

	if err := run(cfg, base, options{
		probeFile: util.ResolvePath("", *probeFile),
		enable:    *enable,
		report:    *report,
		machine:   *machine,
		heatmap:   util.ResolvePath("", *heatmap),
		saveSlot:  *saveSlot,
		loadSlot:  *loadSlot,
	}); err != nil {
		logger.Errorf("%v", err)
		return 1
	}
	return 0
}

type options struct {
	probeFile string
	enable    bool
	report    bool
	machine   bool
	heatmap   string
	saveSlot  int
	loadSlot  int
}

func run(cfg config.Config, base string, opt options) error {
	toolhead := project.NewToolhead(project.DEFAULT_MAX_VELOCITY)
	ctx, err := project.NewLevelingContextFromConfig(cfg.Mesh, toolhead)
	if err != nil {
		return err
	}

	settingsFile := util.ResolvePath(base, cfg.Storage.SettingsFile)
	if settingsFile != "" && file.Exists(settingsFile) {
		if err := ctx.Load_settings(settingsFile); err != nil {
			logger.Warnf("ignoring stored settings: %v", err)
		}
	}

	var slots *project.SlotStore
	if path := util.ResolvePath(base, cfg.Storage.SlotsDB); path != "" {
		slots, err = project.OpenSlotStore(path)
		if err != nil {
			return err
		}
		defer slots.Close()
	} else if opt.saveSlot >= 0 || opt.loadSlot >= 0 {
		return fmt.Errorf("storage.slots_db is not configured")
	}
	if opt.loadSlot >= 0 {
		if err := ctx.Load_slot(slots, opt.loadSlot); err != nil {
			return err
		}
	}

	if opt.probeFile != "" {
		f, err := os.Open(opt.probeFile)
		if err != nil {
			return err
		}
		results, err := project.Parse_probe_results(f)
		f.Close()
		if err != nil {
			return err
		}
		logger.Infof("stored %d of %d probe results", ctx.Ingest_probe_results(results), len(results))
	}

	ctx.Extrapolate_unprobed_bed_level()
	ctx.Refresh_bed_level()

	if opt.enable && !ctx.Set_bed_leveling_enabled(true) {
		logger.Warnf("bed leveling stays off: mesh is not valid")
	}

	if opt.report || opt.machine {
		out, closeOut, err := reportWriter(cfg.Storage)
		if err != nil {
			return err
		}
		if opt.machine {
			err = ctx.Print_mesh(out, 3, project.PRINT_MACHINE)
		} else {
			err = ctx.Report(out, 3)
		}
		closeOut()
		if err != nil {
			return err
		}
	}

	if path := opt.heatmap; path != "" || cfg.Storage.HeatmapFile != "" {
		if path == "" {
			path = util.ResolvePath(base, cfg.Storage.HeatmapFile)
		}
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		err = ctx.Render_heatmap(f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
		logger.Infof("heat map written to %s", path)
	}

	if settingsFile != "" {
		if err := ctx.Save_settings(settingsFile); err != nil {
			return err
		}
	}
	if opt.saveSlot >= 0 {
		if _, err := ctx.Save_slot(slots, opt.saveSlot); err != nil {
			return err
		}
	}
	return nil
}

// reportWriter is the serial report port when one is configured, stdout
// otherwise.
func reportWriter(storage config.StorageConfig) (io.Writer, func(), error) {
	if storage.ReportPort == "" {
		return os.Stdout, func() {}, nil
	}
	port, err := serial.OpenPort(&serial.Config{Name: storage.ReportPort, Baud: storage.ReportBaud})
	if err != nil {
		return nil, nil, fmt.Errorf("open report port %s: %w", storage.ReportPort, err)
	}
	return port, func() {
		if err := port.Close(); err != nil {
			logger.Warnf("close report port: %v", err)
		}
	}, nil
}
