package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/faceeval/faceeval"
	"github.com/faceeval/faceeval/detect"
	"github.com/faceeval/faceeval/logging"
	"github.com/faceeval/faceeval/utils"
	"go.uber.org/zap"
)

const HelpBanner = `
┌─┐┌─┐┌─┐┌─┐┌─┐┬  ┬┌─┐┬
├┤ ├─┤│  ├┤ ├┤ └┐┌┘├─┤│
└  ┴ ┴└─┘└─┘└─┘ └┘ ┴ ┴┴─┘

Face image quality evaluation.
    Version: %s

`

// pipeName is the file name that indicates stdin is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	source      = flag.String("in", pipeName, "Source image, directory or URL")
	configFile  = flag.String("config", "", "YAML file with the quality thresholds")
	cascade     = flag.String("cascade", "cascade/facefinder", "Face detection cascade file")
	puploc      = flag.String("puploc", "cascade/puploc", "Pupil localization cascade file")
	flpDir      = flag.String("flp", "cascade/lps", "Facial landmark points cascades directory")
	minSize     = flag.Int("min", 20, "Minimum face size")
	maxSize     = flag.Int("max", 1000, "Maximum face size")
	score       = flag.Float64("score", 5.0, "Minimum face detection score")
	debugDir    = flag.String("debug", "", "Directory where the intermediate images are saved")
	annotateDir = flag.String("annotate", "", "Directory where the annotated images are saved")
	workers     = flag.Int("conc", runtime.NumCPU(), "Number of files to process concurrently")
	verbose     = flag.Bool("v", false, "Verbose logging")

	thresholds = registerThresholds(flag.CommandLine, faceeval.DefaultConfig())
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := resolveConfig(*configFile, flag.CommandLine, thresholds)
	if err != nil {
		log.Fatalf(
			utils.DecorateText("Invalid configuration: %v", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
	}

	logger, err := logging.NewLogger(*verbose)
	if err != nil {
		log.Fatalf(utils.DecorateText("Unable to create the logger: %v", utils.ErrorMessage), err)
	}
	defer logger.Sync()

	opts := []faceeval.Option{faceeval.WithLogger(logger)}
	if *debugDir != "" {
		sink, err := faceeval.NewDirSink(*debugDir)
		if err != nil {
			logger.Fatal("unable to create the debug sink", zap.Error(err))
		}
		sink.Logger = logger
		opts = append(opts, faceeval.WithDebugSink(sink))
	}

	pipeline, err := faceeval.NewPipeline(cfg, opts...)
	if err != nil {
		logger.Fatal("unable to build the quality pipeline", zap.Error(err))
	}

	pigoCfg := detect.DefaultPigoConfig()
	pigoCfg.FaceCascade = *cascade
	pigoCfg.PuplocCascade = *puploc
	pigoCfg.FlpCascadeDir = *flpDir
	pigoCfg.MinSize = *minSize
	pigoCfg.MaxSize = *maxSize
	pigoCfg.ScoreThreshold = float32(*score)

	detector, err := detect.NewPigoDetector(pigoCfg)
	if err != nil {
		logger.Fatal("unable to load the face detector", zap.Error(err))
	}

	// Stop the evaluation on CTRL-C.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ev := &evaluator{
		pipeline: pipeline,
		detector: detector,
		logger:   logger,
		out:      os.Stdout,
	}
	op := &Ops{
		Src:         *source,
		PipeName:    pipeName,
		Workers:     *workers,
		AnnotateDir: *annotateDir,
	}
	if err := ev.Execute(ctx, op); err != nil {
		logger.Sync()
		log.Fatalf(
			utils.DecorateText("\nError evaluating the image: %s", utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("\n\tReason: %v\n", err.Error()), utils.DefaultMessage),
		)
	}
}
