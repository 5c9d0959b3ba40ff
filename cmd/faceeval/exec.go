package main

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/faceeval/faceeval"
	"github.com/faceeval/faceeval/detect"
	"github.com/faceeval/faceeval/logging"
	"github.com/faceeval/faceeval/utils"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

// Supported files
var validExtensions = []string{".jpg", ".png", ".jpeg", ".bmp", ".gif", ".webp"}

// Ops holds the source and the execution options of a run.
type Ops struct {
	Src, PipeName string
	Workers       int
	// AnnotateDir, when set, receives a copy of every image with the
	// detected bounding box and landmarks drawn over it.
	AnnotateDir string
}

// result holds the outcome of a single image evaluation.
type result struct {
	path   string
	report string
	passed bool
	err    error
}

// evaluator chains the face detection with the quality pipeline.
type evaluator struct {
	pipeline *faceeval.Pipeline
	detector detect.Detector
	logger   *zap.Logger
	out      io.Writer
}

// Execute evaluates the source, be it an image file, a directory, an URL or stdin,
// and prints one report line per image. Directories are walked recursively and
// their images evaluated concurrently.
func (e *evaluator) Execute(ctx context.Context, op *Ops) error {
	var (
		fs  os.FileInfo
		err error
	)
	src := op.Src

	// Check if source path is a local image or URL.
	if utils.IsValidUrl(src) {
		file, err := utils.DownloadImage(src)
		if err != nil {
			return errors.Wrap(err, "failed to load the source image")
		}
		defer os.Remove(file.Name())
		file.Close()
		src = file.Name()
	}

	// Check if the source is a pipe name or a regular file.
	if src == op.PipeName {
		fs, err = os.Stdin.Stat()
	} else {
		fs, err = os.Stat(src)
	}
	if err != nil {
		return errors.Wrap(err, "failed to load the source image")
	}

	if op.AnnotateDir != "" {
		if err := os.MkdirAll(op.AnnotateDir, 0755); err != nil {
			return errors.Wrap(err, "unable to create the annotation directory")
		}
	}

	now := time.Now()

	switch mode := fs.Mode(); {
	case mode.IsDir():
		// Limit the concurrently running workers to maxWorkers.
		if op.Workers <= 0 || op.Workers > maxWorkers {
			op.Workers = runtime.NumCPU()
		}

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		// Evaluate recursively the image files from the specified directory concurrently.
		ch := make(chan result)
		paths, errc := walkDir(ctx, src, validExtensions)

		g := new(errgroup.Group)
		for i := 0; i < op.Workers; i++ {
			g.Go(func() error {
				e.consumer(ctx, op, paths, ch)
				return nil
			})
		}

		// Close the channel after the values are consumed.
		go func() {
			defer close(ch)
			g.Wait()
		}()

		var total, passed, failed int
		for res := range ch {
			total++
			if res.err != nil {
				failed++
			} else if res.passed {
				passed++
			}
			e.printStatus(res)
		}

		if err := <-errc; err != nil {
			return errors.Wrap(err, "unable to walk the source directory")
		}
		fmt.Fprintf(os.Stderr, "\nEvaluated %s images: %s passed, %s errors\n",
			utils.DecorateText(fmt.Sprint(total), utils.StatusMessage),
			utils.DecorateText(fmt.Sprint(passed), utils.SuccessMessage),
			utils.DecorateText(fmt.Sprint(failed), utils.ErrorMessage),
		)

	case mode.IsRegular() || mode&os.ModeNamedPipe != 0: // check for regular files or pipe names
		res := e.evaluateFile(op, src)
		if res.err != nil {
			return res.err
		}
		if src != op.Src {
			res.path = op.Src
		}
		e.printStatus(res)

	default:
		return errors.Errorf("unsupported source %s", op.Src)
	}

	fmt.Fprintf(os.Stderr, "\nExecution time: %s\n", utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))
	return nil
}

// consumer reads the path names from the paths channel, evaluates each image
// and sends the results on the res channel.
func (e *evaluator) consumer(
	ctx context.Context,
	op *Ops,
	paths <-chan string,
	res chan<- result,
) {
	for src := range paths {
		r := e.evaluateFile(op, src)

		select {
		case <-ctx.Done():
			return
		case res <- r:
		}
	}
}

// evaluateFile decodes the image found at path, or read from stdin for the pipe name, and evaluates it.
func (e *evaluator) evaluateFile(op *Ops, path string) result {
	res := result{path: path}

	var (
		img *image.NRGBA
		err error
	)
	if path == op.PipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			res.err = errors.New("`-` should be used with a pipe for stdin")
			return res
		}
		img, err = faceeval.DecodeImage(os.Stdin)
	} else {
		img, err = faceeval.OpenImage(path)
	}
	if err != nil {
		res.err = err
		return res
	}

	res.report, res.passed, res.err = e.evaluate(img, op.AnnotateDir)
	return res
}

// evaluate detects the face and runs the quality checks over it. The upstream
// detection count failures are reported like the quality failures.
func (e *evaluator) evaluate(img image.Image, annotateDir string) (string, bool, error) {
	id := uuid.NewString()
	logger := logging.WithRequest(e.logger, "evaluate", id)

	face, err := e.detector.Detect(img)
	if err != nil {
		var fce *detect.FaceCountError
		if errors.As(err, &fce) {
			logger.Info("face count check failed", zap.Int("faces", fce.Count))
			return countReport(fce.Count), false, nil
		}
		logger.Error("face detection failed", zap.Error(err))
		return "", false, err
	}
	logger.Debug("face detected",
		zap.Stringer("box", face.Box.Rect()),
		zap.Float32("score", face.Score),
	)

	if annotateDir != "" {
		fname := filepath.Join(annotateDir, id+".png")
		if err := imaging.Save(faceeval.Annotate(img, face.Box, face.Landmarks), fname); err != nil {
			logger.Warn("unable to save the annotated image", zap.Error(err))
		}
	}

	verdict, err := e.pipeline.Run(img, face.Aligned, face.Landmarks, face.Box)
	if err != nil {
		logger.Error("quality evaluation failed", zap.Error(err))
		return "", false, err
	}
	logger.Info("quality evaluated", zap.Stringer("verdict", verdict))
	return verdict.String(), verdict.Passed(), nil
}

// countReport formats the outcome of a detection which did not find exactly one face.
func countReport(n int) string {
	if n == 0 {
		return "No Face Detected"
	}
	return fmt.Sprintf("Multiple Faces Detected: %d", n)
}

// printStatus writes the report line of an image to the output, or the error to stderr.
func (e *evaluator) printStatus(res result) {
	if res.err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n\tReason: %v\n",
			utils.DecorateText("Error evaluating the image:", utils.ErrorMessage),
			res.path,
			res.err,
		)
		return
	}
	msgType := utils.ErrorMessage
	if res.passed {
		msgType = utils.SuccessMessage
	}
	fmt.Fprintf(e.out, "%s: %s\n", res.path, utils.DecorateText(res.report, msgType))
}

// walkDir starts a new goroutine to walk the specified directory tree
// in recursive manner and sends the path of each supported image to a new channel.
// It finishes in case the context is cancelled.
func walkDir(
	ctx context.Context,
	src string,
	srcExts []string,
) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		// Close the paths channel after Walk returns.
		defer close(pathChan)

		errChan <- filepath.Walk(src, func(path string, f os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !f.Mode().IsRegular() {
				return nil
			}
			if !isValidExtension(strings.ToLower(filepath.Ext(f.Name())), srcExts) {
				return nil
			}

			select {
			case <-ctx.Done():
				return errors.New("directory walk cancelled")
			case pathChan <- path:
			}
			return nil
		})
	}()
	return pathChan, errChan
}

// isValidExtension checks for the supported extensions.
func isValidExtension(ext string, extensions []string) bool {
	for _, ex := range extensions {
		if ex == ext {
			return true
		}
	}
	return false
}
