package sentiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/options"
	"github.com/knights-analytics/hugot/pipelineBackends"
	"github.com/knights-analytics/hugot/pipelines"
)

const RuntimeORT = "ort"

var ErrUnknownRuntime = errors.New("unknown hugot runtime")

type HugotOptions struct {
	ModelName    string
	ModelDir     string
	OnnxFilename string
	Runtime      string // only "ort" is built in; empty means ort
	LibraryPath  string // onnxruntime shared library, empty for the default
	AuthToken    string
}

type sessionFactory func(opts ...options.WithOption) (*hugot.Session, error)

var sessionFactories = map[string]sessionFactory{
	RuntimeORT: hugot.NewORTSession,
}

// HugotClassifier runs a local ONNX export of a three-class sentiment model.
// The pipeline's tokenizer truncates each chunk to the model's maximum
// sequence length and pads the batch to its longest member.
type HugotClassifier struct {
	name     string
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
}

func NewHugotClassifier(opts HugotOptions) (*HugotClassifier, error) {
	modelPath, err := ensureModel(opts)
	if err != nil {
		return nil, err
	}

	session, err := newHugotSession(opts.Runtime, opts.LibraryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize hugot session: %w", err)
	}

	config := hugot.TextClassificationConfig{
		ModelPath:    modelPath,
		Name:         "severityClassificationPipeline",
		OnnxFilename: opts.OnnxFilename,
		Options: []pipelineBackends.PipelineOption[*pipelines.TextClassificationPipeline]{
			pipelines.WithSoftmax(),
			pipelines.WithMultiLabel(),
		},
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		_ = session.Destroy()
		return nil, fmt.Errorf("failed to initialize classification pipeline: %w", err)
	}

	slog.Info("[HugotClassifier] Pipeline ready",
		slog.String("model", opts.ModelName),
		slog.String("path", modelPath),
		slog.String("runtime", opts.Runtime))

	return &HugotClassifier{name: opts.ModelName, session: session, pipeline: pipeline}, nil
}

func newHugotSession(runtime, libraryPath string) (*hugot.Session, error) {
	if runtime == "" {
		runtime = RuntimeORT
	}
	factory, ok := sessionFactories[runtime]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownRuntime, runtime)
	}

	var sessionOpts []options.WithOption
	if libraryPath != "" {
		sessionOpts = append(sessionOpts, options.WithOnnxLibraryPath(libraryPath))
	}
	return factory(sessionOpts...)
}

// ensureModel downloads the model on first use and returns its local path.
func ensureModel(opts HugotOptions) (string, error) {
	if err := os.MkdirAll(opts.ModelDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create model directory: %w", err)
	}

	localPath := filepath.Join(opts.ModelDir, strings.ReplaceAll(opts.ModelName, "/", "_"))
	if _, err := os.Stat(localPath); err == nil {
		slog.Info("[HugotClassifier] Using existing model", slog.String("path", localPath))
		return localPath, nil
	}

	slog.Info("[HugotClassifier] Model not found, downloading...",
		slog.String("model", opts.ModelName))
	downloadOptions := hugot.NewDownloadOptions()
	downloadOptions.AuthToken = opts.AuthToken
	modelPath, err := hugot.DownloadModel(opts.ModelName, opts.ModelDir, downloadOptions)
	if err != nil {
		return "", fmt.Errorf("failed to download model %s: %w", opts.ModelName, err)
	}
	slog.Info("[HugotClassifier] Model downloaded successfully", slog.String("path", modelPath))
	return modelPath, nil
}

func (h *HugotClassifier) Name() string {
	return h.name
}

func (h *HugotClassifier) ScoreChunks(ctx context.Context, chunks []string) ([]float64, error) {
	if len(chunks) == 0 {
		return []float64{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	output, err := h.pipeline.RunPipeline(chunks)
	if err != nil {
		return nil, fmt.Errorf("classification pipeline failed: %w", err)
	}
	if err := checkCount(len(chunks), len(output.ClassificationOutputs)); err != nil {
		return nil, err
	}

	scores := make([]float64, len(chunks))
	for i, classes := range output.ClassificationOutputs {
		labeled := make([]LabeledScore, len(classes))
		for j, c := range classes {
			labeled[j] = LabeledScore{Label: c.Label, Score: float64(c.Score)}
		}
		scores[i], err = ChunkScore(labeled)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}
	}
	return scores, nil
}

func (h *HugotClassifier) Close() error {
	return h.session.Destroy()
}
