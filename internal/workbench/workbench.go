// Package workbench drives analysis tasks: it builds the bundle, hands it to
// the analyst with the media files, and keeps each task's chat for follow-ups.
package workbench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ukaji3/adbundle-go/pkg/adbundle"
	"github.com/ukaji3/adbundle-go/pkg/adbundle/analyst"
	"github.com/ukaji3/adbundle-go/pkg/adbundle/output"
	"github.com/ukaji3/adbundle-go/pkg/adbundle/session"
	"go.uber.org/zap"
)

// InitialTurn is recorded as the user's first message of every task.
const InitialTurn = "【系统指令】分析数据与素材"

var (
	// ErrIncompleteInputs indicates that the workbook, image or video is missing.
	ErrIncompleteInputs = errors.New("incomplete inputs: a workbook, an image and a video are required")
	// ErrUnsupportedInput indicates a file with an extension that is not accepted.
	ErrUnsupportedInput = errors.New("unsupported input")
	// ErrNoTask indicates a follow-up without an open task.
	ErrNoTask = errors.New("no task is open")
)

// Analyzer produces the first report for a bundle and its media.
// *analyst.Analyst satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, req analyst.Request) (*analyst.Result, error)
}

// Inputs are the files of one analysis task.
type Inputs struct {
	Workbook string
	Image    string
	Video    string
}

// Validate checks that all three files are given with accepted extensions.
func (in Inputs) Validate() error {
	if in.Workbook == "" || in.Image == "" || in.Video == "" {
		return ErrIncompleteInputs
	}
	if !strings.EqualFold(filepath.Ext(in.Workbook), ".xlsx") {
		return fmt.Errorf("%w: workbook %s must be .xlsx", ErrUnsupportedInput, in.Workbook)
	}
	if !analyst.IsImage(in.Image) {
		return fmt.Errorf("%w: image %s must be png, jpg, jpeg or webp", ErrUnsupportedInput, in.Image)
	}
	if !analyst.IsVideo(in.Video) {
		return fmt.Errorf("%w: video %s must be mp4, mov or avi", ErrUnsupportedInput, in.Video)
	}
	return nil
}

// Workbench holds the tasks of one user.
type Workbench struct {
	options  adbundle.Options
	analyzer Analyzer
	store    session.Store
	log      *zap.Logger

	// Progress receives step messages while a task starts. May be nil.
	Progress io.Writer

	current *session.Session
}

// New creates a workbench.
func New(opts adbundle.Options, analyzer Analyzer, store session.Store, log *zap.Logger) *Workbench {
	if log == nil {
		log = zap.NewNop()
	}
	return &Workbench{options: opts, analyzer: analyzer, store: store, log: log}
}

// Current returns the open task, or nil.
func (w *Workbench) Current() *session.Session {
	return w.current
}

// Open makes the task with the given ID the current one.
func (w *Workbench) Open(id string) (*session.Session, error) {
	s, ok := w.store.Get(id)
	if !ok {
		return nil, fmt.Errorf("task %s not found", id)
	}
	w.current = s
	return s, nil
}

// Start runs a full analysis and opens the new task. Workbook failures stop
// the task before anything is uploaded.
func (w *Workbench) Start(ctx context.Context, in Inputs) (*session.Session, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	w.progress("1/3 parsing workbook %s", filepath.Base(in.Workbook))
	bundle, err := adbundle.Extract(in.Workbook, w.options)
	if err != nil {
		if adbundle.IsStructural(err) {
			w.log.Warn("workbook rejected", zap.String("workbook", in.Workbook), zap.Error(err))
		}
		return nil, fmt.Errorf("workbook: %w", err)
	}
	data, err := output.ToJSON(bundle, false)
	if err != nil {
		return nil, fmt.Errorf("bundle: %w", err)
	}

	if adbundle.HasSummary(bundle, w.options) {
		w.progress("account summary with ROAS computed")
	} else if w.options.ShouldAggregate() {
		w.progress("no account summary, analysing sheet details only")
	}

	w.progress("2/3 uploading %s and %s", filepath.Base(in.Image), filepath.Base(in.Video))
	result, err := w.analyzer.Analyze(ctx, analyst.Request{
		Bundle:    data,
		ImagePath: in.Image,
		VideoPath: in.Video,
	})
	if err != nil {
		return nil, fmt.Errorf("analysis: %w", err)
	}

	w.progress("3/3 report received")
	var conv session.Conversation
	if result.Conversation != nil {
		conv = result.Conversation
	}
	s, err := w.store.Create(conv)
	if err != nil {
		return nil, err
	}
	s.Append(session.RoleUser, InitialTurn)
	s.Append(session.RoleModel, result.Report)

	w.log.Info("task created",
		zap.String("task", s.ID),
		zap.String("request_id", s.RequestID.String()),
		zap.String("workbook", in.Workbook),
		zap.Strings("sections", bundle.Aliases()))
	w.current = s
	return s, nil
}

// Ask sends a follow-up to the current task.
func (w *Workbench) Ask(ctx context.Context, prompt string) (string, error) {
	if w.current == nil {
		return "", ErrNoTask
	}
	reply, err := w.current.Ask(ctx, prompt)
	if err != nil {
		w.log.Warn("follow-up failed", zap.String("task", w.current.ID), zap.Error(err))
		return "", err
	}
	return reply, nil
}

func (w *Workbench) progress(format string, args ...interface{}) {
	if w.Progress == nil {
		return
	}
	fmt.Fprintf(w.Progress, "⏳ "+format+"\n", args...)
}
