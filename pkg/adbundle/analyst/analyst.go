// Package analyst hands data bundles and media to a Gemini model and keeps
// the resulting chat open for follow-up questions.
package analyst

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

//go:embed prompts/system.md
var defaultSystemInstruction string

// DefaultSystemInstruction returns the built-in GMV MAX advisor prompt.
func DefaultSystemInstruction() string {
	return defaultSystemInstruction
}

// Defaults applied to a zero Config.
const (
	DefaultModel        = "gemini-2.5-pro"
	DefaultPollInterval = 2 * time.Second
	DefaultPollTimeout  = 90 * time.Second
)

var (
	// ErrProcessingFailed indicates the Files API could not process an upload.
	ErrProcessingFailed = errors.New("file processing failed")
	// ErrProcessingTimeout indicates an upload did not become active in time.
	ErrProcessingTimeout = errors.New("file processing timed out")
	// ErrEmptyResponse indicates the model returned no text.
	ErrEmptyResponse = errors.New("model returned no text")
	// ErrMissingAPIKey indicates no API key was configured.
	ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set")
)

// FileService is the part of the Files API the analyst uses.
// *genai.Client satisfies it.
type FileService interface {
	UploadFile(ctx context.Context, name string, r io.Reader, opts *genai.UploadFileOptions) (*genai.File, error)
	GetFile(ctx context.Context, name string) (*genai.File, error)
}

// ChatSession sends messages within one chat. *genai.ChatSession satisfies it.
type ChatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// ChatStarter opens a new chat with the configured model.
type ChatStarter func() ChatSession

// Config configures the analyst.
type Config struct {
	Model             string
	SystemInstruction string
	PollInterval      time.Duration
	PollTimeout       time.Duration
}

func (c Config) withDefaults() Config {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.SystemInstruction == "" {
		c.SystemInstruction = defaultSystemInstruction
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.PollTimeout <= 0 {
		c.PollTimeout = DefaultPollTimeout
	}
	return c
}

// Analyst runs analysis requests against the model.
type Analyst struct {
	files     FileService
	startChat ChatStarter
	cfg       Config
	log       *zap.Logger

	// OnWait, if set, is called after every status poll that is still
	// processing, with the time waited so far.
	OnWait func(waited time.Duration)
}

// New creates an Analyst over the given services.
func New(files FileService, startChat ChatStarter, cfg Config, log *zap.Logger) *Analyst {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyst{files: files, startChat: startChat, cfg: cfg.withDefaults(), log: log}
}

// NewGemini connects to the Gemini API. The returned client must be closed
// by the caller.
func NewGemini(ctx context.Context, apiKey string, cfg Config, log *zap.Logger) (*Analyst, *genai.Client, error) {
	if apiKey == "" {
		return nil, nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	cfg = cfg.withDefaults()
	model := client.GenerativeModel(cfg.Model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(cfg.SystemInstruction)},
	}

	start := func() ChatSession { return model.StartChat() }
	return New(client, start, cfg, log), client, nil
}

// Request is one analysis: a serialized bundle plus one image and one video.
type Request struct {
	Bundle    []byte
	ImagePath string
	VideoPath string
}

// Result is the model's first report and the chat it was written in.
type Result struct {
	Report       string
	Conversation *Conversation
}

// Analyze uploads the media, waits for the video to be processed, and asks
// the model for its report.
func (a *Analyst) Analyze(ctx context.Context, req Request) (*Result, error) {
	image, err := a.UploadMedia(ctx, req.ImagePath, mimeOr(req.ImagePath, DefaultImageMIME))
	if err != nil {
		return nil, fmt.Errorf("image upload: %w", err)
	}

	video, err := a.UploadMedia(ctx, req.VideoPath, mimeOr(req.VideoPath, DefaultVideoMIME))
	if err != nil {
		return nil, fmt.Errorf("video upload: %w", err)
	}

	video, err = a.WaitActive(ctx, video)
	if err != nil {
		return nil, fmt.Errorf("video processing: %w", err)
	}

	conv := &Conversation{chat: a.startChat()}
	report, err := conv.send(ctx,
		genai.Text(InitialPrompt(req.Bundle)),
		genai.FileData{MIMEType: image.MIMEType, URI: image.URI},
		genai.FileData{MIMEType: video.MIMEType, URI: video.URI},
	)
	if err != nil {
		return nil, err
	}

	a.log.Info("analysis report received",
		zap.String("model", a.cfg.Model),
		zap.Int("bundle_bytes", len(req.Bundle)),
		zap.Int("report_chars", len([]rune(report))))
	return &Result{Report: report, Conversation: conv}, nil
}

// InitialPrompt wraps the bundle text into the first user message.
func InitialPrompt(bundle []byte) string {
	return fmt.Sprintf("这是投放数据(JSON)：\n%s\n\n请结合图片和视频进行分析。", bundle)
}

// UploadMedia uploads a local file. An empty mimeType is derived from the
// file extension.
func (a *Analyst) UploadMedia(ctx context.Context, path, mimeType string) (*genai.File, error) {
	if mimeType == "" {
		mimeType = MIMEType(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	file, err := a.files.UploadFile(ctx, "", f, &genai.UploadFileOptions{
		DisplayName: filepath.Base(path),
		MIMEType:    mimeType,
	})
	if err != nil {
		return nil, err
	}
	a.log.Debug("media uploaded",
		zap.String("path", path),
		zap.String("name", file.Name),
		zap.String("mime", mimeType))
	return file, nil
}

// WaitActive polls the file until it is ACTIVE. A FAILED state, the poll
// timeout and context cancellation all end the wait with an error.
func (a *Analyst) WaitActive(ctx context.Context, file *genai.File) (*genai.File, error) {
	start := time.Now()
	for file.State != genai.FileStateActive {
		if file.State == genai.FileStateFailed {
			return nil, fmt.Errorf("%w: %s", ErrProcessingFailed, file.Name)
		}
		if time.Since(start) >= a.cfg.PollTimeout {
			return nil, fmt.Errorf("%w after %s: %s", ErrProcessingTimeout, a.cfg.PollTimeout, file.Name)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(a.cfg.PollInterval):
		}

		current, err := a.files.GetFile(ctx, file.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to get file status: %w", err)
		}
		file = current

		if file.State != genai.FileStateActive && file.State != genai.FileStateFailed && a.OnWait != nil {
			a.OnWait(time.Since(start))
		}
	}
	return file, nil
}

// Conversation is an open chat with the model.
type Conversation struct {
	chat ChatSession
}

// Ask sends a follow-up question and returns the model's answer.
func (c *Conversation) Ask(ctx context.Context, prompt string) (string, error) {
	return c.send(ctx, genai.Text(prompt))
}

func (c *Conversation) send(ctx context.Context, parts ...genai.Part) (string, error) {
	resp, err := c.chat.SendMessage(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}
	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String()
}
