// Package adbundle turns GMV MAX report workbooks into data bundles.
package adbundle

import (
	"fmt"

	"github.com/ukaji3/adbundle-go/pkg/adbundle/parser"
	"go.uber.org/zap"
)

// Mode represents the extraction mode.
type Mode string

const (
	// ModeLight extracts the target sheets only (no account summary).
	ModeLight Mode = "light"
	// ModeStandard extracts the target sheets and the per-account summary of the creative sheet.
	ModeStandard Mode = "standard"
)

// DefaultSummaryAlias is the bundle key of the per-account summary.
const DefaultSummaryAlias = "[特别计算]各账号汇总数据"

// Options configures extraction behavior.
type Options struct {
	// Mode specifies the extraction mode (light, standard).
	Mode Mode
	// Markers are tried against every sheet name in declaration order.
	Markers []parser.SheetMarker
	// Keywords drive column resolution on the creative sheet.
	Keywords parser.FieldKeywords
	// SummaryAlias is the bundle key of the account summary.
	SummaryAlias string
	// IncludeVideoCounts specifies whether to count distinct videos per account.
	// If nil, defaults to true whenever the summary is built.
	IncludeVideoCounts *bool
	// Table configures header row detection.
	Table parser.TableDetectionParams
	// Logger receives extraction diagnostics. Nil disables logging.
	Logger *zap.Logger
}

// DefaultMarkers returns the sheet markers of the GMV MAX periodic report.
func DefaultMarkers() []parser.SheetMarker {
	return []parser.SheetMarker{
		{Marker: "分时段数据", Alias: "分时段表现"},
		{Marker: "商品-gmv max", Alias: "商品GMV明细"},
		{Marker: "素材-gmv max", Alias: "素材GMV明细", Creative: true},
	}
}

// DefaultKeywords returns the column keywords of the GMV MAX creative sheet.
func DefaultKeywords() parser.FieldKeywords {
	return parser.FieldKeywords{
		Account: []string{"账号", "发布账号", "Account", "达人"},
		Cost:    []string{"消耗", "花费", "Cost"},
		Revenue: []string{"GMV", "gmv", "支付GMV", "收入", "成交"},
		VideoID: []string{"Video ID", "VideoId", "视频ID", "素材ID", "Video"},
	}
}

// DefaultOptions returns default extraction options.
func DefaultOptions() Options {
	return Options{
		Mode:         ModeStandard,
		Markers:      DefaultMarkers(),
		Keywords:     DefaultKeywords(),
		SummaryAlias: DefaultSummaryAlias,
		Table:        parser.DefaultTableParams(),
	}
}

// ShouldAggregate returns whether to build the account summary.
func (o Options) ShouldAggregate() bool {
	return o.Mode != ModeLight
}

// ShouldIncludeVideoCounts returns whether to count distinct videos per account.
func (o Options) ShouldIncludeVideoCounts() bool {
	if o.IncludeVideoCounts != nil {
		return *o.IncludeVideoCounts
	}
	return o.ShouldAggregate()
}

// Validate checks that the options describe at least one sheet and that
// the summary alias does not shadow a sheet alias.
func (o Options) Validate() error {
	switch o.Mode {
	case ModeLight, ModeStandard:
	default:
		return fmt.Errorf("%w: invalid mode %q (must be light or standard)", ErrInvalidOptions, o.Mode)
	}
	if len(o.Markers) == 0 {
		return fmt.Errorf("%w: no sheet markers", ErrInvalidOptions)
	}
	for i, m := range o.Markers {
		if m.Marker == "" || m.Alias == "" {
			return fmt.Errorf("%w: sheet marker %d needs both marker and alias", ErrInvalidOptions, i)
		}
		if o.ShouldAggregate() && m.Alias == o.SummaryAlias {
			return fmt.Errorf("%w: alias %q is also the summary alias", ErrInvalidOptions, m.Alias)
		}
	}
	if o.ShouldAggregate() && o.SummaryAlias == "" {
		return fmt.Errorf("%w: empty summary alias", ErrInvalidOptions)
	}
	return nil
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o Options) tableParams() parser.TableDetectionParams {
	if o.Table.MinHeaderCells <= 0 {
		return parser.DefaultTableParams()
	}
	return o.Table
}
