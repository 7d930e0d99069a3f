package clformat

import (
	"fmt"
	"io"

	"github.com/benjaminschreck/go-clformat/pkg/clformat/value"
	"golang.org/x/text/language"
)

// FormatConfig carries the rendering settings of a single Execute call.
// Zero values fall back to the engine configuration.
type FormatConfig struct {
	Locale    language.Tag
	TabSize   int
	LineWidth int
}

// Engine compiles and executes control strings. Compiled controls are
// cached per engine. An Engine is safe for concurrent use.
type Engine struct {
	config   *Config
	cache    *ControlCache
	registry *Registry
	logger   *Logger
}

// New creates an engine with the global configuration and the standard
// registry.
func New() *Engine {
	return NewWithConfig(GetGlobalConfig())
}

// NewWithConfig creates an engine with a custom configuration.
func NewWithConfig(config *Config) *Engine {
	config = NewConfigWithDefaults(config)
	return &Engine{
		config: config,
		cache: NewControlCacheWithConfig(CacheConfig{
			MaxSize: config.CacheMaxSize,
			TTL:     config.CacheTTL,
		}),
		registry: StandardRegistry(),
	}
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig replaces the engine configuration. It should come before the
// other options because it also resizes the cache.
func WithConfig(config *Config) Option {
	return func(e *Engine) {
		e.config = NewConfigWithDefaults(config)
		e.cache = NewControlCacheWithConfig(CacheConfig{MaxSize: e.config.CacheMaxSize, TTL: e.config.CacheTTL})
	}
}

// WithRegistry sets the directive registry.
func WithRegistry(registry *Registry) Option {
	return func(e *Engine) {
		if registry != nil {
			e.registry = registry
		}
	}
}

// WithCacheSize sets the capacity of the compiled-control cache.
func WithCacheSize(size int) Option {
	return func(e *Engine) {
		e.config.CacheMaxSize = size
		e.cache = NewControlCacheWithConfig(CacheConfig{MaxSize: size, TTL: e.config.CacheTTL})
	}
}

// WithLogger sets the logger. Without it the global logger is used.
func WithLogger(logger *Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithLocale sets the default locale.
func WithLocale(tag language.Tag) Option {
	return func(e *Engine) { e.config.Locale = tag.String() }
}

func WithTabSize(n int) Option {
	return func(e *Engine) { e.config.TabSize = n }
}

func WithLineWidth(n int) Option {
	return func(e *Engine) { e.config.LineWidth = n }
}

func WithMaxDepth(n int) Option {
	return func(e *Engine) { e.config.MaxDepth = n }
}

// NewWithOptions creates an engine from the global configuration and
// applies opts in order.
func NewWithOptions(opts ...Option) *Engine {
	e := New()
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) log() *Logger {
	if e.logger != nil {
		return e.logger
	}
	return GetLogger()
}

// Registry returns the directive registry of the engine.
func (e *Engine) Registry() *Registry { return e.registry }

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	c := *e.config
	return &c
}

// ClearCache drops all compiled controls.
func (e *Engine) ClearCache() { e.cache.Clear() }

// CacheSize returns the number of cached controls.
func (e *Engine) CacheSize() int { return e.cache.Size() }

// Compile parses control, using the cache when possible.
func (e *Engine) Compile(control string) (*Control, error) {
	if ctl, ok := e.cache.Get(control); ok {
		e.log().WithField("length", len(control)).Debug("control cache hit")
		return ctl, nil
	}
	e.log().WithField("length", len(control)).Debug("control cache miss")

	ctl, err := ParseWithDepth(control, e.registry, e.config.MaxDepth)
	if err != nil {
		e.log().WithFields(Fields{"kind": errorKind(err), "control": control}).Debug("compile failed")
		return nil, WithContext(err, "compile", map[string]any{"control": control})
	}
	e.log().WithFields(Fields{"length": len(control), "components": ctl.Len()}).Debug("compiled control")
	e.cache.Set(control, ctl)
	return ctl, nil
}

// Execute compiles control and applies it to args with the settings of cfg.
func (e *Engine) Execute(control string, cfg FormatConfig, args []value.Value) (string, error) {
	ctl, err := e.Compile(control)
	if err != nil {
		return "", err
	}

	locale := cfg.Locale
	if locale == language.Und {
		locale = e.config.LocaleTag()
	}
	tabSize := cfg.TabSize
	if tabSize <= 0 {
		tabSize = e.config.TabSize
	}
	lineWidth := cfg.LineWidth
	if lineWidth <= 0 {
		lineWidth = e.config.LineWidth
	}

	e.log().WithField("arguments", len(args)).Debug("executing control")
	cursor := NewArguments(args, ArgLocale(locale), ArgTabSize(tabSize), ArgLineWidth(lineWidth))
	res, err := ctl.Execute(cursor, NewContext(e.registry, e.config.MaxDepth))
	if err != nil {
		e.log().WithFields(Fields{"kind": errorKind(err), "control": control}).Debug("execution failed")
		return "", WithContext(err, "format", map[string]any{"control": control})
	}
	return res.Text, nil
}

// FormatValues formats args with the engine defaults.
func (e *Engine) FormatValues(control string, args []value.Value) (string, error) {
	return e.Execute(control, FormatConfig{}, args)
}

// Format converts args with value.Of and formats them.
func (e *Engine) Format(control string, args ...any) (string, error) {
	return e.FormatValues(control, value.Values(args...))
}

// Fprintf formats args and writes the result to w.
func (e *Engine) Fprintf(w io.Writer, control string, args ...any) (int, error) {
	s, err := e.Format(control, args...)
	if err != nil {
		return 0, err
	}
	return io.WriteString(w, s)
}

// DefaultEngine is used by the package-level functions.
var DefaultEngine = New()

// Execute applies control to args using DefaultEngine.
func Execute(control string, cfg FormatConfig, args []value.Value) (string, error) {
	return DefaultEngine.Execute(control, cfg, args)
}

// Format formats args using DefaultEngine.
func Format(control string, args ...any) (string, error) {
	return DefaultEngine.Format(control, args...)
}

// Fprintf formats args using DefaultEngine and writes the result to w.
func Fprintf(w io.Writer, control string, args ...any) (int, error) {
	return DefaultEngine.Fprintf(w, control, args...)
}

// Compile parses control using DefaultEngine.
func Compile(control string) (*Control, error) {
	return DefaultEngine.Compile(control)
}

// MustCompile is like Compile but panics on error.
func MustCompile(control string) *Control {
	ctl, err := Compile(control)
	if err != nil {
		panic(fmt.Sprintf("clformat: Compile(%q): %v", control, err))
	}
	return ctl
}
