package config

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/philipp01105/hlog/appender"
	"github.com/philipp01105/hlog/appender/asyncappender"
	"github.com/philipp01105/hlog/appender/consoleappender"
	"github.com/philipp01105/hlog/appender/fileappender"
	"github.com/philipp01105/hlog/appender/zapappender"
	"github.com/philipp01105/hlog/core"
	"github.com/philipp01105/hlog/formatter"
	"github.com/philipp01105/hlog/logger"
)

type thresholder interface {
	SetThreshold(core.Level)
}

// Configure replaces the configuration of h with cfg. The appenders
// that the root and the configured loggers reach, directly or through
// composites, are built first; if any fails nothing in h changes.
// Appenders defined but never referenced are not built. The hierarchy is then
// reset and reconfigured under its structural lock, and the appenders
// that were attached before are flushed and closed once the lock is
// released.
func Configure(h *logger.Hierarchy, cfg *Config) error {
	if h.IsClosed() {
		return logger.ErrHierarchyClosed
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	built, err := buildAppenders(cfg, referenced(cfg), h.Reporter().Error)
	if err != nil {
		return err
	}

	var old []appender.Appender
	err = h.WithLock(func(l *logger.Locker) error {
		old = attached(h)
		l.ResetConfiguration()
		return apply(l, cfg, built)
	})
	if err != nil {
		old = append(old, values(built)...)
	}

	if len(old) > 0 {
		errs := appender.FlushAll(old)
		cs := appender.NewCloseSet()
		cs.CloseAll(old)
		errs = multierr.Append(errs, cs.Err())
		for _, e := range multierr.Errors(errs) {
			h.Reporter().Error("closing replaced appender", e)
		}
	}
	return err
}

// referenced returns the appender names attached to the root or to a
// configured logger, in configuration order.
func referenced(cfg *Config) []string {
	seen := make(map[string]bool)
	var names []string
	add := func(list []string) {
		for _, n := range list {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	add(cfg.Root.Appenders)
	for _, name := range sortedKeys(cfg.Loggers) {
		add(cfg.Loggers[name].Appenders)
	}
	return names
}

func values(m map[string]appender.Appender) []appender.Appender {
	out := make([]appender.Appender, 0, len(m))
	for _, a := range m {
		out = append(out, a)
	}
	return out
}

// attached returns the appenders attached to any logger of h.
func attached(h *logger.Hierarchy) []appender.Appender {
	all := h.Root().GetAllAppenders()
	for _, lg := range h.CurrentLoggers() {
		all = append(all, lg.GetAllAppenders()...)
	}
	return all
}

func apply(l *logger.Locker, cfg *Config, built map[string]appender.Appender) error {
	h := l.Hierarchy()

	root := h.Root()
	if cfg.Root.Level != "" {
		lvl, _ := core.LevelFromString(cfg.Root.Level)
		l.SetLogLevel(root, lvl)
	}
	for _, name := range cfg.Root.Appenders {
		l.AddAppender(root, built[name])
	}

	for _, name := range sortedKeys(cfg.Loggers) {
		lc := cfg.Loggers[name]
		lg := l.GetInstance(name)
		if !lg.Valid() {
			return logger.ErrHierarchyClosed
		}
		if lc.Level != "" {
			lvl, _ := core.LevelFromString(lc.Level)
			l.SetLogLevel(lg, lvl)
		}
		if lc.Additivity != nil {
			l.SetAdditivity(lg, *lc.Additivity)
		}
		for _, an := range lc.Appenders {
			l.AddAppender(lg, built[an])
		}
	}

	if cfg.Disable != "" {
		lvl, _ := core.LevelFromString(cfg.Disable)
		h.Disable(lvl)
	}
	return nil
}

// BuildAppenders constructs every appender defined in cfg, keyed by
// name. Composites receive the instances of the appenders they name, so
// an appender referenced twice is shared. onError receives errors that
// async appenders hit on their worker goroutines; it may be nil. On
// failure the appenders built so far are closed.
func BuildAppenders(cfg *Config, onError func(msg string, err error, fields ...zap.Field)) (map[string]appender.Appender, error) {
	return buildAppenders(cfg, sortedKeys(cfg.Appenders), onError)
}

// buildAppenders builds names and the appenders they forward to.
func buildAppenders(cfg *Config, names []string, onError func(msg string, err error, fields ...zap.Field)) (map[string]appender.Appender, error) {
	b := &builder{
		cfg:     cfg,
		onError: onError,
		built:   make(map[string]appender.Appender, len(names)),
	}
	for _, name := range names {
		if _, err := b.build(name, nil); err != nil {
			cs := appender.NewCloseSet()
			cs.CloseAll(values(b.built))
			return nil, err
		}
	}
	return b.built, nil
}

type builder struct {
	cfg     *Config
	onError func(msg string, err error, fields ...zap.Field)
	built   map[string]appender.Appender
}

func (b *builder) build(name string, path []string) (appender.Appender, error) {
	if a, ok := b.built[name]; ok {
		return a, nil
	}
	for _, p := range path {
		if p == name {
			return nil, fmt.Errorf("appenders: cycle through %q", name)
		}
	}
	ac, ok := b.cfg.Appenders[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownAppender, name)
	}

	children := make([]appender.Appender, 0, len(ac.Appenders))
	for _, child := range ac.Appenders {
		a, err := b.build(child, append(path, name))
		if err != nil {
			return nil, err
		}
		children = append(children, a)
	}

	a, err := b.construct(name, ac, children)
	if err != nil {
		return nil, fmt.Errorf("appender %q: %w", name, err)
	}
	if ac.Threshold != "" {
		if t, ok := a.(thresholder); ok {
			lvl, _ := core.LevelFromString(ac.Threshold)
			t.SetThreshold(lvl)
		}
	}
	b.built[name] = a
	return a, nil
}

func (b *builder) construct(name string, ac AppenderConfig, children []appender.Appender) (appender.Appender, error) {
	switch strings.ToLower(ac.Type) {
	case TypeConsole:
		f, err := newFormatter(ac)
		if err != nil {
			return nil, err
		}
		target, err := consoleappender.ParseTarget(ac.Target)
		if err != nil {
			return nil, err
		}
		return consoleappender.New(consoleappender.Config{
			Name:      name,
			Target:    target,
			Formatter: f,
		}), nil

	case TypeFile:
		f, err := newFormatter(ac)
		if err != nil {
			return nil, err
		}
		a, err := fileappender.New(fileappender.Config{
			Name:       name,
			Filename:   ac.Filename,
			Formatter:  f,
			MaxSizeMB:  ac.MaxSizeMB,
			MaxBackups: ac.MaxBackups,
			MaxAgeDays: ac.MaxAgeDays,
			Compress:   ac.Compress,
			BufferSize: ac.BufferSize,
		})
		if err != nil {
			return nil, err
		}
		return a, nil

	case TypeAsync:
		acfg := asyncappender.Config{
			Name:         name,
			BufferSize:   ac.BufferSize,
			BlockTimeout: ac.BlockTimeout,
			DrainTimeout: ac.DrainTimeout,
		}
		if ac.Overflow != "" {
			p, ok := appender.ParseOverflowPolicy(ac.Overflow)
			if !ok {
				return nil, fmt.Errorf("unknown overflow policy %q", ac.Overflow)
			}
			acfg.OverflowPolicy = uniformPolicy(p)
		}
		if b.onError != nil {
			report := b.onError
			acfg.OnError = func(err error) {
				report("async appender failed", err, zap.String("appender", name))
			}
		}
		return asyncappender.New(acfg, children...), nil

	case TypeMulti:
		return appender.NewMulti(name, children...), nil

	case TypeZap:
		a, err := zapappender.NewFromConfig(zapappender.Config{
			Name:     name,
			Encoding: ac.Encoding,
			Output:   ac.Output,
		})
		if err != nil {
			return nil, err
		}
		return a, nil

	case TypeNull, TypeDiscard:
		return appender.NewNull(name), nil

	default:
		return nil, fmt.Errorf("unknown type %q", ac.Type)
	}
}

func newFormatter(ac AppenderConfig) (formatter.Formatter, error) {
	return formatter.New(ac.Format, formatter.Config{
		IncludeCaller:    ac.IncludeCaller,
		IncludeGoroutine: ac.IncludeGoroutine,
		TimestampFormat:  ac.TimestampFormat,
	})
}

func uniformPolicy(p appender.OverflowPolicy) map[core.Level]appender.OverflowPolicy {
	m := make(map[core.Level]appender.OverflowPolicy, 6)
	for l := core.TraceLevel; l <= core.FatalLevel; l++ {
		m[l] = p
	}
	return m
}
