// Package script hosts interpreted Go scripts that drive the boundary entry
// points against a live engine. Scripts see two injected packages:
// "vex/hosted" with the hosted object constructors, and "vex/boundary" with
// the entry points bound to the host's environment and store.
package script

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"go.uber.org/zap"

	"github.com/vexdb/vex/pkg/bridge"
	"github.com/vexdb/vex/pkg/core"
	"github.com/vexdb/vex/pkg/hosted"
)

// Host owns one interpreter session: an environment for the hosted frame, a
// store the boundary calls hit, and a session-scoped logger.
type Host struct {
	session string
	env     *hosted.RuntimeEnv
	store   *core.VectorStore
	logger  *zap.Logger
	interp  *interp.Interpreter

	// ctx is the context of the Run in progress; boundary wrappers forward
	// it into engine calls.
	ctx context.Context
}

// NewHost builds an interpreter with stdlib symbols plus the hosted and
// boundary packages. A nil logger disables logging.
func NewHost(store *core.VectorStore, logger *zap.Logger) (*Host, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Host{
		session: uuid.NewString(),
		env:     hosted.NewEnv(),
		store:   store,
		ctx:     context.Background(),
	}
	h.logger = logger.With(zap.String("session", h.session))

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("script: loading stdlib symbols: %w", err)
	}
	if err := i.Use(h.exports()); err != nil {
		return nil, fmt.Errorf("script: loading host symbols: %w", err)
	}
	h.interp = i
	return h, nil
}

// Session returns the session id carried on every log line.
func (h *Host) Session() string { return h.session }

// Run evaluates src and returns the value of its last expression, if any.
// A hosted exception thrown during a boundary call surfaces as the returned
// error, unwrappable to *hosted.Exception; all other script failures come
// back as plain evaluation errors.
func (h *Host) Run(ctx context.Context, src string) (any, error) {
	h.ctx = ctx
	h.logger.Debug("script start", zap.Int("bytes", len(src)))

	v, err := h.interp.EvalWithContext(ctx, src)
	if err != nil {
		var p interp.Panic
		if errors.As(err, &p) {
			if exc, ok := p.Value.(*hosted.Exception); ok {
				h.logger.Warn("script raised",
					zap.String("class", exc.Name),
					zap.String("message", exc.Message))
				return nil, exc
			}
		}
		h.logger.Warn("script failed", zap.Error(err))
		return nil, fmt.Errorf("script: %w", err)
	}

	h.logger.Debug("script done")
	if !v.IsValid() {
		return nil, nil
	}
	return v.Interface(), nil
}

// exports is the symbol table injected into the interpreter. Keys follow the
// importPath/packageName convention, so scripts write
//
//	import "vex/hosted"
//	import "vex/boundary"
func (h *Host) exports() interp.Exports {
	return interp.Exports{
		"vex/hosted/hosted": {
			"NewInteger":               reflect.ValueOf(hosted.NewInteger),
			"NewLong":                  reflect.ValueOf(hosted.NewLong),
			"NewBoolean":               reflect.ValueOf(hosted.NewBoolean),
			"NewString":                reflect.ValueOf(hosted.NewString),
			"NewStringBytes":           reflect.ValueOf(hosted.NewStringBytes),
			"NewFloatArray":            reflect.ValueOf(hosted.NewFloatArray),
			"NewArrayList":             reflect.ValueOf(hosted.NewArrayList),
			"OptionalOf":               reflect.ValueOf(hosted.OptionalOf),
			"OptionalEmpty":            reflect.ValueOf(hosted.OptionalEmpty),
			"NewDirectByteBuffer":      reflect.ValueOf(hosted.NewDirectByteBuffer),
			"AllocateDirect":           reflect.ValueOf(hosted.AllocateDirect),
			"NewQueryDescriptor":       reflect.ValueOf(hosted.NewQueryDescriptor),
			"NewIndexParamsDescriptor": reflect.ValueOf(hosted.NewIndexParamsDescriptor),

			"Ref":                   reflect.ValueOf((*hosted.Ref)(nil)),
			"Integer":               reflect.ValueOf((*hosted.Integer)(nil)),
			"Long":                  reflect.ValueOf((*hosted.Long)(nil)),
			"ArrayList":             reflect.ValueOf((*hosted.ArrayList)(nil)),
			"Optional":              reflect.ValueOf((*hosted.Optional)(nil)),
			"ByteBuffer":            reflect.ValueOf((*hosted.ByteBuffer)(nil)),
			"Exception":             reflect.ValueOf((*hosted.Exception)(nil)),
			"QueryDescriptor":       reflect.ValueOf((*hosted.QueryDescriptor)(nil)),
			"IndexParamsDescriptor": reflect.ValueOf((*hosted.IndexParamsDescriptor)(nil)),
		},
		"vex/boundary/boundary": {
			"ParseInts":            reflect.ValueOf(h.parseInts),
			"ParseLongs":           reflect.ValueOf(h.parseLongs),
			"ParseIntsOpt":         reflect.ValueOf(h.parseIntsOpt),
			"ParseQuery":           reflect.ValueOf(h.parseQuery),
			"ParseIndexParams":     reflect.ValueOf(h.parseIndexParams),
			"SearchWithQuery":      reflect.ValueOf(h.searchWithQuery),
			"BuildIndexWithParams": reflect.ValueOf(h.buildIndexWithParams),
		},
	}
}

// deliver moves a pending exception out of the environment and throws it
// into the interpreted frame. Scripts may recover it; unrecovered, it comes
// back from Run as the *hosted.Exception error.
func (h *Host) deliver() {
	exc := h.env.Pending()
	if exc == nil {
		return
	}
	h.env.ClearPending()
	panic(exc)
}

func (h *Host) parseInts(list *hosted.ArrayList) {
	bridge.ParseInts(h.env, list)
	h.deliver()
}

func (h *Host) parseLongs(list *hosted.ArrayList) {
	bridge.ParseLongs(h.env, list)
	h.deliver()
}

func (h *Host) parseIntsOpt(opt *hosted.Optional) {
	bridge.ParseIntsOpt(h.env, opt)
	h.deliver()
}

func (h *Host) parseQuery(opt *hosted.Optional) {
	bridge.ParseQuery(h.env, opt)
	h.deliver()
}

func (h *Host) parseIndexParams(p *hosted.IndexParamsDescriptor) {
	bridge.ParseIndexParams(h.env, p)
	h.deliver()
}

func (h *Host) searchWithQuery(opt *hosted.Optional) int32 {
	n := bridge.SearchWithQuery(h.ctx, h.env, h.store, opt)
	h.deliver()
	return n
}

func (h *Host) buildIndexWithParams(p *hosted.IndexParamsDescriptor) {
	bridge.BuildIndexWithParams(h.ctx, h.env, h.store, p)
	h.deliver()
}
