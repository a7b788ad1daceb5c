// Package workload loads and runs the user-edited workshop script. The script
// is plain JavaScript executed with goja and has to define the workload
// (doWork) and the matching strategy (compareResults) used to verify the
// candidate implementation against the reference.
package workload

import (
	"fmt"

	"github.com/dop251/goja"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Names of the hooks looked up in the workshop script.
const (
	doWorkFunc      = "doWork"
	compareFunc     = "compareResults"
	printResultFunc = "printResult"
)

// Caller invokes an implementation with the positional arguments the workshop
// script passed to it, and returns the result as a plain Go value.
type Caller func(args ...interface{}) (interface{}, error)

// Script is a loaded workshop script: a single goja runtime holding the user
// hooks. It is not safe for concurrent use, but the whole pipeline is
// sequential anyway.
type Script struct {
	Path string

	rt      *goja.Runtime
	doWork  goja.Callable
	compare goja.Callable
	print   goja.Callable // optional
	logger  logrus.FieldLogger
}

// Load reads the workshop script at path from the given filesystem and
// executes it. doWork and compareResults must be defined; printResult is
// optional.
func Load(fs afero.Fs, path string, logger logrus.FieldLogger) (*Script, error) {
	src, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}

	prog, err := goja.Compile(path, string(src), true)
	if err != nil {
		return nil, wrapJSError(err)
	}

	rt := goja.New()
	bindConsole(rt, logger)

	if _, err := rt.RunProgram(prog); err != nil {
		return nil, wrapJSError(err)
	}

	s := &Script{Path: path, rt: rt, logger: logger}
	if s.doWork, err = getCallable(rt, path, doWorkFunc); err != nil {
		return nil, err
	}
	if s.compare, err = getCallable(rt, path, compareFunc); err != nil {
		return nil, err
	}
	if pr, ok := goja.AssertFunction(rt.Get(printResultFunc)); ok {
		s.print = pr
	}
	return s, nil
}

func getCallable(rt *goja.Runtime, path, name string) (goja.Callable, error) {
	fn, ok := goja.AssertFunction(rt.Get(name))
	if !ok {
		return nil, fmt.Errorf("'%s' does not define a %s() function", path, name)
	}
	return fn, nil
}

// FuncCaller returns a Caller that invokes the named function defined in the
// workshop script itself, for implementations declared with 'func' in the
// manifest.
func (s *Script) FuncCaller(name string) (Caller, error) {
	fn, ok := goja.AssertFunction(s.rt.Get(name))
	if !ok {
		return nil, fmt.Errorf("'%s' does not define a function '%s'", s.Path, name)
	}
	return func(args ...interface{}) (interface{}, error) {
		vals := make([]goja.Value, len(args))
		for i, a := range args {
			vals[i] = s.rt.ToValue(a)
		}
		v, err := fn(goja.Undefined(), vals...)
		if err != nil {
			return nil, wrapJSError(err)
		}
		return v.Export(), nil
	}, nil
}

// DoWork runs the script's doWork hook once, handing it a callable that
// proxies to the given implementation. Errors returned by the implementation
// are thrown inside the script, so user code can catch and inspect them.
func (s *Script) DoWork(call Caller) (goja.Value, error) {
	var callErr error
	var thrown goja.Value
	impl := s.rt.ToValue(func(fc goja.FunctionCall) goja.Value {
		args := make([]interface{}, len(fc.Arguments))
		for i, a := range fc.Arguments {
			args[i] = a.Export()
		}
		res, err := call(args...)
		if err != nil {
			callErr = err
			thrown = s.rt.NewGoError(err)
			panic(thrown)
		}
		return s.rt.ToValue(res)
	})

	v, err := s.doWork(goja.Undefined(), impl)
	if err != nil {
		// Prefer the implementation's own error over its JS-wrapped form,
		// but only when that is what actually escaped the script. A script
		// that catches it and throws something else keeps its own message.
		if ex, ok := err.(*goja.Exception); ok && callErr != nil && ex.Value() == thrown {
			return nil, callErr
		}
		return nil, wrapJSError(err)
	}
	return v, nil
}

// Compare runs the script's compareResults hook over two results.
func (s *Script) Compare(a, b goja.Value) (bool, error) {
	v, err := s.compare(goja.Undefined(), a, b)
	if err != nil {
		return false, wrapJSError(err)
	}
	return v.ToBoolean(), nil
}

// PrintResult renders a result for display, through the script's printResult
// hook if one is defined.
func (s *Script) PrintResult(r goja.Value) string {
	if s.print == nil {
		return r.String()
	}
	v, err := s.print(goja.Undefined(), r)
	if err != nil {
		s.logger.WithError(wrapJSError(err)).Warn("printResult() failed, falling back to the raw value")
		return r.String()
	}
	return v.String()
}

// bindConsole exposes a minimal console object, so workshop scripts can debug
// through the regular logger.
func bindConsole(rt *goja.Runtime, logger logrus.FieldLogger) {
	logWith := func(log func(args ...interface{})) func(goja.FunctionCall) goja.Value {
		return func(fc goja.FunctionCall) goja.Value {
			parts := make([]interface{}, len(fc.Arguments))
			for i, a := range fc.Arguments {
				parts[i] = a.String()
			}
			log(parts...)
			return goja.Undefined()
		}
	}

	console := rt.NewObject()
	mustSet := func(name string, log func(args ...interface{})) {
		if err := console.Set(name, logWith(log)); err != nil {
			panic(err)
		}
	}
	mustSet("log", logger.Info)
	mustSet("info", logger.Info)
	mustSet("debug", logger.Debug)
	mustSet("warn", logger.Warn)
	mustSet("error", logger.Error)
	if err := rt.Set("console", console); err != nil {
		panic(err)
	}
}
