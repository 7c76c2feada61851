package loader

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-viewer/engine/async"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.Mutex

	baseDir     string
	httpTimeout time.Duration
	workers     int
	source      Source
	backend     ModelBackend

	pool   worker.DynamicWorkerPool
	taskID atomic.Int64

	fetchCache map[string]*async.Future[[]byte]
	envCache   map[string]*async.Future[*EnvironmentMap]
}

// Loader fetches and decodes assets off the caller's goroutine.
// Each load runs as a task on a worker pool and is delivered through an async.Future;
// the Loader itself never touches the scene. Model bytes are cached by source, so asking
// for the same source twice fetches once, but every LoadModel call decodes its own
// fragment; two callers never share a node. Environment maps are read-only and their
// futures are shared per source.
type Loader interface {
	// LoadModel starts loading a model fragment.
	// Fetch and decode failures settle the future with a *LoadError.
	//
	// Parameters:
	//   - desc: a KindModel descriptor
	//
	// Returns:
	//   - *async.Future[model.Node]: settles with the fragment root
	//   - error: ErrMalformedDescriptor for an empty source, a non-model kind or an unsupported format
	LoadModel(desc AssetDescriptor) (*async.Future[model.Node], error)

	// LoadEnvironment starts loading an environment map.
	// Fetch and decode failures settle the future with an *EnvironmentLoadError.
	//
	// Parameters:
	//   - desc: a KindEnvironmentMap descriptor
	//
	// Returns:
	//   - *async.Future[*EnvironmentMap]: settles with the decoded map
	//   - error: ErrMalformedDescriptor for an empty source or a non-environment kind
	LoadEnvironment(desc AssetDescriptor) (*async.Future[*EnvironmentMap], error)
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the glTF backend, the file/HTTP source and the
// provided options applied.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided options
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		baseDir:     ".",
		httpTimeout: DefaultHTTPTimeout,
		workers:     max(runtime.NumCPU()-1, 2),
		backend:     NewGLTFBackend(),
		fetchCache:  make(map[string]*async.Future[[]byte]),
		envCache:    make(map[string]*async.Future[*EnvironmentMap]),
	}

	for _, option := range options {
		option(l)
	}

	if l.source == nil {
		l.source = newDefaultSource(l.baseDir, &http.Client{Timeout: l.httpTimeout})
	}
	l.pool = worker.NewDynamicWorkerPool(l.workers, 64, 1*time.Second)
	return l
}

func (l *loader) LoadModel(desc AssetDescriptor) (*async.Future[model.Node], error) {
	if desc.Source == "" || desc.Kind != KindModel {
		return nil, fmt.Errorf("%s: %w", desc, ErrMalformedDescriptor)
	}
	if !l.backend.Supports(desc.Source) {
		return nil, fmt.Errorf("%s: unsupported model format %q: %w", desc, extension(desc.Source), ErrMalformedDescriptor)
	}

	data := l.fetch(desc.Source)
	f, p := async.NewPromise[model.Node]()
	go func() {
		<-data.Done()
		l.submit(func() {
			raw, _, err := data.Result()
			if err != nil {
				p.Reject(&LoadError{Descriptor: desc, Cause: err})
				return
			}
			root, err := l.backend.Decode(desc.Name(), raw)
			if err != nil {
				p.Reject(&LoadError{Descriptor: desc, Cause: fmt.Errorf("decode: %w", err)})
				return
			}
			p.Resolve(root)
		}, func(r any) {
			p.Reject(&LoadError{Descriptor: desc, Cause: fmt.Errorf("panic: %v", r)})
		})
	}()
	return f, nil
}

// fetch returns the shared fetch of source, starting it on the pool the first time.
// The bytes are never modified after the fetch settles.
func (l *loader) fetch(source string) *async.Future[[]byte] {
	l.mu.Lock()
	defer l.mu.Unlock()
	if f, ok := l.fetchCache[source]; ok {
		return f
	}
	f, p := async.NewPromise[[]byte]()
	l.fetchCache[source] = f
	l.submit(func() {
		data, err := l.source(context.Background(), source)
		if err != nil {
			p.Reject(err)
			return
		}
		p.Resolve(data)
	}, func(r any) {
		p.Reject(fmt.Errorf("panic: %v", r))
	})
	return f
}

func (l *loader) LoadEnvironment(desc AssetDescriptor) (*async.Future[*EnvironmentMap], error) {
	if desc.Source == "" || desc.Kind != KindEnvironmentMap {
		return nil, fmt.Errorf("%s: %w", desc, ErrMalformedDescriptor)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if f, ok := l.envCache[desc.Source]; ok {
		return f, nil
	}

	f, p := async.NewPromise[*EnvironmentMap]()
	l.envCache[desc.Source] = f
	l.submit(func() {
		data, err := l.source(context.Background(), desc.Source)
		if err != nil {
			p.Reject(&EnvironmentLoadError{Descriptor: desc, Cause: err})
			return
		}
		env, err := parseRadiance(desc.Source, data)
		if err != nil {
			p.Reject(&EnvironmentLoadError{Descriptor: desc, Cause: fmt.Errorf("decode: %w", err)})
			return
		}
		p.Resolve(env)
	}, func(r any) {
		p.Reject(&EnvironmentLoadError{Descriptor: desc, Cause: fmt.Errorf("panic: %v", r)})
	})
	return f, nil
}

// submit runs fn on the worker pool. A panic in fn is handed to onPanic so the
// load's future still settles.
func (l *loader) submit(fn func(), onPanic func(any)) {
	id := int(l.taskID.Add(1))
	l.pool.SubmitTask(worker.Task{
		ID: id,
		Do: func() (any, error) {
			defer func() {
				if r := recover(); r != nil {
					onPanic(r)
				}
			}()
			fn()
			return nil, nil
		},
	})
}
