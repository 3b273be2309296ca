package mount

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/brettbedarf/webedit/config"
	"github.com/brettbedarf/webedit/internal/metrics"
	"github.com/brettbedarf/webedit/internal/util"
	"github.com/brettbedarf/webedit/workspace"
)

// Mount serves a read-only view of a workspace store.
type Mount struct {
	cfg     *config.Config
	tree    atomic.Pointer[Tree]
	sub     workspace.Subscription
	server  *fuse.Server
	metrics *metrics.Metrics
	gather  prometheus.Gatherer
	httpSrv *http.Server
}

// Option configures a Mount.
type Option func(*Mount)

// WithMetrics counts reads in m and, when the config names a MetricsAddr,
// serves g on /metrics while mounted.
func WithMetrics(m *metrics.Metrics, g prometheus.Gatherer) Option {
	return func(mnt *Mount) {
		mnt.metrics = m
		mnt.gather = g
	}
}

// New lays out store and follows its events until [Mount.Close]. It must
// be called on the goroutine that owns store.
func New(cfg *config.Config, store *workspace.Store, opts ...Option) *Mount {
	m := &Mount{cfg: cfg}
	for _, opt := range opts {
		opt(m)
	}
	m.tree.Store(Layout(store))
	m.sub = store.Events().SubscribeAll(func(workspace.Event) {
		m.tree.Store(Layout(store))
	})
	return m
}

// Tree returns the current layout. Safe from any goroutine.
func (m *Mount) Tree() *Tree {
	return m.tree.Load()
}

// Root returns the FUSE root node.
func (m *Mount) Root() *Node {
	return &Node{mnt: m}
}

func (m *Mount) recordRead(n int) {
	if m.metrics != nil {
		m.metrics.RecordMountRead(n)
	}
}

// Serve mounts the workspace at mountPoint and returns once the kernel has
// accepted the mount. Requests are served in the background until
// [Mount.Unmount].
func (m *Mount) Serve(mountPoint string) error {
	logger := util.GetLogger("Mount.Serve")

	if err := os.MkdirAll(mountPoint, 0o755); err != nil {
		return err
	}
	opts := m.cfg.MountOptions
	timeout := time.Second
	srv, err := fs.Mount(mountPoint, m.Root(), &fs.Options{
		MountOptions: fuse.MountOptions{
			Name:   opts.Name,
			FsName: opts.FsName,
			Debug:  opts.Debug || m.cfg.LogLvl == util.TraceLevel,
			Logger: util.NewLogLogger("FuseServer", util.DebugLevel),
		},
		EntryTimeout: &timeout,
		AttrTimeout:  &timeout,
		UID:          uint32(os.Getuid()),
		GID:          uint32(os.Getgid()),
	})
	if err != nil {
		return err
	}
	m.server = srv
	logger.Info().Str("mountpoint", mountPoint).Int("entries", m.Tree().Len()).Msg("Mounted workspace")

	m.serveMetrics()
	return nil
}

func (m *Mount) serveMetrics() {
	if m.cfg.MetricsAddr == "" || m.gather == nil {
		return
	}
	logger := util.GetLogger("Mount.serveMetrics")

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(m.gather))
	m.httpSrv = &http.Server{Addr: m.cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := m.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Str("addr", m.cfg.MetricsAddr).Msg("Metrics listener failed")
		}
	}()
	logger.Info().Str("addr", m.cfg.MetricsAddr).Msg("Serving metrics")
}

// Wait blocks until the file system is unmounted.
func (m *Mount) Wait() {
	if m.server != nil {
		m.server.Wait()
	}
}

// Unmount cleanly unmounts the filesystem and stops the metrics listener.
func (m *Mount) Unmount() error {
	var errs []error
	if m.httpSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		errs = append(errs, m.httpSrv.Shutdown(ctx))
		m.httpSrv = nil
	}
	if m.server != nil {
		errs = append(errs, m.server.Unmount())
		m.server = nil
	}
	return errors.Join(errs...)
}

// Close stops following the store.
func (m *Mount) Close() {
	m.sub.Cancel()
}
