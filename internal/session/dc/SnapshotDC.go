package dc

import (
	"context"
	"sync"
	"time"

	"Skirmish/internal/session/app/port"
	"Skirmish/internal/session/entity"
	"Skirmish/modules/kit/errx"
	"Skirmish/modules/kit/logx"

	"go.uber.org/zap"
)

const retryBackoff = 200 * time.Millisecond

var ErrRepositoryNil = errx.NewSys("SNAPSHOT_REPO_NIL", "snapshot repository is nil")

// SnapshotDC 是会话快照的写回缓存：Flush 在会话 goroutine 里生成记录，
// 后台 writer 只保留最新版本并写库。
type SnapshotDC struct {
	repo       port.SnapshotRepository
	session    *entity.Session
	flushEvery time.Duration
	log        logx.Logger
	now        func() time.Time

	mu      sync.Mutex
	pending *entity.Record
	version uint64
	closed  bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func NewSnapshotDC(repo port.SnapshotRepository, flushEvery time.Duration, log logx.Logger) *SnapshotDC {
	if flushEvery <= 0 {
		flushEvery = time.Second
	}
	if log == nil {
		log = logx.Nop()
	}
	d := &SnapshotDC{
		repo:       repo,
		flushEvery: flushEvery,
		log:        log,
		now:        time.Now,
		wake:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	go d.writerLoop()
	return d
}

// Load 读取已保存的记录并接着它的版本号递增；没有记录时返回 nil。
func (d *SnapshotDC) Load(ctx context.Context, id entity.ID) (*entity.Record, error) {
	if d.repo == nil {
		return nil, ErrRepositoryNil
	}
	rec, err := d.repo.Load(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	d.mu.Lock()
	if rec.Version > d.version {
		d.version = rec.Version
	}
	d.mu.Unlock()
	return rec, nil
}

// Attach 绑定要回写的会话。
func (d *SnapshotDC) Attach(s *entity.Session) {
	d.session = s
}

func (d *SnapshotDC) Session() *entity.Session {
	return d.session
}

func (d *SnapshotDC) FlushEvery() time.Duration {
	return d.flushEvery
}

func (d *SnapshotDC) IsDirty() bool {
	return d.session != nil && d.session.Dirty()
}

func (d *SnapshotDC) Version() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.version
}

// Flush 只在会话有变化时生成新版本记录并交给 writer。
func (d *SnapshotDC) Flush(ctx context.Context) error {
	if !d.IsDirty() {
		return nil
	}
	if d.repo == nil {
		return ErrRepositoryNil
	}
	d.mu.Lock()
	d.version++
	version := d.version
	d.mu.Unlock()

	rec := d.session.BuildRecord(version, d.now())
	d.session.ClearDirty()
	d.enqueueLatest(rec)
	return nil
}

// Close 先做最后一次 Flush，再等 writer 把积压写完。
// Flush 失败时 writer 照样停下，错误返回给调用方。
func (d *SnapshotDC) Close(ctx context.Context) error {
	flushErr := d.Flush(ctx)

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.stop)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return flushErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *SnapshotDC) enqueueLatest(rec *entity.Record) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.keepNewer(rec)
	d.mu.Unlock()
	d.signal()
}

func (d *SnapshotDC) requeueOnError(rec *entity.Record) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.keepNewer(rec)
	d.mu.Unlock()
	d.signal()
}

// keepNewer 调用方持有 mu。
func (d *SnapshotDC) keepNewer(rec *entity.Record) {
	if d.pending == nil || d.pending.Version < rec.Version {
		d.pending = rec
	}
}

func (d *SnapshotDC) signal() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *SnapshotDC) popPending() *entity.Record {
	d.mu.Lock()
	defer d.mu.Unlock()
	rec := d.pending
	d.pending = nil
	return rec
}

func (d *SnapshotDC) writerLoop() {
	defer close(d.done)
	for {
		select {
		case <-d.wake:
			d.consumePending()
		case <-d.stop:
			d.consumePending()
			return
		}
	}
}

func (d *SnapshotDC) consumePending() {
	for {
		rec := d.popPending()
		if rec == nil {
			return
		}
		if err := d.repo.Save(context.Background(), rec); err != nil {
			logx.ReportSysError(context.Background(), d.log, logx.NewSysLog("snapshot.save", err),
				zap.String("session_id", rec.SessionID), zap.Uint64("version", rec.Version))
			// 已关闭时 requeue 直接丢弃，避免退出卡死。
			d.requeueOnError(rec)
			time.Sleep(retryBackoff)
			continue
		}
	}
}
