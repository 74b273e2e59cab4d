package actors

import (
	"context"
	"time"

	"Skirmish/internal/game/event"
	"Skirmish/internal/game/gameplay"
	"Skirmish/internal/game/world"
	"Skirmish/internal/session/dc"
	"Skirmish/internal/session/entity"
	"Skirmish/internal/shared/actor/messages"
	"Skirmish/modules/kit/logx"
	"Skirmish/modules/kit/tracex"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

type State int

const (
	None State = iota
	Init
	Online
	Offline
	Stopping
)

const (
	defaultMapSize = 64
	closeTimeout   = 3 * time.Second
)

// SessionActor 独占一局对战；tick、命令和快照都在它的邮箱里串行执行。
type SessionActor struct {
	state       State
	id          entity.ID
	deps        *Deps
	log         logx.Logger
	dc          *dc.SnapshotDC
	session     *entity.Session
	dispatcher  *Dispatcher
	subscribers []messages.Subscriber

	tickStop  chan struct{}
	flushStop chan struct{}
}

type tickMsg struct{}

func (tickMsg) NotInfluenceReceiveTimeout() {}

type flushTick struct{}

func (flushTick) NotInfluenceReceiveTimeout() {}

func NewSessionActor(id entity.ID, deps *Deps) *SessionActor {
	log := deps.logger().WithContext(tracex.WithSessionID(context.Background(), id))
	return &SessionActor{
		state:      None,
		id:         id,
		deps:       deps,
		log:        log,
		dc:         dc.NewSnapshotDC(deps.Repo, deps.FlushEvery, log),
		dispatcher: NewDispatcher(),
	}
}

func (p *SessionActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		p.state = Init
		return
	case *actor.Stopping:
		p.stopTickLoop()
		p.stopFlushLoop()
		closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := p.dc.Close(closeCtx); err != nil {
			logx.ReportSysError(closeCtx, p.log, logx.NewSysLog("session.close", err))
		}
		p.state = Stopping
		return
	case *actor.Stopped:
		p.state = Offline
		return
	case *actor.Restarting:
		p.stopTickLoop()
		p.stopFlushLoop()
		p.state = Init
		return
	case tickMsg:
		p.tick()
		return
	case flushTick:
		if p.state != Online {
			return
		}
		if err := p.dc.Flush(context.Background()); err != nil {
			logx.ReportSysError(context.Background(), p.log, logx.NewSysLog("session.flush", err))
		}
		return
	case *messages.CreateSession:
		p.create(ctx, msg)
		return
	case *messages.CloseSession:
		ctx.Respond(&messages.Reply{})
		ctx.Stop(ctx.Self())
		return
	case messages.SessionMessage:
		if p.state != Online {
			ctx.Respond(&messages.Reply{Err: entity.ErrSessionNotOnline.WithData("session_id", p.id)})
			return
		}
		p.dispatcher.Dispatch(ctx, p, msg)
	}
}

// create 先查仓储，有记录就恢复，否则按请求建图。失败时 actor 自行退出。
func (p *SessionActor) create(ctx actor.Context, msg *messages.CreateSession) {
	if p.state != Init {
		ctx.Respond(&messages.Reply{Err: entity.ErrSessionExists.WithData("session_id", p.id)})
		return
	}
	s, err := p.build(msg)
	if err != nil {
		ctx.Respond(&messages.Reply{Err: err})
		p.state = Stopping
		ctx.Stop(ctx.Self())
		return
	}
	p.session = s
	p.session.SetSink(p.broadcast)
	p.dc.Attach(s)
	p.state = Online
	p.startFlushLoop(ctx)
	ctx.Respond(&messages.Reply{Data: p.State()})
}

func (p *SessionActor) build(msg *messages.CreateSession) (*entity.Session, error) {
	cat := p.deps.Catalog
	rec, err := p.dc.Load(context.Background(), p.id)
	if err != nil {
		return nil, err
	}

	var w *world.World
	switch {
	case rec != nil:
		w, err = world.FromSnapshot(cat, rec.Snapshot)
	case msg.Snapshot != nil:
		w, err = world.FromSnapshot(cat, *msg.Snapshot)
	default:
		width, height := msg.Width, msg.Height
		if width <= 0 {
			width = defaultMapSize
		}
		if height <= 0 {
			height = defaultMapSize
		}
		w = world.New(cat, msg.Name, width, height)
	}
	if err != nil {
		return nil, err
	}

	s, err := entity.New(p.id, cat, w, p.deps.Options, p.log)
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	if rec != nil {
		p.log.Info("session restored", zap.Uint64("version", rec.Version))
	}
	return s, nil
}

func (p *SessionActor) tick() {
	if p.state != Online || !p.session.Running() {
		return
	}
	if _, err := p.session.Advance(p.deps.now()); err != nil {
		logx.ReportSysError(context.Background(), p.log, logx.NewSysLog("session.tick", err),
			zap.Uint64("ticks", p.session.GamePlay().Ticks()))
	}
}

// broadcast 是会话的事件出口；连接已关闭的订阅者顺手移除。
func (p *SessionActor) broadcast(env event.Envelope) {
	if len(p.subscribers) == 0 {
		return
	}
	live := p.subscribers[:0]
	for _, sub := range p.subscribers {
		select {
		case <-sub.Done():
			continue
		default:
		}
		sub.Push(env.Name, env.Data)
		live = append(live, sub)
	}
	clear(p.subscribers[len(live):])
	p.subscribers = live
}

func (p *SessionActor) State() *messages.SessionState {
	s := p.session
	w := s.World()
	players := s.Players()
	stock := make(map[int][]int, len(players))
	for _, pl := range players {
		stock[pl] = s.Stock(pl)
	}
	return &messages.SessionState{
		ID:           p.id,
		Name:         w.Name(),
		Running:      s.Running(),
		Ticks:        s.GamePlay().Ticks(),
		DroppedTicks: s.GamePlay().DroppedTicks(),
		Players:      players,
		Energy:       s.Energy(),
		Stock:        stock,
		Units:        len(w.Units()),
		Buildings:    len(w.Buildings()),
		Version:      p.dc.Version(),
	}
}

func (p *SessionActor) Session() *entity.Session {
	return p.session
}

func (p *SessionActor) startTickLoop(ctx actor.Context) {
	if p.tickStop != nil || p.deps.DisableTicker {
		return
	}
	every := p.deps.Options.GamePlay.TickDuration
	if every <= 0 {
		every = gameplay.DefaultTickDuration
	}
	p.tickStop = p.loop(ctx, every, tickMsg{})
}

func (p *SessionActor) stopTickLoop() {
	if p.tickStop == nil {
		return
	}
	close(p.tickStop)
	p.tickStop = nil
}

func (p *SessionActor) startFlushLoop(ctx actor.Context) {
	if p.flushStop != nil {
		return
	}
	p.flushStop = p.loop(ctx, p.dc.FlushEvery(), flushTick{})
}

func (p *SessionActor) stopFlushLoop() {
	if p.flushStop == nil {
		return
	}
	close(p.flushStop)
	p.flushStop = nil
}

// loop 每隔 every 给自己发一次 msg，直到返回的 channel 被关闭。
func (p *SessionActor) loop(ctx actor.Context, every time.Duration, msg any) chan struct{} {
	if every <= 0 {
		return nil
	}
	stop := make(chan struct{})
	self := ctx.Self()
	root := ctx.ActorSystem().Root

	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				root.Send(self, msg)
			case <-stop:
				return
			}
		}
	}()
	return stop
}
