// Package messages 是发给会话 actor 的请求与应答。
package messages

import (
	"Skirmish/internal/game/plugins/power"
	"Skirmish/internal/game/world"
	"Skirmish/internal/session/entity"
)

type SessionMessage interface {
	SessionID() string
}

type SessionBaseMessage struct {
	SessionId string
	PlayerId  int
}

func (m SessionBaseMessage) SessionID() string {
	return m.SessionId
}

func (m SessionBaseMessage) PlayerID() int {
	return m.PlayerId
}

// Reply 是所有请求的统一应答；Err 非空时 Data 无意义。
type Reply struct {
	Err  error
	Data any
}

// CreateSession 新建会话。Snapshot 为空时用 Width×Height 的空草地。
// 仓储里已有同 id 的记录时以记录为准。
type CreateSession struct {
	SessionBaseMessage
	Name     string
	Width    int
	Height   int
	Snapshot *world.Snapshot
}

type StartSession struct {
	SessionBaseMessage
}

type StopSession struct {
	SessionBaseMessage
}

// CloseSession 停掉 actor，最后一次落盘后释放。
type CloseSession struct {
	SessionBaseMessage
}

type ApplyCommand struct {
	SessionBaseMessage
	Command entity.Command
}

type ExportSnapshot struct {
	SessionBaseMessage
}

type ImportSnapshot struct {
	SessionBaseMessage
	Snapshot world.Snapshot
}

type QueryState struct {
	SessionBaseMessage
}

// Subscriber 接收会话事件；Done 关闭后会被移除。
type Subscriber interface {
	Push(name string, data any) bool
	Done() <-chan struct{}
}

type Subscribe struct {
	SessionBaseMessage
	Subscriber Subscriber
}

// SessionState 是 QueryState 的应答。
type SessionState struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Running      bool          `json:"running"`
	Ticks        uint64        `json:"ticks"`
	DroppedTicks uint64        `json:"droppedTicks"`
	Players      []int         `json:"players"`
	Energy       []power.Level `json:"energy"`
	Stock        map[int][]int `json:"stock"`
	Units        int           `json:"units"`
	Buildings    int           `json:"buildings"`
	Version      uint64        `json:"version"`
}
