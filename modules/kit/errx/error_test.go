package errx

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Is_只按code比较语义(t *testing.T) {
	e1 := NewBiz("BIZ_X", "x").WithData("k", "v").WithCause(errors.New("cause1"))
	e2 := NewBiz("BIZ_X", "x2").WithData("k2", "v2").WithCause(errors.New("cause2"))
	if !errors.Is(e1, e2) {
		t.Fatalf("期望 errors.Is(e1, e2)==true，e1=%v e2=%v", e1, e2)
	}
}

func TestError_业务错误不捕获栈_但保留cause链(t *testing.T) {
	cause := errors.New("stock empty")
	err := NewBiz("BIZ_ENQUEUE_DUP", "重复入队").WithCause(cause)
	if got := err.Stack(); got != nil {
		t.Fatalf("期望业务错误不捕获栈，got=%v", got)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("期望 cause 链不丢，err=%v", err)
	}
}

func TestError_系统错误捕获一次栈_且不重复捕获(t *testing.T) {
	sys := NewSys("SYS_STORE", "存储不可用").WithCause(errors.New("io timeout"))
	if len(sys.Stack()) == 0 {
		t.Fatalf("期望系统错误捕获栈")
	}
	sys2 := NewSys("SYS_SESSION", "会话异常").WithCause(sys)
	if got := sys2.Stack(); got != nil {
		t.Fatalf("期望上层系统错误不重复捕获栈，got=%v", got)
	}
}

func TestError_致命错误创建即带栈_且可穿透包装识别(t *testing.T) {
	fatal := NewFatal("CATALOG_TYPE_UNKNOWN", "未定义的类型").WithData("type", 9)
	if len(fatal.Stack()) == 0 {
		t.Fatalf("期望致命错误创建时捕获栈")
	}
	wrapped := fmt.Errorf("load map: %w", fatal)
	if !IsFatal(wrapped) {
		t.Fatalf("期望 IsFatal 穿透 fmt 包装")
	}
	if IsFatal(ErrInternal) {
		t.Fatalf("系统错误不应被识别为致命错误")
	}
}

func TestError_Data_防止外部map污染(t *testing.T) {
	m := map[string]any{"k": "v"}
	err := NewBiz("BIZ_X", "").WithDataMap(m)
	m["k"] = "mutated"
	if got := err.Data()["k"]; got != "v" {
		t.Fatalf("期望构造时复制 data；got=%v", got)
	}
}
