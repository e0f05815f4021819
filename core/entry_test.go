package core

import (
	"testing"
)

func TestEntryPool(t *testing.T) {
	e1 := GetEntry()
	if e1 == nil {
		t.Fatal("GetEntry() returned nil")
	}

	if len(e1.Fields) != 0 {
		t.Errorf("Expected empty fields, got %d", len(e1.Fields))
	}

	e1.Message = "test"
	e1.LoggerName = "svc.db"
	e1.Fields = append(e1.Fields, Field{Key: "test", Str: "value"})

	PutEntry(e1)

	e2 := GetEntry()
	if e2 == nil {
		t.Fatal("GetEntry() returned nil after PutEntry()")
	}

	if e2.Message != "" {
		t.Errorf("Expected empty message after pool reset, got %q", e2.Message)
	}
	if e2.LoggerName != "" {
		t.Errorf("Expected empty logger name after pool reset, got %q", e2.LoggerName)
	}
	if len(e2.Fields) != 0 {
		t.Errorf("Expected empty fields after pool reset, got %d", len(e2.Fields))
	}
}

func TestEntryClone(t *testing.T) {
	e := GetEntry()
	e.Level = WarnLevel
	e.LoggerName = "svc"
	e.Message = "original"
	e.Fields = append(e.Fields, String("k", "v"))
	e.Caller = NewCallerInfo("/src/app/main.go", 12)

	c := e.Clone()
	PutEntry(e)

	if c.Message != "original" || c.LoggerName != "svc" || c.Level != WarnLevel {
		t.Errorf("Clone() lost data: %+v", c)
	}
	if len(c.Fields) != 1 || c.Fields[0].Str != "v" {
		t.Errorf("Clone() fields = %+v", c.Fields)
	}
	if c.Caller.ShortFile != "main.go" || c.Caller.Line != 12 {
		t.Errorf("Clone() caller = %+v", c.Caller)
	}
	PutEntry(c)
}

func TestPutEntry_ClearsFieldReferences(t *testing.T) {
	e := GetEntry()
	payload := &struct{ big [1024]byte }{}
	e.Fields = append(e.Fields, Any("payload", payload))
	backing := e.Fields[:1]
	PutEntry(e)

	if backing[0].Any != nil {
		t.Error("PutEntry kept a reference to the field value")
	}
}

func TestPutEntry_DropsOversized(t *testing.T) {
	e := GetEntry()
	for i := 0; i <= maxPooledFields; i++ {
		e.Fields = append(e.Fields, Int("i", i))
	}
	PutEntry(e)
	if len(e.Fields) != maxPooledFields+1 {
		t.Error("an entry too large for the pool must be left untouched")
	}
}

func TestNewCallerInfo(t *testing.T) {
	if NewCallerInfo("", 10).Defined {
		t.Error("empty file should produce an undefined caller")
	}
	if NewCallerInfo("a.go", -1).Defined {
		t.Error("negative line should produce an undefined caller")
	}
	if ci := NewCallerInfo("/x/y/a.go", 3); !ci.Defined || ci.ShortFile != "a.go" {
		t.Errorf("NewCallerInfo() = %+v", ci)
	}
}

func TestGetCaller(t *testing.T) {
	caller := GetCaller(0)
	if !caller.Defined {
		t.Fatal("GetCaller() returned undefined CallerInfo")
	}

	if caller.File == "" {
		t.Error("Expected non-empty file")
	}
	if caller.ShortFile == "" {
		t.Error("Expected non-empty short file")
	}
	if caller.Line == 0 {
		t.Error("Expected non-zero line number")
	}
	if caller.Function == "" {
		t.Error("Expected non-empty function name")
	}
}

func TestGoroutineID(t *testing.T) {
	main := GoroutineID()
	if main == 0 {
		t.Fatal("GoroutineID() returned 0")
	}

	other := make(chan uint64)
	go func() { other <- GoroutineID() }()
	if id := <-other; id == 0 || id == main {
		t.Errorf("GoroutineID() in new goroutine = %d, main = %d", id, main)
	}
}

func BenchmarkGetEntry(b *testing.B) {
	for i := 0; i < b.N; i++ {
		e := GetEntry()
		PutEntry(e)
	}
}

func BenchmarkEntryClone(b *testing.B) {
	e := GetEntry()
	e.Message = "test message"
	e.Fields = append(e.Fields, String("key1", "value1"), Int64("key2", 42))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		PutEntry(e.Clone())
	}
}
