package statv

import (
	"testing"
)

func TestStat_LiteralDefault(t *testing.T) {
	val := NewStat[bool]("val", WithDefault(false))
	schema := NewSchema(val)

	sv, err := New(schema)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	got, err := val.Get(sv)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != false {
		t.Errorf("expected false, got %v", got)
	}
}

func TestStat_ZeroValueDefaultIsDistinct(t *testing.T) {
	// A zero default must count as "provided": construction succeeds
	// without a factory or init map.
	count := NewStat[int]("count", WithDefault(0))
	schema := NewSchema(count)

	sv, err := New(schema)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	got, err := count.Get(sv)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}

func TestStat_FactoryInvokedOncePerConstruction(t *testing.T) {
	calls := 0
	val := NewStat[int]("val", WithFactory(func() int {
		calls++
		return 7
	}))
	schema := NewSchema(val)

	sv, err := New(schema)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 factory call after construction, got %d", calls)
	}

	for i := 0; i < 3; i++ {
		if _, err := val.Get(sv); err != nil {
			t.Fatalf("Get failed: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("factory invoked on read: %d calls", calls)
	}

	if _, err := New(schema); err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 factory calls after second construction, got %d", calls)
	}
}

func TestStat_LiteralDefaultWinsOverFactory(t *testing.T) {
	calls := 0
	val := NewStat[int]("val",
		WithDefault(1),
		WithFactory(func() int {
			calls++
			return 2
		}),
	)
	schema := NewSchema(val)

	sv, err := New(schema)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	got, _ := val.Get(sv)
	if got != 1 {
		t.Errorf("expected literal default 1, got %d", got)
	}
	if calls != 0 {
		t.Errorf("factory invoked despite literal default: %d calls", calls)
	}
}

func TestStat_InitMapResolution(t *testing.T) {
	val := NewStat[int]("val")
	schema := NewSchema(val)

	sv, err := New(schema, WithInit(map[string]any{"val": 5}))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	got, _ := val.Get(sv)
	if got != 5 {
		t.Errorf("expected 5, got %d", got)
	}
}

func TestStat_MissingInitialValue(t *testing.T) {
	val := NewStat[int]("val")
	schema := NewSchema(val)

	if _, err := New(schema); err == nil {
		t.Fatal("expected construction to fail")
	} else if ErrorCode(err) != ErrCodeMissingInitialValue {
		t.Errorf("expected %s, got %q (%v)", ErrCodeMissingInitialValue, ErrorCode(err), err)
	}

	// An init map for a different id does not help.
	if _, err := New(schema, WithInit(map[string]any{"other": 1})); err == nil {
		t.Fatal("expected construction to fail with unrelated init map")
	}
}

func TestStat_InitMapWrongType(t *testing.T) {
	val := NewStat[int]("val")
	schema := NewSchema(val)

	_, err := New(schema, WithInit(map[string]any{"val": "nope"}))
	if err == nil {
		t.Fatal("expected construction to fail")
	}
	if ErrorCode(err) != ErrCodeMissingInitialValue {
		t.Errorf("expected %s, got %q", ErrCodeMissingInitialValue, ErrorCode(err))
	}
}

func TestStat_UninitializedAccess(t *testing.T) {
	val := NewStat[bool]("val", WithDefault(false))
	foreign := NewStat[bool]("other")
	schema := NewSchema(val)

	sv, err := New(schema)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := foreign.Get(sv); err == nil {
		t.Fatal("expected read of undeclared stat to fail")
	} else if ErrorCode(err) != ErrCodeUninitializedAccess {
		t.Errorf("expected %s, got %q", ErrCodeUninitializedAccess, ErrorCode(err))
	}

	if err := foreign.Set(sv, true); err == nil {
		t.Fatal("expected write of undeclared stat to fail")
	} else if ErrorCode(err) != ErrCodeUninitializedAccess {
		t.Errorf("expected %s, got %q", ErrCodeUninitializedAccess, ErrorCode(err))
	}
}

func TestStat_DuplicateValidator(t *testing.T) {
	val := NewStat[int]("val", WithDefault(0))

	first := func(_ *Stat[int], _, proposed int) int { return proposed * 2 }
	if err := val.SetValidator(first); err != nil {
		t.Fatalf("first SetValidator failed: %v", err)
	}

	err := val.SetValidator(func(_ *Stat[int], _, proposed int) int { return 0 })
	if err == nil {
		t.Fatal("expected second SetValidator to fail")
	}
	if ErrorCode(err) != ErrCodeDuplicateValidator {
		t.Errorf("expected %s, got %q", ErrCodeDuplicateValidator, ErrorCode(err))
	}

	// The first validator stays installed.
	sv, err := New(NewSchema(val))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := val.Set(sv, 3); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, _ := val.Get(sv)
	if got != 6 {
		t.Errorf("expected original validator to double the value, got %d", got)
	}
}

func TestStat_DefinitionValidatorBlocksSetValidator(t *testing.T) {
	val := NewStat[int]("val",
		WithDefault(0),
		WithValidator(Clamp(0, 10)),
	)

	err := val.SetValidator(func(_ *Stat[int], _, proposed int) int { return proposed })
	if err == nil {
		t.Fatal("expected SetValidator to fail with definition-time validator installed")
	}
	if ErrorCode(err) != ErrCodeDuplicateValidator {
		t.Errorf("expected %s, got %q", ErrCodeDuplicateValidator, ErrorCode(err))
	}
}

func TestStat_DecodeNumericWidening(t *testing.T) {
	val := NewStat[int64]("val")
	schema := NewSchema(val)

	// JSON decodes numbers as float64; YAML produces int. Both must land
	// on an int64 stat.
	sv, err := New(schema, WithInit(map[string]any{"val": float64(9)}))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	got, _ := val.Get(sv)
	if got != 9 {
		t.Errorf("expected 9, got %d", got)
	}

	sv, err = New(schema, WithInit(map[string]any{"val": int(4)}))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	got, _ = val.Get(sv)
	if got != 4 {
		t.Errorf("expected 4, got %d", got)
	}
}
